// Package grid implements addressing and topology for cartesian grids.
//
// A Grid is an immutable description of a 2D or 3D lattice: its size along
// each axis, whether each axis loops, and the set of directions a node can
// reach its neighbours through. Nodes are addressed by a linear index:
//
//	index = x + y*sizeX + z*(sizeX*sizeY)
//
// Neighbour lookups are precomputed at construction so the propagation hot
// path never recomputes coordinates.
//
// GridData pairs a Grid with one value per node. Generators use it for their
// output and observers use it for snapshots.
package grid
