// Package rules compiles user models into the adjacency table consumed by the
// generator.
//
// Users declare Sockets through a SocketCollection, connect them, and
// describe each Model by the sockets exposed on every face plus a weight and
// a set of allowed rotations. New expands every (model, rotation) pair into a
// Variant and computes, for every variant and direction, the ordered list of
// variants that may sit next to it.
//
// ROTATIONS:
//
// Rotation happens around one axis (Z for 2D models, Y by default for 3D).
// Sockets on the four lateral faces move with the rotation. Sockets on the two
// axis faces stay in place and instead carry the variant's rotation, which
// matters for rotated connections: a rotated connection only matches two
// variants with the same rotation.
//
// A Rules value is immutable once built. Share the pointer between any number
// of generators, including generators running on other goroutines.
package rules
