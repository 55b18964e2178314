// Package harness provides conformance testing for tilesets and the
// generator.
//
// A scenario names a tileset, a grid and a seed, runs one generation and
// checks its outcome with assertions and an optional golden snapshot.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: checkerboard_pinned
//	description: "A pinned corner fixes the whole board"
//	tileset: ../tilesets/checkerboard.yaml
//	grid:
//	  size: [8, 8]
//	  looping: ""
//	seed: 42
//	max_retry_count: 0
//	node_heuristic: mrv
//	initial_nodes:
//	  - at: [0, 0]
//	    model: white
//	expect:
//	  outcome: done
//	assertions:
//	  - type: cell_model
//	    at: [1, 0]
//	    model: black
//	  - type: model_count
//	    model: white
//	    count: 32
//	  - type: checkerboard
//
// # Assertion Types
//
//   - cell_model: the node at a position holds a model, optionally with a rotation
//   - model_count: a model appears an exact number of times or within min/max
//   - try_count: the number of attempts, exact or bounded by max
//   - checkerboard: no two adjacent nodes hold the same model
//   - adjacency: every adjacent pair is allowed by the compiled rules
//   - failed_node: the run contradicted, optionally at a given position
//
// # Deterministic Testing
//
// Every scenario runs with a seeded RNG, a fixed run token and a discarded
// logger, so a scenario produces the same grid, tries and update counts on
// every run. Golden snapshots (testdata/golden/<name>.golden) are compared
// with goldie.
package harness
