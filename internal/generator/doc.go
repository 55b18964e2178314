// Package generator implements the constraint-propagation engine that fills a
// grid with rule-compatible model variants.
//
// ARCHITECTURE:
//
// Possibility state:
// Every (node, variant) pair is a bit in a flat bitset indexed by
// node*variantCount+variant. A parallel support-count array records, for every
// (node, variant, direction), how many still-possible variants of the
// neighbour in that direction are compatible with the variant. A per-node
// count caches the popcount of each bitset row.
//
// Generation cycle:
//  1. The node selection heuristic picks an undetermined node.
//  2. The model selection heuristic picks one of its possible variants.
//  3. Every other variant of that node is banned (collapse).
//  4. Bans propagate: each banned variant decrements the support counts of
//     the neighbour variants it supported; a count reaching zero bans that
//     variant too.
//  5. A node left with no possible variant is a contradiction.
//
// Retries:
// Generate retries a contradicted attempt up to MaxRetryCount times. Each
// retry draws the next seed from the current RNG, resets all mutable state,
// and replays the initial nodes (pregen). Seed chaining is deterministic.
//
// Observers:
// Progress is published as GenerationUpdate values onto one unbounded queue
// per Observer. The queues are the only synchronization point: a Generator
// itself must only be driven from one goroutine at a time.
//
// CRITICAL PATTERNS:
//
// Determinism:
// A Seeded RngMode, the same Rules and the same Grid always produce the same
// update sequence. Heuristics draw from the generator's RNG only.
//
// Border vs rules gap:
// A variant whose support count is zero because the node has no neighbour in
// that direction (non-looping border) stays possible. A variant whose count
// is zero although the neighbour exists can never be placed there and is
// banned during pregen.
package generator
