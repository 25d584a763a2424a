// Package graph provides the annotation graph for one tokenized
// sentence: concepts anchored to token spans, labeled relations between
// them, and the bookkeeping that keeps the two consistent.
//
// # Model
//
//   - Concept: a node, either an introduced variable (predicate/entity)
//     or a constant attribute. Concepts carry a sorted set of token
//     indices into the sentence's token sequence.
//   - Relation: a labeled directed edge. A relation marked Referent
//     points back to an already-defined node (reentrancy) instead of
//     introducing a fresh child.
//   - Coverage: non-attribute concepts claim their token indices; an
//     insertion touching an already-claimed index is rejected, so spans
//     never overlap. Attributes bypass coverage.
//
// Generated IDs ("c3", "a1", "r7") carry a monotonically increasing
// suffix scoped to one graph and are never reused, even after deletion.
//
// # Selection snapping
//
// OffsetIndex translates a character range over the space-joined token
// text into a set of token indices, snapping partial-word selections
// outward to whole-token boundaries.
//
// # Interchange
//
// A Corpus serializes to a flat JSON shape (one record per sentence,
// including the ID counters and a BLAKE3 checksum of the token text).
// Deserializing a previously serialized corpus reproduces byte-identical
// re-serialization.
//
// Graphs are freely mutable by a single owner; nothing here is safe for
// concurrent mutation.
package graph
