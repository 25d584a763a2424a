// Package penman converts annotation graphs to and from the bracketed
// Penman notation used for interchange and human review.
//
// # Notation
//
// A document is an optional block of "#"-comment metadata lines carrying
// "::key value" pairs, followed by one or more parenthesized trees (one
// per graph root). A node's defining occurrence is "(id / name"; a
// reentrant reference is a bare id; a constant attribute is a bare
// literal value. Blank lines separate independent documents in a
// multi-document stream.
//
//	# ::tid example.0
//	# ::snt The boy want the girl to believe him
//	# ::align c0/1 c1/2 c2/4
//	(c1 / want-01
//	    :ARG0 (c0 / boy)
//	    :ARG1 (c3 / believe-01
//	              :ARG1 c0
//	              :ARG0 (c2 / girl)))
//
// # Determinism
//
// Encoding is deterministic: roots and children are ordered by the first
// anchored token reachable through non-referential descendants, with ID
// order breaking ties, so equal graphs always render to equal text.
//
// # Errors
//
// Decoding is strict. Any structural error aborts the whole read with a
// line-numbered ParseError; callers must treat a failed parse as "do not
// trust partial output."
package penman
