package graph

import "strings"

// OffsetIndex maps character offsets in the single-space-joined token
// text to token indices. It translates a user's character-range selection
// into the covering set of token IDs, snapping partial-word selections
// outward to whole-token boundaries.
type OffsetIndex struct {
	text   string
	begins map[int]int // token begin offset -> token index
	ends   map[int]int // token end offset (exclusive) -> token index
	spans  [][2]int    // token index -> [begin, end)
}

// NewOffsetIndex builds an index over the given token sequence.
func NewOffsetIndex(tokens []string) *OffsetIndex {
	x := &OffsetIndex{
		text:   strings.Join(tokens, " "),
		begins: make(map[int]int, len(tokens)),
		ends:   make(map[int]int, len(tokens)),
		spans:  make([][2]int, len(tokens)),
	}
	offset := 0
	for i, token := range tokens {
		begin := offset
		end := begin + len(token)
		x.begins[begin] = i
		x.ends[end] = i
		x.spans[i] = [2]int{begin, end}
		offset = end + 1 // skip the joining space
	}
	return x
}

// Text returns the joined token text the index was built over.
func (x *OffsetIndex) Text() string {
	return x.text
}

// AdjustBegin snaps a begin offset leftward to the nearest token
// boundary. An offset already at a token start is unchanged; an offset on
// a space advances past it; anything else scans backward to the position
// just after the previous space. Out-of-range offsets come back
// unchanged.
func (x *OffsetIndex) AdjustBegin(offset int) int {
	if offset < 0 || offset >= len(x.text) {
		return offset
	}
	if offset == 0 || x.text[offset-1] == ' ' {
		return offset
	}
	if x.text[offset] == ' ' {
		return offset + 1
	}
	for i := offset - 1; i >= 0; i-- {
		if x.text[i] == ' ' {
			return i + 1
		}
	}
	return 0
}

// AdjustEnd snaps an end offset rightward to the nearest token boundary,
// symmetric to AdjustBegin.
func (x *OffsetIndex) AdjustEnd(offset int) int {
	if offset <= 0 || offset > len(x.text) {
		return offset
	}
	if offset == len(x.text) || x.text[offset] == ' ' {
		return offset
	}
	if x.text[offset-1] == ' ' {
		return offset - 1
	}
	for i := offset + 1; i < len(x.text); i++ {
		if x.text[i] == ' ' {
			return i
		}
	}
	return len(x.text)
}

// TokenIDs returns the set of token indices covered by the half-open
// character interval [begin, end) after snapping to token boundaries.
// Invalid or zero-width selections yield an empty set; TokenIDs never
// fails.
func (x *OffsetIndex) TokenIDs(begin, end int) map[int]bool {
	ids := make(map[int]bool)
	if begin < 0 || begin >= len(x.text) || end <= 0 || end > len(x.text) {
		return ids
	}
	begin = x.AdjustBegin(begin)
	end = x.AdjustEnd(end)
	if begin >= end {
		return ids
	}
	first, ok := x.begins[begin]
	if !ok {
		return ids
	}
	last, ok := x.ends[end]
	if !ok {
		return ids
	}
	for i := first; i <= last; i++ {
		ids[i] = true
	}
	return ids
}

// Offset returns the [begin, end) character span of the given token, with
// ok false for out-of-range token IDs.
func (x *OffsetIndex) Offset(tokenID int) (begin, end int, ok bool) {
	if tokenID < 0 || tokenID >= len(x.spans) {
		return 0, 0, false
	}
	return x.spans[tokenID][0], x.spans[tokenID][1], true
}
