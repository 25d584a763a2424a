package graph

import (
	"reflect"
	"sort"
	"strings"
	"testing"
)

// The joined text is "The boy want the girl not to believe him":
//
//	The[0,3) boy[4,7) want[8,12) the[13,16) girl[17,21)
//	not[22,25) to[26,28) believe[29,36) him[37,40)
func testIndex() *OffsetIndex {
	return NewOffsetIndex(strings.Fields(sentence))
}

func TestOffsetIndexText(t *testing.T) {
	x := testIndex()
	if x.Text() != sentence {
		t.Errorf("Text() = %q, want %q", x.Text(), sentence)
	}
}

func TestAdjustBegin(t *testing.T) {
	x := testIndex()
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},   // start of text
		{4, 4},   // already at a token start
		{5, 4},   // inside "boy": snap back to its start
		{6, 4},   // still inside "boy"
		{3, 4},   // on the space before "boy": advance past it
		{30, 29}, // inside "believe"
		{-1, -1}, // out of range: unchanged
		{40, 40}, // end of text: unchanged
		{41, 41}, // past the end: unchanged
	}
	for _, tt := range tests {
		if got := x.AdjustBegin(tt.offset); got != tt.want {
			t.Errorf("AdjustBegin(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestAdjustEnd(t *testing.T) {
	x := testIndex()
	tests := []struct {
		offset int
		want   int
	}{
		{40, 40}, // end of text
		{7, 7},   // already at a token end (on the space)
		{5, 7},   // inside "boy": snap forward to its end
		{8, 7},   // just past the space: retreat to the previous end
		{38, 40}, // inside "him" at the end of the text
		{0, 0},   // out of range: unchanged
		{-2, -2}, // negative: unchanged
		{41, 41}, // past the end: unchanged
	}
	for _, tt := range tests {
		if got := x.AdjustEnd(tt.offset); got != tt.want {
			t.Errorf("AdjustEnd(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestTokenIDs(t *testing.T) {
	x := testIndex()
	tests := []struct {
		name       string
		begin, end int
		want       []int
	}{
		{"exact token", 4, 7, []int{1}},
		{"partial word snaps outward", 5, 6, []int{1}},
		{"ragged multi-token selection", 3, 8, []int{1}},
		{"two tokens", 4, 12, []int{1, 2}},
		{"whole text", 0, 40, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"negative begin", -1, 7, nil},
		{"end past text", 4, 41, nil},
		{"zero end", 4, 0, nil},
		{"collapses to nothing", 4, 4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := x.TokenIDs(tt.begin, tt.end)
			got := make([]int, 0, len(set))
			for id := range set {
				got = append(got, id)
			}
			sort.Ints(got)
			if len(tt.want) == 0 && len(got) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TokenIDs(%d, %d) = %v, want %v", tt.begin, tt.end, got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	x := testIndex()

	begin, end, ok := x.Offset(1)
	if !ok || begin != 4 || end != 7 {
		t.Errorf("Offset(1) = (%d, %d, %v), want (4, 7, true)", begin, end, ok)
	}
	if _, _, ok := x.Offset(-1); ok {
		t.Error("Offset(-1) reported ok")
	}
	if _, _, ok := x.Offset(9); ok {
		t.Error("Offset(9) reported ok")
	}
}

func TestOffsetIndexEmpty(t *testing.T) {
	x := NewOffsetIndex(nil)
	if x.Text() != "" {
		t.Errorf("Text() = %q, want empty", x.Text())
	}
	if got := x.TokenIDs(0, 1); len(got) != 0 {
		t.Errorf("TokenIDs on empty index = %v", got)
	}
}
