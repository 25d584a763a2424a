package graph

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"

	"github.com/pengraph/pengraph/core/errors"
)

// Corpus is the top-level structured interchange container: one graph
// record per annotated sentence.
type Corpus struct {
	Graphs []*Graph `json:"graphs"`
}

// record is the JSON shape of one graph. Maps marshal with sorted keys,
// so re-serializing a deserialized record is byte-identical.
type record struct {
	TID         string               `json:"tid"`
	Annotator   string               `json:"annotator,omitempty"`
	LastSaved   string               `json:"last_saved,omitempty"`
	Checksum    string               `json:"checksum"`
	Tokens      []string             `json:"tokens"`
	Concepts    map[string]*Concept  `json:"concepts"`
	Relations   map[string]*Relation `json:"relations"`
	Covered     []int                `json:"covered_token_ids"`
	ConceptSeq  int                  `json:"concept_seq"`
	RelationSeq int                  `json:"relation_seq"`
}

// Checksum returns the BLAKE3 hex digest of the joined token text. It is
// stored on saved records so a stale annotation file can be detected when
// the source sentence has drifted.
func (g *Graph) Checksum() string {
	sum := blake3.Sum256([]byte(g.Text()))
	return hex.EncodeToString(sum[:])
}

// ChecksumValid reports whether the checksum carried by the record this
// graph was loaded from still matches its token text. Graphs built
// through the mutation API (rather than loaded) are always valid.
func (g *Graph) ChecksumValid() bool {
	return g.checksum == "" || g.checksum == g.Checksum()
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	rec := record{
		TID:         g.TID,
		Annotator:   g.Annotator,
		LastSaved:   g.LastSaved,
		Checksum:    g.Checksum(),
		Tokens:      g.Tokens,
		Concepts:    g.Concepts,
		Relations:   g.Relations,
		Covered:     g.CoveredTokenIDs(),
		ConceptSeq:  g.conceptSeq,
		RelationSeq: g.relationSeq,
	}
	if rec.Tokens == nil {
		rec.Tokens = []string{}
	}
	if rec.Concepts == nil {
		rec.Concepts = map[string]*Concept{}
	}
	if rec.Relations == nil {
		rec.Relations = map[string]*Relation{}
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler. Each entity is rebuilt
// field by field with zero-value defaults; unknown fields are ignored.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return &errors.ParseError{Format: "graph record", Message: err.Error(), Err: err}
	}

	g.TID = rec.TID
	g.Annotator = rec.Annotator
	g.LastSaved = rec.LastSaved
	g.checksum = rec.Checksum
	g.Tokens = rec.Tokens
	if g.Tokens == nil {
		g.Tokens = []string{}
	}

	g.Concepts = make(map[string]*Concept, len(rec.Concepts))
	for cid, c := range rec.Concepts {
		if c == nil {
			return errors.NewParse("graph record", "", "null concept: "+cid)
		}
		ids := append([]int{}, c.TokenIDs...)
		for _, tid := range ids {
			if tid < 0 || tid >= len(g.Tokens) {
				return errors.NewParse("graph record", "", "token index out of range in concept "+cid)
			}
		}
		g.Concepts[cid] = &Concept{Name: c.Name, TokenIDs: ids, Attribute: c.Attribute}
	}

	g.Relations = make(map[string]*Relation, len(rec.Relations))
	for rid, r := range rec.Relations {
		if r == nil {
			return errors.NewParse("graph record", "", "null relation: "+rid)
		}
		g.Relations[rid] = &Relation{
			ParentID: r.ParentID,
			ChildID:  r.ChildID,
			Label:    r.Label,
			Referent: r.Referent,
		}
	}

	g.covered = make(map[int]bool, len(rec.Covered))
	for _, tid := range rec.Covered {
		g.covered[tid] = true
	}

	g.conceptSeq = rec.ConceptSeq
	g.relationSeq = rec.RelationSeq
	g.index = NewOffsetIndex(g.Tokens)
	return nil
}

// MarshalCorpus serializes a corpus to indented JSON with a trailing
// newline.
func MarshalCorpus(c *Corpus) ([]byte, error) {
	if c.Graphs == nil {
		c.Graphs = []*Graph{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// UnmarshalCorpus deserializes a corpus from JSON.
func UnmarshalCorpus(data []byte) (*Corpus, error) {
	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		if pe, ok := err.(*errors.ParseError); ok {
			return nil, pe
		}
		return nil, &errors.ParseError{Format: "JSON corpus", Message: err.Error(), Err: err}
	}
	return &c, nil
}
