package graph

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pengraph/pengraph/core/errors"
)

func TestCorpusRoundTripBytes(t *testing.T) {
	g, _ := buildScenario(t)
	g.LastSaved = "2026-08-29 10:00:00"
	corpus := &Corpus{Graphs: []*Graph{g}}

	first, err := MarshalCorpus(corpus)
	if err != nil {
		t.Fatalf("MarshalCorpus failed: %v", err)
	}
	loaded, err := UnmarshalCorpus(first)
	if err != nil {
		t.Fatalf("UnmarshalCorpus failed: %v", err)
	}
	second, err := MarshalCorpus(loaded)
	if err != nil {
		t.Fatalf("re-MarshalCorpus failed: %v", err)
	}

	// Saving a freshly loaded corpus must reproduce the file byte for
	// byte, including map key order.
	if !bytes.Equal(first, second) {
		t.Errorf("round trip not byte-identical:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}

func TestRoundTripPreservesState(t *testing.T) {
	g, ids := buildScenario(t)
	g.RemoveConcept(ids["girl"], true)

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var loaded Graph
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if loaded.TID != g.TID || loaded.Annotator != g.Annotator {
		t.Errorf("metadata = (%q, %q), want (%q, %q)", loaded.TID, loaded.Annotator, g.TID, g.Annotator)
	}
	if len(loaded.Concepts) != 3 {
		t.Errorf("Concepts = %d, want 3", len(loaded.Concepts))
	}
	if !loaded.IsCovered(1) || loaded.IsCovered(4) {
		t.Error("coverage set not restored")
	}
	if !loaded.ChecksumValid() {
		t.Error("ChecksumValid = false on an untouched reload")
	}

	// The counters travel with the record: a reloaded graph never
	// reuses the removed concept's ID.
	next, _ := loaded.AddConcept("new", nil, false)
	if next != "c4" {
		t.Errorf("ID after reload = %q, want c4", next)
	}
	rid := loaded.AddRelation("c0", "c1", "mod", false)
	if rid != "r4" {
		t.Errorf("relation ID after reload = %q, want r4", rid)
	}
}

func TestChecksumDetectsDrift(t *testing.T) {
	g, _ := buildScenario(t)
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Simulate the source sentence changing under a saved annotation.
	tampered := bytes.Replace(data, []byte(`"girl"`), []byte(`"lady"`), -1)
	var loaded Graph
	if err := json.Unmarshal(tampered, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if loaded.ChecksumValid() {
		t.Error("ChecksumValid = true after the token text changed")
	}
}

func TestUnmarshalRejectsBadTokenIndex(t *testing.T) {
	data := []byte(`{
		"tid": "t", "checksum": "", "tokens": ["a", "b"],
		"concepts": {"c0": {"name": "x", "token_ids": [5]}},
		"relations": {}, "covered_token_ids": [],
		"concept_seq": 1, "relation_seq": 0
	}`)
	var g Graph
	err := json.Unmarshal(data, &g)
	if err == nil {
		t.Fatal("Unmarshal accepted an out-of-range token index")
	}
	var pe *errors.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("error type = %T, want *errors.ParseError", err)
	}
}

func TestUnmarshalCorpusBadJSON(t *testing.T) {
	if _, err := UnmarshalCorpus([]byte("{")); err == nil {
		t.Fatal("UnmarshalCorpus accepted truncated JSON")
	}
}

func TestMarshalEmptyGraph(t *testing.T) {
	g := New("", "t", "u")
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, key := range []string{`"tokens":[]`, `"concepts":{}`, `"relations":{}`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("marshaled empty graph missing %s: %s", key, data)
		}
	}
}
