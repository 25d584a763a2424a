package graph

import (
	"sort"
	"strconv"
	"strings"
)

// Concept is a node in the annotation graph: either an introduced variable
// (predicate or entity) or a constant attribute value.
type Concept struct {
	// Name is the concept label (e.g., "believe-01", "boy", or a literal like "-").
	Name string `json:"name"`

	// TokenIDs are the indices of the tokens this concept is anchored to,
	// kept sorted in ascending order. Empty for unanchored nodes.
	TokenIDs []int `json:"token_ids"`

	// Attribute is true if this node denotes a constant value rather than
	// an introduced variable.
	Attribute bool `json:"attribute,omitempty"`
}

// Relation is a labeled directed edge between two concepts.
type Relation struct {
	// ParentID is the ID of the parent concept.
	ParentID string `json:"parent_id"`

	// ChildID is the ID of the child concept.
	ChildID string `json:"child_id"`

	// Label is the role of this relation (e.g., "ARG0", "mod", "location-of").
	Label string `json:"label"`

	// Referent is true if the child is a reentrant reference to a node
	// defined elsewhere in the traversal rather than a fresh child.
	Referent bool `json:"referent,omitempty"`
}

// RelationEntry pairs a relation with its ID for lookups that return
// multiple relations.
type RelationEntry struct {
	ID       string
	Relation *Relation
}

// Graph owns the annotation graph for one sentence: its token sequence,
// concepts, relations, token-coverage bookkeeping, and metadata.
//
// A Graph is not safe for concurrent mutation; it is designed for a
// single-owner, single-document editing model.
type Graph struct {
	// TID is the sentence ID (e.g., "doc.3").
	TID string

	// Annotator is the annotator ID.
	Annotator string

	// LastSaved is the timestamp of the last save, empty if never saved.
	LastSaved string

	// Tokens is the whitespace-split token sequence of the sentence.
	// It is fixed for the lifetime of the graph.
	Tokens []string

	// Concepts maps concept ID to Concept.
	Concepts map[string]*Concept

	// Relations maps relation ID to Relation.
	Relations map[string]*Relation

	covered     map[int]bool // token indices claimed by non-attribute concepts
	conceptSeq  int          // next numeric suffix for c*/a* IDs
	relationSeq int          // next numeric suffix for r* IDs
	checksum    string       // checksum carried by the loaded record, if any
	index       *OffsetIndex
}

// New creates an empty graph for the given sentence text. The text is
// split on whitespace into the token sequence; redundant spaces are
// dropped in the process.
func New(text, tid, annotator string) *Graph {
	tokens := strings.Fields(text)
	return &Graph{
		TID:       tid,
		Annotator: annotator,
		Tokens:    tokens,
		Concepts:  make(map[string]*Concept),
		Relations: make(map[string]*Relation),
		covered:   make(map[int]bool),
		index:     NewOffsetIndex(tokens),
	}
}

// Text returns the single-space-joined token text.
func (g *Graph) Text() string {
	return strings.Join(g.Tokens, " ")
}

// Index returns the offset/token index over the joined token text.
func (g *Graph) Index() *OffsetIndex {
	return g.index
}

// AddConcept adds a concept anchored to the given token indices and
// returns its generated ID. Concept IDs are prefixed "c", attribute IDs
// "a"; the numeric suffix is shared, monotonically increasing, and never
// reused.
//
// A non-attribute concept is rejected (returning "", false, with no
// mutation) if any of its token indices is already covered by another
// non-attribute concept. Attributes bypass the coverage check and do not
// claim tokens.
func (g *Graph) AddConcept(name string, tokenIDs []int, attribute bool) (string, bool) {
	ids := make([]int, len(tokenIDs))
	copy(ids, tokenIDs)
	sort.Ints(ids)

	if !attribute {
		for _, tid := range ids {
			if g.covered[tid] {
				return "", false
			}
		}
	}

	prefix := "c"
	if attribute {
		prefix = "a"
	}
	id := prefix + strconv.Itoa(g.conceptSeq)
	g.conceptSeq++

	g.Concepts[id] = &Concept{Name: name, TokenIDs: ids, Attribute: attribute}
	if !attribute {
		for _, tid := range ids {
			g.covered[tid] = true
		}
	}
	return id, true
}

// GetConcept returns the concept with the given ID, or nil if absent.
func (g *Graph) GetConcept(id string) *Concept {
	return g.Concepts[id]
}

// UpdateConcept renames the concept with the given ID and returns it,
// or nil if absent.
func (g *Graph) UpdateConcept(id, name string) *Concept {
	c := g.Concepts[id]
	if c == nil {
		return nil
	}
	c.Name = name
	return c
}

// RemoveConcept removes the concept with the given ID and returns it, or
// nil if absent. If cascade is true, every relation whose parent or child
// is this concept is removed as well. The concept's token indices are
// always retracted from the coverage set. The ID is not recycled.
func (g *Graph) RemoveConcept(id string, cascade bool) *Concept {
	c := g.Concepts[id]
	if c == nil {
		return nil
	}
	if cascade {
		for rid, r := range g.Relations {
			if r.ParentID == id || r.ChildID == id {
				delete(g.Relations, rid)
			}
		}
	}
	if !c.Attribute {
		for _, tid := range c.TokenIDs {
			delete(g.covered, tid)
		}
	}
	delete(g.Concepts, id)
	return c
}

// SetConceptTokens replaces the token anchoring of an existing concept.
// Previous indices are retracted from the coverage set, the new indices
// are claimed (attributes never claim coverage). It returns false if the
// concept is absent or any index is out of token range; the graph is left
// unmodified in that case.
//
// Unlike AddConcept, no overlap check is performed: this is the alignment
// path used when reconstructing a graph from decoded metadata.
func (g *Graph) SetConceptTokens(id string, tokenIDs []int) bool {
	c := g.Concepts[id]
	if c == nil {
		return false
	}
	ids := make([]int, len(tokenIDs))
	copy(ids, tokenIDs)
	sort.Ints(ids)
	for _, tid := range ids {
		if tid < 0 || tid >= len(g.Tokens) {
			return false
		}
	}
	if !c.Attribute {
		for _, tid := range c.TokenIDs {
			delete(g.covered, tid)
		}
		for _, tid := range ids {
			g.covered[tid] = true
		}
	}
	c.TokenIDs = ids
	return true
}

// AddRelation adds a labeled edge from parent to child and returns its
// generated ID ("r" prefix, monotonic suffix). Endpoint existence is not
// verified here; callers are expected to have validated the IDs. The
// Penman decoder relies on this to build edges incrementally.
func (g *Graph) AddRelation(parentID, childID, label string, referent bool) string {
	id := "r" + strconv.Itoa(g.relationSeq)
	g.relationSeq++
	g.Relations[id] = &Relation{ParentID: parentID, ChildID: childID, Label: label, Referent: referent}
	return id
}

// GetRelation returns the relation with the given ID, or nil if absent.
func (g *Graph) GetRelation(id string) *Relation {
	return g.Relations[id]
}

// UpdateRelation relabels the relation with the given ID and returns it,
// or nil if absent.
func (g *Graph) UpdateRelation(id, label string) *Relation {
	r := g.Relations[id]
	if r == nil {
		return nil
	}
	r.Label = label
	return r
}

// RemoveRelation removes the relation with the given ID and returns it,
// or nil if absent.
func (g *Graph) RemoveRelation(id string) *Relation {
	r := g.Relations[id]
	if r == nil {
		return nil
	}
	delete(g.Relations, id)
	return r
}

// ChildRelations returns the outgoing relations of the given parent,
// ordered by relation ID suffix. If ignoreReferent is true, reentrant
// edges are excluded.
func (g *Graph) ChildRelations(parentID string, ignoreReferent bool) []RelationEntry {
	if g.Concepts[parentID] == nil {
		return nil
	}
	var entries []RelationEntry
	for rid, r := range g.Relations {
		if r.ParentID != parentID {
			continue
		}
		if ignoreReferent && r.Referent {
			continue
		}
		entries = append(entries, RelationEntry{ID: rid, Relation: r})
	}
	sortEntries(entries)
	return entries
}

// ParentRelations returns the incoming relations of the given child,
// ordered by relation ID suffix. If ignoreReferent is true, reentrant
// edges are excluded.
func (g *Graph) ParentRelations(childID string, ignoreReferent bool) []RelationEntry {
	if g.Concepts[childID] == nil {
		return nil
	}
	var entries []RelationEntry
	for rid, r := range g.Relations {
		if r.ChildID != childID {
			continue
		}
		if ignoreReferent && r.Referent {
			continue
		}
		entries = append(entries, RelationEntry{ID: rid, Relation: r})
	}
	sortEntries(entries)
	return entries
}

// ParentIDs returns the sorted set of parent concept IDs of the given
// concept.
func (g *Graph) ParentIDs(childID string, ignoreReferent bool) []string {
	seen := make(map[string]bool)
	for _, e := range g.ParentRelations(childID, ignoreReferent) {
		seen[e.Relation.ParentID] = true
	}
	return sortedIDs(seen)
}

// ChildIDs returns the sorted set of child concept IDs of the given
// concept.
func (g *Graph) ChildIDs(parentID string, ignoreReferent bool) []string {
	seen := make(map[string]bool)
	for _, e := range g.ChildRelations(parentID, ignoreReferent) {
		seen[e.Relation.ChildID] = true
	}
	return sortedIDs(seen)
}

// IsAncestor reports whether ancestorID is reachable from id by walking
// parent edges upward. If ignoreReferent is true, reentrant back-edges
// are not followed, which gives structural (tree) ancestry. The walk is
// cycle-safe.
func (g *Graph) IsAncestor(ancestorID, id string, ignoreReferent bool) bool {
	visited := make(map[string]bool)
	return g.isAncestor(ancestorID, id, ignoreReferent, visited)
}

func (g *Graph) isAncestor(ancestorID, id string, ignoreReferent bool, visited map[string]bool) bool {
	if visited[id] {
		return false
	}
	visited[id] = true
	for _, e := range g.ParentRelations(id, ignoreReferent) {
		pid := e.Relation.ParentID
		if pid == ancestorID {
			return true
		}
		if g.isAncestor(ancestorID, pid, ignoreReferent, visited) {
			return true
		}
	}
	return false
}

// RootIDs returns the IDs of all concepts with no incoming non-referential
// relation, sorted by numeric ID suffix in ascending order.
func (g *Graph) RootIDs() []string {
	var roots []string
	for cid := range g.Concepts {
		if len(g.ParentRelations(cid, true)) == 0 {
			roots = append(roots, cid)
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		return lessID(roots[i], roots[j])
	})
	return roots
}

// GetTokens returns the token strings at the given indices, ordered by
// index regardless of input order. Out-of-range indices are skipped.
func (g *Graph) GetTokens(tokenIDs []int) []string {
	ids := make([]int, len(tokenIDs))
	copy(ids, tokenIDs)
	sort.Ints(ids)
	tokens := make([]string, 0, len(ids))
	for _, tid := range ids {
		if tid < 0 || tid >= len(g.Tokens) {
			continue
		}
		tokens = append(tokens, g.Tokens[tid])
	}
	return tokens
}

// IsCovered reports whether the given token index is claimed by a
// non-attribute concept.
func (g *Graph) IsCovered(tokenID int) bool {
	return g.covered[tokenID]
}

// CoveredTokenIDs returns the sorted token indices claimed by
// non-attribute concepts.
func (g *Graph) CoveredTokenIDs() []int {
	ids := make([]int, 0, len(g.covered))
	for tid := range g.covered {
		ids = append(ids, tid)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns a fully independent deep copy of the graph.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		TID:         g.TID,
		Annotator:   g.Annotator,
		LastSaved:   g.LastSaved,
		Tokens:      append([]string(nil), g.Tokens...),
		Concepts:    make(map[string]*Concept, len(g.Concepts)),
		Relations:   make(map[string]*Relation, len(g.Relations)),
		covered:     make(map[int]bool, len(g.covered)),
		conceptSeq:  g.conceptSeq,
		relationSeq: g.relationSeq,
		checksum:    g.checksum,
	}
	for cid, c := range g.Concepts {
		clone.Concepts[cid] = &Concept{
			Name:      c.Name,
			TokenIDs:  append([]int{}, c.TokenIDs...),
			Attribute: c.Attribute,
		}
	}
	for rid, r := range g.Relations {
		cp := *r
		clone.Relations[rid] = &cp
	}
	for tid := range g.covered {
		clone.covered[tid] = true
	}
	clone.index = NewOffsetIndex(clone.Tokens)
	return clone
}

// idSuffix returns the numeric suffix of a generated ID, or -1 when the
// ID does not follow the <prefix><digits> shape.
func idSuffix(id string) int {
	if len(id) < 2 {
		return -1
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil {
		return -1
	}
	return n
}

// lessID orders generated IDs by numeric suffix, falling back to
// lexicographic order for foreign IDs.
func lessID(a, b string) bool {
	sa, sb := idSuffix(a), idSuffix(b)
	if sa >= 0 && sb >= 0 && sa != sb {
		return sa < sb
	}
	return a < b
}

func sortEntries(entries []RelationEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return lessID(entries[i].ID, entries[j].ID)
	})
}

func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return lessID(ids[i], ids[j])
	})
	return ids
}
