package penman

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pengraph/pengraph/core/graph"
)

// Options controls the rendered notation.
type Options struct {
	// AMR renders attribute nodes as bare literal values after their
	// relation label instead of "(aN / value)". An attribute that is the
	// target of a reentrant reference keeps its defining form so the
	// reference still has a name to resolve to.
	AMR bool

	// Header emits the "#"-comment metadata block (sentence ID, save
	// date, annotator, token text, alignment line) before the trees.
	Header bool
}

// Metadata keys used in the comment header.
const (
	keyTID       = "tid"
	keyAnnotator = "annotator"
	keySaveDate  = "save-date"
	keySentence  = "snt"
	keyAlign     = "align"
)

// noToken is the sentinel first-token value for nodes that reach no
// anchored token.
const noToken = math.MaxInt

// EncodeGraphs renders one bracketed tree per root in deterministic
// order: roots ascend by first anchored token (ID order on ties), and at
// every node the outgoing relations ascend by the first anchored token of
// their target.
func EncodeGraphs(g *graph.Graph, opts Options) []string {
	e := &encoder{g: g, opts: opts, first: firstTokenIDs(g)}

	roots := g.RootIDs()
	sort.SliceStable(roots, func(i, j int) bool {
		return e.first[roots[i]] < e.first[roots[j]]
	})

	trees := make([]string, 0, len(roots))
	for _, root := range roots {
		var sb strings.Builder
		e.printed = map[string]bool{}
		e.node(&sb, root, "")
		trees = append(trees, sb.String())
	}
	return trees
}

// Encode renders a whole document: the optional metadata header followed
// by every tree, newline-separated.
func Encode(g *graph.Graph, opts Options) string {
	var sb strings.Builder
	if opts.Header {
		writeHeader(&sb, g, opts)
	}
	sb.WriteString(strings.Join(EncodeGraphs(g, opts), "\n"))
	return sb.String()
}

type encoder struct {
	g       *graph.Graph
	opts    Options
	first   map[string]int
	printed map[string]bool // defined earlier in the current tree
}

// node prints the defining occurrence of cid and its subtree. indent is
// the column prefix of the node's relation lines.
func (e *encoder) node(sb *strings.Builder, cid, indent string) {
	c := e.g.GetConcept(cid)
	sb.WriteString("(" + cid + " / " + c.Name)
	e.printed[cid] = true
	indent += strings.Repeat(" ", len(cid)+2)

	entries := e.g.ChildRelations(cid, false)
	sort.SliceStable(entries, func(i, j int) bool {
		fi, fj := e.first[entries[i].Relation.ChildID], e.first[entries[j].Relation.ChildID]
		if fi != fj {
			return fi < fj
		}
		return entries[i].Relation.Label < entries[j].Relation.Label
	})

	for _, entry := range entries {
		r := entry.Relation
		sb.WriteString("\n" + indent + ":" + r.Label + " ")
		child := e.g.GetConcept(r.ChildID)
		switch {
		case r.Referent || e.printed[r.ChildID]:
			// Reentrant reference: a bare ID, never re-expanded. An
			// unmarked edge back into an already-printed node is treated
			// the same way, which keeps traversal finite on cyclic input.
			sb.WriteString(r.ChildID)
		case e.opts.AMR && child != nil && child.Attribute && !isReferenced(e.g, r.ChildID):
			sb.WriteString(child.Name)
		case child == nil:
			// Dangling edge to a removed concept; a bare ID keeps the
			// output well-formed.
			sb.WriteString(r.ChildID)
		default:
			e.node(sb, r.ChildID, indent+strings.Repeat(" ", len(r.Label)+2))
		}
	}
	sb.WriteString(")")
}

// isReferenced reports whether the concept is the target of a reentrant
// edge somewhere in the graph.
func isReferenced(g *graph.Graph, cid string) bool {
	for _, r := range g.Relations {
		if r.ChildID == cid && r.Referent {
			return true
		}
	}
	return false
}

// firstTokenIDs computes the smallest anchored token index reachable from
// each concept through non-referential descendants. Unanchored leaves
// keep the sentinel. The propagation runs to a fixed point with at most
// one pass per node; if it stops making progress earlier, remaining
// sentinels stay in place.
func firstTokenIDs(g *graph.Graph) map[string]int {
	first := make(map[string]int, len(g.Concepts))
	for cid, c := range g.Concepts {
		first[cid] = noToken
		if len(c.TokenIDs) > 0 {
			first[cid] = c.TokenIDs[0]
		}
	}
	for pass := 0; pass < len(g.Concepts); pass++ {
		changed := false
		for _, r := range g.Relations {
			if r.Referent {
				continue
			}
			cf, ok := first[r.ChildID]
			if !ok {
				continue
			}
			if pf, ok := first[r.ParentID]; ok && cf < pf {
				first[r.ParentID] = cf
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return first
}

// writeHeader emits the metadata comment block. The alignment line lists
// every anchored concept as "id/i,j,k", ordered by first anchored token.
// Attributes that the body renders as bare literals have no name in the
// notation, so they are left out of the alignment line.
func writeHeader(sb *strings.Builder, g *graph.Graph, opts Options) {
	writeMeta(sb, keyTID, g.TID)
	writeMeta(sb, keyAnnotator, g.Annotator)
	writeMeta(sb, keySaveDate, g.LastSaved)
	writeMeta(sb, keySentence, g.Text())

	type anchored struct {
		id    string
		first int
	}
	var list []anchored
	for cid, c := range g.Concepts {
		if len(c.TokenIDs) == 0 {
			continue
		}
		if opts.AMR && c.Attribute && !isReferenced(g, cid) && len(g.ParentRelations(cid, true)) > 0 {
			continue
		}
		list = append(list, anchored{id: cid, first: c.TokenIDs[0]})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].first != list[j].first {
			return list[i].first < list[j].first
		}
		return list[i].id < list[j].id
	})
	if len(list) == 0 {
		return
	}
	entries := make([]string, 0, len(list))
	for _, a := range list {
		ids := g.GetConcept(a.id).TokenIDs
		ss := make([]string, len(ids))
		for i, tid := range ids {
			ss[i] = strconv.Itoa(tid)
		}
		entries = append(entries, a.id+"/"+strings.Join(ss, ","))
	}
	writeMeta(sb, keyAlign, strings.Join(entries, " "))
}

func writeMeta(sb *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	sb.WriteString("# ::" + key + " " + value + "\n")
}
