package penman

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pengraph/pengraph/core/errors"
	"github.com/pengraph/pengraph/core/graph"
)

// DecodeFile parses every document in the named file.
func DecodeFile(path string) ([]*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	graphs, err := Decode(f)
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return graphs, nil
}

// DecodeString parses every document in the given notation text.
func DecodeString(s string) ([]*graph.Graph, error) {
	return Decode(strings.NewReader(s))
}

// Decode parses a stream of Penman documents: optional "#"-comment
// metadata lines, one or more bracketed trees per document, blank lines
// between documents. On any structural error the whole read fails with a
// line-numbered ParseError and no graphs are returned — partial output is
// never to be trusted.
func Decode(r io.Reader) ([]*graph.Graph, error) {
	d := &decoder{meta: map[string]string{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		d.line++
		if err := d.consume(strings.TrimSpace(scanner.Text())); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", "", err)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return d.graphs, nil
}

// decoder holds the incremental parse state: the ancestor chain of open
// nodes, the symbol table from local node names to generated concept IDs,
// and the relation label waiting for its target.
type decoder struct {
	graphs []*graph.Graph

	meta  map[string]string // accumulated "::key value" pairs
	g     *graph.Graph      // document under construction, nil between documents
	names map[string]string // local name -> generated concept ID
	stack []string          // generated IDs of currently open nodes

	pending    string // relation label waiting for a node or constant
	hasPending bool

	line int
}

func (d *decoder) errf(format string, args ...interface{}) error {
	return errors.NewParseLine("Penman", d.line, fmt.Sprintf(format, args...))
}

func (d *decoder) consume(line string) error {
	switch {
	case line == "":
		// Blank line: closes the current document, drops any stray
		// comment metadata that never attached to one.
		if len(d.stack) > 0 {
			return d.errf("blank line inside an open graph")
		}
		if d.g != nil {
			return d.closeDocument()
		}
		d.meta = map[string]string{}
		return nil

	case strings.HasPrefix(line, "#"):
		if d.g != nil {
			if len(d.stack) > 0 {
				return d.errf("comment inside an open graph")
			}
			if err := d.closeDocument(); err != nil {
				return err
			}
		}
		d.readMeta(line)
		return nil

	default:
		return d.tokens(line)
	}
}

func (d *decoder) finish() error {
	if len(d.stack) > 0 {
		return d.errf("unexpected end of input: %d unclosed node(s)", len(d.stack))
	}
	if d.g != nil {
		return d.closeDocument()
	}
	return nil
}

// readMeta accumulates "::key value" pairs from a comment line. A single
// line may carry several pairs.
func (d *decoder) readMeta(line string) {
	line = strings.TrimLeft(line, "#")
	for _, segment := range strings.Split(line, "::")[1:] {
		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		d.meta[fields[0]] = strings.Join(fields[1:], " ")
	}
}

// tokens scans one content line left to right.
func (d *decoder) tokens(line string) error {
	// Normalize spacing around parentheses so "( x" and "x )" tokenize
	// the same as "(x" and "x)".
	for strings.Contains(line, "( ") {
		line = strings.ReplaceAll(line, "( ", "(")
	}
	for strings.Contains(line, " )") {
		line = strings.ReplaceAll(line, " )", ")")
	}

	fields := strings.Fields(line)
	for i := 0; i < len(fields); {
		tok := fields[i]
		switch {
		case strings.HasPrefix(tok, "("):
			if i+2 >= len(fields) || fields[i+1] != "/" {
				return d.errf("expected %q to be followed by / and a concept name", tok)
			}
			name := fields[i+2]
			closes := len(name) - len(strings.TrimRight(name, ")"))
			name = strings.TrimRight(name, ")")
			if tok == "(" || name == "" {
				return d.errf("malformed node %q", strings.Join(fields[i:i+3], " "))
			}
			if err := d.openNode(tok[1:], name, closes); err != nil {
				return err
			}
			i += 3

		case strings.HasPrefix(tok, ":"):
			if len(tok) == 1 {
				return d.errf("empty relation label")
			}
			if len(d.stack) == 0 {
				return d.errf("relation label %q with no open node", tok)
			}
			if d.hasPending {
				return d.errf("relation label :%s has no target", d.pending)
			}
			d.pending = tok[1:]
			d.hasPending = true
			i++

		default:
			closes := len(tok) - len(strings.TrimRight(tok, ")"))
			bare := strings.TrimRight(tok, ")")
			if bare == "" {
				// Bare closing parentheses.
				if d.hasPending {
					return d.errf("relation label :%s has no target", d.pending)
				}
				if err := d.pop(closes); err != nil {
					return err
				}
				i++
				continue
			}
			if err := d.constant(bare, closes); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

// openNode registers a defining occurrence "(local / name" and closes
// `closes` enclosing nodes afterward.
func (d *decoder) openNode(local, name string, closes int) error {
	if d.g == nil {
		d.open()
	}
	if _, dup := d.names[local]; dup {
		return d.errf("duplicate node name %q", local)
	}

	cid, _ := d.g.AddConcept(name, nil, false)
	d.names[local] = cid

	if len(d.stack) > 0 {
		if !d.hasPending {
			return d.errf("node %q opened without a relation label", local)
		}
		d.g.AddRelation(d.top(), cid, d.pending, false)
		d.hasPending = false
	} else if d.hasPending {
		return d.errf("relation label :%s has no parent node", d.pending)
	}

	d.stack = append(d.stack, cid)
	return d.pop(closes)
}

// constant handles a non-parenthesized token: a reentrant reference when
// the name is already registered, otherwise a literal attribute value.
func (d *decoder) constant(bare string, closes int) error {
	if len(d.stack) == 0 {
		return d.errf("constant %q outside any node", bare)
	}
	if !d.hasPending {
		return d.errf("constant %q without a relation label", bare)
	}

	if cid, ok := d.names[bare]; ok {
		d.g.AddRelation(d.top(), cid, d.pending, true)
	} else {
		aid, _ := d.g.AddConcept(bare, nil, true)
		d.g.AddRelation(d.top(), aid, d.pending, false)
	}
	d.hasPending = false
	return d.pop(closes)
}

func (d *decoder) top() string {
	return d.stack[len(d.stack)-1]
}

func (d *decoder) pop(n int) error {
	if n > len(d.stack) {
		return d.errf("unbalanced closing parenthesis")
	}
	d.stack = d.stack[:len(d.stack)-n]
	return nil
}

// open starts a new document, consuming the accumulated metadata.
func (d *decoder) open() {
	d.g = graph.New(d.meta[keySentence], d.meta[keyTID], d.meta[keyAnnotator])
	d.g.LastSaved = d.meta[keySaveDate]
	d.names = map[string]string{}
}

// closeDocument finalizes the document under construction: folds literal
// attributes that name an existing node into reentrant references,
// applies alignment metadata, and appends the graph to the result list.
func (d *decoder) closeDocument() error {
	if d.hasPending {
		return d.errf("relation label :%s has no target", d.pending)
	}
	if err := d.foldReferences(); err != nil {
		return err
	}
	if err := d.applyAlignment(); err != nil {
		return err
	}
	d.graphs = append(d.graphs, d.g)
	d.g = nil
	d.names = nil
	d.meta = map[string]string{}
	return nil
}

// foldReferences rewrites every attribute whose literal value is the
// local name of a defined node: its incoming edge becomes a reentrant
// reference to that node and the synthetic attribute is removed (no
// cascade; attributes have no outgoing edges).
func (d *decoder) foldReferences() error {
	var fold []string
	for cid, c := range d.g.Concepts {
		if c.Attribute && d.names[c.Name] != "" {
			fold = append(fold, cid)
		}
	}
	sort.Strings(fold)
	for _, cid := range fold {
		target := d.names[d.g.GetConcept(cid).Name]
		for _, r := range d.g.Relations {
			if r.ChildID == cid {
				r.ChildID = target
				r.Referent = true
			}
		}
		d.g.RemoveConcept(cid, false)
	}
	return nil
}

// applyAlignment decodes the "align" metadata value and anchors each
// listed concept to its token indices.
func (d *decoder) applyAlignment() error {
	value := d.meta[keyAlign]
	if value == "" {
		return nil
	}
	entries, err := parseAlignment(value)
	if err != nil {
		return d.errf("malformed alignment %q: %v", value, err)
	}
	for _, entry := range entries {
		cid, ok := d.names[entry.Node]
		if !ok {
			return d.errf("alignment references unknown node %q", entry.Node)
		}
		if !d.g.SetConceptTokens(cid, entry.Tokens) {
			return d.errf("alignment for %q has token indices out of range", entry.Node)
		}
	}
	return nil
}
