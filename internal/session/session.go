// Package session holds the editing state the annotation editor works
// against: the list of sentence graphs loaded from one file, a cursor,
// and the current parent/child selection. It is an explicit context
// object — every operation goes through the Workspace value, and nothing
// here is global.
package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pengraph/pengraph/core/errors"
	"github.com/pengraph/pengraph/core/graph"
	"github.com/pengraph/pengraph/internal/fileutil"
	"github.com/pengraph/pengraph/internal/logging"
)

// saveDateLayout is the timestamp format written to saved records.
const saveDateLayout = "2006-01-02 15:04:05"

// Workspace is one annotator's editing session over one file.
// Single-threaded by contract: a Workspace has exactly one owner.
type Workspace struct {
	// ID identifies this session in logs.
	ID string

	// Annotator is the annotator ID stamped on every graph.
	Annotator string

	// Filename is the annotation (JSON) file the session saves to.
	Filename string

	// SelectedParent and SelectedChild are the concept IDs picked in the
	// editor for the next relation, empty when nothing is selected.
	SelectedParent string
	SelectedChild  string

	graphs []*graph.Graph
	cursor int

	now func() time.Time
}

// NewWorkspace creates an empty session for the given annotator.
func NewWorkspace(annotator string) *Workspace {
	return &Workspace{
		ID:        uuid.NewString(),
		Annotator: annotator,
		cursor:    -1,
		now:       time.Now,
	}
}

// OpenText loads a plain-text file, one sentence per line, creating one
// fresh graph per sentence with IDs "<base>.<i>". If an annotation file
// for this annotator already exists next to it, that file is opened
// instead.
func (w *Workspace) OpenText(path string) error {
	jsonPath := fileutil.TrimExt(path) + "." + w.Annotator + ".json"
	if _, err := fileutil.ReadFile(jsonPath); err == nil {
		logging.Info("annotation exists for text file, opening it instead",
			"session", w.ID, "path", jsonPath)
		return w.OpenJSON(jsonPath)
	}

	lines, err := fileutil.ReadLines(path)
	if err != nil {
		return errors.NewIO("read", path, err)
	}

	base := fileutil.BaseName(path)
	graphs := make([]*graph.Graph, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tid := fmt.Sprintf("%s.%d", base, i)
		graphs = append(graphs, graph.New(line, tid, w.Annotator))
	}

	w.graphs = graphs
	w.Filename = jsonPath
	w.reset()
	logging.Info("opened text file", "session", w.ID, "path", path, "sentences", len(graphs))
	return nil
}

// OpenJSON loads a previously saved annotation file.
func (w *Workspace) OpenJSON(path string) error {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return errors.NewIO("read", path, err)
	}
	corpus, err := graph.UnmarshalCorpus(data)
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok {
			pe.Path = path
		}
		return err
	}
	for _, g := range corpus.Graphs {
		if !g.ChecksumValid() {
			logging.Warn("sentence text changed since annotation was saved",
				"session", w.ID, "tid", g.TID)
		}
	}

	w.graphs = corpus.Graphs
	w.Filename = path
	w.reset()
	logging.Info("opened annotation file", "session", w.ID, "path", path, "sentences", len(w.graphs))
	return nil
}

func (w *Workspace) reset() {
	w.cursor = -1
	if len(w.graphs) > 0 {
		w.cursor = 0
	}
	w.SelectedParent = ""
	w.SelectedChild = ""
}

// Save writes every graph back to the session's annotation file,
// stamping the save date.
func (w *Workspace) Save() error {
	if w.Filename == "" {
		return errors.NewValidation("filename", "no file is open")
	}
	return w.SaveAs(w.Filename)
}

// SaveAs writes every graph to the named file.
func (w *Workspace) SaveAs(path string) error {
	date := w.now().Format(saveDateLayout)
	for _, g := range w.graphs {
		g.LastSaved = date
	}
	data, err := graph.MarshalCorpus(&graph.Corpus{Graphs: w.graphs})
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(path, data); err != nil {
		return errors.NewIO("write", path, err)
	}
	w.Filename = path
	logging.Info("saved annotation file", "session", w.ID, "path", path, "sentences", len(w.graphs))
	return nil
}

// Len returns the number of loaded sentences.
func (w *Workspace) Len() int {
	return len(w.graphs)
}

// Cursor returns the index of the current sentence, -1 when none is
// loaded.
func (w *Workspace) Cursor() int {
	return w.cursor
}

// Graphs returns the loaded graphs in order.
func (w *Workspace) Graphs() []*graph.Graph {
	return w.graphs
}

// Current returns the graph under the cursor, or nil when nothing is
// loaded.
func (w *Workspace) Current() *graph.Graph {
	if w.cursor < 0 || w.cursor >= len(w.graphs) {
		return nil
	}
	return w.graphs[w.cursor]
}

// Goto moves the cursor to the given index, clearing the selection.
// Out-of-range indices are rejected and leave the cursor in place.
func (w *Workspace) Goto(i int) bool {
	if i < 0 || i >= len(w.graphs) {
		return false
	}
	w.cursor = i
	w.SelectedParent = ""
	w.SelectedChild = ""
	return true
}

// Next advances the cursor; at the last sentence it stays put.
func (w *Workspace) Next() bool {
	return w.Goto(w.cursor + 1)
}

// Prev moves the cursor back; at the first sentence it stays put.
func (w *Workspace) Prev() bool {
	return w.Goto(w.cursor - 1)
}

// SelectParent marks a concept of the current graph as the parent for
// the next relation. Unknown IDs are rejected.
func (w *Workspace) SelectParent(conceptID string) bool {
	g := w.Current()
	if g == nil || g.GetConcept(conceptID) == nil {
		return false
	}
	w.SelectedParent = conceptID
	return true
}

// SelectChild marks a concept of the current graph as the child for the
// next relation. Unknown IDs are rejected.
func (w *Workspace) SelectChild(conceptID string) bool {
	g := w.Current()
	if g == nil || g.GetConcept(conceptID) == nil {
		return false
	}
	w.SelectedChild = conceptID
	return true
}

// Deselect clears both selections.
func (w *Workspace) Deselect() {
	w.SelectedParent = ""
	w.SelectedChild = ""
}

// ConnectSelected adds a relation from the selected parent to the
// selected child and clears the selection. It returns the relation ID,
// or "" when the selection is incomplete.
func (w *Workspace) ConnectSelected(label string, referent bool) string {
	g := w.Current()
	if g == nil || w.SelectedParent == "" || w.SelectedChild == "" {
		return ""
	}
	rid := g.AddRelation(w.SelectedParent, w.SelectedChild, label, referent)
	w.Deselect()
	return rid
}

// DisplayName returns the base name of the open file, for window titles.
func (w *Workspace) DisplayName() string {
	if w.Filename == "" {
		return ""
	}
	return filepath.Base(w.Filename)
}
