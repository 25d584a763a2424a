// Package frames provides the concept/relation description lexica the
// annotation editor consults: flat JSON lookup tables, plus the build
// step that derives them from PropBank frame files.
package frames

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/pengraph/pengraph/core/errors"
	"github.com/pengraph/pengraph/internal/fileutil"
)

// Lexicon maps a concept name (e.g., "believe-01") to a display
// description assembled from its argument roles.
type Lexicon map[string]string

// Describe returns the description for a concept name. A missing entry
// is an ordinary absent lookup, never an error.
func (l Lexicon) Describe(name string) (string, bool) {
	desc, ok := l[name]
	return desc, ok
}

// LoadLexicon reads a JSON lexicon of the shape
// {"frame": {"ARG0": "description", ...}, ...} and flattens each entry
// to one "label: description" line per argument, sorted by label.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}

	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &errors.ParseError{Format: "lexicon", Path: path, Message: err.Error(), Err: err}
	}

	lexicon := make(Lexicon, len(raw))
	for frame, args := range raw {
		labels := make([]string, 0, len(args))
		for label := range args {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		lines := make([]string, 0, len(labels))
		for _, label := range labels {
			lines = append(lines, label+": "+args[label])
		}
		lexicon[frame] = strings.Join(lines, "\n")
	}
	return lexicon, nil
}

// FrameEntry records where a predicate frame came from and the aliases
// it is known under.
type FrameEntry struct {
	Sources []string `json:"sources"`
	Aliases []string `json:"aliases"`
}

// BuildPredicates scans a directory of PropBank frame XML files and an
// AMR frame-description text file and returns the merged predicate
// table. Hyphens in lemmas are normalized to underscores.
func BuildPredicates(frameDir, argFile string) (map[string]*FrameEntry, error) {
	paths, err := filepath.Glob(filepath.Join(frameDir, "*.xml"))
	if err != nil {
		return nil, errors.NewIO("list", frameDir, err)
	}
	sort.Strings(paths)

	predicates := make(map[string]*FrameEntry)
	aliases := make(map[string]map[string]bool)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NewIO("open", path, err)
		}
		doc, err := xmlquery.Parse(f)
		f.Close()
		if err != nil {
			return nil, &errors.ParseError{Format: "frame XML", Path: path, Message: err.Error(), Err: err}
		}

		source := filepath.Base(path)
		for _, pred := range xmlquery.Find(doc, "//predicate") {
			lemma := strings.ReplaceAll(pred.SelectAttr("lemma"), "-", "_")
			if lemma == "" {
				continue
			}
			entry := predicates[lemma]
			if entry == nil {
				entry = &FrameEntry{}
				predicates[lemma] = entry
				aliases[lemma] = map[string]bool{lemma: true}
			}
			entry.Sources = append(entry.Sources, source)
			for _, alias := range xmlquery.Find(pred, ".//alias") {
				if text := strings.TrimSpace(alias.InnerText()); text != "" {
					aliases[lemma][strings.ReplaceAll(text, "-", "_")] = true
				}
			}
		}
	}

	if argFile != "" {
		lines, err := fileutil.ReadLines(argFile)
		if err != nil {
			return nil, errors.NewIO("read", argFile, err)
		}
		source := filepath.Base(argFile)
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			lemma := fields[0]
			if i := strings.LastIndex(lemma, "-"); i >= 0 {
				lemma = lemma[:i]
			}
			lemma = strings.ReplaceAll(lemma, "-", "_")
			if lemma == "" || predicates[lemma] != nil {
				continue
			}
			predicates[lemma] = &FrameEntry{Sources: []string{source}, Aliases: []string{lemma}}
		}
	}

	for lemma, set := range aliases {
		list := make([]string, 0, len(set))
		for alias := range set {
			list = append(list, alias)
		}
		sort.Strings(list)
		predicates[lemma].Aliases = list
	}
	return predicates, nil
}

// WritePredicates saves a predicate table as indented JSON.
func WritePredicates(path string, predicates map[string]*FrameEntry) error {
	data, err := json.MarshalIndent(predicates, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFile(path, append(data, '\n'))
}
