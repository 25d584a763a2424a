// Command pengraph converts annotation corpora between the JSON graph
// format and bracketed Penman notation, and inspects corpus files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pengraph/pengraph/core/graph"
	"github.com/pengraph/pengraph/core/penman"
	"github.com/pengraph/pengraph/internal/fileutil"
	"github.com/pengraph/pengraph/internal/frames"
	"github.com/pengraph/pengraph/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for pengraph.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" help:"Log format (text, json)"`

	// Command groups (noun-first organization)
	Convert ConvertGroup `cmd:"" help:"Corpus format conversion (to-penman, to-json)"`
	Frames  FramesGroup  `cmd:"" help:"Frame lexicon operations"`
	Info    InfoCmd      `cmd:"" help:"Display corpus summary"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// ConvertGroup contains corpus conversion operations.
type ConvertGroup struct {
	ToPenman ToPenmanCmd `cmd:"" name:"to-penman" help:"Convert JSON corpus files to Penman notation"`
	ToJSON   ToJSONCmd   `cmd:"" name:"to-json" help:"Convert Penman notation files to JSON corpus"`
}

// FramesGroup contains frame lexicon operations.
type FramesGroup struct {
	Build FramesBuildCmd `cmd:"" help:"Build a predicate lexicon from frame XML files"`
}

// ToPenmanCmd converts JSON corpus files to Penman notation.
type ToPenmanCmd struct {
	Input string `short:"i" required:"" help:"Input JSON file or directory" type:"existingpath"`
	Out   string `short:"o" help:"Output directory (defaults to the input's directory)" type:"path"`
}

func (c *ToPenmanCmd) Run() error {
	inputs, outDir, err := collectInputs(c.Input, c.Out, ".json")
	if err != nil {
		return err
	}

	for _, path := range inputs {
		data, err := fileutil.ReadFile(path)
		if err != nil {
			return err
		}
		corpus, err := graph.UnmarshalCorpus(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		var docs []string
		skipped := 0
		for _, g := range corpus.Graphs {
			if len(g.Concepts) == 0 {
				skipped++
				continue
			}
			docs = append(docs, penman.Encode(g, penman.Options{AMR: true, Header: true}))
		}

		outPath := filepath.Join(outDir, fileutil.BaseName(path)+".penman")
		out := strings.Join(docs, "\n\n") + "\n"
		if err := fileutil.WriteFile(outPath, []byte(out)); err != nil {
			return err
		}

		logging.Conversion(path, outPath, len(docs), "skipped", skipped)
		fmt.Printf("Converted: %s -> %s (%d graph(s))\n", path, outPath, len(docs))
	}
	return nil
}

// ToJSONCmd converts Penman notation files to JSON corpus.
type ToJSONCmd struct {
	Input string `short:"i" required:"" help:"Input Penman file or directory" type:"existingpath"`
	Out   string `short:"o" help:"Output directory (defaults to the input's directory)" type:"path"`
}

func (c *ToJSONCmd) Run() error {
	inputs, outDir, err := collectInputs(c.Input, c.Out, ".penman")
	if err != nil {
		return err
	}

	for _, path := range inputs {
		graphs, err := penman.DecodeFile(path)
		if err != nil {
			return err
		}

		data, err := graph.MarshalCorpus(&graph.Corpus{Graphs: graphs})
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		outPath := filepath.Join(outDir, fileutil.BaseName(path)+".json")
		if err := fileutil.WriteFile(outPath, data); err != nil {
			return err
		}

		logging.Conversion(path, outPath, len(graphs))
		fmt.Printf("Converted: %s -> %s (%d graph(s))\n", path, outPath, len(graphs))
	}
	return nil
}

// collectInputs resolves a file-or-directory input to the list of files
// to convert and the directory converted files are written to.
func collectInputs(input, out, ext string) ([]string, string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, "", err
	}

	var inputs []string
	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(input, "*"+ext))
		if err != nil {
			return nil, "", err
		}
		if len(matches) == 0 {
			return nil, "", fmt.Errorf("no %s files found in %s", ext, input)
		}
		inputs = matches
	} else {
		inputs = []string{input}
	}

	outDir := out
	if outDir == "" {
		if info.IsDir() {
			outDir = input
		} else {
			outDir = filepath.Dir(input)
		}
	}
	return inputs, outDir, nil
}

// FramesBuildCmd builds a predicate lexicon from frame XML files.
type FramesBuildCmd struct {
	FrameDir string `arg:"" help:"Directory of frame XML files" type:"existingdir"`
	Args     string `help:"Argument description file to merge" type:"existingfile"`
	Out      string `required:"" help:"Output JSON path" type:"path"`
}

func (c *FramesBuildCmd) Run() error {
	predicates, err := frames.BuildPredicates(c.FrameDir, c.Args)
	if err != nil {
		return err
	}
	if err := frames.WritePredicates(c.Out, predicates); err != nil {
		return err
	}
	fmt.Printf("Lexicon written: %s (%d predicate(s))\n", c.Out, len(predicates))
	return nil
}

// InfoCmd displays a per-graph summary of a corpus file.
type InfoCmd struct {
	Path string `arg:"" help:"Path to a JSON or Penman corpus file" type:"existingfile"`
}

func (c *InfoCmd) Run() error {
	data, err := fileutil.ReadFile(c.Path)
	if err != nil {
		return err
	}

	var graphs []*graph.Graph
	if hasExt(c.Path, ".json") {
		corpus, err := graph.UnmarshalCorpus(data)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Path, err)
		}
		graphs = corpus.Graphs
	} else {
		graphs, err = penman.DecodeString(string(data))
		if err != nil {
			return err
		}
	}

	fmt.Printf("Corpus: %s\n", c.Path)
	fmt.Printf("  Graphs: %d\n", len(graphs))
	fmt.Println()

	for i, g := range graphs {
		tid := g.TID
		if tid == "" {
			tid = fmt.Sprintf("(untitled %d)", i)
		}
		fmt.Printf("  %s\n", tid)
		if g.Annotator != "" {
			fmt.Printf("    Annotator: %s\n", g.Annotator)
		}
		fmt.Printf("    Tokens: %d (%d covered)\n", len(g.Tokens), len(g.CoveredTokenIDs()))
		fmt.Printf("    Concepts: %d\n", len(g.Concepts))
		fmt.Printf("    Relations: %d\n", len(g.Relations))
		roots := g.RootIDs()
		if len(roots) > 0 {
			fmt.Printf("    Roots: %s\n", strings.Join(roots, ", "))
		}
	}
	return nil
}

// hasExt reports whether the path carries the given extension, looking
// under a trailing .gz/.xz compression suffix.
func hasExt(path, ext string) bool {
	e := strings.ToLower(filepath.Ext(path))
	if e == ".gz" || e == ".xz" {
		path = strings.TrimSuffix(path, filepath.Ext(path))
		e = strings.ToLower(filepath.Ext(path))
	}
	return e == ext
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("pengraph %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pengraph"),
		kong.Description("Annotation graph corpus tools: Penman notation conversion and inspection."),
		kong.UsageOnError(),
	)

	var format logging.Format
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), format)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pengraph: %v\n", err)
		os.Exit(1)
	}
}
