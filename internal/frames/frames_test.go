package frames

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pengraph/pengraph/internal/fileutil"
)

const believeFrame = `<?xml version="1.0" encoding="UTF-8"?>
<frameset>
  <predicate lemma="believe">
    <roleset id="believe.01" name="believe">
      <aliases>
        <alias framenet="" pos="v" verbnet="">believe</alias>
        <alias framenet="" pos="n" verbnet="">belief</alias>
      </aliases>
    </roleset>
  </predicate>
</frameset>
`

const giveUpFrame = `<?xml version="1.0" encoding="UTF-8"?>
<frameset>
  <predicate lemma="give-up">
    <roleset id="give_up.01" name="quit">
      <aliases>
        <alias framenet="" pos="v" verbnet="">give-up</alias>
      </aliases>
    </roleset>
  </predicate>
</frameset>
`

func writeFrameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := fileutil.WriteFile(filepath.Join(dir, "believe.xml"), []byte(believeFrame)); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.WriteFile(filepath.Join(dir, "give-up.xml"), []byte(giveUpFrame)); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestBuildPredicates(t *testing.T) {
	dir := writeFrameDir(t)

	predicates, err := BuildPredicates(dir, "")
	if err != nil {
		t.Fatalf("BuildPredicates failed: %v", err)
	}
	if len(predicates) != 2 {
		t.Fatalf("predicates = %d, want 2", len(predicates))
	}

	believe := predicates["believe"]
	if believe == nil {
		t.Fatal("predicate believe missing")
	}
	if !reflect.DeepEqual(believe.Sources, []string{"believe.xml"}) {
		t.Errorf("Sources = %v", believe.Sources)
	}
	if !reflect.DeepEqual(believe.Aliases, []string{"belief", "believe"}) {
		t.Errorf("Aliases = %v", believe.Aliases)
	}

	// Hyphenated lemmas and aliases normalize to underscores.
	giveUp := predicates["give_up"]
	if giveUp == nil {
		t.Fatal("predicate give_up missing")
	}
	if !reflect.DeepEqual(giveUp.Aliases, []string{"give_up"}) {
		t.Errorf("Aliases = %v", giveUp.Aliases)
	}
}

func TestBuildPredicatesMergesArgFile(t *testing.T) {
	dir := writeFrameDir(t)
	argPath := filepath.Join(t.TempDir(), "frames.txt")
	argFile := strings.Join([]string{
		"believe-01 ARG0: believer ARG1: content", // already known: kept as-is
		"want-01 ARG0: wanter ARG1: wanted thing",
		"",
	}, "\n")
	if err := fileutil.WriteFile(argPath, []byte(argFile)); err != nil {
		t.Fatal(err)
	}

	predicates, err := BuildPredicates(dir, argPath)
	if err != nil {
		t.Fatalf("BuildPredicates failed: %v", err)
	}

	want := predicates["want"]
	if want == nil {
		t.Fatal("predicate want missing")
	}
	if !reflect.DeepEqual(want.Sources, []string{"frames.txt"}) {
		t.Errorf("Sources = %v", want.Sources)
	}

	// The XML entry wins over the text file for a known lemma.
	believe := predicates["believe"]
	if !reflect.DeepEqual(believe.Sources, []string{"believe.xml"}) {
		t.Errorf("believe Sources = %v", believe.Sources)
	}
}

func TestWriteAndLoadPredicates(t *testing.T) {
	dir := writeFrameDir(t)
	predicates, err := BuildPredicates(dir, "")
	if err != nil {
		t.Fatalf("BuildPredicates failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "predicates.json")
	if err := WritePredicates(out, predicates); err != nil {
		t.Fatalf("WritePredicates failed: %v", err)
	}
	data, err := fileutil.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"give_up"`) {
		t.Errorf("written predicates missing give_up:\n%s", data)
	}
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.json")
	content := `{
		"believe-01": {"ARG1": "content", "ARG0": "believer"},
		"boy": {}
	}`
	if err := fileutil.WriteFile(path, []byte(content)); err != nil {
		t.Fatal(err)
	}

	lexicon, err := LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon failed: %v", err)
	}

	desc, ok := lexicon.Describe("believe-01")
	if !ok {
		t.Fatal("Describe(believe-01) missing")
	}
	// Labels sort so the description is deterministic.
	if desc != "ARG0: believer\nARG1: content" {
		t.Errorf("Describe = %q", desc)
	}

	if desc, ok := lexicon.Describe("boy"); !ok || desc != "" {
		t.Errorf("Describe(boy) = (%q, %v), want empty entry", desc, ok)
	}
	if _, ok := lexicon.Describe("absent"); ok {
		t.Error("Describe(absent) reported present")
	}
}

func TestLoadLexiconBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := fileutil.WriteFile(path, []byte("{")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLexicon(path); err == nil {
		t.Fatal("LoadLexicon accepted truncated JSON")
	}
}
