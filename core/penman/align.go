package penman

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// alignList is the participle grammar for the "align" metadata value:
// space-separated "id/i,j,k" entries, e.g. "c0/1 c2/3,4".
//
//nolint:govet // participle grammar tags are not standard struct tags
type alignList struct {
	Entries []*alignEntry `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type alignEntry struct {
	Node   string `parser:"@Ident \"/\""`
	Tokens []int  `parser:"@Int ( \",\" @Int )*"`
}

var alignLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[/,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var alignParser = participle.MustBuild[alignList](
	participle.Lexer(alignLexer),
	participle.Elide("Whitespace"),
)

// parseAlignment parses an alignment metadata value into its entries.
func parseAlignment(s string) ([]*alignEntry, error) {
	parsed, err := alignParser.ParseString("", s)
	if err != nil {
		return nil, err
	}
	return parsed.Entries, nil
}
