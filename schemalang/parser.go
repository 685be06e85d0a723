package schemalang

import (
	"github.com/alecthomas/participle/v2"
)

// Parser is the schema template parser instance.
var Parser = participle.MustBuild[Template](
	participle.Lexer(templateLexer),
	participle.Elide("CondWS"),
	participle.UseLookahead(2),
)

// Parse parses schema template source into its AST. The filename is
// used in error positions.
func Parse(filename, source string) (*Template, error) {
	return Parser.ParseString(filename, source)
}
