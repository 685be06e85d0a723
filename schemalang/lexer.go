package schemalang

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// templateLexer tokenizes schema templates. Conditions after %if live
// in their own lexer state so the whitespace separating keywords from
// attribute names is elided instead of captured as text.
var templateLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "If", Pattern: `%if`, Action: lexer.Push("Cond")},
		{Name: "Then", Pattern: `%then`},
		{Name: "Else", Pattern: `%else`},
		{Name: "End", Pattern: `%end`},

		// $br, $tb, $sp escapes
		{Name: "Escape", Pattern: `\$(?:br|tb|sp)`},

		// {attribute} reference, dash-form names
		{Name: "Attr", Pattern: `\{[a-zA-Z_][a-zA-Z0-9_-]*\}`},

		// [ verbatim block ]
		{Name: "Literal", Pattern: `\[[^\]]*\]`},

		// Everything else is plain text, newlines included
		{Name: "Text", Pattern: `[^{%$\[]+`},
	},
	"Cond": {
		{Name: "CondWS", Pattern: `[ \t]+`, Action: nil},
		// Trailing whitespace is part of the token so attribute names
		// that merely start with "not" (not-null-bool) lex as Ident.
		{Name: "Not", Pattern: `not[ \t]+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`},
		{Name: "CondThen", Pattern: `%then`, Action: lexer.Pop()},
	},
})
