package schemalang

import (
	"strings"

	"github.com/tasprorepo/pgmodeler"
)

// Render evaluates the template against an attribute map. Unknown
// attributes render empty; conditionals treat non-empty values as true.
func (t *Template) Render(attribs pgmodeler.AttribMap) string {
	var sb strings.Builder

	renderNodes(&sb, t.Nodes, attribs)

	return sb.String()
}

func renderNodes(sb *strings.Builder, nodes []*Node, attribs pgmodeler.AttribMap) {
	for _, n := range nodes {
		switch {
		case n.If != nil:
			cond := attribs.Bool(n.If.Cond)
			if n.If.Not {
				cond = !cond
			}

			if cond {
				renderNodes(sb, n.If.Then, attribs)
			} else {
				renderNodes(sb, n.If.Else, attribs)
			}
		case n.Attr != "":
			sb.WriteString(attribs[n.AttrName()])
		case n.Escape != "":
			switch n.Escape {
			case "$br":
				sb.WriteString("\n")
			case "$tb":
				sb.WriteString("\t")
			case "$sp":
				sb.WriteString(" ")
			}
		case n.Literal != "":
			sb.WriteString(n.LiteralText())
		default:
			sb.WriteString(n.Text)
		}
	}
}
