package schemalang

// Template is the parsed form of one schema template file.
type Template struct {
	Nodes []*Node `parser:"@@*"`
}

// Node is one template element: a conditional, attribute reference,
// escape, verbatim block or plain text run.
type Node struct {
	If      *IfNode `parser:"@@"`
	Attr    string  `parser:"| @Attr"`
	Escape  string  `parser:"| @Escape"`
	Literal string  `parser:"| @Literal"`
	Text    string  `parser:"| @Text"`
}

// IfNode is a conditional over one attribute. The condition is true
// when the attribute value is non-empty, inverted by "not".
type IfNode struct {
	Not  bool    `parser:"If @Not?"`
	Cond string  `parser:"@Ident"`
	Then []*Node `parser:"CondThen @@*"`
	Else []*Node `parser:"(Else @@*)? End"`
}

// AttrName strips the braces from an Attr token value.
func (n *Node) AttrName() string {
	if len(n.Attr) < 2 {
		return ""
	}

	return n.Attr[1 : len(n.Attr)-1]
}

// LiteralText strips the brackets from a Literal token value.
func (n *Node) LiteralText() string {
	if len(n.Literal) < 2 {
		return ""
	}

	return n.Literal[1 : len(n.Literal)-1]
}

// Attributes returns every attribute name the template references,
// in first-appearance order. Conditionals count as references.
func (t *Template) Attributes() []string {
	seen := map[string]bool{}

	var names []string

	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			switch {
			case n.If != nil:
				if !seen[n.If.Cond] {
					seen[n.If.Cond] = true
					names = append(names, n.If.Cond)
				}

				walk(n.If.Then)
				walk(n.If.Else)
			case n.Attr != "":
				name := n.AttrName()
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}

	walk(t.Nodes)

	return names
}
