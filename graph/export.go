package graph

import (
	"fmt"
	"strings"
)

// Dot renders the graph in Graphviz DOT form. Inheritance edges point
// child to parent with an empty arrowhead; each invocation chain hangs
// off its top invoker.
func (b *Builder) Dot() string {
	var sb strings.Builder
	sb.WriteString("digraph invocations {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	ids := newIDTable()
	for _, e := range b.Edges() {
		fmt.Fprintf(&sb, "  %s [label=%q];\n", ids.get(e.Child), e.Child)
		fmt.Fprintf(&sb, "  %s [label=%q];\n", ids.get(e.Parent), e.Parent)
		fmt.Fprintf(&sb, "  %s -> %s [arrowhead=empty];\n", ids.get(e.Child), ids.get(e.Parent))
	}

	for _, c := range b.Chains() {
		receiver := c.Node.TopInvoker()
		if receiver == "" {
			receiver = "(global)"
		}
		label := c.Node.String()
		chainID := ids.get("chain:" + label)
		fmt.Fprintf(&sb, "  %s [label=%q];\n", ids.get(receiver), receiver)
		fmt.Fprintf(&sb, "  %s [label=%q style=rounded];\n", chainID, label)
		fmt.Fprintf(&sb, "  %s -> %s [label=\"x%d\"];\n", ids.get(receiver), chainID, c.Count)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// Mermaid renders the graph as a Mermaid "graph TD" diagram.
func (b *Builder) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := newIDTable()
	for _, e := range b.Edges() {
		fmt.Fprintf(&sb, "  %s[%q] --> %s[%q]\n",
			ids.get(e.Child), e.Child, ids.get(e.Parent), e.Parent)
	}
	for _, c := range b.Chains() {
		receiver := c.Node.TopInvoker()
		if receiver == "" {
			receiver = "(global)"
		}
		label := c.Node.String()
		fmt.Fprintf(&sb, "  %s[%q] --> %s[%q]\n",
			ids.get(receiver), receiver, ids.get("chain:"+label), label)
	}
	return sb.String()
}

// idTable hands out short alphanumeric node IDs, since rendered chain
// text is full of characters DOT and Mermaid identifiers cannot carry.
type idTable struct {
	ids  map[string]string
	next int
}

func newIDTable() *idTable {
	return &idTable{ids: make(map[string]string)}
}

func (t *idTable) get(name string) string {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := fmt.Sprintf("N%d", t.next)
	t.next++
	t.ids[name] = id
	return id
}
