// Package invoke holds the data model for a parsed method-invocation
// chain: a tree of invocations with two surface syntaxes (Objective-C
// style bracket sends and Swift style dot calls), canonical text
// renderings, and content-based identity used to deduplicate
// structurally-equivalent calls found in different dialects.
package invoke

import (
	"hash/fnv"
	"strings"
)

// Style distinguishes the two surface syntaxes a Node can come from.
type Style int

const (
	StyleBracket Style = iota
	StyleDotCall
)

func (s Style) String() string {
	if s == StyleBracket {
		return "bracket"
	}
	return "dotcall"
}

type InvokerKind int

const (
	// InvokerName is a bare identifier, the root of a chain.
	InvokerName InvokerKind = iota
	// InvokerMethod is a nested call whose result is invoked further.
	InvokerMethod
)

// Invoker is the receiver of an invocation. It is a closed two-variant
// sum: a bare name, or a nested invocation node. Node is set only for
// InvokerMethod, Name only for InvokerName.
type Invoker struct {
	Kind InvokerKind
	Name string
	Node *Node
}

func NameInvoker(name string) Invoker {
	return Invoker{Kind: InvokerName, Name: name}
}

func MethodInvoker(n *Node) Invoker {
	return Invoker{Kind: InvokerMethod, Node: n}
}

// Param is one argument slot of an invocation: its label (empty for
// unlabeled arguments) and any invocations discovered inside the
// argument expression.
type Param struct {
	Name   string
	Nested []*Node
}

// Node is a single parsed invocation. The invoker chain and the nested
// invocations hanging off each param form a finite tree rooted here;
// nodes are never shared and never mutated after construction.
type Node struct {
	Style   Style
	Invoker Invoker
	Method  string // dot-call style only
	Params  []Param
}

// TopInvoker unwraps the invoker chain to its root name, giving the
// outermost receiver of the whole chain.
func (n *Node) TopInvoker() string {
	switch n.Invoker.Kind {
	case InvokerName:
		return n.Invoker.Name
	case InvokerMethod:
		return n.Invoker.Node.TopInvoker()
	}
	return ""
}

// String renders the node in its own syntax.
//
// Bracket style prints "[<invoker> <param names>]" with the param names
// space-joined, recursing into a nested bracket invoker. Dot-call style
// prints "<invoker>.<method>(<label1>:, <label2>:, ...)" where an
// unlabeled argument prints as "_" and an empty root invoker prints as
// nothing, so a root call carries no leading dot.
func (n *Node) String() string {
	switch n.Style {
	case StyleBracket:
		return n.bracketString()
	default:
		return n.dotCallString()
	}
}

func (n *Node) bracketString() string {
	var sb strings.Builder
	sb.WriteByte('[')
	switch n.Invoker.Kind {
	case InvokerName:
		sb.WriteString(n.Invoker.Name)
	case InvokerMethod:
		sb.WriteString(n.Invoker.Node.String())
	}
	for _, p := range n.Params {
		sb.WriteByte(' ')
		sb.WriteString(p.Name)
	}
	sb.WriteByte(']')
	return sb.String()
}

func (n *Node) dotCallString() string {
	var sb strings.Builder
	switch n.Invoker.Kind {
	case InvokerName:
		if n.Invoker.Name != "" {
			sb.WriteString(n.Invoker.Name)
			sb.WriteByte('.')
		}
	case InvokerMethod:
		sb.WriteString(n.Invoker.Node.String())
		sb.WriteByte('.')
	}
	sb.WriteString(n.Method)
	sb.WriteByte('(')
	for i, p := range n.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		name := p.Name
		if name == "" {
			name = "_"
		}
		sb.WriteString(name)
		sb.WriteByte(':')
	}
	sb.WriteByte(')')
	return sb.String()
}

// Hash is the content hash used for deduplication. It covers only the
// surface signature: the ordered param names for bracket style, the
// method name plus ordered param labels for dot-call style. Nested
// argument invocations are deliberately excluded, so two calls with the
// same signature but different argument expressions collapse into one.
// The style participates in the hash, so cross-style nodes never
// hash-equal.
func (n *Node) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(n.Style.String()))
	h.Write([]byte{0})
	if n.Style == StyleDotCall {
		h.Write([]byte(n.Method))
		h.Write([]byte{0})
	}
	for _, p := range n.Params {
		h.Write([]byte(p.Name))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Equal reports whether two nodes are the same invocation for
// deduplication purposes. Nodes of different styles are never equal.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.Style == o.Style && n.Hash() == o.Hash()
}
