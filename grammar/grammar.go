// Package grammar extracts method-invocation chains and inheritance
// facts from a token stream. It is built entirely out of the parse
// package's combinators: bracket-style message sends ([receiver part:
// arg ...]) and dot-call chains (recv.method(label: arg).next(...))
// both produce invoke.Node trees, and type declarations produce
// inheritance edges. Extraction is forgiving: when nothing matches at
// the current position the extractor skips one token and keeps going,
// so a single malformed expression never sinks the rest of the file.
package grammar

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/invograph/invograph/invoke"
	"github.com/invograph/invograph/parse"
)

// Inheritance is one child-extends-parent fact. A declaration that
// lists several parents yields one edge per name.
type Inheritance struct {
	Child  string
	Parent string
}

// FoundInvocation pairs an extracted chain with the source region it
// was parsed from.
type FoundInvocation struct {
	Node *invoke.Node
	Span parse.Span
}

type FileResult struct {
	File        string
	Invocations []FoundInvocation
	Inheritance []Inheritance
}

// Extractor owns the compiled grammar. Building the parsers once and
// sharing them across files is safe, including from concurrent scans:
// a run mutates nothing except the one-time resolution inside Lazy,
// which is synchronized.
type Extractor struct {
	log         commonlog.Logger
	msgSend     parse.Parser[*invoke.Node]
	invocation  parse.Parser[*invoke.Node]
	inheritance parse.Parser[[]Inheritance]
}

func New(log commonlog.Logger) *Extractor {
	e := &Extractor{log: log}
	e.msgSend = e.buildMessageSend()
	e.invocation = parse.Or(e.msgSend, e.buildDotCall())
	e.inheritance = parse.Or(e.objcInterface(), e.typeDecl())
	return e
}

// ExtractSource tokenizes src and extracts everything in one pass.
func (e *Extractor) ExtractSource(src []byte, file string) FileResult {
	return e.ExtractFile(file, parse.Tokenize(src, file))
}

// ExtractFile runs the continuous scan over an already-tokenized file.
func (e *Extractor) ExtractFile(file string, ts []parse.Token) FileResult {
	res := FileResult{File: file}
	rest := ts
	for len(rest) > 0 {
		if edges, next, err := e.inheritance(rest); err == nil && len(next) < len(rest) {
			res.Inheritance = append(res.Inheritance, edges...)
			rest = next
			continue
		}
		if node, next, err := e.invocation(rest); err == nil && len(next) < len(rest) {
			res.Invocations = append(res.Invocations, FoundInvocation{
				Node: node,
				Span: spanOf(rest, next),
			})
			rest = next
			continue
		}
		rest = rest[1:]
	}
	if e.log != nil {
		e.log.Debugf("extracted %d invocations, %d inheritance edges from %s",
			len(res.Invocations), len(res.Inheritance), file)
	}
	return res
}

// scanNested finds invocations inside a captured argument expression.
// Same skip-one-token discipline as the file-level scan, on a strictly
// smaller stream.
func (e *Extractor) scanNested(ts []parse.Token) []*invoke.Node {
	var out []*invoke.Node
	rest := ts
	for len(rest) > 0 {
		if node, next, err := e.invocation(rest); err == nil && len(next) < len(rest) {
			out = append(out, node)
			rest = next
			continue
		}
		rest = rest[1:]
	}
	return out
}

func spanOf(before, after []parse.Token) parse.Span {
	consumed := before[:len(before)-len(after)]
	return parse.Span{
		Start: consumed[0].Span.Start,
		End:   consumed[len(consumed)-1].Span.End,
	}
}

var (
	identP     = parse.Term(parse.TokenIdent)
	dotP       = parse.Term(parse.TokenDot)
	commaP     = parse.Term(parse.TokenComma)
	colonP     = parse.Term(parse.TokenColon)
	atP        = parse.Term(parse.TokenAt)
	lParenP    = parse.Term(parse.TokenLParen)
	rParenP    = parse.Term(parse.TokenRParen)
	lBracketP  = parse.Term(parse.TokenLBracket)
	rBracketP  = parse.Term(parse.TokenRBracket)
	selLabelP  = parse.KeepLeft(identP, colonP)
	dottedPath = parse.Bind(identP, func(first parse.Token) parse.Parser[[]parse.Token] {
		return parse.Map(parse.Many(parse.KeepRight(dotP, identP)), func(rest []parse.Token) []parse.Token {
			return append([]parse.Token{first}, rest...)
		})
	})
)

// word matches an identifier with the exact given spelling.
func word(text string) parse.Parser[parse.Token] {
	return parse.Bind(identP, func(tok parse.Token) parse.Parser[parse.Token] {
		if tok.Text == text {
			return parse.Pure(tok)
		}
		return parse.FailWith[parse.Token](&parse.Error{
			Kind:    parse.ErrMissMatch,
			Message: "expected keyword " + text,
		})
	})
}

// Statement keywords that would otherwise parse as a call, e.g.
// "if (cond)".
var controlWords = map[string]bool{
	"if":     true,
	"for":    true,
	"while":  true,
	"switch": true,
	"return": true,
	"catch":  true,
	"guard":  true,
}

// buildMessageSend compiles the Objective-C style send rule: a bracketed receiver
// followed by either label:argument selector parts or a single bare
// selector. The receiver may itself be a send, which is where the
// chain nests.
func (e *Extractor) buildMessageSend() parse.Parser[*invoke.Node] {
	receiver := parse.Choice(
		parse.Map(parse.Lazy(func() parse.Parser[*invoke.Node] { return e.msgSend }), invoke.MethodInvoker),
		parse.Map(dottedPath, func(parts []parse.Token) invoke.Invoker {
			return invoke.NameInvoker(joinPath(parts))
		}),
	)

	// An argument runs until the next selector label or the closing
	// bracket, whichever comes first at the top nesting level.
	argStop := parse.Or(selLabelP, rBracketP)
	labeledPart := parse.Bind(selLabelP, func(label parse.Token) parse.Parser[invoke.Param] {
		return parse.Map(parse.OpenTokensUntil(argStop), func(expr []parse.Token) invoke.Param {
			return invoke.Param{Name: label.Text + ":", Nested: e.scanNested(expr)}
		})
	})
	labeledParts := parse.Bind(labeledPart, func(first invoke.Param) parse.Parser[[]invoke.Param] {
		return parse.Map(parse.Many(labeledPart), func(rest []invoke.Param) []invoke.Param {
			return append([]invoke.Param{first}, rest...)
		})
	})
	barePart := parse.Map(
		parse.KeepLeft(identP, parse.LookAhead(rBracketP)),
		func(sel parse.Token) []invoke.Param {
			return []invoke.Param{{Name: sel.Text}}
		},
	)
	selector := parse.Or(labeledParts, barePart)

	return parse.Bind(lBracketP, func(parse.Token) parse.Parser[*invoke.Node] {
		return parse.Bind(receiver, func(inv invoke.Invoker) parse.Parser[*invoke.Node] {
			return parse.Bind(selector, func(params []invoke.Param) parse.Parser[*invoke.Node] {
				return parse.Map(rBracketP, func(parse.Token) *invoke.Node {
					return &invoke.Node{
						Style:   invoke.StyleBracket,
						Invoker: inv,
						Params:  params,
					}
				})
			})
		})
	})
}

type callSeg struct {
	method string
	params []invoke.Param
}

// buildDotCall compiles the Swift style call-chain rule. The first segment's path
// splits into receiver and method (a bare "foo(...)" has an empty
// receiver); each further ".method(...)" wraps the chain so far as a
// Method invoker.
func (e *Extractor) buildDotCall() parse.Parser[*invoke.Node] {
	suffix := e.callSuffix()

	first := parse.Bind(dottedPath, func(parts []parse.Token) parse.Parser[*invoke.Node] {
		method := parts[len(parts)-1].Text
		if controlWords[method] {
			return parse.FailWith[*invoke.Node](&parse.Error{
				Kind:    parse.ErrMissMatch,
				Message: "control keyword, not a call: " + method,
			})
		}
		return parse.Map(suffix, func(params []invoke.Param) *invoke.Node {
			return &invoke.Node{
				Style:   invoke.StyleDotCall,
				Invoker: invoke.NameInvoker(joinPath(parts[:len(parts)-1])),
				Method:  method,
				Params:  params,
			}
		})
	})

	seg := parse.Bind(parse.KeepRight(dotP, identP), func(m parse.Token) parse.Parser[callSeg] {
		return parse.Map(suffix, func(params []invoke.Param) callSeg {
			return callSeg{method: m.Text, params: params}
		})
	})

	return parse.Bind(first, func(root *invoke.Node) parse.Parser[*invoke.Node] {
		return parse.Map(parse.Many(seg), func(segs []callSeg) *invoke.Node {
			node := root
			for _, s := range segs {
				node = &invoke.Node{
					Style:   invoke.StyleDotCall,
					Invoker: invoke.MethodInvoker(node),
					Method:  s.method,
					Params:  s.params,
				}
			}
			return node
		})
	})
}

// callSuffix parses "(args)" into params. Labels are optional per
// argument; the argument expression itself is captured with the
// nesting-aware scan so commas inside nested calls or generics do not
// split it.
func (e *Extractor) callSuffix() parse.Parser[[]invoke.Param] {
	argStop := parse.Or(commaP, rParenP)
	arg := parse.Bind(parse.Trying(selLabelP), func(label *parse.Token) parse.Parser[invoke.Param] {
		return parse.Map(parse.OpenTokensUntil(argStop), func(expr []parse.Token) invoke.Param {
			name := ""
			if label != nil {
				name = label.Text
			}
			return invoke.Param{Name: name, Nested: e.scanNested(expr)}
		})
	})
	args := parse.Bind(arg, func(firstArg invoke.Param) parse.Parser[[]invoke.Param] {
		return parse.Map(parse.Many(parse.KeepRight(commaP, arg)), func(rest []invoke.Param) []invoke.Param {
			return append([]invoke.Param{firstArg}, rest...)
		})
	})
	params := parse.Or(
		parse.Map(parse.LookAhead(rParenP), func(parse.Token) []invoke.Param { return nil }),
		args,
	)
	return parse.KeepRight(lParenP, parse.KeepLeft(params, rParenP))
}

// objcInterface parses "@interface Child : Parent".
func (e *Extractor) objcInterface() parse.Parser[[]Inheritance] {
	return parse.KeepRight(atP, parse.KeepRight(word("interface"),
		parse.Bind(identP, func(child parse.Token) parse.Parser[[]Inheritance] {
			return parse.KeepRight(colonP, parse.Map(identP, func(parent parse.Token) []Inheritance {
				return []Inheritance{{Child: child.Text, Parent: parent.Text}}
			}))
		})))
}

// typeDecl parses Swift style "class Child : Parent, Proto, ..." and
// friends; every listed name becomes an edge.
func (e *Extractor) typeDecl() parse.Parser[[]Inheritance] {
	kw := parse.Choice(
		word("class"),
		word("struct"),
		word("enum"),
		word("extension"),
		word("protocol"),
	)
	return parse.KeepRight(kw,
		parse.Bind(identP, func(child parse.Token) parse.Parser[[]Inheritance] {
			parents := parse.Bind(identP, func(firstParent parse.Token) parse.Parser[[]parse.Token] {
				return parse.Map(parse.Many(parse.KeepRight(commaP, identP)), func(rest []parse.Token) []parse.Token {
					return append([]parse.Token{firstParent}, rest...)
				})
			})
			return parse.KeepRight(colonP, parse.Map(parents, func(ps []parse.Token) []Inheritance {
				edges := make([]Inheritance, len(ps))
				for i, p := range ps {
					edges[i] = Inheritance{Child: child.Text, Parent: p.Text}
				}
				return edges
			}))
		}))
}

func joinPath(parts []parse.Token) string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Text
	}
	return strings.Join(names, ".")
}
