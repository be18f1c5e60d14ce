// Package graph assembles extraction results from many files into one
// deduplicated invocation/inheritance graph and renders it as Graphviz
// DOT or Mermaid text.
package graph

import (
	"sort"
	"sync"

	"github.com/invograph/invograph/grammar"
	"github.com/invograph/invograph/invoke"
)

// Chain is one deduplicated invocation chain: the first node seen with
// this identity, how often the same signature appeared, and where.
type Chain struct {
	Node  *invoke.Node
	Count int
	Files []string
}

type Edge struct {
	Child  string
	Parent string
}

type chainKey struct {
	style invoke.Style
	hash  uint64
}

// Builder accumulates per-file results. Deduplication uses the nodes'
// style-aware content hash, so the same call signature discovered in
// different files (or different argument spellings) collapses into one
// chain. Safe for concurrent AddFile calls.
type Builder struct {
	mu     sync.Mutex
	chains map[chainKey]*Chain
	edges  map[Edge]bool
	files  int
}

func NewBuilder() *Builder {
	return &Builder{
		chains: make(map[chainKey]*Chain),
		edges:  make(map[Edge]bool),
	}
}

func (b *Builder) AddFile(res grammar.FileResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.files++
	for _, found := range res.Invocations {
		b.addNode(found.Node, res.File)
	}
	for _, inh := range res.Inheritance {
		b.edges[Edge{Child: inh.Child, Parent: inh.Parent}] = true
	}
}

func (b *Builder) addNode(n *invoke.Node, file string) {
	key := chainKey{style: n.Style, hash: n.Hash()}
	chain, ok := b.chains[key]
	if !ok {
		chain = &Chain{Node: n}
		b.chains[key] = chain
	}
	chain.Count++
	if len(chain.Files) == 0 || chain.Files[len(chain.Files)-1] != file {
		chain.Files = append(chain.Files, file)
	}

	// Argument expressions count too: a call passed as an argument is
	// an invocation in its own right.
	for _, p := range n.Params {
		for _, nested := range p.Nested {
			b.addNode(nested, file)
		}
	}
}

// Files reports how many files contributed to the graph.
func (b *Builder) Files() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.files
}

// Chains returns the deduplicated invocation chains in a deterministic
// order (by rendered text).
func (b *Builder) Chains() []*Chain {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*Chain, 0, len(b.chains))
	for _, c := range b.chains {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Node.String() < out[j].Node.String()
	})
	return out
}

// Edges returns the deduplicated inheritance edges sorted by child,
// then parent.
func (b *Builder) Edges() []Edge {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Edge, 0, len(b.edges))
	for e := range b.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Child != out[j].Child {
			return out[i].Child < out[j].Child
		}
		return out[i].Parent < out[j].Parent
	})
	return out
}
