package format

import (
	"encoding"

	"github.com/invograph/invograph/graph"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(report *Report) error
}

// Report is the flattened, encoder-friendly view of a scan: one entry
// per deduplicated chain plus the inheritance edges.
type Report struct {
	Files       int
	Chains      []ChainEntry
	Inheritance []EdgeEntry
	Errors      []string
}

type ChainEntry struct {
	Text       string
	Style      string
	TopInvoker string
	Count      int
	Files      []string
}

type EdgeEntry struct {
	Child  string
	Parent string
}

func NewReport(b *graph.Builder, errors []string) *Report {
	report := &Report{
		Files:  b.Files(),
		Errors: errors,
	}
	for _, c := range b.Chains() {
		report.Chains = append(report.Chains, ChainEntry{
			Text:       c.Node.String(),
			Style:      c.Node.Style.String(),
			TopInvoker: c.Node.TopInvoker(),
			Count:      c.Count,
			Files:      c.Files,
		})
	}
	for _, e := range b.Edges() {
		report.Inheritance = append(report.Inheritance, EdgeEntry{Child: e.Child, Parent: e.Parent})
	}
	return report
}
