package format

import (
	"bytes"
	"fmt"
	"io"
)

type TextEncoder struct {
	w      io.Writer
	report *Report
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(report *Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Files scanned: %d\n", e.report.Files)

	if len(e.report.Inheritance) > 0 {
		fmt.Fprintf(&buf, "\nInheritance (%d):\n", len(e.report.Inheritance))
		for _, edge := range e.report.Inheritance {
			fmt.Fprintf(&buf, "  %s -> %s\n", edge.Child, edge.Parent)
		}
	}

	fmt.Fprintf(&buf, "\nInvocation chains (%d):\n", len(e.report.Chains))
	for _, c := range e.report.Chains {
		fmt.Fprintf(&buf, "  %-50s x%d\n", c.Text, c.Count)
	}

	if len(e.report.Errors) > 0 {
		fmt.Fprintf(&buf, "\nErrors (%d):\n", len(e.report.Errors))
		for _, err := range e.report.Errors {
			fmt.Fprintf(&buf, "  - %s\n", err)
		}
	}

	return buf.Bytes(), nil
}
