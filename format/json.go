package format

import (
	"encoding/json"
	"io"
)

type JSONEncoder struct {
	w      io.Writer
	report *Report
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(report *Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = e.w.Write([]byte{'\n'})
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildReport(), "", "  ")
}

type jsonReport struct {
	Files       int         `json:"files"`
	Chains      []jsonChain `json:"chains"`
	Inheritance []jsonEdge  `json:"inheritance,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
}

type jsonChain struct {
	Text       string   `json:"text"`
	Style      string   `json:"style"`
	TopInvoker string   `json:"topInvoker,omitempty"`
	Count      int      `json:"count"`
	Files      []string `json:"files,omitempty"`
}

type jsonEdge struct {
	Child  string `json:"child"`
	Parent string `json:"parent"`
}

func (e *JSONEncoder) buildReport() jsonReport {
	out := jsonReport{
		Files:  e.report.Files,
		Chains: []jsonChain{},
		Errors: e.report.Errors,
	}
	for _, c := range e.report.Chains {
		out.Chains = append(out.Chains, jsonChain{
			Text:       c.Text,
			Style:      c.Style,
			TopInvoker: c.TopInvoker,
			Count:      c.Count,
			Files:      c.Files,
		})
	}
	for _, edge := range e.report.Inheritance {
		out.Inheritance = append(out.Inheritance, jsonEdge{Child: edge.Child, Parent: edge.Parent})
	}
	return out
}
