// Package lsp exposes invocation-chain extraction over the Language
// Server Protocol: every open document's chains and inheritance facts
// are published as document symbols, so an editor can show the call
// structure of a file as it is edited.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/invograph/invograph/grammar"
	"github.com/invograph/invograph/parse"
	"github.com/invograph/invograph/scanner"
)

const lsName = "invograph"

type Server struct {
	scanner *scanner.Scanner
	handler protocol.Handler
	server  *server.Server
	version string

	mu   sync.RWMutex
	docs map[string]document
}

// document is one open file: its extraction result plus the source
// split into lines, kept for byte-column to UTF-16 conversion when
// reporting ranges.
type document struct {
	result grammar.FileResult
	lines  []string
}

func NewServer(version string) *Server {
	ls := &Server{
		scanner: scanner.New(),
		version: version,
		docs:    make(map[string]document),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) updateDocument(uri string, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		return
	}
	res := ls.scanner.Extract(content, path)
	ls.mu.Lock()
	ls.docs[uri] = document{
		result: res,
		lines:  strings.Split(string(content), "\n"),
	}
	ls.mu.Unlock()
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.updateDocument(params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.updateDocument(params.TextDocument.URI, []byte(whole.Text))
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.docs, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	ls.mu.RLock()
	doc, ok := ls.docs[params.TextDocument.URI]
	ls.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var symbols []protocol.DocumentSymbol
	for _, inh := range doc.result.Inheritance {
		symbols = append(symbols, protocol.DocumentSymbol{
			Name: inh.Child + " : " + inh.Parent,
			Kind: protocol.SymbolKindClass,
		})
	}
	for _, found := range doc.result.Invocations {
		r := spanToRange(doc.lines, found.Span)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           found.Node.String(),
			Kind:           protocol.SymbolKindMethod,
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols, nil
}

// spanToRange maps a lexer span onto a protocol range. The protocol
// counts characters in UTF-16 code units while the lexer counts bytes,
// so the column is re-measured against the line's text.
func spanToRange(lines []string, span parse.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(max(span.Start.Line-1, 0)),
			Character: utf16Column(lines, span.Start),
		},
		End: protocol.Position{
			Line:      uint32(max(span.End.Line-1, 0)),
			Character: utf16Column(lines, span.End),
		},
	}
}

// utf16Column converts a 1-based byte column into a 0-based UTF-16
// code-unit offset within its line.
func utf16Column(lines []string, pos parse.Position) uint32 {
	byteCol := pos.Column - 1
	if byteCol <= 0 {
		return 0
	}
	if pos.Line-1 < 0 || pos.Line-1 >= len(lines) {
		return uint32(byteCol)
	}
	line := lines[pos.Line-1]
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return uint32(len(utf16.Encode([]rune(line[:byteCol]))))
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
