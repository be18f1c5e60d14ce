// Package scanner walks a source tree, extracts invocation chains and
// inheritance edges from every Objective-C and Swift file, and merges
// the results into one graph. Files are independent top-level parses,
// so they run in parallel; each individual parse stays single-threaded.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/invograph/invograph/grammar"
	"github.com/invograph/invograph/graph"
)

type Option func(*Scanner)

func WithJobs(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.jobs = n
		}
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(s *Scanner) {
		s.log = log
	}
}

// Result is one completed scan: the merged graph plus per-file read
// errors. A file that fails to read is reported and skipped; it never
// aborts the scan.
type Result struct {
	Graph  *graph.Builder
	Files  []string
	Errors []string
}

type Scanner struct {
	log       commonlog.Logger
	extractor *grammar.Extractor
	jobs      int
}

func New(opts ...Option) *Scanner {
	s := &Scanner{jobs: 4}
	for _, opt := range opts {
		opt(s)
	}
	s.extractor = grammar.New(s.log)
	return s
}

var sourceExts = map[string]bool{
	".m":     true,
	".mm":    true,
	".h":     true,
	".swift": true,
}

// IsSourceFile reports whether path has an extension the scanner
// parses.
func IsSourceFile(path string) bool {
	return sourceExts[filepath.Ext(path)]
}

// ScanDir walks root, parses every source file, and merges everything
// into one graph.
func (s *Scanner) ScanDir(ctx context.Context, root string) (*Result, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSourceFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return s.ScanFiles(ctx, files)
}

// ScanFiles parses the given files with up to jobs workers.
func (s *Scanner) ScanFiles(ctx context.Context, files []string) (*Result, error) {
	result := &Result{Graph: graph.NewBuilder(), Files: files}

	errs := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				errs[i] = fmt.Sprintf("read %s: %v", path, err)
				return nil
			}
			res := s.extractor.ExtractSource(data, path)
			result.Graph.AddFile(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, e := range errs {
		if e != "" {
			result.Errors = append(result.Errors, e)
		}
	}
	if s.log != nil {
		s.log.Infof("scanned %d files: %d chains, %d inheritance edges, %d errors",
			len(files), len(result.Graph.Chains()), len(result.Graph.Edges()), len(result.Errors))
	}
	return result, nil
}

// ScanFile parses a single file.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*Result, error) {
	return s.ScanFiles(ctx, []string{path})
}

// Extract parses source bytes directly, for callers that already hold
// the content (the LSP server, tests).
func (s *Scanner) Extract(src []byte, file string) grammar.FileResult {
	return s.extractor.ExtractSource(src, file)
}
