// package tasks runs multi-file catalog imports with progress reporting.
package tasks

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/importer"
	"github.com/desertthunder/phonecat/internal/shared"
)

// FileImporter imports one file atomically. Implemented by [importer.Importer].
type FileImporter interface {
	Import(ctx context.Context, path string, opts importer.Options) (*importer.Report, error)
}

// FileResult is the outcome of one file of a batch.
type FileResult struct {
	Path   string
	Report *importer.Report // nil when Err is set
	Err    error
}

// BatchResult summarizes a multi-file import.
type BatchResult struct {
	Files     []FileResult
	Succeeded int
	Failed    int
	Created   int
	Updated   int
	Skipped   int
}

// ImportEngine imports files one after another, each in its own transaction.
type ImportEngine struct {
	importer FileImporter
	logger   *log.Logger
}

// NewImportEngine creates an ImportEngine. A nil logger discards output.
func NewImportEngine(imp FileImporter, logger *log.Logger) *ImportEngine {
	if logger == nil {
		logger = shared.NopLogger()
	}
	return &ImportEngine{importer: imp, logger: logger}
}

// ImportAll imports every path in order and reports progress on progress, which may be nil.
//
// A failing file does not stop the batch; its error is recorded in the result and the files
// before and after it keep their own committed or rolled back state. A cancelled context stops
// the batch and returns the partial result with the context error.
func (e *ImportEngine) ImportAll(ctx context.Context, progress chan<- ProgressUpdate, paths []string, opts importer.Options) (*BatchResult, error) {
	result := &BatchResult{Files: make([]FileResult, 0, len(paths))}
	total := len(paths)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, importingUpdate(i+1, total, path))

		report, err := e.importer.Import(ctx, path, opts)
		if err != nil {
			e.logger.Warn("file import failed", "path", path, "error", err)
			result.Failed++
			result.Files = append(result.Files, FileResult{Path: path, Err: err})
			e.sendProgress(progress, failedUpdate(i+1, total, path, err))
			continue
		}

		result.Succeeded++
		result.Created += report.Created
		result.Updated += report.Updated
		result.Skipped += report.Skipped
		result.Files = append(result.Files, FileResult{Path: path, Report: report})
		e.sendProgress(progress, importedUpdate(i+1, total, path, report))
	}

	e.sendProgress(progress, doneUpdate(total, result))
	return result, nil
}

// sendProgress never blocks; updates are dropped when nobody is keeping up.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ExpandPaths expands glob patterns in order, dropping duplicates.
//
// An argument naming an existing file is taken literally, even when it contains glob metacharacters.
// A malformed pattern or one without matches is kept verbatim so the importer reports it as missing.
func ExpandPaths(patterns []string) []string {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches := expand(pattern)

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths
}

func expand(pattern string) []string {
	if _, err := os.Stat(pattern); err == nil {
		return []string{pattern}
	}
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return []string{pattern}
	}
	sort.Strings(matches)
	return matches
}
