package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/phonecat/internal/importer"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/desertthunder/phonecat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import loads the files given by --path into the catalog.
//
// Import failures are reported on the output and the command still succeeds;
// only bad flags and an unusable database return an error.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	opts, err := r.importOptions(cmd)
	if err != nil {
		return err
	}

	paths := tasks.ExpandPaths(cmd.StringSlice("path"))
	if len(paths) == 0 {
		return fmt.Errorf("%w: --path", shared.ErrMissingArgument)
	}

	if len(paths) == 1 {
		return r.importFile(ctx, cmd, paths[0], opts)
	}
	return r.importBatch(ctx, cmd, paths, opts)
}

func (r *Runner) importOptions(cmd *cli.Command) (importer.Options, error) {
	policyName := r.config.Import.OnMissingColumn
	if cmd.IsSet("on-missing-column") {
		policyName = cmd.String("on-missing-column")
	}
	policy, err := importer.ParsePolicy(policyName)
	if err != nil {
		return importer.Options{}, err
	}

	delimiter := r.config.Import.DelimiterRune()
	if cmd.IsSet("delimiter") {
		d := cmd.String("delimiter")
		if utf8.RuneCountInString(d) != 1 {
			return importer.Options{}, fmt.Errorf("%w: --delimiter must be a single character, got %q", shared.ErrInvalidFlag, d)
		}
		delimiter, _ = utf8.DecodeRuneInString(d)
	}

	return importer.Options{Delimiter: delimiter, OnMissingColumn: policy}, nil
}

func (r *Runner) importFile(ctx context.Context, cmd *cli.Command, path string, opts importer.Options) error {
	imp, err := r.newImporter(cmd)
	if err != nil {
		return err
	}

	report, err := imp.Import(ctx, path, opts)
	if err != nil {
		r.logger.Debug("import failed", "path", path, "error", err)
		return r.writePlain("%s\n", importFailureMessage(path, err))
	}

	r.writePlain("Import finished. Created: %d, Updated: %d\n", report.Created, report.Updated)
	if report.Skipped > 0 {
		r.writePlain("Skipped: %d (%s)\n", report.Skipped, formatSkipReasons(report.SkipReasons))
	}
	return nil
}

func (r *Runner) importBatch(ctx context.Context, cmd *cli.Command, paths []string, opts importer.Options) error {
	engine, err := r.importEngine(cmd)
	if err != nil {
		return err
	}

	r.writePlain("Importing %d files\n\n", len(paths))

	progressCh := make(chan tasks.ProgressUpdate, len(paths)*2+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase == tasks.BatchDone {
				continue
			}
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.ImportAll(ctx, progressCh, paths, opts)
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Import Complete")
		r.writePlain("Files: %d imported, %d failed\n", result.Succeeded, result.Failed)
		r.writePlain("Import finished. Created: %d, Updated: %d\n", result.Created, result.Updated)
		if result.Skipped > 0 {
			r.writePlain("Skipped: %d\n", result.Skipped)
		}
		for _, f := range result.Files {
			if f.Err != nil {
				r.writePlain("%s\n", importFailureMessage(f.Path, f.Err))
			}
		}
	}

	if err != nil {
		r.writePlain("Import failed: %v\n", err)
	}
	return nil
}

// importFailureMessage renders the user-facing line for a failed import.
func importFailureMessage(path string, err error) string {
	switch {
	case errors.Is(err, shared.ErrFileNotFound):
		return fmt.Sprintf("File not found: %s", path)
	case errors.Is(err, shared.ErrMissingColumn):
		columns := strings.TrimPrefix(err.Error(), shared.ErrMissingColumn.Error()+": ")
		return fmt.Sprintf("Missing column: %s", columns)
	default:
		return fmt.Sprintf("Import failed: %v", err)
	}
}

func formatSkipReasons(reasons map[string]int) string {
	parts := make([]string, 0, len(reasons))
	for _, reason := range []string{importer.SkipEmptyRow, importer.SkipEmptyName} {
		if n := reasons[reason]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", reason, n))
		}
	}
	return strings.Join(parts, ", ")
}
