// Package importer loads phones from delimited text files into the catalog.
//
// A file is processed in one transaction: every accepted row is upserted by slug
// and either the whole batch commits or nothing does.
package importer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/desertthunder/phonecat/internal/slug"
)

// Skip reasons reported in [Report.SkipReasons].
const (
	SkipEmptyRow  = "empty_row"
	SkipEmptyName = "empty_name"
)

// Policy decides what happens when the header lacks a column the parser reads.
type Policy string

const (
	PolicyDefault Policy = shared.PolicyDefault
	PolicyFail    Policy = shared.PolicyFail
)

// ParsePolicy validates s. An empty string selects [PolicyDefault].
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyDefault:
		return PolicyDefault, nil
	case PolicyFail:
		return PolicyFail, nil
	default:
		return "", fmt.Errorf("%w: unknown missing column policy %q", shared.ErrInvalidArgument, s)
	}
}

// Options configures one import run.
type Options struct {
	Delimiter       rune   // field delimiter, ';' when zero
	OnMissingColumn Policy // [PolicyDefault] when empty
}

// Report summarizes a committed import.
type Report struct {
	RunID       string
	Created     int
	Updated     int
	Skipped     int
	SkipReasons map[string]int
}

func (r *Report) skip(reason string) {
	r.Skipped++
	r.SkipReasons[reason]++
}

// Importer drives the parser and [Upserter] over a file inside one transaction.
type Importer struct {
	tx       models.Transactor
	upserter *Upserter
	logger   *log.Logger
	now      func() time.Time
}

// New creates an Importer writing through tx. A nil logger discards output.
func New(tx models.Transactor, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NopLogger()
	}
	return &Importer{
		tx:       tx,
		upserter: NewUpserter(logger),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Import reads the delimited file at path and upserts every row with a name.
//
// Failures are reported as errors wrapping one of:
//   - [shared.ErrFileNotFound] : the file doesn't exist; nothing is written
//   - [shared.ErrMissingHeader] : the file is empty
//   - [shared.ErrMissingColumn] : a parsed column is absent and the policy is [PolicyFail]
//   - [shared.ErrMalformedFile] : the file isn't valid delimited text
//   - [shared.ErrImportFailed] : anything else; the transaction was rolled back
func (i *Importer) Import(ctx context.Context, path string, opts Options) (*Report, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}
	if opts.OnMissingColumn == "" {
		opts.OnMissingColumn = PolicyDefault
	}

	logger := shared.WithLogger(i.logger, "path", path)
	logger.Info("starting import", "policy", opts.OnMissingColumn, "delimiter", string(opts.Delimiter))

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open file: %w", shared.ErrImportFailed, err)
	}
	defer f.Close()

	reader := newReader(f, opts.Delimiter)

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	if missing := missingColumns(header, RequiredColumns); len(missing) > 0 {
		if opts.OnMissingColumn == PolicyFail {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingColumn, strings.Join(missing, ", "))
		}
		logger.Warn("columns missing from header, using defaults", "columns", missing)
	}

	report := &Report{SkipReasons: make(map[string]int)}
	started := i.now()

	err = i.tx.Transact(ctx, func(repos models.Repos) error {
		if err := i.importRows(ctx, logger, reader, header, repos.Phones, report); err != nil {
			return err
		}

		run := &models.ImportRun{
			ID:         shared.GenerateID(),
			Path:       path,
			Policy:     string(opts.OnMissingColumn),
			Created:    report.Created,
			Updated:    report.Updated,
			Skipped:    report.Skipped,
			StartedAt:  started,
			FinishedAt: i.now(),
		}
		if err := repos.ImportRuns.Create(ctx, run); err != nil {
			return err
		}
		report.RunID = run.ID
		return nil
	})
	if err != nil {
		logger.Error("import rolled back", "error", err)
		if errors.Is(err, shared.ErrMalformedFile) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrImportFailed, err)
	}

	logger.Info("import complete",
		"run", report.RunID,
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
	)
	return report, nil
}

func (i *Importer) importRows(ctx context.Context, logger *log.Logger, reader *csv.Reader, header map[string]int, phones models.PhoneRepository, report *Report) error {
	// slugs claimed by earlier rows of this batch; a re-run maps every row to the same slug
	claimed := slug.Set{}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrMalformedFile, err)
		}

		line, _ := reader.FieldPos(0)
		row := NewRow(header, record)
		if row.Empty() {
			report.skip(SkipEmptyRow)
			logger.Debug("skipping row", "line", line, "reason", SkipEmptyRow)
			continue
		}

		candidate, ok := ParseRecord(row)
		if !ok {
			report.skip(SkipEmptyName)
			logger.Debug("skipping row", "line", line, "reason", SkipEmptyName)
			continue
		}

		s, err := resolveSlug(ctx, candidate, claimed)
		if err != nil {
			return err
		}
		claimed.Claim(s)

		_, outcome, err := i.upserter.Upsert(ctx, phones, candidate, s)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		switch outcome {
		case Created:
			report.Created++
		case Updated:
			report.Updated++
		}
	}
}

// resolveSlug picks the slug for c: its explicit slug when it normalizes to something,
// its name otherwise, suffixed until it doesn't collide with a slug already claimed.
func resolveSlug(ctx context.Context, c models.Candidate, claimed slug.Set) (string, error) {
	if base := slug.Slugify(c.Slug); base != "" {
		return slug.Resolve(ctx, base, claimed.Has)
	}
	return slug.Generate(ctx, c.Name, claimed.Has)
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(stripUTF8BOM(bufio.NewReader(r)))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	return reader
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// readHeader reads the header row and returns the column name → index mapping.
func readHeader(r *csv.Reader) (map[string]int, error) {
	h, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, shared.ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrMalformedFile, err)
	}

	index := make(map[string]int, len(h))
	for i, name := range h {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup && name != "" {
			index[name] = i
		}
	}
	return index, nil
}

func missingColumns(header map[string]int, required []string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
