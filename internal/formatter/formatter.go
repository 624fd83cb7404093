// package formatter renders phones to the output formats of the CLI (table, CSV, JSON, Markdown, text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates s. An empty string selects [FormatTable].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use table, json, csv or markdown)", shared.ErrInvalidFlag, s)
	}
}

// CSVHeader is the column layout written by [ExportToCSV]; the importer reads it back unchanged.
var CSVHeader = []string{"id", "name", "image", "price", "release_date", "lte_exists", "slug"}

// PhoneRecord is the JSON shape of a phone.
type PhoneRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Price       string    `json:"price"`
	Image       string    `json:"image"`
	ReleaseDate *string   `json:"release_date"`
	LTEExists   bool      `json:"lte_exists"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToRecord converts a phone to its JSON shape. Prices keep two decimals as a string.
func ToRecord(p *models.Phone) PhoneRecord {
	rec := PhoneRecord{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Price:     p.PriceString(),
		Image:     p.Image,
		LTEExists: p.LTEExists,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if d := p.ReleaseDateString(); d != "" {
		rec.ReleaseDate = &d
	}
	return rec
}

// ToRecords converts phones, returning an empty (non-nil) slice for no phones.
func ToRecords(phones []*models.Phone) []PhoneRecord {
	records := make([]PhoneRecord, 0, len(phones))
	for _, p := range phones {
		records = append(records, ToRecord(p))
	}
	return records
}

// Render writes phones in format f.
func Render(f Format, phones []*models.Phone) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(phones)
	case FormatCSV:
		return ExportToCSV(phones, ';')
	case FormatMarkdown:
		return ExportToMarkdown(phones)
	case FormatTable, "":
		return ExportToTable(phones), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToJSON encodes phones as an indented JSON array.
func ExportToJSON(phones []*models.Phone) ([]byte, error) {
	return shared.MarshalJSON(ToRecords(phones), true)
}

// ExportToCSV writes phones as delimited text with [CSVHeader].
//
// The LTE flag is written as True/False and prices use a decimal point.
func ExportToCSV(phones []*models.Phone, delimiter rune) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = delimiter

	if err := writer.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range phones {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Image,
			p.PriceString(),
			p.ReleaseDateString(),
			pyBool(p.LTEExists),
			p.Slug,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders phones as a Markdown table.
func ExportToMarkdown(phones []*models.Phone) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Phones\n\n")
	buf.WriteString(fmt.Sprintf("**Total**: %d\n\n", len(phones)))
	if len(phones) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| Name | Slug | Price | Release date | LTE |\n")
	buf.WriteString("|------|------|------:|--------------|-----|\n")
	for _, p := range phones {
		buf.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s | %s |\n",
			escapeCell(p.Name), p.Slug, p.PriceString(), orDash(p.ReleaseDateString()), yesNo(p.LTEExists)))
	}

	return buf.Bytes(), nil
}

// ExportToTable renders phones as a bordered terminal table.
func ExportToTable(phones []*models.Phone) []byte {
	if len(phones) == 0 {
		return []byte("No phones in the catalog.\n")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "SLUG", "PRICE", "RELEASED", "LTE")
	for _, p := range phones {
		t.Row(p.Name, p.Slug, p.PriceString(), orDash(p.ReleaseDateString()), yesNo(p.LTEExists))
	}

	return []byte(t.String() + "\n")
}

// ExportToText renders the details of a single phone.
func ExportToText(p *models.Phone) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Name:         %s\n", p.Name))
	buf.WriteString(fmt.Sprintf("Slug:         %s\n", p.Slug))
	buf.WriteString(fmt.Sprintf("Price:        %s\n", p.PriceString()))
	buf.WriteString(fmt.Sprintf("Image:        %s\n", orDash(p.Image)))
	buf.WriteString(fmt.Sprintf("Release date: %s\n", orDash(p.ReleaseDateString())))
	buf.WriteString(fmt.Sprintf("LTE:          %s\n", yesNo(p.LTEExists)))

	return buf.Bytes()
}

// WriteCSVExport writes phones to path in the import file format.
func WriteCSVExport(phones []*models.Phone, path string, delimiter rune) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	data, err := ExportToCSV(phones, delimiter)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportRunsToTable renders import history as a bordered terminal table.
func ExportRunsToTable(runs []*models.ImportRun) []byte {
	if len(runs) == 0 {
		return []byte("No imports yet.\n")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STARTED", "FILE", "POLICY", "CREATED", "UPDATED", "SKIPPED", "TOOK")
	for _, r := range runs {
		t.Row(
			r.StartedAt.Local().Format(time.DateTime),
			r.Path,
			r.Policy,
			strconv.Itoa(r.Created),
			strconv.Itoa(r.Updated),
			strconv.Itoa(r.Skipped),
			r.Duration().Round(time.Millisecond).String(),
		)
	}

	return []byte(t.String() + "\n")
}
