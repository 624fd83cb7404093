package importer

import (
	"strings"
	"time"

	"github.com/desertthunder/phonecat/internal/models"
	"github.com/shopspring/decimal"
)

// Recognized column names. "id" may be present in files and is ignored.
const (
	ColumnID          = "id"
	ColumnName        = "name"
	ColumnImage       = "image"
	ColumnPrice       = "price"
	ColumnReleaseDate = "release_date"
	ColumnLTEExists   = "lte_exists"
	ColumnSlug        = "slug"
)

// RequiredColumns are the columns the parser reads a value from.
var RequiredColumns = []string{ColumnName, ColumnImage, ColumnPrice, ColumnReleaseDate, ColumnLTEExists}

// truthy holds the accepted spellings of a true lte_exists value, lowercased.
var truthy = map[string]bool{"1": true, "true": true, "yes": true, "on": true, "t": true}

// Fields gives access to the raw values of one input row by column name.
type Fields interface {
	Get(column string) (string, bool)
}

// Row is a header-mapped view over one delimited record.
type Row struct {
	header map[string]int
	record []string
}

// NewRow pairs record with the column index built from the header row.
func NewRow(header map[string]int, record []string) Row {
	return Row{header: header, record: record}
}

// Get returns the value of column. It reports false when the header has no such column
// or the record is too short to hold it.
func (r Row) Get(column string) (string, bool) {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.record) {
		return "", false
	}
	return r.record[idx], true
}

// Empty reports whether every field of the record is blank.
func (r Row) Empty() bool {
	for _, v := range r.record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Map is a [Fields] backed by a plain column → value map.
type Map map[string]string

// Get implements [Fields].
func (m Map) Get(column string) (string, bool) {
	v, ok := m[column]
	return v, ok
}

// ParseRecord normalizes one row into a [models.Candidate].
//
// Missing or blank values take their defaults, and malformed price or date values
// degrade to zero and no date. ok is false when the name is blank; such rows are skipped.
func ParseRecord(f Fields) (c models.Candidate, ok bool) {
	c = models.Candidate{
		Name:        value(f, ColumnName, ""),
		Image:       value(f, ColumnImage, ""),
		Price:       ParsePrice(value(f, ColumnPrice, "0")),
		ReleaseDate: ParseDate(value(f, ColumnReleaseDate, "")),
		LTEExists:   ParseBool(value(f, ColumnLTEExists, "False")),
		Slug:        value(f, ColumnSlug, ""),
	}
	return c, c.Name != ""
}

// value returns the trimmed value of column, or def when absent or blank.
func value(f Fields, column, def string) string {
	raw, ok := f.Get(column)
	if !ok {
		return def
	}
	if v := strings.TrimSpace(raw); v != "" {
		return v
	}
	return def
}

// ParsePrice parses a decimal amount, accepting ',' as the decimal separator.
// Anything unparseable or outside [models.PriceInRange] yields exactly zero. The result is rounded to two places.
func ParsePrice(raw string) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	if !models.PriceInRange(d) {
		return decimal.Zero
	}
	return d.Round(2)
}

// ParseDate parses a YYYY-MM-DD calendar date. Blank or invalid input yields nil.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.Parse("2006-1-2", raw)
	if err != nil {
		return nil
	}
	return &d
}

// ParseBool matches raw case-insensitively against 1, true, yes, on and t.
func ParseBool(raw string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(raw))]
}
