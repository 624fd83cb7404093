// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/repositories"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/shopspring/decimal"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// SetupStore opens a migrated in-memory database and wraps it in a [repositories.Store].
// The database is closed when the test ends.
func SetupStore(t *testing.T) (*sql.DB, *repositories.Store) {
	t.Helper()

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, repositories.NewStore(db)
}

// SeedPhone stores a phone with the given name, price and slug.
func SeedPhone(t *testing.T, store *repositories.Store, name, price, slug string) *models.Phone {
	t.Helper()

	phone := models.NewPhone(models.Candidate{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Image: "img/" + slug + ".png",
	}, slug)
	if err := store.Phones().Create(context.Background(), phone); err != nil {
		t.Fatalf("Failed to seed phone %q: %v", slug, err)
	}
	return phone
}

// WriteCSV writes lines, joined by newlines, to a file in a fresh temp directory and returns its path.
func WriteCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phones.csv")
	WriteFile(t, path, strings.Join(lines, "\n")+"\n")
	return path
}

func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
