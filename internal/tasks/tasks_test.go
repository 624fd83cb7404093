package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/desertthunder/phonecat/internal/importer"
	"github.com/desertthunder/phonecat/internal/shared"
	tu "github.com/desertthunder/phonecat/internal/testing"
)

type mockImporter struct {
	reports map[string]*importer.Report
	errs    map[string]error
	calls   []string
	cancel  context.CancelFunc // called after the first import when set
}

func (m *mockImporter) Import(ctx context.Context, path string, opts importer.Options) (*importer.Report, error) {
	m.calls = append(m.calls, path)
	if m.cancel != nil {
		m.cancel()
	}
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if r, ok := m.reports[path]; ok {
		return r, nil
	}
	return &importer.Report{}, nil
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	close(ch)
	var out []ProgressUpdate
	for u := range ch {
		out = append(out, u)
	}
	return out
}

func TestImportAll(t *testing.T) {
	ctx := context.Background()

	t.Run("sums reports and keeps going after a failure", func(t *testing.T) {
		imp := &mockImporter{
			reports: map[string]*importer.Report{
				"a.csv": {Created: 2, Updated: 1, Skipped: 1},
				"c.csv": {Created: 1},
			},
			errs: map[string]error{"b.csv": shared.ErrFileNotFound},
		}
		progress := make(chan ProgressUpdate, 20)

		res, err := NewImportEngine(imp, nil).ImportAll(ctx, progress, []string{"a.csv", "b.csv", "c.csv"}, importer.Options{})
		if err != nil {
			t.Fatalf("ImportAll failed: %v", err)
		}

		if res.Succeeded != 2 || res.Failed != 1 {
			t.Errorf("expected 2 succeeded and 1 failed, got %+v", res)
		}
		if res.Created != 3 || res.Updated != 1 || res.Skipped != 1 {
			t.Errorf("unexpected totals: %+v", res)
		}
		if !errors.Is(res.Files[1].Err, shared.ErrFileNotFound) || res.Files[1].Report != nil {
			t.Errorf("expected b.csv to carry its error, got %+v", res.Files[1])
		}

		var phases []Phase
		for _, u := range drain(progress) {
			phases = append(phases, u.Phase)
		}
		want := []Phase{ImportFile, FileImported, ImportFile, FileFailed, ImportFile, FileImported, BatchDone}
		if !reflect.DeepEqual(phases, want) {
			t.Errorf("expected phases %v, got %v", want, phases)
		}
	})

	t.Run("nil progress channel", func(t *testing.T) {
		imp := &mockImporter{}
		res, err := NewImportEngine(imp, nil).ImportAll(ctx, nil, []string{"a.csv"}, importer.Options{})
		if err != nil || res.Succeeded != 1 {
			t.Errorf("expected one success, got %+v %v", res, err)
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		imp := &mockImporter{}
		progress := make(chan ProgressUpdate)

		res, err := NewImportEngine(imp, nil).ImportAll(ctx, progress, []string{"a.csv", "b.csv"}, importer.Options{})
		if err != nil || res.Succeeded != 2 {
			t.Errorf("expected two successes, got %+v %v", res, err)
		}
	})

	t.Run("cancellation stops the batch", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		imp := &mockImporter{cancel: cancel}

		res, err := NewImportEngine(imp, nil).ImportAll(cctx, nil, []string{"a.csv", "b.csv"}, importer.Options{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if len(imp.calls) != 1 || len(res.Files) != 1 {
			t.Errorf("expected the batch to stop after one file, got calls=%v files=%d", imp.calls, len(res.Files))
		}
	})
}

func TestImportAllWithStore(t *testing.T) {
	_, store := tu.SetupStore(t)
	good := tu.WriteCSV(t, "name;price", "Alpha;1", "Beta;2")
	bad := tu.WriteCSV(t, "name;price", "Gamma;3", `Del"ta;4`)

	engine := NewImportEngine(importer.New(store, nil), nil)
	res, err := engine.ImportAll(context.Background(), nil, []string{good, bad}, importer.Options{})
	if err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}
	if res.Succeeded != 1 || res.Failed != 1 || res.Created != 2 {
		t.Errorf("unexpected result: %+v", res)
	}

	n, err := store.Phones().Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected only the good file's 2 phones, got %d", n)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt", "data1.csv", "data[1].csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	t.Run("glob sorted and deduplicated", func(t *testing.T) {
		a := filepath.Join(dir, "a.csv")
		paths := ExpandPaths([]string{filepath.Join(dir, "[ab].csv"), a})
		want := []string{a, filepath.Join(dir, "b.csv")}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("expected %v, got %v", want, paths)
		}
	})

	t.Run("unmatched pattern kept", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.csv")
		paths := ExpandPaths([]string{missing})
		if len(paths) != 1 || paths[0] != missing {
			t.Errorf("expected %s to be kept, got %v", missing, paths)
		}
	})

	t.Run("existing file taken literally", func(t *testing.T) {
		literal := filepath.Join(dir, "data[1].csv")
		paths := ExpandPaths([]string{literal})
		if !reflect.DeepEqual(paths, []string{literal}) {
			t.Errorf("expected only %s, got %v", literal, paths)
		}
	})

	t.Run("missing bracketed name still globs", func(t *testing.T) {
		paths := ExpandPaths([]string{filepath.Join(dir, "data[12].csv")})
		want := []string{filepath.Join(dir, "data1.csv")}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("expected %v, got %v", want, paths)
		}
	})

	t.Run("malformed pattern kept", func(t *testing.T) {
		paths := ExpandPaths([]string{"[", "[unclosed"})
		if !reflect.DeepEqual(paths, []string{"[", "[unclosed"}) {
			t.Errorf("expected malformed patterns verbatim, got %v", paths)
		}
	})
}
