package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/repositories"
	"github.com/desertthunder/phonecat/internal/shared"
	tu "github.com/desertthunder/phonecat/internal/testing"
)

const header = "id;name;image;price;release_date;lte_exists"

// flakyTransactor runs the real transaction but fails the nth create inside it.
type flakyTransactor struct {
	store  *repositories.Store
	failAt int
}

func (f *flakyTransactor) Transact(ctx context.Context, fn func(models.Repos) error) error {
	return f.store.Transact(ctx, func(repos models.Repos) error {
		repos.Phones = &flakyPhones{PhoneRepository: repos.Phones, failAt: f.failAt}
		return fn(repos)
	})
}

type flakyPhones struct {
	models.PhoneRepository
	failAt int
	calls  int
}

func (f *flakyPhones) Create(ctx context.Context, phone *models.Phone) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.New("disk full")
	}
	return f.PhoneRepository.Create(ctx, phone)
}

func countPhones(t *testing.T, store *repositories.Store) int {
	t.Helper()
	n, err := store.Phones().Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func countRuns(t *testing.T, store *repositories.Store) int {
	t.Helper()
	runs, err := store.ImportRuns().Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	return len(runs)
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("same name rows get suffixed slugs", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header,
			"1;Alpha;;10,50;2020-01-01;true",
			"2;Alpha;;20;;false",
		)

		report, err := New(store, nil).Import(ctx, path, Options{})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Created != 2 || report.Updated != 0 || report.Skipped != 0 {
			t.Errorf("expected created=2 updated=0 skipped=0, got %+v", report)
		}
		if report.RunID == "" {
			t.Error("expected run ID")
		}

		first, err := store.Phones().FindBySlug(ctx, "alpha")
		if err != nil {
			t.Fatalf("alpha not found: %v", err)
		}
		if first.PriceString() != "10.50" || !first.LTEExists || first.ReleaseDateString() != "2020-01-01" {
			t.Errorf("unexpected alpha: %+v", first)
		}

		second, err := store.Phones().FindBySlug(ctx, "alpha-1")
		if err != nil {
			t.Fatalf("alpha-1 not found: %v", err)
		}
		if second.PriceString() != "20.00" || second.LTEExists || second.ReleaseDate != nil {
			t.Errorf("unexpected alpha-1: %+v", second)
		}
	})

	t.Run("re-running the same file only updates", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header,
			"1;Alpha;;10,50;2020-01-01;true",
			"2;Alpha;;20;;false",
			"3;Beta Max;b.png;5;2021-06-30;yes",
		)
		imp := New(store, nil)

		if _, err := imp.Import(ctx, path, Options{}); err != nil {
			t.Fatalf("first import failed: %v", err)
		}
		report, err := imp.Import(ctx, path, Options{})
		if err != nil {
			t.Fatalf("second import failed: %v", err)
		}
		if report.Created != 0 || report.Updated != 3 {
			t.Errorf("expected created=0 updated=3, got %+v", report)
		}
		if n := countPhones(t, store); n != 3 {
			t.Errorf("expected 3 phones, got %d", n)
		}
		if n := countRuns(t, store); n != 2 {
			t.Errorf("expected 2 import runs, got %d", n)
		}
	})

	t.Run("changed values overwrite the stored phone", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		imp := New(store, nil)

		if _, err := imp.Import(ctx, tu.WriteCSV(t, header, "1;Gamma;g.png;100;;false"), Options{}); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		before, _ := store.Phones().FindBySlug(ctx, "gamma")

		report, err := imp.Import(ctx, tu.WriteCSV(t, header, "1;Gamma;g2.png;89,90;2022-02-02;on"), Options{})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Updated != 1 {
			t.Errorf("expected one update, got %+v", report)
		}

		after, _ := store.Phones().FindBySlug(ctx, "gamma")
		if after.ID != before.ID {
			t.Errorf("expected ID %d to be kept, got %d", before.ID, after.ID)
		}
		if after.Image != "g2.png" || after.PriceString() != "89.90" || !after.LTEExists || after.ReleaseDateString() != "2022-02-02" {
			t.Errorf("update not applied: %+v", after)
		}
	})

	t.Run("blank name and empty rows are skipped", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header,
			"1;;img.png;10;;true",
			";;;;;",
			"2;   ;;5;;",
			"3;Delta;;7;;",
		)

		report, err := New(store, nil).Import(ctx, path, Options{})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Created != 1 || report.Skipped != 3 {
			t.Errorf("expected created=1 skipped=3, got %+v", report)
		}
		if report.SkipReasons[SkipEmptyName] != 2 || report.SkipReasons[SkipEmptyRow] != 1 {
			t.Errorf("unexpected skip reasons: %v", report.SkipReasons)
		}
		if n := countPhones(t, store); n != 1 {
			t.Errorf("expected 1 phone, got %d", n)
		}
	})

	t.Run("blank and malformed values use defaults", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header,
			"1;Epsilon;;;;",
			"2;Zeta;;cheap;31/12/2020;maybe",
		)

		if _, err := New(store, nil).Import(ctx, path, Options{}); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		for _, s := range []string{"epsilon", "zeta"} {
			phone, err := store.Phones().FindBySlug(ctx, s)
			if err != nil {
				t.Fatalf("%s not found: %v", s, err)
			}
			if phone.PriceString() != "0.00" || phone.ReleaseDate != nil || phone.LTEExists {
				t.Errorf("expected defaults for %s, got %+v", s, phone)
			}
		}
	})

	t.Run("unicode names are transliterated", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t, header, "1;Ünïcode Phöne  X;;1;;", "2;!!!;;1;;")

		if _, err := New(store, nil).Import(ctx, path, Options{}); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if _, err := store.Phones().FindBySlug(ctx, "unicode-phone-x"); err != nil {
			t.Errorf("expected transliterated slug: %v", err)
		}
		if _, err := store.Phones().FindBySlug(ctx, "phone"); err != nil {
			t.Errorf("expected fallback slug for punctuation-only name: %v", err)
		}
	})

	t.Run("out of range prices become zero", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header,
			"1;Eta;;1e20;;",
			"2;Theta;;99999999999999999999;;",
			"3;Iota;;99999999,99;;",
		)

		report, err := New(store, nil).Import(ctx, path, Options{})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Created != 3 {
			t.Errorf("expected created=3, got %+v", report)
		}
		for s, want := range map[string]string{"eta": "0.00", "theta": "0.00", "iota": "99999999.99"} {
			phone, err := store.Phones().FindBySlug(ctx, s)
			if err != nil {
				t.Fatalf("%s not found: %v", s, err)
			}
			if got := phone.PriceString(); got != want {
				t.Errorf("expected %s to cost %s, got %s", s, want, got)
			}
		}
	})

	t.Run("names without latin letters fall back by row order", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		imp := New(store, nil)

		if _, err := imp.Import(ctx, tu.WriteCSV(t, header, "1;Телефон;;1;;", "2;手机;;2;;"), Options{}); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		for s, name := range map[string]string{"phone": "Телефон", "phone-1": "手机"} {
			phone, err := store.Phones().FindBySlug(ctx, s)
			if err != nil {
				t.Fatalf("%s not found: %v", s, err)
			}
			if phone.Name != name {
				t.Errorf("expected %s to hold %s, got %s", s, name, phone.Name)
			}
		}

		report, err := imp.Import(ctx, tu.WriteCSV(t, header, "1;手机;;2;;", "2;Телефон;;1;;"), Options{})
		if err != nil {
			t.Fatalf("reordered import failed: %v", err)
		}
		if report.Created != 0 || report.Updated != 2 {
			t.Errorf("expected updated=2 only, got %+v", report)
		}
		phone, err := store.Phones().FindBySlug(ctx, "phone")
		if err != nil {
			t.Fatalf("phone not found: %v", err)
		}
		if phone.Name != "手机" {
			t.Errorf("expected the first row to take the bare fallback slug, got %s", phone.Name)
		}
	})

	t.Run("explicit slug column", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header+";slug",
			"1;Alpha;;1;;;Custom Slug",
			"2;Beta;;2;;;custom-slug",
			"3;Gamma;;3;;;  ",
		)

		report, err := New(store, nil).Import(ctx, path, Options{})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Created != 3 {
			t.Errorf("expected created=3, got %+v", report)
		}
		for s, name := range map[string]string{"custom-slug": "Alpha", "custom-slug-1": "Beta", "gamma": "Gamma"} {
			phone, err := store.Phones().FindBySlug(ctx, s)
			if err != nil {
				t.Fatalf("%s not found: %v", s, err)
			}
			if phone.Name != name {
				t.Errorf("expected %s to hold %s, got %s", s, name, phone.Name)
			}
		}
	})

	t.Run("byte order mark and custom delimiter", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			"\ufeffname,image,price,release_date,lte_exists",
			`"Omega, Pro",o.png,"12,5",2023-01-01,1`,
		)

		report, err := New(store, nil).Import(ctx, path, Options{Delimiter: ','})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Created != 1 {
			t.Fatalf("expected created=1, got %+v", report)
		}
		phone, err := store.Phones().FindBySlug(ctx, "omega-pro")
		if err != nil {
			t.Fatalf("omega-pro not found: %v", err)
		}
		if phone.PriceString() != "12.50" || !phone.LTEExists {
			t.Errorf("unexpected phone: %+v", phone)
		}
	})
}

func TestImportMissingColumns(t *testing.T) {
	ctx := context.Background()

	t.Run("default policy fills in defaults", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t, "name;price", "Alpha;3")

		report, err := New(store, nil).Import(ctx, path, Options{OnMissingColumn: PolicyDefault})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Created != 1 {
			t.Errorf("expected created=1, got %+v", report)
		}
		phone, _ := store.Phones().FindBySlug(ctx, "alpha")
		if phone == nil || phone.Image != "" || phone.LTEExists || phone.ReleaseDate != nil {
			t.Errorf("expected defaults, got %+v", phone)
		}
	})

	t.Run("fail policy aborts before writing", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t, "name;price", "Alpha;3")

		_, err := New(store, nil).Import(ctx, path, Options{OnMissingColumn: PolicyFail})
		if !errors.Is(err, shared.ErrMissingColumn) {
			t.Fatalf("expected ErrMissingColumn, got %v", err)
		}
		if n := countPhones(t, store); n != 0 {
			t.Errorf("expected no writes, got %d phones", n)
		}
		if n := countRuns(t, store); n != 0 {
			t.Errorf("expected no import runs, got %d", n)
		}
	})
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, store := tu.SetupStore(t)

		_, err := New(store, nil).Import(ctx, filepath.Join(t.TempDir(), "nope.csv"), Options{})
		if !errors.Is(err, shared.ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}
		if n := countPhones(t, store); n != 0 {
			t.Errorf("expected no writes, got %d phones", n)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := filepath.Join(t.TempDir(), "empty.csv")
		tu.WriteFile(t, path, "")

		_, err := New(store, nil).Import(ctx, path, Options{})
		if !errors.Is(err, shared.ErrMissingHeader) {
			t.Fatalf("expected ErrMissingHeader, got %v", err)
		}
	})

	t.Run("header only", func(t *testing.T) {
		_, store := tu.SetupStore(t)

		report, err := New(store, nil).Import(ctx, tu.WriteCSV(t, header), Options{})
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if report.Created+report.Updated+report.Skipped != 0 {
			t.Errorf("expected empty report, got %+v", report)
		}
	})

	t.Run("malformed quoting rolls back", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header,
			"1;Alpha;;1;;",
			`2;Be"ta;;2;;`,
		)

		_, err := New(store, nil).Import(ctx, path, Options{})
		if !errors.Is(err, shared.ErrMalformedFile) {
			t.Fatalf("expected ErrMalformedFile, got %v", err)
		}
		if n := countPhones(t, store); n != 0 {
			t.Errorf("expected rollback, got %d phones", n)
		}
	})

	t.Run("store failure rolls back the whole batch", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		path := tu.WriteCSV(t,
			header,
			"1;Alpha;;1;;",
			"2;Beta;;2;;",
			"3;Gamma;;3;;",
		)

		_, err := New(&flakyTransactor{store: store, failAt: 3}, nil).Import(ctx, path, Options{})
		if !errors.Is(err, shared.ErrImportFailed) {
			t.Fatalf("expected ErrImportFailed, got %v", err)
		}
		if n := countPhones(t, store); n != 0 {
			t.Errorf("expected rollback, got %d phones", n)
		}
		if n := countRuns(t, store); n != 0 {
			t.Errorf("expected no import runs, got %d", n)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		_, store := tu.SetupStore(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := New(store, nil).Import(cctx, tu.WriteCSV(t, header, "1;Alpha;;1;;"), Options{})
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
		if n := countPhones(t, store); n != 0 {
			t.Errorf("expected no writes, got %d phones", n)
		}
	})
}

func TestParsePolicy(t *testing.T) {
	tc := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: PolicyDefault},
		{in: "default", want: PolicyDefault},
		{in: " FAIL ", want: PolicyFail},
		{in: "skip", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParsePolicy(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}
