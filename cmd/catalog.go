package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/phonecat/internal/formatter"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/services"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

// CatalogList prints every phone in the requested order and format.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	catalog, err := r.catalogService(cmd)
	if err != nil {
		return err
	}

	phones, err := catalog.List(ctx, services.ParseSortKey(cmd.String("sort")))
	if err != nil {
		return err
	}

	data, err := formatter.Render(format, phones)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// CatalogShow prints the phone with the slug given as the first argument.
func (r *Runner) CatalogShow(ctx context.Context, cmd *cli.Command) error {
	slug := strings.TrimSpace(cmd.Args().First())
	if slug == "" {
		return fmt.Errorf("%w: SLUG", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogService(cmd)
	if err != nil {
		return err
	}

	phone, err := catalog.GetBySlug(ctx, slug)
	if errors.Is(err, shared.ErrPhoneNotFound) {
		r.writePlain("%v\n", err)
		return err
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(formatter.ToRecord(phone), cmd.Bool("pretty"))
	}
	return r.writeBytes(formatter.ExportToText(phone))
}

// CatalogAdd creates a phone from flags.
func (r *Runner) CatalogAdd(ctx context.Context, cmd *cli.Command) error {
	in, err := newPhoneInput(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.catalogService(cmd)
	if err != nil {
		return err
	}

	phone, err := catalog.Add(ctx, in)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(formatter.ToRecord(phone), true)
	}
	return r.writePlain("Added %s (slug: %s, id: %d)\n", phone.Name, phone.Slug, phone.ID)
}

func newPhoneInput(cmd *cli.Command) (services.NewPhoneInput, error) {
	in := services.NewPhoneInput{
		Name:      cmd.String("name"),
		Image:     cmd.String("image"),
		LTEExists: cmd.Bool("lte"),
		Slug:      cmd.String("slug"),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(cmd.String("price")))
	if err != nil {
		return in, fmt.Errorf("%w: --price %q is not a number", shared.ErrInvalidFlag, cmd.String("price"))
	}
	in.Price = price

	if raw := strings.TrimSpace(cmd.String("release-date")); raw != "" {
		date, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return in, fmt.Errorf("%w: --release-date %q must be YYYY-MM-DD", shared.ErrInvalidFlag, raw)
		}
		in.ReleaseDate = &date
	}
	return in, nil
}

// CatalogExport writes the catalog to --output in the import file format.
func (r *Runner) CatalogExport(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService(cmd)
	if err != nil {
		return err
	}

	phones, err := catalog.List(ctx, services.SortDefault)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if err := formatter.WriteCSVExport(phones, path, r.config.Import.DelimiterRune()); err != nil {
		return err
	}

	r.logger.Info("catalog exported", "path", path, "phones", len(phones))
	return r.writePlain("Exported %d phones to %s\n", len(phones), path)
}

// CatalogImports prints the most recent import runs.
func (r *Runner) CatalogImports(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalogService(cmd)
	if err != nil {
		return err
	}

	runs, err := catalog.ImportRuns(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	return r.writeBytes(formatter.ExportRunsToTable(runs))
}
