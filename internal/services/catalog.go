package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/desertthunder/phonecat/internal/slug"
	"github.com/shopspring/decimal"
)

var _ Catalog = (*CatalogService)(nil)

// NewPhoneInput holds the fields of a phone added by hand.
type NewPhoneInput struct {
	Name        string
	Image       string
	Price       decimal.Decimal
	ReleaseDate *time.Time
	LTEExists   bool
	Slug        string // optional; normalized and suffixed like a generated slug
}

// CatalogService implements [Catalog] on top of a [Store].
type CatalogService struct {
	store  Store
	logger *log.Logger
}

// NewCatalogService creates a CatalogService. A nil logger discards output.
func NewCatalogService(store Store, logger *log.Logger) *CatalogService {
	if logger == nil {
		logger = shared.NopLogger()
	}
	return &CatalogService{store: store, logger: logger}
}

// List returns every phone ordered by sort; ties are broken by ID.
func (s *CatalogService) List(ctx context.Context, sort SortKey) ([]*models.Phone, error) {
	phones, err := s.store.Repos().Phones.List(ctx, sort.Ordering())
	if err != nil {
		return nil, fmt.Errorf("failed to list phones: %w", err)
	}
	return phones, nil
}

// GetBySlug returns the phone holding slug.
func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*models.Phone, error) {
	phone, err := s.store.Repos().Phones.FindBySlug(ctx, slug)
	if errors.Is(err, shared.ErrPhoneNotFound) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPhoneNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phone %q: %w", slug, err)
	}
	return phone, nil
}

// Add validates in and creates a phone under the first free slug.
//
// Slug resolution and the insert share one transaction, so the lookup and the write see the same state.
func (s *CatalogService) Add(ctx context.Context, in NewPhoneInput) (*models.Phone, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", shared.ErrInvalidInput)
	}
	if !models.PriceInRange(in.Price) {
		return nil, fmt.Errorf("%w: price must be below %s", shared.ErrInvalidInput, models.MaxPrice.String())
	}

	var phone *models.Phone
	err := s.store.Transact(ctx, func(repos models.Repos) error {
		taken := func(ctx context.Context, candidate string) (bool, error) {
			return repos.Phones.ExistsBySlug(ctx, candidate)
		}

		var (
			resolved string
			err      error
		)
		if base := slug.Slugify(in.Slug); base != "" {
			resolved, err = slug.Resolve(ctx, base, taken)
		} else {
			resolved, err = slug.Generate(ctx, in.Name, taken)
		}
		if err != nil {
			return err
		}

		phone = models.NewPhone(models.Candidate{
			Name:        in.Name,
			Image:       strings.TrimSpace(in.Image),
			Price:       in.Price.Round(2),
			ReleaseDate: in.ReleaseDate,
			LTEExists:   in.LTEExists,
		}, resolved)
		return repos.Phones.Create(ctx, phone)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add phone: %w", err)
	}

	s.logger.Info("phone added", "slug", phone.Slug, "id", phone.ID)
	return phone, nil
}

// ImportRuns returns up to limit import runs, newest first. A non-positive limit returns all.
func (s *CatalogService) ImportRuns(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	runs, err := s.store.Repos().ImportRuns.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	return runs, nil
}
