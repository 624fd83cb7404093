package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/shared"
)

// Outcome tells whether an upsert created or updated a phone.
type Outcome int

const (
	Created Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Upserter finds-or-creates phones by slug.
type Upserter struct {
	logger *log.Logger
}

// NewUpserter creates an Upserter. A nil logger discards output.
func NewUpserter(logger *log.Logger) *Upserter {
	if logger == nil {
		logger = shared.NopLogger()
	}
	return &Upserter{logger: logger}
}

// Upsert stores c under slug using phones, which should be bound to the caller's transaction.
//
// When no phone holds slug a new one is created; otherwise name, price, image, release date and
// LTE flag are overwritten in place. A create that loses a race on the UNIQUE(slug) constraint
// falls back to updating the winner, so two callers never both create the same slug.
func (u *Upserter) Upsert(ctx context.Context, phones models.PhoneRepository, c models.Candidate, slug string) (*models.Phone, Outcome, error) {
	existing, err := phones.FindBySlug(ctx, slug)
	if err == nil {
		return u.update(ctx, phones, existing, c)
	}
	if !errors.Is(err, shared.ErrPhoneNotFound) {
		return nil, 0, fmt.Errorf("failed to look up slug %q: %w", slug, err)
	}

	phone := models.NewPhone(c, slug)
	err = phones.Create(ctx, phone)
	switch {
	case err == nil:
		u.logger.Debug("phone created", "slug", slug, "id", phone.ID)
		return phone, Created, nil
	case !errors.Is(err, shared.ErrDuplicateSlug):
		return nil, 0, err
	}

	u.logger.Debug("slug taken concurrently, updating instead", "slug", slug)
	existing, err = phones.FindBySlug(ctx, slug)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reload slug %q: %w", slug, err)
	}
	return u.update(ctx, phones, existing, c)
}

func (u *Upserter) update(ctx context.Context, phones models.PhoneRepository, phone *models.Phone, c models.Candidate) (*models.Phone, Outcome, error) {
	phone.Apply(c)
	if err := phones.Update(ctx, phone); err != nil {
		return nil, 0, err
	}
	u.logger.Debug("phone updated", "slug", phone.Slug, "id", phone.ID)
	return phone, Updated, nil
}
