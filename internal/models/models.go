// package models defines the data model for the phone catalog
package models

import (
	"context"
)

// PhoneRepository defines persistence operations for [Phone] entities.
//
// The slug is the natural key: FindBySlug and ExistsBySlug match it exactly.
type PhoneRepository interface {
	// FindBySlug returns the phone holding slug, or an error wrapping shared.ErrPhoneNotFound.
	FindBySlug(ctx context.Context, slug string) (*Phone, error)
	// ExistsBySlug reports whether any phone holds slug.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	// Create inserts phone and assigns its ID.
	Create(ctx context.Context, phone *Phone) error
	// Update overwrites the mutable fields of an existing phone.
	Update(ctx context.Context, phone *Phone) error
	// List returns every phone in the given order.
	List(ctx context.Context, order Ordering) ([]*Phone, error)
}

// ImportRunRepository records completed imports.
type ImportRunRepository interface {
	Create(ctx context.Context, run *ImportRun) error
	Recent(ctx context.Context, limit int) ([]*ImportRun, error)
}

// Repos bundles the repositories bound to a single transaction.
type Repos struct {
	Phones     PhoneRepository
	ImportRuns ImportRunRepository
}

// Transactor runs fn inside one atomic transaction.
//
// If fn returns an error (or panics) nothing it wrote is committed.
type Transactor interface {
	Transact(ctx context.Context, fn func(Repos) error) error
}

// Ordering selects the sort order for [PhoneRepository.List].
type Ordering int

const (
	OrderByName      Ordering = iota // name ascending
	OrderByPriceAsc                  // price ascending
	OrderByPriceDesc                 // price descending
)
