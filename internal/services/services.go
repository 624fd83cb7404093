package services

import (
	"context"
	"strings"

	"github.com/desertthunder/phonecat/internal/models"
)

// Catalog defines the read and administrative operations on the phone catalog.
type Catalog interface {
	// List returns every phone ordered by sort.
	List(ctx context.Context, sort SortKey) ([]*models.Phone, error)

	// GetBySlug returns the phone with exactly this slug.
	// Returns an error wrapping shared.ErrPhoneNotFound if no phone matches.
	GetBySlug(ctx context.Context, slug string) (*models.Phone, error)

	// Add creates a phone, deriving a free slug from its name or explicit slug.
	Add(ctx context.Context, in NewPhoneInput) (*models.Phone, error)

	// ImportRuns returns up to limit import runs, newest first.
	ImportRuns(ctx context.Context, limit int) ([]*models.ImportRun, error)
}

// Store is the persistence the catalog runs on.
type Store interface {
	models.Transactor
	Repos() models.Repos
}

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortDefault  SortKey = ""
	SortName     SortKey = "name"
	SortMinPrice SortKey = "min_price"
	SortMaxPrice SortKey = "max_price"
)

// SortKeys lists the accepted sort keys in display order.
var SortKeys = []SortKey{SortName, SortMinPrice, SortMaxPrice}

// ParseSortKey normalizes user input. Unknown values map to [SortDefault].
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortName, SortMinPrice, SortMaxPrice:
		return k
	default:
		return SortDefault
	}
}

// Ordering maps k to the repository ordering; [SortDefault] sorts by name.
func (k SortKey) Ordering() models.Ordering {
	switch k {
	case SortMinPrice:
		return models.OrderByPriceAsc
	case SortMaxPrice:
		return models.OrderByPriceDesc
	default:
		return models.OrderByName
	}
}

// Next cycles through [SortKeys].
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortMinPrice
}

// Label is the human readable name of k.
func (k SortKey) Label() string {
	switch k {
	case SortMinPrice:
		return "price (low to high)"
	case SortMaxPrice:
		return "price (high to low)"
	default:
		return "name"
	}
}
