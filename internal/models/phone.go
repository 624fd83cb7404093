package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxPrice is the exclusive bound on the absolute price: ten digits, two of them decimal.
var MaxPrice = decimal.New(1, 8)

// PriceInRange reports whether d, rounded to cents, fits the stored price column.
func PriceInRange(d decimal.Decimal) bool {
	return d.Round(2).Abs().LessThan(MaxPrice)
}

// DateLayout is the calendar date format used for release dates in files and storage.
const DateLayout = "2006-01-02"

// Phone is a catalog entry.
//
// ID is assigned by the store on creation. Slug is the unique natural key and is never blank once saved.
type Phone struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Image       string
	ReleaseDate *time.Time
	LTEExists   bool
	Slug        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Candidate is a normalized import row, prior to slug resolution.
type Candidate struct {
	Name        string
	Image       string
	Price       decimal.Decimal
	ReleaseDate *time.Time
	LTEExists   bool
	Slug        string // explicit slug from the source, empty when not supplied
}

// NewPhone builds an unsaved Phone from c with the already resolved slug.
func NewPhone(c Candidate, slug string) *Phone {
	now := time.Now().UTC()
	return &Phone{
		Name:        c.Name,
		Price:       c.Price,
		Image:       c.Image,
		ReleaseDate: c.ReleaseDate,
		LTEExists:   c.LTEExists,
		Slug:        slug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply overwrites the mutable fields of p with the values of c. The slug is left untouched.
func (p *Phone) Apply(c Candidate) {
	p.Name = c.Name
	p.Price = c.Price
	p.Image = c.Image
	p.ReleaseDate = c.ReleaseDate
	p.LTEExists = c.LTEExists
}

// Validate checks the fields the store relies on.
func (p *Phone) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("phone name is required")
	}
	if p.Slug == "" {
		return fmt.Errorf("phone slug is required")
	}
	if !PriceInRange(p.Price) {
		return fmt.Errorf("phone price %s must be below %s", p.Price.String(), MaxPrice.String())
	}
	return nil
}

// ReleaseDateString formats the release date, or returns "" when absent.
func (p *Phone) ReleaseDateString() string {
	if p.ReleaseDate == nil {
		return ""
	}
	return p.ReleaseDate.Format(DateLayout)
}

// PriceString formats the price with two decimal places.
func (p *Phone) PriceString() string {
	return p.Price.StringFixed(2)
}

func (p *Phone) String() string {
	return p.Name
}
