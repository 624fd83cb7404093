package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/phonecat/internal/models"
	"github.com/desertthunder/phonecat/internal/shared"
	"github.com/shopspring/decimal"
)

const phoneColumns = `id, name, price_cents, image, release_date, lte_exists, slug, created_at, updated_at`

// PhoneRepository implements [models.PhoneRepository] on SQLite.
//
// Prices are stored as integer minor units so ordering by price is exact.
type PhoneRepository struct {
	db DBTX
}

// NewPhoneRepository creates a new PhoneRepository with the given database handle
func NewPhoneRepository(db DBTX) *PhoneRepository {
	return &PhoneRepository{db: db}
}

// Create inserts phone and sets its ID.
//
// Returns an error wrapping [shared.ErrDuplicateSlug] when the slug is already taken.
func (r *PhoneRepository) Create(ctx context.Context, phone *models.Phone) error {
	if err := phone.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	cents, err := toCents(phone.Price)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if phone.CreatedAt.IsZero() {
		phone.CreatedAt = now
	}
	phone.UpdatedAt = now

	query := `
		INSERT INTO phones (name, price_cents, image, release_date, lte_exists, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		phone.Name,
		cents,
		phone.Image,
		nullDate(phone.ReleaseDate),
		phone.LTEExists,
		phone.Slug,
		phone.CreatedAt,
		phone.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shared.ErrDuplicateSlug, phone.Slug)
		}
		return fmt.Errorf("failed to insert phone: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	phone.ID = id

	return nil
}

// FindBySlug retrieves a phone by exact slug match.
func (r *PhoneRepository) FindBySlug(ctx context.Context, slug string) (*models.Phone, error) {
	query := `SELECT ` + phoneColumns + ` FROM phones WHERE slug = ?`
	return scanPhone(r.db.QueryRowContext(ctx, query, slug), slug)
}

// Get retrieves a phone by ID.
func (r *PhoneRepository) Get(ctx context.Context, id int64) (*models.Phone, error) {
	query := `SELECT ` + phoneColumns + ` FROM phones WHERE id = ?`
	return scanPhone(r.db.QueryRowContext(ctx, query, id), fmt.Sprintf("id %d", id))
}

// ExistsBySlug reports whether a phone holds slug.
func (r *PhoneRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM phones WHERE slug = ?)", slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// Update overwrites name, price, image, release date and LTE flag of an existing phone.
//
// The slug is the lookup key and is never rewritten.
func (r *PhoneRepository) Update(ctx context.Context, phone *models.Phone) error {
	if err := phone.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	cents, err := toCents(phone.Price)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	query := `
		UPDATE phones
		SET name = ?, price_cents = ?, image = ?, release_date = ?, lte_exists = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		phone.Name,
		cents,
		phone.Image,
		nullDate(phone.ReleaseDate),
		phone.LTEExists,
		now,
		phone.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update phone: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrPhoneNotFound, phone.ID)
	}

	phone.UpdatedAt = now
	return nil
}

// List returns every phone in the requested order; ties are broken by ID.
func (r *PhoneRepository) List(ctx context.Context, order models.Ordering) ([]*models.Phone, error) {
	query := `SELECT ` + phoneColumns + ` FROM phones ORDER BY ` + orderClause(order)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer rows.Close()

	phones := []*models.Phone{}
	for rows.Next() {
		phone, err := scanPhone(rows, "")
		if err != nil {
			return nil, err
		}
		phones = append(phones, phone)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return phones, nil
}

// Count returns the number of stored phones.
func (r *PhoneRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM phones").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count phones: %w", err)
	}
	return n, nil
}

func orderClause(order models.Ordering) string {
	switch order {
	case models.OrderByPriceAsc:
		return "price_cents ASC, id ASC"
	case models.OrderByPriceDesc:
		return "price_cents DESC, id ASC"
	default:
		return "name ASC, id ASC"
	}
}

// scanner is satisfied by both [sql.Row] and [sql.Rows]
type scanner interface {
	Scan(dest ...any) error
}

// scanPhone scans one row into a [models.Phone]. key names the lookup in not-found errors.
func scanPhone(row scanner, key string) (*models.Phone, error) {
	var (
		phone       models.Phone
		cents       int64
		releaseDate sql.NullString
	)

	err := row.Scan(
		&phone.ID,
		&phone.Name,
		&cents,
		&phone.Image,
		&releaseDate,
		&phone.LTEExists,
		&phone.Slug,
		&phone.CreatedAt,
		&phone.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPhoneNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan phone: %w", err)
	}

	phone.Price = decimal.New(cents, -2)
	if releaseDate.Valid && releaseDate.String != "" {
		d, err := time.Parse(models.DateLayout, releaseDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse release date %q: %w", releaseDate.String, err)
		}
		phone.ReleaseDate = &d
	}

	return &phone, nil
}

// toCents converts d to integer minor units, refusing amounts the column can't hold.
func toCents(d decimal.Decimal) (int64, error) {
	if !models.PriceInRange(d) {
		return 0, fmt.Errorf("%w: price %s out of range", shared.ErrInvalidInput, d.String())
	}
	return d.Round(2).Shift(2).IntPart(), nil
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(models.DateLayout), Valid: true}
}
