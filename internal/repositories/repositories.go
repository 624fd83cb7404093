// package repositories provides the SQLite persistence layer for the phone catalog.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/phonecat/internal/models"
	"github.com/mattn/go-sqlite3"
)

// DBTX is the subset of [sql.DB] and [sql.Tx] the repositories need, so the same
// repository code runs inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX              = (*sql.DB)(nil)
	_ DBTX              = (*sql.Tx)(nil)
	_ models.Transactor = (*Store)(nil)
)

// Store owns the database handle and hands out repositories, either directly or
// bound to a transaction via [Store.Transact].
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store over db. Migrations must already be applied.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Repos returns repositories that run each statement on its own.
func (s *Store) Repos() models.Repos {
	return reposFor(s.db)
}

// Phones returns a non-transactional [PhoneRepository].
func (s *Store) Phones() *PhoneRepository {
	return NewPhoneRepository(s.db)
}

// ImportRuns returns a non-transactional [ImportRunRepository].
func (s *Store) ImportRuns() *ImportRunRepository {
	return NewImportRunRepository(s.db)
}

// Transact runs fn inside a single transaction.
//
// The transaction commits only when fn returns nil; an error or panic rolls back every write fn made.
func (s *Store) Transact(ctx context.Context, fn func(models.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(reposFor(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func reposFor(db DBTX) models.Repos {
	return models.Repos{
		Phones:     NewPhoneRepository(db),
		ImportRuns: NewImportRunRepository(db),
	}
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
