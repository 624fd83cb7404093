// Package repositories implements SQLite persistence for the catalog entities.
//
// Key Implementations:
//   - [PhoneRepository] : phone persistence keyed by the unique slug
//   - [ImportRunRepository] : history of committed imports
//   - [Store] : hands out repositories and scopes them to a transaction with [Store.Transact]
//
// Repositories are written against [DBTX], which both *sql.DB and *sql.Tx satisfy, so the
// importer can drive the same code inside one all-or-nothing transaction.
// UNIQUE(slug) violations surface as shared.ErrDuplicateSlug.
package repositories
