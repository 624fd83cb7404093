// Package services exposes the phone catalog to its front ends.
//
// # Catalog
//
// [CatalogService] implements [Catalog] over a [Store] (normally a repositories.Store):
//   - [CatalogService.List] : all phones, sorted by [SortKey]
//   - [CatalogService.GetBySlug] : one phone by exact slug
//   - [CatalogService.Add] : administrative single-phone create
//   - [CatalogService.ImportRuns] : recent import history
//
// # Sorting
//
// [ParseSortKey] accepts "name", "min_price" and "max_price". Anything else, including the
// empty string, falls back to sorting by name. Ties are always broken by ID so the order is stable.
//
// # Error Handling
//
// Lookups that find nothing return an error wrapping [shared.ErrPhoneNotFound], which callers
// distinguish from storage failures with errors.Is. Bad input to Add wraps [shared.ErrInvalidInput].
package services
