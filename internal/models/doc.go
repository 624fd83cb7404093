// Package models defines domain entities and persistence interfaces for the phone catalog.
//
// The package contains:
//
//   - [Phone] : the persisted catalog entity, keyed by a unique slug
//   - [Candidate] : a normalized import row before slug resolution
//   - [ImportRun] : the audit record of a committed import
//
// Persistence is expressed as explicit interfaces ([PhoneRepository], [ImportRunRepository])
// and a [Transactor] that scopes a batch of repository calls to one atomic transaction.
// Slugs are assigned explicitly by callers; there is no save hook.
package models
