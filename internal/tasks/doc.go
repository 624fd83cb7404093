// Package tasks runs catalog imports that span several files, with real-time progress reporting.
//
// # Core Operation
//
// [ImportEngine.ImportAll] imports each file through a [FileImporter] (the importer package):
//   - Files run sequentially; SQLite has a single writer
//   - Each file is its own transaction, so one bad file leaves the others intact
//   - Per-file reports are summed into a [BatchResult]
//
// [ExpandPaths] turns the paths and glob patterns given on the command line into an ordered, de-duplicated file list.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
