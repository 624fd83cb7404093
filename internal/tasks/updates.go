package tasks

import (
	"fmt"

	"github.com/desertthunder/phonecat/internal/importer"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ImportFile Phase = iota
	FileImported
	FileFailed
	BatchDone
)

func (p Phase) String() string {
	switch p {
	case ImportFile:
		return "import_file"
	case FileImported:
		return "file_imported"
	case FileFailed:
		return "file_failed"
	case BatchDone:
		return "batch_done"
	default:
		return ""
	}
}

func importingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Importing %s...", step, total, path),
	}
}

func importedUpdate(step, total int, path string, r *importer.Report) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FileImported,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (created %d, updated %d, skipped %d)", step, total, path, r.Created, r.Updated, r.Skipped),
		Data:    r,
	}
}

func failedUpdate(step, total int, path string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FileFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, path, err),
	}
}

func doneUpdate(total int, res *BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchDone,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("%d of %d files imported", res.Succeeded, total),
		Data:    res,
	}
}
