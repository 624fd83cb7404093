package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrPhoneNotFound = fmt.Errorf("phone not found")
	ErrDuplicateSlug = fmt.Errorf("slug already exists")

	// Import errors
	ErrFileNotFound  = fmt.Errorf("file not found")
	ErrMissingHeader = fmt.Errorf("missing header row")
	ErrMissingColumn = fmt.Errorf("missing column")
	ErrMalformedFile = fmt.Errorf("malformed file")
	ErrImportFailed  = fmt.Errorf("import failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
