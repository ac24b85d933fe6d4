package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch matches every *SchemaError. It signals that the
	// page no longer has the shape the extractor relies on.
	ErrSchemaMismatch = errors.New("site schema mismatch")

	// ErrNoEvents is returned in most_recent mode when the listing page
	// has no event entries.
	ErrNoEvents = errors.New("listing page has no events")

	ErrInvalidMode  = errors.New("mode must be most_recent or all")
	ErrUnknownStage = errors.New("unknown stage")
)

// SchemaError reports a required field that is missing or malformed. A
// SchemaError is never used for optional fields; those are simply nil.
type SchemaError struct {
	Stage  Stage
	URL    string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s page %s: %s: %s", ErrSchemaMismatch, e.Stage, e.URL, e.Field, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

func schemaError(stage Stage, page *Page, field, format string, args ...any) error {
	return &SchemaError{
		Stage:  stage,
		URL:    page.URL.String(),
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
