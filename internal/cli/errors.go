package cli

import "errors"

var (
	errIDRequired       = errors.New("id is required")
	errTitleRequired    = errors.New("title is required")
	errFieldRequired    = errors.New("field is required")
	errValueRequired    = errors.New("value is required")
	errDepRequired      = errors.New("dependency id is required")
	errNoteTextRequired = errors.New("note text is required")
	errInvalidPriority  = errors.New("invalid priority (must be 0-4)")
)
