package promptdb

import "errors"

// DefaultFileName is the document file created under the data directory.
const DefaultFileName = "prompts.json"

var (
	// ErrCorrupt marks a backing file that is not a JSON object of string->string objects.
	ErrCorrupt = errors.New("promptdb: corrupt document")
	// ErrEmptyKey is returned when a category or prompt name is empty.
	ErrEmptyKey = errors.New("promptdb: category and prompt name are required")
)
