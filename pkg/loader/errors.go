package loader

import "errors"

var (
	// ErrInvalidJSON is returned when the input is not well-formed JSON.
	ErrInvalidJSON = errors.New("loader: input is not valid JSON")
	// ErrSchemaValidation is returned when the document fails schema
	// validation; the returned error wraps this sentinel with the
	// collected validation failures.
	ErrSchemaValidation = errors.New("loader: document failed schema validation")
)
