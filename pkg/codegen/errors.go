package codegen

import "errors"

var (
	// ErrUnsupportedDataType is returned when a port declares a data
	// type the generator has no Go-native representation for.
	ErrUnsupportedDataType = errors.New("codegen: unsupported data type")
	// ErrFormat is returned when the assembled source fails to
	// gofmt-format, indicating a bug in the generator's templates.
	ErrFormat = errors.New("codegen: generated source failed to format")
)
