package types

import "errors"

// Error categories. Concrete errors wrap one of these with fmt.Errorf("...: %w")
// so callers can test the category with errors.Is and still show the message.
var (
	// ErrIO covers unreadable or unwritable files, including input that
	// could not be decoded with any configured encoding.
	ErrIO = errors.New("i/o error")

	// ErrUnrecognizedFormat means no dialect signature matched the input columns.
	ErrUnrecognizedFormat = errors.New("unrecognized format")

	// ErrValidation means a value could not be mapped without guessing.
	ErrValidation = errors.New("validation error")

	// ErrLimitExceeded rejects a selection change that would pass the limit.
	// The store is left unchanged and later selections may still succeed.
	ErrLimitExceeded = errors.New("selection limit exceeded")

	// ErrNothingSelected is returned by export when every selection is empty.
	ErrNothingSelected = errors.New("nothing selected")
)
