package transfer

import "errors"

var (
	// ErrReadFailed indicates the source could not be read at all.
	ErrReadFailed = errors.New("failed to read import data")
	// ErrBadDocument indicates the payload is not a JSON array of accounts.
	ErrBadDocument = errors.New("import data is not a JSON account array")
	// ErrWriteFailed indicates the export destination rejected the payload.
	ErrWriteFailed = errors.New("failed to write export data")
)
