package backend

import (
	"errors"
	"fmt"
)

// Input errors are detected before any network call.
var (
	ErrNoFile = errors.New("please upload a patient ZIP file first")
	ErrNotZip = errors.New("only .zip archives are accepted")
)

// BackendError is a response with a status other than 200, or a 200 whose
// body could not be decoded.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError means no response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err was caused by the upload itself.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoFile) || errors.Is(err, ErrNotZip)
}
