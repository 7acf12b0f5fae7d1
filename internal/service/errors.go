package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is the single generic login failure. An
	// unknown username and a wrong password both produce it, with
	// nothing to tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidSession = errors.New("invalid session")
)

// ValidationError reports a missing or malformed field on a
// single-entity operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
