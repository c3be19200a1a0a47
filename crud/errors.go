package crud

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("entity not found")
	ErrIDMismatch   = errors.New("id in body does not match id in path")
	ErrUnauthorized = errors.New("unknown user")
	ErrInvalidBody  = errors.New("invalid request body")
)

// UserFriendlyError carries a message that can be shown to the user as is.
type UserFriendlyError struct {
	Message string
}

func (e *UserFriendlyError) Error() string {
	return e.Message
}

func NewUserFriendlyError(format string, args ...any) error {
	return &UserFriendlyError{Message: fmt.Sprintf(format, args...)}
}

// AsUserFriendly finds the first UserFriendlyError in the chain of err.
func AsUserFriendly(err error) (*UserFriendlyError, bool) {
	var ufe *UserFriendlyError
	if errors.As(err, &ufe) {
		return ufe, true
	}
	return nil, false
}
