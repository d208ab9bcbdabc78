package feed

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrRejected        = errors.New("rejected by server")
	ErrNotOwner        = errors.New("review belongs to another user")
	ErrUnauthenticated = errors.New("no authenticated author")
	ErrClosed          = errors.New("session closed")
	ErrBusy            = errors.New("operation already in progress")
	ErrNoUploader      = errors.New("no uploader configured")
)

func rejected(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRejected, err)
}
