package errs

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrBookBorrowed  = errors.New("book is already borrowed")
	ErrNotBorrowed   = errors.New("book is not borrowed by this user")
	ErrInvalidCreds  = errors.New("invalid username or password")
	ErrSessionClosed = errors.New("session expired or closed")
)

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
