package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrFilmNotFound signals a missing film document.
	ErrFilmNotFound = wrapNotFound("film not found")
	// ErrGenreNotFound signals a missing genre document.
	ErrGenreNotFound = wrapNotFound("genre not found")
	// ErrPersonNotFound signals a missing person document.
	ErrPersonNotFound = wrapNotFound("person not found")

	// ErrInvalidRequest signals malformed query parameters.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrContractViolation signals a source row that lacks a required field.
	// Retrying cannot fix it, so it aborts the pass.
	ErrContractViolation = errors.New("contract violation")
)

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

func wrapNotFound(msg string) error { return &notFoundError{msg: msg} }
