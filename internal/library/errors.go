package library

import "errors"

var (
	// ErrNotFound indicates the requested entry doesn't exist.
	ErrNotFound = errors.New("entry does not exist")

	// ErrTitleLength indicates a title outside the 1-128 character bounds.
	ErrTitleLength = errors.New("title must be 1-128 characters")

	// ErrTagLength indicates a tag outside the 1-32 character bounds.
	ErrTagLength = errors.New("tag must be 1-32 characters")
)
