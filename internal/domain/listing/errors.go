package listing

import "errors"

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrAlreadyPublished = errors.New("listing is already published")
	ErrNotPublished     = errors.New("listing is not published")
	ErrInvalidTitle     = errors.New("title is required")
	ErrInvalidMedia     = errors.New("photo and video counts must not be negative")
)
