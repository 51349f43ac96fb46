package seller

import "errors"

var (
	ErrSellerNotFound      = errors.New("seller profile not found")
	ErrSellerExists        = errors.New("seller profile already exists")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrInvalidStableName   = errors.New("stable name is required")
	ErrInvalidVerification = errors.New("invalid verification level")
	ErrInvalidRating       = errors.New("rating must be between 0 and 5")
)
