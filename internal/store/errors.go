package store

import "errors"

// Sentinel errors returned by Store implementations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidRating rejects a movie whose rating is outside [0,10] or has more than one decimal.
	ErrInvalidRating = errors.New("invalid movie rating")

	// ErrUnavailable wraps connection and transport failures: the store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)
