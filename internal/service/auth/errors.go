package auth

import "errors"

var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures and
	// unexpected signing methods.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned when the token's exp claim has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned when the token's nbf/iat lies in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken is returned when no token was presented.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWeakSecret is returned by NewJWTService for short signing keys.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
