package service

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidProvider is returned by SocialLogin for providers other
	// than apple and google.
	ErrInvalidProvider = errors.New("unsupported identity provider")
)
