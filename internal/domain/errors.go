package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInsufficientEnergy is returned when an energy spend would make the
	// balance negative.
	ErrInsufficientEnergy = errors.New("insufficient energy")

	// ErrInvalidEnergyAmount is returned when an energy spend is not positive.
	ErrInvalidEnergyAmount = errors.New("energy amount must be positive")

	// ErrInvalidScore is returned when a progress score is negative.
	ErrInvalidScore = errors.New("score cannot be negative")
)
