package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrInvalidTransition = errors.New("invalid session transition")

	// Resource errors
	ErrInvalidAmount = errors.New("amount must be positive")

	// Roster and preference errors
	ErrInvalidSlot     = errors.New("invalid team slot")
	ErrInvalidHero     = errors.New("hero id is required")
	ErrInvalidGameMode = errors.New("invalid game mode")

	// Storage errors
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
)
