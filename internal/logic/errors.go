package logic

import "errors"

var (
	// ErrProfileConstruction is returned when a player has no result that
	// joins a known tournament.
	ErrProfileConstruction = errors.New("player has no usable results")

	// ErrNoEligibleCandidates is returned when a mode's candidate pool is
	// empty after filtering and exclusions.
	ErrNoEligibleCandidates = errors.New("no eligible candidates")

	// ErrInsufficientHistory is returned when a chosen answer has no result
	// in a ranked series to build hints from.
	ErrInsufficientHistory = errors.New("insufficient history for hints")

	// ErrUnknownDayKey is returned when no daily record exists for a day key.
	ErrUnknownDayKey = errors.New("unknown day key")

	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrNoGame         = errors.New("no game has been scheduled")
	ErrInvalidReport  = errors.New("invalid report")
)
