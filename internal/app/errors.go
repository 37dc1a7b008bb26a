package service

import "errors"

// Sentinel errors for lookup input validation.
var (
	ErrInvalidTeam   = errors.New("invalid team number")
	ErrInvalidSeason = errors.New("invalid season")
	ErrNotStarted    = errors.New("service not started")
)
