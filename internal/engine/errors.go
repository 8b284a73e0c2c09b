package engine

import "errors"

var (
	// ErrConfiguration is returned by New for invalid dimensions, piece
	// size, piece count or action count.
	ErrConfiguration = errors.New("engine: invalid configuration")

	// ErrIllegalAction is returned by Step when the action index is out of
	// range for the current piece. The engine state is left untouched.
	ErrIllegalAction = errors.New("engine: illegal action")

	// ErrInvalidState is returned by Step after lock-out until Reset.
	ErrInvalidState = errors.New("engine: episode terminated, reset required")
)
