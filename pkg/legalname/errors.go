package legalname

import "errors"

// Configuration errors. They signal programmer mistakes and are returned as-is
// so callers can match them with errors.Is.
var (
	ErrAutomatonBuilt   = errors.New("automaton already built")
	ErrEmptyPattern     = errors.New("empty pattern")
	ErrDuplicatePattern = errors.New("duplicate pattern")
	ErrMiddleStrip      = errors.New("middle-of-name stripping is not supported")
)
