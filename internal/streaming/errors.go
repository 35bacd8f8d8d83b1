package streaming

import "errors"

// Configuration errors. Validation reports every violation at once; match
// individual causes with errors.Is.
var (
	ErrNoDetailLevels      = errors.New("no detail levels configured")
	ErrTooManyDetailLevels = errors.New("more detail levels than supported LODs")
	ErrLODRange            = errors.New("detail level LOD out of range")
	ErrThresholdOrder      = errors.New("detail level distances must be positive and strictly increasing")
	ErrColliderLOD         = errors.New("collider LOD index out of range")
	ErrNegativeDistance    = errors.New("distance must not be negative")
	ErrMaxRetries          = errors.New("max retries must not be negative")
	ErrNormalizeMode       = errors.New("unknown noise normalize mode")
)

// ErrResultType is passed to a completion when a producer returned a value of
// an unexpected type.
var ErrResultType = errors.New("unexpected generation result type")
