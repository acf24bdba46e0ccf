package types

import "errors"

// Domain errors for type validation
var (
	ErrChunkTooShort     = errors.New("chunk text too short")
	ErrEmptyContent      = errors.New("content cannot be empty")
	ErrInvalidSimilarity = errors.New("similarity must be between 0 and 1")
)
