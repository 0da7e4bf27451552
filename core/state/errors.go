package state

import "errors"

// Data-integrity violations raised by storage for a single record.
var (
	ErrNoPrimaryID     = errors.New("record has no primary id")
	ErrHasPrimaryID    = errors.New("record already has a primary id")
	ErrNoEpisodeNumber = errors.New("episode record has no episode number")
	ErrInvalidType     = errors.New("invalid record type")
)
