package core

import "errors"

// ErrNoReferenceData is returned when the occurrence matrix holds no rows, so
// there is nothing to score.  It is not returned when symptoms merely fail to
// match.
var ErrNoReferenceData = errors.New("no reference data to match against")

// ValidationError reports a malformed or insufficient symptom list.  The
// caller can fix the input and resubmit.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
