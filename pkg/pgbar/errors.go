package pgbar

import "errors"

var (
	// ErrAlreadyDone is returned by Update once the counter has reached
	// its total and no Reset has intervened.
	ErrAlreadyDone = errors.New("pgbar: updating a completed progress bar")

	// ErrZeroTotal is returned when the bar is updated or configured
	// with a task total of zero.
	ErrZeroTotal = errors.New("pgbar: the number of tasks is zero")

	// ErrZeroStep is returned when the step is configured to zero.
	ErrZeroStep = errors.New("pgbar: the step is zero")
)
