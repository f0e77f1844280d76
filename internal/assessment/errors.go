package assessment

import "errors"

var (
	// ErrComplete is returned by Sequencer.Next and Session.Current once all
	// questions have been answered.
	ErrComplete = errors.New("assessment complete")

	// ErrInvalidOption is returned when a selected option index is outside
	// the question's option list.
	ErrInvalidOption = errors.New("invalid option index")
)
