package session

import (
	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/results"
)

// questionReadyMsg is sent when the next question has been produced.
type questionReadyMsg struct {
	Question *assessment.Question
	Err      error
}

// resultReadyMsg is sent when the finished assessment has been compiled.
type resultReadyMsg struct {
	Result *results.Result
	Err    error
}
