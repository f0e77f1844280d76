// Package session is the screen that walks a learner through one
// assessment.
package session

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/results"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/layout"
)

// Compiler turns a finished tally into a result.
type Compiler interface {
	Compile(ctx context.Context, t assessment.Tally) (*results.Result, error)
}

// SessionScreen implements screen.Screen for an active assessment. Only one
// question fetch or answer is in flight at a time: input is ignored while a
// question is loading.
type SessionScreen struct {
	sess     *assessment.Session
	compiler Compiler
	done     func(*results.Result) screen.Screen
	log      *zap.Logger

	question    *assessment.Question
	mc          components.MultiChoice
	loading     bool
	compiling   bool
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates a SessionScreen for sess. done builds the screen shown once
// the result is compiled.
func New(sess *assessment.Session, compiler Compiler, done func(*results.Result) screen.Screen, logger *zap.Logger) *SessionScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionScreen{
		sess:     sess,
		compiler: compiler,
		done:     done,
		log:      logger.Named("tui.session"),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return s.fetchQuestion()
}

func (s *SessionScreen) Title() string {
	return "Assessment"
}

func (s *SessionScreen) Status() string {
	answered, total := s.sess.Progress()
	n := answered + 1
	if n > total {
		n = total
	}
	return fmt.Sprintf("Q %d/%d", n, total)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "1-5", Description: "Pick"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionReadyMsg:
		return s.handleQuestionReady(msg)
	case resultReadyMsg:
		return s.handleResultReady(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) fetchQuestion() tea.Cmd {
	s.loading = true
	sess := s.sess
	return func() tea.Msg {
		q, err := sess.Current(context.Background())
		return questionReadyMsg{Question: q, Err: err}
	}
}

func (s *SessionScreen) handleQuestionReady(msg questionReadyMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if errors.Is(msg.Err, assessment.ErrComplete) {
		return s, s.compile()
	}
	if msg.Err != nil {
		s.log.Error("question failed", zap.Error(msg.Err))
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.question = msg.Question
	opts := make([]string, len(msg.Question.Options))
	for i, o := range msg.Question.Options {
		opts[i] = o.Text
	}
	s.mc = components.NewMultiChoice(msg.Question.Text, opts)
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			// Abandoned assessments persist nothing.
			s.log.Info("assessment abandoned", zap.String("session_id", s.sess.ID))
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		if !s.compiling {
			s.confirmQuit = true
		}
		return s, nil
	}

	if s.loading || s.compiling || s.question == nil {
		return s, nil
	}

	s.mc, _ = s.mc.Update(msg)
	if !s.mc.Submitted {
		return s, nil
	}
	return s.submit(s.mc.ChosenIndex)
}

func (s *SessionScreen) submit(idx int) (screen.Screen, tea.Cmd) {
	if _, err := s.sess.Answer(context.Background(), idx); err != nil {
		s.log.Error("answer failed", zap.Error(err))
		s.errMsg = err.Error()
		return s, nil
	}
	s.question = nil

	if s.sess.Done() {
		return s, s.compile()
	}
	return s, s.fetchQuestion()
}

func (s *SessionScreen) compile() tea.Cmd {
	s.compiling = true
	tally := s.sess.Tally()
	compiler := s.compiler
	return func() tea.Msg {
		r, err := compiler.Compile(context.Background(), tally)
		return resultReadyMsg{Result: r, Err: err}
	}
}

func (s *SessionScreen) handleResultReady(msg resultReadyMsg) (screen.Screen, tea.Cmd) {
	s.compiling = false
	if msg.Err != nil {
		s.log.Error("compile failed", zap.Error(msg.Err))
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	next := s.done(msg.Result)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
