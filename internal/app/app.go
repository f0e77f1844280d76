// Package app is the root Bubble Tea model of the interactive assessment.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/notify"
	"github.com/abhisek/careerpath/internal/questiongen"
	"github.com/abhisek/careerpath/internal/results"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/screens/home"
	sessionscreen "github.com/abhisek/careerpath/internal/screens/session"
	"github.com/abhisek/careerpath/internal/screens/summary"
	"github.com/abhisek/careerpath/internal/screens/welcome"
	"github.com/abhisek/careerpath/internal/ui/layout"
)

// Deps are the collaborators screens need.
type Deps struct {
	Catalog *catalog.Catalog

	// Provider generates dynamic questions. Nil serves every dynamic
	// question from the local catalog.
	Provider  llm.Provider
	GenConfig questiongen.Config

	Compiler *results.Compiler
	Results  *results.Store

	// Bus carries completion events that refresh the home screen. May be nil.
	Bus    notify.Bus
	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(deps Deps) AppModel {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	var source home.ResultSource
	if deps.Results != nil {
		source = deps.Results
	}
	return AppModel{
		router: router.New(home.New(startFunc(deps), source)),
	}
}

// startFunc builds the profile screen, which in turn starts a fresh session.
func startFunc(deps Deps) func() screen.Screen {
	return func() screen.Screen {
		return welcome.New(func(p assessment.Profile) screen.Screen {
			gen := questiongen.NewDynamic(deps.Catalog, deps.Provider, deps.GenConfig, deps.Logger)
			sess, err := assessment.NewSession(uuid.NewString(), p, deps.Catalog.Banks(), gen)
			if err != nil {
				deps.Logger.Error("new session", zap.Error(err))
				return errorScreen{err: err}
			}
			deps.Logger.Info("assessment started",
				zap.String("session_id", sess.ID),
				zap.String("education_level", string(p.EducationLevel)),
			)
			return sessionscreen.New(sess, deps.Compiler, func(r *results.Result) screen.Screen {
				return summary.New(r)
			}, deps.Logger)
		})
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var hints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	if hints == nil {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// watchResults forwards completion events on bus to send as a home refresh
// addressed to the root screen. It returns the unsubscribe function.
func watchResults(bus notify.Bus, send func(tea.Msg)) func() {
	if bus == nil {
		return func() {}
	}
	return bus.Subscribe(func(ev notify.Event) {
		if ev.Name == notify.AssessmentCompleted {
			send(router.RootMsg{Msg: home.ResultsChangedMsg{}})
		}
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))

	// Subscribers run on the publisher's goroutine; Send blocks until the
	// program reads the message.
	unsubscribe := watchResults(deps.Bus, func(msg tea.Msg) { go p.Send(msg) })
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// errorScreen reports a failure to start an assessment.
type errorScreen struct {
	err error
}

func (e errorScreen) Init() tea.Cmd { return nil }
func (e errorScreen) Title() string { return "Error" }

func (e errorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return e, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return e, nil
}

func (e errorScreen) View(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		fmt.Sprintf("Could not start the assessment: %v\n\nPress any key to go back.", e.err))
}
