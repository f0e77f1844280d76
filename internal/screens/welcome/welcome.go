// Package welcome collects the learner profile before an assessment starts.
package welcome

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/layout"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

const maxNameLen = 60

type step int

const (
	stepName step = iota
	stepEducation
)

var educationLabels = map[assessment.EducationLevel]string{
	assessment.EducationSchool:        "School student",
	assessment.EducationSecondary:     "Higher secondary student",
	assessment.EducationUndergraduate: "Undergraduate",
	assessment.EducationProfessional:  "Working professional",
}

// WelcomeScreen asks for the learner's name and education level, then
// replaces itself with the screen produced by start.
type WelcomeScreen struct {
	start   func(assessment.Profile) screen.Screen
	step    step
	input   components.TextInput
	menu    components.Menu
	profile assessment.Profile
	started bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen.
func New(start func(assessment.Profile) screen.Screen) *WelcomeScreen {
	w := &WelcomeScreen{
		start: start,
		input: components.NewTextInput("Your name", maxNameLen),
	}

	items := make([]components.MenuItem, 0, len(assessment.EducationLevels))
	for _, lvl := range assessment.EducationLevels {
		items = append(items, components.MenuItem{
			Label:  educationLabels[lvl],
			Action: w.chooseEducation(lvl),
		})
	}
	w.menu = components.NewMenu(items)
	return w
}

func (w *WelcomeScreen) Title() string {
	return "Your Profile"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if w.step == stepName {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch w.step {
	case stepName:
		if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
			name := w.input.Value()
			if name == "" {
				w.input.Reject("please enter your name")
				return w, nil
			}
			w.profile.Learner = name
			w.step = stepEducation
			return w, nil
		}
		w.input, cmd = w.input.Update(msg)
	case stepEducation:
		w.menu, cmd = w.menu.Update(msg)
	}
	return w, cmd
}

func (w *WelcomeScreen) chooseEducation(lvl assessment.EducationLevel) func() tea.Cmd {
	return func() tea.Cmd {
		if w.started {
			return nil
		}
		w.started = true
		w.profile.EducationLevel = lvl
		next := w.start(w.profile)
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	tagline := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("%d questions to find the path that fits you", assessment.TotalQuestions))
	sections = append(sections, tagline, "")

	switch w.step {
	case stepName:
		sections = append(sections,
			theme.Section.Render("What should we call you?"),
			"",
			w.input.View(),
		)
	case stepEducation:
		sections = append(sections,
			theme.Section.Render(fmt.Sprintf("Hi %s! Where are you in your studies?", w.profile.Learner)),
			"",
			w.menu.View(),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
