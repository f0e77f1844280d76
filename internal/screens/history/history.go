// Package history lists previously completed assessments.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/results"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/screens/summary"
	"github.com/abhisek/careerpath/internal/ui/layout"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

// Lister returns past results, newest first.
type Lister interface {
	List(ctx context.Context) ([]results.Result, error)
}

type historyLoadedMsg struct {
	Results []results.Result
	Err     error
}

// HistoryScreen displays past results.
type HistoryScreen struct {
	lister   Lister
	results  []results.Result
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(lister Lister) *HistoryScreen {
	return &HistoryScreen{lister: lister}
}

func (s *HistoryScreen) Init() tea.Cmd {
	lister := s.lister
	return func() tea.Msg {
		rs, err := lister.List(context.Background())
		return historyLoadedMsg{Results: rs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Results"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.results) {
				r := s.results[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: summary.New(&r)}
				}
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading results...")
	}
	if len(s.results) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No results yet. Take the assessment to get your first one!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, r := range s.results {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %-11s  knowledge %d/5  %s",
			prefix,
			r.CompletedAt.Local().Format("Jan 02, 2006 15:04"),
			r.DominantInterest,
			r.KnowledgeScore,
			r.Recommendation.SuggestedRole,
		)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
