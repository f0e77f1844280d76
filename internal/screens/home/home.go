// Package home is the main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/results"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/screens/history"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

// ResultSource reads past results.
type ResultSource interface {
	history.Lister
	Latest(ctx context.Context) (*results.Result, error)
}

// ResultsChangedMsg tells the home screen that stored results changed and
// its teaser should be reloaded.
type ResultsChangedMsg struct{}

type latestLoadedMsg struct {
	Result *results.Result
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu   components.Menu
	source ResultSource
	latest *results.Result
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. start builds the first screen of a new
// assessment.
func New(start func() screen.Screen, source ResultSource) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Start assessment", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: start()}
			}
		}},
		{Label: "Past results", Disabled: source == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(source)}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:   components.NewMenu(items),
		source: source,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadLatest()
}

// loadLatest reads the latest result. The reply is addressed to the root of
// the stack so it lands here even when another screen is on top.
func (h *HomeScreen) loadLatest() tea.Cmd {
	if h.source == nil {
		return nil
	}
	source := h.source
	return func() tea.Msg {
		// A missing latest result only hides the teaser.
		r, _ := source.Latest(context.Background())
		return router.RootMsg{Msg: latestLoadedMsg{Result: r}}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch m := msg.(type) {
	case latestLoadedMsg:
		h.latest = m.Result
		return h, nil
	case ResultsChangedMsg:
		return h, h.loadLatest()
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(width-8, 60)

	sections := []string{
		theme.Title.Render("Discover the career path that fits you"),
		theme.Subtitle.Render("Interests, knowledge and a personalised deep dive"),
	}

	if h.latest != nil {
		teaser := fmt.Sprintf("Last result: %s  ·  %s",
			h.latest.DominantInterest, h.latest.Recommendation.SuggestedRole)
		sections = append(sections, theme.Card.Width(cw).Align(lipgloss.Center).Render(
			lipgloss.NewStyle().Foreground(theme.Accent).Render(teaser)))
	}

	sections = append(sections, h.menu.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
