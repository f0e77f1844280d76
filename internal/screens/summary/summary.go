// Package summary shows a compiled assessment result.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/results"
	"github.com/abhisek/careerpath/internal/router"
	"github.com/abhisek/careerpath/internal/screen"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/layout"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

// SummaryScreen displays one result. The body scrolls when it is taller
// than the content area.
type SummaryScreen struct {
	result *results.Result
	offset int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(r *results.Result) *SummaryScreen {
	return &SummaryScreen{result: r}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Your Career Path"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.result == nil {
		return ""
	}
	lines := strings.Split(Render(s.result, width), "\n")

	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}
	end := len(lines)
	if height > 0 && s.offset+height < end {
		end = s.offset + height
	}
	return strings.Join(lines[s.offset:end], "\n")
}

// Render draws the full result body at the given width.
func Render(r *results.Result, width int) string {
	cw := min(width-8, 70)
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}
	block := lipgloss.NewStyle().Width(cw)
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	section := func(b *strings.Builder, title string) {
		b.WriteString("\n")
		b.WriteString(center(block.Render(theme.Section.Render(title))))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
	}

	var b strings.Builder
	rec := r.Recommendation

	heading := "Assessment complete!"
	if r.Learner != "" {
		heading = fmt.Sprintf("Well done, %s!", r.Learner)
	}
	b.WriteString(center(theme.Title.Render(heading)))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Dominant.Render(rec.Title)))
	b.WriteString("\n")
	b.WriteString(center(block.Foreground(theme.Text).Render(rec.Description)))
	b.WriteString("\n")

	section(&b, "Interest profile")
	total := r.InterestScores.Total()
	for _, cat := range assessment.Categories {
		pct := 0.0
		if total > 0 {
			pct = float64(r.InterestScores[cat]) / float64(total)
		}
		label := fmt.Sprintf("%-11s", cat)
		if cat == r.DominantInterest {
			label = theme.Dominant.Render(label)
		}
		b.WriteString(center(components.NewProgressBar(label, pct, true, cw).View()))
		b.WriteString("\n")
	}

	section(&b, "Knowledge")
	b.WriteString(center(block.Foreground(theme.Text).Render(
		fmt.Sprintf("%d/%d correct  (%s)", r.KnowledgeScore, assessment.KnowledgeCount, r.KnowledgeLabel))))
	b.WriteString("\n")

	section(&b, "Suggested role")
	b.WriteString(center(block.Foreground(theme.Text).Render(
		fmt.Sprintf("%s  ·  %s", rec.SuggestedRole, rec.Industry))))
	b.WriteString("\n")

	if len(rec.Careers) > 0 {
		section(&b, "Careers to explore")
		for _, c := range rec.Careers {
			b.WriteString(center(block.Foreground(theme.Text).Render("• " + c)))
			b.WriteString("\n")
		}
	}

	if len(rec.Certifications) > 0 {
		section(&b, "Certifications")
		for _, c := range rec.Certifications {
			line := fmt.Sprintf("• %s  (%s, %s)", c.Name, c.Provider, c.Level)
			b.WriteString(center(block.Foreground(theme.Text).Render(line)))
			b.WriteString("\n")
			b.WriteString(center(block.Render("  " + theme.Link.Render(c.Link))))
			b.WriteString("\n")
		}
	}

	if len(rec.Courses) > 0 {
		section(&b, "Courses")
		for _, c := range rec.Courses {
			line := fmt.Sprintf("• %s  (%s, %s, %s)", c.Name, c.Provider, c.Duration, c.Type)
			b.WriteString(center(block.Foreground(theme.Text).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
