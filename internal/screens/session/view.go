package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/ui/components"
	"github.com/abhisek/careerpath/internal/ui/theme"
)

var phaseNames = map[assessment.Phase]string{
	assessment.PhaseInterest:  "Interests",
	assessment.PhaseKnowledge: "Knowledge check",
	assessment.PhaseGenerated: "Going deeper",
}

func (s *SessionScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.confirmQuit:
		return renderQuitConfirm(width)
	case s.compiling:
		return renderWaiting(width, "Working out your recommendations...")
	case s.loading || s.question == nil:
		return renderWaiting(width, "Preparing your next question...")
	}
	return s.renderQuestion(width)
}

func (s *SessionScreen) renderQuestion(width int) string {
	var b strings.Builder

	answered, total := s.sess.Progress()
	phase := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + phaseNames[assessment.PhaseOf(s.question.Position)])

	barWidth := min(width-8, 60)
	bar := components.NewProgressBar("", float64(answered)/float64(total), true, barWidth)

	b.WriteString(phase)
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	card := lipgloss.NewStyle().
		Width(min(width-8, 76)).
		Render(s.mc.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n")

	hint := fmt.Sprintf("Select (1-%d) or use arrows + Enter", len(s.question.Options))
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Inherit(theme.Hint).
		Render(hint))

	return b.String()
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Leave the assessment?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your answers so far will not be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Error).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderWaiting(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + msg)
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
