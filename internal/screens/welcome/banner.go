package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careerpath/internal/ui/theme"
)

const bannerArt = `
  ___   _   ___ ___ ___ ___   ___  _ _____ _  _
 / __| /_\ | _ \ __| __| _ \ | _ \/_\_   _| || |
| (__ / _ \|   / _|| _||   / |  _/ _ \| | | __ |
 \___/_/ \_\_|_\___|___|_|_\ |_|/_/ \_\_| |_||_|`

const bannerCompact = "C A R E E R P A T H"

// RenderBanner returns the banner styled in the primary color. Terminals
// narrower than 52 columns get the compact form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 52 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
