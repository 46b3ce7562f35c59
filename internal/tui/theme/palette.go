package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds lipgloss colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Booked      lipgloss.Color
	Warning     lipgloss.Color

	TextOnAccent lipgloss.Color
	IsLight      bool
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	light := isLightTheme(t.Bg)
	return &Palette{
		Bg:           lipgloss.Color(t.Bg),
		BgSelection:  lipgloss.Color(t.BgSelection),
		Fg:           lipgloss.Color(t.Fg),
		FgMuted:      lipgloss.Color(t.FgMuted),
		Accent:       lipgloss.Color(t.Accent),
		Booked:       lipgloss.Color(t.Booked),
		Warning:      lipgloss.Color(t.Warning),
		TextOnAccent: lipgloss.Color(textOn(t.Accent)),
		IsLight:      light,
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// textOn picks black or white text for legibility on the given background.
func textOn(bg string) string {
	if relativeLuminance(bg) > 0.45 {
		return "#000000"
	}
	return "#ffffff"
}

// relativeLuminance returns the WCAG luminance of a hex color, or 0 when the
// color cannot be parsed.
func relativeLuminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// blend mixes a toward b by t in Lab space. Unparseable input is returned as is.
func blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}
