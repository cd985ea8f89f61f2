package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/matesnake/internal/core"
)

// pixel is drawn two cells wide so the grid looks square.
const pixel = "██"

// styleFor returns the style used to draw one LED color.
func styleFor(c core.Color, cache map[core.Color]lipgloss.Style) lipgloss.Style {
	if s, ok := cache[c]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	cache[c] = s
	return s
}

// RenderFrame converts a frame to a styled string for display.
// Groups adjacent pixels with the same color to minimize ANSI escape sequences.
// Unlit pixels are left blank.
func RenderFrame(f *core.Frame) string {
	var sb strings.Builder
	sb.Grow(f.Width()*f.Height()*len(pixel) + f.Height())
	styles := make(map[core.Color]lipgloss.Style)

	for y := range f.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < f.Width() {
			start := f.Get(core.Point{X: x, Y: y})

			n := 0
			for x < f.Width() && f.Get(core.Point{X: x, Y: y}) == start {
				n++
				x++
			}

			if start.IsBlack() {
				sb.WriteString(strings.Repeat(" ", n*2))
				continue
			}
			sb.WriteString(styleFor(start, styles).Render(strings.Repeat(pixel, n)))
		}
	}
	return sb.String()
}
