package core

import "fmt"

// Color is a 24-bit RGB pixel value as sent to the LED wall.
type Color struct {
	R, G, B uint8
}

// Predefined colors for game elements.
var (
	ColorBlack = Color{}
	ColorRed   = Color{R: 255}
	ColorGreen = Color{G: 255}
	ColorBlue  = Color{B: 255}
	ColorWhite = Color{R: 255, G: 255, B: 255}
)

// RGB creates a color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// IsBlack returns true if all channels are zero (pixel off).
func (c Color) IsBlack() bool {
	return c == ColorBlack
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
