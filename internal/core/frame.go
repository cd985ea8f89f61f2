package core

import "strings"

// Frame is a 2D pixel buffer for one rendered tick.
// It decouples game rendering from the display transport: games draw
// colored dots, the platform decides how they reach the LEDs or terminal.
type Frame struct {
	width      int
	height     int
	background Color
	pixels     []Color // row-major
}

// NewFrame creates a new frame with the given dimensions, cleared to black.
func NewFrame(width, height int) *Frame {
	f := &Frame{
		width:  width,
		height: height,
		pixels: make([]Color, width*height),
	}
	return f
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.height
}

// SetBackground changes the color Clear fills with.
func (f *Frame) SetBackground(c Color) {
	f.background = c
}

// Background returns the color Clear fills with.
func (f *Frame) Background() Color {
	return f.background
}

// Clear fills the entire frame with the background color.
func (f *Frame) Clear() {
	f.Fill(f.background)
}

// Fill fills the entire frame with the given color.
func (f *Frame) Fill(c Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// Set colors the pixel at p.
// Out-of-bounds coordinates are silently ignored.
func (f *Frame) Set(p Point, c Color) {
	if p.X < 0 || p.X >= f.width || p.Y < 0 || p.Y >= f.height {
		return
	}
	f.pixels[p.Y*f.width+p.X] = c
}

// Get returns the pixel at p.
// Returns the background color for out-of-bounds coordinates.
func (f *Frame) Get(p Point) Color {
	if p.X < 0 || p.X >= f.width || p.Y < 0 || p.Y >= f.height {
		return f.background
	}
	return f.pixels[p.Y*f.width+p.X]
}

// Pixels returns the row-major pixel slice. Callers must not modify it.
func (f *Frame) Pixels() []Color {
	return f.pixels
}

// Clone creates a copy of this frame.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		width:      f.width,
		height:     f.height,
		background: f.background,
		pixels:     make([]Color, len(f.pixels)),
	}
	copy(clone.pixels, f.pixels)
	return clone
}

// String renders the frame as text, one rune per pixel: '.' for the
// background and '#' for anything else. Used by tests and debug logging.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow(f.width*f.height + f.height)

	for y := 0; y < f.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < f.width; x++ {
			if f.pixels[y*f.width+x] == f.background {
				sb.WriteRune('.')
			} else {
				sb.WriteRune('#')
			}
		}
	}
	return sb.String()
}
