package core

import (
	"context"
	"time"
)

// Clock paces the game loop to a fixed frame rate.
type Clock interface {
	// Now returns the current time as seen by the clock.
	Now() time.Time
	// Tick blocks until the next frame is due or ctx is done.
	Tick(ctx context.Context) error
	// SetRate changes the frame rate in frames per second.
	SetRate(fps int)
	// Rate returns the current frame rate.
	Rate() int
}

// FrameClock is a wall-clock Clock. Tick sleeps for whatever is left of
// the current frame, so slow frames are not compensated later.
type FrameClock struct {
	fps  int
	last time.Time
}

// NewFrameClock creates a clock ticking at fps frames per second.
func NewFrameClock(fps int) *FrameClock {
	c := &FrameClock{}
	c.SetRate(fps)
	return c
}

// Now returns the wall-clock time.
func (c *FrameClock) Now() time.Time {
	return time.Now()
}

// SetRate changes the frame rate. Values below 1 are clamped to 1.
func (c *FrameClock) SetRate(fps int) {
	if fps < 1 {
		fps = 1
	}
	c.fps = fps
}

// Rate returns the current frame rate.
func (c *FrameClock) Rate() int {
	return c.fps
}

// FrameDuration returns the length of one frame at the current rate.
func (c *FrameClock) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.fps)
}

// Tick waits until one frame duration has passed since the previous Tick.
func (c *FrameClock) Tick(ctx context.Context) error {
	now := time.Now()
	if c.last.IsZero() {
		c.last = now
	}
	wait := c.FrameDuration() - now.Sub(c.last)
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	c.last = time.Now()
	return nil
}
