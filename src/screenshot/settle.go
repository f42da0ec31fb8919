package screenshot

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/corona10/goimagehash"
)

const (
	DefaultSettleInterval = 50 * time.Millisecond
	DefaultSettleMin      = 200 * time.Millisecond
	DefaultSettleTimeout  = time.Second
)

// Settler waits for the screen to stop changing after the overlay is hidden,
// so the next capture does not contain the overlay or a fade animation.
type Settler struct {
	Grabber  Grabber
	Interval time.Duration
	// Min is how long to wait when the screen never differs from the
	// reference. Frames matching the reference still show the overlay, so
	// Min must cover the window manager's hide.
	Min     time.Duration
	Timeout time.Duration
	// Tolerance is the largest pHash distance still treated as equal.
	Tolerance int
}

// NewSettler returns a settler with the default timings.
func NewSettler(g Grabber) *Settler {
	return &Settler{
		Grabber:  g,
		Interval: DefaultSettleInterval,
		Min:      DefaultSettleMin,
		Timeout:  DefaultSettleTimeout,
	}
}

// Wait polls r until two consecutive frames hash the same and the frame
// either differs from reference or Min has elapsed. After Timeout the last
// frame is returned anyway. reference may be nil.
func (s *Settler) Wait(ctx context.Context, r image.Rectangle, reference image.Image) (*image.RGBA, error) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSettleInterval
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSettleTimeout
	}

	var refHash *goimagehash.ImageHash
	if reference != nil && !reference.Bounds().Empty() {
		h, err := goimagehash.PerceptionHash(reference)
		if err != nil {
			return nil, fmt.Errorf("hash reference frame: %w", err)
		}
		refHash = h
	}

	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev *goimagehash.ImageHash
	polls := 0
	for {
		frame, err := s.Grabber.CaptureRect(r)
		if err != nil {
			return nil, err
		}
		polls++
		hash, err := goimagehash.PerceptionHash(frame)
		if err != nil {
			return nil, fmt.Errorf("hash frame: %w", err)
		}

		elapsed := time.Since(start)
		if prev != nil && s.same(prev, hash) && (!s.same(refHash, hash) || elapsed >= s.Min) {
			log.Printf("settle: stable after %d polls (%v)", polls, elapsed.Round(time.Millisecond))
			return frame, nil
		}
		if elapsed >= timeout {
			log.Printf("settle: WARNING screen still changing after %v, using last frame", timeout)
			return frame, nil
		}
		prev = hash

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// same reports whether two hashes are within Tolerance. A nil hash never
// matches.
func (s *Settler) same(a, b *goimagehash.ImageHash) bool {
	if a == nil || b == nil {
		return false
	}
	dist, err := a.Distance(b)
	if err != nil {
		return false
	}
	return dist <= s.Tolerance
}
