package sim

import (
	"context"
	"fmt"
)

// DefaultFrame is the frame delta used when driving an engine headless.
const DefaultFrame = 1.0 / 60

// RunUntilSettled feeds fixed frames to e until no projectile is active or
// limit seconds of simulated time have passed. It checks ctx between frames.
func RunUntilSettled(ctx context.Context, e *Engine, frame, limit float64) error {
	if frame <= 0 {
		frame = DefaultFrame
	}
	start := e.Time()
	for e.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if e.Time()-start >= limit {
			return fmt.Errorf("%d projectiles still active after %.1fs", e.Active(), limit)
		}
		e.Update(frame)
	}
	return nil
}
