package stream

import (
	"context"
	"time"
)

// DefaultFPS is the tick rate used when none is configured.
const DefaultFPS = 60

// Streamer owns a Runtime and drives it from a ticker. Every access to the
// runtime goes through the Streamer's goroutine.
type Streamer struct {
	runtime  *Runtime
	interval time.Duration
	commands chan func(*Runtime)
}

// NewStreamer creates an instance of a Streamer ticking at fps.
func NewStreamer(r *Runtime, fps float64) *Streamer {
	if fps <= 0 {
		fps = DefaultFPS
	}
	s := new(Streamer)
	s.runtime = r
	s.interval = time.Duration(float64(time.Second) / fps)
	s.commands = make(chan func(*Runtime))
	return s
}

// Interval returns the tick period.
func (s *Streamer) Interval() time.Duration {
	return s.interval
}

// Do runs fn on the Streamer goroutine and waits for it to return.
func (s *Streamer) Do(ctx context.Context, fn func(*Runtime)) error {
	done := make(chan struct{})
	cmd := func(r *Runtime) {
		defer close(done)
		fn(r)
	}

	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks the runtime while it is playing and serves commands until ctx
// is cancelled. The ticker is stopped whenever playback is.
func (s *Streamer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	running := true
	schedule := func() {
		playing := s.runtime.Timeline().Clock().Playing
		switch {
		case playing && !running:
			ticker.Reset(s.interval)
			running = true
		case !playing && running:
			ticker.Stop()
			running = false
		}
	}
	schedule()

	for {
		select {
		case <-ctx.Done():
			s.runtime.Close()
			return ctx.Err()
		case now := <-ticker.C:
			s.runtime.Frame(now)
		case fn := <-s.commands:
			fn(s.runtime)
		}
		schedule()
	}
}
