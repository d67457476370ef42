package audio

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/matt-g-everett/motion/track"
)

// DefaultGraceMs is how long past its duration a clip may run before it is
// stopped, absorbing scheduling jitter.
const DefaultGraceMs = 100.0

// State is the lifecycle of one audio track.
type State int

const (
	Idle State = iota
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Entry is an active playback.
type Entry struct {
	Source     Source
	Gain       float64
	StartMs    float64 // Timeline time the clip is anchored at
	DurationMs float64
}

type decodeResult struct {
	source string
	buf    *Buffer
	err    error
}

// Synchronizer starts, updates and stops audio tracks against logical time.
// It is not safe for concurrent use: every method is called from the tick
// that owns it. Decodes run on their own goroutines and are collected at
// the start of a later tick.
type Synchronizer struct {
	GraceMs float64

	decoder Decoder
	player  Player
	logger  *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	results chan decodeResult

	cache   map[string]*Buffer
	pending map[string]bool
	failed  map[string]bool
	states  map[string]State
	entries map[string]*Entry
}

// NewSynchronizer creates a Synchronizer. Close releases in-flight decodes.
func NewSynchronizer(decoder Decoder, player Player, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := new(Synchronizer)
	s.GraceMs = DefaultGraceMs
	s.decoder = decoder
	s.player = player
	s.logger = logger
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.results = make(chan decodeResult, 16)
	s.cache = make(map[string]*Buffer)
	s.pending = make(map[string]bool)
	s.failed = make(map[string]bool)
	s.states = make(map[string]State)
	s.entries = make(map[string]*Entry)
	return s
}

// Collect moves finished decodes into the cache. Failures make the source
// eligible for another attempt; only the first failure of a source is
// logged as a warning.
func (s *Synchronizer) Collect() {
	for {
		select {
		case r := <-s.results:
			delete(s.pending, r.source)
			if r.err != nil {
				err := &DecodeError{Source: r.source, Err: r.err}
				if s.failed[r.source] {
					s.logger.Debug("audio decode failed again", "error", err)
				} else {
					s.failed[r.source] = true
					s.logger.Warn("audio decode failed", "error", err)
				}
				continue
			}
			delete(s.failed, r.source)
			s.cache[r.source] = r.buf
			s.logger.Debug("audio decoded", "source", r.source, "durationMs", r.buf.DurationMs)
		default:
			return
		}
	}
}

// Update services one audio track at timeline time now (ms).
func (s *Synchronizer) Update(tr *track.Track, now float64) {
	cfg := tr.Audio
	if cfg == nil || cfg.Source == "" {
		return
	}

	switch s.states[tr.ID] {
	case Idle:
		s.start(tr, now)
	case Playing:
		e := s.entries[tr.ID]
		elapsed := now - e.StartMs
		if elapsed > e.DurationMs+s.GraceMs {
			e.Source.Stop()
			delete(s.entries, tr.ID)
			s.states[tr.ID] = Finished
			s.logger.Debug("audio finished", "track", tr.ID)
			return
		}
		if g := s.gain(cfg, now); g != e.Gain {
			e.Gain = g
			e.Source.SetGain(g)
		}
	}
}

func (s *Synchronizer) start(tr *track.Track, now float64) {
	cfg := tr.Audio
	if now < cfg.Offset {
		return
	}

	buf, ok := s.cache[cfg.Source]
	if !ok {
		s.request(cfg.Source)
		return
	}

	duration := cfg.Duration
	if duration <= 0 {
		duration = buf.DurationMs
	}
	at := now - cfg.Offset
	if at >= duration {
		s.states[tr.ID] = Finished
		return
	}

	gain := s.gain(cfg, now)
	src, err := s.player.Play(buf, at, gain)
	if err != nil {
		s.logger.Warn("audio start failed", "track", tr.ID, "source", cfg.Source, "error", err)
		return
	}

	s.entries[tr.ID] = &Entry{
		Source:     src,
		Gain:       gain,
		StartMs:    cfg.Offset,
		DurationMs: duration,
	}
	s.states[tr.ID] = Playing
	s.logger.Debug("audio started", "track", tr.ID, "source", cfg.Source, "atMs", at)
}

func (s *Synchronizer) request(source string) {
	if s.pending[source] {
		return
	}
	s.pending[source] = true

	ctx := s.ctx
	go func() {
		var (
			buf *Buffer
			err error
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("decoder panic: %v", r)
				}
			}()
			buf, err = s.decoder.Decode(ctx, source)
		}()
		if err == nil && buf == nil {
			err = errNoBuffer
		}
		select {
		case s.results <- decodeResult{source: source, buf: buf, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (s *Synchronizer) gain(cfg *track.AudioConfig, now float64) float64 {
	g := cfg.BaseGain()
	if v, ok := track.EvaluateKeyframes(cfg.Volume, now); ok {
		g *= v.Float()
	}
	return math.Max(g, 0)
}

// StopAll stops and discards every active source and returns all tracks to
// idle. The decode cache is kept.
func (s *Synchronizer) StopAll() {
	for id, e := range s.entries {
		e.Source.Stop()
		delete(s.entries, id)
	}
	for id := range s.states {
		delete(s.states, id)
	}
}

// Retain stops and forgets tracks for which keep returns false, so deleted
// tracks do not keep sounding.
func (s *Synchronizer) Retain(keep func(trackID string) bool) {
	for id, e := range s.entries {
		if !keep(id) {
			e.Source.Stop()
			delete(s.entries, id)
		}
	}
	for id := range s.states {
		if !keep(id) {
			delete(s.states, id)
		}
	}
}

// Close stops all sources and abandons in-flight decodes.
func (s *Synchronizer) Close() {
	s.StopAll()
	s.cancel()
}

// State returns the lifecycle state of a track.
func (s *Synchronizer) State(trackID string) State {
	return s.states[trackID]
}

// Entry returns the active playback of a track, if any.
func (s *Synchronizer) Entry(trackID string) (*Entry, bool) {
	e, ok := s.entries[trackID]
	return e, ok
}

// Active returns the number of playing sources.
func (s *Synchronizer) Active() int {
	return len(s.entries)
}

// Cached reports whether a source has been decoded.
func (s *Synchronizer) Cached(source string) bool {
	_, ok := s.cache[source]
	return ok
}
