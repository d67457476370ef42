package stream

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/matt-g-everett/motion/audio"
	"github.com/matt-g-everett/motion/physics"
	"github.com/matt-g-everett/motion/scene"
	"github.com/matt-g-everett/motion/track"
)

// NominalFrame is the delta used for the first frame after play.
const NominalFrame = 16 * time.Millisecond

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger. The package logger is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithAudio enables audio tracks. Without it they are ignored.
func WithAudio(decoder audio.Decoder, player audio.Player) Option {
	return func(r *Runtime) {
		r.decoder = decoder
		r.player = player
	}
}

// WithMaxDepth bounds ancestor walks in the compositor.
func WithMaxDepth(depth int) Option {
	return func(r *Runtime) {
		r.maxDepth = depth
	}
}

// Runtime plays one Timeline over a scene graph. It is not safe for
// concurrent use; drive it from a single goroutine, for example a Streamer.
type Runtime struct {
	timeline Timeline
	graph    *scene.Graph
	comp     *scene.Compositor
	styles   []track.Style
	logger   *slog.Logger
	maxDepth int

	decoder audio.Decoder
	player  audio.Player
	audio   *audio.Synchronizer
	live    map[string]bool

	physics physics.Table

	targets map[string]RenderTarget
	order   []string
	sinks   []FrameSink

	last     time.Time
	hasLast  bool
	seq      uint64
	frame    *Frame
	reported map[string]bool
}

// NewRuntime creates a Runtime for a timeline and its scene nodes.
func NewRuntime(tl Timeline, nodes []scene.Node, opts ...Option) *Runtime {
	r := new(Runtime)
	r.timeline = tl
	r.logger = Logger()
	for _, opt := range opts {
		opt(r)
	}

	r.setGraph(nodes)
	r.physics = make(physics.Table)
	r.targets = make(map[string]RenderTarget)
	r.reported = make(map[string]bool)
	if r.decoder != nil && r.player != nil {
		r.audio = audio.NewSynchronizer(r.decoder, r.player, r.logger)
		r.live = make(map[string]bool)
	}
	return r
}

func (r *Runtime) setGraph(nodes []scene.Node) {
	r.graph = scene.NewGraph(nodes)
	r.comp = scene.NewCompositor(r.graph, r.logger)
	if r.maxDepth > 0 {
		r.comp.MaxDepth = r.maxDepth
	}
	r.styles = make([]track.Style, r.graph.Len())
}

// SetNodes replaces the scene graph after nodes were added, removed or
// reparented. Physics, audio and registered targets carry over.
func (r *Runtime) SetNodes(nodes []scene.Node) {
	r.setGraph(nodes)
	clear(r.reported)
}

// Timeline returns the document being played.
func (r *Runtime) Timeline() Timeline {
	return r.timeline
}

// Graph returns the scene graph.
func (r *Runtime) Graph() *scene.Graph {
	return r.graph
}

// Audio returns the synchronizer, or nil when audio is disabled.
func (r *Runtime) Audio() *audio.Synchronizer {
	return r.audio
}

// Register attaches a render target to a node, replacing any previous one.
func (r *Runtime) Register(nodeID string, target RenderTarget) {
	if _, ok := r.targets[nodeID]; !ok {
		r.order = append(r.order, nodeID)
	}
	r.targets[nodeID] = target
}

// Unregister detaches the render target of a node.
func (r *Runtime) Unregister(nodeID string) {
	if _, ok := r.targets[nodeID]; !ok {
		return
	}
	delete(r.targets, nodeID)
	for i, id := range r.order {
		if id == nodeID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// AddSink adds a receiver for every produced frame.
func (r *Runtime) AddSink(s FrameSink) {
	r.sinks = append(r.sinks, s)
}

// LastFrame returns the most recent frame, or nil before the first tick.
func (r *Runtime) LastFrame() *Frame {
	return r.frame
}

// Play starts playback. A finished non-looping timeline restarts from the
// edge it stopped at.
func (r *Runtime) Play() {
	c := r.timeline.Clock()
	if !c.Loop {
		if c.Speed >= 0 && c.CurrentTime >= c.Duration {
			r.timeline.SetTime(0)
		} else if c.Speed < 0 && c.CurrentTime <= 0 {
			r.timeline.SetTime(c.Duration)
		}
	}
	r.hasLast = false
	r.timeline.SetPlaying(true)
	r.logger.Info("play", "time", r.timeline.Clock().CurrentTime)
}

// Stop halts playback, silences audio and clears simulation state so the
// next play starts fresh. The current time is kept.
func (r *Runtime) Stop() {
	r.timeline.SetPlaying(false)
	r.halt()
	r.logger.Info("stop", "time", r.timeline.Clock().CurrentTime)
}

func (r *Runtime) halt() {
	if r.audio != nil {
		r.audio.StopAll()
	}
	r.physics.Reset()
	r.hasLast = false
	clear(r.reported)
}

// Seek moves the clock to ms, clamped to the timeline. Audio is resynced on
// the next tick; physics carries on from its current state. A paused
// runtime renders the new time immediately.
func (r *Runtime) Seek(ms float64) {
	c := r.timeline.Clock()
	ms = mgl64.Clamp(ms, 0, math.Max(c.Duration, 0))
	r.timeline.SetTime(ms)
	if r.audio != nil {
		r.audio.StopAll()
	}
	if !c.Playing {
		r.Render()
	}
}

// Render evaluates and applies the current time without advancing the clock.
func (r *Runtime) Render() {
	r.render(r.timeline.Clock().CurrentTime, 0, false)
}

// Frame drives the runtime from wall-clock time. The first call after play
// uses NominalFrame as its delta. It reports whether playback continues.
func (r *Runtime) Frame(now time.Time) bool {
	if !r.timeline.Clock().Playing {
		r.hasLast = false
		return false
	}

	dt := NominalFrame
	if r.hasLast {
		dt = max(now.Sub(r.last), 0)
	}
	r.last = now
	r.hasLast = true
	return r.Tick(dt)
}

// Tick advances the clock by dt scaled by the timeline speed, evaluates all
// tracks and pushes the results to targets and sinks. It reports whether
// playback continues.
func (r *Runtime) Tick(dt time.Duration) bool {
	c := r.timeline.Clock()
	if !c.Playing {
		return false
	}

	advance := float64(dt) / float64(time.Millisecond) * c.Speed
	duration := math.Max(c.Duration, 0)
	now := c.CurrentTime + advance
	stopped := false

	switch {
	case advance > 0 && now >= duration:
		if c.Loop && duration > 0 {
			now = 0
			r.resync()
		} else {
			now = duration
			stopped = true
		}
	case advance < 0 && now <= 0:
		if c.Loop && duration > 0 {
			now = duration
			r.resync()
		} else {
			now = 0
			stopped = true
		}
	}
	now = mgl64.Clamp(now, 0, duration)
	r.timeline.SetTime(now)

	r.render(now, math.Abs(advance)/1000, !stopped)

	if stopped {
		r.timeline.SetPlaying(false)
		r.halt()
		r.logger.Debug("reached end", "time", now)
	}
	return !stopped
}

func (r *Runtime) resync() {
	if r.audio != nil {
		r.audio.StopAll()
	}
}

// render evaluates every track at now and applies the result. dt is the
// physics step in seconds.
func (r *Runtime) render(now, dt float64, playing bool) {
	r.comp.Reset()
	clear(r.styles)

	if r.audio != nil {
		r.audio.Collect()
		clear(r.live)
	}

	for _, tr := range r.timeline.Tracks() {
		if tr == nil {
			continue
		}
		if r.live != nil && tr.Property == track.Audio {
			r.live[tr.ID] = true
		}
		if err := r.evaluateTrack(tr, now, dt, playing); err != nil {
			r.report(tr.ID, err)
		}
	}

	if r.audio != nil {
		r.audio.Retain(func(id string) bool { return r.live[id] })
	}

	r.seq++
	f := &Frame{Seq: r.seq, Time: now, Nodes: make([]NodeFrame, 0, len(r.order))}
	for _, id := range r.order {
		i, ok := r.graph.Index(id)
		if !ok {
			r.report("node:"+id, ErrMissingTarget)
			continue
		}
		world := r.comp.World(i)
		style := r.styles[i]
		if err := r.apply(r.targets[id], world, style); err != nil {
			r.logger.Warn("render target failed", "node", id, "error", err)
		}
		f.Nodes = append(f.Nodes, NodeFrame{ID: id, World: world, Style: style})
	}
	r.frame = f

	for _, s := range r.sinks {
		if err := s.Publish(f); err != nil {
			r.logger.Warn("frame sink failed", "seq", f.Seq, "error", err)
		}
	}
}

func (r *Runtime) apply(target RenderTarget, world scene.Transform, style track.Style) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New("panic in render target")
			r.logger.Error("render target panicked", "panic", p)
		}
	}()
	return target.Apply(world, style)
}

// report logs a track failure once until the next stop.
func (r *Runtime) report(key string, err error) {
	if r.reported[key] {
		return
	}
	r.reported[key] = true
	if errors.Is(err, ErrMissingTarget) {
		r.logger.Debug("track output dropped", "track", key, "error", err)
		return
	}
	r.logger.Warn("track skipped", "track", key, "error", err)
}

// Close releases audio resources.
func (r *Runtime) Close() {
	if r.audio != nil {
		r.audio.Close()
	}
}
