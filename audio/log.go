package audio

import "log/slog"

// LogPlayer is a Player for headless runs: it logs cues instead of
// producing sound.
type LogPlayer struct {
	Logger *slog.Logger
}

type logSource struct {
	logger *slog.Logger
	source string
}

// Play logs the start cue.
func (p *LogPlayer) Play(buf *Buffer, atMs float64, gain float64) (Source, error) {
	l := p.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Info("audio play", "source", buf.Source, "atMs", atMs, "gain", gain)
	return &logSource{logger: l, source: buf.Source}, nil
}

func (s *logSource) SetGain(gain float64) {
	s.logger.Debug("audio gain", "source", s.source, "gain", gain)
}

func (s *logSource) Stop() {
	s.logger.Info("audio stop", "source", s.source)
}
