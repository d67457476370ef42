package stream

import "github.com/matt-g-everett/motion/track"

// Clock is the host document's playback state. Times are in milliseconds.
type Clock struct {
	CurrentTime float64
	Duration    float64
	Playing     bool
	Loop        bool
	Speed       float64
}

// Timeline is the host document a Runtime plays. The runtime reads the clock
// and tracks every tick and writes time back through SetTime.
type Timeline interface {
	Clock() Clock
	Tracks() []*track.Track
	SetTime(ms float64)
	SetPlaying(playing bool)
}
