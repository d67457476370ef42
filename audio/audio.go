// Package audio keeps audio tracks in step with the logical timeline clock.
package audio

import (
	"context"
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"
)

// Buffer is a decoded clip, cached per source.
type Buffer struct {
	Source     string
	DurationMs float64
	SampleRate int
	Channels   int
	PCM        *goaudio.IntBuffer
}

// A Decoder resolves an opaque source identifier to a decoded Buffer.
type Decoder interface {
	Decode(ctx context.Context, source string) (*Buffer, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(ctx context.Context, source string) (*Buffer, error)

// Decode calls f.
func (f DecoderFunc) Decode(ctx context.Context, source string) (*Buffer, error) {
	return f(ctx, source)
}

// A Source is one playing instance of a Buffer.
type Source interface {
	SetGain(gain float64)
	Stop()
}

// A Player starts buffers on the audio output. atMs is the position within
// the buffer to start from.
type Player interface {
	Play(buf *Buffer, atMs float64, gain float64) (Source, error)
}

var errNoBuffer = errors.New("decoder returned no buffer")

// DecodeError reports a failed fetch or decode of a source.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
