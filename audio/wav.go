package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"golang.org/x/sync/singleflight"
)

// WavDecoder decodes WAV files found under Root. Concurrent requests for the
// same source share one decode, so a decoder may be shared by documents.
type WavDecoder struct {
	Root string

	group singleflight.Group
}

// NewWavDecoder creates a WavDecoder reading from root.
func NewWavDecoder(root string) *WavDecoder {
	d := new(WavDecoder)
	d.Root = root
	return d
}

// Decode reads and decodes source, a path relative to Root.
func (d *WavDecoder) Decode(ctx context.Context, source string) (*Buffer, error) {
	v, err, _ := d.group.Do(source, func() (interface{}, error) {
		return d.decode(ctx, source)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Buffer), nil
}

func (d *WavDecoder) decode(ctx context.Context, source string) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sources may not climb out of Root.
	path := filepath.Join(d.Root, filepath.Clean("/"+source))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid wav file", source)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if pcm.Format == nil || pcm.Format.NumChannels == 0 || pcm.Format.SampleRate == 0 {
		return nil, fmt.Errorf("%s: missing format", source)
	}

	frames := len(pcm.Data) / pcm.Format.NumChannels
	return &Buffer{
		Source:     source,
		DurationMs: float64(frames) * 1000 / float64(pcm.Format.SampleRate),
		SampleRate: pcm.Format.SampleRate,
		Channels:   pcm.Format.NumChannels,
		PCM:        pcm,
	}, nil
}
