package stream

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/matt-g-everett/motion/scene"
	"github.com/matt-g-everett/motion/track"
)

func TestFrameMarshalBinary(t *testing.T) {
	world := scene.Identity()
	world.Position[0] = 12
	f := &Frame{
		Seq:  7,
		Time: 250,
		Nodes: []NodeFrame{
			{ID: "box", World: world, Style: track.Style{"blur": track.Number(2)}},
			{ID: "bg", World: scene.Identity()},
		},
	}

	data, err := f.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(data[0:]); got != 7 {
		t.Errorf("seq = %d, want 7", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[4:])); got != 250 {
		t.Errorf("time = %v, want 250", got)
	}
	if got := binary.LittleEndian.Uint16(data[8:]); got != 2 {
		t.Fatalf("nodes = %d, want 2", got)
	}

	off := 10
	if n := int(data[off]); string(data[off+1:off+1+n]) != "box" {
		t.Fatalf("first id = %q", data[off+1:off+1+n])
	}
	off += 4
	if x := math.Float32frombits(binary.LittleEndian.Uint32(data[off:])); x != 12 {
		t.Errorf("x = %v, want 12", x)
	}
	perspective := math.Float32frombits(binary.LittleEndian.Uint32(data[off+40:]))
	if !math.IsNaN(float64(perspective)) {
		t.Errorf("perspective = %v, want NaN", perspective)
	}
	off += 44
	if data[off] != 1 {
		t.Fatalf("styles = %d, want 1", data[off])
	}

	// box: 1+3 id, 44 channels, 1 count, 1+4 key, 2+1 value; bg: 1+2 id, 44, 1
	if want := 10 + 4 + 44 + 1 + 5 + 3 + 3 + 44 + 1; len(data) != want {
		t.Errorf("len = %d, want %d", len(data), want)
	}
}

func TestFrameMarshalBinaryCapsCounts(t *testing.T) {
	style := make(track.Style)
	for i := 0; i < 300; i++ {
		style[fmt.Sprintf("k%03d", i)] = track.Number(1)
	}
	long := make([]float64, 40000)
	style["aaaa"] = track.Vec(long...)

	data, err := (&Frame{Nodes: []NodeFrame{{ID: "n", World: scene.Identity(), Style: style}}}).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	off := 10 + 2 + 44
	if data[off] != math.MaxUint8 {
		t.Fatalf("style count = %d, want %d", data[off], math.MaxUint8)
	}
	off++

	// Walk every style entry; a count that disagrees with the payload
	// would run off the end or leave bytes over.
	for i := 0; i < math.MaxUint8; i++ {
		off += 1 + int(data[off])
		off += 2 + int(binary.LittleEndian.Uint16(data[off:]))
	}
	if off != len(data) {
		t.Errorf("decoded %d of %d bytes", off, len(data))
	}
	if first := binary.LittleEndian.Uint16(data[10+2+44+1+5:]); first != math.MaxUint16 {
		t.Errorf("long value length = %d, want %d", first, math.MaxUint16)
	}
}
