package stream

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/matt-g-everett/motion/scene"
	"github.com/matt-g-everett/motion/track"
)

// NodeFrame is the output of one registered node for a tick.
type NodeFrame struct {
	ID    string          `json:"id"`
	World scene.Transform `json:"world"`
	Style track.Style     `json:"style,omitempty"`
}

// Frame is everything a tick produced, in registration order.
type Frame struct {
	Seq   uint64      `json:"seq"`
	Time  float64     `json:"time"`
	Nodes []NodeFrame `json:"nodes"`
}

// Node returns the output for a node id.
func (f *Frame) Node(id string) (NodeFrame, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeFrame{}, false
}

// MarshalBinary encodes a Frame for the wire. All integers and floats are
// little endian; channels are float32 with NaN for an unset perspective.
// Nodes beyond 65535, styles beyond 255 per node and strings longer than
// their length field are cut so counts and payload always agree.
//
//	u32 seq | f32 time | u16 nodes
//	per node: u8 len, id | 11 x f32 (pos xyz, scale xyz, rot xyz, opacity, perspective)
//	          u8 styles | per style: u8 len, key | u16 len, value
func (f *Frame) MarshalBinary() (data []byte, err error) {
	nodes := f.Nodes
	if len(nodes) > math.MaxUint16 {
		nodes = nodes[:math.MaxUint16]
	}
	data = make([]byte, 10, 10+len(nodes)*64)
	binary.LittleEndian.PutUint32(data[0:], uint32(f.Seq))
	binary.LittleEndian.PutUint32(data[4:], math.Float32bits(float32(f.Time)))
	binary.LittleEndian.PutUint16(data[8:], uint16(len(nodes)))

	for _, n := range nodes {
		data = appendString8(data, n.ID)

		w := n.World
		perspective := math.NaN()
		if w.Perspective != nil {
			perspective = *w.Perspective
		}
		channels := [...]float64{
			w.Position[0], w.Position[1], w.Position[2],
			w.Scale[0], w.Scale[1], w.Scale[2],
			w.Rotation[0], w.Rotation[1], w.Rotation[2],
			w.Opacity, perspective,
		}
		for _, c := range channels {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(c)))
		}

		keys := make([]string, 0, len(n.Style))
		for k := range n.Style {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) > math.MaxUint8 {
			keys = keys[:math.MaxUint8]
		}
		data = append(data, uint8(len(keys)))
		for _, k := range keys {
			data = appendString8(data, k)
			v := n.Style[k].String()
			if len(v) > math.MaxUint16 {
				v = v[:math.MaxUint16]
			}
			data = binary.LittleEndian.AppendUint16(data, uint16(len(v)))
			data = append(data, v...)
		}
	}

	return data, nil
}

func appendString8(data []byte, s string) []byte {
	if len(s) > math.MaxUint8 {
		s = s[:math.MaxUint8]
	}
	data = append(data, uint8(len(s)))
	return append(data, s...)
}
