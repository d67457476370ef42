package stream

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/motion/audio"
)

// Publisher is the part of mqtt.Client the sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink streams frames and audio cues to an MQTT broker. Publishing does
// not wait for delivery; failures are logged.
type MQTTSink struct {
	client      Publisher
	streamTopic string
	audioTopic  string
	qos         byte
	logger      *slog.Logger
	cues        atomic.Uint64
}

// NewMQTTSink creates a sink publishing on the topics from cfg.
func NewMQTTSink(client Publisher, cfg Config, logger *slog.Logger) *MQTTSink {
	if logger == nil {
		logger = Logger()
	}
	m := new(MQTTSink)
	m.client = client
	m.streamTopic = cfg.Mqtt.Topics.Stream
	m.audioTopic = cfg.Mqtt.Topics.Audio
	m.qos = cfg.Mqtt.Qos
	m.logger = logger
	return m
}

// Publish sends a frame as binary on the stream topic.
func (m *MQTTSink) Publish(f *Frame) error {
	if m.streamTopic == "" {
		return nil
	}
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	m.send(m.streamTopic, b)
	return nil
}

func (m *MQTTSink) send(topic string, payload []byte) {
	token := m.client.Publish(topic, m.qos, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			m.logger.Warn("mqtt publish failed", "topic", topic, "error", token.Error())
		}
	}()
}

// Cue is an audio instruction sent to a remote player.
type Cue struct {
	ID     uint64  `json:"id"`
	Action string  `json:"action"`
	Source string  `json:"source,omitempty"`
	AtMs   float64 `json:"atMs,omitempty"`
	Gain   float64 `json:"gain"`
}

// Play implements audio.Player by publishing a play cue. The returned
// source publishes gain and stop cues under the same id.
func (m *MQTTSink) Play(buf *audio.Buffer, atMs float64, gain float64) (audio.Source, error) {
	src := &cueSource{sink: m, id: m.cues.Add(1), gain: gain}
	err := m.cue(Cue{ID: src.id, Action: "play", Source: buf.Source, AtMs: atMs, Gain: gain})
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (m *MQTTSink) cue(c Cue) error {
	if m.audioTopic == "" {
		return nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	m.send(m.audioTopic, b)
	return nil
}

type cueSource struct {
	sink *MQTTSink
	id   uint64
	gain float64
}

func (s *cueSource) SetGain(gain float64) {
	s.gain = gain
	if err := s.sink.cue(Cue{ID: s.id, Action: "gain", Gain: gain}); err != nil {
		s.sink.logger.Warn("audio cue failed", "id", s.id, "error", err)
	}
}

func (s *cueSource) Stop() {
	if err := s.sink.cue(Cue{ID: s.id, Action: "stop", Gain: s.gain}); err != nil {
		s.sink.logger.Warn("audio cue failed", "id", s.id, "error", err)
	}
}
