// Package api exposes transport controls, standalone track evaluation and
// preview snapshots over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/matt-g-everett/motion/preview"
	"github.com/matt-g-everett/motion/stream"
	"github.com/matt-g-everett/motion/track"
)

// Api serves HTTP requests against a running Streamer.
type Api struct {
	streamer *stream.Streamer
	canvas   *preview.Canvas
	logger   *slog.Logger
	mux      *http.ServeMux

	// Timeout bounds how long a request waits for the runtime.
	Timeout time.Duration
}

// NewApi creates an Api. canvas may be nil, which disables snapshots.
func NewApi(s *stream.Streamer, canvas *preview.Canvas, logger *slog.Logger) *Api {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := new(Api)
	a.streamer = s
	a.canvas = canvas
	a.logger = logger
	a.Timeout = 2 * time.Second

	a.mux = http.NewServeMux()
	a.mux.HandleFunc("GET /evaluate", a.handleEvaluate)
	a.mux.HandleFunc("GET /state", a.handleState)
	a.mux.HandleFunc("POST /play", a.handlePlay)
	a.mux.HandleFunc("POST /stop", a.handleStop)
	a.mux.HandleFunc("POST /seek", a.handleSeek)
	a.mux.HandleFunc("GET /snapshot.png", a.handleSnapshot)
	return a
}

// Handler returns the request router.
func (a *Api) Handler() http.Handler {
	return a.mux
}

// Serve listens on addr until ctx is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.mux}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	a.logger.Info("listening", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Api) do(r *http.Request, fn func(*stream.Runtime)) error {
	ctx, cancel := context.WithTimeout(r.Context(), a.Timeout)
	defer cancel()
	return a.streamer.Do(ctx, fn)
}

// State is the body of GET /state.
type State struct {
	Time     float64       `json:"time"`
	Duration float64       `json:"duration"`
	Playing  bool          `json:"playing"`
	Loop     bool          `json:"loop"`
	Speed    float64       `json:"speed"`
	Frame    *stream.Frame `json:"frame,omitempty"`
}

func (a *Api) handleState(w http.ResponseWriter, r *http.Request) {
	var s State
	err := a.do(r, func(rt *stream.Runtime) {
		c := rt.Timeline().Clock()
		s = State{
			Time:     c.CurrentTime,
			Duration: c.Duration,
			Playing:  c.Playing,
			Loop:     c.Loop,
			Speed:    c.Speed,
			Frame:    rt.LastFrame(),
		}
	})
	if err != nil {
		a.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	a.reply(w, s)
}

func (a *Api) handlePlay(w http.ResponseWriter, r *http.Request) {
	a.control(w, r, (*stream.Runtime).Play)
}

func (a *Api) handleStop(w http.ResponseWriter, r *http.Request) {
	a.control(w, r, (*stream.Runtime).Stop)
}

func (a *Api) handleSeek(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil {
		a.fail(w, http.StatusBadRequest, fmt.Errorf("bad time: %w", err))
		return
	}
	a.control(w, r, func(rt *stream.Runtime) { rt.Seek(ms) })
}

func (a *Api) control(w http.ResponseWriter, r *http.Request, fn func(*stream.Runtime)) {
	if err := a.do(r, fn); err != nil {
		a.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	a.handleState(w, r)
}

// Evaluation is the body of GET /evaluate. Value is null for a track
// without keyframes.
type Evaluation struct {
	Track string       `json:"track"`
	Time  float64      `json:"time"`
	Value *track.Value `json:"value"`
}

func (a *Api) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("track")
	ms, err := strconv.ParseFloat(q.Get("t"), 64)
	if err != nil {
		a.fail(w, http.StatusBadRequest, fmt.Errorf("bad time: %w", err))
		return
	}

	var keyframes []track.Keyframe
	found := false
	err = a.do(r, func(rt *stream.Runtime) {
		for _, tr := range rt.Timeline().Tracks() {
			if tr != nil && tr.ID == id {
				keyframes = append(keyframes, tr.Keyframes...)
				found = true
				return
			}
		}
	})
	if err != nil {
		a.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	if !found {
		a.fail(w, http.StatusNotFound, fmt.Errorf("no track %q", id))
		return
	}

	e := Evaluation{Track: id, Time: ms}
	if v, ok := track.EvaluateKeyframes(keyframes, ms); ok {
		e.Value = &v
	}
	a.reply(w, e)
}

func (a *Api) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if a.canvas == nil {
		a.fail(w, http.StatusNotFound, errors.New("snapshots disabled"))
		return
	}

	var buf bytes.Buffer
	var drawErr error
	if err := a.do(r, func(*stream.Runtime) { drawErr = a.canvas.EncodePNG(&buf) }); err != nil {
		a.fail(w, http.StatusServiceUnavailable, err)
		return
	}
	if drawErr != nil {
		a.fail(w, http.StatusInternalServerError, drawErr)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (a *Api) reply(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Warn("writing response", "error", err)
	}
}

func (a *Api) fail(w http.ResponseWriter, status int, err error) {
	a.logger.Debug("request failed", "status", status, "error", err)
	http.Error(w, err.Error(), status)
}
