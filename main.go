package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/motion/api"
	"github.com/matt-g-everett/motion/audio"
	"github.com/matt-g-everett/motion/preview"
	"github.com/matt-g-everett/motion/stream"
	"github.com/matt-g-everett/motion/timeline"
)

// Size of the box each node is previewed as.
const previewBox = 48

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Document *timeline.Document
	Runtime  *stream.Runtime
	Streamer *stream.Streamer
	Canvas   *preview.Canvas
	logger   *slog.Logger
}

func newApp() *app {
	a := new(app)
	a.logger = slog.Default()
	return a
}

func (a *app) readConfig(configPath string) error {
	f, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&a.Config); err != nil {
		return fmt.Errorf("reading %s: %w", configPath, err)
	}
	return nil
}

func (a *app) setupLogging() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.Config.Player.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	stream.SetLogger(a.logger)
	mqtt.ERROR = slog.NewLogLogger(a.logger.Handler(), slog.LevelError)
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.logger.Info("connected", "broker", a.Config.Mqtt.URL)
}

func (a *app) connect() error {
	clientID := a.Config.Mqtt.ClientID
	if clientID == "" {
		clientID = "motion"
	}
	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(clientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to %s: %w", a.Config.Mqtt.URL, token.Error())
	}
	return nil
}

func (a *app) setup() error {
	p := a.Config.Player
	if p.Document == "" {
		return errors.New("no document configured")
	}
	doc, err := timeline.Read(p.Document)
	if err != nil {
		return fmt.Errorf("loading %s: %w", p.Document, err)
	}
	a.Document = doc

	var player audio.Player = &audio.LogPlayer{Logger: a.logger}
	var sink *stream.MQTTSink
	if a.Config.Mqtt.URL != "" {
		if err := a.connect(); err != nil {
			return err
		}
		sink = stream.NewMQTTSink(a.Client, a.Config, a.logger)
		player = sink
	}

	a.Runtime = stream.NewRuntime(doc, doc.Nodes,
		stream.WithLogger(a.logger),
		stream.WithAudio(audio.NewWavDecoder(p.AudioRoot), player))
	if sink != nil {
		a.Runtime.AddSink(sink)
	}

	w, h := p.Snapshot.Width, p.Snapshot.Height
	if w <= 0 || h <= 0 {
		w, h = 640, 360
	}
	a.Canvas = preview.New(w, h)
	for _, n := range doc.Nodes {
		a.Runtime.Register(n.ID, a.Canvas.Target(n.ID, previewBox, previewBox))
	}

	if p.Autoplay {
		a.Runtime.Play()
	}
	a.Streamer = stream.NewStreamer(a.Runtime, p.FPS)
	a.logger.Info("document loaded",
		"name", doc.Name, "nodes", len(doc.Nodes), "tracks", len(doc.Tracks()),
		"durationMs", doc.Duration, "interval", a.Streamer.Interval())
	return nil
}

func (a *app) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Streamer.Run(ctx)
	})
	if addr := a.Config.Http.Addr; addr != "" {
		server := api.NewApi(a.Streamer, a.Canvas, a.logger)
		g.Go(func() error {
			return server.Serve(ctx, addr)
		})
	}

	err := g.Wait()
	if a.Client != nil {
		a.Client.Disconnect(250)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	// Read the config
	a := newApp()
	if err := a.readConfig(*configPath); err != nil {
		a.logger.Error("config", "error", err)
		os.Exit(1)
	}
	a.setupLogging()
	a.logger.Debug("config", "player", fmt.Sprintf("%+v", a.Config.Player),
		"http", a.Config.Http.Addr, "mqtt", a.Config.Mqtt.URL)

	if err := a.setup(); err != nil {
		a.logger.Error("setup", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.run(ctx); err != nil {
		a.logger.Error("run", "error", err)
		os.Exit(1)
	}
}
