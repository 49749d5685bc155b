package cmd

import (
	"fmt"
	"os"

	announcerchain "github.com/bnema/talkie/internal/adapters/announcer/chain"
	announcerexec "github.com/bnema/talkie/internal/adapters/announcer/exec"
	announcerlog "github.com/bnema/talkie/internal/adapters/announcer/logging"
	"github.com/bnema/talkie/internal/adapters/bus/memory"
	tomlprefs "github.com/bnema/talkie/internal/adapters/prefs/toml"
	roomrender "github.com/bnema/talkie/internal/adapters/render/room"
	"github.com/bnema/talkie/internal/adapters/roomcode"
	"github.com/bnema/talkie/internal/adapters/wakelock"
	"github.com/bnema/talkie/internal/application"
	"github.com/bnema/talkie/internal/audio"
	"github.com/bnema/talkie/internal/config"
	"github.com/bnema/talkie/internal/metrics"
	"github.com/bnema/talkie/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	cfg          *config.Config
	homeDir      string
	logger       *zap.Logger
	logSink      *logSink
	prefs        *application.PreferenceService
	roomCodes    ports.RoomCodeGenerator
	bus          ports.RoomBus
	codec        ports.FrameCodec
	announcer    ports.Announcer
	wakeLock     ports.WakeLock
	registry     *prometheus.Registry
	metrics      *metrics.Metrics
	roomRenderer func(application.SessionSnapshot, roomrender.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg, err := config.Load(viper.New(), homeDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logSink, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	store, err := tomlprefs.NewStore(cfg.Prefs.Path)
	if err != nil {
		return nil, fmt.Errorf("wire preference store: %w", err)
	}

	codec, err := newCodec(cfg.Audio)
	if err != nil {
		return nil, fmt.Errorf("wire audio codec: %w", err)
	}

	announcer, err := announcerchain.NewAnnouncer(
		announcerexec.NewAnnouncer(cfg.Announcer.Command, cfg.Announcer.VoiceMale, cfg.Announcer.VoiceFemale),
		announcerlog.NewAnnouncer(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("wire announcer chain: %w", err)
	}

	registry := prometheus.NewRegistry()

	return &app{
		cfg:          cfg,
		homeDir:      homeDir,
		logger:       logger,
		logSink:      logSink,
		prefs:        application.NewPreferenceService(store),
		roomCodes:    roomcode.Generator{},
		bus:          memory.NewBus(cfg.Bus.QueueSize, logger),
		codec:        codec,
		announcer:    announcer,
		wakeLock:     wakelock.NewInhibitor("", "talkie"),
		registry:     registry,
		metrics:      metrics.New(registry),
		roomRenderer: roomrender.Render,
	}, nil
}

func newCodec(cfg config.AudioConfig) (ports.FrameCodec, error) {
	switch cfg.Codec {
	case "opus":
		codec, err := audio.NewOpusCodec(cfg.CaptureSampleRate, cfg.Channels)
		if err != nil {
			return nil, err
		}
		return codec, nil
	default:
		return audio.PCMCodec{}, nil
	}
}

func (a *app) sessionSettings() application.SessionSettings {
	return application.SessionSettings{
		CaptureSampleRate:  a.cfg.Audio.CaptureSampleRate,
		PlaybackSampleRate: a.cfg.Audio.PlaybackSampleRate,
		Channels:           a.cfg.Audio.Channels,
		FrameSize:          a.cfg.Audio.FrameSize,
		Retention:          a.cfg.Messages.Retention,
		ReportTemplate:     a.cfg.Announcer.ReportTemplate,
		ConnectTemplate:    a.cfg.Announcer.ConnectTemplate,
	}
}
