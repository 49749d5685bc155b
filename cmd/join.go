package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/bnema/talkie/internal/adapters/device/null"
	"github.com/bnema/talkie/internal/adapters/device/tone"
	wavdevice "github.com/bnema/talkie/internal/adapters/device/wav"
	roomrender "github.com/bnema/talkie/internal/adapters/render/room"
	"github.com/bnema/talkie/internal/application"
	"github.com/bnema/talkie/internal/config"
	"github.com/bnema/talkie/internal/domain"
	"github.com/bnema/talkie/internal/ports"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const metricsShutdownTimeout = 5 * time.Second

var _ roomrender.Controller = (*application.SessionService)(nil)

var errCallsignRequired = errors.New("callsign required: pass --callsign or run talkie prefs set --callsign")

type joinOptions struct {
	room        string
	callsign    string
	gender      string
	handsFree   bool
	capture     string
	captureFile string
	toneFrames  int
	playback    string
	playbackDir string
	realtime    bool
	headless    bool
	duration    time.Duration
	say         []string
}

func newJoinCmd(app *app) *cobra.Command {
	opts := joinOptions{}

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a room and talk",
		Long:  "Join a room by code. Interactive mode opens the room view: ctrl+t toggles push-to-talk, ctrl+f toggles hands-free, enter announces the typed text and esc leaves. While the view is open, logs go to ~/.talkie/talkie.log unless log.file is set. --headless runs without a terminal UI and prints the room view on exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJoin(cmd, app, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.room, "room", "", "Six-character room code")
	flags.StringVar(&opts.callsign, "callsign", "", "Callsign shown to the room (defaults to the saved preference)")
	flags.StringVar(&opts.gender, "gender", "", "Announcer voice: male or female (defaults to the saved preference)")
	flags.BoolVar(&opts.handsFree, "hands-free", false, "Transmit continuously from the moment you join")
	flags.StringVar(&opts.capture, "capture", "tone", "Capture device: wav, tone or none")
	flags.StringVar(&opts.captureFile, "capture-file", "", "WAV file replayed by the wav capture device")
	flags.IntVar(&opts.toneFrames, "tone-frames", 0, "Stop the tone capture after this many frames (0 = never)")
	flags.StringVar(&opts.playback, "playback", "null", "Playback device: wav or null")
	flags.StringVar(&opts.playbackDir, "playback-dir", "", "Directory for wav playback files (defaults to ~/.talkie/playback)")
	flags.BoolVar(&opts.realtime, "realtime", true, "Pace capture and playback in real time")
	flags.BoolVar(&opts.headless, "headless", false, "Run without the interactive room view")
	flags.DurationVar(&opts.duration, "duration", 0, "Headless: stay in the room this long before leaving")
	flags.StringArrayVar(&opts.say, "say", nil, "Headless: announce this text after joining (repeatable)")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

func runJoin(cmd *cobra.Command, app *app, opts joinOptions) error {
	ctx := cmd.Context()

	if !opts.headless {
		restore, err := app.logSink.redirect(interactiveLogPath(app.homeDir))
		if err != nil {
			return err
		}
		defer func() {
			if err := restore(); err != nil {
				app.logger.Warn("close interactive log", zap.Error(err))
			}
		}()
	}

	prefs, err := app.prefs.Load(ctx)
	if err != nil {
		return err
	}

	callsign := opts.callsign
	if callsign == "" {
		callsign = string(prefs.Callsign)
	}
	if callsign == "" {
		return errCallsignRequired
	}

	persona := prefs.Persona
	if opts.gender != "" {
		if persona, err = domain.ParsePersona(opts.gender); err != nil {
			return err
		}
	}

	capture, err := newCaptureDevice(opts)
	if err != nil {
		return err
	}
	player, err := newPlayer(app, opts)
	if err != nil {
		return err
	}

	service := application.NewSessionService(application.SessionDeps{
		Bus:       app.bus,
		Capture:   capture,
		Player:    player,
		Codec:     app.codec,
		Announcer: app.announcer,
		WakeLock:  app.wakeLock,
		Clock:     ports.SystemClock{},
		Logger:    app.logger,
		Metrics:   app.metrics,
		Settings:  app.sessionSettings(),
	})

	session, err := service.JoinRoom(ctx, application.JoinRoomCommand{
		Callsign: callsign,
		RoomCode: opts.room,
		Persona:  persona,
	})
	if err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	defer func() {
		if err := service.LeaveRoom(); err != nil {
			app.logger.Warn("leave room", zap.Error(err))
		}
	}()

	logger := app.logger.With(zap.String("room", string(session.RoomCode)), zap.String("callsign", string(session.Callsign)))
	logger.Info("joined room")

	if opts.handsFree {
		if err := service.SetHandsFree(ctx, true); err != nil {
			return fmt.Errorf("enable hands-free: %w", err)
		}
	}

	renderOpts := roomrender.RenderOptions{Theme: themeFor(prefs.ThemeID)}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return ignoreCanceled(service.RunSweeper(gctx, app.cfg.Messages.SweepInterval))
	})
	if addr := app.cfg.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, addr, app, logger)
		})
	}
	g.Go(func() error {
		defer cancel()
		if opts.headless {
			return runHeadless(gctx, cmd, app, service, opts, renderOpts)
		}
		return runInteractive(gctx, cmd, service, renderOpts)
	})

	return g.Wait()
}

func runHeadless(ctx context.Context, cmd *cobra.Command, app *app, service *application.SessionService, opts joinOptions, renderOpts roomrender.RenderOptions) error {
	for _, text := range opts.say {
		if err := service.Announce(ctx, text); err != nil {
			return fmt.Errorf("announce: %w", err)
		}
	}

	if opts.duration > 0 {
		timer := time.NewTimer(opts.duration)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	rendered, err := app.roomRenderer(service.Snapshot(), renderOpts)
	if err != nil {
		return fmt.Errorf("render room: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func runInteractive(ctx context.Context, cmd *cobra.Command, service *application.SessionService, renderOpts roomrender.RenderOptions) error {
	program := tea.NewProgram(
		roomrender.NewModel(ctx, service, renderOpts, 0),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run room view: %w", err)
	}

	return nil
}

func newCaptureDevice(opts joinOptions) (ports.CaptureDevice, error) {
	switch opts.capture {
	case "wav":
		if opts.captureFile == "" {
			return nil, errors.New("--capture wav needs --capture-file")
		}
		return wavdevice.NewCapture(opts.captureFile, opts.realtime), nil
	case "tone":
		capture := tone.NewCapture(opts.realtime)
		capture.MaxFrames = opts.toneFrames
		return capture, nil
	case "none":
		return null.Capture{}, nil
	default:
		return nil, fmt.Errorf("unknown capture device %q: want wav, tone or none", opts.capture)
	}
}

func newPlayer(app *app, opts joinOptions) (ports.Player, error) {
	switch opts.playback {
	case "wav":
		dir := opts.playbackDir
		if dir == "" {
			dir = filepath.Join(config.Dir(app.homeDir), "playback")
		}
		return wavdevice.NewPlayer(dir, opts.realtime), nil
	case "null":
		return null.Player{Realtime: opts.realtime}, nil
	default:
		return nil, fmt.Errorf("unknown playback device %q: want wav or null", opts.playback)
	}
}

func themeFor(id string) domain.Theme {
	if theme, err := domain.LookupTheme(id); err == nil {
		return theme
	}
	theme, _ := domain.LookupTheme(domain.DefaultThemeID)
	return theme
}

func serveMetrics(ctx context.Context, addr string, app *app, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info("serving metrics", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
