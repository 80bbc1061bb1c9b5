package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

func createApp(cfg *Config, log zerolog.Logger) *PartialFace {
	app := &PartialFace{
		Running:     true,
		Config:      cfg,
		Log:         log,
		Clock:       systemClock{},
		Surface:     NewGGSurface(cfg.ScreenWidth, cfg.ScreenHeight, cfg.Round),
		Presenter:   NewPresenter(cfg.FramePath, cfg.SnapshotScale, log),
		Render:      cfg.RenderContext(ThemePartial.Palette()),
		ThemeName:   ThemePartial.Name,
		RedrawChan:  make(chan struct{}, 1),
		RefreshChan: make(chan frame, 1),
		ConfigChan:  make(chan configRequest),
		done:        make(chan struct{}),
	}
	app.publishState()
	return app
}

func (app *PartialFace) Init() {
	app.Log.Info().
		Str("version", APP_VERSION).
		Int("width", app.Config.ScreenWidth).
		Int("height", app.Config.ScreenHeight).
		Bool("round", app.Config.Round).
		Msg("Initializing")

	// Load settings (palette) before the first frame
	if err := app.loadSettings(); err != nil {
		app.Log.Warn().Err(err).Msg("Could not load settings (using defaults)")
	}
	app.publishState()

	app.Scheduler = NewScheduler(app.Log)
	if err := app.Scheduler.AddJob(app.Config.RedrawSchedule, redrawJob{app: app}); err != nil {
		app.Log.Error().Err(err).Msg("Failed to register redraw job")
	}

	if app.Config.HTTPAddr != "" {
		app.Server = NewServer(app.Config.HTTPAddr, app.Config.PublicURL, app, app.Log)
	}
}

// LastFrame returns the last presented frame as PNG
func (app *PartialFace) LastFrame() []byte {
	return app.Presenter.LastFrame()
}

// Run drives the face until ctx is cancelled. All drawing happens here.
func (app *PartialFace) Run(ctx context.Context) {
	presenterDone := make(chan struct{})
	go func() {
		app.Presenter.Run(app.RefreshChan)
		close(presenterDone)
	}()

	if app.Server != nil {
		go func() {
			if err := app.Server.Start(); err != nil {
				app.Log.Error().Err(err).Msg("HTTP server failed")
			}
		}()
	}
	app.Scheduler.Start()

	// Draw initial frame
	app.drawCurrentScreen()

	for app.Running {
		select {
		case <-ctx.Done():
			app.Running = false
		case req := <-app.ConfigChan:
			app.applyConfig(req)
		case <-app.RedrawChan:
			app.drawCurrentScreen()
		}
	}

	close(app.done)

	app.Log.Info().Msg("Shutting down")
	app.Scheduler.Stop()
	if app.Server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			app.Log.Warn().Err(err).Msg("HTTP server shutdown")
		}
		cancel()
	}

	// Cleanup: close refresh channel so the presenter drains and exits
	close(app.RefreshChan)
	<-presenterDone
}

// snapshot renders a single frame at a fixed HH:MM with the saved palette
// and presents it. The settings file is only read.
func (app *PartialFace) snapshot(at string) error {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return fmt.Errorf("invalid snapshot time %q: want HH:MM", at)
	}
	if err := app.restoreSettings(); err != nil {
		app.Log.Warn().Err(err).Msg("Could not load settings (using defaults)")
	}
	DrawFace(app.Surface, t.Hour(), t.Minute(), app.Render)
	if err := app.Presenter.Present(app.Surface.FB); err != nil {
		return err
	}
	app.Log.Info().Str("time", at).Str("path", app.Presenter.Path).Msg("Snapshot written")
	return nil
}

func main() {
	snapshotAt := flag.String("snapshot", "", "render one frame at HH:MM to the frame path and exit")
	flag.Parse()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, logFile, err := newLogger(LoggerConfig{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Path: cfg.LogPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	app := createApp(cfg, log)
	app.logFile = logFile

	// Global panic recovery: log the stack before dying
	defer func() {
		if r := recover(); r != nil {
			app.logCrash(fmt.Sprintf("Application crashed with panic: %v", r))
			panic(r) // Re-panic to show error
		}
	}()

	// Install signal handlers for fatal signals (SIGSEGV, SIGABRT, SIGBUS)
	app.installCrashHandler()

	// Snapshots only read the saved palette: no settings writes, cron or server
	if *snapshotAt != "" {
		if err := app.snapshot(*snapshotAt); err != nil {
			log.Error().Err(err).Msg("Snapshot failed")
			os.Exit(1)
		}
		return
	}

	app.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)
	log.Info().Msg("Stopped")
}
