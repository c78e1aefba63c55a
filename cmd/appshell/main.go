package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/api/ws"
	"github.com/GriffinCanCode/appshell/internal/bridge"
	"github.com/GriffinCanCode/appshell/internal/domain/app"
	"github.com/GriffinCanCode/appshell/internal/domain/session"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/server"
	"github.com/GriffinCanCode/appshell/internal/menu"
	"github.com/GriffinCanCode/appshell/internal/platform"
	"github.com/GriffinCanCode/appshell/internal/shared/id"
	"github.com/GriffinCanCode/appshell/internal/shared/paths"
	"github.com/GriffinCanCode/appshell/internal/store"
)

const (
	launchHistory   = 20
	shutdownTimeout = 5 * time.Second
)

func main() {
	configFlag := pflag.StringP("config", "c", "", "TOML configuration file applied over the environment")
	portFlag := pflag.StringP("port", "p", "", "Loopback server port")
	devFlag := pflag.BoolP("dev", "d", false, "Development logging")
	noRuntimeFlag := pflag.Bool("no-runtime", false, "Do not start the auxiliary runtime")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file...]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(os.Stderr, "Files are handed to the editor as pending files to open.")
		fmt.Fprintln(os.Stderr)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	cfg, err := config.LoadFile(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "appshell: %v\n", err)
		os.Exit(1)
	}
	if pflag.Lookup("port").Changed {
		cfg.Server.Port = *portFlag
	}
	if *devFlag {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	if *noRuntimeFlag {
		cfg.Runtime.Enabled = false
	}
	if err := cfg.Resolve(); err != nil {
		fmt.Fprintf(os.Stderr, "appshell: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, pflag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "appshell: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, files []string) error {
	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	}
	if cfg.Logging.File != "" {
		logCfg.OutputPaths = []string{"stderr", cfg.Logging.File}
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	runID := id.NewRunID()
	logger.Info("Starting shell",
		zap.String("run_id", runID.String()),
		zap.String("app", cfg.Shell.AppName),
		zap.String("addr", cfg.Server.Addr()),
	)

	metrics := monitoring.NewMetrics()
	defer metrics.Close()

	st, err := store.Open(cfg.Shell.StatePath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.RecordLaunch(runID.String(), time.Now(), launchHistory); err != nil {
		logger.Warn("Failed to record launch", zap.Error(err))
	}

	tree := menu.NewTree()
	if cfg.Shell.MenuFile != "" {
		seed, err := menu.LoadSeedFile(cfg.Shell.MenuFile)
		if err != nil {
			return err
		}
		if err := tree.Apply(seed); err != nil {
			return fmt.Errorf("failed to apply menu seed: %w", err)
		}
	}

	sess := session.New()
	sess.OnChange(func(state session.State, port int) {
		metrics.SetRuntimeState(int(state), port)
		logger.Info("Runtime state changed", zap.Stringer("state", state), zap.Int("port", port))
	})

	backend := platform.New(platform.Options{
		AppName:             cfg.Shell.AppName,
		CommandLineName:     cfg.Shell.CommandLineName,
		CommandLineTarget:   cfg.Shell.CommandLineTarget,
		RemoteDebuggingPort: cfg.Browser.RemoteDebuggingPort,
		BrowserProbeTimeout: cfg.Browser.ProbeTimeout,
		Logger:              logger.Logger,
	})
	window := platform.NewHeadlessWindow(backend, cfg.Browser.RemoteDebuggingPort, logger.Logger)

	docs, err := paths.DocumentsDir()
	if err != nil {
		logger.Warn("Failed to resolve documents directory", zap.Error(err))
	}
	manager := app.NewManager(app.Options{
		SupportDir:          cfg.Shell.SupportDir,
		DocumentsDir:        docs,
		Language:            cfg.Shell.Language,
		RemoteDebuggingPort: cfg.Browser.RemoteDebuggingPort,
		PendingFiles:        absPaths(files),
		Store:               st,
		Window:              window,
		Logger:              logger.Logger,
	}).WithMetrics(metrics)
	manager.RestoreZoom()

	loop := bridge.NewLoop(logger.Component("loop"))
	loop.Start()
	defer loop.Stop()

	b := bridge.New(bridge.Deps{
		Loop:    loop,
		Backend: backend,
		Window:  window,
		Menus:   tree,
		Session: sess,
		App:     manager,
		Metrics: metrics,
		Logger:  logger.Logger,
	})
	defer b.Close()

	hub := ws.NewHub(b, ws.Options{Metrics: metrics, Logger: logger.Logger})
	manager.SetContent(hub)

	dispatcher := menu.NewDispatcher(tree, hub, window, logger.Component("menu"))
	quit := func(context.Context) error {
		manager.Quit()
		return nil
	}
	dispatcher.Handle(menu.CommandQuit, quit)
	dispatcher.Handle(menu.CommandCloseWindow, quit)

	srv := server.New(cfg, server.Deps{
		Hub:       hub,
		Catalog:   b,
		Menus:     tree,
		Activator: dispatcher,
		App:       manager,
		Runtime:   sess,
		History:   st,
		Metrics:   metrics,
		Logger:    logger,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	var proc *session.Process
	if cfg.Runtime.Enabled {
		proc = session.NewProcess(session.ProcessConfig{
			Executable: cfg.Runtime.Executable,
			Args:       []string{cfg.Runtime.Script},
		}, sess, logger.Component("runtime"))
		if err := proc.Start(context.Background()); err != nil {
			logger.Error("Failed to start runtime", zap.Error(err))
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("Received signal", zap.Stringer("signal", sig))
	case <-manager.Done():
	case err := <-errChan:
		runErr = err
	}

	logger.Info("Shutting down gracefully...")
	if proc != nil {
		if err := proc.Stop(); err != nil {
			logger.Warn("Failed to stop runtime", zap.Error(err))
		}
	}
	if err := hub.Close(); err != nil {
		logger.Warn("Failed to close bridge connections", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("Server shutdown failed", zap.Error(err))
	}
	return runErr
}

func absPaths(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			f = abs
		}
		out = append(out, f)
	}
	return out
}
