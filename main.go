package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/result-watch-go/app"
	"github.com/soocke/result-watch-go/assets"
	"github.com/soocke/result-watch-go/config"
	"github.com/soocke/result-watch-go/debug"
	"github.com/soocke/result-watch-go/domain/capture"
	"github.com/soocke/result-watch-go/domain/templates"
)

func main() {
	base := assets.BaseDir()
	cfgPath := flag.String("config", filepath.Join(base, config.FileName), "path to the JSON config file")
	debugFlag := flag.Bool("debug", false, "debug logging and runtime stats")
	logLevel := flag.String("log-level", "info", "log level: debug|info|warn|error")
	headless := flag.Bool("headless", false, "watch without a window until interrupted")
	captureName := flag.String("capture", "", "grab the region once and save it as the success or fail template")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")
	flag.Parse()

	bootLogger := NewLogger(os.Stdout, ParseLevel(*logLevel), *debugFlag)
	cfg, err := config.Load(*cfgPath)
	savePath := *cfgPath
	switch {
	case errors.Is(err, config.ErrUnreadable):
		// Keep the broken file for the user to fix instead of replacing it with defaults.
		bootLogger.Warn("config unreadable, using defaults and not saving", "path", *cfgPath, "error", err)
		savePath = ""
	case err != nil:
		bootLogger.Warn("config partially applied", "path", *cfgPath, "error", err)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	logger := NewLogger(os.Stdout, ParseLevel(*logLevel), cfg.Debug)

	if err := capture.SetDPIAware(); err != nil {
		logger.Warn("dpi awareness not set", "error", err)
	}

	live := config.NewLive(cfg)
	tplDir := assets.Resolve(base, cfg.TemplatesDir)
	if tplDir == "" {
		tplDir = assets.TemplatesDir(base)
	}
	svc := app.NewServices(live, savePath, tplDir, logger)

	if *captureName != "" {
		os.Exit(runCapture(svc, *captureName))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Debug {
		debug.StartRuntimeLogger(ctx, 5*time.Second, logger, svc.Metrics)
	}
	if cfg.MetricsAddr != "" {
		go func() {
			if err := svc.Metrics.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Error("metrics server", "error", err)
			}
		}()
	}

	if *headless {
		os.Exit(runHeadless(ctx, svc))
	}
	app.NewApp("Result Watch", 760, 520, svc).Start()
}

func runCapture(svc *app.Services, name string) int {
	if name != templates.NameSuccess && name != templates.NameFail {
		fmt.Fprintf(os.Stderr, "-capture must be %q or %q\n", templates.NameSuccess, templates.NameFail)
		return 2
	}
	snap := svc.Config.Snapshot()
	roi := snap.ROI()
	path, err := svc.Store.Capture(capture.NewScreenSource(), roi, name)
	if err != nil {
		svc.Logger.Error("template capture failed", "name", name, "error", err)
		return 1
	}
	svc.Logger.Info("template captured", "name", name, "path", path, "roi", roi.String())
	return 0
}

func runHeadless(ctx context.Context, svc *app.Services) int {
	det := svc.Detector
	if err := det.Start(); err != nil {
		svc.Logger.Error("detection not started", "error", err)
		return 1
	}
	<-ctx.Done()
	det.Stop()
	select {
	case <-det.Done():
	case <-time.After(2 * time.Second):
		svc.Logger.Warn("detector did not stop in time")
	}
	if err := svc.Config.Save(svc.CfgPath); err != nil {
		svc.Logger.Error("config save failed", "error", err)
	}
	return 0
}
