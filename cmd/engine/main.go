package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/lowengine/internal/config"
	"github.com/zeusync/lowengine/internal/core/observability/log"
	"github.com/zeusync/lowengine/internal/injector"
	"github.com/zeusync/lowengine/internal/render"
	"github.com/zeusync/lowengine/pkg/concurrent"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	headless := flag.Bool("headless", false, "tick without opening a window")
	flag.Parse()

	if err := run(*configPath, *headless); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, headless bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()
	defer app.Engine.Close()
	defer app.Inspector.Close()

	if err = buildStartupScene(app); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tasks []concurrent.Task
	if cfg.Inspector.Enabled {
		tasks = append(tasks, app.Inspector.Run)
	}

	if headless {
		tasks = append(tasks, tickLoop(app))
		err = concurrent.RunAll(ctx, tasks...)
	} else {
		err = runWindowed(ctx, app, tasks)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Error("Engine stopped with error", log.Error(err))
		return err
	}
	app.Logger.Info("Engine stopped", log.Uint64("frames", app.Engine.Frames()))
	return nil
}

// runWindowed keeps ebiten on the main goroutine and everything else in the
// background.
func runWindowed(ctx context.Context, app *injector.App, tasks []concurrent.Task) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	background := make(chan error, 1)
	go func() { background <- concurrent.RunAll(ctx, tasks...) }()

	w := render.Window{
		Width:  app.Config.Window.Width,
		Height: app.Config.Window.Height,
		Title:  app.Config.Window.Title,
		TPS:    app.Config.TPS,
	}
	err := render.Run(ctx, w, app.Engine, render.NewRenderer(app.Assets, app.Logger), app.Logger)
	cancel()
	return errors.Join(err, <-background)
}

func tickLoop(app *injector.App) concurrent.Task {
	return func(ctx context.Context) error {
		interval := time.Second / time.Duration(app.Config.TPS)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		app.Logger.Info("Running headless", log.Int("tps", app.Config.TPS))
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				app.Engine.Tick(interval.Seconds())
			}
		}
	}
}
