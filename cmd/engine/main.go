package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"

	"github.com/ledsync/lighting-engine/internal/engine"
	"github.com/ledsync/lighting-engine/internal/ui"
)

func main() {
	cfg := parseCLIFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runEngine(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runEngine(ctx context.Context, cfg runtimeOptions) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := setupLogger(cfg.debug, cfg.visualize)

	loop, err := buildLoopConfig(cfg)
	if err != nil {
		return eris.Wrap(err, "build loop config")
	}

	logger.Info("starting lighting engine",
		slog.String("source", loop.SourceName),
		slog.String("sink", loop.SinkName),
		slog.Float64("fps", loop.Engine.FPS),
		slog.Int("scene", loop.Engine.SceneID),
		slog.Int("led_count", loop.Engine.LEDCount),
	)

	eng := engine.New(loop.Engine, logger)

	var viz *ui.Visualizer
	if loop.Visualize {
		viz = ui.NewVisualizer(cancel)
		defer viz.Close()

		eng.SetObserver(func(snap engine.Snapshot) {
			viz.Update(ui.LEDFrame{
				Colors:           snap.Colors,
				Frame:            snap.Frame,
				SceneID:          snap.SceneID,
				EffectID:         snap.EffectID,
				TempoClass:       snap.TempoClass,
				DimmerPercentage: snap.DimmerPercentage,
				Beat:             snap.Beat,
			})
		})
	}

	if err := eng.Run(loopCtx, loop.Source, loop.Sink); err != nil && !eris.Is(err, context.Canceled) {
		logger.Error("lighting engine failed", slog.Any("error", err))
		return err
	}

	return nil
}

func setupLogger(debug, visualize bool) *slog.Logger {
	logOutput := os.Stdout
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	if visualize && !debug {
		logLevel = slog.LevelWarn
	}
	if visualize {
		logOutput = os.Stderr
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	return logger
}
