package main

import (
	"os"

	"github.com/rotisserie/eris"

	"github.com/ledsync/lighting-engine/internal/engine"
	"github.com/ledsync/lighting-engine/internal/frame"
	"github.com/ledsync/lighting-engine/internal/ui"
)

type loopConfig struct {
	Engine     engine.Config
	Source     frame.Source
	Sink       frame.Sink
	SourceName string
	SinkName   string
	Visualize  bool
}

var sourceOptions = []string{"demo", "stdin"}
var sinkOptions = []string{"stdout", "file"}

func selectSourceAndSink(opts runtimeOptions) (string, string, error) {
	source, sink := opts.source, opts.sink

	needSource := source == ""
	needSink := sink == ""

	if !needSource && !needSink {
		return source, sink, nil
	}

	result, err := ui.RunSetup(
		buildStringOptions(sourceOptions),
		buildStringOptions(sinkOptions),
		ui.SetupConfig{
			RequireSource: needSource,
			RequireSink:   needSink,
			InitialSource: 0,
			InitialSink:   0,
		},
	)
	if err != nil {
		if eris.Is(err, ui.ErrNoInteractiveTTY) {
			if needSource {
				source = sourceOptions[0]
			}
			if needSink {
				sink = sinkOptions[0]
			}
			return source, sink, nil
		}
		return "", "", err
	}

	if needSource {
		source = sourceOptions[result.SourceIndex]
	}
	if needSink {
		sink = sinkOptions[result.SinkIndex]
	}

	return source, sink, nil
}

func buildStringOptions(names []string) []ui.Option {
	options := make([]ui.Option, len(names))
	for i, name := range names {
		options[i] = ui.Option{Label: name}
	}
	return options
}

func buildSource(name string, opts runtimeOptions) (frame.Source, error) {
	switch name {
	case "demo":
		return frame.NewDemoSource(), nil
	case "stdin":
		return frame.NewJSONLineSource(os.Stdin), nil
	case "file":
		if opts.sourceArg == "" {
			return nil, eris.New("source=file requires -source-file")
		}
		f, err := os.Open(opts.sourceArg)
		if err != nil {
			return nil, eris.Wrap(err, "open source file")
		}
		return frame.NewJSONLineSource(f), nil
	default:
		return nil, eris.Errorf("unknown source %q", name)
	}
}

func buildSink(name string, opts runtimeOptions) (frame.Sink, error) {
	switch name {
	case "stdout":
		return frame.NewWriterSink(os.Stdout), nil
	case "file":
		if opts.sinkArg == "" {
			return nil, eris.New("sink=file requires -sink-file")
		}
		f, err := os.Create(opts.sinkArg)
		if err != nil {
			return nil, eris.Wrap(err, "create sink file")
		}
		return frame.NewWriterSink(f), nil
	default:
		return nil, eris.Errorf("unknown sink %q", name)
	}
}

func buildLoopConfig(opts runtimeOptions) (loopConfig, error) {
	sourceName, sinkName, err := selectSourceAndSink(opts)
	if err != nil {
		return loopConfig{}, eris.Wrap(err, "select source/sink")
	}

	src, err := buildSource(sourceName, opts)
	if err != nil {
		return loopConfig{}, eris.Wrap(err, "build source")
	}
	sink, err := buildSink(sinkName, opts)
	if err != nil {
		return loopConfig{}, eris.Wrap(err, "build sink")
	}

	return loopConfig{
		Engine: engine.Config{
			FPS:      effectiveFPS(opts.fps),
			SceneID:  effectiveSceneID(opts.sceneID),
			LEDCount: effectiveLEDCount(opts.ledCount),
		},
		Source:     src,
		Sink:       sink,
		SourceName: sourceName,
		SinkName:   sinkName,
		Visualize:  opts.visualize,
	}, nil
}

func effectiveFPS(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return 20
}

func effectiveSceneID(requested int) int {
	if requested > 0 {
		return requested
	}
	return 1
}

func effectiveLEDCount(requested int) int {
	if requested > 0 {
		return requested
	}
	return 60
}
