package main

import "flag"

type runtimeOptions struct {
	source    string
	sourceArg string
	sink      string
	sinkArg   string
	fps       float64
	ledCount  int
	sceneID   int
	debug     bool
	visualize bool
}

func parseCLIFlags() runtimeOptions {
	var cfg runtimeOptions

	flag.StringVar(&cfg.source, "source", "", "music frame source: stdin, file, or demo (leave blank to choose interactively)")
	flag.StringVar(&cfg.sourceArg, "source-file", "", "path to read newline-delimited JSON frames from, when -source=file")
	flag.StringVar(&cfg.sink, "sink", "", "led output sink: stdout or file (leave blank to choose interactively)")
	flag.StringVar(&cfg.sinkArg, "sink-file", "", "path to write packed binary led frames to, when -sink=file")
	flag.Float64Var(&cfg.fps, "fps", 20, "fixed tick rate in frames per second")
	flag.IntVar(&cfg.ledCount, "led-count", 60, "number of LEDs on the strip")
	flag.IntVar(&cfg.sceneID, "scene", 1, "scene id to drive")
	flag.BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	flag.BoolVar(&cfg.visualize, "visualize", false, "render a live terminal LED-strip visualization (logs go to stderr)")
	flag.Parse()

	return cfg
}
