// Package engine runs the fixed-rate loop that reads Music Frames, drives
// the musical-event detector stack, turns its flags into lighting
// Commands, and renders the resulting scene to a binary LED frame.
package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledsync/lighting-engine/internal/colorutil"
	"github.com/ledsync/lighting-engine/internal/dispatch"
	"github.com/ledsync/lighting-engine/internal/frame"
	"github.com/ledsync/lighting-engine/internal/interpret"
	"github.com/ledsync/lighting-engine/internal/switcher"
)

// Config holds the fixed parameters of one engine run.
type Config struct {
	FPS      float64
	SceneID  int
	LEDCount int
}

// Snapshot is the observable state produced by one Tick, handed to an
// Observer for live display. It carries nothing the core loop needs back.
type Snapshot struct {
	Colors           []colorutil.RGB
	Frame            int
	SceneID          int
	EffectID         int
	TempoClass       string
	DimmerPercentage int
	Beat             bool
}

// Observer receives a Snapshot after every Tick. Intended for a live
// visualizer; it must not block meaningfully since it runs on the core
// loop goroutine.
type Observer func(Snapshot)

// Engine wires the Block B detector/switcher stack into the Block C
// scene graph and drives both from a single fixed-rate tick.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	interpreter *interpret.Interpreter
	switcher    *switcher.Switcher
	dispatcher  *dispatch.Dispatcher
	receiver    *dispatch.ReceiveHandler

	observer Observer
}

func New(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	receiver := dispatch.NewReceiveHandler(logger, cfg.LEDCount)
	receiver.SetFPS(cfg.FPS)

	return &Engine{
		cfg:         cfg,
		logger:      logger,
		interpreter: interpret.NewInterpreter(logger),
		switcher:    switcher.New(cfg.SceneID),
		dispatcher:  dispatch.NewDispatcher(),
		receiver:    receiver,
	}
}

// Tick runs one full step of the 8-stage pipeline against f: detect,
// interpret, switch, dispatch, update, render. It returns the rendered
// binary frame, or ok=false if nothing is sent this tick (rate limited, or
// no scene registered). An unknown cfg.SceneID still renders the
// smallest-id registered scene. Dimmer-time ratio commands are added on
// every 50th frame.
func (e *Engine) Tick(f frame.MusicFrame) (data []byte, ok bool) {
	e.interpreter.Update(f)
	musical := e.interpreter.DetectMusicalChangeFlgs()
	lightingFlags := interpret.MakeLightingFlags(musical)

	e.switcher.UpdateState(e.interpreter.LatestGenre(), e.interpreter.LatestTempo())

	cmds := e.switcher.LightSwitchFlag(lightingFlags)
	if musical.Frame%50 == 0 {
		cmds = append(cmds, e.switcher.AdoptDimmerTimeToTempo()...)
	}

	for _, cmd := range cmds {
		if err := e.dispatcher.Dispatch(cmd, e.receiver); err != nil {
			e.logger.Warn("command dispatch failed", "address", cmd.Address, "error", err)
		}
	}

	if err := e.receiver.HandleSceneUpdate(e.cfg.SceneID); err != nil {
		e.logger.Warn("scene update failed", "scene", e.cfg.SceneID, "error", err)
	}
	scene, found := e.receiver.Scene(e.cfg.SceneID)

	if e.observer != nil && found {
		e.observer(Snapshot{
			Colors:           scene.GetLEDOutput(),
			Frame:            musical.Frame,
			SceneID:          e.cfg.SceneID,
			EffectID:         e.switcher.CurrentEffectID(),
			TempoClass:       musical.TempoClass,
			DimmerPercentage: musical.DimmerPeriodPercentage,
			Beat:             f.Beat,
		})
	}

	frames, ok := e.receiver.SendLEDBinaryData(time.Now())
	if !ok {
		return nil, false
	}
	data = make([]byte, 0, sumFrameLengths(frames))
	for _, frm := range frames {
		data = append(data, frm.Data...)
	}
	return data, true
}

func sumFrameLengths(frames []dispatch.LEDOutputFrame) int {
	n := 0
	for _, f := range frames {
		n += len(f.Data)
	}
	return n
}

// SetObserver installs obs to receive a Snapshot after every Tick. Pass
// nil to disable.
func (e *Engine) SetObserver(obs Observer) { e.observer = obs }

// Run drives the engine at cfg.FPS until ctx is canceled or src is
// exhausted. It coordinates three goroutines — frame intake, the fixed-rate
// core tick, and output emission — over non-blocking, drop-oldest channels
// so a slow sink or a bursty source never stalls the tick rate.
func (e *Engine) Run(ctx context.Context, src frame.Source, sink frame.Sink) error {
	g, ctx := errgroup.WithContext(ctx)

	frames := make(chan frame.MusicFrame, 1)
	outputs := make(chan []byte, 1)

	g.Go(func() error { return produceFrames(ctx, src, frames) })
	g.Go(func() error { return e.runCore(ctx, frames, outputs) })
	g.Go(func() error { return consumeOutputs(ctx, sink, outputs) })

	return g.Wait()
}

func produceFrames(ctx context.Context, src frame.Source, frames chan frame.MusicFrame) error {
	defer close(frames)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := src.Next()
		if err != nil {
			if err == frame.ErrSourceExhausted {
				return nil
			}
			return err
		}

		select {
		case frames <- f:
		case <-ctx.Done():
			return ctx.Err()
		default:
			select {
			case <-frames:
			default:
			}
			select {
			case frames <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (e *Engine) runCore(ctx context.Context, frames <-chan frame.MusicFrame, outputs chan []byte) error {
	defer close(outputs)

	period := time.Duration(float64(time.Second) / e.cfg.FPS)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var latest frame.MusicFrame
	haveFrame := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, open := <-frames:
			if !open {
				return nil
			}
			latest = f
			haveFrame = true
		case <-ticker.C:
			if !haveFrame {
				continue
			}
			data, ok := e.Tick(latest)
			if !ok {
				continue
			}
			sendDropOldest(ctx, outputs, data)
		}
	}
}

func sendDropOldest(ctx context.Context, outputs chan []byte, data []byte) {
	select {
	case outputs <- data:
		return
	case <-ctx.Done():
		return
	default:
	}
	select {
	case <-outputs:
	default:
	}
	select {
	case outputs <- data:
	case <-ctx.Done():
	}
}

func consumeOutputs(ctx context.Context, sink frame.Sink, outputs <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, open := <-outputs:
			if !open {
				return nil
			}
			if err := sink.Write(data); err != nil {
				return err
			}
		}
	}
}
