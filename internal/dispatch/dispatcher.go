// Package dispatch routes address-tagged Commands from the Lighting
// Switcher into the scene/effect/segment graph, and owns the default
// scene/effect/segment population and the packed binary output framing.
package dispatch

import (
	"regexp"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/ledsync/lighting-engine/internal/command"
)

var (
	segmentParamPattern = regexp.MustCompile(`^/scene/(\d+)/effect/(\d+)/segment/(\d+)/(\w+)$`)
	effectParamPattern  = regexp.MustCompile(`^/scene/(\d+)/effect/(\d+)/(\w+)$`)
	sceneCommandPattern = regexp.MustCompile(`^/scene/(\d+)/(load_effects|change_effect|change_palette)$`)
	sceneUpdatePattern  = regexp.MustCompile(`^/scene/(\d+)/update$`)
)

// Handler receives the parsed result of a routed address. ReceiveHandler is
// the production implementation.
type Handler interface {
	HandleSegmentParam(sceneID, effectID, segmentIndex int, param string, payload command.Payload) error
	HandleEffectParam(sceneID, effectID int, param string, payload command.Payload) error
	HandleSceneCommand(sceneID int, name string, payload command.Payload) error
	HandleSceneUpdate(sceneID int) error
}

// Dispatcher matches a Command's address against a fixed, ordered set of
// patterns — most specific first — and forwards the first match to h.
// Patterns are compiled once, at package initialisation.
type Dispatcher struct{}

func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// Dispatch routes cmd to h, returning an error if the address matches no
// known pattern. The error is non-fatal by design: callers log it and
// continue rather than treat it as a crash.
func (d *Dispatcher) Dispatch(cmd command.Command, h Handler) error {
	addr := cmd.Address

	if m := segmentParamPattern.FindStringSubmatch(addr); m != nil {
		sceneID, effectID, segIdx, err := parseThree(m[1], m[2], m[3])
		if err != nil {
			return err
		}
		return h.HandleSegmentParam(sceneID, effectID, segIdx, m[4], cmd.Payload)
	}

	if m := effectParamPattern.FindStringSubmatch(addr); m != nil {
		sceneID, effectID, err := parseTwo(m[1], m[2])
		if err != nil {
			return err
		}
		return h.HandleEffectParam(sceneID, effectID, m[3], cmd.Payload)
	}

	if m := sceneCommandPattern.FindStringSubmatch(addr); m != nil {
		sceneID, err := strconv.Atoi(m[1])
		if err != nil {
			return eris.Wrapf(err, "dispatch: bad scene id in %q", addr)
		}
		return h.HandleSceneCommand(sceneID, m[2], cmd.Payload)
	}

	if m := sceneUpdatePattern.FindStringSubmatch(addr); m != nil {
		sceneID, err := strconv.Atoi(m[1])
		if err != nil {
			return eris.Wrapf(err, "dispatch: bad scene id in %q", addr)
		}
		return h.HandleSceneUpdate(sceneID)
	}

	return eris.Errorf("dispatch: unknown address %q", addr)
}

func parseTwo(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, eris.Wrap(err, "dispatch: bad address segment")
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, eris.Wrap(err, "dispatch: bad address segment")
	}
	return x, y, nil
}

func parseThree(a, b, c string) (int, int, int, error) {
	x, y, err := parseTwo(a, b)
	if err != nil {
		return 0, 0, 0, err
	}
	z, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, 0, eris.Wrap(err, "dispatch: bad address segment")
	}
	return x, y, z, nil
}
