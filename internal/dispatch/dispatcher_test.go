package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledsync/lighting-engine/internal/command"
)

type recordingHandler struct {
	segmentCalls []string
	effectCalls  []string
	sceneCalls   []string
	updateCalls  []int
}

func (h *recordingHandler) HandleSegmentParam(sceneID, effectID, segmentIndex int, param string, payload command.Payload) error {
	h.segmentCalls = append(h.segmentCalls, param)
	return nil
}

func (h *recordingHandler) HandleEffectParam(sceneID, effectID int, param string, payload command.Payload) error {
	h.effectCalls = append(h.effectCalls, param)
	return nil
}

func (h *recordingHandler) HandleSceneCommand(sceneID int, name string, payload command.Payload) error {
	h.sceneCalls = append(h.sceneCalls, name)
	return nil
}

func (h *recordingHandler) HandleSceneUpdate(sceneID int) error {
	h.updateCalls = append(h.updateCalls, sceneID)
	return nil
}

func TestDispatchRoutesSegmentParam(t *testing.T) {
	d := NewDispatcher()
	h := &recordingHandler{}

	err := d.Dispatch(command.New("/scene/1/effect/2/segment/3/color", command.VecInt([]int{0, 1, 2, 3})), h)

	assert.NoError(t, err)
	assert.Equal(t, []string{"color"}, h.segmentCalls)
}

func TestDispatchRoutesEffectParamNotSegmentParam(t *testing.T) {
	d := NewDispatcher()
	h := &recordingHandler{}

	err := d.Dispatch(command.New("/scene/1/effect/2/current_palette", command.String("B")), h)

	assert.NoError(t, err)
	assert.Equal(t, []string{"current_palette"}, h.effectCalls)
	assert.Empty(t, h.segmentCalls)
}

func TestDispatchRoutesSceneCommand(t *testing.T) {
	d := NewDispatcher()
	h := &recordingHandler{}

	err := d.Dispatch(command.New("/scene/1/change_effect", command.Int(3)), h)

	assert.NoError(t, err)
	assert.Equal(t, []string{"change_effect"}, h.sceneCalls)
}

func TestDispatchRoutesSceneUpdate(t *testing.T) {
	d := NewDispatcher()
	h := &recordingHandler{}

	err := d.Dispatch(command.New("/scene/4/update", command.Bool(true)), h)

	assert.NoError(t, err)
	assert.Equal(t, []int{4}, h.updateCalls)
}

func TestDispatchUnknownAddressReturnsError(t *testing.T) {
	d := NewDispatcher()
	h := &recordingHandler{}

	err := d.Dispatch(command.New("/not/a/known/address", command.Bool(true)), h)

	assert.Error(t, err)
}
