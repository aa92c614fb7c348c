package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendAndGet(t *testing.T) {
	h := New(3)
	h.Append("x", FloatValue(1))
	h.Append("x", FloatValue(2))

	got := h.Get("x")
	assert.Equal(t, []Value{FloatValue(1), FloatValue(2)}, got)
}

func TestAppendEvictsOldestPastCapacity(t *testing.T) {
	h := New(2)
	h.Append("x", FloatValue(1))
	h.Append("x", FloatValue(2))
	h.Append("x", FloatValue(3))

	assert.Equal(t, []Value{FloatValue(2), FloatValue(3)}, h.Get("x"))
}

func TestGetUnknownKeyIsNil(t *testing.T) {
	h := New(4)
	assert.Nil(t, h.Get("missing"))
}

func TestGetReturnsACopy(t *testing.T) {
	h := New(4)
	h.Append("x", FloatValue(1))

	got := h.Get("x")
	got[0] = FloatValue(99)

	assert.Equal(t, []Value{FloatValue(1)}, h.Get("x"))
}

func TestSizeAndFull(t *testing.T) {
	h := New(2)
	assert.Equal(t, 0, h.Size())
	assert.False(t, h.Full())

	h.Append("x", FloatValue(1))
	assert.Equal(t, 1, h.Size())
	assert.False(t, h.Full())

	h.Append("x", FloatValue(2))
	assert.Equal(t, 2, h.Size())
	assert.True(t, h.Full())
}

func TestKeysInFirstSeenOrder(t *testing.T) {
	h := New(4)
	h.Append("b", FloatValue(1))
	h.Append("a", FloatValue(2))
	h.Append("b", FloatValue(3))

	assert.Equal(t, []string{"b", "a"}, h.Keys())
}

func TestNewClampsNonPositiveMaxlen(t *testing.T) {
	h := New(0)
	h.Append("x", FloatValue(1))
	h.Append("x", FloatValue(2))

	assert.Equal(t, []Value{FloatValue(2)}, h.Get("x"))
}

func TestBoolAndStringValues(t *testing.T) {
	h := New(2)
	h.Append("flag", BoolValue(true))
	h.Append("name", StringValue("hook"))

	assert.Equal(t, []Value{BoolValue(true)}, h.Get("flag"))
	assert.Equal(t, []Value{StringValue("hook")}, h.Get("name"))
}
