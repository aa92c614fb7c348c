package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessorsRoundTrip(t *testing.T) {
	d, err := Double(1.5).AsDouble()
	assert.NoError(t, err)
	assert.Equal(t, 1.5, d)

	b, err := Bool(true).AsBool()
	assert.NoError(t, err)
	assert.True(t, b)

	s, err := String("on").AsString()
	assert.NoError(t, err)
	assert.Equal(t, "on", s)

	i, err := Int(7).AsInt()
	assert.NoError(t, err)
	assert.Equal(t, 7, i)

	vi, err := VecInt([]int{1, 2, 3}).AsVecInt()
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, vi)

	vd, err := VecDouble([]float64{0.1, 0.2}).AsVecDouble()
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, vd)

	bs, err := Bytes([]byte{1, 2}).AsBytes()
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, bs)
}

func TestAccessorMismatchReturnsError(t *testing.T) {
	p := Int(5)

	_, err := p.AsDouble()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "want double")

	_, err = p.AsString()
	assert.Error(t, err)
}

func TestKindReportsTag(t *testing.T) {
	assert.Equal(t, KindVecInt, VecInt(nil).Kind())
	assert.Equal(t, "[]int", VecInt(nil).Kind().String())
}

func TestCommandString(t *testing.T) {
	cmd := New("/scene/1/change_effect", Int(3))
	assert.Equal(t, "/scene/1/change_effect<int>", cmd.String())
}
