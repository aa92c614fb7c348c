package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimmerTimeAdaptorBuckets(t *testing.T) {
	cases := []struct {
		bpm int
		pct int
	}{
		{0, 100},
		{40, 500},
		{70, 300},
		{90, 200},
		{110, 100},
		{130, 60},
		{160, 30},
	}

	a := NewDimmerTimeAdaptor()
	for _, tc := range cases {
		a.Update(float64(tc.bpm))
		assert.Equal(t, tc.pct, a.Percentage())
	}
}
