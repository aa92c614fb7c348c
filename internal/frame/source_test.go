package frame

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONLineSourceDecodesEachLine(t *testing.T) {
	src := NewJSONLineSource(strings.NewReader(
		`{"allpass_db":-1,"genre_id":2,"beat":true,"tempo":128}` + "\n" +
			`{"allpass_db":-2,"genre_id":3,"beat":false,"tempo":90}` + "\n",
	))

	f1, err := src.Next()
	assert.NoError(t, err)
	assert.Equal(t, -1.0, f1.AllpassDB)
	assert.Equal(t, 2, f1.GenreID)
	assert.True(t, f1.Beat)

	f2, err := src.Next()
	assert.NoError(t, err)
	assert.Equal(t, 3, f2.GenreID)
	assert.Equal(t, 90.0, f2.Tempo)
}

func TestJSONLineSourceSkipsBlankLines(t *testing.T) {
	src := NewJSONLineSource(strings.NewReader(
		"\n" + `{"genre_id":1}` + "\n\n",
	))

	f, err := src.Next()
	assert.NoError(t, err)
	assert.Equal(t, 1, f.GenreID)
}

func TestJSONLineSourceReturnsExhaustedAtEOF(t *testing.T) {
	src := NewJSONLineSource(strings.NewReader(`{"genre_id":1}` + "\n"))

	_, err := src.Next()
	assert.NoError(t, err)

	_, err = src.Next()
	assert.ErrorIs(t, err, ErrSourceExhausted)
}

func TestJSONLineSourceMalformedLineErrors(t *testing.T) {
	src := NewJSONLineSource(strings.NewReader("not-json\n"))

	_, err := src.Next()
	assert.Error(t, err)
}

func TestDemoSourceIsDeterministicAcrossInstances(t *testing.T) {
	a := NewDemoSource()
	b := NewDemoSource()

	for i := 0; i < 50; i++ {
		fa, err := a.Next()
		assert.NoError(t, err)
		fb, err := b.Next()
		assert.NoError(t, err)
		assert.Equal(t, fa, fb)
	}
}

func TestDemoSourceBeatPulsesEveryTwentyFiveFrames(t *testing.T) {
	s := NewDemoSource()

	var beats int
	for i := 0; i < 25; i++ {
		f, err := s.Next()
		assert.NoError(t, err)
		if f.Beat {
			beats++
		}
	}
	assert.Equal(t, 1, beats)
}

func TestDemoSourceNeverErrors(t *testing.T) {
	s := NewDemoSource()
	for i := 0; i < 10; i++ {
		_, err := s.Next()
		assert.NoError(t, err)
	}
}
