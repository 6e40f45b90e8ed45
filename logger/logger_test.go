package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.InfoLevel)

	l.PageFetched("https://example.com", 200, 10, time.Second)
	assert.Empty(t, buf.String())

	l.PageFailed("https://example.com", "fetch", errors.New("boom"))
	out := buf.String()
	assert.Contains(t, out, "page failed")
	assert.Contains(t, out, "stage=fetch")
	assert.Contains(t, out, "boom")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().PageConverted("u", "p", time.Millisecond)
	})
}
