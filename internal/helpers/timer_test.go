package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilTimerIsSafe(t *testing.T) {
	var timer *Timer
	timer.Begin("phase")
	timer.End("phase")
	timer.Join(timer.Fork())
	assert.Nil(t, timer.Lines())
}

func TestTimerLines(t *testing.T) {
	timer := &Timer{}
	timer.Begin("outer")
	timer.Begin("inner")
	timer.End("inner")
	timer.End("outer")

	lines := timer.Lines()
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "outer:"))
	assert.True(t, strings.HasPrefix(lines[1], "  inner:"))
}

func TestTimerMismatchedEndPanics(t *testing.T) {
	timer := &Timer{}
	timer.Begin("a")
	assert.Panics(t, func() {
		timer.End("b")
		timer.Lines()
	})
}
