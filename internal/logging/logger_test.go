package logging

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
)

func TestNew_FallsBackToDefault(t *testing.T) {
	l := New(logr.Logger{})
	assert.NotNil(t, l.Logr().GetSink())
}

func TestLevelLogger_DebugGating(t *testing.T) {
	assert.False(t, LevelLogger("info").V(1).Enabled())
	assert.True(t, LevelLogger("debug").V(1).Enabled())
	assert.False(t, LevelLogger("bogus").V(1).Enabled())
}

func TestStdLogger_ForwardsLines(t *testing.T) {
	var lines []string
	base := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{})

	New(base).WithName("stdio").StdLogger().Println("transport closed")

	if assert.Len(t, lines, 1) {
		assert.Contains(t, lines[0], "transport closed")
	}
}
