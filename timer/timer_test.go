package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct{ lines []string }

func (r *recordingLogger) Infof(format string, args ...any) {
	r.lines = append(r.lines, format)
}

func TestTimer_ElapsedIsZeroBeforeStop(t *testing.T) {
	var tm Timer
	assert.Equal(t, time.Duration(0), tm.Elapsed())
}

func TestTimer_ElapsedIsPositiveAfterStop(t *testing.T) {
	var tm Timer
	tm.Start()
	time.Sleep(time.Millisecond)
	tm.Stop()
	assert.Greater(t, tm.Elapsed(), time.Duration(0))
}

func TestProfiler_FlushEmitsOnePerPhaseInFirstSeenOrder(t *testing.T) {
	p := NewProfiler()
	p.Begin("b")
	p.End("b")
	p.Begin("a")
	p.End("a")

	assert.Equal(t, []string{"b", "a"}, p.Phases())

	log := &recordingLogger{}
	p.Flush(log)
	assert.Len(t, log.lines, 2)
}

func TestProfiler_EndWithoutBeginIsNoop(t *testing.T) {
	p := NewProfiler()
	p.End("never-begun")
	assert.Equal(t, time.Duration(0), p.Duration("never-begun"))
}
