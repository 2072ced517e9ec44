package profiler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type captureLogger struct{ lines []string }

func (c *captureLogger) Debugf(string, ...any) {}
func (c *captureLogger) Infof(f string, a ...any) {
	c.lines = append(c.lines, fmt.Sprintf(f, a...))
}
func (c *captureLogger) Warnf(string, ...any)  {}
func (c *captureLogger) Errorf(string, ...any) {}

func TestRecordPassLogsAtInterval(t *testing.T) {
	now := time.Unix(0, 0)
	logs := &captureLogger{}
	p := NewProfiler(WithLogger(logs), WithClock(func() time.Time { return now }))

	assert.False(t, p.RecordPass(true, 2, time.Millisecond))
	now = now.Add(500 * time.Millisecond)
	assert.False(t, p.RecordPass(false, 0, time.Millisecond))
	now = now.Add(600 * time.Millisecond)
	assert.True(t, p.RecordPass(false, 1, time.Millisecond))

	if assert.Len(t, logs.lines, 1) {
		assert.Contains(t, logs.lines[0], "passes: 3")
		assert.Contains(t, logs.lines[0], "reloads: 1")
		assert.Contains(t, logs.lines[0], "style calls: 3")
	}

	assert.Equal(t, Stats{Passes: 3, Reloads: 1, StyleCalls: 3, PassTime: 3 * time.Millisecond}, p.Totals())
}

func TestRecordPassWindowResets(t *testing.T) {
	now := time.Unix(0, 0)
	logs := &captureLogger{}
	p := NewProfiler(WithLogger(logs), WithInterval(time.Second), WithClock(func() time.Time { return now }))

	now = now.Add(time.Second)
	p.RecordPass(true, 5, 0)
	now = now.Add(time.Second)
	p.RecordPass(false, 0, 0)

	if assert.Len(t, logs.lines, 2) {
		assert.Contains(t, logs.lines[1], "passes: 1")
		assert.Contains(t, logs.lines[1], "reloads: 0")
	}
}
