package common

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	lvl, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, lvl)

	_, err = ParseLogLevel("chatty")
	assert.Error(t, err)
}

func TestStdLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerWith(LogLevelWarn, log.New(&buf, "", 0))

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
}
