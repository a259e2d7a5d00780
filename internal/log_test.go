package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()
	fn()
	return buf.String()
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" debug "))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("chatty"))
}

func TestComponentPrefixAndLevel(t *testing.T) {
	logger := NewLogger(LogLevelInfo).Component("Analysis")

	out := captureLog(t, func() {
		logger.Info("rows=%d", 100)
		logger.Debug("hidden")
	})
	assert.Equal(t, "[INFO] [Analysis] rows=100\n", out)

	logger.SetLevel(LogLevelDebug)
	out = captureLog(t, func() { logger.Debug("shown") })
	assert.Equal(t, "[DEBUG] [Analysis] shown\n", out)
}
