package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestPrintfLogger_Levels(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)
	p := Printf(l)

	p.Debugf("GET %s", "/acme/articles")
	p.Infof("attempt %d", 2)
	p.Errorf("status %d", 503)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "GET /acme/articles", entries[0].Message)
	assert.Equal(t, "attempt 2", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestPrintf_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { Printf(nil).Infof("x %d", 1) })
}

//Personal.AI order the ending
