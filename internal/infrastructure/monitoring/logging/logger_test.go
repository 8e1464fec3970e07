package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLogger_FieldsReachCore(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.Info("normalised",
		Expression("next friday"),
		String("value", "2012-06-15"),
		Int("rule_index", 3),
		Bool("anaphoric", false),
		Duration("elapsed", 2*time.Millisecond),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "normalised", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "next friday", ctx["expression"])
	assert.Equal(t, "2012-06-15", ctx["value"])
	assert.EqualValues(t, 3, ctx["rule_index"])
	assert.Equal(t, false, ctx["anaphoric"])
	assert.Equal(t, 2*time.Millisecond, ctx["elapsed"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, logs := observed(zapcore.WarnLevel)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 0, logs.FilterMessage("dropped").Len())
}

func TestLogger_WithAndNamed(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	child := log.Named("annotation").With(DocumentID("doc-7"), RunID("run-1"))
	child.Info("document annotated")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "annotation", entry.LoggerName)
	assert.Equal(t, "doc-7", entry.ContextMap()["document_id"])
	assert.Equal(t, "run-1", entry.ContextMap()["run_id"])
}

func TestErr(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	log.Error("rejected", Err(errors.New("bad reference")))
	log.Error("nil error", Err(nil))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "bad reference", logs.All()[0].ContextMap()["error"])
	assert.Equal(t, "<nil>", logs.All()[1].ContextMap()["error"])
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")
	log, err := NewLogger(LogConfig{Level: LevelWarn, OutputPaths: []string{out}})
	require.NoError(t, err)
	child := log.Named("worker").With(String("k", "v"))

	child.Debug("hidden")
	require.True(t, SetLevel(log, LevelDebug))
	child.Debug("visible")

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden")
	assert.Contains(t, string(raw), "visible")

	core, _ := observed(zapcore.InfoLevel)
	assert.False(t, SetLevel(core, LevelDebug))
	assert.False(t, SetLevel(NewNopLogger(), LevelDebug))
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	assert.NotPanics(t, func() {
		log.Info("ignored", String("k", "v"))
		log.Named("x").With(Int("n", 1)).Warn("ignored")
	})
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	log, logs := observed(zapcore.InfoLevel)
	SetDefault(log)
	SetDefault(nil)
	Default().Info("via default")

	assert.Equal(t, 1, logs.Len())
}

//Personal.AI order the ending
