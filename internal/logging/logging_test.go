package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct{ calls int }

func (h *failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *failingHandler) Handle(context.Context, slog.Record) error {
	h.calls++
	return errors.New("sink down")
}
func (h *failingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *failingHandler) WithGroup(string) slog.Handler      { return h }

func TestFanoutContinuesPastFailingHandler(t *testing.T) {
	var buf bytes.Buffer
	failing := &failingHandler{}
	stdout := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(NewFanout(failing, stdout))

	logger.Info("hello", "k", "v")

	assert.Equal(t, 1, failing.calls)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestFanoutJoinsErrors(t *testing.T) {
	f := NewFanout(&failingHandler{}, &failingHandler{})
	err := f.Handle(context.Background(), slog.Record{Level: slog.LevelError})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
}

func TestFanoutRespectsLevels(t *testing.T) {
	sink := newDBSink(nil)
	var buf bytes.Buffer
	logger := slog.New(NewFanout(slog.NewJSONHandler(&buf, nil), sink))

	logger.Info("routine")
	assert.Zero(t, sink.Buffered())
	assert.NotEmpty(t, buf.String())

	logger.Error("broken", "error", "boom")
	assert.Equal(t, 1, sink.Buffered())
}

func TestDBSinkCapturesRequestFields(t *testing.T) {
	sink := newDBSink(nil)
	logger := slog.New(sink).With("request_id", "req-1")

	logger.Error("request failed",
		"method", "POST",
		"path", "/api/stripe/webhook",
		"user_id", "u1",
		"error", "boom",
		"attempt", 2,
	)

	entries := sink.pendingEntries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "ERROR", e.Level)
	assert.Equal(t, "request failed", e.Message)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "POST", e.Method)
	assert.Equal(t, "/api/stripe/webhook", e.Path)
	require.NotNil(t, e.UserID)
	assert.Equal(t, "u1", *e.UserID)
	assert.Equal(t, "boom", e.Error)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(e.Extra, &extra))
	assert.EqualValues(t, 2, extra["attempt"])
}

func TestDBSinkIgnoresBelowError(t *testing.T) {
	sink := newDBSink(nil)
	logger := slog.New(sink)
	logger.Warn("slow")
	logger.Info("fine")
	assert.Zero(t, sink.Buffered())
}

func TestSetupWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	h := SetupWriter(&buf)
	require.NotNil(t, h)
	slog.Info("started", "port", "8000")
	assert.Contains(t, buf.String(), `"port":"8000"`)
}
