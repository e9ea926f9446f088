package event

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmit_NilSink(t *testing.T) {
	require.NoError(t, Emit(nil, "x", nil))
	require.NoError(t, Emit(Discard, "x", 1))
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, Emit(&r, "a", 1))
	require.NoError(t, Emit(&r, "b", 2))
	require.NoError(t, Emit(&r, "a", 3))

	require.Equal(t, []string{"a", "b", "a"}, r.Names())
	require.Equal(t, []Event{{"a", 1}, {"a", 3}}, r.Filter("a"))
	require.Len(t, r.Events(), 3)

	r.Reset()
	require.Empty(t, r.Events())
}

func TestEmit_RecoversPanic(t *testing.T) {
	boom := errors.New("boom")
	err := Emit(SinkFunc(func(Event) { panic(boom) }), "build.node", nil)
	require.ErrorIs(t, err, ErrSinkPanic)
	require.ErrorIs(t, err, boom)

	err = Emit(SinkFunc(func(Event) { panic("text") }), "build.node", nil)
	require.ErrorIs(t, err, ErrSinkPanic)
	require.Contains(t, err.Error(), "text")
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	s := Multi(&a, nil, &b)
	s.Emit(Event{Name: "x"})
	require.Equal(t, []string{"x"}, a.Names())
	require.Equal(t, []string{"x"}, b.Names())
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Log(logger, slog.LevelDebug).Emit(Event{Name: "parse.header", Payload: 7})
	require.Contains(t, buf.String(), "msg=parse.header")
	require.Contains(t, buf.String(), "payload=7")

	buf.Reset()
	Log(logger, slog.LevelDebug-4).Emit(Event{Name: "hidden"})
	require.Empty(t, buf.String())

	require.Equal(t, Discard, Log(nil, slog.LevelInfo))
}
