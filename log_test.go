package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))

	_, err = NewLogger("chatty")
	assert.Error(t, err)
}

// TestSceneLogsSystemFaults checks fault entries carry scene and system fields.
func TestSceneLogsSystemFaults(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newTestScene(t, WithLogger(zap.New(core)))

	_, err := s.RegisterSystem(SystemSpec{
		Name:  "broken",
		Phase: PhaseDraw,
		Run:   func(*Context, *Cursor) error { panic("no sprite") },
	})
	require.NoError(t, err)
	require.NoError(t, s.RunPhase(PhaseDraw, 0))

	faults := logs.FilterMessage("system fault").All()
	require.Len(t, faults, 1)
	fields := faults[0].ContextMap()
	assert.Equal(t, s.ID(), fields["scene"])
	assert.Equal(t, "broken", fields["system"])
	assert.Equal(t, "draw", fields["phase"])
	assert.Equal(t, zapcore.ErrorLevel, faults[0].Level)
}

func TestSceneLogsReclamation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	recorder := newRecordingStatsd()
	s := newTestScene(t, WithLogger(zap.New(core)), WithMetrics(recorder))

	s.Spawn()
	s.Destroy(s.Spawn())
	require.NoError(t, s.Flush())

	entries := logs.FilterMessage("applied deferred operations").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["reclaimed"])
	assert.Equal(t, 1.0, recorder.gauges["entities"])
}

func TestSpawnObserverPanicIsIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	recorder := newRecordingStatsd()
	s := newTestScene(t, WithLogger(zap.New(core)), WithMetrics(recorder))

	var seen []EntityID
	s.OnSpawn(func(EntityID) { panic("observer blew up") })
	s.OnSpawn(func(e EntityID) { seen = append(seen, e) })

	a := s.Spawn()
	b := s.Spawn()
	doomed := s.Spawn()
	s.Destroy(doomed)

	require.NotPanics(t, func() { require.NoError(t, s.Flush()) })
	assert.Equal(t, []EntityID{a, b}, seen)
	_, ok := s.Status(doomed)
	assert.False(t, ok, "destroys are still reclaimed")

	faults := logs.FilterMessage("spawn observer fault").All()
	require.Len(t, faults, 2)
	assert.Equal(t, zapcore.ErrorLevel, faults[0].Level)
	assert.Equal(t, a.String(), faults[0].ContextMap()["entity"])
	assert.Equal(t, []string{"spawn_observer.fault", "spawn_observer.fault"}, recorder.counts)
}
