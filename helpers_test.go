package scene

import (
	"testing"
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/stretchr/testify/require"
)

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }
type Health struct{ HP int }
type Frozen struct{}
type Tag struct{ Label string }
type Undeclared struct{ V int }
type ptrDeclared struct{ V int }

func (Position) ComponentStorage() StorageKind     { return Dense }
func (Velocity) ComponentStorage() StorageKind     { return Dense }
func (Health) ComponentStorage() StorageKind       { return Dense }
func (Frozen) ComponentStorage() StorageKind       { return Sparse }
func (Tag) ComponentStorage() StorageKind          { return Sparse }
func (*ptrDeclared) ComponentStorage() StorageKind { return Sparse }

// newTestScene builds a scene with a private type registry so bit assignment does
// not leak between tests.
func newTestScene(t *testing.T, opts ...Option) *Scene {
	t.Helper()
	s, err := Factory.NewScene(append([]Option{WithTypes(NewTypeRegistry())}, opts...)...)
	require.NoError(t, err)
	return s
}

type sceneComponents struct {
	pos    Component[Position]
	vel    Component[Velocity]
	health Component[Health]
	frozen Component[Frozen]
	tag    Component[Tag]
}

func components(s *Scene) sceneComponents {
	return sceneComponents{
		pos:    MustComponent[Position](s),
		vel:    MustComponent[Velocity](s),
		health: MustComponent[Health](s),
		frozen: MustComponent[Frozen](s),
		tag:    MustComponent[Tag](s),
	}
}

// recordingStatsd keeps the names of emitted metrics.
type recordingStatsd struct {
	ddstatsd.NoOpClient
	timings []string
	counts  []string
	gauges  map[string]float64
}

func newRecordingStatsd() *recordingStatsd {
	return &recordingStatsd{gauges: make(map[string]float64)}
}

func (r *recordingStatsd) Timing(name string, _ time.Duration, _ []string, _ float64) error {
	r.timings = append(r.timings, name)
	return nil
}

func (r *recordingStatsd) Incr(name string, _ []string, _ float64) error {
	r.counts = append(r.counts, name)
	return nil
}

func (r *recordingStatsd) Gauge(name string, value float64, _ []string, _ float64) error {
	r.gauges[name] = value
	return nil
}
