package scene

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"go.uber.org/zap"
)

// metrics wraps the statsd client so emission failures only ever reach the log.
type metrics struct {
	client ddstatsd.ClientInterface
	logger *zap.Logger
}

func newMetricsClient(address, namespace string) (ddstatsd.ClientInterface, error) {
	if namespace == "" {
		namespace = "scene."
	}
	return ddstatsd.New(address, ddstatsd.WithNamespace(namespace))
}

func (m metrics) timing(name string, start time.Time, tags ...string) {
	if err := m.client.Timing(name, time.Since(start), tags, 1); err != nil {
		m.logger.Warn("failed to emit timing", zap.String("metric", name), zap.Error(err))
	}
}

func (m metrics) incr(name string, tags ...string) {
	if err := m.client.Incr(name, tags, 1); err != nil {
		m.logger.Warn("failed to emit counter", zap.String("metric", name), zap.Error(err))
	}
}

func (m metrics) gauge(name string, value float64, tags ...string) {
	if err := m.client.Gauge(name, value, tags, 1); err != nil {
		m.logger.Warn("failed to emit gauge", zap.String("metric", name), zap.Error(err))
	}
}
