package scene

import (
	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"go.uber.org/zap"
)

type options struct {
	config   Config
	types    *TypeRegistry
	logger   *zap.Logger
	metrics  ddstatsd.ClientInterface
	services []namedService
}

type namedService struct {
	name    string
	service any
}

// Option configures a Scene at construction.
type Option func(*options)

// WithConfig applies cfg on top of the defaults and of earlier WithConfig options.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = o.config.Merge(cfg)
	}
}

// WithTypes makes the scene use r instead of DefaultTypes.
func WithTypes(r *TypeRegistry) Option {
	return func(o *options) {
		o.types = r
	}
}

// WithLogger sets the scene logger. It takes precedence over Config.LogLevel.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the statsd client. It takes precedence over Config.MetricsAddress.
func WithMetrics(client ddstatsd.ClientInterface) Option {
	return func(o *options) {
		o.metrics = client
	}
}

// WithService registers an external service systems can ask for by name.
func WithService(name string, service any) Option {
	return func(o *options) {
		o.services = append(o.services, namedService{name: name, service: service})
	}
}
