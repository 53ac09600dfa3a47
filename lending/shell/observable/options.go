package observable

import (
	"errors"

	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

var (
	// ErrNilCoreHandler is returned when a wrapper is created without a handler to wrap.
	ErrNilCoreHandler = errors.New("core handler must not be nil")

	// ErrNilMetricsCollector is returned when WithMetrics gets a nil collector.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrNilTracingCollector is returned when WithTracing gets a nil collector.
	ErrNilTracingCollector = errors.New("tracing collector must not be nil")

	// ErrNilLogger is returned when WithLogging or WithContextualLogging gets a nil logger.
	ErrNilLogger = errors.New("logger must not be nil")
)

// instruments holds the observability backends shared by command and query wrappers.
type instruments struct {
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option configures a CommandWrapper or a QueryWrapper.
type Option func(*instruments) error

// WithMetrics sets the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(i *instruments) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		i.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector shell.TracingCollector) Option {
	return func(i *instruments) error {
		if collector == nil {
			return ErrNilTracingCollector
		}

		i.tracingCollector = collector

		return nil
	}
}

// WithContextualLogging sets the context-aware logger. It takes precedence over WithLogging.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(i *instruments) error {
		if logger == nil {
			return ErrNilLogger
		}

		i.contextualLogger = logger

		return nil
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(i *instruments) error {
		if logger == nil {
			return ErrNilLogger
		}

		i.logger = logger

		return nil
	}
}

func buildInstruments(opts []Option) (instruments, error) {
	var i instruments

	for _, opt := range opts {
		if err := opt(&i); err != nil {
			return instruments{}, err
		}
	}

	return i, nil
}
