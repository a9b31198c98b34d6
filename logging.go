package filters

import "time"

// PartitionLogEvent describes one partition attempt for logging.
type PartitionLogEvent struct {
	TraceID  string
	Engine   string
	Filters  int
	Entries  int
	Groups   int
	Duration time.Duration
	Err      error
}

// PartitionLogger records partition events.
type PartitionLogger interface {
	LogPartition(PartitionLogEvent)
}

// PartitionLoggerFunc adapts a function to PartitionLogger.
type PartitionLoggerFunc func(PartitionLogEvent)

// LogPartition implements PartitionLogger.
func (f PartitionLoggerFunc) LogPartition(event PartitionLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopPartitionLogger struct{}

func (noopPartitionLogger) LogPartition(PartitionLogEvent) {}

// WithLogger attaches a partition logger to the Partitioner.
func WithLogger(logger PartitionLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopPartitionLogger{}
			return
		}
		cfg.logger = logger
	}
}
