package filters

// ProgramCache stores compiled expression programs keyed by their source
// strings. Implementations must be safe for concurrent use when the owning
// engine is shared across goroutines.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache on the Partitioner. The cache
// is handed to the expression engine the Partitioner resolves by default.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}
