package engine

// EngineBuilderOption is a functional option for configuring an Engine.
// Options are applied after the configuration file, so they take precedence over it.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables per-second frame statistics at debug level.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}
