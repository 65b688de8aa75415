package logger

// ChildLogger derives a logger that stamps ctx onto every record it emits.
// With a nil config the child hangs off the process-wide default logger
// and shares its sinks; otherwise a fresh logger is built from config
// first and the child owns it.
func ChildLogger(ctx Fields, config *Config) (*Entry, error) {
	if config == nil {
		return Default().WithFields(ctx), nil
	}
	base, err := New(*config)
	if err != nil {
		return nil, err
	}
	return base.WithFields(ctx), nil
}
