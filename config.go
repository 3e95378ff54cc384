package reflection

// Default configuration values
const (
	DefaultMaxPathLength = 1024
	DefaultMaxPathDepth  = 64
)

// Config controls engine-level limits and defaults for a Resolver
type Config struct {
	// MaxPathLength is the maximum accepted path length in bytes.
	MaxPathLength int

	// MaxPathDepth is the maximum number of resolution steps in one path.
	MaxPathDepth int

	// CaseInsensitive sets the default member-name folding mode. Individual
	// calls can override it through Options.
	CaseInsensitive bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxPathLength:   DefaultMaxPathLength,
		MaxPathDepth:    DefaultMaxPathDepth,
		CaseInsensitive: false,
	}
}

// ValidateConfig validates configuration values and applies corrections
func ValidateConfig(config *Config) error {
	if config == nil {
		return newOperationError("validate_config", "config cannot be nil", ErrOperationFailed)
	}

	if config.MaxPathLength < 0 {
		return newOperationError("validate_config", "MaxPathLength cannot be negative", ErrOperationFailed)
	}
	if config.MaxPathDepth < 0 {
		return newOperationError("validate_config", "MaxPathDepth cannot be negative", ErrOperationFailed)
	}

	// Apply defaults for zero values
	if config.MaxPathLength == 0 {
		config.MaxPathLength = DefaultMaxPathLength
	}
	if config.MaxPathDepth == 0 {
		config.MaxPathDepth = DefaultMaxPathDepth
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}

	clone := *c
	return &clone
}

// Options adjusts a single operation without touching the Resolver configuration
type Options struct {
	// CaseInsensitive overrides the member-name folding mode for one call.
	// Nil keeps the Resolver default.
	CaseInsensitive *bool

	// MaxDepth overrides the resolution depth limit for one call.
	// Zero keeps the Resolver default.
	MaxDepth int
}

// DefaultOptions returns options that keep all Resolver defaults
func DefaultOptions() *Options {
	return &Options{}
}

// IgnoreCase returns options that enable case-insensitive member lookup
func IgnoreCase() *Options {
	fold := true
	return &Options{CaseInsensitive: &fold}
}

// MatchCase returns options that force exact-case member lookup
func MatchCase() *Options {
	fold := false
	return &Options{CaseInsensitive: &fold}
}

// Clone creates a copy of the options
func (o *Options) Clone() *Options {
	if o == nil {
		return DefaultOptions()
	}

	clone := *o
	if o.CaseInsensitive != nil {
		fold := *o.CaseInsensitive
		clone.CaseInsensitive = &fold
	}
	return &clone
}
