package formstate

type contextConfig struct {
	codec          codecConfig
	defaultLotName string
	logger         ChangeLogger
}

func defaultContextConfig() contextConfig {
	return contextConfig{
		codec:          defaultCodecConfig(),
		defaultLotName: DefaultLotName,
		logger:         noopChangeLogger{},
	}
}

// ContextOption configures a Form Context.
type ContextOption func(*contextConfig)

// WithDefaultLotName overrides the name given to the lot auto-created on
// first use.
func WithDefaultLotName(name string) ContextOption {
	return func(cfg *contextConfig) {
		if name != "" {
			cfg.defaultLotName = name
		}
	}
}

// WithChangeLogger attaches a logger invoked on every successful mutation.
func WithChangeLogger(logger ChangeLogger) ContextOption {
	return func(cfg *contextConfig) {
		if logger == nil {
			cfg.logger = noopChangeLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithContextCodec applies codec options (separator, lot prefix, strict
// arrays) to the Context's key handling.
func WithContextCodec(opts ...CodecOption) ContextOption {
	return func(cfg *contextConfig) {
		for _, opt := range opts {
			if opt != nil {
				opt(&cfg.codec)
			}
		}
	}
}

func applyContextOptions(opts []ContextOption) contextConfig {
	cfg := defaultContextConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
