package formstate

const (
	// DefaultSeparator joins flat-key path segments.
	DefaultSeparator = "."
	// DefaultLotPrefix distinguishes lot-boundary keys from ordinary array
	// indices deeper in a path (lot_0.items.0.name).
	DefaultLotPrefix = "lot"
	// DefaultLotName is the name of the lot auto-created on first use.
	DefaultLotName = "General"
)

type codecConfig struct {
	separator string
	lotPrefix string
	strict    bool
}

func defaultCodecConfig() codecConfig {
	return codecConfig{
		separator: DefaultSeparator,
		lotPrefix: DefaultLotPrefix,
	}
}

// CodecOption configures the key, array, and lot codecs.
type CodecOption func(*codecConfig)

// WithSeparator overrides the path segment separator.
func WithSeparator(sep string) CodecOption {
	return func(cfg *codecConfig) {
		if sep != "" {
			cfg.separator = sep
		}
	}
}

// WithLotPrefix overrides the lot boundary prefix token.
func WithLotPrefix(prefix string) CodecOption {
	return func(cfg *codecConfig) {
		if prefix != "" {
			cfg.lotPrefix = prefix
		}
	}
}

// WithStrictArrays toggles strict index handling: when enabled, sparse array
// or lot index sets are rejected with ErrStructuralConflict instead of being
// filled with empty objects. The permissive default mirrors the source
// behaviour; strict mode exists so hosts can refuse to mask upstream data
// loss.
func WithStrictArrays(strict bool) CodecOption {
	return func(cfg *codecConfig) {
		cfg.strict = strict
	}
}

func applyCodecOptions(opts []CodecOption) codecConfig {
	cfg := defaultCodecConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
