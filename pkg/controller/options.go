package controller

import (
	"github.com/rs/zerolog"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/activity"
	"github.com/goliatone/go-formstate/pkg/persist"
)

type controllerConfig struct {
	evaluator  formstate.Evaluator
	ruleLogger formstate.RuleLogger
	boundary   *persist.Boundary
	emitter    *activity.Emitter
	logger     zerolog.Logger
	sessionID  string
}

// Option configures a Controller.
type Option func(*controllerConfig)

// WithEvaluator overrides the visibility rule engine. The default is the
// expr evaluator.
func WithEvaluator(evaluator formstate.Evaluator) Option {
	return func(cfg *controllerConfig) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// WithRuleLogger wires rule evaluation logging.
func WithRuleLogger(logger formstate.RuleLogger) Option {
	return func(cfg *controllerConfig) {
		if logger != nil {
			cfg.ruleLogger = logger
		}
	}
}

// WithBoundary wires the persistence boundary used by Load and Save.
func WithBoundary(boundary *persist.Boundary) Option {
	return func(cfg *controllerConfig) {
		cfg.boundary = boundary
	}
}

// WithEmitter wires activity event emission for form edits.
func WithEmitter(emitter *activity.Emitter) Option {
	return func(cfg *controllerConfig) {
		cfg.emitter = emitter
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *controllerConfig) {
		cfg.logger = logger
	}
}

// WithSessionID tags log entries and activity events with a session id.
func WithSessionID(id string) Option {
	return func(cfg *controllerConfig) {
		cfg.sessionID = id
	}
}

func applyOptions(opts []Option) controllerConfig {
	cfg := controllerConfig{
		evaluator: formstate.NewExprEvaluator(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
