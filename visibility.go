package formstate

import (
	"fmt"
	"time"
)

// RuleContext carries the inputs a conditional-visibility rule is evaluated
// against: the current lot's field values plus call-site metadata. The core
// never interprets visibility rules itself; evaluation happens in whichever
// boundary layer renders the schema.
type RuleContext struct {
	Fields   map[string]any
	Lot      Lot
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Fields == nil {
		ctx.Fields = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) lotLabel() string {
	if ctx.Lot.Name != "" {
		return ctx.Lot.Name
	}
	return fmt.Sprintf("lot %d", ctx.Lot.Index)
}

func (ctx RuleContext) lotBinding() map[string]any {
	return map[string]any{
		"name":  ctx.Lot.Name,
		"index": ctx.Lot.Index,
	}
}

// RuleContextForLot assembles a RuleContext from one lot's nested data.
func RuleContextForLot(lot Lot, data map[string]Value) RuleContext {
	fields := make(map[string]any, len(data))
	for name, value := range data {
		fields[name] = value.Interface()
	}
	return RuleContext{Fields: fields, Lot: lot}
}

// Evaluator executes visibility rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable rule program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// EvaluateRule runs expr through evaluator with timing, logging, and error
// wrapping applied, and reduces the result to the show/hide decision: any
// result other than false, nil, zero, or the empty string counts as visible.
func EvaluateRule(evaluator Evaluator, logger RuleLogger, ctx RuleContext, expr string) (bool, error) {
	if evaluator == nil {
		return false, fmt.Errorf("formstate: evaluator is required")
	}
	if logger == nil {
		logger = noopRuleLogger{}
	}
	ctx = ctx.withDefaults()
	start := time.Now()
	result, err := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	err = wrapEvaluationError("", expr, ctx.lotLabel(), err)
	logger.LogRule(RuleLogEvent{
		Engine:   engineName(evaluator),
		Expr:     expr,
		Lot:      ctx.lotLabel(),
		Duration: duration,
		Err:      err,
	})
	if err != nil {
		return false, err
	}
	return Truthy(result), nil
}

// Truthy reduces an evaluator result to a boolean the way visibility rules
// expect: false, nil, numeric zero, and the empty string hide a field,
// everything else shows it.
func Truthy(result any) bool {
	switch typed := result.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case float64:
		return typed != 0
	case float32:
		return typed != 0
	case int:
		return typed != 0
	case int32:
		return typed != 0
	case int64:
		return typed != 0
	case uint64:
		return typed != 0
	default:
		return true
	}
}

func engineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*formstate.exprEvaluator":
		return "expr"
	case "*formstate.celEvaluator":
		return "cel"
	case "*formstate.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
