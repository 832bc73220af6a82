// Package hydrate converts lot payloads into strongly typed structs so
// controllers can hand renderers domain types instead of raw value maps.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	formstate "github.com/goliatone/go-formstate"
)

// Context carries identifiers tied to a lot payload.
type Context struct {
	SessionID string
	Lot       int
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated struct after decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts lot payloads into strongly typed structs. Decoding always
// runs with UseNumber so numeric field values survive the trip through JSON
// without losing integer precision.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	strict    bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithStrictFields rejects payload keys the target struct does not declare.
func WithStrictFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// DecodeValues converts a lot's value map, as returned by LotData, into the
// target struct T.
func (d *Decoder[T]) DecodeValues(ctx Context, values map[string]formstate.Value) (T, error) {
	var zero T
	if values == nil {
		return zero, fmt.Errorf("hydrate: lot %d has no data", ctx.Lot)
	}
	payload := make(map[string]any, len(values))
	for name, value := range values {
		payload[name] = value.Interface()
	}
	return d.Decode(ctx, payload)
}

// Decode converts payload into the target struct T applying configured hooks.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T

	if payload == nil {
		return zero, fmt.Errorf("hydrate: payload is nil for lot %d", ctx.Lot)
	}

	current := payload
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for lot %d failed: %w", ctx.Lot, err)
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("hydrate: marshal payload for lot %d: %w", ctx.Lot, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	decoder.UseNumber()
	if d.strict {
		decoder.DisallowUnknownFields()
	}
	var result T
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode lot %d: %w", ctx.Lot, err)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for lot %d failed: %w", ctx.Lot, err)
		}
	}

	return result, nil
}
