// Package controller orchestrates the pieces the core engine deliberately
// keeps apart: it walks a form schema, resolves field visibility through a
// rule evaluator, routes reads and writes through the lot-scoped key API,
// and moves session state across the persistence boundary. Hosts talk to a
// Controller; only the controller talks to the engine.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/internal/hydrate"
	"github.com/goliatone/go-formstate/pkg/activity"
	"github.com/goliatone/go-formstate/pkg/persist"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// ErrUnknownField reports a write to a field path the schema does not
// declare.
var ErrUnknownField = errors.New("controller: unknown field")

// Controller binds one form schema to one form context.
type Controller struct {
	schema schema.Schema
	form   *formstate.Context
	kinds  map[string]formstate.TemporalKind
	cfg    controllerConfig
	logger zerolog.Logger
}

// New validates the schema and constructs a Controller around form.
func New(s schema.Schema, form *formstate.Context, opts ...Option) (*Controller, error) {
	if form == nil {
		return nil, fmt.Errorf("controller: form context is required")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)
	logger := cfg.logger.With().Str("form", s.Name).Logger()
	if cfg.sessionID != "" {
		logger = logger.With().Str("session_id", cfg.sessionID).Logger()
	}
	return &Controller{
		schema: s,
		form:   form,
		kinds:  s.TemporalKinds(),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Schema returns the schema the controller renders.
func (c *Controller) Schema() schema.Schema {
	return c.schema
}

// Form exposes the underlying form context for operations the controller
// does not wrap.
func (c *Controller) Form() *formstate.Context {
	return c.form
}

// Field reads a declared field from the current lot.
func (c *Controller) Field(path string) (formstate.Value, bool, error) {
	if _, ok := c.schema.Find(path); !ok {
		return formstate.Value{}, false, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	return c.form.Field(path)
}

// SetField writes a declared field in the current lot. String input for a
// temporal field is parsed into the declared temporal kind first, so hosts
// can pass raw widget text straight through.
func (c *Controller) SetField(path string, value formstate.Value) error {
	field, ok := c.schema.Find(path)
	if !ok || !field.IsLeaf() {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	if kind, temporal := c.kinds[path]; temporal {
		parsed, err := formstate.DeserializeTemporal(value, kind)
		if err != nil {
			return err
		}
		value = parsed
	}

	previous, existed, err := c.form.Field(path)
	if err != nil {
		return err
	}
	if err := c.form.SetField(path, value); err != nil {
		return err
	}

	c.logger.Debug().Str("field", path).Msg("field set")
	c.emit(activity.BuildFieldSetEvent(activity.FormEventInput{
		SessionID: c.cfg.sessionID,
		FieldName: path,
		OldValue:  eventValue(previous, existed),
		NewValue:  value.Interface(),
	}))
	return nil
}

// AddLot appends a lot and switches to it.
func (c *Controller) AddLot(name string) (int, error) {
	index, err := c.form.AddLot(name)
	if err != nil {
		return 0, err
	}
	if err := c.form.SwitchToLot(index); err != nil {
		return 0, err
	}
	c.logger.Info().Str("lot", name).Int("index", index).Msg("lot added")
	c.emit(activity.BuildLotAddedEvent(activity.FormEventInput{
		SessionID: c.cfg.sessionID,
		LotName:   name,
		LotIndex:  index,
	}))
	return index, nil
}

// RemoveLot removes the lot at index.
func (c *Controller) RemoveLot(index int) error {
	if err := c.form.RemoveLot(index); err != nil {
		return err
	}
	c.logger.Info().Int("index", index).Msg("lot removed")
	c.emit(activity.BuildLotRemovedEvent(activity.FormEventInput{
		SessionID: c.cfg.sessionID,
		LotIndex:  index,
	}))
	return nil
}

// SwitchToLot changes the current lot.
func (c *Controller) SwitchToLot(index int) error {
	return c.form.SwitchToLot(index)
}

// CopyLot copies all field data from lot src into lot dst.
func (c *Controller) CopyLot(src, dst int) error {
	if err := c.form.CopyLotData(src, dst); err != nil {
		return err
	}
	c.logger.Info().Int("src", src).Int("dst", dst).Msg("lot copied")
	c.emit(activity.BuildLotCopiedEvent(activity.FormEventInput{
		SessionID: c.cfg.sessionID,
		LotIndex:  dst,
		SourceLot: src,
		TargetLot: dst,
	}))
	return nil
}

// Reset clears the session back to a single empty lot.
func (c *Controller) Reset() error {
	if err := c.form.Reset(); err != nil {
		return err
	}
	c.logger.Info().Msg("session reset")
	c.emit(activity.BuildSessionResetEvent(activity.FormEventInput{
		SessionID: c.cfg.sessionID,
	}))
	return nil
}

// ApplyDefaults fills the current lot's absent fields with the schema's
// declared defaults. Fields the user already touched keep their values.
func (c *Controller) ApplyDefaults() error {
	current, err := c.form.CurrentLotData()
	if err != nil {
		return err
	}
	defaults, err := c.schemaDefaults()
	if err != nil {
		return err
	}
	if len(defaults) == 0 {
		return nil
	}

	merged := formstate.MergeObjects(current, defaults)
	flat := formstate.Flatten(merged)
	existing := formstate.Flatten(current)
	for key, value := range flat {
		if _, ok := existing[key]; ok {
			continue
		}
		if err := c.form.SetField(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) schemaDefaults() (map[string]formstate.Value, error) {
	flat := formstate.FlatMap{}
	for _, descriptor := range c.schema.Descriptors() {
		field, ok := c.schema.Find(descriptor.Path)
		if !ok || field.Default == nil {
			continue
		}
		value, err := formstate.FromInterface(field.Default)
		if err != nil {
			return nil, fmt.Errorf("controller: default for %q: %w", descriptor.Path, err)
		}
		if kind, temporal := c.kinds[descriptor.Path]; temporal {
			value, err = formstate.DeserializeTemporal(value, kind)
			if err != nil {
				return nil, fmt.Errorf("controller: default for %q: %w", descriptor.Path, err)
			}
		}
		flat[descriptor.Path] = value
	}
	if len(flat) == 0 {
		return nil, nil
	}
	nested, err := formstate.Unflatten(flat)
	if err != nil {
		return nil, err
	}
	return nested, nil
}

// Load replaces the form's state with the persisted snapshot for ref. A
// missing snapshot leaves the form untouched and reports ok false.
func (c *Controller) Load(ctx context.Context, ref persist.Ref) (persist.Meta, bool, error) {
	if c.cfg.boundary == nil {
		return persist.Meta{}, false, fmt.Errorf("controller: persistence boundary not configured")
	}
	snapshot, meta, ok, err := c.cfg.boundary.Load(ctx, ref)
	if err != nil || !ok {
		return meta, ok, err
	}
	formstate.RestoreStore(c.form.Store(), snapshot)
	c.logger.Info().Str("ref", ref.SessionID).Msg("session loaded")
	return meta, true, nil
}

// Save persists the form's current state under ref.
func (c *Controller) Save(ctx context.Context, ref persist.Ref, meta persist.Meta) (persist.Meta, error) {
	if c.cfg.boundary == nil {
		return persist.Meta{}, fmt.Errorf("controller: persistence boundary not configured")
	}
	snapshot := formstate.SnapshotStore(c.form.Store())
	saved, err := c.cfg.boundary.Save(ctx, ref, snapshot, meta)
	if err != nil {
		return persist.Meta{}, err
	}
	c.logger.Info().Str("ref", ref.SessionID).Msg("session saved")
	return saved, nil
}

func (c *Controller) emit(event activity.Event) {
	if c.cfg.emitter == nil {
		return
	}
	if err := c.cfg.emitter.Emit(context.Background(), event); err != nil {
		c.logger.Warn().Err(err).Str("verb", event.Verb).Msg("activity emit failed")
	}
}

func eventValue(value formstate.Value, existed bool) any {
	if !existed {
		return nil
	}
	return value.Interface()
}

// DecodeLot hydrates lot index into the typed struct T.
func DecodeLot[T any](c *Controller, index int, opts ...hydrate.DecoderOption[T]) (T, error) {
	var zero T
	data, err := c.form.LotData(index)
	if err != nil {
		return zero, err
	}
	decoder := hydrate.NewDecoder[T](opts...)
	return decoder.DecodeValues(hydrate.Context{SessionID: c.cfg.sessionID, Lot: index}, data)
}
