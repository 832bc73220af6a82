package controller

import (
	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// FieldView is what a Renderer receives for each visible leaf field: the
// schema declaration plus the current value and the scoped store key. The
// key is informational; renderers write back through Controller.SetField,
// never against the store directly.
type FieldView struct {
	Path     string
	Label    string
	Type     schema.FieldType
	Required bool
	Key      string
	Value    formstate.Value
	HasValue bool
}

// Renderer displays fields. The controller calls RenderField once per
// visible leaf, in schema declaration order.
type Renderer interface {
	RenderField(view FieldView) error
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(view FieldView) error

func (fn RendererFunc) RenderField(view FieldView) error {
	if fn == nil {
		return nil
	}
	return fn(view)
}

// Render walks the schema's leaves against the current lot, evaluates each
// visibility rule, and hands visible fields to r. Fields without a rule are
// always visible; a rule result is reduced to show/hide by truthiness.
func (c *Controller) Render(r Renderer) error {
	visible, err := c.VisibleFields()
	if err != nil {
		return err
	}
	for _, view := range visible {
		if err := r.RenderField(view); err != nil {
			return err
		}
	}
	return nil
}

// VisibleFields resolves the current lot's visible leaves without rendering
// them, for hosts that drive their own widget loop.
func (c *Controller) VisibleFields() ([]FieldView, error) {
	lot, err := c.form.CurrentLot()
	if err != nil {
		return nil, err
	}
	data, err := c.form.CurrentLotData()
	if err != nil {
		return nil, err
	}
	ruleCtx := formstate.RuleContextForLot(lot, data)

	var views []FieldView
	for _, descriptor := range c.schema.Descriptors() {
		field, ok := c.schema.Find(descriptor.Path)
		if !ok {
			continue
		}
		if field.VisibleWhen != "" {
			show, err := formstate.EvaluateRule(c.cfg.evaluator, c.cfg.ruleLogger, ruleCtx, field.VisibleWhen)
			if err != nil {
				return nil, err
			}
			if !show {
				c.logger.Debug().Str("field", descriptor.Path).Msg("field hidden")
				continue
			}
		}

		key, err := c.form.FieldKey(descriptor.Path)
		if err != nil {
			return nil, err
		}
		value, hasValue, err := c.form.Field(descriptor.Path)
		if err != nil {
			return nil, err
		}
		views = append(views, FieldView{
			Path:     descriptor.Path,
			Label:    field.Label,
			Type:     field.Type,
			Required: field.Required,
			Key:      key,
			Value:    value,
			HasValue: hasValue,
		})
	}
	return views, nil
}
