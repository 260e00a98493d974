// Package forms provides a declarative form engine: field descriptors,
// composable validation rules, and a value store that tracks per-field
// errors. All field values are strings; typed interpretation (dates,
// numbers) happens inside rules.
package forms

// FieldType identifies how a field should be presented.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
)

// Field describes one form field and its validation rules.
type Field struct {
	// Name is the field identifier, also used as the payload key.
	Name string

	// Type is the presentation type.
	Type FieldType

	// Label is the display label.
	Label string

	// Placeholder is the placeholder text.
	Placeholder string

	// Required marks the field as mandatory. Required is checked before
	// any rule runs; rules skip empty values.
	Required bool

	// Options are the allowed values for select fields.
	Options []Option

	// Rules are evaluated in order against non-empty values.
	Rules []Rule
}

// Option is one allowed value of a select field.
type Option struct {
	Value string
	Label string
}

// OptionValues extracts the raw values of a set of options.
func OptionValues(opts []Option) []string {
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = o.Value
	}
	return values
}

// Opts builds options where value and label are the same string.
func Opts(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, Label: v}
	}
	return opts
}

// FieldOpt configures a field at construction time.
type FieldOpt func(*Field)

// NewField creates a field descriptor.
func NewField(name string, typ FieldType, label string, opts ...FieldOpt) Field {
	f := Field{
		Name:  name,
		Type:  typ,
		Label: label,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Required marks the field as mandatory.
func Required() FieldOpt {
	return func(f *Field) { f.Required = true }
}

// WithPlaceholder sets the placeholder text.
func WithPlaceholder(text string) FieldOpt {
	return func(f *Field) { f.Placeholder = text }
}

// WithOptions sets the select options.
func WithOptions(opts ...Option) FieldOpt {
	return func(f *Field) { f.Options = opts }
}

// WithRules appends validation rules.
func WithRules(rules ...Rule) FieldOpt {
	return func(f *Field) { f.Rules = append(f.Rules, rules...) }
}
