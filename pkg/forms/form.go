package forms

import (
	"fmt"
	"strings"
)

// RequiredMessage is the error attached to empty required fields.
const RequiredMessage = "This field is required"

// Form holds the current values and validation state for a set of fields.
// It is purely evaluative: validation never mutates values.
//
// Form is not safe for concurrent use; callers are expected to own it from
// a single event loop.
type Form struct {
	fields []Field
	index  map[string]int
	values map[string]string
	errs   map[string][]string
}

// New creates a form from a field schema. Field names must be unique.
func New(fields []Field) (*Form, error) {
	f := &Form{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		values: make(map[string]string, len(fields)),
		errs:   make(map[string][]string),
	}
	copy(f.fields, fields)

	for i, field := range f.fields {
		if field.Name == "" {
			return nil, fmt.Errorf("forms: field %d has no name", i)
		}
		if _, dup := f.index[field.Name]; dup {
			return nil, fmt.Errorf("forms: duplicate field %q", field.Name)
		}
		f.index[field.Name] = i
	}
	return f, nil
}

// MustNew is like New but panics on schema errors. Intended for static
// schema tables.
func MustNew(fields []Field) *Form {
	f, err := New(fields)
	if err != nil {
		panic(err)
	}
	return f
}

// Field returns the descriptor for a field, or nil if unknown.
func (f *Form) Field(name string) *Field {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return &f.fields[i]
}

// Fields returns the schema in declaration order.
func (f *Form) Fields() []Field {
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Len returns the number of fields in the schema.
func (f *Form) Len() int {
	return len(f.fields)
}

// Set stores a field value. Unknown names are ignored.
func (f *Form) Set(name, value string) {
	if _, ok := f.index[name]; !ok {
		return
	}
	f.values[name] = value
}

// Get returns the current value of a field.
func (f *Form) Get(name string) string {
	return f.values[name]
}

// Values returns a copy of all current values, including empty ones.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		out[field.Name] = f.values[field.Name]
	}
	return out
}

// SetValues replaces values wholesale from a snapshot. Unknown keys are
// dropped.
func (f *Form) SetValues(values map[string]string) {
	for name, value := range values {
		f.Set(name, value)
	}
}

// IsEmpty reports whether a field holds no meaningful value.
func (f *Form) IsEmpty(name string) bool {
	return strings.TrimSpace(f.values[name]) == ""
}

// NonEmptyCount returns the number of fields with a non-blank value.
func (f *Form) NonEmptyCount() int {
	n := 0
	for _, field := range f.fields {
		if !f.IsEmpty(field.Name) {
			n++
		}
	}
	return n
}

// SetRequired toggles the required flag of a field at runtime. Used for
// conditionally-required fields.
func (f *Form) SetRequired(name string, required bool) {
	if field := f.Field(name); field != nil {
		field.Required = required
	}
}

// SetRules replaces a field's rules at runtime. Used when one field's
// selection changes the rule applied to a companion field.
func (f *Form) SetRules(name string, rules ...Rule) {
	if field := f.Field(name); field != nil {
		field.Rules = rules
	}
}

// SetOptions replaces a select field's option set at runtime. Used when one
// field's selection narrows the allowed values of a dependent field.
func (f *Form) SetOptions(name string, opts []Option) {
	if field := f.Field(name); field != nil {
		field.Options = opts
	}
}

// ValidateField evaluates one field against its descriptor and returns the
// failure messages. It does not touch the stored error state.
func (f *Form) ValidateField(name string) []string {
	field := f.Field(name)
	if field == nil {
		return nil
	}

	value := strings.TrimSpace(f.values[name])
	if value == "" {
		if field.Required {
			return []string{RequiredMessage}
		}
		return nil
	}

	var msgs []string
	for _, rule := range field.Rules {
		if err := rule.Validate(value); err != nil {
			msgs = append(msgs, rule.Message())
		}
	}
	return msgs
}

// Validate evaluates the named fields (all fields when none are named),
// records their errors, and reports whether every evaluated field passed.
func (f *Form) Validate(names ...string) bool {
	if len(names) == 0 {
		names = make([]string, len(f.fields))
		for i, field := range f.fields {
			names[i] = field.Name
		}
	}

	ok := true
	for _, name := range names {
		msgs := f.ValidateField(name)
		if len(msgs) > 0 {
			f.errs[name] = msgs
			ok = false
		} else {
			delete(f.errs, name)
		}
	}
	return ok
}

// Errors returns the recorded errors for a field.
func (f *Form) Errors(name string) []string {
	return f.errs[name]
}

// FirstError returns the first recorded error for a field, or "".
func (f *Form) FirstError(name string) string {
	if msgs := f.errs[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// HasErrors reports whether any field has a recorded error.
func (f *Form) HasErrors() bool {
	return len(f.errs) > 0
}

// ClearErrors drops the recorded errors for the named fields, or all
// errors when none are named.
func (f *Form) ClearErrors(names ...string) {
	if len(names) == 0 {
		f.errs = make(map[string][]string)
		return
	}
	for _, name := range names {
		delete(f.errs, name)
	}
}

// Reset clears all values and errors.
func (f *Form) Reset() {
	f.values = make(map[string]string, len(f.fields))
	f.errs = make(map[string][]string)
}
