package intake

import (
	"math"

	"github.com/emekaobi/staffintake/pkg/forms"
)

// Form is the intake form state machine: field values, step navigation,
// dependent-field resolution and progress. It owns all mutable state for
// one registration and is driven from a single event loop.
type Form struct {
	fields     *forms.Form
	step       int
	submitting bool
}

// Options configures form construction.
type Options struct {
	// PhoneFormat selects the phone rule variant ("local" or
	// "international"). Empty means local.
	PhoneFormat string
}

// NewForm creates an empty intake form on step 1.
func NewForm(opts Options) *Form {
	return &Form{
		fields: forms.MustNew(Schema(opts.PhoneFormat)),
		step:   StepPersonal,
	}
}

// Step returns the current step (1-based).
func (f *Form) Step() int {
	return f.step
}

// StepFields returns the current descriptors of the fields on a step, in
// display order. Descriptors reflect dependent-field state (rank options,
// intake number rules).
func (f *Form) StepFields(step int) []forms.Field {
	names := stepFields[step]
	out := make([]forms.Field, 0, len(names))
	for _, name := range names {
		if d := f.fields.Field(name); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	return f.fields.Get(name)
}

// Errors returns the recorded validation errors for a field.
func (f *Form) Errors(name string) []string {
	return f.fields.Errors(name)
}

// FirstError returns the first recorded error for a field, or "".
func (f *Form) FirstError(name string) string {
	return f.fields.FirstError(name)
}

// Set stores a field value, applies dependent-field resolution and
// revalidates the field.
func (f *Form) Set(name, value string) {
	prev := f.fields.Get(name)
	f.fields.Set(name, value)

	if value != prev {
		f.resolveDependents(name)
	}
	f.fields.Validate(name)
}

// resolveDependents applies the two conditional relationships: a rank-level
// change narrows rank's options and clears it; an intake-category change
// switches the number's rule set and clears it.
func (f *Form) resolveDependents(changed string) {
	switch changed {
	case FieldRankLevel:
		f.applyRankOptions()
		f.fields.Set(FieldRank, "")
		f.fields.ClearErrors(FieldRank)

	case FieldIntakeCategory:
		f.applyIntakeNumberRule()
		f.fields.Set(FieldIntakeNumber, "")
		f.fields.ClearErrors(FieldIntakeNumber)
	}
}

// applyRankOptions narrows rank's option set to the selected level and
// enforces membership through a rule, so a stale rank cannot survive a
// level change even if it arrives through a raw payload.
func (f *Form) applyRankOptions() {
	var ranks []forms.Option
	switch f.fields.Get(FieldRankLevel) {
	case RankLevelSenior:
		ranks = seniorRanks
	case RankLevelJunior:
		ranks = juniorRanks
	}
	f.fields.SetOptions(FieldRank, ranks)
	if len(ranks) == 0 {
		f.fields.SetRules(FieldRank)
		return
	}
	f.fields.SetRules(FieldRank, forms.OneOf(forms.OptionValues(ranks)...))
}

// applyIntakeNumberRule derives the intake number's required flag and rule
// set from the currently selected category.
func (f *Form) applyIntakeNumberRule() {
	category := f.fields.Get(FieldIntakeCategory)
	switch {
	case category == "":
		f.fields.SetRequired(FieldIntakeNumber, false)
		f.fields.SetRules(FieldIntakeNumber)
	case category == CategoryIntake:
		f.fields.SetRequired(FieldIntakeNumber, true)
		f.fields.SetRules(FieldIntakeNumber, forms.RomanNumeral())
	default:
		f.fields.SetRequired(FieldIntakeNumber, true)
		f.fields.SetRules(FieldIntakeNumber)
	}
}

// StepValid reports whether every field on a step passes validation,
// recording the per-field errors.
func (f *Form) StepValid(step int) bool {
	names := stepFields[step]
	if len(names) == 0 {
		return false
	}
	return f.fields.Validate(names...)
}

// Advance moves forward one step if the current step validates. Returns
// whether the move happened. A no-op past the last step.
func (f *Form) Advance() bool {
	if !f.StepValid(f.step) {
		return false
	}
	if f.step < stepCount {
		f.step++
		return true
	}
	return false
}

// Retreat moves back one step. A no-op below the first.
func (f *Form) Retreat() {
	if f.step > StepPersonal {
		f.step--
	}
}

// GoTo jumps to a step unconditionally. Submission still revalidates
// everything, so skipping ahead cannot bypass validation.
func (f *Form) GoTo(step int) {
	if step >= StepPersonal && step <= stepCount {
		f.step = step
	}
}

// ValidateAll evaluates the entire schema and records all field errors.
func (f *Form) ValidateAll() bool {
	return f.fields.Validate()
}

// Progress returns the 0-100 completion percentage: filled fields over the
// full schema size, optional fields included.
func (f *Form) Progress() int {
	total := f.fields.Len()
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(f.fields.NonEmptyCount()) / float64(total)))
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	return f.submitting
}

// BeginSubmit sets the busy flag; further submits are blocked until
// EndSubmit.
func (f *Form) BeginSubmit() {
	f.submitting = true
}

// EndSubmit clears the busy flag.
func (f *Form) EndSubmit() {
	f.submitting = false
}

// Reset returns the form to its initial empty state on step 1.
func (f *Form) Reset() {
	f.fields.Reset()
	f.applyRankOptions()
	f.applyIntakeNumberRule()
	f.step = StepPersonal
	f.submitting = false
}

// Snapshot captures all field values for draft persistence.
func (f *Form) Snapshot() map[string]string {
	return f.fields.Values()
}

// Restore replaces field values from a draft snapshot and re-derives
// dependent-field state from the restored selections, without the clearing
// a live change would trigger.
func (f *Form) Restore(values map[string]string) {
	f.fields.Reset()
	f.fields.SetValues(values)
	f.applyRankOptions()
	f.applyIntakeNumberRule()
	f.step = StepPersonal
}
