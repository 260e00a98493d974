package forms

import (
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

// Rule validates a single non-empty field value. Emptiness is the
// Required flag's concern; every rule treats "" as passing.
type Rule interface {
	// Validate reports whether the value satisfies the rule.
	Validate(value string) error

	// Message returns the user-facing error message.
	Message() string
}

// MinLengthRule validates minimum length in runes.
type MinLengthRule struct {
	Min int
}

func (r MinLengthRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	if utf8.RuneCountInString(value) < r.Min {
		return fmt.Errorf("too short (min %d)", r.Min)
	}
	return nil
}

func (r MinLengthRule) Message() string {
	return fmt.Sprintf("Must be at least %d characters", r.Min)
}

// PatternRule validates against a compiled regular expression.
type PatternRule struct {
	Pattern *regexp.Regexp
	Msg     string
}

func (r PatternRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	if !r.Pattern.MatchString(value) {
		return errors.New("pattern mismatch")
	}
	return nil
}

func (r PatternRule) Message() string {
	if r.Msg != "" {
		return r.Msg
	}
	return "Invalid format"
}

// EmailRule validates email address grammar.
type EmailRule struct{}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func (EmailRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	if !emailRe.MatchString(value) {
		return errors.New("invalid email")
	}
	return nil
}

func (EmailRule) Message() string {
	return "Please enter a valid email address"
}

// DigitsRule validates that the value is digits only, with an optional
// minimum count.
type DigitsRule struct {
	Min int
}

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

func (r DigitsRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	if !digitsRe.MatchString(value) {
		return errors.New("not numeric")
	}
	if r.Min > 0 && len(value) < r.Min {
		return fmt.Errorf("too short (min %d digits)", r.Min)
	}
	return nil
}

func (r DigitsRule) Message() string {
	if r.Min > 0 {
		return fmt.Sprintf("Must be at least %d digits", r.Min)
	}
	return "Must contain digits only"
}

// DateRule validates that the value resolves to a calendar date.
type DateRule struct {
	// Layout is the expected time layout; DateLayout when empty.
	Layout string
}

// DateLayout is the wire format for date fields.
const DateLayout = "2006-01-02"

func (r DateRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	layout := r.Layout
	if layout == "" {
		layout = DateLayout
	}
	if _, err := time.Parse(layout, value); err != nil {
		return errors.New("invalid date")
	}
	return nil
}

func (r DateRule) Message() string {
	return "Must be a valid date"
}

// RomanNumeralRule validates classical Roman numerals (I through MMMCMXCIX),
// case-insensitive.
type RomanNumeralRule struct{}

var romanRe = regexp.MustCompile(`(?i)^M{0,3}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)

func (RomanNumeralRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	if !romanRe.MatchString(value) {
		return errors.New("not a roman numeral")
	}
	return nil
}

func (RomanNumeralRule) Message() string {
	return "Must be a Roman numeral (e.g. IV, IX, XII)"
}

// OneOfRule validates membership in a fixed value set.
type OneOfRule struct {
	Values []string
}

func (r OneOfRule) Validate(value string) error {
	if value == "" {
		return nil
	}
	for _, v := range r.Values {
		if v == value {
			return nil
		}
	}
	return errors.New("invalid option")
}

func (OneOfRule) Message() string {
	return "Invalid selection"
}

// Convenience constructors

// MinLength returns a minimum length rule.
func MinLength(n int) Rule {
	return MinLengthRule{Min: n}
}

// Pattern returns a pattern rule. The pattern must compile.
func Pattern(pattern, msg string) Rule {
	return PatternRule{Pattern: regexp.MustCompile(pattern), Msg: msg}
}

// Email returns an email grammar rule.
func Email() Rule {
	return EmailRule{}
}

// Digits returns a digits-only rule with minimum count n (0 = no minimum).
func Digits(n int) Rule {
	return DigitsRule{Min: n}
}

// Date returns a calendar date rule with the default layout.
func Date() Rule {
	return DateRule{}
}

// RomanNumeral returns a Roman numeral grammar rule.
func RomanNumeral() Rule {
	return RomanNumeralRule{}
}

// OneOf returns a membership rule.
func OneOf(values ...string) Rule {
	return OneOfRule{Values: values}
}
