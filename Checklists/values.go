package Checklists

import (
	"strconv"
	"strings"
	"time"

	"DigiHaccp/Models"
)

// Canonical text encodings for date-like values.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// Core temperature bounds in degrees Celsius, inclusive.
const (
	CoreTempMin = 75
	CoreTempMax = 100
)

// TypedValue is one parsed answer value. Kind selects which slot is
// meaningful, Empty marks a cleared value. All parsing, storage and
// projection of answers flows through this type so "exactly one slot
// populated" holds structurally.
type TypedValue struct {
	Kind  string
	Empty bool

	Text    string
	Moment  time.Time // date, time and datetime kinds
	Decimal float64
	Integer int64
	Boolean bool
}

// EmptyValue returns the cleared value for a kind.
func EmptyValue(kind string) TypedValue {
	return TypedValue{Kind: kind, Empty: true}
}

// ParseValue parses a raw submission according to the field's kind and
// applies the field's semantic-role rules. today anchors the
// use-by-date check and is injected by the caller. An empty raw value
// always parses to the cleared value.
func ParseValue(field Models.TemplateField, raw string, today time.Time) (TypedValue, error) {
	if raw == "" {
		return EmptyValue(field.Kind), nil
	}

	value := TypedValue{Kind: field.Kind}
	switch field.Kind {
	case Models.KindText:
		value.Text = raw

	case Models.KindDate:
		parsed, err := time.Parse(DateLayout, raw)
		if err != nil {
			return value, &ParseError{Field: field.Name, Cause: "expected a date formatted " + DateLayout}
		}
		if field.Role == Models.RoleUseByDate {
			midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
			if parsed.Before(midnight) {
				return value, &DomainRuleError{Field: field.Name, Rule: "use-by date must not be in the past"}
			}
		}
		value.Moment = parsed

	case Models.KindTime:
		parsed, err := time.Parse(TimeLayout, raw)
		if err != nil {
			return value, &ParseError{Field: field.Name, Cause: "expected a time formatted " + TimeLayout}
		}
		value.Moment = parsed

	case Models.KindDateTime:
		// Lenient: a malformed datetime is stored as empty rather than
		// rejected, no domain rule depends on it.
		parsed, err := time.Parse(DateTimeLayout, raw)
		if err != nil {
			parsed, err = time.Parse("2006-01-02T15:04", raw)
		}
		if err != nil {
			return EmptyValue(field.Kind), nil
		}
		value.Moment = parsed

	case Models.KindDecimal:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value, &ParseError{Field: field.Name, Cause: "expected a decimal number"}
		}
		if err := checkCoreTemperature(field, parsed); err != nil {
			return value, err
		}
		value.Decimal = parsed

	case Models.KindInteger:
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return value, &ParseError{Field: field.Name, Cause: "expected a whole number"}
		}
		if err := checkCoreTemperature(field, float64(parsed)); err != nil {
			return value, err
		}
		value.Integer = parsed

	case Models.KindBoolean:
		// Permissive on purpose: anything but "true" is false, the UI
		// sends checkbox states as plain strings.
		value.Boolean = strings.EqualFold(raw, "true")

	default:
		return value, &ParseError{Field: field.Name, Cause: "unknown field kind " + field.Kind}
	}
	return value, nil
}

func checkCoreTemperature(field Models.TemplateField, v float64) error {
	if field.Role != Models.RoleCoreTemperature {
		return nil
	}
	if v < CoreTempMin || v > CoreTempMax {
		return &DomainRuleError{
			Field: field.Name,
			Rule:  "core temperature must be between 75 and 100 degrees",
		}
	}
	return nil
}

// Scalar projects the value into the generic cell representation used
// by the grid: formatted strings for text and date-like kinds, native
// numbers and booleans otherwise, "" for empty.
func (v TypedValue) Scalar() interface{} {
	if v.Empty {
		return ""
	}
	switch v.Kind {
	case Models.KindDecimal:
		return v.Decimal
	case Models.KindInteger:
		return v.Integer
	case Models.KindBoolean:
		return v.Boolean
	default:
		return v.Format()
	}
}

// Format renders the value as canonical text, used for Excel export
// and string projections.
func (v TypedValue) Format() string {
	if v.Empty {
		return ""
	}
	switch v.Kind {
	case Models.KindText:
		return v.Text
	case Models.KindDate:
		return v.Moment.Format(DateLayout)
	case Models.KindTime:
		return v.Moment.Format(TimeLayout)
	case Models.KindDateTime:
		return v.Moment.Format(DateTimeLayout)
	case Models.KindDecimal:
		return strconv.FormatFloat(v.Decimal, 'f', -1, 64)
	case Models.KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case Models.KindBoolean:
		return strconv.FormatBool(v.Boolean)
	}
	return ""
}

// ApplyTo stores the value into the answer's matching slot, clearing
// every other slot first.
func (v TypedValue) ApplyTo(answer *Models.Answer) {
	answer.ClearValues()
	if v.Empty {
		return
	}
	switch v.Kind {
	case Models.KindText:
		answer.ValueText = &v.Text
	case Models.KindDate:
		moment := v.Moment
		answer.ValueDate = &moment
	case Models.KindTime:
		clock := v.Moment.Format(TimeLayout)
		answer.ValueTime = &clock
	case Models.KindDateTime:
		moment := v.Moment
		answer.ValueDateTime = &moment
	case Models.KindDecimal:
		answer.ValueDecimal = &v.Decimal
	case Models.KindInteger:
		answer.ValueInteger = &v.Integer
	case Models.KindBoolean:
		answer.ValueBoolean = &v.Boolean
	}
}

// ValueOf reads the slot matching the field's kind back out of an
// answer. A missing slot yields the cleared value.
func ValueOf(field Models.TemplateField, answer *Models.Answer) TypedValue {
	value := TypedValue{Kind: field.Kind}
	if answer == nil {
		value.Empty = true
		return value
	}
	switch field.Kind {
	case Models.KindText:
		if answer.ValueText == nil {
			value.Empty = true
		} else {
			value.Text = *answer.ValueText
		}
	case Models.KindDate:
		if answer.ValueDate == nil {
			value.Empty = true
		} else {
			value.Moment = *answer.ValueDate
		}
	case Models.KindTime:
		if answer.ValueTime == nil {
			value.Empty = true
		} else if parsed, err := time.Parse(TimeLayout, *answer.ValueTime); err == nil {
			value.Moment = parsed
		} else {
			value.Empty = true
		}
	case Models.KindDateTime:
		if answer.ValueDateTime == nil {
			value.Empty = true
		} else {
			value.Moment = *answer.ValueDateTime
		}
	case Models.KindDecimal:
		if answer.ValueDecimal == nil {
			value.Empty = true
		} else {
			value.Decimal = *answer.ValueDecimal
		}
	case Models.KindInteger:
		if answer.ValueInteger == nil {
			value.Empty = true
		} else {
			value.Integer = *answer.ValueInteger
		}
	case Models.KindBoolean:
		if answer.ValueBoolean == nil {
			value.Empty = true
		} else {
			value.Boolean = *answer.ValueBoolean
		}
	default:
		value.Empty = true
	}
	return value
}
