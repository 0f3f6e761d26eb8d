package Checklists

import (
	"errors"
	"testing"
	"time"

	"DigiHaccp/Models"
)

func TestParseValueByKind(t *testing.T) {
	today := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name      string
		field     Models.TemplateField
		raw       string
		wantEmpty bool
		wantErr   string // "", "parse" or "domain"
		check     func(t *testing.T, v TypedValue)
	}{
		{
			name:  "text passes through",
			field: Models.TemplateField{Name: "note", Kind: Models.KindText},
			raw:   "wiped down",
			check: func(t *testing.T, v TypedValue) {
				if v.Text != "wiped down" {
					t.Fatalf("got %q", v.Text)
				}
			},
		},
		{
			name:      "empty raw clears regardless of kind",
			field:     Models.TemplateField{Name: "use_by", Kind: Models.KindDate, Role: Models.RoleUseByDate},
			raw:       "",
			wantEmpty: true,
		},
		{
			name:  "date canonical layout",
			field: Models.TemplateField{Name: "opened", Kind: Models.KindDate},
			raw:   "2025-03-12",
			check: func(t *testing.T, v TypedValue) {
				if v.Moment.Format(DateLayout) != "2025-03-12" {
					t.Fatalf("got %v", v.Moment)
				}
			},
		},
		{
			name:    "date wrong layout",
			field:   Models.TemplateField{Name: "opened", Kind: Models.KindDate},
			raw:     "12/03/2025",
			wantErr: "parse",
		},
		{
			name:  "use-by today is allowed",
			field: Models.TemplateField{Name: "use_by", Kind: Models.KindDate, Role: Models.RoleUseByDate},
			raw:   "2025-03-10",
		},
		{
			name:    "use-by yesterday is rejected",
			field:   Models.TemplateField{Name: "use_by", Kind: Models.KindDate, Role: Models.RoleUseByDate},
			raw:     "2025-03-09",
			wantErr: "domain",
		},
		{
			name:  "time canonical layout",
			field: Models.TemplateField{Name: "check_time", Kind: Models.KindTime},
			raw:   "14:45",
			check: func(t *testing.T, v TypedValue) {
				if v.Moment.Format(TimeLayout) != "14:45" {
					t.Fatalf("got %v", v.Moment)
				}
			},
		},
		{
			name:    "time with seconds is rejected",
			field:   Models.TemplateField{Name: "check_time", Kind: Models.KindTime},
			raw:     "14:45:30",
			wantErr: "parse",
		},
		{
			name:  "datetime with space separator",
			field: Models.TemplateField{Name: "delivered", Kind: Models.KindDateTime},
			raw:   "2025-03-10 08:15",
			check: func(t *testing.T, v TypedValue) {
				if v.Moment.Format(DateTimeLayout) != "2025-03-10 08:15" {
					t.Fatalf("got %v", v.Moment)
				}
			},
		},
		{
			name:  "datetime with T separator",
			field: Models.TemplateField{Name: "delivered", Kind: Models.KindDateTime},
			raw:   "2025-03-10T08:15",
		},
		{
			name:      "datetime junk degrades to empty",
			field:     Models.TemplateField{Name: "delivered", Kind: Models.KindDateTime},
			raw:       "whenever",
			wantEmpty: true,
		},
		{
			name:  "decimal plain",
			field: Models.TemplateField{Name: "weight", Kind: Models.KindDecimal},
			raw:   "12.75",
			check: func(t *testing.T, v TypedValue) {
				if v.Decimal != 12.75 {
					t.Fatalf("got %v", v.Decimal)
				}
			},
		},
		{
			name:    "decimal junk",
			field:   Models.TemplateField{Name: "weight", Kind: Models.KindDecimal},
			raw:     "heavy",
			wantErr: "parse",
		},
		{
			name:  "core temperature lower bound inclusive",
			field: Models.TemplateField{Name: "core_temp", Kind: Models.KindDecimal, Role: Models.RoleCoreTemperature},
			raw:   "75",
		},
		{
			name:  "core temperature upper bound inclusive",
			field: Models.TemplateField{Name: "core_temp", Kind: Models.KindDecimal, Role: Models.RoleCoreTemperature},
			raw:   "100",
		},
		{
			name:    "core temperature below range",
			field:   Models.TemplateField{Name: "core_temp", Kind: Models.KindDecimal, Role: Models.RoleCoreTemperature},
			raw:     "74.9",
			wantErr: "domain",
		},
		{
			name:    "core temperature above range",
			field:   Models.TemplateField{Name: "core_temp", Kind: Models.KindDecimal, Role: Models.RoleCoreTemperature},
			raw:     "100.1",
			wantErr: "domain",
		},
		{
			name:  "integer plain",
			field: Models.TemplateField{Name: "count", Kind: Models.KindInteger},
			raw:   "42",
			check: func(t *testing.T, v TypedValue) {
				if v.Integer != 42 {
					t.Fatalf("got %v", v.Integer)
				}
			},
		},
		{
			name:    "integer rejects fractions",
			field:   Models.TemplateField{Name: "count", Kind: Models.KindInteger},
			raw:     "42.5",
			wantErr: "parse",
		},
		{
			name:    "integer core temperature out of range",
			field:   Models.TemplateField{Name: "probe_temp", Kind: Models.KindInteger, Role: Models.RoleCoreTemperature},
			raw:     "60",
			wantErr: "domain",
		},
		{
			name:  "boolean case insensitive true",
			field: Models.TemplateField{Name: "passed", Kind: Models.KindBoolean},
			raw:   "TRUE",
			check: func(t *testing.T, v TypedValue) {
				if !v.Boolean {
					t.Fatal("expected true")
				}
			},
		},
		{
			name:  "boolean anything else is false",
			field: Models.TemplateField{Name: "passed", Kind: Models.KindBoolean},
			raw:   "yes",
			check: func(t *testing.T, v TypedValue) {
				if v.Boolean {
					t.Fatal("expected false")
				}
			},
		},
		{
			name:    "unknown kind",
			field:   Models.TemplateField{Name: "mystery", Kind: "color"},
			raw:     "red",
			wantErr: "parse",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value, err := ParseValue(tc.field, tc.raw, today)
			switch tc.wantErr {
			case "parse":
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected ParseError, got %v", err)
				}
				if parseErr.Field != tc.field.Name {
					t.Fatalf("error names field %q, want %q", parseErr.Field, tc.field.Name)
				}
				return
			case "domain":
				var ruleErr *DomainRuleError
				if !errors.As(err, &ruleErr) {
					t.Fatalf("expected DomainRuleError, got %v", err)
				}
				if ruleErr.Field != tc.field.Name {
					t.Fatalf("error names field %q, want %q", ruleErr.Field, tc.field.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if value.Empty != tc.wantEmpty {
				t.Fatalf("empty=%v, want %v", value.Empty, tc.wantEmpty)
			}
			if value.Kind != tc.field.Kind {
				t.Fatalf("kind=%q, want %q", value.Kind, tc.field.Kind)
			}
			if tc.check != nil {
				tc.check(t, value)
			}
		})
	}
}

func TestFormatCanonicalEncodings(t *testing.T) {
	moment := time.Date(2025, time.March, 10, 14, 45, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value TypedValue
		want  string
	}{
		{"empty", EmptyValue(Models.KindText), ""},
		{"text", TypedValue{Kind: Models.KindText, Text: "clean"}, "clean"},
		{"date", TypedValue{Kind: Models.KindDate, Moment: moment}, "2025-03-10"},
		{"time", TypedValue{Kind: Models.KindTime, Moment: moment}, "14:45"},
		{"datetime", TypedValue{Kind: Models.KindDateTime, Moment: moment}, "2025-03-10 14:45"},
		{"decimal trims zeros", TypedValue{Kind: Models.KindDecimal, Decimal: 82.5}, "82.5"},
		{"integer", TypedValue{Kind: Models.KindInteger, Integer: 7}, "7"},
		{"boolean", TypedValue{Kind: Models.KindBoolean, Boolean: true}, "true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Format(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScalarProjection(t *testing.T) {
	if got := (TypedValue{Kind: Models.KindDecimal, Decimal: 82.5}).Scalar(); got != 82.5 {
		t.Fatalf("decimal scalar: %v", got)
	}
	if got := (TypedValue{Kind: Models.KindInteger, Integer: 7}).Scalar(); got != int64(7) {
		t.Fatalf("integer scalar: %v", got)
	}
	if got := (TypedValue{Kind: Models.KindBoolean, Boolean: true}).Scalar(); got != true {
		t.Fatalf("boolean scalar: %v", got)
	}
	if got := (TypedValue{Kind: Models.KindDate, Moment: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}).Scalar(); got != "2025-03-10" {
		t.Fatalf("date scalar: %v", got)
	}
	if got := EmptyValue(Models.KindDecimal).Scalar(); got != "" {
		t.Fatalf("empty scalar: %v", got)
	}
}

func TestApplyToAndValueOfRoundTrip(t *testing.T) {
	today := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	fields := []Models.TemplateField{
		{Name: "note", Kind: Models.KindText},
		{Name: "use_by", Kind: Models.KindDate},
		{Name: "check_time", Kind: Models.KindTime},
		{Name: "delivered", Kind: Models.KindDateTime},
		{Name: "weight", Kind: Models.KindDecimal},
		{Name: "count", Kind: Models.KindInteger},
		{Name: "passed", Kind: Models.KindBoolean},
	}
	raws := map[string]string{
		"note": "restocked", "use_by": "2025-03-12", "check_time": "08:00",
		"delivered": "2025-03-10 07:30", "weight": "1.25", "count": "3", "passed": "true",
	}

	var answer Models.Answer
	for _, field := range fields {
		parsed, err := ParseValue(field, raws[field.Name], today)
		if err != nil {
			t.Fatalf("%s: %v", field.Name, err)
		}
		parsed.ApplyTo(&answer)

		// Exactly one slot populated.
		populated := 0
		for _, slot := range []bool{
			answer.ValueText != nil, answer.ValueDate != nil, answer.ValueTime != nil,
			answer.ValueDateTime != nil, answer.ValueDecimal != nil,
			answer.ValueInteger != nil, answer.ValueBoolean != nil,
		} {
			if slot {
				populated++
			}
		}
		if populated != 1 {
			t.Fatalf("%s: %d slots populated", field.Name, populated)
		}

		back := ValueOf(field, &answer)
		if back.Empty {
			t.Fatalf("%s: round trip lost the value", field.Name)
		}
		if back.Format() != parsed.Format() {
			t.Fatalf("%s: %q != %q", field.Name, back.Format(), parsed.Format())
		}
	}

	// Clearing empties every slot and reads back as empty.
	EmptyValue(Models.KindBoolean).ApplyTo(&answer)
	if answer.ValueBoolean != nil || answer.ValueText != nil {
		t.Fatal("clear left a slot populated")
	}
	if !ValueOf(fields[6], &answer).Empty {
		t.Fatal("cleared answer should read back empty")
	}
	if !ValueOf(fields[0], nil).Empty {
		t.Fatal("nil answer should read back empty")
	}
}
