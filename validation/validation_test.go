package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/scopedi/errors"
)

type nested struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info"`
}

type sample struct {
	Name     string `mapstructure:"name" validate:"required"`
	MaxDepth int    `mapstructure:"max_depth" validate:"gte=1,lte=10"`
	Log      nested `mapstructure:"log"`
	NoTag    int    `validate:"lte=5"`
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(sample{Name: "svc", MaxDepth: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		field   string
		message string
	}{
		{"missing name", sample{MaxDepth: 1}, "name", "is required"},
		{"depth too low", sample{Name: "x", MaxDepth: 0}, "max_depth", "must be at least 1"},
		{"depth too high", sample{Name: "x", MaxDepth: 11}, "max_depth", "must be at most 10"},
		{"nested oneof", sample{Name: "x", MaxDepth: 1, Log: nested{Level: "loud"}}, "log.level", "must be one of: debug info"},
		{"snake case fallback", sample{Name: "x", MaxDepth: 1, NoTag: 6}, "no_tag", "must be at most 5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			if err == nil {
				t.Fatal("expected error")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
			}
			fields, ok := appErr.Details["fields"].([]FieldError)
			if !ok || len(fields) != 1 {
				t.Fatalf("expected one field error, got %v", appErr.Details["fields"])
			}
			if fields[0].Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, fields[0].Field)
			}
			if fields[0].Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, fields[0].Message)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error text to mention %q, got %q", tc.field, err.Error())
			}
		})
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate(42)
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if errors.CodeOf(err) != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", errors.CodeOf(err))
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("MaxDepth"); got != "max_depth" {
		t.Errorf("expected max_depth, got %q", got)
	}
}
