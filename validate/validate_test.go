package validate

import (
	"testing"

	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/spec"
)

func TestValidateMissingRequired(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "name", Kind: spec.TypeString, Required: true},
	}}
	result := Validate(s, map[string]any{})
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.MissingRequired) != 1 || result.MissingRequired[0] != "name" {
		t.Fatalf("got %#v", result.MissingRequired)
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "age", Kind: spec.TypeInteger},
	}}
	result := Validate(s, map[string]any{"age": "not a number"})
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if result.Errors[0].Code != "type_mismatch" {
		t.Fatalf("got %#v", result.Errors)
	}
}

func TestValidateEnumMismatch(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "plan", Kind: spec.TypeEnum, Choices: []string{"free", "pro"}},
	}}
	result := Validate(s, map[string]any{"plan": "enterprise"})
	if result.Valid || result.Errors[0].Code != "enum_mismatch" {
		t.Fatalf("got %#v", result)
	}
}

func TestValidateUnknownFields(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{{ID: "a", Kind: spec.TypeString}}}
	result := Validate(s, map[string]any{"a": "x", "mystery": "y"})
	if result.Valid || len(result.UnknownFields) != 1 || result.UnknownFields[0] != "mystery" {
		t.Fatalf("got %#v", result)
	}
}

func TestValidateSkipsHiddenQuestions(t *testing.T) {
	cond := expr.Literal(false)
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "hidden", Kind: spec.TypeString, Required: true, VisibleIf: &cond},
	}}
	result := Validate(s, map[string]any{})
	if !result.Valid {
		t.Fatalf("expected valid (hidden required field should not block), got %#v", result)
	}
}

func TestValidateCrossField(t *testing.T) {
	cond := expr.Gt(expr.Answer("start"), expr.Answer("end"))
	s := &spec.FormSpec{
		Questions: []spec.QuestionSpec{
			{ID: "start", Kind: spec.TypeInteger},
			{ID: "end", Kind: spec.TypeInteger},
		},
		Validations: []spec.CrossFieldValidation{
			{Message: "start must be before end", Fields: []string{"start"}, Condition: cond, Code: "range"},
		},
	}
	result := Validate(s, map[string]any{"start": float64(5), "end": float64(1)})
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if result.Errors[0].Code != "range" || result.Errors[0].Path != "/start" {
		t.Fatalf("got %#v", result.Errors)
	}
}

func TestValidateListConstraints(t *testing.T) {
	min := 1
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "items", Kind: spec.TypeList, List: &spec.ListSpec{
			MinItems: &min,
			Fields:   []spec.QuestionSpec{{ID: "sku", Kind: spec.TypeString, Required: true}},
		}},
	}}
	result := Validate(s, map[string]any{"items": []any{}})
	if result.Valid || result.Errors[0].Code != "min_items" {
		t.Fatalf("got %#v", result)
	}

	result = Validate(s, map[string]any{"items": []any{map[string]any{}}})
	if result.Valid || result.Errors[0].Code != "missing_field" {
		t.Fatalf("got %#v", result)
	}
}

func TestValidateConstraints(t *testing.T) {
	min, max := 1.0, 10.0
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "n", Kind: spec.TypeNumber, Constraint: &spec.Constraint{Min: &min, Max: &max}},
	}}
	result := Validate(s, map[string]any{"n": float64(20)})
	if result.Valid || result.Errors[0].Code != "max" {
		t.Fatalf("got %#v", result)
	}
}
