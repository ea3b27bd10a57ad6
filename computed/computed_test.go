package computed

import (
	"testing"

	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/spec"
)

func TestApplyComputedAnswersDerivesValue(t *testing.T) {
	e := expr.Answer("base")
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "derived", Computed: &e},
	}}
	out := ApplyComputedAnswers(s, map[string]any{"base": "x"})
	if out["derived"] != "x" {
		t.Fatalf("got %#v", out)
	}
}

func TestApplyComputedAnswersOverridableSkipsExisting(t *testing.T) {
	e := expr.Literal("computed-value")
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "q", Computed: &e, ComputedOverridable: true},
	}}
	out := ApplyComputedAnswers(s, map[string]any{"q": "manual"})
	if out["q"] != "manual" {
		t.Fatalf("got %#v", out)
	}
}

func TestApplyComputedAnswersNonOverridableAlwaysRecomputes(t *testing.T) {
	e := expr.Literal("computed-value")
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "q", Computed: &e, ComputedOverridable: false},
	}}
	out := ApplyComputedAnswers(s, map[string]any{"q": "manual"})
	if out["q"] != "computed-value" {
		t.Fatalf("got %#v", out)
	}
}

func TestApplyComputedAnswersUnresolvedClearsField(t *testing.T) {
	e := expr.Var("missing.path")
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "q", Computed: &e},
	}}
	out := ApplyComputedAnswers(s, map[string]any{"q": "stale"})
	if _, present := out["q"]; present {
		t.Fatalf("expected field cleared, got %#v", out)
	}
}
