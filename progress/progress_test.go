package progress

import (
	"testing"

	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/store"
	"github.com/greentic-ai/qa-spec-go/visibility"
)

func TestNextQuestionSkipsAnswered(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "a"}, {ID: "b"},
	}}
	ctx := NewContext(map[string]any{"a": "x"}, map[string]any{})
	vis := visibility.Map{"a": true, "b": true}
	if got := NextQuestion(s, ctx, vis); got != "b" {
		t.Fatalf("got %q", got)
	}
}

func TestNextQuestionNoneWhenAllAnswered(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{{ID: "a"}}}
	ctx := NewContext(map[string]any{"a": "x"}, map[string]any{})
	vis := visibility.Map{"a": true}
	if got := NextQuestion(s, ctx, vis); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestNextQuestionSkipsHidden(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{{ID: "a"}, {ID: "b"}}}
	ctx := NewContext(map[string]any{}, map[string]any{})
	vis := visibility.Map{"a": false, "b": true}
	if got := NextQuestion(s, ctx, vis); got != "b" {
		t.Fatalf("got %q", got)
	}
}

func TestSkipIfPresentIn(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "region", QuestionPolicy: spec.Policy{SkipIfPresentIn: []store.Target{store.TargetConfig}}},
	}}
	ctx := NewContext(map[string]any{}, map[string]any{"config": map[string]any{"region": "eu"}})
	vis := visibility.Map{"region": true}
	if got := NextQuestion(s, ctx, vis); got != "" {
		t.Fatalf("got %q, expected skipped because present in config", got)
	}
}
