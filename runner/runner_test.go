package runner

import (
	"testing"

	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/store"
)

func form() *spec.FormSpec {
	return &spec.FormSpec{
		ID: "intake", Title: "Intake", Version: "1",
		Questions: []spec.QuestionSpec{
			{ID: "name", Kind: spec.TypeString, Title: "Name", Required: true},
		},
		Store: []store.Op{{Target: store.TargetState, Path: "/submitted", Value: true}},
	}
}

func TestPlanSubmitPatchValid(t *testing.T) {
	plan := PlanSubmitPatch(form(), map[string]any{}, map[string]any{}, "name", "Ada")
	if !plan.IsValid() {
		t.Fatalf("expected valid plan, errors: %v", plan.Errors)
	}
	if len(plan.Effects) != 1 {
		t.Fatalf("expected effects to be included for a valid plan, got %v", plan.Effects)
	}
	if plan.ValidatedPatch["name"] != "Ada" {
		t.Fatalf("got %#v", plan.ValidatedPatch)
	}
}

func TestPlanSubmitPatchInvalidHasNoEffects(t *testing.T) {
	plan := PlanSubmitPatch(form(), map[string]any{}, map[string]any{}, "other", "x")
	if plan.IsValid() {
		t.Fatal("expected invalid plan (missing required name)")
	}
	if len(plan.Effects) != 0 {
		t.Fatalf("expected no effects for an invalid plan, got %v", plan.Effects)
	}
	if len(plan.Errors) == 0 {
		t.Fatal("expected descriptive errors")
	}
}

func TestExecutePlanEffectsSkipsInvalidPlan(t *testing.T) {
	plan := PlanSubmitPatch(form(), map[string]any{}, map[string]any{}, "other", "x")
	storeCtx := store.FromValue(map[string]any{})
	if err := ExecutePlanEffects(&plan, storeCtx, nil, false); err != nil {
		t.Fatal(err)
	}
	if state, ok := storeCtx.State.(map[string]any); !ok || state["submitted"] != nil {
		t.Fatalf("expected store untouched, got %#v", storeCtx.State)
	}
}

func TestExecutePlanEffectsAppliesValidPlan(t *testing.T) {
	plan := PlanSubmitPatch(form(), map[string]any{}, map[string]any{}, "name", "Ada")
	storeCtx := store.FromValue(map[string]any{})
	if err := ExecutePlanEffects(&plan, storeCtx, nil, false); err != nil {
		t.Fatal(err)
	}
	state, ok := storeCtx.State.(map[string]any)
	if !ok || state["submitted"] != true {
		t.Fatalf("got %#v", storeCtx.State)
	}
}

func TestNormalizeAnswersNilBecomesEmptyMap(t *testing.T) {
	out := NormalizeAnswers(nil)
	if out == nil || len(out) != 0 {
		t.Fatalf("got %#v", out)
	}
}
