// Package runner builds deterministic plans for submitting answers (patch,
// submit-all, or advance-to-next) and applies a validated plan's store
// effects once a caller decides to commit it.
package runner

import (
	"fmt"

	"github.com/greentic-ai/qa-spec-go/answers"
	"github.com/greentic-ai/qa-spec-go/render"
	"github.com/greentic-ai/qa-spec-go/secrets"
	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/store"
	"github.com/greentic-ai/qa-spec-go/validate"
)

// QaPlanV1 is the versioned, deterministic plan produced by the planning
// functions below: it never mutates the store on its own.
type QaPlanV1 struct {
	PlanVersion    uint16
	FormID         string
	ValidatedPatch map[string]any
	Validation     answers.ValidationResult
	Payload        render.Payload
	Effects        []store.Op
	Warnings       []string
	Errors         []string
}

// IsValid reports whether the plan's answers passed validation.
func (p *QaPlanV1) IsValid() bool { return p.Validation.Valid }

// PlanSubmitPatch builds a plan for setting a single question's answer on
// top of the current answers, without applying any side effects.
func PlanSubmitPatch(s *spec.FormSpec, ctx map[string]any, currentAnswers map[string]any, questionID string, value any) QaPlanV1 {
	patched := make(map[string]any, len(currentAnswers)+1)
	for k, v := range currentAnswers {
		patched[k] = v
	}
	patched[questionID] = value
	return buildPlan(s, ctx, patched)
}

// PlanSubmitAll builds a plan for replacing the whole answer set, without
// applying any side effects.
func PlanSubmitAll(s *spec.FormSpec, ctx map[string]any, newAnswers map[string]any) QaPlanV1 {
	return buildPlan(s, ctx, NormalizeAnswers(newAnswers))
}

// PlanNext builds a plan for the current answers/context, useful for
// re-deriving the next question without changing any answer.
func PlanNext(s *spec.FormSpec, ctx map[string]any, currentAnswers map[string]any) QaPlanV1 {
	return buildPlan(s, ctx, NormalizeAnswers(currentAnswers))
}

func buildPlan(s *spec.FormSpec, ctx map[string]any, patchedAnswers map[string]any) QaPlanV1 {
	validation := validate.Validate(s, patchedAnswers)
	payload := render.BuildPayload(s, ctx, patchedAnswers)

	var effects []store.Op
	if validation.Valid {
		effects = s.Store
	}

	var errs []string
	if !validation.Valid {
		for _, e := range validation.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", e.Path, e.Message))
		}
		for _, field := range validation.MissingRequired {
			errs = append(errs, fmt.Sprintf("missing required: %s", field))
		}
		for _, field := range validation.UnknownFields {
			errs = append(errs, fmt.Sprintf("unknown field: %s", field))
		}
	}

	return QaPlanV1{
		PlanVersion:    1,
		FormID:         s.ID,
		ValidatedPatch: patchedAnswers,
		Validation:     validation,
		Payload:        payload,
		Effects:        effects,
		Warnings:       nil,
		Errors:         errs,
	}
}

// ExecutePlanEffects commits a valid plan's store effects into storeCtx. An
// invalid plan is a no-op: the caller is expected to surface Plan.Errors to
// the user instead of committing anything.
func ExecutePlanEffects(plan *QaPlanV1, storeCtx *store.Context, policy *secrets.Policy, hostAvailable bool) error {
	if !plan.IsValid() {
		return nil
	}
	storeCtx.Answers = plan.ValidatedPatch
	return storeCtx.ApplyOps(plan.Effects, policy, hostAvailable)
}

// NormalizeAnswers canonicalizes an incoming answers value into a non-nil
// object map.
func NormalizeAnswers(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}
	return in
}
