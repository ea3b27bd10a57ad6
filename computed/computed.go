// Package computed derives expression-backed answer fields and builds the
// evaluation context expressions run against.
package computed

import (
	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/spec"
)

// BuildExpressionContext builds the context expressions evaluate against:
// every top-level answer key is addressable directly by id, plus the whole
// answer map under the "answers" key (so `Answer{path}` and `Var{path}`
// can both resolve the same data).
func BuildExpressionContext(answers map[string]any) map[string]any {
	ctx := make(map[string]any, len(answers)+1)
	for k, v := range answers {
		ctx[k] = v
	}
	ctx["answers"] = answers
	return ctx
}

// ApplyComputedAnswers evaluates every question's `computed` expression in
// declaration order and folds the result into a new answer map. A question
// already answered is left untouched only when it is marked
// computed_overridable; otherwise its computed expression always
// re-derives the value (and clears it if the expression no longer
// resolves).
func ApplyComputedAnswers(s *spec.FormSpec, answers map[string]any) map[string]any {
	out := make(map[string]any, len(answers))
	for k, v := range answers {
		out[k] = v
	}

	for _, question := range s.Questions {
		if question.Computed == nil {
			continue
		}
		if _, present := out[question.ID]; present && question.ComputedOverridable {
			continue
		}
		ctx := BuildExpressionContext(out)
		if value, ok := expr.EvaluateValue(*question.Computed, ctx); ok {
			out[question.ID] = value
		} else {
			delete(out, question.ID)
		}
	}

	return out
}
