// Package visibility resolves each question's `visible_if` expression into
// a flat visibility map consulted by validation, progress, and rendering.
package visibility

import (
	"github.com/greentic-ai/qa-spec-go/computed"
	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/spec"
)

// Map is question id -> visible.
type Map map[string]bool

// Mode decides how an unresolved `visible_if` expression is treated.
type Mode int

const (
	// ModeVisible treats an unresolved expression as visible (fail open).
	ModeVisible Mode = iota
	// ModeHidden treats an unresolved expression as hidden (fail closed).
	ModeHidden
	// ModeError treats an unresolved expression as visible, the same as
	// ModeVisible; Resolve reports nothing beyond the map.
	ModeError
)

// Resolve computes the visibility of every question in s against answers.
func Resolve(s *spec.FormSpec, answers map[string]any, mode Mode) Map {
	out := make(Map, len(s.Questions))
	ctx := computed.BuildExpressionContext(answers)

	for _, question := range s.Questions {
		visible := true
		if question.VisibleIf != nil {
			if v, ok := expr.EvaluateBool(*question.VisibleIf, ctx); ok {
				visible = v
			} else {
				switch mode {
				case ModeHidden:
					visible = false
				default:
					visible = true
				}
			}
		}
		out[question.ID] = visible
	}

	return out
}
