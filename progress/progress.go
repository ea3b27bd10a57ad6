// Package progress decides which question to ask next and how many of the
// currently visible questions have been answered.
package progress

import (
	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/store"
	"github.com/greentic-ai/qa-spec-go/visibility"
)

// Context is the runtime state progress decisions are evaluated against.
type Context struct {
	answers    map[string]any
	config     map[string]any
	state      map[string]any
	payloadOut map[string]any
	secrets    map[string]any
}

// NewContext builds a Context from the already-computed answer map plus a
// combined ctx object holding config/state/payload_out/secrets.
func NewContext(answers map[string]any, ctx map[string]any) *Context {
	asMap := func(v any) map[string]any {
		if m, ok := v.(map[string]any); ok {
			return m
		}
		return map[string]any{}
	}
	return &Context{
		answers:    answers,
		config:     asMap(ctx["config"]),
		state:      asMap(ctx["state"]),
		payloadOut: asMap(ctx["payload_out"]),
		secrets:    asMap(ctx["secrets"]),
	}
}

func (c *Context) hasTarget(target store.Target, key string) bool {
	switch target {
	case store.TargetAnswers:
		_, ok := c.answers[key]
		return ok
	case store.TargetConfig:
		_, ok := c.config[key]
		return ok
	case store.TargetState:
		_, ok := c.state[key]
		return ok
	case store.TargetPayloadOut:
		_, ok := c.payloadOut[key]
		return ok
	case store.TargetSecrets:
		_, ok := c.secrets[key]
		return ok
	default:
		return false
	}
}

// AnsweredCount counts visible questions considered answered.
func (c *Context) AnsweredCount(s *spec.FormSpec, vis visibility.Map) int {
	count := 0
	for _, question := range s.Questions {
		if !vis[question.ID] {
			continue
		}
		if isAnswered(&question, c, s.ProgressPolicy) {
			count++
		}
	}
	return count
}

// NextQuestion returns the id of the first visible question that is not
// skipped (present in a skip_if_present_in target, or answered while the
// policy's skip_answered is on), or "" when every visible question is
// skipped.
func NextQuestion(s *spec.FormSpec, ctx *Context, vis visibility.Map) string {
	policy := spec.DefaultProgressPolicy()
	if s.ProgressPolicy != nil {
		policy = *s.ProgressPolicy
	}

	for _, question := range s.Questions {
		if !vis[question.ID] {
			continue
		}
		if shouldSkip(&question, ctx, &policy) {
			continue
		}
		return question.ID
	}
	return ""
}

func shouldSkip(question *spec.QuestionSpec, ctx *Context, policy *spec.ProgressPolicy) bool {
	for _, target := range question.QuestionPolicy.SkipIfPresentIn {
		if ctx.hasTarget(target, question.ID) {
			return true
		}
	}
	if policy.SkipAnswered && isAnswered(question, ctx, policy) {
		return true
	}
	return false
}

func isAnswered(question *spec.QuestionSpec, ctx *Context, policy *spec.ProgressPolicy) bool {
	_, hasAnswer := ctx.answers[question.ID]
	if hasAnswer {
		return true
	}

	effective := spec.DefaultProgressPolicy()
	if policy != nil {
		effective = *policy
	}

	if effective.AutofillDefaults && question.HasDefaultValue {
		if question.QuestionPolicy.EditableIfFromDefault {
			return false
		}
		return effective.TreatDefaultAsAnswered
	}

	return false
}
