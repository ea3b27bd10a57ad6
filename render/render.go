// Package render turns a form spec plus its current answers into the three
// transports the engine ships to a caller: plain text, a JSON UI payload,
// and an Adaptive Card (v1.3) surfacing only the next question.
package render

import (
	"fmt"

	"github.com/greentic-ai/qa-spec-go/computed"
	"github.com/greentic-ai/qa-spec-go/i18n"
	"github.com/greentic-ai/qa-spec-go/progress"
	"github.com/greentic-ai/qa-spec-go/schema"
	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/visibility"
)

// Status labels the renderer's view of whether the form is done.
type Status string

const (
	StatusNeedInput Status = "need_input"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// Progress counts visible questions and how many are answered.
type Progress struct {
	Answered int
	Total    int
}

// Question is a single question projected for display.
type Question struct {
	ID                 string
	Title              string
	Description        string
	TitleI18nKey       string
	DescriptionI18nKey string
	Kind               spec.QuestionType
	Required           bool
	Default            string
	HasDefault         bool
	Secret             bool
	Visible            bool
	CurrentValue       any
	HasCurrentValue    bool
	Choices            []string
	List               *spec.ListSpec
}

// Payload is the renderer-agnostic view both RenderText and RenderJSONUI
// (and RenderCard) work from.
type Payload struct {
	FormID          string
	FormTitle       string
	FormVersion     string
	Status          Status
	NextQuestionID  string
	HasNextQuestion bool
	Progress        Progress
	Help            string
	HasHelp         bool
	Questions       []Question
	Schema          map[string]any
}

// BuildPayload is BuildPayloadWithI18n with no resolved i18n map.
func BuildPayload(s *spec.FormSpec, ctx map[string]any, answers map[string]any) Payload {
	return BuildPayloadWithI18n(s, ctx, answers, nil)
}

// BuildPayloadWithI18n computes derived fields, visibility, progress, and
// the answers schema, then projects every question for display.
func BuildPayloadWithI18n(s *spec.FormSpec, ctx map[string]any, answers map[string]any, resolved i18n.ResolvedMap) Payload {
	computedAnswers := computed.ApplyComputedAnswers(s, answers)
	vis := visibility.Resolve(s, computedAnswers, visibility.ModeVisible)
	progressCtx := progress.NewContext(computedAnswers, ctx)
	nextID := progress.NextQuestion(s, progressCtx, vis)

	answered := progressCtx.AnsweredCount(s, vis)
	total := 0
	for _, visible := range vis {
		if visible {
			total++
		}
	}

	requestedLocale, _ := ctx["locale"].(string)
	defaultLocale := ""
	if s.Presentation != nil {
		defaultLocale = s.Presentation.DefaultLocale
	}

	questions := make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		value, hasValue := computedAnswers[q.ID]
		var titleI18nKey, descI18nKey string
		if q.TitleI18n != nil {
			titleI18nKey = q.TitleI18n.Key
		}
		if q.DescriptionI18n != nil {
			descI18nKey = q.DescriptionI18n.Key
		}
		description := resolveDescription(q.Description, q.DescriptionI18n, resolved, requestedLocale, defaultLocale)
		questions[i] = Question{
			ID:                 q.ID,
			Title:              i18n.ResolveWithLocale(q.Title, q.TitleI18n, resolved, requestedLocale, defaultLocale),
			Description:        description,
			TitleI18nKey:       titleI18nKey,
			DescriptionI18nKey: descI18nKey,
			Kind:               q.Kind,
			Required:           q.Required,
			Default:            q.DefaultValue,
			HasDefault:         q.HasDefaultValue,
			Secret:             q.Secret,
			Visible:            vis[q.ID],
			CurrentValue:       value,
			HasCurrentValue:    hasValue,
			Choices:            q.Choices,
			List:               q.List,
		}
	}

	help, hasHelp := "", false
	if s.Presentation != nil && s.Presentation.Intro != "" {
		help, hasHelp = s.Presentation.Intro, true
	} else if s.Description != "" {
		help, hasHelp = s.Description, true
	}

	schemaValue := schema.AnswersSchema(s, vis)

	status := StatusComplete
	if nextID != "" {
		status = StatusNeedInput
	}

	return Payload{
		FormID:          s.ID,
		FormTitle:       s.Title,
		FormVersion:     s.Version,
		Status:          status,
		NextQuestionID:  nextID,
		HasNextQuestion: nextID != "",
		Progress:        Progress{Answered: answered, Total: total},
		Help:            help,
		HasHelp:         hasHelp,
		Questions:       questions,
		Schema:          schemaValue,
	}
}

func resolveDescription(fallback string, text *i18n.Text, resolved i18n.ResolvedMap, requestedLocale, defaultLocale string) string {
	if fallback != "" {
		return i18n.ResolveWithLocale(fallback, text, resolved, requestedLocale, defaultLocale)
	}
	if text != nil {
		return i18n.ResolveWithLocale(text.Key, text, resolved, requestedLocale, defaultLocale)
	}
	return ""
}

func findQuestion(payload Payload, id string) (Question, bool) {
	for _, q := range payload.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func valueToDisplay(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return fmt.Sprintf("%t", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// RenderText renders payload as a short human-readable report.
func RenderText(payload Payload) string {
	lines := []string{
		fmt.Sprintf("Form: %s (%s)", payload.FormTitle, payload.FormID),
		fmt.Sprintf("Status: %s (%d/%d)", payload.Status, payload.Progress.Answered, payload.Progress.Total),
	}
	if payload.HasHelp {
		lines = append(lines, fmt.Sprintf("Help: %s", payload.Help))
	}

	if payload.HasNextQuestion {
		lines = append(lines, fmt.Sprintf("Next question: %s", payload.NextQuestionID))
		if q, ok := findQuestion(payload, payload.NextQuestionID); ok {
			lines = append(lines, fmt.Sprintf("  Title: %s", q.Title))
			if q.Description != "" {
				lines = append(lines, fmt.Sprintf("  Description: %s", q.Description))
			}
			if q.Required {
				lines = append(lines, "  Required: yes")
			}
			if q.HasDefault {
				lines = append(lines, fmt.Sprintf("  Default: %s", q.Default))
			}
			if q.HasCurrentValue {
				lines = append(lines, fmt.Sprintf("  Current value: %s", valueToDisplay(q.CurrentValue)))
			}
		}
	} else {
		lines = append(lines, "All visible questions are answered.")
	}

	lines = append(lines, "Visible questions:")
	for _, q := range payload.Questions {
		if !q.Visible {
			continue
		}
		entry := fmt.Sprintf(" - %s (%s)", q.ID, q.Title)
		if q.Required {
			entry += " [required]"
		}
		if q.HasCurrentValue {
			entry += fmt.Sprintf(" = %s", valueToDisplay(q.CurrentValue))
		}
		lines = append(lines, entry)
	}

	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

func questionTypeLabel(kind spec.QuestionType) string { return string(kind) }

// RenderJSONUI renders payload as a structured, transport-agnostic JSON
// document.
func RenderJSONUI(payload Payload) map[string]any {
	questions := make([]map[string]any, len(payload.Questions))
	for i, q := range payload.Questions {
		m := map[string]any{
			"id":          q.ID,
			"title":       q.Title,
			"description": nilIfEmpty(q.Description),
			"type":        questionTypeLabel(q.Kind),
			"required":    q.Required,
			"visible":     q.Visible,
			"secret":      q.Secret,
		}
		if q.HasDefault {
			m["default"] = q.Default
		}
		if q.HasCurrentValue {
			m["current_value"] = q.CurrentValue
		}
		if q.Choices != nil {
			m["choices"] = q.Choices
		}
		if q.List != nil {
			m["list"] = q.List
		}
		questions[i] = m
	}

	var nextID any
	if payload.HasNextQuestion {
		nextID = payload.NextQuestionID
	}
	var help any
	if payload.HasHelp {
		help = payload.Help
	}

	return map[string]any{
		"form_id":           payload.FormID,
		"form_title":        payload.FormTitle,
		"form_version":      payload.FormVersion,
		"status":            string(payload.Status),
		"next_question_id":  nextID,
		"progress":          map[string]any{"answered": payload.Progress.Answered, "total": payload.Progress.Total},
		"help":              help,
		"questions":         questions,
		"schema":            payload.Schema,
	}
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// RenderCard renders payload as an Adaptive Card v1.3 whose body surfaces
// only the single next question (not the whole form).
func RenderCard(payload Payload) map[string]any {
	var body []any

	body = append(body, map[string]any{
		"type": "TextBlock", "text": payload.FormTitle, "weight": "Bolder", "size": "Large", "wrap": true,
	})

	if payload.HasHelp {
		body = append(body, map[string]any{"type": "TextBlock", "text": payload.Help, "wrap": true})
	}

	body = append(body, map[string]any{
		"type": "FactSet",
		"facts": []any{
			map[string]any{"title": "Answered", "value": fmt.Sprintf("%d", payload.Progress.Answered)},
			map[string]any{"title": "Total", "value": fmt.Sprintf("%d", payload.Progress.Total)},
		},
	})

	var actions []any

	if payload.HasNextQuestion {
		if q, ok := findQuestion(payload, payload.NextQuestionID); ok {
			var items []any
			items = append(items, map[string]any{"type": "TextBlock", "text": q.Title, "weight": "Bolder", "wrap": true})
			if q.Description != "" {
				items = append(items, map[string]any{"type": "TextBlock", "text": q.Description, "wrap": true, "spacing": "Small"})
			}
			items = append(items, questionInput(q))

			body = append(body, map[string]any{"type": "Container", "items": items})

			actions = append(actions, map[string]any{
				"type":  "Action.Submit",
				"title": "Next ➡️",
				"data": map[string]any{
					"qa": map[string]any{
						"formId":     payload.FormID,
						"mode":       "patch",
						"questionId": q.ID,
						"field":      "answer",
					},
				},
			})
		}
	} else {
		body = append(body, map[string]any{"type": "TextBlock", "text": "All visible questions are answered.", "wrap": true})
	}

	return map[string]any{
		"$schema": "http://adaptivecards.io/schemas/adaptive-card.json",
		"type":    "AdaptiveCard",
		"version": "1.3",
		"body":    body,
		"actions": actions,
	}
}

func questionInput(q Question) map[string]any {
	switch q.Kind {
	case spec.TypeString, spec.TypeInteger, spec.TypeNumber:
		m := map[string]any{"type": "Input.Text", "id": q.ID, "isRequired": q.Required}
		if q.HasCurrentValue {
			m["value"] = valueToDisplay(q.CurrentValue)
		}
		return m
	case spec.TypeBoolean:
		m := map[string]any{
			"type": "Input.Toggle", "id": q.ID, "title": q.Title, "isRequired": q.Required,
			"valueOn": "true", "valueOff": "false",
		}
		if q.HasCurrentValue {
			if b, ok := q.CurrentValue.(bool); ok && b {
				m["value"] = "true"
			} else {
				m["value"] = "false"
			}
		}
		return m
	case spec.TypeEnum:
		choices := make([]any, len(q.Choices))
		for i, c := range q.Choices {
			choices[i] = map[string]any{"title": c, "value": c}
		}
		m := map[string]any{
			"type": "Input.ChoiceSet", "id": q.ID, "style": "compact", "isRequired": q.Required, "choices": choices,
		}
		if q.HasCurrentValue {
			m["value"] = valueToDisplay(q.CurrentValue)
		}
		return m
	case spec.TypeList:
		count := 0
		if arr, ok := q.CurrentValue.([]any); ok {
			count = len(arr)
		}
		return map[string]any{
			"type": "TextBlock",
			"text": fmt.Sprintf("List group '%s' (%d entries)", q.Title, count),
			"wrap": true,
		}
	default:
		return map[string]any{"type": "Input.Text", "id": q.ID}
	}
}

// Frontend abstracts the three render transports so callers can swap in a
// channel-specific implementation (e.g. a chat adapter) without touching
// the engine.
type Frontend interface {
	RenderTextUI(payload Payload) string
	RenderJSONUI(payload Payload) map[string]any
	RenderAdaptiveCard(payload Payload) map[string]any
}

// DefaultFrontend implements Frontend with the package-level renderers.
type DefaultFrontend struct{}

func (DefaultFrontend) RenderTextUI(payload Payload) string               { return RenderText(payload) }
func (DefaultFrontend) RenderJSONUI(payload Payload) map[string]any       { return RenderJSONUI(payload) }
func (DefaultFrontend) RenderAdaptiveCard(payload Payload) map[string]any { return RenderCard(payload) }
