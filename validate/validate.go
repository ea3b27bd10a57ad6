// Package validate checks an answer set against a form spec: required
// fields, type/constraint/enum/list rules per question, and cross-field
// conditions declared at the form level.
package validate

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/greentic-ai/qa-spec-go/answers"
	"github.com/greentic-ai/qa-spec-go/computed"
	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/visibility"
)

// Validate checks the given answers against the form spec and returns a
// batched result: it never short-circuits on the first problem.
func Validate(s *spec.FormSpec, rawAnswers map[string]any) answers.ValidationResult {
	computedAnswers := computed.ApplyComputedAnswers(s, rawAnswers)
	vis := visibility.Resolve(s, computedAnswers, visibility.ModeVisible)

	var errs []answers.ValidationError
	var missingRequired []string

	for _, question := range s.Questions {
		if !vis[question.ID] {
			continue
		}
		value, present := computedAnswers[question.ID]
		if !present {
			if question.Required {
				missingRequired = append(missingRequired, question.ID)
			}
			continue
		}
		if err := validateValue(&question, value); err != nil {
			errs = append(errs, *err)
		}
	}

	allIDs := make(map[string]bool, len(s.Questions))
	for _, q := range s.Questions {
		allIDs[q.ID] = true
	}
	var unknownFields []string
	for key := range computedAnswers {
		if !allIDs[key] {
			unknownFields = append(unknownFields, key)
		}
	}
	sort.Strings(unknownFields)

	ctx := computed.BuildExpressionContext(computedAnswers)
	for _, validation := range s.Validations {
		if ok, resolved := expr.EvaluateBool(validation.Condition, ctx); resolved && ok {
			var questionID, path string
			if len(validation.Fields) > 0 {
				questionID = validation.Fields[0]
				path = "/" + validation.Fields[0]
			} else {
				questionID = validation.ID
			}
			errs = append(errs, answers.ValidationError{
				QuestionID: questionID,
				Path:       path,
				Message:    validation.Message,
				Code:       validation.Code,
			})
		}
	}

	return answers.ValidationResult{
		Valid:           len(errs) == 0 && len(missingRequired) == 0 && len(unknownFields) == 0,
		Errors:          errs,
		MissingRequired: missingRequired,
		UnknownFields:   unknownFields,
	}
}

func validateValue(question *spec.QuestionSpec, value any) *answers.ValidationError {
	if !matchesType(question, value) {
		return &answers.ValidationError{
			QuestionID: question.ID,
			Path:       "/" + question.ID,
			Message:    "type mismatch",
			Code:       "type_mismatch",
		}
	}

	if question.Kind == spec.TypeList {
		if err := validateList(question, value); err != nil {
			return err
		}
	}

	if question.Constraint != nil {
		if err := enforceConstraint(question, value, question.Constraint); err != nil {
			return err
		}
	}

	if question.Kind == spec.TypeEnum && question.Choices != nil {
		if text, ok := value.(string); ok && !containsString(question.Choices, text) {
			return &answers.ValidationError{
				QuestionID: question.ID,
				Path:       "/" + question.ID,
				Message:    "invalid enum option",
				Code:       "enum_mismatch",
			}
		}
	}

	return nil
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func matchesType(question *spec.QuestionSpec, value any) bool {
	switch question.Kind {
	case spec.TypeString, spec.TypeEnum:
		_, ok := value.(string)
		return ok
	case spec.TypeBoolean:
		_, ok := value.(bool)
		return ok
	case spec.TypeInteger:
		return isInteger(value)
	case spec.TypeNumber:
		return isNumber(value)
	case spec.TypeList:
		_, ok := value.([]any)
		return ok
	default:
		return false
	}
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int64:
		return true
	default:
		return false
	}
}

func isInteger(value any) bool {
	switch v := value.(type) {
	case int, int64:
		return true
	case float64:
		return v == float64(int64(v))
	default:
		return false
	}
}

func validateList(question *spec.QuestionSpec, value any) *answers.ValidationError {
	list := question.List
	if list == nil {
		return baseError(question, "list fields are not defined", "missing_list_definition")
	}

	items, ok := value.([]any)
	if !ok {
		return baseError(question, "list value must be an array", "list_type")
	}

	if list.MinItems != nil && len(items) < *list.MinItems {
		return listCountError(question, *list.MinItems, len(items), "not enough list entries", "min_items")
	}
	if list.MaxItems != nil && len(items) > *list.MaxItems {
		return listCountError(question, *list.MaxItems, len(items), "too many list entries", "max_items")
	}

	for idx, entry := range items {
		entryMap, ok := entry.(map[string]any)
		if !ok {
			return &answers.ValidationError{
				QuestionID: question.ID,
				Path:       fmt.Sprintf("/%s/%d", question.ID, idx),
				Message:    "list entry must be an object",
				Code:       "entry_type",
			}
		}

		for _, field := range list.Fields {
			fieldValue, present := entryMap[field.ID]
			if !present {
				if field.Required {
					return &answers.ValidationError{
						QuestionID: fmt.Sprintf("%s[%d].%s", question.ID, idx, field.ID),
						Path:       fmt.Sprintf("/%s/%d/%s", question.ID, idx, field.ID),
						Message:    fmt.Sprintf("field '%s' is required", field.ID),
						Code:       "missing_field",
					}
				}
				continue
			}
			if err := validateValue(&field, fieldValue); err != nil {
				err.QuestionID = fmt.Sprintf("%s[%d].%s", question.ID, idx, field.ID)
				err.Path = fmt.Sprintf("/%s/%d/%s", question.ID, idx, field.ID)
				return err
			}
		}
	}

	return nil
}

func listCountError(question *spec.QuestionSpec, threshold, actual int, message, code string) *answers.ValidationError {
	return &answers.ValidationError{
		QuestionID: question.ID,
		Path:       "/" + question.ID,
		Message:    fmt.Sprintf("%s (expected %d, got %d)", message, threshold, actual),
		Code:       code,
	}
}

func enforceConstraint(question *spec.QuestionSpec, value any, constraint *spec.Constraint) *answers.ValidationError {
	if constraint.Pattern != "" {
		if text, ok := value.(string); ok {
			if re, err := regexp.Compile(constraint.Pattern); err == nil && !re.MatchString(text) {
				return baseError(question, "value does not match pattern", "pattern_mismatch")
			}
		}
	}

	if constraint.MinLen != nil {
		if text, ok := value.(string); ok && len(text) < *constraint.MinLen {
			return baseError(question, "string shorter than min length", "min_length")
		}
	}

	if constraint.MaxLen != nil {
		if text, ok := value.(string); ok && len(text) > *constraint.MaxLen {
			return baseError(question, "string longer than max length", "max_length")
		}
	}

	if constraint.Min != nil {
		if n, ok := asFloat(value); ok && n < *constraint.Min {
			return baseError(question, "value below minimum", "min")
		}
	}

	if constraint.Max != nil {
		if n, ok := asFloat(value); ok && n > *constraint.Max {
			return baseError(question, "value above maximum", "max")
		}
	}

	return nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func baseError(question *spec.QuestionSpec, message, code string) *answers.ValidationError {
	return &answers.ValidationError{
		QuestionID: question.ID,
		Path:       "/" + question.ID,
		Message:    message,
		Code:       code,
	}
}
