// Package compose expands a form's `includes` against a registry of known
// forms into a single flattened spec with deterministic, prefix-namespaced
// question ids.
package compose

import (
	"fmt"
	"strings"

	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/spec"
)

// IncludeError is returned by Expand when includes cannot be resolved.
type IncludeError struct {
	Kind    string
	FormRef string
	Chain   []string
	QID     string
}

func (e *IncludeError) Error() string {
	switch e.Kind {
	case "missing_target":
		return fmt.Sprintf("missing include target '%s'", e.FormRef)
	case "cycle":
		return fmt.Sprintf("include cycle detected: %v", e.Chain)
	case "duplicate_id":
		return fmt.Sprintf("duplicate question id after include expansion: '%s'", e.QID)
	default:
		return "compose: unknown error"
	}
}

// Expand recursively expands root's includes against registry (keyed by
// form id) into a single flattened FormSpec with deterministic ordering:
// root's own questions/validations first, then each include in
// declaration order.
func Expand(root *spec.FormSpec, registry map[string]*spec.FormSpec) (*spec.FormSpec, error) {
	chain := []string{}
	seen := map[string]bool{}
	return expandForm(root, "", registry, &chain, seen)
}

func expandForm(form *spec.FormSpec, prefix string, registry map[string]*spec.FormSpec, chain *[]string, seenIDs map[string]bool) (*spec.FormSpec, error) {
	for _, id := range *chain {
		if id == form.ID {
			start := 0
			for i, v := range *chain {
				if v == form.ID {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, (*chain)[start:]...), form.ID)
			return nil, &IncludeError{Kind: "cycle", Chain: cycle}
		}
	}
	*chain = append(*chain, form.ID)
	defer func() { *chain = (*chain)[:len(*chain)-1] }()

	out := form.Clone()
	out.Questions = nil
	out.Validations = nil
	out.Includes = nil

	for _, question := range form.Questions {
		q := applyPrefixQuestion(question, prefix)
		if seenIDs[q.ID] {
			return nil, &IncludeError{Kind: "duplicate_id", QID: q.ID}
		}
		seenIDs[q.ID] = true
		out.Questions = append(out.Questions, q)
	}

	for _, validation := range form.Validations {
		out.Validations = append(out.Validations, applyPrefixValidation(validation, prefix))
	}

	for _, include := range form.Includes {
		included, ok := registry[include.FormRef]
		if !ok {
			return nil, &IncludeError{Kind: "missing_target", FormRef: include.FormRef}
		}
		nestedPrefix := combinePrefix(prefix, include.Prefix)
		expanded, err := expandForm(included, nestedPrefix, registry, chain, seenIDs)
		if err != nil {
			return nil, err
		}
		out.Questions = append(out.Questions, expanded.Questions...)
		out.Validations = append(out.Validations, expanded.Validations...)
	}

	return &out, nil
}

func applyPrefixValidation(v spec.CrossFieldValidation, prefix string) spec.CrossFieldValidation {
	if prefix == "" {
		return v
	}
	out := v
	if out.ID != "" {
		out.ID = prefixKey(prefix, out.ID)
	}
	fields := make([]string, len(out.Fields))
	for i, f := range out.Fields {
		fields[i] = prefixKey(prefix, f)
	}
	out.Fields = fields
	out.Condition = prefixExpr(out.Condition, prefix)
	return out
}

func applyPrefixQuestion(q spec.QuestionSpec, prefix string) spec.QuestionSpec {
	if prefix == "" {
		return q
	}
	out := q
	out.ID = prefixKey(prefix, out.ID)
	if out.VisibleIf != nil {
		e := prefixExpr(*out.VisibleIf, prefix)
		out.VisibleIf = &e
	}
	if out.Computed != nil {
		e := prefixExpr(*out.Computed, prefix)
		out.Computed = &e
	}
	if out.List != nil {
		list := *out.List
		fields := make([]spec.QuestionSpec, len(list.Fields))
		for i, f := range list.Fields {
			fields[i] = applyPrefixQuestion(f, prefix)
		}
		list.Fields = fields
		out.List = &list
	}
	return out
}

func prefixExpr(e expr.Expr, prefix string) expr.Expr {
	switch e.Op {
	case expr.OpAnswer, expr.OpIsSet:
		e.Path = prefixPath(prefix, e.Path)
		return e
	case expr.OpAnd, expr.OpOr:
		exprs := make([]expr.Expr, len(e.Expressions))
		for i, sub := range e.Expressions {
			exprs[i] = prefixExpr(sub, prefix)
		}
		e.Expressions = exprs
		return e
	case expr.OpNot:
		if e.Expression != nil {
			inner := prefixExpr(*e.Expression, prefix)
			e.Expression = &inner
		}
		return e
	case expr.OpEq, expr.OpNe, expr.OpLt, expr.OpLte, expr.OpGt, expr.OpGte:
		if e.Left != nil {
			left := prefixExpr(*e.Left, prefix)
			e.Left = &left
		}
		if e.Right != nil {
			right := prefixExpr(*e.Right, prefix)
			e.Right = &right
		}
		return e
	default:
		return e
	}
}

func prefixPath(prefix, path string) string {
	if path == "" || strings.HasPrefix(path, "/") || prefix == "" {
		return path
	}
	return prefix + "." + path
}

func prefixKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func combinePrefix(parent string, child string) string {
	switch {
	case parent == "" && child == "":
		return ""
	case child == "":
		return parent
	case parent == "":
		return child
	default:
		return parent + "." + child
	}
}
