// Package expr implements the small typed expression AST the engine folds
// over a JSON context to resolve visibility predicates, computed-field
// derivations, and cross-field validation conditions.
//
// Every evaluation returns an (value, ok) pair rather than panicking or
// erroring: a missing path, a type mismatch, or an incomparable pair of
// operands all collapse to "no value" (ok == false), and callers decide the
// fallback (see the visibility package's per-mode default).
package expr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Op is the discriminant tag used in an expression's JSON encoding.
type Op string

const (
	OpLiteral Op = "literal"
	OpVar     Op = "var"
	OpAnswer  Op = "answer"
	OpIsSet   Op = "is_set"
	OpAnd     Op = "and"
	OpOr      Op = "or"
	OpNot     Op = "not"
	OpEq      Op = "eq"
	OpNe      Op = "ne"
	OpLt      Op = "lt"
	OpLte     Op = "lte"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
)

// Expr is the expression AST. Only the fields that belong to Op are
// meaningful (Left and Right together for the comparison ops, one field
// for every other op).
type Expr struct {
	Op Op `json:"op"`

	Value any    `json:"value,omitempty"` // literal
	Path  string `json:"path,omitempty"`  // var / answer / is_set

	Expressions []Expr `json:"expressions,omitempty"` // and / or
	Expression  *Expr  `json:"expression,omitempty"`  // not

	Left  *Expr `json:"left,omitempty"`  // eq/ne/lt/lte/gt/gte
	Right *Expr `json:"right,omitempty"`
}

// Literal builds a Literal expression.
func Literal(v any) Expr { return Expr{Op: OpLiteral, Value: v} }

// Var builds a Var expression.
func Var(path string) Expr { return Expr{Op: OpVar, Path: path} }

// Answer builds an Answer expression.
func Answer(path string) Expr { return Expr{Op: OpAnswer, Path: path} }

// IsSet builds an IsSet expression.
func IsSet(path string) Expr { return Expr{Op: OpIsSet, Path: path} }

// And builds an And expression.
func And(xs ...Expr) Expr { return Expr{Op: OpAnd, Expressions: xs} }

// Or builds an Or expression.
func Or(xs ...Expr) Expr { return Expr{Op: OpOr, Expressions: xs} }

// Not builds a Not expression.
func Not(x Expr) Expr { return Expr{Op: OpNot, Expression: &x} }

func binary(op Op, left, right Expr) Expr {
	return Expr{Op: op, Left: &left, Right: &right}
}

// Eq builds an Eq expression.
func Eq(left, right Expr) Expr { return binary(OpEq, left, right) }

// Ne builds an Ne expression.
func Ne(left, right Expr) Expr { return binary(OpNe, left, right) }

// Lt builds a Lt expression.
func Lt(left, right Expr) Expr { return binary(OpLt, left, right) }

// Lte builds a Lte expression.
func Lte(left, right Expr) Expr { return binary(OpLte, left, right) }

// Gt builds a Gt expression.
func Gt(left, right Expr) Expr { return binary(OpGt, left, right) }

// Gte builds a Gte expression.
func Gte(left, right Expr) Expr { return binary(OpGte, left, right) }

// EvaluateValue evaluates expr against ctx and returns the resulting JSON
// value, or ok=false if any subexpression could not be resolved.
func EvaluateValue(e Expr, ctx any) (any, bool) {
	switch e.Op {
	case OpLiteral:
		return e.Value, true

	case OpVar:
		return lookupPointer(ctx, e.Path)

	case OpAnswer:
		return lookupAnswer(ctx, e.Path)

	case OpIsSet:
		_, found := lookupAnswer(ctx, e.Path)
		return found, true

	case OpAnd:
		return evaluateAnd(e.Expressions, ctx)

	case OpOr:
		return evaluateOr(e.Expressions, ctx)

	case OpNot:
		if e.Expression == nil {
			return nil, false
		}
		b, ok := EvaluateBool(*e.Expression, ctx)
		if !ok {
			return nil, false
		}
		return !b, true

	case OpEq, OpNe:
		lv, lok := evalOperand(e.Left, ctx)
		rv, rok := evalOperand(e.Right, ctx)
		if !lok || !rok {
			return nil, false
		}
		eq := jsonEqual(lv, rv)
		if e.Op == OpNe {
			return !eq, true
		}
		return eq, true

	case OpLt, OpLte, OpGt, OpGte:
		lv, lok := evalOperand(e.Left, ctx)
		rv, rok := evalOperand(e.Right, ctx)
		if !lok || !rok {
			return nil, false
		}
		ord, ok := compareValues(lv, rv)
		if !ok {
			return nil, false
		}
		switch e.Op {
		case OpLt:
			return ord < 0, true
		case OpLte:
			return ord <= 0, true
		case OpGt:
			return ord > 0, true
		default: // OpGte
			return ord >= 0, true
		}

	default:
		return nil, false
	}
}

func evalOperand(e *Expr, ctx any) (any, bool) {
	if e == nil {
		return nil, false
	}
	return EvaluateValue(*e, ctx)
}

// EvaluateBool evaluates expr and coerces the result to a boolean per the
// truthiness rules in spec.md §4.1.
func EvaluateBool(e Expr, ctx any) (bool, bool) {
	v, ok := EvaluateValue(e, ctx)
	if !ok {
		return false, false
	}
	return coerceBool(v)
}

func coerceBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case float64:
		return val != 0, true
	case int:
		return val != 0, true
	case string:
		switch strings.ToLower(val) {
		case "true", "t", "yes", "y", "1":
			return true, true
		case "false", "f", "no", "n", "0":
			return false, true
		default:
			return false, false
		}
	case nil:
		return false, true
	default:
		return false, false
	}
}

func evaluateAnd(xs []Expr, ctx any) (any, bool) {
	seenNone := false
	for _, x := range xs {
		b, ok := EvaluateBool(x, ctx)
		switch {
		case ok && !b:
			return false, true
		case ok && b:
			continue
		default:
			seenNone = true
		}
	}
	if seenNone {
		return nil, false
	}
	return true, true
}

func evaluateOr(xs []Expr, ctx any) (any, bool) {
	seenNone := false
	for _, x := range xs {
		b, ok := EvaluateBool(x, ctx)
		switch {
		case ok && b:
			return true, true
		case ok && !b:
			continue
		default:
			seenNone = true
		}
	}
	if seenNone {
		return nil, false
	}
	return false, true
}

// compareValues returns (-1|0|1, true) for comparable operands, or
// (0, false) when the pair can't be ordered.
func compareValues(left, right any) (int, bool) {
	lf, lIsNum := asFloat(left)
	rf, rIsNum := asFloat(right)
	if lIsNum && rIsNum {
		switch {
		case lf < rf:
			return -1, true
		case lf > rf:
			return 1, true
		default:
			return 0, true
		}
	}

	ls, lIsStr := left.(string)
	rs, rIsStr := right.(string)
	if lIsStr && rIsStr {
		return strings.Compare(ls, rs), true
	}

	if jsonEqual(left, right) {
		return 0, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// jsonEqual compares two decoded JSON values for equality, treating numeric
// values under different Go types (float64 vs int) as equal by value.
func jsonEqual(a, b any) bool {
	af, aIsNum := asFloat(a)
	bf, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		return af == bf
	}

	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !jsonEqual(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// lookupPointer resolves a Var path: a bare dotted path (no leading '/') is
// normalised to a JSON pointer by replacing '.' with '/'; a path already
// starting with '/' is used as-is (mixed paths like "/a.b/c" pass through
// unchanged — spec.md Open Question 1).
func lookupPointer(ctx any, path string) (any, bool) {
	return pointerGet(ctx, normalizePointer(path))
}

func normalizePointer(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	if strings.HasPrefix(trimmed, "/") {
		return trimmed
	}
	segments := strings.Split(strings.TrimPrefix(trimmed, "/"), ".")
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return "/" + strings.Join(kept, "/")
}

// lookupAnswer resolves an Answer/IsSet path inside ctx.answers (or ctx
// itself when there is no "answers" field). Paths starting with '/' are
// JSON pointers; otherwise dotted segments, with pure-digit segments
// interpreted as array indices.
func lookupAnswer(ctx any, path string) (any, bool) {
	root := ctx
	if obj, ok := ctx.(map[string]any); ok {
		if answers, has := obj["answers"]; has {
			root = answers
		}
	}
	return fetchNested(root, path)
}

func fetchNested(value any, path string) (any, bool) {
	if strings.HasPrefix(path, "/") {
		return pointerGet(value, path)
	}
	current := value
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			continue
		}
		next, ok := indexInto(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func indexInto(value any, segment string) (any, bool) {
	if n, err := strconv.Atoi(segment); err == nil {
		if arr, ok := value.([]any); ok {
			if n < 0 || n >= len(arr) {
				return nil, false
			}
			return arr[n], true
		}
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, has := obj[segment]
	return v, has
}

// pointerGet resolves an RFC-6901 JSON pointer (leading '/', '/'-separated
// segments, '~1' decoded to '/' and '~0' decoded to '~') against value.
func pointerGet(value any, pointer string) (any, bool) {
	if pointer == "" || pointer == "/" {
		if pointer == "/" {
			return indexInto(value, "")
		}
		return value, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}
	current := value
	for _, raw := range strings.Split(pointer[1:], "/") {
		token := unescapeToken(raw)
		next, ok := indexInto(current, token)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func unescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// escapeToken encodes a raw object key as an RFC-6901 pointer token.
func escapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// JoinPointer builds a JSON pointer from literal (unescaped) segments.
func JoinPointer(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = escapeToken(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// MarshalJSON renders the expression using its Op as a snake_case "op"
// discriminant, per the wire format in spec.md §6.
func (e Expr) MarshalJSON() ([]byte, error) {
	m := map[string]any{"op": string(e.Op)}
	switch e.Op {
	case OpLiteral:
		m["value"] = e.Value
	case OpVar, OpAnswer, OpIsSet:
		m["path"] = e.Path
	case OpAnd, OpOr:
		m["expressions"] = e.Expressions
	case OpNot:
		if e.Expression != nil {
			m["expression"] = *e.Expression
		}
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		if e.Left != nil {
			m["left"] = *e.Left
		}
		if e.Right != nil {
			m["right"] = *e.Right
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf strings.Builder
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}

// UnmarshalJSON parses the "op"-tagged wire format back into an Expr.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var raw struct {
		Op          string          `json:"op"`
		Value       any             `json:"value"`
		Path        string          `json:"path"`
		Expressions []Expr          `json:"expressions"`
		Expression  json.RawMessage `json:"expression"`
		Left        json.RawMessage `json:"left"`
		Right       json.RawMessage `json:"right"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Op = Op(raw.Op)
	e.Value = raw.Value
	e.Path = raw.Path
	e.Expressions = raw.Expressions

	if len(raw.Expression) > 0 {
		var inner Expr
		if err := json.Unmarshal(raw.Expression, &inner); err != nil {
			return err
		}
		e.Expression = &inner
	}
	if len(raw.Left) > 0 {
		var inner Expr
		if err := json.Unmarshal(raw.Left, &inner); err != nil {
			return err
		}
		e.Left = &inner
	}
	if len(raw.Right) > 0 {
		var inner Expr
		if err := json.Unmarshal(raw.Right, &inner); err != nil {
			return err
		}
		e.Right = &inner
	}
	switch e.Op {
	case OpLiteral, OpVar, OpAnswer, OpIsSet, OpAnd, OpOr, OpNot,
		OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		return nil
	default:
		return fmt.Errorf("expr: unknown op %q", raw.Op)
	}
}
