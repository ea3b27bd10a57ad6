package expr

import (
	"encoding/json"
	"testing"
)

func ctx(answers map[string]any, vars map[string]any) map[string]any {
	m := map[string]any{}
	if answers != nil {
		m["answers"] = answers
	}
	for k, v := range vars {
		m[k] = v
	}
	return m
}

func TestLiteral(t *testing.T) {
	v, ok := EvaluateValue(Literal(float64(42)), ctx(nil, nil))
	if !ok || v != float64(42) {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestAnswerLookupDottedAndPointer(t *testing.T) {
	c := ctx(map[string]any{
		"name":  "ada",
		"items": []any{"a", "b"},
		"nested": map[string]any{
			"x": float64(1),
		},
	}, nil)

	if v, ok := EvaluateValue(Answer("name"), c); !ok || v != "ada" {
		t.Fatalf("name: got %v %v", v, ok)
	}
	if v, ok := EvaluateValue(Answer("items.1"), c); !ok || v != "b" {
		t.Fatalf("items.1: got %v %v", v, ok)
	}
	if v, ok := EvaluateValue(Answer("/nested/x"), c); !ok || v != float64(1) {
		t.Fatalf("/nested/x: got %v %v", v, ok)
	}
}

func TestAnswerLookupNoAnswersKeyFallsBackToCtx(t *testing.T) {
	c := map[string]any{"foo": "bar"}
	v, ok := EvaluateValue(Answer("foo"), c)
	if !ok || v != "bar" {
		t.Fatalf("got %v %v", v, ok)
	}
}

func TestIsSet(t *testing.T) {
	c := ctx(map[string]any{"present": "x"}, nil)
	if v, ok := EvaluateValue(IsSet("present"), c); !ok || v != true {
		t.Fatalf("present: got %v %v", v, ok)
	}
	if v, ok := EvaluateValue(IsSet("missing"), c); !ok || v != false {
		t.Fatalf("missing: got %v %v", v, ok)
	}
}

func TestVarPointerNormalization(t *testing.T) {
	c := map[string]any{"a": map[string]any{"b": float64(3)}}
	if v, ok := EvaluateValue(Var("a.b"), c); !ok || v != float64(3) {
		t.Fatalf("a.b: got %v %v", v, ok)
	}
	if v, ok := EvaluateValue(Var("/a/b"), c); !ok || v != float64(3) {
		t.Fatalf("/a/b: got %v %v", v, ok)
	}
}

func TestAndShortCircuitsFalse(t *testing.T) {
	// false, then an unresolvable expr — still resolves to false.
	e := And(Literal(false), Var("missing.path"))
	v, ok := EvaluateValue(e, ctx(nil, nil))
	if !ok || v != false {
		t.Fatalf("got %v %v", v, ok)
	}
}

func TestAndPropagatesNoneWhenNoFalseSeen(t *testing.T) {
	e := And(Literal(true), Var("missing.path"))
	_, ok := EvaluateValue(e, ctx(nil, nil))
	if ok {
		t.Fatal("expected unresolved (ok=false)")
	}
}

func TestOrShortCircuitsTrue(t *testing.T) {
	e := Or(Literal(true), Var("missing.path"))
	v, ok := EvaluateValue(e, ctx(nil, nil))
	if !ok || v != true {
		t.Fatalf("got %v %v", v, ok)
	}
}

func TestOrPropagatesNoneWhenNoTrueSeen(t *testing.T) {
	e := Or(Literal(false), Var("missing.path"))
	_, ok := EvaluateValue(e, ctx(nil, nil))
	if ok {
		t.Fatal("expected unresolved (ok=false)")
	}
}

func TestNot(t *testing.T) {
	v, ok := EvaluateValue(Not(Literal(true)), ctx(nil, nil))
	if !ok || v != false {
		t.Fatalf("got %v %v", v, ok)
	}
}

func TestEqNe(t *testing.T) {
	c := ctx(nil, nil)
	if v, ok := EvaluateValue(Eq(Literal(float64(1)), Literal(float64(1))), c); !ok || v != true {
		t.Fatalf("eq: got %v %v", v, ok)
	}
	if v, ok := EvaluateValue(Ne(Literal("a"), Literal("b")), c); !ok || v != true {
		t.Fatalf("ne: got %v %v", v, ok)
	}
}

func TestComparisonsNumericAndString(t *testing.T) {
	c := ctx(nil, nil)
	if v, ok := EvaluateValue(Lt(Literal(float64(1)), Literal(float64(2))), c); !ok || v != true {
		t.Fatalf("lt num: got %v %v", v, ok)
	}
	if v, ok := EvaluateValue(Gte(Literal("b"), Literal("a")), c); !ok || v != true {
		t.Fatalf("gte str: got %v %v", v, ok)
	}
}

func TestComparisonMismatchedTypesUnresolved(t *testing.T) {
	c := ctx(nil, nil)
	_, ok := EvaluateValue(Lt(Literal("a"), Literal(float64(1))), c)
	if ok {
		t.Fatal("expected unresolved for mismatched-type comparison")
	}
}

func TestBoolCoercion(t *testing.T) {
	cases := []struct {
		v    any
		want bool
		ok   bool
	}{
		{true, true, true},
		{float64(0), false, true},
		{float64(2), true, true},
		{"yes", true, true},
		{"No", false, true},
		{"Y", true, true},
		{nil, false, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		got, ok := coerceBool(tc.v)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("coerceBool(%#v) = %v, %v; want %v, %v", tc.v, got, ok, tc.want, tc.ok)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	e := And(
		IsSet("email"),
		Eq(Answer("plan"), Literal("pro")),
		Not(Lt(Var("count"), Literal(float64(10)))),
	)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Expr
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data2, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	if string(data) != string(data2) {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", data, data2)
	}
}

func TestUnmarshalUnknownOp(t *testing.T) {
	var e Expr
	if err := json.Unmarshal([]byte(`{"op":"bogus"}`), &e); err == nil {
		t.Fatal("expected error for unknown op")
	}
}

func TestPointerGetArrayAndEscaping(t *testing.T) {
	c := map[string]any{
		"a/b": map[string]any{"c~d": "value"},
		"list": []any{float64(10), float64(20)},
	}
	if v, ok := pointerGet(c, JoinPointer("a/b", "c~d")); !ok || v != "value" {
		t.Fatalf("got %v %v", v, ok)
	}
	if v, ok := pointerGet(c, "/list/1"); !ok || v != float64(20) {
		t.Fatalf("got %v %v", v, ok)
	}
	if _, ok := pointerGet(c, "/list/9"); ok {
		t.Fatal("expected out-of-range index to fail")
	}
}
