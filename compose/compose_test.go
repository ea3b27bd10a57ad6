package compose

import (
	"testing"

	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/spec"
)

func TestExpandNoIncludes(t *testing.T) {
	root := &spec.FormSpec{ID: "root", Questions: []spec.QuestionSpec{{ID: "a"}}}
	out, err := Expand(root, map[string]*spec.FormSpec{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Questions) != 1 || out.Questions[0].ID != "a" {
		t.Fatalf("got %#v", out.Questions)
	}
}

func TestExpandAppliesPrefix(t *testing.T) {
	child := &spec.FormSpec{ID: "child", Questions: []spec.QuestionSpec{{ID: "street"}}}
	root := &spec.FormSpec{
		ID:        "root",
		Questions: []spec.QuestionSpec{{ID: "name"}},
		Includes:  []spec.IncludeSpec{{FormRef: "child", Prefix: "addr"}},
	}
	out, err := Expand(root, map[string]*spec.FormSpec{"child": child})
	if err != nil {
		t.Fatal(err)
	}
	ids := []string{out.Questions[0].ID, out.Questions[1].ID}
	if ids[0] != "name" || ids[1] != "addr.street" {
		t.Fatalf("got %#v", ids)
	}
}

func TestExpandMissingIncludeTarget(t *testing.T) {
	root := &spec.FormSpec{ID: "root", Includes: []spec.IncludeSpec{{FormRef: "missing"}}}
	_, err := Expand(root, map[string]*spec.FormSpec{})
	ie, ok := err.(*IncludeError)
	if !ok || ie.Kind != "missing_target" {
		t.Fatalf("got %#v", err)
	}
}

func TestExpandCycleDetected(t *testing.T) {
	a := &spec.FormSpec{ID: "a", Includes: []spec.IncludeSpec{{FormRef: "b"}}}
	b := &spec.FormSpec{ID: "b", Includes: []spec.IncludeSpec{{FormRef: "a"}}}
	_, err := Expand(a, map[string]*spec.FormSpec{"a": a, "b": b})
	ie, ok := err.(*IncludeError)
	if !ok || ie.Kind != "cycle" {
		t.Fatalf("got %#v", err)
	}
}

func TestExpandDuplicateQuestionID(t *testing.T) {
	child := &spec.FormSpec{ID: "child", Questions: []spec.QuestionSpec{{ID: "name"}}}
	root := &spec.FormSpec{
		ID:        "root",
		Questions: []spec.QuestionSpec{{ID: "name"}},
		Includes:  []spec.IncludeSpec{{FormRef: "child"}},
	}
	_, err := Expand(root, map[string]*spec.FormSpec{"child": child})
	ie, ok := err.(*IncludeError)
	if !ok || ie.Kind != "duplicate_id" {
		t.Fatalf("got %#v", err)
	}
}

func TestExpandPrefixesVisibleIfAnswerPath(t *testing.T) {
	cond := expr.IsSet("street")
	child := &spec.FormSpec{ID: "child", Questions: []spec.QuestionSpec{
		{ID: "street"}, {ID: "city", VisibleIf: &cond},
	}}
	root := &spec.FormSpec{ID: "root", Includes: []spec.IncludeSpec{{FormRef: "child", Prefix: "addr"}}}
	out, err := Expand(root, map[string]*spec.FormSpec{"child": child})
	if err != nil {
		t.Fatal(err)
	}
	city := out.Questions[1]
	if city.VisibleIf.Path != "addr.street" {
		t.Fatalf("got %q", city.VisibleIf.Path)
	}
}

func TestExpandNestedIncludePrefixCombines(t *testing.T) {
	leaf := &spec.FormSpec{ID: "leaf", Questions: []spec.QuestionSpec{{ID: "zip"}}}
	mid := &spec.FormSpec{ID: "mid", Includes: []spec.IncludeSpec{{FormRef: "leaf", Prefix: "geo"}}}
	root := &spec.FormSpec{ID: "root", Includes: []spec.IncludeSpec{{FormRef: "mid", Prefix: "addr"}}}
	out, err := Expand(root, map[string]*spec.FormSpec{"leaf": leaf, "mid": mid})
	if err != nil {
		t.Fatal(err)
	}
	if out.Questions[0].ID != "addr.geo.zip" {
		t.Fatalf("got %q", out.Questions[0].ID)
	}
}
