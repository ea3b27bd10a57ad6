package schema

import (
	"testing"

	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/visibility"
)

func testForm() *spec.FormSpec {
	return &spec.FormSpec{
		Questions: []spec.QuestionSpec{
			{ID: "name", Kind: spec.TypeString, Required: true},
			{ID: "age", Kind: spec.TypeInteger},
			{ID: "plan", Kind: spec.TypeEnum, Choices: []string{"free", "pro"}},
			{ID: "apiKey", Kind: spec.TypeString, Secret: true},
		},
	}
}

func allVisible(s *spec.FormSpec) visibility.Map {
	vis := visibility.Map{}
	for _, q := range s.Questions {
		vis[q.ID] = true
	}
	return vis
}

func TestAnswersSchemaShape(t *testing.T) {
	s := testForm()
	vis := allVisible(s)
	out := AnswersSchema(s, vis)

	if out["type"] != "object" {
		t.Fatalf("got %#v", out)
	}
	props := out["properties"].(map[string]any)
	if props["name"].(map[string]any)["type"] != "string" {
		t.Fatalf("got %#v", props["name"])
	}
	if props["apiKey"].(map[string]any)["x-secret"] != true {
		t.Fatalf("got %#v", props["apiKey"])
	}
	required := out["required"].([]string)
	if len(required) != 1 || required[0] != "name" {
		t.Fatalf("got %#v", required)
	}
}

func TestAnswersSchemaSkipsHidden(t *testing.T) {
	s := testForm()
	vis := allVisible(s)
	vis["age"] = false
	out := AnswersSchema(s, vis)
	props := out["properties"].(map[string]any)
	if _, ok := props["age"]; ok {
		t.Fatalf("expected hidden question excluded, got %#v", props)
	}
}

func TestExamplesUsesDefaultValue(t *testing.T) {
	s := &spec.FormSpec{Questions: []spec.QuestionSpec{
		{ID: "name", Kind: spec.TypeString, DefaultValue: "Ada", HasDefaultValue: true},
		{ID: "age", Kind: spec.TypeInteger},
	}}
	vis := allVisible(s)
	out := Examples(s, vis)
	if out["name"] != "Ada" {
		t.Fatalf("got %#v", out["name"])
	}
	if out["age"] != 1 {
		t.Fatalf("got %#v", out["age"])
	}
}

func TestCompileCheckValidDocument(t *testing.T) {
	s := testForm()
	vis := allVisible(s)
	schemaValue := AnswersSchema(s, vis)
	doc := map[string]any{"name": "Ada", "age": float64(5), "plan": "pro", "apiKey": "x"}
	if err := CompileCheck(schemaValue, doc); err != nil {
		t.Fatal(err)
	}
}

func TestCompileCheckInvalidDocument(t *testing.T) {
	s := testForm()
	vis := allVisible(s)
	schemaValue := AnswersSchema(s, vis)
	doc := map[string]any{"age": float64(5)}
	if err := CompileCheck(schemaValue, doc); err == nil {
		t.Fatal("expected validation failure for missing required field")
	}
}

func TestOpenAPISchemaProjection(t *testing.T) {
	s := testForm()
	vis := allVisible(s)
	out := OpenAPISchema(s, vis)
	if out.Type == nil || (*out.Type)[0] != "object" {
		t.Fatalf("got %#v", out.Type)
	}
	if len(out.Properties) != 4 {
		t.Fatalf("got %d properties", len(out.Properties))
	}
}
