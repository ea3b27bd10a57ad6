// Package schema derives a JSON Schema (and example payload) for the
// visible questions of a form, and exposes two cross-checks on that output:
// a compile check against a real JSON Schema implementation, and a
// projection into an OpenAPI schema object for HTTP-facing consumers.
package schema

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/kaptinlin/jsonschema"

	"github.com/greentic-ai/qa-spec-go/spec"
	"github.com/greentic-ai/qa-spec-go/visibility"
)

// AnswersSchema returns a JSON-Schema-shaped map describing s's visible
// questions (per vis): {"type":"object","properties":{...},"required":[...]}.
func AnswersSchema(s *spec.FormSpec, vis visibility.Map) map[string]any {
	properties := map[string]any{}
	var required []string

	for _, question := range s.Questions {
		if !vis[question.ID] {
			continue
		}
		properties[question.ID] = questionSchema(&question)
		if question.Required {
			required = append(required, question.ID)
		}
	}

	root := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		root["required"] = required
	}
	return root
}

func questionSchema(question *spec.QuestionSpec) map[string]any {
	out := map[string]any{}

	switch question.Kind {
	case spec.TypeString:
		out["type"] = "string"
	case spec.TypeBoolean:
		out["type"] = "boolean"
	case spec.TypeInteger:
		out["type"] = "integer"
	case spec.TypeNumber:
		out["type"] = "number"
	case spec.TypeEnum:
		out["type"] = "string"
		if question.Choices != nil {
			choices := make([]any, len(question.Choices))
			for i, c := range question.Choices {
				choices[i] = c
			}
			out["enum"] = choices
		}
	case spec.TypeList:
		out["type"] = "array"
		if question.List != nil {
			if question.List.MinItems != nil {
				out["minItems"] = *question.List.MinItems
			}
			if question.List.MaxItems != nil {
				out["maxItems"] = *question.List.MaxItems
			}
			itemProps := map[string]any{}
			var itemRequired []string
			for _, field := range question.List.Fields {
				itemProps[field.ID] = questionSchema(&field)
				if field.Required {
					itemRequired = append(itemRequired, field.ID)
				}
			}
			itemSchema := map[string]any{"type": "object", "properties": itemProps}
			if len(itemRequired) > 0 {
				itemSchema["required"] = itemRequired
			}
			out["items"] = itemSchema
		} else {
			out["items"] = map[string]any{}
		}
	}

	if question.Constraint != nil {
		c := question.Constraint
		if c.Pattern != "" {
			out["pattern"] = c.Pattern
		}
		if c.Min != nil {
			out["minimum"] = *c.Min
		}
		if c.Max != nil {
			out["maximum"] = *c.Max
		}
		if c.MinLen != nil {
			out["minLength"] = *c.MinLen
		}
		if c.MaxLen != nil {
			out["maxLength"] = *c.MaxLen
		}
	}

	if question.HasDefaultValue {
		out["default"] = question.DefaultValue
	}

	if question.Secret {
		out["x-secret"] = true
	}

	return out
}

// Examples returns one example value per visible question: the question's
// default value if it has one, else a type-appropriate placeholder.
func Examples(s *spec.FormSpec, vis visibility.Map) map[string]any {
	out := map[string]any{}
	for _, question := range s.Questions {
		if !vis[question.ID] {
			continue
		}
		out[question.ID] = exampleFor(&question)
	}
	return out
}

func exampleFor(question *spec.QuestionSpec) any {
	if question.HasDefaultValue {
		return question.DefaultValue
	}
	switch question.Kind {
	case spec.TypeString, spec.TypeEnum:
		return fmt.Sprintf("example-%s", question.ID)
	case spec.TypeBoolean:
		return false
	case spec.TypeInteger:
		return 1
	case spec.TypeNumber:
		return 1.0
	case spec.TypeList:
		return []any{}
	default:
		return nil
	}
}

// CompileCheck confirms that schemaValue (typically the output of
// AnswersSchema) is a schema a real JSON Schema implementation can load, and
// validates document against it if document is non-nil.
func CompileCheck(schemaValue map[string]any, document map[string]any) error {
	compiler := jsonschema.NewCompiler()

	schemaBytes, err := sonic.Marshal(schemaValue)
	if err != nil {
		return fmt.Errorf("schema: marshalling schema: %w", err)
	}

	compiled, err := compiler.Compile(schemaBytes)
	if err != nil {
		return fmt.Errorf("schema: compiling schema: %w", err)
	}

	if document == nil {
		return nil
	}

	result := compiled.ValidateMap(document)
	if !result.IsValid() {
		return fmt.Errorf("schema: document failed validation against its own schema: %v", result.Errors)
	}
	return nil
}

// OpenAPISchema projects the answers schema shape into an *openapi3.Schema
// for consumers that speak OpenAPI rather than bare JSON Schema.
func OpenAPISchema(s *spec.FormSpec, vis visibility.Map) *openapi3.Schema {
	root := openapi3.NewSchema()
	root.Type = &openapi3.Types{"object"}
	properties := openapi3.Schemas{}
	var required []string

	for _, question := range s.Questions {
		if !vis[question.ID] {
			continue
		}
		properties[question.ID] = openapi3.NewSchemaRef("", openAPIQuestionSchema(&question))
		if question.Required {
			required = append(required, question.ID)
		}
	}
	root.Properties = properties
	root.Required = required
	return root
}

func openAPIQuestionSchema(question *spec.QuestionSpec) *openapi3.Schema {
	out := openapi3.NewSchema()

	switch question.Kind {
	case spec.TypeString:
		out.Type = &openapi3.Types{"string"}
	case spec.TypeBoolean:
		out.Type = &openapi3.Types{"boolean"}
	case spec.TypeInteger:
		out.Type = &openapi3.Types{"integer"}
	case spec.TypeNumber:
		out.Type = &openapi3.Types{"number"}
	case spec.TypeEnum:
		out.Type = &openapi3.Types{"string"}
		if question.Choices != nil {
			enum := make([]any, len(question.Choices))
			for i, c := range question.Choices {
				enum[i] = c
			}
			out.Enum = enum
		}
	case spec.TypeList:
		out.Type = &openapi3.Types{"array"}
		if question.List != nil {
			if question.List.MinItems != nil {
				out.MinItems = uint64(*question.List.MinItems)
			}
			if question.List.MaxItems != nil {
				max := uint64(*question.List.MaxItems)
				out.MaxItems = &max
			}
			itemSchema := openapi3.NewSchema()
			itemSchema.Type = &openapi3.Types{"object"}
			itemProps := openapi3.Schemas{}
			var itemRequired []string
			for _, field := range question.List.Fields {
				itemProps[field.ID] = openapi3.NewSchemaRef("", openAPIQuestionSchema(&field))
				if field.Required {
					itemRequired = append(itemRequired, field.ID)
				}
			}
			itemSchema.Properties = itemProps
			itemSchema.Required = itemRequired
			out.Items = openapi3.NewSchemaRef("", itemSchema)
		} else {
			out.Items = openapi3.NewSchemaRef("", openapi3.NewSchema())
		}
	}

	if question.Constraint != nil {
		c := question.Constraint
		if c.Pattern != "" {
			out.Pattern = c.Pattern
		}
		if c.Min != nil {
			out.Min = c.Min
		}
		if c.Max != nil {
			out.Max = c.Max
		}
		if c.MinLen != nil {
			out.MinLength = uint64(*c.MinLen)
		}
		if c.MaxLen != nil {
			maxLen := uint64(*c.MaxLen)
			out.MaxLength = &maxLen
		}
	}

	if question.HasDefaultValue {
		out.Default = question.DefaultValue
	}

	if question.Secret {
		out.Extensions = map[string]any{"x-secret": true}
	}

	return out
}
