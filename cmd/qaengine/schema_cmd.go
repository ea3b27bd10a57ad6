package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greentic-ai/qa-spec-go/computed"
	"github.com/greentic-ai/qa-spec-go/schema"
	"github.com/greentic-ai/qa-spec-go/visibility"
)

var (
	schemaShowExamples bool
	schemaOpenAPI      bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the answers JSON Schema for a form's visible questions",
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&formPathFlag, "form", "f", "", "Path to the form spec JSON file (overrides config)")
	schemaCmd.Flags().StringVarP(&answersPathFlag, "answers", "a", "", "Path to an answers JSON file (determines visibility)")
	schemaCmd.Flags().BoolVar(&schemaShowExamples, "examples", false, "Print an example payload instead of the schema")
	schemaCmd.Flags().BoolVar(&schemaOpenAPI, "openapi", false, "Project the schema into an OpenAPI schema object")
}

func runSchema(cmd *cobra.Command, args []string) error {
	config, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := loadForm(resolveFormPath(config))
	if err != nil {
		return err
	}
	answers, err := loadJSONMap(answersPathFlag)
	if err != nil {
		return err
	}

	computedAnswers := computed.ApplyComputedAnswers(s, answers)
	vis := visibility.Resolve(s, computedAnswers, visibility.ModeVisible)

	if schemaShowExamples {
		return printJSON(schema.Examples(s, vis))
	}

	if schemaOpenAPI {
		return printJSON(schema.OpenAPISchema(s, vis))
	}

	schemaValue := schema.AnswersSchema(s, vis)
	if err := schema.CompileCheck(schemaValue, nil); err != nil {
		return fmt.Errorf("generated schema failed its own compile check: %w", err)
	}
	return printJSON(schemaValue)
}
