package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greentic-ai/qa-spec-go/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an answer set against a form spec",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&formPathFlag, "form", "f", "", "Path to the form spec JSON file (overrides config)")
	validateCmd.Flags().StringVarP(&answersPathFlag, "answers", "a", "", "Path to an answers JSON file")
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	result := validate.Validate(s, answers)
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors)+len(result.MissingRequired)+len(result.UnknownFields))
	}
	return nil
}
