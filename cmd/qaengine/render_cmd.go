package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greentic-ai/qa-spec-go/render"
)

var renderFormat string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the form's next question",
	Long:  "Render builds the render payload for the current answers and prints it as text, JSON UI, or an Adaptive Card.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&formPathFlag, "form", "f", "", "Path to the form spec JSON file (overrides config)")
	renderCmd.Flags().StringVarP(&answersPathFlag, "answers", "a", "", "Path to an answers JSON file")
	renderCmd.Flags().StringVar(&ctxPathFlag, "ctx", "", "Path to a runtime context JSON file (config/state/locale/...)")
	renderCmd.Flags().StringVar(&renderFormat, "output", "text", "Output format: text, json, card")
}

func runRender(cmd *cobra.Command, args []string) error {
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
	ctx, err := loadJSONMap(ctxPathFlag)
	if err != nil {
		return err
	}

	payload := render.BuildPayload(s, ctx, answers)

	switch renderFormat {
	case "text":
		fmt.Println(render.RenderText(payload))
	case "json":
		return printJSON(render.RenderJSONUI(payload))
	case "card":
		return printJSON(render.RenderCard(payload))
	default:
		return fmt.Errorf("unknown output format %q (want text, json, card)", renderFormat)
	}
	return nil
}
