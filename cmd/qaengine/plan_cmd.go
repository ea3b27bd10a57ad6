package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greentic-ai/qa-spec-go/runner"
	"github.com/greentic-ai/qa-spec-go/store"
)

var (
	planMode       string
	planQuestionID string
	planValue      string
	planCommit     bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build a deterministic submission plan",
	Long:  "Plan builds a QaPlanV1 for patch, submit-all, or next-question submission modes, without applying store effects unless --commit is set.",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&formPathFlag, "form", "f", "", "Path to the form spec JSON file (overrides config)")
	planCmd.Flags().StringVarP(&answersPathFlag, "answers", "a", "", "Path to an answers JSON file")
	planCmd.Flags().StringVar(&ctxPathFlag, "ctx", "", "Path to a runtime context JSON file")
	planCmd.Flags().StringVar(&planMode, "mode", "next", "Plan mode: patch, all, next")
	planCmd.Flags().StringVar(&planQuestionID, "question", "", "Question id to patch (mode=patch)")
	planCmd.Flags().StringVar(&planValue, "value", "", "Value to set for the patched question (mode=patch)")
	planCmd.Flags().BoolVar(&planCommit, "commit", false, "Apply the plan's store effects if it validates")
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	var plan runner.QaPlanV1
	switch planMode {
	case "patch":
		if planQuestionID == "" {
			return fmt.Errorf("mode=patch requires --question")
		}
		plan = runner.PlanSubmitPatch(s, ctx, answers, planQuestionID, planValue)
	case "all":
		plan = runner.PlanSubmitAll(s, ctx, answers)
	case "next":
		plan = runner.PlanNext(s, ctx, answers)
	default:
		return fmt.Errorf("unknown plan mode %q (want patch, all, next)", planMode)
	}

	if planCommit {
		storeCtx := store.FromValue(ctx)
		if err := runner.ExecutePlanEffects(&plan, storeCtx, s.SecretsPolicy, config.Secrets.HostAvailable); err != nil {
			return fmt.Errorf("applying plan effects: %w", err)
		}
		logger.Info("applied plan effects",
			zap.String("form_id", plan.FormID),
			zap.Int("effect_count", len(plan.Effects)),
		)
	}

	if err := printJSON(plan); err != nil {
		return err
	}
	if !plan.IsValid() {
		return fmt.Errorf("plan is invalid: %d error(s)", len(plan.Errors))
	}
	return nil
}
