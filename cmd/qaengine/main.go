// Command qaengine is a CLI front-end over the qa-spec-go engine: it loads
// a form spec plus an answer set and renders, validates, schemas, or plans
// a submission against them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "qaengine",
	Short:   "qaengine - form/QA engine CLI",
	Long:    "qaengine loads a declarative form spec and runs it: rendering the next question, validating an answer set, projecting a JSON/OpenAPI schema, or building a deterministic submission plan.",
	Version: version,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "qaengine.yaml", "Path to configuration file")
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(schemaCmd)
}
