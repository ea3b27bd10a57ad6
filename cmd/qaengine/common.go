package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/greentic-ai/qa-spec-go/internal/jsonenc"
	"github.com/greentic-ai/qa-spec-go/internal/logging"
	"github.com/greentic-ai/qa-spec-go/spec"
)

var (
	formPathFlag    string
	answersPathFlag string
	ctxPathFlag     string
)

func loadRuntime() (*Config, *zap.Logger, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		config = DefaultConfig()
	}
	logger, err := logging.New(config.loggingConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return config, logger, nil
}

func resolveFormPath(config *Config) string {
	if formPathFlag != "" {
		return formPathFlag
	}
	return config.Form.Path
}

func loadForm(path string) (*spec.FormSpec, error) {
	if path == "" {
		return nil, fmt.Errorf("no form spec path configured (set form.path in the config file or pass --form)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading form spec %s: %w", path, err)
	}
	var s spec.FormSpec
	if err := jsonenc.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing form spec %s: %w", path, err)
	}
	return &s, nil
}

func loadJSONMap(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m map[string]any
	if err := jsonenc.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func printJSON(v any) error {
	data, err := jsonenc.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
