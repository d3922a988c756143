package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/magie"
	"github.com/aretw0/magie/internal/logging"
	"github.com/aretw0/magie/pkg/adapters/redis"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional magie.yaml shape. Everything has a default
// so the binary runs out of the box against a local Ollama.
type fileConfig struct {
	AssistantName string `yaml:"assistant_name"`
	UserID        string `yaml:"user_id"`
	UserName      string `yaml:"user_name"`
	AccountNumber string `yaml:"account_number"`
	ModelURL      string `yaml:"model_url"`
	Model         string `yaml:"model"`
	RedisAddr     string `yaml:"redis_addr"`
}

func defaultConfig() fileConfig {
	return fileConfig{
		AssistantName: "Magie",
		UserID:        "rodrigo.barreiros",
		UserName:      "Rodrigo",
		AccountNumber: "000123",
	}
}

func loadConfig(path string) (fileConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// buildAssistant assembles the Assistant from flags plus the optional
// config file.
func buildAssistant(cmd *cobra.Command, extraOpts ...magie.Option) (*magie.Assistant, *slog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	opts := []magie.Option{magie.WithLogger(logger)}
	if cfg.RedisAddr != "" {
		opts = append(opts, magie.WithStore(redis.New(cfg.RedisAddr, "", 0)))
	}
	opts = append(opts, extraOpts...)

	assistant, err := magie.New(magie.Config{
		UserID:        cfg.UserID,
		UserName:      cfg.UserName,
		AssistantName: cfg.AssistantName,
		AccountNumber: cfg.AccountNumber,
		ModelURL:      cfg.ModelURL,
		Model:         cfg.Model,
	}, opts...)
	if err != nil {
		return nil, nil, err
	}
	return assistant, logger, nil
}
