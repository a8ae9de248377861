package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankithreddys/orchestrai/contacts"
	"github.com/ankithreddys/orchestrai/conversation"
	"github.com/ankithreddys/orchestrai/decision"
	"github.com/ankithreddys/orchestrai/executor"
	"github.com/ankithreddys/orchestrai/internal/fsstore"
	"github.com/ankithreddys/orchestrai/internal/statepaths"
	"github.com/ankithreddys/orchestrai/llm"
	"github.com/ankithreddys/orchestrai/orchestrator"
	"github.com/ankithreddys/orchestrai/providers/openai"
)

func flagOrViperString(cmd *cobra.Command, flagName, viperKey string) string {
	v, _ := cmd.Flags().GetString(flagName)
	if cmd.Flags().Changed(flagName) {
		return v
	}
	if viperKey != "" && viper.IsSet(viperKey) {
		return viper.GetString(viperKey)
	}
	return v
}

func flagOrViperInt(cmd *cobra.Command, flagName, viperKey string) int {
	v, _ := cmd.Flags().GetInt(flagName)
	if cmd.Flags().Changed(flagName) {
		return v
	}
	if viperKey != "" && viper.IsSet(viperKey) {
		return viper.GetInt(viperKey)
	}
	return v
}

func flagOrViperDuration(cmd *cobra.Command, flagName, viperKey string) time.Duration {
	v, _ := cmd.Flags().GetDuration(flagName)
	if cmd.Flags().Changed(flagName) {
		return v
	}
	if viperKey != "" && viper.IsSet(viperKey) {
		return viper.GetDuration(viperKey)
	}
	return v
}

type llmClientConfig struct {
	Provider       string
	Endpoint       string
	APIKey         string
	RequestTimeout time.Duration
}

func llmClientFromConfig(cfg llmClientConfig) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		c := openai.New(strings.TrimSpace(cfg.Endpoint), strings.TrimSpace(cfg.APIKey))
		if cfg.RequestTimeout > 0 && c.HTTP != nil {
			c.HTTP.Timeout = cfg.RequestTimeout
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm.provider: %s", cfg.Provider)
	}
}

func executorFromViper(logger *slog.Logger) (executor.Executor, error) {
	switch strings.ToLower(strings.TrimSpace(viper.GetString("executor.mode"))) {
	case "", "dry-run", "dryrun":
		return executor.NewDryRun(logger), nil
	case "webhook":
		url := strings.TrimSpace(viper.GetString("executor.webhook_url"))
		if url == "" {
			return nil, fmt.Errorf("executor.mode=webhook requires executor.webhook_url")
		}
		return executor.NewWebhook(url, viper.GetString("executor.auth_token")), nil
	default:
		return nil, fmt.Errorf("unknown executor.mode: %s", viper.GetString("executor.mode"))
	}
}

// orchestratorFromViper assembles the full turn pipeline from config:
// directory, state store, decision agent, executor.
func orchestratorFromViper(logger *slog.Logger) (*orchestrator.Orchestrator, error) {
	dir, err := contacts.Open(statepaths.ContactsPath(), viper.GetFloat64("contacts.match_threshold"))
	if err != nil {
		return nil, err
	}

	stateDir := statepaths.StateDir()
	if err := fsstore.EnsureDir(stateDir, 0o700); err != nil {
		return nil, err
	}
	store := conversation.NewFileStore(stateDir)

	client, err := llmClientFromConfig(llmClientConfig{
		Provider:       viper.GetString("llm.provider"),
		Endpoint:       viper.GetString("llm.endpoint"),
		APIKey:         viper.GetString("llm.api_key"),
		RequestTimeout: viper.GetDuration("llm.request_timeout"),
	})
	if err != nil {
		return nil, err
	}
	agent := decision.NewLLMAgent(client, viper.GetString("llm.model"))

	exec, err := executorFromViper(logger)
	if err != nil {
		return nil, err
	}

	cfg := orchestrator.DefaultConfig()
	if p := strings.TrimSpace(viper.GetString("provider.default")); p != "" {
		cfg.DefaultProvider = p
	}
	cfg.RepolishOnEdit = viper.GetBool("draft.repolish_on_edit")

	return orchestrator.New(agent, dir, exec, store, logger, cfg), nil
}
