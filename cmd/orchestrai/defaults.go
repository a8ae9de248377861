package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/ankithreddys/orchestrai/contacts"
)

func initViperDefaults() {
	// LLM backend
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.endpoint", "https://api.openai.com")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.request_timeout", 90*time.Second)

	// Contact directory
	viper.SetDefault("contacts.path", "")
	viper.SetDefault("contacts.match_threshold", contacts.DefaultMatchThreshold)

	// Conversation state
	viper.SetDefault("state.dir", "")
	viper.SetDefault("provider.default", "gmail")

	// Drafting
	viper.SetDefault("draft.repolish_on_edit", true)

	// Action executor: dry-run logs instead of sending; webhook posts
	// to an external delivery service.
	viper.SetDefault("executor.mode", "dry-run")
	viper.SetDefault("executor.webhook_url", "")
	viper.SetDefault("executor.auth_token", "")

	// Daemon server
	viper.SetDefault("server.bind", "127.0.0.1")
	viper.SetDefault("server.port", 8790)
	viper.SetDefault("server.auth_token", "")

	// Overall per-turn timeout
	viper.SetDefault("timeout", 2*time.Minute)
}
