package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ankithreddys/orchestrai/internal/statepaths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize config.yaml and an empty contact directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "~/.orchestrai/"
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				dir = args[0]
			}
			dir = statepaths.ExpandHomePath(dir)
			if strings.TrimSpace(dir) == "" {
				return fmt.Errorf("invalid dir")
			}
			dir = filepath.Clean(dir)

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			cfgPath := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists: %s", cfgPath)
			}

			contactsPath := filepath.Join(dir, "contacts.json")
			cfgBody, err := defaultConfigYAML(dir, contactsPath)
			if err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, cfgBody, 0o644); err != nil {
				return err
			}

			if _, err := os.Stat(contactsPath); os.IsNotExist(err) {
				if err := os.WriteFile(contactsPath, []byte("[]\n"), 0o644); err != nil {
					return err
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", dir)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Edit %s and set llm.api_key, then run `orchestrai chat`.\n", cfgPath)
			return nil
		},
	}
}

func defaultConfigYAML(dir, contactsPath string) ([]byte, error) {
	cfg := map[string]any{
		"llm": map[string]any{
			"provider": "openai",
			"endpoint": "https://api.openai.com",
			"model":    "gpt-4o-mini",
			"api_key":  "",
		},
		"contacts": map[string]any{
			"path":            contactsPath,
			"match_threshold": 0.7,
		},
		"state": map[string]any{
			"dir": filepath.Join(dir, "state"),
		},
		"provider": map[string]any{
			"default": "gmail",
		},
		"draft": map[string]any{
			"repolish_on_edit": true,
		},
		"executor": map[string]any{
			"mode":        "dry-run",
			"webhook_url": "",
			"auth_token":  "",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
	return yaml.Marshal(cfg)
}
