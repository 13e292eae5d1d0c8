package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"channelchat/internal/configs"
)

func newConfigCmd(load func() (*configs.AppConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			out, err := renderConfig(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

// renderConfig formats cfg in the same shape LoadConfig reads from a file.
func renderConfig(cfg *configs.AppConfig) (string, error) {
	r := cfg.Redacted()

	view := map[string]any{
		"environment":        r.Environment,
		"port":               r.Port,
		"allowed_origins":    r.AllowedOrigins,
		"jwt_secret":         r.JWTSecret,
		"token_ttl":          r.TokenTTL.String(),
		"database_url":       r.DatabaseDSN,
		"history_limit":      r.HistoryLimit,
		"ai_service_url":     r.AIServiceURL,
		"ai_service_timeout": r.AIServiceTimeout.String(),
		"chatbot_user_id":    r.ChatbotUserID,
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("failed to encode configuration: %w", err)
	}
	return string(out), nil
}
