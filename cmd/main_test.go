package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"channelchat/internal/configs"
)

func TestRenderConfigMasksSecrets(t *testing.T) {
	out, err := renderConfig(&configs.AppConfig{
		Environment:      "production",
		Port:             9000,
		JWTSecret:        "s3cret",
		TokenTTL:         time.Hour,
		DatabaseDSN:      "postgres://app:pw@db/chat",
		HistoryLimit:     50,
		AIServiceTimeout: 30 * time.Second,
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "pw@")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	assert.Equal(t, 9000, back["port"])
	assert.Equal(t, "1h0m0s", back["token_ttl"])
	assert.Equal(t, "30s", back["ai_service_timeout"])
}

func TestConfigCommandPrintsResolvedConfig(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "PORT", "JWT_SECRET", "DATABASE_URL", "HISTORY_LIMIT"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "9100")

	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"config"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "port: 9100")
	assert.Contains(t, buf.String(), "********")
	assert.NotContains(t, buf.String(), "postgres:postgres@")
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "sideways"})

	assert.Error(t, root.Execute())
}
