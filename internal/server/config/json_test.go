package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr":           ":9090",
		"database_dsn":            "postgres://u:p@h:5432/db",
		"secret_key":              "k",
		"token_validity_duration": "30m",
		"smtp_addr":               "mail:25",
		"smtp_from":               "x@example.com",
		"s3_bucket":               "archive",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9090", cfg.EndpointAddr)
		assert.Equal(t, "postgres://u:p@h:5432/db", cfg.DatabaseDSN)
		assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
		assert.Equal(t, "mail:25", cfg.SMTPAddr)
		assert.Equal(t, "archive", cfg.S3Bucket)
	})

	t.Run("no file flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddr: ":1111"}
		parseJson(cfg)

		assert.Equal(t, ":1111", cfg.EndpointAddr)
	})
}
