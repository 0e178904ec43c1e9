package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd", "-a", ":9090", "-d", "dsn", "-s", "key", "-t", "15", "-m", "mail:25", "-b", "archive"}

	cfg := &Config{}
	require.NotPanics(t, func() { parseFlags(cfg) })

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "dsn", cfg.DatabaseDSN)
	assert.Equal(t, "key", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidityDuration)
	assert.Equal(t, "mail:25", cfg.SMTPAddr)
	assert.Equal(t, "archive", cfg.S3Bucket)
}
