package cmdhelper_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward/artifact-fetch/api"
	"github.com/seaward/artifact-fetch/cmd/internal/cmdhelper"
)

func TestFlagsOverrideConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"endpoint": "minio.internal:9000", "log_level": "debug"}`), 0o644))
	t.Setenv(api.ConfigFileEnv, configPath)

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config, err := cmdhelper.InjectGlobalFlagsAndConfigure([]string{"--log-level=error"}, flagSet)
	require.NoError(t, err)
	assert.Equal(t, "minio.internal:9000", config.Endpoint)
	assert.Equal(t, "error", config.LogLevel)
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config, err := cmdhelper.InjectGlobalFlagsAndConfigure(nil, flagSet)
	require.NoError(t, err)
	assert.Equal(t, api.DefaultConfig(), config)
}

func TestUnknownConfigKeyRejected(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"endpont": "typo"}`), 0o644))
	t.Setenv(api.ConfigFileEnv, configPath)

	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_, err := cmdhelper.InjectGlobalFlagsAndConfigure(nil, flagSet)
	assert.Error(t, err)
}

func TestSubstituteHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, home+"/cache", cmdhelper.SubstituteHome("~/cache"))
	assert.Equal(t, "/abs/cache", cmdhelper.SubstituteHome("/abs/cache"))
}
