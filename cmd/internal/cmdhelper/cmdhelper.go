package cmdhelper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/seaward/artifact-fetch/api"
)

func FatalFmt(format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

type OSConfigReader struct {
	ConfigPath string
}

func (r OSConfigReader) Read(config api.GlobalConfig) (api.GlobalConfig, error) {
	file, err := os.Open(r.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, api.ErrConfigNotFound
		}
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	err = decoder.Decode(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

func SubstituteHome(p string) string {
	if len(p) == 0 || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return home + p[1:]
}

type flagConfig struct {
	api.GlobalConfig
	// redefine bool flags to satisfy flagSet.BoolVar
	Insecure bool
}

func globalFlags(flagSet *pflag.FlagSet) *flagConfig {
	config := &flagConfig{}
	flagSet.StringVar(&config.Endpoint, "endpoint", "", "Host[:port] of the S3-compatible object store")
	flagSet.StringVar(&config.Region, "region", "", "Region sent with signed object-store requests")
	flagSet.BoolVar(&config.Insecure, "insecure", false, "Disable TLS for the object-store connection")
	flagSet.StringVarP(&config.CacheDir, "cache-dir", "c", "", "Path to the local cache directory (empty disables caching)")
	flagSet.StringVar(&config.LogLevel, "log-level", "", `Log level. One of "error", "warning", "info", "debug"`)
	return config
}

// InjectGlobalFlagsAndConfigure registers the global flags on flagSet,
// parses args, and merges the result over the config file (explicit
// flags win). The config file is $ARTIFACT_FETCH_CONFIG_FILE, the
// --config flag, or .artifact-fetch.json when present.
func InjectGlobalFlagsAndConfigure(args []string, flagSet *pflag.FlagSet) (api.GlobalConfig, error) {
	var configPath string
	ignoreMissing := true

	if configPathEnv, ok := os.LookupEnv(api.ConfigFileEnv); ok {
		configPath = configPathEnv
		ignoreMissing = false
	}
	var configPathFlag string
	flagSet.StringVar(&configPathFlag, "config", "", "Path to the config file")

	flagConfig := globalFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return api.GlobalConfig{}, err
	}
	if flagSet.Changed("config") {
		configPath = configPathFlag
		ignoreMissing = false
	}
	// fixup bool vars: only explicitly set flags may override the file
	if flagSet.Changed("insecure") {
		flagConfig.GlobalConfig.Insecure = &flagConfig.Insecure
	}

	fileConfig, err := readConfigFileOrDefault(configPath, ignoreMissing)
	if err != nil {
		return api.GlobalConfig{}, err
	}

	config, err := mergeConfigs(fileConfig, flagConfig.GlobalConfig)
	if err != nil {
		return api.GlobalConfig{}, err
	}

	return config, config.Validate()
}

func readConfigFileOrDefault(configPath string, ignoreMissing bool) (api.GlobalConfig, error) {
	config := api.DefaultConfig()

	if ignoreMissing && configPath == "" {
		// default config (parse if exists)
		configPath = ".artifact-fetch.json"
	}
	configReader := OSConfigReader{ConfigPath: configPath}
	config, err := api.ReadConfig(configReader, config)
	if ignoreMissing && errors.Is(err, api.ErrConfigNotFound) {
		return config, nil
	} else if err != nil {
		return api.GlobalConfig{}, fmt.Errorf("reading config from %s: %w", configPath, err)
	}
	return config, nil
}

func mergeConfigs(base, overlay api.GlobalConfig) (api.GlobalConfig, error) {
	overlayJSON, err := json.Marshal(overlay)
	if err != nil {
		return api.GlobalConfig{}, err
	}

	decoder := json.NewDecoder(bytes.NewReader(overlayJSON))
	decoder.DisallowUnknownFields()

	merged := base
	err = decoder.Decode(&merged)
	if err != nil {
		return api.GlobalConfig{}, err
	}
	return merged, nil
}
