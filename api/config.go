package api

import (
	"errors"
	"strings"
)

// GlobalConfig is the configuration for artifact-fetch.
// It can be read from a JSON file or passed as command-line flags.
// This configuration is shared by all subcommands.
type GlobalConfig struct {
	// Endpoint of the S3-compatible object store.
	// Example: "s3.amazonaws.com"
	// Example: "localhost:9000" (MinIO, usually together with insecure)
	Endpoint string `json:"endpoint,omitempty"`
	// Region sent with signed object-store requests. May be empty, in
	// which case the client lets the endpoint decide.
	Region string `json:"region,omitempty"`
	// Insecure disables TLS for the object-store connection.
	Insecure *bool `json:"insecure,omitempty"`
	// The path to the local cache directory. Empty disables caching.
	CacheDir string `json:"cache_dir,omitempty"`
	// Log level. One of "error", "warning", "info", "debug".
	// Default: "info"
	LogLevel string `json:"log_level,omitempty"`
}

func (c GlobalConfig) Validate() error {
	issues := []string{}
	if c.Endpoint == "" {
		issues = append(issues, `endpoint must be provided`)
	}
	if strings.Contains(c.Endpoint, "://") {
		issues = append(issues, `endpoint must be a host[:port], without a scheme`)
	}
	switch c.LogLevel {
	case "error", "warning", "info", "debug": // allowed
	default:
		issues = append(issues, `log_level must be one of "error", "warning", "info", "debug"`)
	}

	if len(issues) > 0 {
		return errors.New("config validation failed: \n  " + strings.Join(issues, "\n  "))
	}
	return nil
}

func (c GlobalConfig) InsecureEnable() bool {
	return c.Insecure != nil && *c.Insecure
}

// ErrConfigNotFound reports a missing configuration file.
var ErrConfigNotFound = errors.New("config file not found")

type ConfigReader interface {
	Read(baseConfig GlobalConfig) (GlobalConfig, error)
}

func ReadConfig(reader ConfigReader, config GlobalConfig) (GlobalConfig, error) {
	return reader.Read(config)
}

func DefaultConfig() GlobalConfig {
	return GlobalConfig{
		Endpoint: "s3.amazonaws.com",
		Region:   "",
		Insecure: nil,
		CacheDir: "",
		LogLevel: "info",
	}
}
