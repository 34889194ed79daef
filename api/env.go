package api

// Environment variables used by artifact-fetch.
const (
	// LogLevelEnv is the environment variable used to set the log level.
	LogLevelEnv = "ARTIFACT_FETCH_LOGGING"
	// ConfigFileEnv is the environment variable used to set the configuration file.
	ConfigFileEnv = "ARTIFACT_FETCH_CONFIG_FILE"
)
