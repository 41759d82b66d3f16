package config

import "kartlap/pkg/contracts"

const (
	AppName    = "kartlap"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. KARTLAP_SERVER_PORT.
	EnvPrefix = "KARTLAP"

	DefaultTimingBaseURL = "https://timing.batyrshin.name"

	ScraperModeChrome = "chrome"
	ScraperModeHTTP   = "http"

	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"

	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"

	// Rate limiting
	DefaultRateLimit = 20
	DefaultBurstSize = 40

	// File paths, relative to the base directory
	DefaultDataDir    = "data"
	DefaultHeatsDir   = "data/heats_data"
	DefaultExportsDir = "data/heats_result"
	DefaultLogsDir    = "logs"
)
