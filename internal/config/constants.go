package config

import "fauxlizer/pkg/contracts"

// Application constants
const (
	AppName    = "fauxlizer"
	AppVersion = contracts.Version

	// Environment
	EnvPrefix     = "FAUX"
	EnvConfigFile = "FAUX_CONFIG_FILE"

	// Dataset defaults
	DefaultDelimiter   = ','
	DefaultEncoding    = "utf-8"
	DefaultConcurrency = 4

	// Category matching modes for summaries
	CategoryMatchExact  = "exact"
	CategoryMatchPrefix = "prefix"

	// HTTP server
	DefaultPort      = 8080
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100
)
