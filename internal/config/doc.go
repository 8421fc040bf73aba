// Package config provides centralized configuration management for fauxlizer.
// It handles loading configuration from multiple sources and validating it
// before any component is constructed.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), optionally seeded from .env
//  2. A YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FAUX_<SECTION>_<FIELD>:
//
//	FAUX_SERVER_PORT=8080
//	FAUX_LOGGING_LEVEL=debug
//	FAUX_DATASET_DELIMITER=;
//	FAUX_DATASET_ENCODING=windows-1252
//	FAUX_DATASET_CATEGORY_MATCH=prefix
//	FAUX_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Configuration File
//
// The file is taken from the --config flag, FAUX_CONFIG_FILE, fauxlizer.yaml
// or configs/fauxlizer.yaml, whichever comes first:
//
//	dataset:
//	  delimiter: ","
//	  encoding: utf-8
//	  category_match: exact
//	  concurrency: 4
//
// # Validation
//
// Every section is validated with go-playground/validator struct tags. An
// invalid value stops startup with a descriptive error.
package config
