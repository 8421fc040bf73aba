// Package app wires the fauxlizer HTTP service together: telemetry, the
// dataset service, handlers, middleware and the server lifecycle.
//
// # Initialization Flow
//
//  1. The caller loads configuration and initializes the logger
//  2. OpenTelemetry providers are created from the telemetry section
//  3. The dataset service is built with its metrics
//  4. Routes and middleware are registered on a chi router
//  5. The HTTP server is created from the server section
//
// # Graceful Shutdown
//
// Run returns after SIGINT, SIGTERM or cancellation of its context. In-flight
// requests get ShutdownTimeout to finish, then the telemetry providers are
// flushed.
package app
