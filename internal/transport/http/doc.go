// Package http implements the HTTP handlers of the fauxlizer service. Handlers
// are thin: they parse and validate the request, call the dataset service and
// render the result.
//
// # Routes
//
//	GET  /healthz                              liveness
//	GET  /metrics                              Prometheus exposition
//	GET  /api/v1/health                        health with cache statistics
//	GET  /api/v1/version                       build information
//	GET  /api/v1/datasets                      cached validation outcomes
//	POST /api/v1/datasets/validate             {"path": "..."}
//	POST /api/v1/datasets/validate/batch       {"paths": ["..."]}
//	GET  /api/v1/datasets/summary?path=        summary of a validated file
//	GET  /api/v1/datasets/rows/{index}?path=&format=
//
// Dataset paths are relative to the configured data directory; paths that
// escape it are rejected with 400.
//
// # Error Handling
//
// Errors are rendered as RFC 7807 problem details by the shared error
// handler:
//
//	409  dataset not validated
//	404  row index out of range
//	400  unsupported format or malformed request
//	422  file became unreadable after validation
//	504  request deadline exceeded
package http
