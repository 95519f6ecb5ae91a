// Package observability builds the zap logger and the Prometheus metrics
// used by the CLI and HTTP server.
package observability
