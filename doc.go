// Package formfill fills the name and gender change court packet from a
// single intake record. The top-level helpers wrap pkg/engine with the
// embedded default registry; see cmd/formfill for the CLI and HTTP server.
package formfill
