// Package app turns configuration into the assembler, counter and delivery
// plumbing shared by the CLI commands and the HTTP server.
package app
