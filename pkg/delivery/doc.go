// Package delivery hands finished documents to the user (a directory, a
// writer, or an HTTP download) and keeps the best-effort delivery counter for
// layouts that are tracked. Counter bumps run detached from the caller: they
// are never awaited, retried, or surfaced.
package delivery
