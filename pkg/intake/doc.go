// Package intake models the answers a person gives during intake as a tagged
// union keyed by field id, and validates a whole record against the field
// registry before any document work starts.
package intake
