// Package registry holds the field catalogue shared by every document and the
// per-document layout rules (baseline checkboxes, derived totals, benefit
// indicators, the composite address line, conditional suppressions). A
// Registry is validated once when it is built, so writers downstream only
// deal with known documents, known field kinds and consistent target types.
package registry
