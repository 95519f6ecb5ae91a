// Package engine maps intake answers onto document templates.
//
// Plan is the pure core: it resolves each registry field to its template
// targets, fans checkbox and select answers out to their boxes, computes the
// layout's totals, indicators and composite line, applies suppressions and
// stamps the date. Assembler wraps Plan with template loading, a preflight
// of every target against the opened template, and finalization.
package engine
