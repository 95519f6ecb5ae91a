// Package pdfform defines the narrow contract the form filling engine uses to
// talk to a document template: open bytes, write text, check boxes, finalize.
// A JSON-backed memory implementation ships alongside for tests and dry runs;
// pdfcpuform provides the PDF implementation.
package pdfform
