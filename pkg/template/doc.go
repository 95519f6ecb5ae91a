// Package template describes where blank document templates come from. The
// default loader in internal/template/loader reads files, fs.FS entries and
// HTTP(S) URLs; every failure it reports wraps ErrTemplateFetch.
package template
