package formfill

import (
	"io/fs"

	internalloader "github.com/pccclearclinic/form-filling-template/internal/template/loader"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
	pkgtemplate "github.com/pccclearclinic/form-filling-template/pkg/template"
)

// NewTemplateLoader constructs a template loader using the internal
// implementation while keeping the concrete type hidden from consumers.
func NewTemplateLoader(options ...pkgtemplate.LoaderOption) pkgtemplate.Loader {
	return internalloader.New(pkgtemplate.NewLoaderOptions(options...))
}

// EmbeddedRegistry exposes the built-in registry file so callers can copy and
// extend it.
func EmbeddedRegistry() fs.FS {
	return registry.EmbeddedFS()
}
