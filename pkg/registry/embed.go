package registry

import (
	"embed"
	"io/fs"
)

//go:embed data/registry.yaml
var embeddedRegistry embed.FS

// EmbeddedFS exposes the bundled registry document.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedRegistry, "data")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Default parses the bundled registry. Each call returns a fresh Registry.
func Default() (*Registry, error) {
	return LoadFS(EmbeddedFS(), "registry.yaml")
}

// MustDefault panics when the bundled registry fails validation.
func MustDefault() *Registry {
	reg, err := Default()
	if err != nil {
		panic(err)
	}
	return reg
}
