package htmlkit

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-htmlkit/pkg/i18n"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// LocalesFS exposes the bundled translation catalogs (committed under
// locales/) so applications can ship them without extra files.
//
// Typical use:
//
//	catalog, err := i18n.LoadCatalogFS(htmlkit.LocalesFS(), "catalog.yaml")
func LocalesFS() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return embeddedLocales
	}
	return sub
}

// DefaultCatalog loads the bundled catalog.
func DefaultCatalog(options ...i18n.CatalogOption) (*i18n.Catalog, error) {
	return i18n.LoadCatalogFS(LocalesFS(), "catalog.yaml", options...)
}
