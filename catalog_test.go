package htmlkit

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocalesFSContainsCatalog(t *testing.T) {
	data, err := fs.ReadFile(LocalesFS(), "catalog.yaml")
	if err != nil {
		t.Fatalf("expected bundled catalog to be readable: %v", err)
	}
	if !strings.Contains(string(data), "default_locale") {
		t.Fatalf("expected catalog to declare a default locale")
	}
}

func TestDefaultCatalogTranslates(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"en", "nb"}, catalog.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}

	got, err := catalog.Translate("nb-NO", "profile.city", "Oslo")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Bor i Oslo" {
		t.Fatalf("unexpected message %q", got)
	}
}
