// Package i18n defines the translator contract consumed by localized nodes and
// ships a YAML-backed catalog implementation.
package i18n

import (
	"errors"
	"strings"
)

var (
	// ErrMissingTranslator is returned when a localized node renders without a
	// translator configured.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
	// ErrMissingTranslation is returned when no message exists for a key in
	// the requested locale or any of its fallbacks.
	ErrMissingTranslation = errors.New("i18n: missing translation")
)

// Translator resolves a message key for a locale. Args are interpolated into
// the message by the implementation. Failures must be returned, not masked.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// NormalizeLocale lowercases a locale tag and uses "-" as separator so "nb_NO"
// and "nb-no" address the same catalog entry.
func NormalizeLocale(locale string) string {
	trimmed := strings.ToLower(strings.TrimSpace(locale))
	return strings.ReplaceAll(trimmed, "_", "-")
}

// Fallbacks lists the locales to try for locale, most specific first, ending
// with def when it is not already present.
func Fallbacks(locale, def string) []string {
	var out []string
	seen := make(map[string]struct{}, 4)
	add := func(candidate string) {
		if candidate == "" {
			return
		}
		if _, ok := seen[candidate]; ok {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	current := NormalizeLocale(locale)
	for current != "" {
		add(current)
		idx := strings.LastIndex(current, "-")
		if idx < 0 {
			break
		}
		current = current[:idx]
	}
	add(NormalizeLocale(def))
	return out
}
