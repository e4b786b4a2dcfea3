package render

import (
	"context"
	"strings"

	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
)

// DefaultContentType is reported by renderers that were not given one.
const DefaultContentType = "text/html; charset=utf-8"

// Option configures a Renderer.
type Option func(*config)

type config struct {
	cache          *Cache
	translator     i18n.Translator
	defaultLocale  string
	contentType    string
	formulaOptions []formula.Option
}

// WithTranslator sets the translator used by localized nodes.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithDefaultLocale sets the locale used when neither the context data nor the
// request context supply one.
func WithDefaultLocale(locale string) Option {
	return func(cfg *config) {
		cfg.defaultLocale = strings.TrimSpace(locale)
	}
}

// WithContentType overrides DefaultContentType.
func WithContentType(contentType string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(contentType); trimmed != "" {
			cfg.contentType = trimmed
		}
	}
}

// WithFormulaOptions applies formula options (calendar, location, formatters,
// depth) to every formula the renderer compiles.
func WithFormulaOptions(options ...formula.Option) Option {
	return func(cfg *config) {
		cfg.formulaOptions = append(cfg.formulaOptions, options...)
	}
}

// WithCache shares a formula cache between renderers.
func WithCache(cache *Cache) Option {
	return func(cfg *config) {
		if cache != nil {
			cfg.cache = cache
		}
	}
}

type localeKey struct{}

// WithLocale returns a context carrying a per-request locale override. It
// takes precedence over the renderer default but not over a locale path.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, strings.TrimSpace(locale))
}

// LocaleFromContext returns the locale stored by WithLocale.
func LocaleFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	locale, ok := ctx.Value(localeKey{}).(string)
	if !ok || locale == "" {
		return "", false
	}
	return locale, true
}
