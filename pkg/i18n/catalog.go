package i18n

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"gopkg.in/yaml.v3"
)

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithDefaultLocale sets the locale consulted after every other fallback.
func WithDefaultLocale(locale string) CatalogOption {
	return func(c *Catalog) {
		if normalized := NormalizeLocale(locale); normalized != "" {
			c.defaultLocale = normalized
		}
	}
}

// Catalog is an in-memory Translator. Messages are immutable after
// construction; messages containing template markup ({{ arg1 }}) are compiled
// with pongo2 on first use and cached.
type Catalog struct {
	defaultLocale string
	messages      map[string]map[string]string

	mu       sync.RWMutex
	set      *pongo2.TemplateSet
	compiled map[string]*pongo2.Template
}

// noTemplates backs the message set's loader; catalog messages cannot reach
// files.
var noTemplates embed.FS

// fileTags read other templates and are banned in catalog messages.
var fileTags = []string{"include", "extends", "import", "ssi"}

func newMessageSet() *pongo2.TemplateSet {
	set := pongo2.NewSet("i18n", pongo2.NewFSLoader(noTemplates))
	for _, tag := range fileTags {
		_ = set.BanTag(tag)
	}
	return set
}

var _ Translator = (*Catalog)(nil)

// NewCatalog builds a catalog from locale -> key -> message.
func NewCatalog(messages map[string]map[string]string, options ...CatalogOption) *Catalog {
	c := &Catalog{
		messages: make(map[string]map[string]string, len(messages)),
		set:      newMessageSet(),
		compiled: make(map[string]*pongo2.Template),
	}
	for locale, entries := range messages {
		normalized := NormalizeLocale(locale)
		if normalized == "" {
			continue
		}
		bucket := c.messages[normalized]
		if bucket == nil {
			bucket = make(map[string]string, len(entries))
			c.messages[normalized] = bucket
		}
		for key, msg := range entries {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				bucket[trimmed] = msg
			}
		}
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

type catalogFile struct {
	DefaultLocale string                    `yaml:"default_locale"`
	Locales       map[string]map[string]any `yaml:"locales"`
}

// LoadCatalog decodes a YAML catalog. Nested keys are flattened with dots:
//
//	default_locale: en
//	locales:
//	  en:
//	    greeting: Hello
//	    profile:
//	      welcome: "Welcome back, {{ arg1 }}"
func LoadCatalog(r io.Reader, options ...CatalogOption) (*Catalog, error) {
	if r == nil {
		return nil, fmt.Errorf("i18n: missing reader")
	}
	var doc catalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("i18n: decode catalog: %w", err)
	}

	messages := make(map[string]map[string]string, len(doc.Locales))
	for locale, tree := range doc.Locales {
		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, fmt.Errorf("i18n: locale %q: %w", locale, err)
		}
		messages[locale] = flat
	}

	opts := make([]CatalogOption, 0, len(options)+1)
	if doc.DefaultLocale != "" {
		opts = append(opts, WithDefaultLocale(doc.DefaultLocale))
	}
	opts = append(opts, options...)
	return NewCatalog(messages, opts...), nil
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string, options ...CatalogOption) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadCatalog(f, options...)
}

// LoadCatalogFS reads a YAML catalog from an fs.FS.
func LoadCatalogFS(fsys fs.FS, name string, options ...CatalogOption) (*Catalog, error) {
	if fsys == nil {
		return nil, fmt.Errorf("i18n: missing filesystem")
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i18n: open catalog %q: %w", name, err)
	}
	defer func() { _ = f.Close() }()
	return LoadCatalog(f, options...)
}

// DefaultLocale returns the configured default locale, if any.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Locales lists the locales present in the catalog, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate looks up key for locale and its fallbacks and interpolates args as
// arg1..argN. Args are inserted verbatim; callers escape them beforehand.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("i18n: translation key is required")
	}

	for _, candidate := range Fallbacks(locale, c.defaultLocale) {
		msg, ok := c.messages[candidate][key]
		if !ok {
			continue
		}
		if !isTemplate(msg) {
			return msg, nil
		}
		return c.interpolate(candidate, key, msg, args)
	}
	return "", fmt.Errorf("%w: %q for locale %q", ErrMissingTranslation, key, locale)
}

func (c *Catalog) interpolate(locale, key, msg string, args []any) (string, error) {
	tpl, err := c.template(locale+"\x00"+key, msg)
	if err != nil {
		return "", err
	}

	ctx := pongo2.Context{"count": len(args)}
	for i, arg := range args {
		ctx["arg"+strconv.Itoa(i+1)] = pongo2.AsSafeValue(fmt.Sprint(arg))
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("i18n: execute %q for locale %q: %w", key, locale, err)
	}
	return out, nil
}

func (c *Catalog) template(id, msg string) (*pongo2.Template, error) {
	c.mu.RLock()
	if tpl, ok := c.compiled[id]; ok {
		c.mu.RUnlock()
		return tpl, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if tpl, ok := c.compiled[id]; ok {
		return tpl, nil
	}
	tpl, err := c.set.FromString(msg)
	if err != nil {
		return nil, fmt.Errorf("i18n: parse message: %w", err)
	}
	c.compiled[id] = tpl
	return tpl, nil
}

func flatten(prefix string, tree map[string]any, dest map[string]string) error {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			dest[path] = v
		case map[string]any:
			if err := flatten(path, v, dest); err != nil {
				return err
			}
		case nil:
			dest[path] = ""
		case int, int64, float64, bool:
			dest[path] = fmt.Sprint(v)
		default:
			return fmt.Errorf("unsupported value for %q (%T)", path, value)
		}
	}
	return nil
}

func isTemplate(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}
