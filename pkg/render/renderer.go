package render

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
)

// Renderer compiles views into formulas once and renders them on demand.
// Add and Render may be called concurrently.
type Renderer struct {
	cache          *Cache
	translator     i18n.Translator
	defaultLocale  string
	contentType    string
	formulaOptions []formula.Option
}

// New constructs a renderer with an empty cache unless WithCache is given.
func New(options ...Option) *Renderer {
	cfg := config{contentType: DefaultContentType}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.cache == nil {
		cfg.cache = NewCache()
	}
	return &Renderer{
		cache:          cfg.cache,
		translator:     cfg.translator,
		defaultLocale:  cfg.defaultLocale,
		contentType:    cfg.contentType,
		formulaOptions: cfg.formulaOptions,
	}
}

// ContentType reports the media type of rendered output.
func (r *Renderer) ContentType() string {
	return r.contentType
}

// Cache exposes the formula cache.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Add compiles view and publishes its formula, replacing any previous one.
// Nothing is published when compilation fails, so a cached formula for the
// same view survives a failed re-registration.
func (r *Renderer) Add(view View) error {
	if view == nil {
		return fmt.Errorf("%w: view is nil", ErrInvalidView)
	}
	id := strings.TrimSpace(view.ID())
	if id == "" {
		return fmt.Errorf("%w: view id is required", ErrInvalidView)
	}

	f, err := r.compile(view)
	if err != nil {
		return fmt.Errorf("render: add view %q: %w", id, err)
	}
	return r.cache.Store(id, f)
}

// MustAdd panics when any view fails to compile. Useful for init-time wiring.
func (r *Renderer) MustAdd(views ...View) {
	for _, view := range views {
		if err := r.Add(view); err != nil {
			panic(err)
		}
	}
}

// Remove drops the formula cached for id.
func (r *Renderer) Remove(id string) bool {
	return r.cache.Delete(id)
}

// Has reports whether a view has been added.
func (r *Renderer) Has(id string) bool {
	return r.cache.Has(id)
}

// List returns the identifiers of the added views, sorted.
func (r *Renderer) List() []string {
	return r.cache.List()
}

// Render evaluates the formula cached for id against data.
func (r *Renderer) Render(ctx context.Context, id string, data any) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	f, ok := r.cache.Load(id)
	if !ok {
		return "", fmt.Errorf("%w: %q; call Add with the view before rendering it", ErrFormulaNotFound, id)
	}

	out, err := f.Render(data, r.translator, r.locale(ctx))
	if err != nil {
		return "", fmt.Errorf("render: view %q: %w", id, err)
	}
	return out, nil
}

// RenderView renders using view.ID() as the cache key.
func (r *Renderer) RenderView(ctx context.Context, view View, data any) (string, error) {
	if view == nil {
		return "", fmt.Errorf("%w: view is nil", ErrInvalidView)
	}
	return r.Render(ctx, view.ID(), data)
}

// Response is rendered output ready to be written by a transport.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// RenderResponse wraps Render output with the renderer's content type.
func (r *Renderer) RenderResponse(ctx context.Context, id string, data any) (Response, error) {
	out, err := r.Render(ctx, id, data)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Status:      http.StatusOK,
		ContentType: r.contentType,
		Body:        []byte(out),
	}, nil
}

// WriteTo writes the response to an http.ResponseWriter.
func (resp Response) WriteTo(w http.ResponseWriter) error {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := w.Write(resp.Body)
	return err
}

func (r *Renderer) compile(view View) (*formula.Formula, error) {
	f := formula.New(view.Shape(), r.formulaOptions...)
	if err := view.Build(f); err != nil {
		return nil, err
	}

	localized, ok := view.(LocalizedView)
	if !ok {
		return f, nil
	}
	if p := localized.LocalePath(); p != nil {
		if err := f.SetLocalePath(p); err != nil {
			return nil, err
		}
	}
	if f.LocalePath() == nil {
		return nil, fmt.Errorf("%w: %s declares itself localized", ErrMissingLocalePath, view.Shape())
	}
	return f, nil
}

func (r *Renderer) locale(ctx context.Context) string {
	if locale, ok := LocaleFromContext(ctx); ok {
		return locale
	}
	return r.defaultLocale
}
