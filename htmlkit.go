// Package htmlkit compiles views into formulas once and renders them against
// typed context data. Most callers only need NewRenderer, NewView and the
// keypath helpers; the pkg/ tree exposes the individual stages.
package htmlkit

import (
	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
	"github.com/goliatone/go-htmlkit/pkg/keypath"
	"github.com/goliatone/go-htmlkit/pkg/render"
)

// Renderer aliases render.Renderer.
type Renderer = render.Renderer

// View aliases render.View.
type View = render.View

// LocalizedView aliases render.LocalizedView.
type LocalizedView = render.LocalizedView

// Formula aliases formula.Formula so view builders can be written against the
// root package.
type Formula = formula.Formula

// Shape aliases keypath.Shape.
type Shape = keypath.Shape

// Path aliases keypath.Path.
type Path = keypath.Path

// Response aliases render.Response.
type Response = render.Response

// NewRenderer exposes the renderer constructor from the top-level module.
func NewRenderer(options ...render.Option) *Renderer {
	return render.New(options...)
}

// NewView adapts a build function to the View interface.
func NewView(id string, shape Shape, build func(*Formula) error) View {
	return render.NewView(id, shape, build)
}

// NewLocalizedView adapts a build function to the LocalizedView interface.
func NewLocalizedView(id string, shape Shape, localePath Path, build func(*Formula) error) LocalizedView {
	return render.NewLocalizedView(id, shape, localePath, build)
}

// WithTranslator forwards render.WithTranslator.
func WithTranslator(t i18n.Translator) render.Option {
	return render.WithTranslator(t)
}

// WithDefaultLocale forwards render.WithDefaultLocale.
func WithDefaultLocale(locale string) render.Option {
	return render.WithDefaultLocale(locale)
}

// WithFormulaOptions forwards render.WithFormulaOptions.
func WithFormulaOptions(options ...formula.Option) render.Option {
	return render.WithFormulaOptions(options...)
}
