package formula

import (
	"fmt"

	"github.com/goliatone/go-htmlkit/pkg/format"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

// Scope is the per-render resolution context: a concrete root value paired
// with the formula whose registry describes it. Embedded formulas and repeat
// bodies render in child scopes that keep a link to the enclosing one.
//
// A Scope lives for a single render call and is never shared between calls.
type Scope struct {
	root       any
	formula    *Formula
	parent     *Scope
	translator i18n.Translator
	locale     string
	depth      int
}

// NewScope creates a top-level scope for f.
func NewScope(f *Formula, root any, translator i18n.Translator, locale string) *Scope {
	return &Scope{
		root:       root,
		formula:    f,
		translator: translator,
		locale:     locale,
	}
}

// Root returns the context value of this scope.
func (s *Scope) Root() any { return s.root }

// Locale returns the locale resolved for the render.
func (s *Scope) Locale() string { return s.locale }

// Depth returns how many scopes enclose this one.
func (s *Scope) Depth() int { return s.depth }

// Value returns the value of the requested shape. The scope's own root is
// checked first, then its formula's registry, then the enclosing scopes.
func (s *Scope) Value(shape keypath.Shape) (any, error) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.formula.shape == shape {
			return cur.root, nil
		}
		p, ok := cur.formula.paths.Lookup(shape)
		if !ok {
			continue
		}
		value, err := p.Apply(cur.root)
		if err != nil {
			return nil, fmt.Errorf("%w: %s via %s: %v", ErrValueNotRetrievable, shape, p, err)
		}
		return value, nil
	}
	return nil, fmt.Errorf("%w: no value of shape %s reachable from %s", ErrValueNotRetrievable, shape, s.formula.shape)
}

// Resolve applies p to the value of its root shape.
func (s *Scope) Resolve(p keypath.Path) (any, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: path is nil", ErrValueNotRetrievable)
	}
	base, err := s.Value(p.Root())
	if err != nil {
		return nil, err
	}
	value, err := p.Apply(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrValueNotRetrievable, p, err)
	}
	return value, nil
}

// Child creates the scope used to render f against root inside s.
func (s *Scope) Child(f *Formula, root any) (*Scope, error) {
	if f == nil {
		return nil, fmt.Errorf("formula: child formula is nil")
	}
	depth := s.depth + 1
	if depth > f.maxDepth {
		return nil, fmt.Errorf("%w: %d nested scopes rendering %s", ErrDepthExceeded, depth, f.shape)
	}
	return &Scope{
		root:       root,
		formula:    f,
		parent:     s,
		translator: s.translator,
		locale:     s.locale,
		depth:      depth,
	}, nil
}

func (s *Scope) format(value any, layout string, override format.Func) (string, error) {
	env := format.Env{
		Calendar: s.formula.calendar,
		Location: s.formula.location,
		Layout:   layout,
	}
	if override != nil {
		return override(value, env)
	}
	return s.formula.formatters.Format(value, env)
}
