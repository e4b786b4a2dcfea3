package render

import (
	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

// View describes a renderable page or fragment. ID is the stable cache key,
// Shape the context shape the view reads from, and Build issues the
// Register/Add calls that compile the view into a formula.
type View interface {
	ID() string
	Shape() keypath.Shape
	Build(f *formula.Formula) error
}

// LocalizedView is a view whose output depends on a locale carried by the
// context. LocalePath must lead from the view's shape to a string field.
type LocalizedView interface {
	View
	LocalePath() keypath.Path
}

type funcView struct {
	id    string
	shape keypath.Shape
	build func(*formula.Formula) error
}

func (v funcView) ID() string                     { return v.id }
func (v funcView) Shape() keypath.Shape           { return v.shape }
func (v funcView) Build(f *formula.Formula) error { return v.build(f) }

type localizedFuncView struct {
	funcView
	locale keypath.Path
}

func (v localizedFuncView) LocalePath() keypath.Path { return v.locale }

// NewView adapts a build function to the View interface.
func NewView(id string, shape keypath.Shape, build func(*formula.Formula) error) View {
	if build == nil {
		build = func(*formula.Formula) error { return nil }
	}
	return funcView{id: id, shape: shape, build: build}
}

// NewLocalizedView adapts a build function to the LocalizedView interface.
func NewLocalizedView(id string, shape keypath.Shape, localePath keypath.Path, build func(*formula.Formula) error) LocalizedView {
	if build == nil {
		build = func(*formula.Formula) error { return nil }
	}
	return localizedFuncView{
		funcView: funcView{id: id, shape: shape, build: build},
		locale:   localePath,
	}
}
