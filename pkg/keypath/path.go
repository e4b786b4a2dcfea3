package keypath

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

// Shape identifies the nominal type of a context value. Identifiers are chosen
// by the caller and must be stable for the lifetime of the process.
type Shape string

func (s Shape) String() string {
	return string(s)
}

var (
	// ErrShapeMismatch reports an attempt to compose two paths whose shapes do
	// not line up.
	ErrShapeMismatch = errors.New("keypath: shape mismatch")
	// ErrRootMismatch reports a root value whose Go type differs from the one
	// the path was declared for.
	ErrRootMismatch = errors.New("keypath: root value does not match path")
	// ErrNilRoot reports a nil root (or nil intermediate) value.
	ErrNilRoot = errors.New("keypath: nil root value")
)

// Path reads a value of shape Target out of a value of shape Root.
type Path interface {
	Root() Shape
	Target() Shape
	Apply(root any) (any, error)
	String() string
}

// fieldSeq numbers Field declarations so Equal can tell apart getters that
// share a name.
var fieldSeq atomic.Uint64

type field[R, V any] struct {
	id     uint64
	root   Shape
	target Shape
	name   string
	get    func(R) V
}

// Field declares a single-step accessor. The getter receives the root value
// already asserted to R.
func Field[R, V any](root, target Shape, name string, get func(R) V) Path {
	if get == nil {
		panic("keypath: Field requires a getter")
	}
	return field[R, V]{
		id:     fieldSeq.Add(1),
		root:   root,
		target: target,
		name:   strings.TrimPrefix(strings.TrimSpace(name), "."),
		get:    get,
	}
}

func (f field[R, V]) Root() Shape   { return f.root }
func (f field[R, V]) Target() Shape { return f.target }

func (f field[R, V]) declaration() uint64 { return f.id }

func (f field[R, V]) String() string {
	return "." + f.name
}

func (f field[R, V]) Apply(root any) (any, error) {
	if isNil(root) {
		return nil, fmt.Errorf("%w: %s on %s", ErrNilRoot, f, f.root)
	}
	typed, ok := root.(R)
	if !ok {
		var want R
		return nil, fmt.Errorf("%w: %s expects %T, got %T", ErrRootMismatch, f, want, root)
	}
	return f.get(typed), nil
}

type identity struct {
	shape Shape
}

// Identity returns the path from shape to itself.
func Identity(shape Shape) Path {
	return identity{shape: shape}
}

func (i identity) Root() Shape   { return i.shape }
func (i identity) Target() Shape { return i.shape }
func (i identity) String() string {
	return "."
}

func (i identity) Apply(root any) (any, error) {
	return root, nil
}

type chain struct {
	steps []Path
}

func (c chain) Root() Shape   { return c.steps[0].Root() }
func (c chain) Target() Shape { return c.steps[len(c.steps)-1].Target() }

func (c chain) String() string {
	var b strings.Builder
	for _, step := range c.steps {
		b.WriteString(step.String())
	}
	return b.String()
}

func (c chain) Apply(root any) (any, error) {
	current := root
	for _, step := range c.steps {
		next, err := step.Apply(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// Append composes first (A to B) with next (B to C) into a path from A to C.
// Shapes are checked here so a broken chain never reaches render time.
func Append(first, next Path) (Path, error) {
	if first == nil || next == nil {
		return nil, errors.New("keypath: append requires two paths")
	}
	if first.Target() != next.Root() {
		return nil, fmt.Errorf("%w: cannot append %s (%s to %s) onto %s (%s to %s)",
			ErrShapeMismatch,
			next, next.Root(), next.Target(),
			first, first.Root(), first.Target(),
		)
	}
	if _, ok := first.(identity); ok {
		return next, nil
	}
	if _, ok := next.(identity); ok {
		return first, nil
	}

	steps := append(stepsOf(first), stepsOf(next)...)
	return chain{steps: steps}, nil
}

// MustAppend panics when Append fails. Intended for package-level path tables.
func MustAppend(first, next Path) Path {
	p, err := Append(first, next)
	if err != nil {
		panic(err)
	}
	return p
}

// Join appends every path in order.
func Join(first Path, rest ...Path) (Path, error) {
	current := first
	for _, next := range rest {
		joined, err := Append(current, next)
		if err != nil {
			return nil, err
		}
		current = joined
	}
	return current, nil
}

// Equal reports whether two paths connect the same shapes through the same
// steps. Steps built by Field compare by declaration: two Field calls are
// different steps even when their shapes and names match. Other Path
// implementations compare by shapes and String.
func Equal(a, b Path) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Root() != b.Root() || a.Target() != b.Target() {
		return false
	}
	as, bs := stepsOf(a), stepsOf(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !sameStep(as[i], bs[i]) {
			return false
		}
	}
	return true
}

type declared interface {
	declaration() uint64
}

func sameStep(a, b Path) bool {
	da, okA := a.(declared)
	db, okB := b.(declared)
	if okA || okB {
		return okA && okB && da.declaration() == db.declaration()
	}
	return a.Root() == b.Root() && a.Target() == b.Target() && a.String() == b.String()
}

// Get applies p to root and asserts the result to V.
func Get[V any](p Path, root any) (V, error) {
	var zero V
	if p == nil {
		return zero, errors.New("keypath: path is nil")
	}
	value, err := p.Apply(root)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(V)
	if !ok {
		return zero, fmt.Errorf("%w: %s yields %T, want %T", ErrRootMismatch, p, value, zero)
	}
	return typed, nil
}

func stepsOf(p Path) []Path {
	if c, ok := p.(chain); ok {
		return append([]Path(nil), c.steps...)
	}
	return []Path{p}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
