package formula

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

// Registry maps target shapes to paths rooted at the owning formula's context
// shape. Registering a path whose root is another registered shape composes
// the two, which is how embedded views reach ancestor data.
type Registry struct {
	owner keypath.Shape
	paths map[keypath.Shape]keypath.Path
}

// NewRegistry creates an empty registry for the owner shape.
func NewRegistry(owner keypath.Shape) *Registry {
	return &Registry{
		owner: owner,
		paths: make(map[keypath.Shape]keypath.Path),
	}
}

// Owner returns the shape every stored path is rooted at.
func (r *Registry) Owner() keypath.Shape {
	return r.owner
}

// Register stores p under its target shape, composing it with the path
// already registered for p.Root() when p does not start at the owner.
//
// A different path for an already registered target fails with
// ErrDuplicatePath; registering the same chain again is a no-op.
func (r *Registry) Register(p keypath.Path) error {
	if p == nil {
		return &PathError{Op: "register", Owner: r.owner, Kind: ErrRegistrationFailed, Err: fmt.Errorf("path is nil")}
	}
	if p.Target() == r.owner {
		return &PathError{Op: "register", Owner: r.owner, Path: p, Kind: ErrRegistrationFailed, Err: fmt.Errorf("path targets the owning shape")}
	}

	full := p
	if p.Root() != r.owner {
		base, ok := r.paths[p.Root()]
		if !ok {
			return &PathError{Op: "register", Owner: r.owner, Path: p, Kind: ErrRegistrationFailed, Err: unreachable(p.Root(), r.owner)}
		}
		composed, err := keypath.Append(base, p)
		if err != nil {
			return &PathError{Op: "register", Owner: r.owner, Path: p, Kind: ErrRegistrationFailed, Err: err}
		}
		full = composed
	}

	if existing, ok := r.paths[full.Target()]; ok {
		if keypath.Equal(existing, full) {
			return nil
		}
		return &PathError{
			Op:    "register",
			Owner: r.owner,
			Path:  full,
			Kind:  ErrRegistrationFailed,
			Err:   fmt.Errorf("%w: %s already reached through %s", ErrDuplicatePath, full.Target(), existing),
		}
	}

	r.paths[full.Target()] = full
	return nil
}

// Lookup returns the stored path for shape.
func (r *Registry) Lookup(shape keypath.Shape) (keypath.Path, bool) {
	p, ok := r.paths[shape]
	return p, ok
}

// Reach returns a path from the owner to shape, including the identity path
// when shape is the owner itself.
func (r *Registry) Reach(shape keypath.Shape) (keypath.Path, bool) {
	if shape == r.owner {
		return keypath.Identity(shape), true
	}
	return r.Lookup(shape)
}

// Len reports the number of registered paths.
func (r *Registry) Len() int {
	return len(r.paths)
}

// Shapes lists registered target shapes, sorted.
func (r *Registry) Shapes() []keypath.Shape {
	out := make([]keypath.Shape, 0, len(r.paths))
	for shape := range r.paths {
		out = append(out, shape)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
