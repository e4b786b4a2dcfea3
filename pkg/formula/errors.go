package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

var (
	// ErrRegistrationFailed reports a path that cannot be linked to the
	// formula's own context shape.
	ErrRegistrationFailed = errors.New("formula: registration failed")
	// ErrAddVariableFailed reports a node whose paths cannot be lifted into the
	// formula's frame.
	ErrAddVariableFailed = errors.New("formula: add variable failed")
	// ErrValueNotRetrievable reports a render-time resolution failure. It means
	// the registry and the data disagree and should be treated as a bug.
	ErrValueNotRetrievable = errors.New("formula: value not retrievable")
	// ErrDuplicatePath reports a second, different path registered for a
	// target shape that already has one.
	ErrDuplicatePath = errors.New("formula: duplicate path")
	// ErrDepthExceeded reports view composition nested deeper than the
	// configured maximum, usually a cycle.
	ErrDepthExceeded = errors.New("formula: composition depth exceeded")
	// ErrSealed reports a compile-phase call on a published formula.
	ErrSealed = errors.New("formula: formula is sealed")
)

// PathError describes a compile-time failure involving a path. Kind holds the
// taxonomy sentinel (ErrRegistrationFailed, ErrAddVariableFailed) and Err the
// underlying cause, both reachable through errors.Is.
type PathError struct {
	Op    string
	Owner keypath.Shape
	Path  keypath.Path
	Kind  error
	Err   error
}

func (e *PathError) Error() string {
	var b strings.Builder
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("formula: path error")
	}
	b.WriteString(": ")
	b.WriteString(e.Op)
	if e.Path != nil {
		fmt.Fprintf(&b, " %s (%s -> %s)", e.Path, e.Path.Root(), e.Path.Target())
	}
	fmt.Fprintf(&b, " in %s", e.Owner)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Err.Error(), "formula: "))
	}
	return b.String()
}

func (e *PathError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func unreachable(from keypath.Shape, owner keypath.Shape) error {
	return fmt.Errorf("no registered path from %s to %s", owner, from)
}
