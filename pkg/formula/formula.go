package formula

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-htmlkit/pkg/calendar"
	"github.com/goliatone/go-htmlkit/pkg/escape"
	"github.com/goliatone/go-htmlkit/pkg/format"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

// Formula is the compiled render program for one view. It is mutated only by
// the compile-phase methods (Register, Add*, Embed, Include, If, Each) and is
// sealed before it is published; sealed formulas are safe for concurrent
// renders.
type Formula struct {
	shape      keypath.Shape
	nodes      []Node
	paths      *Registry
	localePath keypath.Path

	calendar   calendar.Calendar
	location   *time.Location
	formatters *format.Registry
	maxDepth   int

	// origin is the formula a branch writes its locale path to.
	origin *Formula
	// parent is the enclosing formula of a repeat body.
	parent *Formula
	depth  int
	sealed bool
}

// New creates an empty formula for the given context shape.
func New(shape keypath.Shape, options ...Option) *Formula {
	cfg := newConfig(options)
	return &Formula{
		shape:      shape,
		paths:      NewRegistry(shape),
		calendar:   cfg.calendar,
		location:   cfg.location,
		formatters: cfg.formatters.Clone(),
		maxDepth:   cfg.maxDepth,
	}
}

// Shape returns the context shape the formula renders.
func (f *Formula) Shape() keypath.Shape { return f.shape }

// Paths exposes the formula's path registry.
func (f *Formula) Paths() *Registry { return f.paths }

// LocalePath returns the path selecting the render locale, if any.
func (f *Formula) LocalePath() keypath.Path { return f.localePath }

// Location returns the time zone used for time values.
func (f *Formula) Location() *time.Location { return f.location }

// Len reports the number of top-level nodes.
func (f *Formula) Len() int { return len(f.nodes) }

// Nodes returns a copy of the top-level node sequence.
func (f *Formula) Nodes() []Node {
	return append([]Node(nil), f.nodes...)
}

// Sealed reports whether the formula rejects further compile-phase calls.
func (f *Formula) Sealed() bool { return f.sealed }

// Seal freezes the formula. Called by the cache before publishing.
func (f *Formula) Seal() {
	f.sealed = true
}

// Register adds a path to the registry; see Registry.Register.
func (f *Formula) Register(p keypath.Path) error {
	if f.sealed {
		return ErrSealed
	}
	return f.paths.Register(p)
}

// AddText appends a literal, merging it into a preceding literal so the
// formula never holds two adjacent Text nodes.
func (f *Formula) AddText(s string) {
	if f.sealed || s == "" {
		return
	}
	if n := len(f.nodes); n > 0 {
		if last, ok := f.nodes[n-1].(Text); ok {
			f.nodes[n-1] = Text{Value: last.Value + s}
			return
		}
	}
	f.nodes = append(f.nodes, Text{Value: s})
}

// AddTextf appends a formatted literal.
func (f *Formula) AddTextf(layout string, args ...any) {
	f.AddText(fmt.Sprintf(layout, args...))
}

// AddVariable appends v, lifting its path into this formula's frame when it
// is declared relative to another shape.
func (f *Formula) AddVariable(v Variable) error {
	if f.sealed {
		return ErrSealed
	}
	lifted, err := f.lift("add", v.Path)
	if err != nil {
		return err
	}
	v.Path = lifted
	f.nodes = append(f.nodes, v)
	return nil
}

// AddValue appends an HTML-escaped variable.
func (f *Formula) AddValue(p keypath.Path) error {
	return f.AddVariable(Variable{Path: p})
}

// AddRaw appends an unescaped variable.
func (f *Formula) AddRaw(p keypath.Path) error {
	return f.AddVariable(Variable{Path: p, Escape: escape.None})
}

// AddDate appends a time variable formatted with layout.
func (f *Formula) AddDate(p keypath.Path, layout string) error {
	return f.AddVariable(Variable{Path: p, Layout: layout})
}

// AddLocalized appends a translated message, lifting its argument paths.
func (f *Formula) AddLocalized(l Localized) error {
	if f.sealed {
		return ErrSealed
	}
	if strings.TrimSpace(l.Key) == "" {
		return &PathError{Op: "localize", Owner: f.shape, Kind: ErrAddVariableFailed, Err: fmt.Errorf("translation key is required")}
	}
	args := make([]keypath.Path, 0, len(l.Args))
	for _, arg := range l.Args {
		lifted, err := f.lift("localize", arg)
		if err != nil {
			return err
		}
		args = append(args, lifted)
	}
	l.Args = args
	f.nodes = append(f.nodes, l)
	return nil
}

// Translate appends a translated message for key.
func (f *Formula) Translate(key string, args ...keypath.Path) error {
	return f.AddLocalized(Localized{Key: key, Args: args})
}

// Add appends a compiled node. Literals go through compaction and every path
// a built-in node holds is lifted like AddVariable, including the nodes
// nested in a Conditional, so unreachable paths fail here rather than at
// render time. Other Node implementations are appended unchanged and resolve
// their own values through the Scope.
func (f *Formula) Add(node Node) error {
	if f.sealed {
		return ErrSealed
	}
	switch n := node.(type) {
	case nil:
		return fmt.Errorf("formula: node is nil")
	case Text:
		f.AddText(n.Value)
		return nil
	case Variable:
		return f.AddVariable(n)
	case Localized:
		return f.AddLocalized(n)
	case Embedded:
		return f.embed(n.Formula, n.Adapter)
	case Conditional:
		return f.addConditional(n)
	case Repeat:
		return f.addRepeat(n)
	default:
		f.nodes = append(f.nodes, node)
		return nil
	}
}

func (f *Formula) addConditional(c Conditional) error {
	cond, err := f.lift("condition", c.Cond)
	if err != nil {
		return err
	}
	then, err := f.addBranch(c.Then)
	if err != nil {
		return err
	}
	otherwise, err := f.addBranch(c.Else)
	if err != nil {
		return err
	}
	f.nodes = append(f.nodes, Conditional{Cond: cond, Then: then, Else: otherwise})
	return nil
}

func (f *Formula) addBranch(nodes []Node) ([]Node, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	branch := f.branch()
	for _, node := range nodes {
		if err := branch.Add(node); err != nil {
			return nil, err
		}
	}
	return branch.nodes, nil
}

func (f *Formula) addRepeat(r Repeat) error {
	if r.Body == nil {
		return fmt.Errorf("formula: repeat body is nil")
	}
	if r.Body == f || r.Body == f.origin {
		return &PathError{Op: "each", Owner: f.shape, Path: r.Items, Kind: ErrAddVariableFailed, Err: fmt.Errorf("a formula cannot repeat itself")}
	}
	items, err := f.lift("each", r.Items)
	if err != nil {
		return err
	}
	r.Body.Seal()
	f.nodes = append(f.nodes, Repeat{Items: items, Body: r.Body, Separator: r.Separator})
	return nil
}

// Embed inlines a separately compiled formula. Its shape must be this
// formula's shape or reachable through the registry; the child is sealed.
func (f *Formula) Embed(child *Formula) error {
	if child == nil {
		return fmt.Errorf("formula: embedded formula is nil")
	}
	return f.embed(child, keypath.Identity(child.shape))
}

func (f *Formula) embed(child *Formula, adapter keypath.Path) error {
	if f.sealed {
		return ErrSealed
	}
	if child == nil {
		return fmt.Errorf("formula: embedded formula is nil")
	}
	if child == f || child == f.origin {
		return &PathError{Op: "embed", Owner: f.shape, Path: adapter, Kind: ErrAddVariableFailed, Err: fmt.Errorf("a formula cannot embed itself")}
	}
	if adapter == nil {
		adapter = keypath.Identity(child.shape)
	}
	if adapter.Target() != child.shape {
		return &PathError{Op: "embed", Owner: f.shape, Path: adapter, Kind: ErrAddVariableFailed, Err: fmt.Errorf("%w: adapter targets %s, formula renders %s", keypath.ErrShapeMismatch, adapter.Target(), child.shape)}
	}
	lifted, err := f.lift("embed", adapter)
	if err != nil {
		return err
	}
	child.Seal()
	f.nodes = append(f.nodes, Embedded{Formula: child, Adapter: lifted})
	return nil
}

// Include registers p (when not nil) and runs build against this formula so a
// child view's nodes are compiled inline, lifted through p. Nesting is bounded
// by the formula's max depth.
func (f *Formula) Include(p keypath.Path, build func(*Formula) error) error {
	if f.sealed {
		return ErrSealed
	}
	if build == nil {
		return fmt.Errorf("formula: include requires a build function")
	}
	if p != nil {
		if err := f.Register(p); err != nil {
			return err
		}
	}
	if f.depth >= f.maxDepth {
		return fmt.Errorf("%w: include at depth %d in %s", ErrDepthExceeded, f.depth, f.shape)
	}
	f.depth++
	defer func() { f.depth-- }()
	return build(f)
}

// If appends a conditional. then and otherwise compile into branches that
// share this formula's registry; otherwise may be nil.
func (f *Formula) If(cond keypath.Path, then, otherwise func(*Formula) error) error {
	if f.sealed {
		return ErrSealed
	}
	lifted, err := f.lift("condition", cond)
	if err != nil {
		return err
	}

	node := Conditional{Cond: lifted}
	if then != nil {
		branch := f.branch()
		if err := then(branch); err != nil {
			return err
		}
		node.Then = branch.nodes
	}
	if otherwise != nil {
		branch := f.branch()
		if err := otherwise(branch); err != nil {
			return err
		}
		node.Else = branch.nodes
	}
	f.nodes = append(f.nodes, node)
	return nil
}

// Each appends a repeat over the slice reached through items. body compiles a
// formula for the element shape; it may also read any shape reachable from
// the enclosing formula.
func (f *Formula) Each(items keypath.Path, elem keypath.Shape, body func(*Formula) error) error {
	return f.EachJoined(items, elem, "", body)
}

// EachJoined is Each with a separator written between elements.
func (f *Formula) EachJoined(items keypath.Path, elem keypath.Shape, separator string, body func(*Formula) error) error {
	if f.sealed {
		return ErrSealed
	}
	if body == nil {
		return fmt.Errorf("formula: each requires a body")
	}
	lifted, err := f.lift("each", items)
	if err != nil {
		return err
	}
	if f.depth >= f.maxDepth {
		return fmt.Errorf("%w: each at depth %d in %s", ErrDepthExceeded, f.depth, f.shape)
	}

	inner := &Formula{
		shape:      elem,
		paths:      NewRegistry(elem),
		calendar:   f.calendar,
		location:   f.location,
		formatters: f.formatters,
		maxDepth:   f.maxDepth,
		parent:     f,
		depth:      f.depth + 1,
	}
	if err := body(inner); err != nil {
		return err
	}
	inner.Seal()
	f.nodes = append(f.nodes, Repeat{Items: lifted, Body: inner, Separator: separator})
	return nil
}

// SetLocalePath selects the string field that carries the render locale. The
// path is lifted like a variable and must be set on the top-level formula,
// not inside a conditional branch or repeat body.
func (f *Formula) SetLocalePath(p keypath.Path) error {
	if f.sealed {
		return ErrSealed
	}
	if f.parent != nil {
		return &PathError{Op: "locale", Owner: f.shape, Path: p, Kind: ErrRegistrationFailed, Err: fmt.Errorf("locale path must be set outside repeat bodies")}
	}
	if f.origin != nil {
		return &PathError{Op: "locale", Owner: f.shape, Path: p, Kind: ErrRegistrationFailed, Err: fmt.Errorf("locale path must be set outside conditional branches")}
	}
	lifted, err := f.lift("locale", p)
	if err != nil {
		return err
	}
	f.localePath = lifted
	return nil
}

// Render evaluates the formula against root. The locale is read through the
// locale path when one is set and yields a non-empty string, otherwise
// locale is used.
func (f *Formula) Render(root any, translator i18n.Translator, locale string) (string, error) {
	scope := NewScope(f, root, translator, locale)
	if f.localePath != nil {
		value, err := scope.Resolve(f.localePath)
		if err != nil {
			return "", fmt.Errorf("formula: resolve locale: %w", err)
		}
		text, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: locale path %s yields %T, want string", ErrValueNotRetrievable, f.localePath, value)
		}
		if strings.TrimSpace(text) != "" {
			scope.locale = text
		}
	}
	return f.RenderScope(scope)
}

// RenderScope folds the node sequence left to right using a caller-supplied
// scope. Embedded and repeat nodes call it with child scopes.
func (f *Formula) RenderScope(s *Scope) (string, error) {
	if s == nil {
		return "", fmt.Errorf("formula: scope is nil")
	}
	if s.depth > f.maxDepth {
		return "", fmt.Errorf("%w: scope depth %d rendering %s", ErrDepthExceeded, s.depth, f.shape)
	}

	var b strings.Builder
	for i, node := range f.nodes {
		out, err := node.Render(s)
		if err != nil {
			return "", fmt.Errorf("formula: render %s node %d (%s): %w", f.shape, i, node.Kind(), err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Describe lists the node kinds of the formula, one line per node, indenting
// nested sequences. Useful for debugging compiled views.
func (f *Formula) Describe() []string {
	var out []string
	describeNodes(f.nodes, "", &out)
	return out
}

func describeNodes(nodes []Node, indent string, out *[]string) {
	for _, node := range nodes {
		switch n := node.(type) {
		case Text:
			*out = append(*out, fmt.Sprintf("%stext %q", indent, n.Value))
		case Variable:
			*out = append(*out, fmt.Sprintf("%svariable %s [%s]", indent, n.Path, n.Escape))
		case Localized:
			*out = append(*out, fmt.Sprintf("%slocalized %q", indent, n.Key))
		case Embedded:
			*out = append(*out, fmt.Sprintf("%sformula %s via %s", indent, n.Formula.shape, n.Adapter))
			describeNodes(n.Formula.nodes, indent+"  ", out)
		case Conditional:
			*out = append(*out, fmt.Sprintf("%sif %s", indent, n.Cond))
			describeNodes(n.Then, indent+"  ", out)
			if len(n.Else) > 0 {
				*out = append(*out, indent+"else")
				describeNodes(n.Else, indent+"  ", out)
			}
		case Repeat:
			*out = append(*out, fmt.Sprintf("%seach %s as %s", indent, n.Items, n.Body.shape))
			describeNodes(n.Body.nodes, indent+"  ", out)
		default:
			*out = append(*out, fmt.Sprintf("%s%s", indent, node.Kind()))
		}
	}
}

func (f *Formula) branch() *Formula {
	origin := f
	if f.origin != nil {
		origin = f.origin
	}
	return &Formula{
		shape:      f.shape,
		paths:      f.paths,
		calendar:   f.calendar,
		location:   f.location,
		formatters: f.formatters,
		maxDepth:   f.maxDepth,
		origin:     origin,
		parent:     f.parent,
		depth:      f.depth,
	}
}

// lift rewrites p so it is rooted at a shape the render scope can reach: this
// formula's shape, or the shape of an enclosing repeat formula.
func (f *Formula) lift(op string, p keypath.Path) (keypath.Path, error) {
	if p == nil {
		return nil, &PathError{Op: op, Owner: f.shape, Kind: ErrAddVariableFailed, Err: fmt.Errorf("path is nil")}
	}
	for cur := f; cur != nil; cur = cur.parent {
		base, ok := cur.paths.Reach(p.Root())
		if !ok {
			continue
		}
		lifted, err := keypath.Append(base, p)
		if err != nil {
			return nil, &PathError{Op: op, Owner: f.shape, Path: p, Kind: ErrAddVariableFailed, Err: err}
		}
		return lifted, nil
	}
	return nil, &PathError{Op: op, Owner: f.shape, Path: p, Kind: ErrAddVariableFailed, Err: unreachable(p.Root(), f.shape)}
}
