package formula

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-htmlkit/pkg/escape"
	"github.com/goliatone/go-htmlkit/pkg/format"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

// Kind enumerates the node variants a formula can hold.
type Kind int

const (
	KindText Kind = iota
	KindVariable
	KindFormula
	KindLocalized
	KindConditional
	KindRepeat
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindVariable:
		return "variable"
	case KindFormula:
		return "formula"
	case KindLocalized:
		return "localized"
	case KindConditional:
		return "conditional"
	case KindRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one compiled unit of a formula. Nodes never mutate themselves or
// the scope while rendering so a formula can be shared by concurrent renders.
type Node interface {
	Kind() Kind
	Render(s *Scope) (string, error)
}

// Text is a static literal.
type Text struct {
	Value string
}

func (Text) Kind() Kind { return KindText }

func (t Text) Render(*Scope) (string, error) {
	return t.Value, nil
}

// Variable emits the value reached through Path.
type Variable struct {
	Path keypath.Path
	// Escape defaults to escape.HTML.
	Escape escape.Mode
	// Layout is passed to the formatter, for example a calendar layout.
	Layout string
	// Format overrides the formula's formatter registry for this variable.
	Format format.Func
}

func (Variable) Kind() Kind { return KindVariable }

func (v Variable) Render(s *Scope) (string, error) {
	value, err := s.Resolve(v.Path)
	if err != nil {
		return "", err
	}
	text, err := s.format(value, v.Layout, v.Format)
	if err != nil {
		return "", fmt.Errorf("formula: format %s: %w", v.Path, err)
	}
	return v.Escape.Apply(text), nil
}

// Embedded renders a separately compiled formula inline. Adapter leads from
// the enclosing context to the embedded formula's shape.
type Embedded struct {
	Formula *Formula
	Adapter keypath.Path
}

func (Embedded) Kind() Kind { return KindFormula }

func (e Embedded) Render(s *Scope) (string, error) {
	value, err := s.Resolve(e.Adapter)
	if err != nil {
		return "", err
	}
	child, err := s.Child(e.Formula, value)
	if err != nil {
		return "", err
	}
	return e.Formula.RenderScope(child)
}

// Localized emits a translated message. The translated text is written as is;
// arguments are formatted and escaped with Escape before they are handed to
// the translator.
type Localized struct {
	Key    string
	Args   []keypath.Path
	Escape escape.Mode
}

func (Localized) Kind() Kind { return KindLocalized }

func (l Localized) Render(s *Scope) (string, error) {
	if s.translator == nil {
		return "", fmt.Errorf("formula: translate %q: %w", l.Key, i18n.ErrMissingTranslator)
	}

	args := make([]any, 0, len(l.Args))
	for _, p := range l.Args {
		value, err := s.Resolve(p)
		if err != nil {
			return "", err
		}
		text, err := s.format(value, "", nil)
		if err != nil {
			return "", fmt.Errorf("formula: format %s: %w", p, err)
		}
		args = append(args, l.Escape.Apply(text))
	}

	msg, err := s.translator.Translate(s.locale, l.Key, args...)
	if err != nil {
		return "", fmt.Errorf("formula: translate %q for locale %q: %w", l.Key, s.locale, err)
	}
	return msg, nil
}

// Conditional renders Then when Cond is truthy and Else otherwise.
type Conditional struct {
	Cond keypath.Path
	Then []Node
	Else []Node
}

func (Conditional) Kind() Kind { return KindConditional }

func (c Conditional) Render(s *Scope) (string, error) {
	value, err := s.Resolve(c.Cond)
	if err != nil {
		return "", err
	}
	ok, err := truthy(value)
	if err != nil {
		return "", fmt.Errorf("%w: condition %s: %v", ErrValueNotRetrievable, c.Cond, err)
	}
	if ok {
		return renderNodes(c.Then, s)
	}
	return renderNodes(c.Else, s)
}

// Repeat renders Body once per element of the slice reached through Items.
type Repeat struct {
	Items     keypath.Path
	Body      *Formula
	Separator string
}

func (Repeat) Kind() Kind { return KindRepeat }

func (r Repeat) Render(s *Scope) (string, error) {
	value, err := s.Resolve(r.Items)
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("%w: %s yields %T, want a slice", ErrValueNotRetrievable, r.Items, value)
	}

	var b strings.Builder
	for i := 0; i < rv.Len(); i++ {
		child, err := s.Child(r.Body, rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		out, err := r.Body.RenderScope(child)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(r.Separator)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func renderNodes(nodes []Node, s *Scope) (string, error) {
	var b strings.Builder
	for _, node := range nodes {
		out, err := node.Render(s)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func truthy(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case *bool:
		return v != nil && *v, nil
	case string:
		return v != "", nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0, nil
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil(), nil
	default:
		return false, fmt.Errorf("cannot use %T as a condition", value)
	}
}
