package format

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-htmlkit/pkg/calendar"
)

// Built-in formatter identifiers exposed by the registry.
const (
	FormatterNil      = "nil"
	FormatterTime     = "time"
	FormatterString   = "string"
	FormatterBool     = "bool"
	FormatterInteger  = "integer"
	FormatterFloat    = "float"
	FormatterError    = "error"
	FormatterStringer = "stringer"
)

// Env carries the formatting settings of the formula being rendered.
type Env struct {
	Calendar calendar.Calendar
	Location *time.Location
	// Layout is the per-variable layout hint, mostly used for time values.
	Layout string
}

// Matcher decides whether a formatter should handle the supplied value.
type Matcher func(value any) bool

// Func converts a value into its textual form.
type Func func(value any, env Env) (string, error)

type rule struct {
	name     string
	priority int
	match    Matcher
	format   Func
	order    int
}

// Registry selects a formatter for a value using registered matchers. Higher
// priority wins; ties fall back to registration order. Values no rule accepts
// are printed with fmt.Sprint.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
	seq   int
}

// NewRegistry constructs a registry with the built-in formatters registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding the built-in formatters.
// Formulas snapshot it with Clone, so registering on it later does not change
// formulas that were already built.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds a formatter with the provided name and priority. Callers
// should avoid duplicate names; the highest priority match wins.
func (r *Registry) Register(name string, priority int, matcher Matcher, fn Func) {
	if r == nil || matcher == nil || fn == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		format:   fn,
		order:    r.seq,
	})
	r.seq++
	sort.SliceStable(r.rules, func(i, j int) bool {
		if r.rules[i].priority == r.rules[j].priority {
			return r.rules[i].order < r.rules[j].order
		}
		return r.rules[i].priority > r.rules[j].priority
	})
}

// Clone returns an independent copy of the registry. Formatters registered on
// either copy afterwards are not seen by the other.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return NewRegistry()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &Registry{
		rules: append([]rule(nil), r.rules...),
		seq:   r.seq,
	}
}

// Resolve returns the name of the formatter that would handle value.
func (r *Registry) Resolve(value any) (string, bool) {
	entry, ok := r.lookup(value)
	if !ok {
		return "", false
	}
	return entry.name, true
}

// Format converts value to a string using the first matching formatter. A
// formatter that panics yields an error.
func (r *Registry) Format(value any, env Env) (out string, err error) {
	entry, ok := r.lookup(value)
	if !ok {
		return fmt.Sprint(value), nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = fmt.Errorf("format: %s formatter panicked on %T: %v", entry.name, value, rec)
		}
	}()
	out, err = entry.format(value, env)
	if err != nil {
		return "", fmt.Errorf("format: %s formatter: %w", entry.name, err)
	}
	return out, nil
}

// Names lists registered formatter names in resolution order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for _, entry := range r.rules {
		names = append(names, entry.name)
	}
	return names
}

func (r *Registry) lookup(value any) (rule, bool) {
	if r == nil {
		return rule{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.rules {
		if entry.match(value) {
			return entry, true
		}
	}
	return rule{}, false
}

func (r *Registry) registerBuiltins() {
	r.Register(FormatterNil, 100, isNil, func(any, Env) (string, error) {
		return "", nil
	})

	r.Register(FormatterTime, 90, func(value any) bool {
		switch v := value.(type) {
		case time.Time:
			return true
		case *time.Time:
			return v != nil
		}
		return false
	}, formatTime)

	r.Register(FormatterString, 80, func(value any) bool {
		switch value.(type) {
		case string, []byte:
			return true
		}
		return false
	}, func(value any, _ Env) (string, error) {
		if b, ok := value.([]byte); ok {
			return string(b), nil
		}
		return value.(string), nil
	})

	r.Register(FormatterBool, 70, func(value any) bool {
		_, ok := value.(bool)
		return ok
	}, func(value any, _ Env) (string, error) {
		return strconv.FormatBool(value.(bool)), nil
	})

	r.Register(FormatterInteger, 70, func(value any) bool {
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	}, func(value any, _ Env) (string, error) {
		return fmt.Sprintf("%d", value), nil
	})

	r.Register(FormatterFloat, 70, func(value any) bool {
		switch value.(type) {
		case float32, float64:
			return true
		}
		return false
	}, func(value any, _ Env) (string, error) {
		switch v := value.(type) {
		case float32:
			return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
		default:
			return strconv.FormatFloat(v.(float64), 'f', -1, 64), nil
		}
	})

	r.Register(FormatterError, 60, func(value any) bool {
		_, ok := value.(error)
		return ok
	}, func(value any, _ Env) (string, error) {
		return value.(error).Error(), nil
	})

	r.Register(FormatterStringer, 50, func(value any) bool {
		_, ok := value.(fmt.Stringer)
		return ok
	}, func(value any, _ Env) (string, error) {
		return value.(fmt.Stringer).String(), nil
	})
}

func formatTime(value any, env Env) (string, error) {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		t = *v
	}
	cal := env.Calendar
	if cal == nil {
		cal = calendar.Default()
	}
	return cal.Format(t, env.Location, env.Layout), nil
}

// isNil reports nil values, including typed nil pointers, maps, slices,
// funcs, channels and interfaces.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
