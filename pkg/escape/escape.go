// Package escape applies output-format escaping to rendered values.
package escape

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Mode selects how a value is prepared before it is written into the output.
type Mode int

const (
	// HTML escapes markup-significant characters. It is the zero value so
	// variables are escaped unless a caller opts out.
	HTML Mode = iota
	// None emits the value unchanged.
	None
	// Sanitize keeps a safe subset of user-generated markup and strips the rest.
	Sanitize
)

func (m Mode) String() string {
	switch m {
	case HTML:
		return "html"
	case None:
		return "none"
	case Sanitize:
		return "sanitize"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a textual mode (as found in configuration) to a Mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "html", "escape":
		return HTML, nil
	case "none", "raw":
		return None, nil
	case "sanitize", "ugc":
		return Sanitize, nil
	default:
		return HTML, fmt.Errorf("escape: unknown mode %q", raw)
	}
}

// Apply escapes value according to the mode.
func (m Mode) Apply(value string) string {
	switch m {
	case None:
		return value
	case Sanitize:
		if strings.TrimSpace(value) == "" {
			return value
		}
		return sanitizer().Sanitize(value)
	default:
		return html.EscapeString(value)
	}
}

var (
	sanitizerOnce   sync.Once
	sanitizerPolicy *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	sanitizerOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		sanitizerPolicy = policy
	})
	return sanitizerPolicy
}
