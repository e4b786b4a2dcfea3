package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-htmlkit/pkg/i18n"
)

// ErrMissingTranslation is returned by StubTranslator for unknown entries.
var ErrMissingTranslation = errors.New("testsupport: missing translation")

// StubTranslator maps "locale/key" to a message. Args are appended to the
// message separated by "|" so tests can assert what the translator received.
type StubTranslator map[string]string

func (t StubTranslator) Translate(locale, key string, args ...any) (string, error) {
	msg, ok := t[locale+"/"+key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
	}
	if len(args) == 0 {
		return msg, nil
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, msg)
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, "|"), nil
}

// CountingTranslator wraps a translator and records how often it was called.
type CountingTranslator struct {
	Next i18n.Translator

	mu    sync.Mutex
	calls int
}

func (c *CountingTranslator) Translate(locale, key string, args ...any) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Next.Translate(locale, key, args...)
}

// Calls reports the number of Translate invocations.
func (c *CountingTranslator) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the golden file at path, rewriting the file
// instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
