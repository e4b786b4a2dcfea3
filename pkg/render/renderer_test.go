package render_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
	"github.com/goliatone/go-htmlkit/pkg/render"
	"github.com/goliatone/go-htmlkit/pkg/testsupport"
)

func TestRenderer_RendersEmbeddedAddress(t *testing.T) {
	r := render.New()
	if err := r.Add(greetingView()); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := r.Render(testsupport.Context(), "profile.greeting", adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff("Hello Ada! City: Oslo", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_GoldenProfileCard(t *testing.T) {
	view := render.NewView("profile.card", shapeProfile, func(f *formula.Formula) error {
		f.AddText("<article class=\"profile\">\n  <h1>")
		if err := f.AddValue(profileName); err != nil {
			return err
		}
		f.AddText("</h1>\n  <p>")
		if err := f.Include(profileAddress, func(inner *formula.Formula) error {
			return inner.AddValue(addressCity)
		}); err != nil {
			return err
		}
		f.AddText("</p>\n</article>\n")
		return nil
	})

	r := render.New()
	r.MustAdd(view)

	data := adaProfile()
	data.Name = "Ada <Lovelace>"
	out, err := r.RenderView(testsupport.Context(), view, data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertGolden(t, "testdata/profile_card.golden.html", out)
}

func TestRenderer_UnregisteredViewFails(t *testing.T) {
	r := render.New()

	_, err := r.Render(testsupport.Context(), "profile.unknown", adaProfile())
	if !errors.Is(err, render.ErrFormulaNotFound) {
		t.Fatalf("expected ErrFormulaNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "call Add") {
		t.Fatalf("expected guidance in error, got %q", err)
	}
}

func TestRenderer_LocalizedView(t *testing.T) {
	translator := testsupport.StubTranslator{
		"nb/greeting": "Hei",
		"en/greeting": "Hello",
	}
	view := render.NewLocalizedView("profile.localized", shapeProfile, profileLanguage, func(f *formula.Formula) error {
		if err := f.Translate("greeting"); err != nil {
			return err
		}
		f.AddText(", ")
		return f.AddValue(profileName)
	})

	r := render.New(render.WithTranslator(translator), render.WithDefaultLocale("en"))
	r.MustAdd(view)

	out, err := r.Render(testsupport.Context(), view.ID(), adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Hei") {
		t.Fatalf("expected Norwegian greeting, got %q", out)
	}

	english := adaProfile()
	english.Language = ""
	out, err = r.Render(testsupport.Context(), view.ID(), english)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff("Hello, Ada", out); diff != "" {
		t.Fatalf("fallback mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_LocaleFromContext(t *testing.T) {
	catalog := i18n.NewCatalog(map[string]map[string]string{
		"en": {"greeting": "Hello"},
		"nb": {"greeting": "Hei"},
	}, i18n.WithDefaultLocale("en"))

	view := render.NewView("greeting", shapeProfile, func(f *formula.Formula) error {
		return f.Translate("greeting")
	})
	r := render.New(render.WithTranslator(catalog), render.WithDefaultLocale("en"))
	r.MustAdd(view)

	ctx := render.WithLocale(context.Background(), "nb")
	out, err := r.Render(ctx, "greeting", adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hei" {
		t.Fatalf("expected context locale to win, got %q", out)
	}

	out, err = r.Render(context.Background(), "greeting", adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello" {
		t.Fatalf("expected default locale, got %q", out)
	}
}

func TestRenderer_LocalizedViewWithoutLocalePath(t *testing.T) {
	view := render.NewLocalizedView("profile.broken", shapeProfile, nil, func(f *formula.Formula) error {
		return f.Translate("greeting")
	})

	r := render.New(render.WithTranslator(testsupport.StubTranslator{}))
	err := r.Add(view)
	if !errors.Is(err, render.ErrMissingLocalePath) {
		t.Fatalf("expected ErrMissingLocalePath, got %v", err)
	}
	if r.Has(view.ID()) {
		t.Fatalf("broken view must not be cached")
	}
}

func TestRenderer_FailedReAddKeepsPreviousFormula(t *testing.T) {
	r := render.New()
	r.MustAdd(greetingView())

	broken := render.NewView("profile.greeting", shapeProfile, func(f *formula.Formula) error {
		f.AddText("broken ")
		return f.Register(missingCity)
	})
	err := r.Add(broken)
	if !errors.Is(err, formula.ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}

	out, err := r.Render(testsupport.Context(), "profile.greeting", adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello Ada! City: Oslo" {
		t.Fatalf("previous formula was replaced: %q", out)
	}
}

func TestRenderer_ReAddIsIdempotent(t *testing.T) {
	r := render.New()
	r.MustAdd(greetingView())
	first, err := r.Render(testsupport.Context(), "profile.greeting", adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	r.MustAdd(greetingView())
	second, err := r.Render(testsupport.Context(), "profile.greeting", adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if first != second {
		t.Fatalf("re-add changed output: %q vs %q", first, second)
	}
	if diff := cmp.Diff([]string{"profile.greeting"}, r.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_RejectsInvalidViews(t *testing.T) {
	r := render.New()
	if err := r.Add(nil); !errors.Is(err, render.ErrInvalidView) {
		t.Fatalf("expected ErrInvalidView for nil view, got %v", err)
	}
	if err := r.Add(render.NewView("  ", shapeProfile, nil)); !errors.Is(err, render.ErrInvalidView) {
		t.Fatalf("expected ErrInvalidView for blank id, got %v", err)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	r := render.New()
	r.MustAdd(greetingView())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, "profile.greeting", adaProfile()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_RemoveView(t *testing.T) {
	r := render.New()
	r.MustAdd(greetingView())
	if !r.Remove("profile.greeting") {
		t.Fatalf("expected view to be removed")
	}
	if r.Remove("profile.greeting") {
		t.Fatalf("second remove should report false")
	}
	if _, err := r.Render(testsupport.Context(), "profile.greeting", adaProfile()); !errors.Is(err, render.ErrFormulaNotFound) {
		t.Fatalf("expected ErrFormulaNotFound, got %v", err)
	}
}

func TestRenderer_RenderErrorNamesView(t *testing.T) {
	r := render.New()
	r.MustAdd(greetingView())

	_, err := r.Render(testsupport.Context(), "profile.greeting", address{City: "Oslo"})
	if err == nil {
		t.Fatalf("expected render error for wrong root")
	}
	if !strings.Contains(err.Error(), `"profile.greeting"`) {
		t.Fatalf("expected view id in error, got %q", err)
	}
}

func TestRenderer_RenderResponse(t *testing.T) {
	r := render.New(render.WithContentType("text/plain; charset=utf-8"))
	r.MustAdd(greetingView())

	resp, err := r.RenderResponse(testsupport.Context(), "profile.greeting", adaProfile())
	if err != nil {
		t.Fatalf("render response: %v", err)
	}
	if resp.ContentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", resp.ContentType)
	}

	rec := httptest.NewRecorder()
	if err := resp.WriteTo(rec); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected header %q", got)
	}
	if rec.Body.String() != "Hello Ada! City: Oslo" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestRenderer_DefaultContentType(t *testing.T) {
	if got := render.New().ContentType(); got != render.DefaultContentType {
		t.Fatalf("expected default content type, got %q", got)
	}
}

func TestRenderer_ConcurrentAddAndRender(t *testing.T) {
	r := render.New()
	r.MustAdd(greetingView())

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)

	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := fmt.Sprintf("view.%d.%d", i, j)
				view := render.NewView(id, shapeProfile, func(f *formula.Formula) error {
					f.AddText(id + ":")
					return f.AddValue(profileName)
				})
				if err := r.Add(view); err != nil {
					errs <- err
					return
				}
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				out, err := r.Render(testsupport.Context(), "profile.greeting", adaProfile())
				if err != nil {
					errs <- err
					return
				}
				if out != "Hello Ada! City: Oslo" {
					errs <- fmt.Errorf("corrupted output %q", out)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	if got := len(r.List()); got != workers*50+1 {
		t.Fatalf("expected %d cached views, got %d", workers*50+1, got)
	}
	out, err := r.Render(testsupport.Context(), "view.3.7", adaProfile())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "view.3.7:Ada" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_SharedCache(t *testing.T) {
	cache := render.NewCache()
	writer := render.New(render.WithCache(cache))
	reader := render.New(render.WithCache(cache))

	writer.MustAdd(greetingView())
	if !reader.Has("profile.greeting") {
		t.Fatalf("expected shared cache to expose view")
	}
	if reader.Cache() != cache {
		t.Fatalf("expected renderer to use the provided cache")
	}
}
