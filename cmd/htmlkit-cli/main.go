package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	htmlkit "github.com/goliatone/go-htmlkit"
	"github.com/goliatone/go-htmlkit/pkg/calendar"
	"github.com/goliatone/go-htmlkit/pkg/escape"
	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/i18n"
	"github.com/goliatone/go-htmlkit/pkg/render"
)

type options struct {
	view        string
	data        string
	catalog     string
	locale      string
	timezone    string
	zones       string
	bioEscape   string
	output      string
	interactive bool
	explain     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.view, "view", "profile.card", "view to render (profile.card, profile.greeting)")
	flag.StringVar(&opts.data, "data", "cmd/htmlkit-cli/testdata/ada.yaml", "YAML context data file (- for stdin)")
	flag.StringVar(&opts.catalog, "catalog", "", "YAML translation catalog (bundled catalog if empty)")
	flag.StringVar(&opts.locale, "locale", "", "locale overriding the data file's language")
	flag.StringVar(&opts.timezone, "timezone", "UTC", "IANA time zone for dates")
	flag.StringVar(&opts.zones, "zones", "", "list bundled time zones matching the query and exit (* for all)")
	flag.StringVar(&opts.bioEscape, "bio-escape", "sanitize", "escaping for the bio field (html, none, sanitize)")
	flag.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flag.BoolVar(&opts.interactive, "interactive", false, "pick the locale interactively")
	flag.BoolVar(&opts.explain, "explain", false, "print the compiled formula instead of rendering")
	flag.Parse()

	var picker localePicker
	if opts.interactive {
		picker = surveyPicker{}
	}

	out, err := run(context.Background(), opts, picker)
	if err != nil {
		log.Fatalf("Failed to render view: %v", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(out), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("View written to %s\n", opts.output)
		return
	}
	fmt.Print(out)
}

func run(ctx context.Context, opts options, picker localePicker) (string, error) {
	if query := strings.TrimSpace(opts.zones); query != "" {
		return listZones(query)
	}

	catalog, err := loadCatalog(opts.catalog)
	if err != nil {
		return "", err
	}
	loc, err := calendar.LoadLocation(opts.timezone)
	if err != nil {
		return "", err
	}
	bioMode, err := escape.ParseMode(opts.bioEscape)
	if err != nil {
		return "", err
	}

	renderer := htmlkit.NewRenderer(
		render.WithTranslator(catalog),
		render.WithDefaultLocale(catalog.DefaultLocale()),
		render.WithFormulaOptions(formula.WithLocation(loc)),
	)
	for _, view := range views(bioMode) {
		if err := renderer.Add(view); err != nil {
			return "", err
		}
	}

	id := strings.TrimSpace(opts.view)
	if opts.explain {
		f, ok := renderer.Cache().Load(id)
		if !ok {
			return "", fmt.Errorf("%w: %q", render.ErrFormulaNotFound, id)
		}
		return strings.Join(f.Describe(), "\n") + "\n", nil
	}

	data, err := loadProfile(opts.data)
	if err != nil {
		return "", err
	}
	if opts.locale != "" {
		data.Language = opts.locale
	}
	if picker != nil {
		choice, err := picker.Pick(ctx, catalog.Locales(), i18n.NormalizeLocale(data.Language))
		if err != nil {
			return "", err
		}
		data.Language = choice
	}

	return renderer.Render(ctx, id, data)
}

func listZones(query string) (string, error) {
	if query == "*" {
		query = ""
	}
	matches := calendar.Suggest(query, 0)
	if len(matches) == 0 {
		return "", fmt.Errorf("no time zone matches %q", query)
	}
	return strings.Join(matches, "\n") + "\n", nil
}

func loadCatalog(path string) (*i18n.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return htmlkit.DefaultCatalog()
	}
	return i18n.LoadCatalogFile(path)
}
