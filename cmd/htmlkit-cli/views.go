package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-htmlkit/pkg/escape"
	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/keypath"
	"github.com/goliatone/go-htmlkit/pkg/render"
)

const (
	shapeProfile keypath.Shape = "profile"
	shapeAddress keypath.Shape = "address"
	shapeTags    keypath.Shape = "[]string"
	shapeTag     keypath.Shape = "tag"
	shapeString  keypath.Shape = "string"
	shapeBool    keypath.Shape = "bool"
	shapeTime    keypath.Shape = "time"
)

type address struct {
	Street string `yaml:"street"`
	City   string `yaml:"city"`
}

type profile struct {
	Name     string    `yaml:"name"`
	Language string    `yaml:"language"`
	Admin    bool      `yaml:"admin"`
	Joined   time.Time `yaml:"joined"`
	Bio      string    `yaml:"bio"`
	Address  address   `yaml:"address"`
	Tags     []string  `yaml:"tags"`
}

var (
	profileName     = keypath.Field(shapeProfile, shapeString, "name", func(p profile) string { return p.Name })
	profileLanguage = keypath.Field(shapeProfile, shapeString, "language", func(p profile) string { return p.Language })
	profileAdmin    = keypath.Field(shapeProfile, shapeBool, "admin", func(p profile) bool { return p.Admin })
	profileJoined   = keypath.Field(shapeProfile, shapeTime, "joined", func(p profile) time.Time { return p.Joined })
	profileBio      = keypath.Field(shapeProfile, shapeString, "bio", func(p profile) string { return p.Bio })
	profileAddress  = keypath.Field(shapeProfile, shapeAddress, "address", func(p profile) address { return p.Address })
	profileTags     = keypath.Field(shapeProfile, shapeTags, "tags", func(p profile) []string { return p.Tags })
	profileHasTags  = keypath.Field(shapeProfile, shapeBool, "has_tags", func(p profile) bool { return len(p.Tags) > 0 })
	addressCity     = keypath.Field(shapeAddress, shapeString, "city", func(a address) string { return a.City })
	addressStreet   = keypath.Field(shapeAddress, shapeString, "street", func(a address) string { return a.Street })
	tagLabel        = keypath.Field(shapeTag, shapeString, "label", func(s string) string { return s })
)

func loadProfile(path string) (profile, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return profile{}, fmt.Errorf("open data: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	var p profile
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return profile{}, fmt.Errorf("decode data: %w", err)
	}
	return p, nil
}

// addressView renders a postal address; it is embedded by the card view.
func addressView(f *formula.Formula) error {
	f.AddText(`<address>`)
	if err := f.AddValue(addressStreet); err != nil {
		return err
	}
	f.AddText(`, `)
	if err := f.AddValue(addressCity); err != nil {
		return err
	}
	f.AddText(`</address>`)
	return nil
}

func cardView(bioMode escape.Mode) render.LocalizedView {
	return render.NewLocalizedView("profile.card", shapeProfile, profileLanguage, func(f *formula.Formula) error {
		f.AddText("<section class=\"profile\">\n  <h1>")
		if err := f.Translate("profile.heading"); err != nil {
			return err
		}
		f.AddText(": ")
		if err := f.AddValue(profileName); err != nil {
			return err
		}
		f.AddText("</h1>\n  <p class=\"role\">")
		if err := f.If(profileAdmin, func(then *formula.Formula) error {
			return then.Translate("profile.admin")
		}, func(otherwise *formula.Formula) error {
			return otherwise.Translate("profile.member")
		}); err != nil {
			return err
		}
		f.AddText("</p>\n  <p class=\"bio\">")
		if err := f.AddVariable(formula.Variable{Path: profileBio, Escape: bioMode}); err != nil {
			return err
		}
		f.AddText("</p>\n  <p>")
		if err := f.Include(profileAddress, func(inner *formula.Formula) error {
			return inner.Translate("profile.city", addressCity)
		}); err != nil {
			return err
		}
		f.AddText("</p>\n  ")

		addr := formula.New(shapeAddress)
		if err := addressView(addr); err != nil {
			return err
		}
		if err := f.Embed(addr); err != nil {
			return err
		}

		f.AddText("\n  <p>")
		if err := f.Translate("profile.joined", profileJoined); err != nil {
			return err
		}
		f.AddText("</p>\n  <h2>")
		if err := f.Translate("profile.tags"); err != nil {
			return err
		}
		f.AddText("</h2>\n  ")
		if err := f.If(profileHasTags, func(then *formula.Formula) error {
			then.AddText("<ul><li>")
			if err := then.EachJoined(profileTags, shapeTag, "</li><li>", func(item *formula.Formula) error {
				return item.AddValue(tagLabel)
			}); err != nil {
				return err
			}
			then.AddText("</li></ul>")
			return nil
		}, func(otherwise *formula.Formula) error {
			otherwise.AddText("<p>")
			if err := otherwise.Translate("profile.no_tags"); err != nil {
				return err
			}
			otherwise.AddText("</p>")
			return nil
		}); err != nil {
			return err
		}
		f.AddText("\n</section>\n")
		return nil
	})
}

func greetingView() render.LocalizedView {
	return render.NewLocalizedView("profile.greeting", shapeProfile, profileLanguage, func(f *formula.Formula) error {
		if err := f.Translate("greeting"); err != nil {
			return err
		}
		f.AddText(" ")
		if err := f.AddValue(profileName); err != nil {
			return err
		}
		f.AddText("!")
		return nil
	})
}

func views(bioMode escape.Mode) []render.View {
	return []render.View{cardView(bioMode), greetingView()}
}
