package render_test

import (
	"github.com/goliatone/go-htmlkit/pkg/formula"
	"github.com/goliatone/go-htmlkit/pkg/keypath"
	"github.com/goliatone/go-htmlkit/pkg/render"
)

const (
	shapeProfile keypath.Shape = "profile"
	shapeAddress keypath.Shape = "address"
	shapeString  keypath.Shape = "string"
	shapeMissing keypath.Shape = "missing"
)

type address struct {
	City string
}

type profile struct {
	Name     string
	Language string
	Address  address
}

var (
	profileName     = keypath.Field(shapeProfile, shapeString, "name", func(p profile) string { return p.Name })
	profileLanguage = keypath.Field(shapeProfile, shapeString, "language", func(p profile) string { return p.Language })
	profileAddress  = keypath.Field(shapeProfile, shapeAddress, "address", func(p profile) address { return p.Address })
	addressCity     = keypath.Field(shapeAddress, shapeString, "city", func(a address) string { return a.City })
	missingCity     = keypath.Field(shapeMissing, shapeString, "city", func(a address) string { return a.City })
)

func adaProfile() profile {
	return profile{Name: "Ada", Language: "nb", Address: address{City: "Oslo"}}
}

func greetingView() render.View {
	return render.NewView("profile.greeting", shapeProfile, func(f *formula.Formula) error {
		if err := f.Register(profileAddress); err != nil {
			return err
		}
		city := formula.New(shapeAddress)
		if err := city.AddValue(addressCity); err != nil {
			return err
		}
		f.AddText("Hello ")
		if err := f.AddValue(profileName); err != nil {
			return err
		}
		f.AddText("! City: ")
		return f.Embed(city)
	})
}
