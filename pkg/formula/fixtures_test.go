package formula_test

import (
	"time"

	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

const (
	shapePerson  keypath.Shape = "person"
	shapeAddress keypath.Shape = "address"
	shapeGeo     keypath.Shape = "geo"
	shapeTag     keypath.Shape = "tag"
	shapeTags    keypath.Shape = "[]tag"
	shapeString  keypath.Shape = "string"
	shapeBool    keypath.Shape = "bool"
	shapeTime    keypath.Shape = "time"
	shapeNumber  keypath.Shape = "number"
)

type geo struct {
	Lat float64
	Lng float64
}

type address struct {
	City string
	Geo  geo
}

type tag struct {
	Label string
}

type person struct {
	Name     string
	Language string
	Admin    bool
	Joined   time.Time
	Address  address
	Billing  address
	Tags     []tag
}

var (
	personName     = keypath.Field(shapePerson, shapeString, "name", func(p person) string { return p.Name })
	personLanguage = keypath.Field(shapePerson, shapeString, "language", func(p person) string { return p.Language })
	personAdmin    = keypath.Field(shapePerson, shapeBool, "admin", func(p person) bool { return p.Admin })
	personJoined   = keypath.Field(shapePerson, shapeTime, "joined", func(p person) time.Time { return p.Joined })
	personAddress  = keypath.Field(shapePerson, shapeAddress, "address", func(p person) address { return p.Address })
	personBilling  = keypath.Field(shapePerson, shapeAddress, "billing", func(p person) address { return p.Billing })
	personTags     = keypath.Field(shapePerson, shapeTags, "tags", func(p person) []tag { return p.Tags })
	addressCity    = keypath.Field(shapeAddress, shapeString, "city", func(a address) string { return a.City })
	addressGeo     = keypath.Field(shapeAddress, shapeGeo, "geo", func(a address) geo { return a.Geo })
	geoLat         = keypath.Field(shapeGeo, shapeNumber, "lat", func(g geo) float64 { return g.Lat })
	tagLabel       = keypath.Field(shapeTag, shapeString, "label", func(t tag) string { return t.Label })
)

func ada() person {
	return person{
		Name:     "Ada",
		Language: "nb",
		Admin:    true,
		Joined:   time.Date(2024, time.January, 16, 23, 30, 0, 0, time.UTC),
		Address: address{
			City: "Oslo",
			Geo:  geo{Lat: 59.91, Lng: 10.75},
		},
		Tags: []tag{{Label: "go"}, {Label: "web"}},
	}
}
