package keypath_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-htmlkit/pkg/keypath"
)

const (
	shapePerson  keypath.Shape = "person"
	shapeAddress keypath.Shape = "address"
	shapeCity    keypath.Shape = "city"
	shapeString  keypath.Shape = "string"
)

type city struct {
	Name string
}

type address struct {
	City city
}

type person struct {
	Name    string
	Address *address
}

var (
	personAddress = keypath.Field(shapePerson, shapeAddress, "address", func(p person) *address { return p.Address })
	addressCity   = keypath.Field(shapeAddress, shapeCity, "city", func(a *address) city { return a.City })
	cityName      = keypath.Field(shapeCity, shapeString, "name", func(c city) string { return c.Name })
)

func TestAppend_MatchesManualApplication(t *testing.T) {
	root := person{Name: "Ada", Address: &address{City: city{Name: "Oslo"}}}

	composed, err := keypath.Join(personAddress, addressCity, cityName)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	got, err := keypath.Get[string](composed, root)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	step1, _ := personAddress.Apply(root)
	step2, _ := addressCity.Apply(step1)
	want, _ := cityName.Apply(step2)
	if got != want {
		t.Fatalf("composed path = %q, manual = %q", got, want)
	}
	if composed.Root() != shapePerson || composed.Target() != shapeString {
		t.Fatalf("unexpected shapes %s -> %s", composed.Root(), composed.Target())
	}
	if composed.String() != ".address.city.name" {
		t.Fatalf("unexpected string %q", composed.String())
	}
}

func TestAppend_RejectsMismatchedShapes(t *testing.T) {
	_, err := keypath.Append(personAddress, cityName)
	if !errors.Is(err, keypath.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestAppend_DropsIdentity(t *testing.T) {
	p, err := keypath.Append(keypath.Identity(shapePerson), personAddress)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !keypath.Equal(p, personAddress) {
		t.Fatalf("expected identity to be dropped, got %s", p)
	}

	p, err = keypath.Append(personAddress, keypath.Identity(shapeAddress))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !keypath.Equal(p, personAddress) {
		t.Fatalf("expected trailing identity to be dropped, got %s", p)
	}
}

func TestApply_RootErrors(t *testing.T) {
	if _, err := personAddress.Apply(nil); !errors.Is(err, keypath.ErrNilRoot) {
		t.Fatalf("expected ErrNilRoot, got %v", err)
	}
	if _, err := personAddress.Apply("not a person"); !errors.Is(err, keypath.ErrRootMismatch) {
		t.Fatalf("expected ErrRootMismatch, got %v", err)
	}

	chained := keypath.MustAppend(personAddress, addressCity)
	if _, err := chained.Apply(person{Name: "Ada"}); !errors.Is(err, keypath.ErrNilRoot) {
		t.Fatalf("expected nil intermediate to fail, got %v", err)
	}
}

func TestGet_TypeMismatch(t *testing.T) {
	_, err := keypath.Get[int](cityName, city{Name: "Oslo"})
	if !errors.Is(err, keypath.ErrRootMismatch) {
		t.Fatalf("expected ErrRootMismatch, got %v", err)
	}
}

func TestEqual(t *testing.T) {
	a := keypath.MustAppend(personAddress, addressCity)
	b := keypath.MustAppend(personAddress, addressCity)
	if !keypath.Equal(a, b) {
		t.Fatalf("expected equal chains")
	}
	if keypath.Equal(a, personAddress) {
		t.Fatalf("expected different chains")
	}
	if !keypath.Equal(nil, nil) {
		t.Fatalf("expected nil paths to be equal")
	}
}

func TestEqual_DistinguishesGettersWithSameName(t *testing.T) {
	home := keypath.Field(shapePerson, shapeAddress, "address", func(p person) *address { return p.Address })
	if keypath.Equal(home, personAddress) {
		t.Fatalf("separately declared getters must not compare equal")
	}
	if home.String() != personAddress.String() {
		t.Fatalf("expected matching names, got %s and %s", home, personAddress)
	}

	a := keypath.MustAppend(home, addressCity)
	b := keypath.MustAppend(personAddress, addressCity)
	if keypath.Equal(a, b) {
		t.Fatalf("chains with different first steps must not compare equal")
	}
}
