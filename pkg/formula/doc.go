// Package formula compiles view descriptions into formulas: ordered sequences
// of render nodes bound to a context shape, plus the path registry that lets
// nodes declared against other shapes read their values from the formula's
// context. A compiled formula is rendered many times against different
// context values.
//
// Compile phase:
//
//	f := formula.New("person")
//	_ = f.Register(personAddress)   // person -> address
//	f.AddText("Hello ")
//	_ = f.AddValue(personName)
//	_ = f.AddValue(addressCity)     // declared on address, lifted to person
//
// Render phase:
//
//	out, err := f.Render(ada, translator, "en")
package formula
