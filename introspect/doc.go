// Package introspect tells the container how to build a type.
//
// Go has no class constructors, so a type's constructors are the functions
// registered for it in a Catalog: any func(P1, ..., Pn) T or
// func(P1, ..., Pn) (T, error). The parameters are what the container
// injects. Struct types without a registered function still have Go's
// implicit zero-argument constructor (T{} or &T{}).
//
// When a type has more than one registered constructor, one of them must be
// designated; the catalog never guesses.
//
//	cat := introspect.NewCatalog()
//	cat.Define(NewService)            // func(*GenerateData) *Service
//	ctor, err := cat.Constructor(reflect.TypeOf(&Service{}))
//
// Tests substitute their own Introspector to control construction exactly.
package introspect
