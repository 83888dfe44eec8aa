package di

import "fmt"

// Lifetime determines how long a resolved instance is reused.
type Lifetime int

const (
	Transient Lifetime = iota // New instance on every resolve
	Singleton                 // One instance per container
	Scoped                    // One instance per innermost active scope
)

// String returns the lifetime name used in logs and metric attributes.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

func (l Lifetime) valid() bool {
	return l >= Transient && l <= Scoped
}
