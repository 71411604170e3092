package components

import "fmt"

// ResourceKind tags what a resource point provides.
type ResourceKind uint8

const (
	KindLight ResourceKind = iota // feeds node energy and attention
	KindWater                     // attracts attention only
)

// String returns the config name of the kind.
func (k ResourceKind) String() string {
	names := ResourceKindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// ResourceKindNames returns the config names for all kinds.
// The order matches the ResourceKind constants.
func ResourceKindNames() []string {
	return []string{"light", "water"}
}

// ParseResourceKind maps a config name to its kind.
func ParseResourceKind(s string) (ResourceKind, error) {
	for i, name := range ResourceKindNames() {
		if s == name {
			return ResourceKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource kind %q", s)
}

// ResourcePoint is a point source in the domain. Immutable once added.
type ResourcePoint struct {
	Position  Vector2D
	Intensity float64
	Kind      ResourceKind
}
