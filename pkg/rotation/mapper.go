package rotation

import (
	"math"
	"sort"
	"strings"
)

// Role is the display slot an item occupies relative to the current index.
type Role int

const (
	RoleOffscreen Role = iota
	RoleFar
	RoleAdjacentLeft
	RoleAdjacentRight
	RoleCenter
)

var roleNames = [...]string{
	RoleOffscreen:     "offscreen",
	RoleFar:           "far",
	RoleAdjacentLeft:  "adjacent-left",
	RoleAdjacentRight: "adjacent-right",
	RoleCenter:        "center",
}

// String returns the role name.
func (r Role) String() string {
	if int(r) >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Visible reports whether the role is drawn at all.
func (r Role) Visible() bool { return r != RoleOffscreen }

// Transform is the per-item visual description consumed by the renderer.
// Offset is a percentage of the card width; negative values are left of
// center.
type Transform struct {
	Role    Role
	Offset  float64
	Scale   float64
	Opacity float64
	Z       int
}

// Mapper turns (index, current, n) into a Transform. Implementations must
// be pure: identical inputs give identical outputs.
type Mapper interface {
	Map(index, current, n int) Transform
}

// MapperFunc adapts a plain function to Mapper.
type MapperFunc func(index, current, n int) Transform

// Map calls f.
func (f MapperFunc) Map(index, current, n int) Transform { return f(index, current, n) }

// Distance is the forward circular distance from current to index.
func Distance(index, current, n int) int {
	return Wrap(index-current, n)
}

// signedDistance is the shortest signed distance; ties (n even, d == n/2)
// resolve to the right.
func signedDistance(index, current, n int) int {
	d := Distance(index, current, n)
	if d > n/2 {
		return d - n
	}
	return d
}

// roleFor classifies distance d. Adjacent slots win over far slots when the
// collection is small enough for them to coincide.
func roleFor(d, n int, far bool) Role {
	switch {
	case n == 0:
		return RoleOffscreen
	case d == 0:
		return RoleCenter
	case d == 1:
		return RoleAdjacentRight
	case d == n-1:
		return RoleAdjacentLeft
	case far && (d == 2 || d == n-2):
		return RoleFar
	default:
		return RoleOffscreen
	}
}

// side returns +1 for items right of center and -1 for items left of it.
func side(index, current, n int) float64 {
	if signedDistance(index, current, n) < 0 {
		return -1
	}
	return 1
}

// Flat is the three-up carousel: a full-size center card with one card on
// each side pushed a full card width out.
var Flat Mapper = MapperFunc(func(index, current, n int) Transform {
	d := Distance(index, current, n)
	switch roleFor(d, n, false) {
	case RoleCenter:
		return Transform{Role: RoleCenter, Scale: 1, Opacity: 1, Z: 3}
	case RoleAdjacentRight:
		return Transform{Role: RoleAdjacentRight, Offset: 100, Scale: 0.8, Opacity: 0.7, Z: 2}
	case RoleAdjacentLeft:
		return Transform{Role: RoleAdjacentLeft, Offset: -100, Scale: 0.8, Opacity: 0.7, Z: 2}
	}
	if n == 0 {
		return Transform{Role: RoleOffscreen}
	}
	return Transform{Role: RoleOffscreen, Offset: 200 * side(index, current, n), Scale: 0.6, Z: 1}
})

// Spot is Flat with an emphasized center card.
var Spot Mapper = MapperFunc(func(index, current, n int) Transform {
	t := Flat.Map(index, current, n)
	if t.Role == RoleCenter {
		t.Scale = 1.6
	}
	return t
})

// Stack is the five-up layout: adjacent cards overlap the center and a
// second, smaller pair sits further out.
var Stack Mapper = MapperFunc(func(index, current, n int) Transform {
	d := Distance(index, current, n)
	role := roleFor(d, n, true)
	switch role {
	case RoleCenter:
		return Transform{Role: role, Scale: 1, Opacity: 1, Z: 5}
	case RoleAdjacentRight:
		return Transform{Role: role, Offset: 85, Scale: 0.8, Opacity: 0.6, Z: 4}
	case RoleAdjacentLeft:
		return Transform{Role: role, Offset: -85, Scale: 0.8, Opacity: 0.6, Z: 4}
	case RoleFar:
		return Transform{Role: role, Offset: 160 * side(index, current, n), Scale: 0.8 * 0.85, Opacity: 0.4, Z: 3}
	}
	if n == 0 {
		return Transform{Role: RoleOffscreen}
	}
	return Transform{Role: RoleOffscreen, Offset: 250 * side(index, current, n), Scale: 0.5}
})

// Ring places every item on a circle seen from the front. Offset follows
// the sine of the item's angle; scale and opacity fall off with the angle
// and never reach zero, so the whole ring stays visible.
var Ring Mapper = MapperFunc(func(index, current, n int) Transform {
	if n == 0 {
		return Transform{Role: RoleOffscreen}
	}
	angle := float64(signedDistance(index, current, n)) * 360 / float64(n)
	rad := angle * math.Pi / 180
	opacity := math.Max(0.4, 1-math.Abs(angle)/180)

	role := roleFor(Distance(index, current, n), n, true)
	if role == RoleOffscreen {
		// Everything on the ring is drawn; the back half reads as far.
		role = RoleFar
	}
	z := int(math.Round(opacity * 10))
	if role == RoleCenter {
		// On large rings the neighbours round up to 10 as well.
		z = 11
	}
	return Transform{
		Role:    role,
		Offset:  math.Sin(rad) * 100,
		Scale:   math.Max(0.6, 1-math.Abs(angle)/360),
		Opacity: opacity,
		Z:       z,
	}
})

// Fade shows only the current item; everything else is fully transparent
// in place, as in the hero slider.
var Fade Mapper = MapperFunc(func(index, current, n int) Transform {
	if n > 0 && Distance(index, current, n) == 0 {
		return Transform{Role: RoleCenter, Scale: 1, Opacity: 1, Z: 1}
	}
	return Transform{Role: RoleOffscreen, Scale: 1}
})

var mappers = map[string]Mapper{
	"flat":  Flat,
	"spot":  Spot,
	"stack": Stack,
	"ring":  Ring,
	"fade":  Fade,
}

// MapperByName resolves a configured variant name, falling back to Flat.
func MapperByName(name string) Mapper {
	if m, ok := mappers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m
	}
	return Flat
}

// MapperNames lists the registered variant names in sorted order.
func MapperNames() []string {
	names := make([]string, 0, len(mappers))
	for name := range mappers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
