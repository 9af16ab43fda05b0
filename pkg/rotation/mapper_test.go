package rotation

import (
	"math"
	"testing"
)

func TestMappersCenterCurrentItem(t *testing.T) {
	for _, name := range MapperNames() {
		m := MapperByName(name)
		for n := 1; n <= 9; n++ {
			for cur := 0; cur < n; cur++ {
				centers := 0
				for i := 0; i < n; i++ {
					if m.Map(i, cur, n).Role == RoleCenter {
						centers++
						if i != cur {
							t.Errorf("%s n=%d cur=%d: item %d mapped to center", name, n, cur, i)
						}
					}
				}
				if centers != 1 {
					t.Errorf("%s n=%d cur=%d: %d centers, want 1", name, n, cur, centers)
				}
			}
		}
	}
}

func TestMappersAreDeterministic(t *testing.T) {
	for _, name := range MapperNames() {
		m := MapperByName(name)
		for i := 0; i < 7; i++ {
			a := m.Map(i, 3, 7)
			b := m.Map(i, 3, 7)
			if a != b {
				t.Errorf("%s: Map(%d, 3, 7) not deterministic: %+v vs %+v", name, i, a, b)
			}
		}
	}
}

func TestFlatRoles(t *testing.T) {
	tests := []struct {
		index, current, n int
		want              Role
		offset            float64
	}{
		{2, 2, 5, RoleCenter, 0},
		{3, 2, 5, RoleAdjacentRight, 100},
		{1, 2, 5, RoleAdjacentLeft, -100},
		{0, 4, 5, RoleAdjacentRight, 100},
		{4, 0, 5, RoleAdjacentLeft, -100},
		{2, 0, 5, RoleOffscreen, 200},
		{3, 0, 5, RoleOffscreen, -200},
	}
	for _, tt := range tests {
		got := Flat.Map(tt.index, tt.current, tt.n)
		if got.Role != tt.want {
			t.Errorf("Flat.Map(%d, %d, %d).Role = %v, want %v", tt.index, tt.current, tt.n, got.Role, tt.want)
		}
		if got.Offset != tt.offset {
			t.Errorf("Flat.Map(%d, %d, %d).Offset = %v, want %v", tt.index, tt.current, tt.n, got.Offset, tt.offset)
		}
	}
}

func TestFlatTwoItemsPreferAdjacentRight(t *testing.T) {
	got := Flat.Map(1, 0, 2)
	if got.Role != RoleAdjacentRight {
		t.Errorf("role = %v, want adjacent-right", got.Role)
	}
}

func TestSpotEnlargesCenterOnly(t *testing.T) {
	if s := Spot.Map(0, 0, 3).Scale; s != 1.6 {
		t.Errorf("center scale = %v, want 1.6", s)
	}
	if s := Spot.Map(1, 0, 3).Scale; s != Flat.Map(1, 0, 3).Scale {
		t.Errorf("adjacent scale = %v, want Flat's", s)
	}
}

func TestStackFarSlots(t *testing.T) {
	right := Stack.Map(2, 0, 7)
	left := Stack.Map(5, 0, 7)
	if right.Role != RoleFar || left.Role != RoleFar {
		t.Fatalf("roles = %v, %v, want far", right.Role, left.Role)
	}
	if right.Offset <= 0 || left.Offset >= 0 {
		t.Errorf("far offsets = %v, %v; want right positive, left negative", right.Offset, left.Offset)
	}
	if right.Z >= Stack.Map(1, 0, 7).Z {
		t.Error("far slot should sit below the adjacent slot")
	}
	if off := Stack.Map(3, 0, 7); off.Role != RoleOffscreen || off.Opacity != 0 {
		t.Errorf("distance 3 should be offscreen and transparent, got %+v", off)
	}
}

func TestRingIsSymmetric(t *testing.T) {
	const n = 6
	for d := 1; d < n/2; d++ {
		r := Ring.Map(d, 0, n)
		l := Ring.Map(n-d, 0, n)
		if math.Abs(r.Offset+l.Offset) > 1e-9 {
			t.Errorf("d=%d: offsets %v and %v not mirrored", d, r.Offset, l.Offset)
		}
		if r.Scale != l.Scale || r.Opacity != l.Opacity || r.Z != l.Z {
			t.Errorf("d=%d: %+v and %+v differ beyond offset", d, r, l)
		}
	}
	for i := 0; i < n; i++ {
		tr := Ring.Map(i, 0, n)
		if !tr.Role.Visible() {
			t.Errorf("ring item %d not visible", i)
		}
		if tr.Opacity < 0.4 || tr.Scale < 0.6 {
			t.Errorf("ring item %d below floor: %+v", i, tr)
		}
	}
}

func TestCenterIsTopmost(t *testing.T) {
	for _, name := range MapperNames() {
		m := MapperByName(name)
		for _, n := range []int{1, 2, 3, 7, 41, 100} {
			for _, current := range []int{0, n - 1} {
				center := m.Map(current, current, n)
				for i := 0; i < n; i++ {
					if i == current {
						continue
					}
					if z := m.Map(i, current, n).Z; z >= center.Z {
						t.Errorf("%s n=%d current=%d: item %d Z=%d, center Z=%d", name, n, current, i, z, center.Z)
					}
				}
			}
		}
	}
}

func TestFadeShowsOnlyCurrent(t *testing.T) {
	for i := 0; i < 4; i++ {
		tr := Fade.Map(i, 1, 4)
		if i == 1 && tr.Opacity != 1 {
			t.Errorf("current opacity = %v", tr.Opacity)
		}
		if i != 1 && tr.Opacity != 0 {
			t.Errorf("item %d opacity = %v, want 0", i, tr.Opacity)
		}
	}
}

func TestMapperByNameFallsBack(t *testing.T) {
	if MapperByName(" Ring ").Map(1, 0, 4) != Ring.Map(1, 0, 4) {
		t.Error("name lookup should be case and space insensitive")
	}
	if MapperByName("nope").Map(1, 0, 4) != Flat.Map(1, 0, 4) {
		t.Error("unknown name should fall back to flat")
	}
}

func TestControllerTransforms(t *testing.T) {
	c := New(Config{Len: 5})
	c.GoTo(3)
	ts := c.Transforms(Flat)
	if len(ts) != 5 {
		t.Fatalf("len = %d", len(ts))
	}
	if ts[3].Role != RoleCenter || ts[4].Role != RoleAdjacentRight || ts[2].Role != RoleAdjacentLeft {
		t.Errorf("unexpected roles: %v %v %v", ts[2].Role, ts[3].Role, ts[4].Role)
	}
}
