package typesystem

import (
	"testing"
)

func TestFreshAndFind(t *testing.T) {
	g := NewGraph()
	a := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	b := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))

	if g.Find(a) != a {
		t.Errorf("Find(a) = %v, want %v", g.Find(a), a)
	}
	if g.Equivalent(a, b) {
		t.Errorf("fresh variables should not be equivalent")
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestUnionMergesClasses(t *testing.T) {
	g := NewGraph()
	a := g.Fresh(MakeDescriptor(FlexVar{}, 3))
	b := g.Fresh(MakeDescriptor(FlexVar{}, 5))

	g.Union(a, b, MakeDescriptor(RigidVar{Name: "x"}, 3))

	if !g.Equivalent(a, b) {
		t.Fatalf("Union did not merge the classes")
	}
	for _, v := range []Variable{a, b} {
		desc := g.Descriptor(v)
		rigid, ok := desc.Content.(RigidVar)
		if !ok || rigid.Name != "x" {
			t.Errorf("Descriptor(%v).Content = %#v, want RigidVar x", v, desc.Content)
		}
	}
}

func TestUnionRankMinimum(t *testing.T) {
	tests := []struct {
		name    string
		rankA   int32
		rankB   int32
		wantMin int32
	}{
		{"left lower", 1, 4, 1},
		{"right lower", 7, 2, 2},
		{"equal", 3, 3, 3},
		{"no rank wins", NoRank, 9, NoRank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			a := g.Fresh(MakeDescriptor(FlexVar{}, tt.rankA))
			b := g.Fresh(MakeDescriptor(FlexVar{}, tt.rankB))

			rank := tt.rankA
			if tt.rankB < rank {
				rank = tt.rankB
			}
			g.Union(a, b, MakeDescriptor(FlexVar{}, rank))

			if got := g.Descriptor(a).Rank; got != tt.wantMin {
				t.Errorf("root rank = %d, want %d", got, tt.wantMin)
			}
		})
	}
}

func TestUnionResetsBookkeeping(t *testing.T) {
	g := NewGraph()
	a := g.Fresh(Descriptor{Content: FlexVar{}, Rank: 2, Mark: OccursMark, Copy: 0})
	b := g.Fresh(MakeDescriptor(FlexVar{}, 2))

	g.Union(a, b, MakeDescriptor(FlexVar{}, 2))

	desc := g.Descriptor(a)
	if desc.Mark != NoMark {
		t.Errorf("Mark = %d, want NoMark", desc.Mark)
	}
	if desc.Copy != NilVariable {
		t.Errorf("Copy = %v, want NilVariable", desc.Copy)
	}
}

func TestPathCompression(t *testing.T) {
	g := NewGraph()
	vars := make([]Variable, 8)
	for i := range vars {
		vars[i] = g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	}
	for i := 1; i < len(vars); i++ {
		g.Union(vars[i-1], vars[i], MakeDescriptor(FlexVar{}, OutermostRank))
	}

	root := g.Find(vars[0])
	for _, v := range vars {
		if g.Find(v) != root {
			t.Errorf("Find(%v) = %v, want %v", v, g.Find(v), root)
		}
		if g.parent[v] != root && v != root {
			t.Errorf("parent[%v] = %v not compressed to %v", v, g.parent[v], root)
		}
	}
}

func TestUnionSameClassInstallsDescriptor(t *testing.T) {
	g := NewGraph()
	a := g.Fresh(MakeDescriptor(FlexVar{}, 2))
	b := g.Fresh(MakeDescriptor(FlexVar{}, 2))
	g.Union(a, b, MakeDescriptor(FlexVar{}, 2))

	g.Union(a, b, MakeDescriptor(ErrorContent{}, NoRank))
	if _, ok := g.Descriptor(b).Content.(ErrorContent); !ok {
		t.Errorf("Descriptor(b).Content = %#v, want ErrorContent", g.Descriptor(b).Content)
	}
}
