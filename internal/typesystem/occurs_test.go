package typesystem

import (
	"testing"

	"github.com/funvibe/vela/internal/config"
)

func TestOccursFlat(t *testing.T) {
	g := NewGraph()
	a := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	intVar := g.Fresh(MakeDescriptor(Structure{Flat: App{Name: config.IntTypeName}}, OutermostRank))
	list := g.Fresh(MakeDescriptor(Structure{Flat: App{Name: config.ListTypeName, Args: []Variable{intVar}}}, OutermostRank))

	for _, v := range []Variable{a, intVar, list} {
		if Occurs(g, v) {
			t.Errorf("Occurs(%v) = true, want false", v)
		}
	}
}

func TestOccursSelfReference(t *testing.T) {
	g := NewGraph()
	// v = List v
	v := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	g.descs[v].Content = Structure{Flat: App{Name: config.ListTypeName, Args: []Variable{v}}}

	if !Occurs(g, v) {
		t.Errorf("Occurs(v) = false, want true for v = List v")
	}
}

func TestOccursThroughFunction(t *testing.T) {
	g := NewGraph()
	a := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	fun := g.Fresh(MakeDescriptor(Structure{Flat: Fun{Arg: a, Result: a}}, OutermostRank))
	// a = fun, so a = a -> a
	g.Union(a, fun, MakeDescriptor(Structure{Flat: Fun{Arg: a, Result: a}}, OutermostRank))

	if !Occurs(g, a) {
		t.Errorf("Occurs(a) = false, want true for a = a -> a")
	}
}

func TestOccursThroughAlias(t *testing.T) {
	g := NewGraph()
	real := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	alias := g.Fresh(MakeDescriptor(Alias{Name: "Loop", Real: real}, OutermostRank))
	g.descs[real].Content = Structure{Flat: App{Name: config.ListTypeName, Args: []Variable{alias}}}

	if !Occurs(g, alias) {
		t.Errorf("Occurs(alias) = false, want true when the alias body loops back")
	}
}

func TestOccursThroughRecord(t *testing.T) {
	g := NewGraph()
	ext := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	rec := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	g.descs[rec].Content = Structure{Flat: Record{Fields: map[string]Variable{"self": rec}, Ext: ext}}

	if !Occurs(g, rec) {
		t.Errorf("Occurs(rec) = false, want true for a record containing itself")
	}

	// Sharing is not a cycle: two fields pointing at one variable.
	shared := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	ext2 := g.Fresh(MakeDescriptor(Structure{Flat: EmptyRecord{}}, OutermostRank))
	rec2 := g.Fresh(MakeDescriptor(Structure{Flat: Record{
		Fields: map[string]Variable{"x": shared, "y": shared},
		Ext:    ext2,
	}}, OutermostRank))
	if Occurs(g, rec2) {
		t.Errorf("Occurs(rec2) = true, want false for mere sharing")
	}
}

func TestOccursTerminatesOnCyclicGraph(t *testing.T) {
	g := NewGraph()
	a := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	b := g.Fresh(MakeDescriptor(FlexVar{}, OutermostRank))
	g.descs[a].Content = Structure{Flat: Fun{Arg: b, Result: b}}
	g.descs[b].Content = Structure{Flat: Fun{Arg: a, Result: a}}

	// Must terminate and report the cycle.
	if !Occurs(g, a) {
		t.Errorf("Occurs(a) = false, want true for mutually recursive structure")
	}
}
