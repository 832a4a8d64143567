package typesystem

import (
	"sort"

	"github.com/funvibe/vela/internal/config"
	"github.com/funvibe/vela/internal/region"
)

// Sink is what the unifier needs from the surrounding solver session:
// every variable it allocates is registered, and every failed
// top-level unification is reported exactly once.
type Sink interface {
	Register(v Variable)
	AddError(r region.Region, err TypeError)
}

// Unifier decides whether two type variables can be made equal and
// merges their classes when they can. It owns no state beyond the
// graph and the sink; a solver session creates one per graph.
type Unifier struct {
	graph *Graph
	sink  Sink
}

func NewUnifier(g *Graph, sink Sink) *Unifier {
	return &Unifier{graph: g, sink: sink}
}

// orientation records which side of the constraint was the expected
// type, so messages can speak from the user's point of view. Pure
// structural recursion never changes it; reorient flips it.
type orientation uint8

const (
	expectedActual orientation = iota
	actualExpected
)

// uctx bundles the two sides of one unification step. Descriptors are
// read once at dispatch time.
type uctx struct {
	orientation orientation
	first       Variable
	firstDesc   Descriptor
	second      Variable
	secondDesc  Descriptor
}

func (c uctx) reorient() uctx {
	flipped := expectedActual
	if c.orientation == expectedActual {
		flipped = actualExpected
	}
	return uctx{
		orientation: flipped,
		first:       c.second,
		firstDesc:   c.secondDesc,
		second:      c.first,
		secondDesc:  c.firstDesc,
	}
}

// problem is the unifier's internal failure channel. It crosses rule
// functions, is caught at Unify's top frame, and at the two partial
// recovery points (argument spines, shared record fields).
type problemKind uint8

const (
	typicalProblem problemKind = iota
	specialProblem
	infiniteProblem
)

type problem struct {
	kind   problemKind
	reason Reason
}

// Unify is the engine's sole public entry. It attempts to make
// expected and actual equal; on failure it reads both final types
// back, heals both variables to the error sentinel, and reports one
// structured error through the sink. Reports whether it succeeded.
func (u *Unifier) Unify(hint string, r region.Region, expected, actual Variable) bool {
	p := u.guardedUnify(expectedActual, expected, actual)
	if p == nil {
		return true
	}

	expectedSrc := Render(u.graph, expected)
	actualSrc := Render(u.graph, actual)

	// The self-referential side must be picked before healing erases
	// the cycle. The actual side wins when both are cyclic.
	infiniteSrc := actualSrc
	if p.kind == infiniteProblem && Occurs(u.graph, expected) && !Occurs(u.graph, actual) {
		infiniteSrc = expectedSrc
	}

	// Heal both sides so later constraints touching them become
	// silent no-ops instead of repeating this error.
	u.graph.Union(expected, actual, MakeDescriptor(ErrorContent{}, NoRank))

	switch p.kind {
	case infiniteProblem:
		u.sink.AddError(r, &InfiniteType{Hint: hint, Type: infiniteSrc})
	case specialProblem:
		u.sink.AddError(r, &Mismatch{Hint: hint, Expected: expectedSrc, Actual: actualSrc, Reason: p.reason})
	default:
		u.sink.AddError(r, &Mismatch{Hint: hint, Expected: expectedSrc, Actual: actualSrc})
	}
	return false
}

func (u *Unifier) guardedUnify(o orientation, a, b Variable) *problem {
	if u.graph.Equivalent(a, b) {
		return nil
	}
	return u.actuallyUnify(uctx{
		orientation: o,
		first:       a,
		firstDesc:   *u.graph.Descriptor(a),
		second:      b,
		secondDesc:  *u.graph.Descriptor(b),
	})
}

// subUnify recurses on structural children, propagating orientation.
func (u *Unifier) subUnify(o orientation, a, b Variable) *problem {
	return u.guardedUnify(o, a, b)
}

func (u *Unifier) actuallyUnify(c uctx) *problem {
	switch content := c.firstDesc.Content.(type) {
	case FlexVar:
		return u.unifyFlex(c)
	case FlexSuper:
		return u.unifyFlexSuper(c, content.Super, content.Name)
	case RigidVar:
		return u.unifyRigid(c, nil, content.Name)
	case RigidSuper:
		super := content.Super
		return u.unifyRigid(c, &super, content.Name)
	case Alias:
		return u.unifyAlias(c, content)
	case Structure:
		return u.unifyStructure(c, content.Flat)
	case ErrorContent:
		// Absorbing: the error was already reported once.
		return u.merge(c, ErrorContent{})
	}
	return u.mismatch(c, nil)
}

// merge collapses the two sides into one class holding content. Rank
// is the minimum of the two inputs, which keeps generalization sound;
// mark and copy reset to idle.
func (u *Unifier) merge(c uctx, content Content) *problem {
	u.graph.Union(c.first, c.second, MakeDescriptor(content, minRank(c)))
	return nil
}

// fresh allocates a helper variable at the context's rank and
// registers it with the session.
func (u *Unifier) fresh(c uctx, content Content) Variable {
	v := u.graph.Fresh(MakeDescriptor(content, minRank(c)))
	u.sink.Register(v)
	return v
}

func minRank(c uctx) int32 {
	if c.firstDesc.Rank < c.secondDesc.Rank {
		return c.firstDesc.Rank
	}
	return c.secondDesc.Rank
}

// ---------------------------------------------------------------------
// Flexible variables
// ---------------------------------------------------------------------

// unifyFlex is the absorbing rule that drives inference: a flexible
// variable takes on whatever shape the other side has.
func (u *Unifier) unifyFlex(c uctx) *problem {
	switch c.secondDesc.Content.(type) {
	case ErrorContent:
		return u.merge(c, ErrorContent{})
	default:
		return u.merge(c, c.secondDesc.Content)
	}
}

// ---------------------------------------------------------------------
// Super-constrained variables
// ---------------------------------------------------------------------

// superClash marks an empty cell of the combination table.
const superClash Super = 0xff

// superCombine is the flex-super lattice: row is the first side,
// column the second. A cell distinct from both inputs means the merge
// upgrades to a stronger constraint.
var superCombine = [4][4]Super{
	Number:     {Number: Number, Comparable: Number, Appendable: superClash, CompAppend: superClash},
	Comparable: {Number: Number, Comparable: Comparable, Appendable: CompAppend, CompAppend: CompAppend},
	Appendable: {Number: superClash, Comparable: CompAppend, Appendable: Appendable, CompAppend: CompAppend},
	CompAppend: {Number: superClash, Comparable: CompAppend, Appendable: CompAppend, CompAppend: CompAppend},
}

// combineRigidSupers reports whether a rigid constraint dominates a
// flexible one, i.e. the rigid variable already guarantees everything
// the flexible side asks for.
func combineRigidSupers(rigid, flex Super) bool {
	return rigid == flex ||
		(rigid == Number && flex == Comparable) ||
		(rigid == CompAppend && (flex == Comparable || flex == Appendable))
}

func (u *Unifier) unifyFlexSuper(c uctx, super Super, name string) *problem {
	switch other := c.secondDesc.Content.(type) {
	case FlexVar:
		return u.merge(c, FlexSuper{Super: super, Name: name})

	case FlexSuper:
		combined := superCombine[super][other.Super]
		switch combined {
		case superClash:
			return u.mismatch(c, nil)
		case super:
			return u.merge(c, FlexSuper{Super: super, Name: name})
		case other.Super:
			return u.merge(c, other)
		default:
			// Upgrade distinct from both inputs, e.g.
			// comparable with appendable becomes compappend.
			return u.merge(c, FlexSuper{Super: combined})
		}

	case RigidVar:
		return u.mismatch(c, RigidVarTooGeneric{Name: other.Name, Specific: SpecificSuper{Super: super}})

	case RigidSuper:
		if combineRigidSupers(other.Super, super) {
			return u.merge(c, other)
		}
		return u.mismatch(c, RigidSuperTooGeneric{Super: other.Super, Name: other.Name, Specific: SpecificSuper{Super: super}})

	case Alias:
		return u.subUnify(c.orientation, c.first, other.Real)

	case Structure:
		return u.unifyFlexSuperStructure(c, super, other.Flat)

	case ErrorContent:
		return u.merge(c, ErrorContent{})
	}
	return u.mismatch(c, nil)
}

// atomMatchesSuper is the membership predicate for nullary
// constructors in the super-classes.
func atomMatchesSuper(super Super, name string) bool {
	switch super {
	case Number:
		return name == config.IntTypeName || name == config.FloatTypeName
	case Comparable:
		return name == config.IntTypeName || name == config.FloatTypeName ||
			name == config.StringTypeName || name == config.CharTypeName
	case Appendable, CompAppend:
		return name == config.StringTypeName
	}
	return false
}

// unifyFlexSuperStructure enforces super-class membership of concrete
// types: atoms by name, lists and tuples by recursing into elements.
func (u *Unifier) unifyFlexSuperStructure(c uctx, super Super, flat FlatType) *problem {
	app, ok := flat.(App)
	if !ok {
		return u.mismatch(c, NotPartOfSuper{Super: super})
	}

	switch {
	case len(app.Args) == 0:
		if atomMatchesSuper(super, app.Name) {
			return u.merge(c, Structure{Flat: flat})
		}
		return u.mismatch(c, NotPartOfSuper{Super: super})

	case app.Name == config.ListTypeName && len(app.Args) == 1:
		switch super {
		case Number:
			return u.mismatch(c, NotPartOfSuper{Super: super})
		case Appendable:
			return u.merge(c, Structure{Flat: flat})
		default: // Comparable, CompAppend
			if p := u.comparableOccursCheck(c); p != nil {
				return p
			}
			if p := u.merge(c, Structure{Flat: flat}); p != nil {
				return p
			}
			return u.unifyComparableRecursive(c.orientation, app.Args[0])
		}

	case config.IsTuple(app.Name):
		if super != Comparable {
			return u.mismatch(c, NotPartOfSuper{Super: super})
		}
		if len(app.Args) > config.MaxComparableTuple {
			return u.mismatch(c, TooLongComparableTuple{N: len(app.Args)})
		}
		if p := u.comparableOccursCheck(c); p != nil {
			return p
		}
		if p := u.merge(c, Structure{Flat: flat}); p != nil {
			return p
		}
		for _, arg := range app.Args {
			if p := u.unifyComparableRecursive(c.orientation, arg); p != nil {
				return p
			}
		}
		return nil

	default:
		return u.mismatch(c, NotPartOfSuper{Super: super})
	}
}

// comparableOccursCheck guards the recursive comparable rules against
// cyclic element types before any merging happens.
func (u *Unifier) comparableOccursCheck(c uctx) *problem {
	if Occurs(u.graph, c.second) {
		return &problem{kind: infiniteProblem}
	}
	return nil
}

// unifyComparableRecursive forces v's content to itself satisfy
// Comparable, e.g. the element type of a comparable list.
func (u *Unifier) unifyComparableRecursive(o orientation, v Variable) *problem {
	rank := u.graph.Descriptor(v).Rank
	comp := u.graph.Fresh(MakeDescriptor(FlexSuper{Super: Comparable}, rank))
	u.sink.Register(comp)
	return u.guardedUnify(o, comp, v)
}

// ---------------------------------------------------------------------
// Rigid variables
// ---------------------------------------------------------------------

// unifyRigid handles both plain rigid variables (super == nil) and
// super-constrained ones. Rigids never take on structure; they accept
// only flexible variables compatible with their constraint.
func (u *Unifier) unifyRigid(c uctx, super *Super, name string) *problem {
	switch other := c.secondDesc.Content.(type) {
	case FlexVar:
		return u.merge(c, c.firstDesc.Content)

	case FlexSuper:
		if super != nil && combineRigidSupers(*super, other.Super) {
			return u.merge(c, c.firstDesc.Content)
		}
		return u.mismatch(c, u.tooGeneric(super, name, SpecificSuper{Super: other.Super}))

	case RigidVar:
		return u.mismatch(c, RigidClash{Left: name, Right: other.Name})

	case RigidSuper:
		return u.mismatch(c, RigidClash{Left: name, Right: other.Name})

	case Alias:
		return u.mismatch(c, u.tooGeneric(super, name, SpecificType{Name: other.Name}))

	case Structure:
		return u.mismatch(c, u.tooGeneric(super, name, flatToSpecific(other.Flat)))

	case ErrorContent:
		return u.merge(c, ErrorContent{})
	}
	return u.mismatch(c, nil)
}

func (u *Unifier) tooGeneric(super *Super, name string, specific SpecificThing) Reason {
	if super == nil {
		return RigidVarTooGeneric{Name: name, Specific: specific}
	}
	return RigidSuperTooGeneric{Super: *super, Name: name, Specific: specific}
}

// ---------------------------------------------------------------------
// Aliases
// ---------------------------------------------------------------------

// unifyAlias keeps aliases transparent for equality while preserving
// the named form in the graph for diagnostics.
func (u *Unifier) unifyAlias(c uctx, alias Alias) *problem {
	switch other := c.secondDesc.Content.(type) {
	case FlexVar:
		return u.merge(c, alias)

	case Alias:
		if alias.Name != other.Name {
			return u.subUnify(c.orientation, alias.Real, other.Real)
		}
		if len(alias.Args) != len(other.Args) {
			return u.mismatch(c, nil)
		}
		// Same alias: unify argument-by-argument rather than via the
		// expansions, which localizes errors to the offending argument.
		for i := range alias.Args {
			if p := u.subUnify(c.orientation, alias.Args[i].Var, other.Args[i].Var); p != nil {
				return p
			}
		}
		return u.merge(c, other)

	case ErrorContent:
		return u.merge(c, ErrorContent{})

	default:
		return u.subUnify(c.orientation, alias.Real, c.second)
	}
}

// ---------------------------------------------------------------------
// Structures
// ---------------------------------------------------------------------

func (u *Unifier) unifyStructure(c uctx, flat FlatType) *problem {
	switch other := c.secondDesc.Content.(type) {
	case FlexVar:
		return u.merge(c, Structure{Flat: flat})

	case FlexSuper:
		return u.unifyFlexSuperStructure(c.reorient(), other.Super, flat)

	case RigidVar:
		return u.mismatch(c, RigidVarTooGeneric{Name: other.Name, Specific: flatToSpecific(flat)})

	case RigidSuper:
		return u.mismatch(c, RigidSuperTooGeneric{Super: other.Super, Name: other.Name, Specific: flatToSpecific(flat)})

	case Alias:
		return u.subUnify(c.orientation, c.first, other.Real)

	case Structure:
		return u.unifyFlatTypes(c, flat, other.Flat)

	case ErrorContent:
		return u.merge(c, ErrorContent{})
	}
	return u.mismatch(c, nil)
}

func (u *Unifier) unifyFlatTypes(c uctx, f1, f2 FlatType) *problem {
	switch flat1 := f1.(type) {
	case App:
		if flat2, ok := f2.(App); ok {
			if flat1.Name == flat2.Name {
				if len(flat1.Args) != len(flat2.Args) {
					return u.mismatch(c, nil)
				}
				for i := range flat1.Args {
					if p := u.subUnify(c.orientation, flat1.Args[i], flat2.Args[i]); p != nil {
						return p
					}
				}
				return u.merge(c, Structure{Flat: f2})
			}
			if isIntFloatPair(flat1.Name, flat2.Name) {
				return u.mismatch(c, IntFloat{})
			}
		}
		return u.mismatch(c, nil)

	case Fun:
		if flat2, ok := f2.(Fun); ok {
			if p := u.subUnify(c.orientation, flat1.Arg, flat2.Arg); p != nil {
				return p
			}
			if p := u.subUnify(c.orientation, flat1.Result, flat2.Result); p != nil {
				return p
			}
			return u.merge(c, Structure{Flat: f2})
		}
		return u.mismatch(c, nil)

	case EmptyRecord:
		switch flat2 := f2.(type) {
		case EmptyRecord:
			return u.merge(c, Structure{Flat: f2})
		case Record:
			if len(flat2.Fields) == 0 {
				return u.subUnify(c.orientation, c.first, flat2.Ext)
			}
		}
		return u.mismatch(c, nil)

	case Record:
		switch flat2 := f2.(type) {
		case EmptyRecord:
			if len(flat1.Fields) == 0 {
				return u.subUnify(c.orientation, flat1.Ext, c.second)
			}
		case Record:
			return u.unifyRecord(c, flat1, flat2)
		}
		return u.mismatch(c, nil)
	}
	return u.mismatch(c, nil)
}

func isIntFloatPair(a, b string) bool {
	return (a == config.IntTypeName && b == config.FloatTypeName) ||
		(a == config.FloatTypeName && b == config.IntTypeName)
}

// ---------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------

// rowShape says whether a gathered row's tail resolved to the closed
// empty record or stayed open.
type rowShape uint8

const (
	rowClosed rowShape = iota
	rowOpen
)

// gatherFields flattens a row's extension chain into one field map
// plus the final tail. Outer fields shadow inner ones. A revisited
// tail stops the walk; the occurs check reports the cycle later.
func (u *Unifier) gatherFields(rec Record) (map[string]Variable, Variable, rowShape) {
	fields := make(map[string]Variable, len(rec.Fields))
	for name, fieldVar := range rec.Fields {
		fields[name] = fieldVar
	}

	seen := map[Variable]bool{}
	ext := rec.Ext
	for {
		root := u.graph.Find(ext)
		if seen[root] {
			return fields, ext, rowOpen
		}
		seen[root] = true

		switch content := u.graph.descs[root].Content.(type) {
		case Structure:
			switch flat := content.Flat.(type) {
			case Record:
				for name, fieldVar := range flat.Fields {
					if _, ok := fields[name]; !ok {
						fields[name] = fieldVar
					}
				}
				ext = flat.Ext
				continue
			case EmptyRecord:
				return fields, ext, rowClosed
			}
			return fields, ext, rowOpen
		case Alias:
			ext = content.Real
			continue
		default:
			return fields, ext, rowOpen
		}
	}
}

func (u *Unifier) unifyRecord(c uctx, rec1, rec2 Record) *problem {
	fields1, ext1, shape1 := u.gatherFields(rec1)
	fields2, ext2, shape2 := u.gatherFields(rec2)

	shared := make(map[string][2]Variable)
	only1 := make(map[string]Variable)
	only2 := make(map[string]Variable)
	for name, v1 := range fields1 {
		if v2, ok := fields2[name]; ok {
			shared[name] = [2]Variable{v1, v2}
		} else {
			only1[name] = v1
		}
	}
	for name, v2 := range fields2 {
		if _, ok := fields1[name]; !ok {
			only2[name] = v2
		}
	}

	switch {
	case len(only1) == 0 && len(only2) == 0:
		// Identical field sets. The left tail survives in the merged
		// row; the two tails are unified first so the pick is moot.
		if p := u.subUnify(c.orientation, ext1, ext2); p != nil {
			return p
		}
		return u.unifySharedFields(c, shared, nil, ext1)

	case (shape1 == rowClosed && len(only2) > 0) || (len(only1) > 0 && shape2 == rowClosed):
		return u.mismatch(c, MessyFields{
			Shared:    sortedKeys(shared),
			OnlyLeft:  sortedFieldNames(only1),
			OnlyRight: sortedFieldNames(only2),
		})

	case len(only1) > 0 && len(only2) == 0:
		// Left has extras; push them into the right's open tail.
		subRecord := u.fresh(c, Structure{Flat: Record{Fields: only1, Ext: ext1}})
		if p := u.subUnify(c.orientation, subRecord, ext2); p != nil {
			return p
		}
		return u.unifySharedFields(c, shared, nil, subRecord)

	case len(only1) == 0 && len(only2) > 0:
		subRecord := u.fresh(c, Structure{Flat: Record{Fields: only2, Ext: ext2}})
		if p := u.subUnify(c.orientation, ext1, subRecord); p != nil {
			return p
		}
		return u.unifySharedFields(c, shared, nil, subRecord)

	default:
		// Both sides have unique fields and open tails: split the row
		// around a fresh common tail.
		subExt := u.fresh(c, FlexVar{})
		expRecord := u.fresh(c, Structure{Flat: Record{Fields: only2, Ext: subExt}})
		actRecord := u.fresh(c, Structure{Flat: Record{Fields: only1, Ext: subExt}})
		if p := u.subUnify(c.orientation, ext1, expRecord); p != nil {
			return p
		}
		if p := u.subUnify(c.orientation, actRecord, ext2); p != nil {
			return p
		}
		merged := make(map[string]Variable, len(only1)+len(only2))
		for name, v := range only1 {
			merged[name] = v
		}
		for name, v := range only2 {
			merged[name] = v
		}
		return u.unifySharedFields(c, shared, merged, subExt)
	}
}

// unifySharedFields unifies every shared field pair independently,
// collecting per-field failures instead of short-circuiting, then
// merges the row. An infinite-type problem still aborts immediately:
// the graph is no longer safe to walk.
func (u *Unifier) unifySharedFields(c uctx, shared map[string][2]Variable, otherFields map[string]Variable, ext Variable) *problem {
	allFields := make(map[string]Variable, len(shared)+len(otherFields))
	var bad []FieldProblem

	for _, name := range sortedKeys(shared) {
		pair := shared[name]
		p := u.subUnify(c.orientation, pair[0], pair[1])
		if p == nil {
			allFields[name] = pair[0]
			continue
		}
		if p.kind == infiniteProblem {
			return p
		}
		bad = append(bad, FieldProblem{Field: name, Reason: p.reason})
	}

	if len(bad) > 0 {
		return u.mismatch(c, BadFields{Fields: bad})
	}

	for name, v := range otherFields {
		allFields[name] = v
	}
	return u.merge(c, Structure{Flat: Record{Fields: allFields, Ext: ext}})
}

func sortedKeys(m map[string][2]Variable) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ---------------------------------------------------------------------
// Mismatch construction
// ---------------------------------------------------------------------

// mismatch finalizes a failed rule. It promotes self-referential
// types to the infinite problem, turns arity differences into
// MissingArgs after a best-effort pass over the overlapping argument
// spines, and flips the reason when the context is reoriented.
func (u *Unifier) mismatch(c uctx, reason Reason) *problem {
	if Occurs(u.graph, c.first) || Occurs(u.graph, c.second) {
		return &problem{kind: infiniteProblem}
	}

	if reason == nil {
		args1 := u.collectArgs(c.first)
		args2 := u.collectArgs(c.second)
		if len(args1) != len(args2) {
			// Unify the overlap anyway so downstream hints see as
			// much resolved structure as possible; failures stay
			// local. A specific reason already in hand is more
			// informative than the arity fallback and is kept.
			n := len(args1)
			if len(args2) < n {
				n = len(args2)
			}
			for i := 0; i < n; i++ {
				_ = u.subUnify(c.orientation, args1[i], args2[i])
			}
			diff := len(args1) - len(args2)
			if diff < 0 {
				diff = -diff
			}
			reason = MissingArgs{N: diff}
		}
	}

	if reason == nil {
		return &problem{kind: typicalProblem}
	}
	if c.orientation == actualExpected {
		reason = FlipReason(reason)
	}
	return &problem{kind: specialProblem, reason: reason}
}

// collectArgs peels the function spine of v from the right: the
// arguments in order, then the final result.
func (u *Unifier) collectArgs(v Variable) []Variable {
	if content, ok := u.graph.Descriptor(v).Content.(Structure); ok {
		if fun, ok := content.Flat.(Fun); ok {
			return append([]Variable{fun.Arg}, u.collectArgs(fun.Result)...)
		}
	}
	return []Variable{v}
}
