package typesystem

import (
	"fmt"
	"strings"
)

// TypeError is a structured unification error. The diagnostics package
// turns these into user-facing text; Error() gives a compact one-line
// form for logs and tests.
type TypeError interface {
	error
	typeError()
}

// Mismatch reports that two types could not be made equal. Reason is
// nil for a plain structural mismatch.
type Mismatch struct {
	Hint     string
	Expected SourceType
	Actual   SourceType
	Reason   Reason
}

// InfiniteType reports a self-referential type found while unifying.
type InfiniteType struct {
	Hint string
	Type SourceType
}

func (*Mismatch) typeError()     {}
func (*InfiniteType) typeError() {}

func (e *Mismatch) Error() string {
	msg := fmt.Sprintf("cannot unify %s with %s", e.Expected, e.Actual)
	if e.Reason != nil {
		msg += " (" + describeReason(e.Reason) + ")"
	}
	return msg
}

func (e *InfiniteType) Error() string {
	return fmt.Sprintf("infinite type: %s", e.Type)
}

// Reason names the specific cause of a mismatch. Closed sum.
type Reason interface {
	isReason()
}

// FieldProblem pairs a record field name with the reason its two types
// clashed. Reason may be nil when the field failed for no specific
// cause.
type FieldProblem struct {
	Field  string
	Reason Reason
}

// BadFields: both records had the field, the field types clashed.
type BadFields struct {
	Fields []FieldProblem
}

// MessyFields: a closed row was missing fields the other side requires.
type MessyFields struct {
	Shared    []string
	OnlyLeft  []string
	OnlyRight []string
}

// IntFloat: Int met Float, the classic numeric confusion.
type IntFloat struct{}

// TooLongComparableTuple: a tuple exceeded the comparable arity cap.
type TooLongComparableTuple struct {
	N int
}

// MissingArgs: the two function spines differ in length by N.
type MissingArgs struct {
	N int
}

// RigidClash: two distinct rigid variables met.
type RigidClash struct {
	Left  string
	Right string
}

// NotPartOfSuper: a concrete type is outside the required super-class.
type NotPartOfSuper struct {
	Super Super
}

// RigidVarTooGeneric: a rigid variable met something more specific
// than another flexible variable.
type RigidVarTooGeneric struct {
	Name     string
	Specific SpecificThing
}

// RigidSuperTooGeneric: same, for a rigid variable carrying a
// super-class constraint.
type RigidSuperTooGeneric struct {
	Super    Super
	Name     string
	Specific SpecificThing
}

func (BadFields) isReason()              {}
func (MessyFields) isReason()            {}
func (IntFloat) isReason()               {}
func (TooLongComparableTuple) isReason() {}
func (MissingArgs) isReason()            {}
func (RigidClash) isReason()             {}
func (NotPartOfSuper) isReason()         {}
func (RigidVarTooGeneric) isReason()     {}
func (RigidSuperTooGeneric) isReason()   {}

// SpecificThing names what a too-generic rigid variable collided with.
type SpecificThing interface {
	isSpecific()
}

type SpecificType struct {
	Name string
}

type SpecificFunction struct{}

type SpecificRecord struct{}

type SpecificSuper struct {
	Super Super
}

func (SpecificType) isSpecific()     {}
func (SpecificFunction) isSpecific() {}
func (SpecificRecord) isSpecific()   {}
func (SpecificSuper) isSpecific()    {}

func flatToSpecific(flat FlatType) SpecificThing {
	switch f := flat.(type) {
	case App:
		return SpecificType{Name: f.Name}
	case Fun:
		return SpecificFunction{}
	default:
		return SpecificRecord{}
	}
}

// FlipReason rewrites a reason recorded against one orientation so it
// reads correctly from the other side. Structural and total:
// everything not listed is side-symmetric and returned unchanged.
func FlipReason(r Reason) Reason {
	switch r := r.(type) {
	case BadFields:
		flipped := make([]FieldProblem, len(r.Fields))
		for i, f := range r.Fields {
			inner := f.Reason
			if inner != nil {
				inner = FlipReason(inner)
			}
			flipped[i] = FieldProblem{Field: f.Field, Reason: inner}
		}
		return BadFields{Fields: flipped}
	case MessyFields:
		return MessyFields{Shared: r.Shared, OnlyLeft: r.OnlyRight, OnlyRight: r.OnlyLeft}
	case RigidClash:
		return RigidClash{Left: r.Right, Right: r.Left}
	default:
		return r
	}
}

func describeReason(r Reason) string {
	switch r := r.(type) {
	case BadFields:
		names := make([]string, len(r.Fields))
		for i, f := range r.Fields {
			names[i] = f.Field
		}
		return "bad fields: " + strings.Join(names, ", ")
	case MessyFields:
		return fmt.Sprintf("field sets disagree: left has %v, right has %v", r.OnlyLeft, r.OnlyRight)
	case IntFloat:
		return "Int is not Float"
	case TooLongComparableTuple:
		return fmt.Sprintf("%d-tuples are not comparable", r.N)
	case MissingArgs:
		return fmt.Sprintf("%d missing arguments", r.N)
	case RigidClash:
		return fmt.Sprintf("rigid variables %s and %s differ", r.Left, r.Right)
	case NotPartOfSuper:
		return fmt.Sprintf("not a %s type", r.Super)
	case RigidVarTooGeneric:
		return fmt.Sprintf("rigid variable %s is too generic", r.Name)
	case RigidSuperTooGeneric:
		return fmt.Sprintf("rigid %s variable %s is too generic", r.Super, r.Name)
	default:
		return "type mismatch"
	}
}
