package typesystem

// Super identifies one of the built-in ad-hoc constraint classes a
// flexible or rigid variable can carry.
type Super uint8

const (
	Number Super = iota
	Comparable
	Appendable
	CompAppend
)

func (s Super) String() string {
	switch s {
	case Number:
		return "number"
	case Comparable:
		return "comparable"
	case Appendable:
		return "appendable"
	case CompAppend:
		return "compappend"
	default:
		return "unknown"
	}
}

// Content is the semantic shape stored at a representative. It is a
// closed sum: only the types in this file implement it.
type Content interface {
	isContent()
}

// FlexVar is an unconstrained inference variable. Name is "" until the
// variable is named for display.
type FlexVar struct {
	Name string
}

// FlexSuper is an inference variable constrained to membership in a
// super-class.
type FlexSuper struct {
	Super Super
	Name  string
}

// RigidVar is a user-introduced type variable. It unifies only with
// flexible variables or itself.
type RigidVar struct {
	Name string
}

// RigidSuper is a rigid variable additionally constrained to a
// super-class.
type RigidSuper struct {
	Super Super
	Name  string
}

// AliasArg is one named argument of an alias application. The name is
// advisory, kept for diagnostics; unification is positional.
type AliasArg struct {
	Name string
	Var  Variable
}

// Alias is a named type alias whose expansion lives behind Real.
// Aliases are transparent for equality but preserved for messages.
type Alias struct {
	Name string
	Args []AliasArg
	Real Variable
}

// Structure is a concrete type constructor application.
type Structure struct {
	Flat FlatType
}

// ErrorContent is the absorbing sentinel installed after a reported
// error. It unifies silently with everything, which keeps one bad
// expression from producing a cascade of follow-up errors.
type ErrorContent struct{}

func (FlexVar) isContent()      {}
func (FlexSuper) isContent()    {}
func (RigidVar) isContent()     {}
func (RigidSuper) isContent()   {}
func (Alias) isContent()        {}
func (Structure) isContent()    {}
func (ErrorContent) isContent() {}

// FlatType is the shape inside a Structure. Closed sum, same scheme
// as Content.
type FlatType interface {
	isFlatType()
}

// App is a data constructor applied to arguments. Tuples and List use
// their canonical names from the config package.
type App struct {
	Name string
	Args []Variable
}

// Fun is the curried function arrow. Arity is recovered by walking
// the Result spine.
type Fun struct {
	Arg    Variable
	Result Variable
}

// EmptyRecord is the closed empty row.
type EmptyRecord struct{}

// Record is a row with known fields and a tail that may resolve to
// more fields, an empty row, or a flexible variable.
type Record struct {
	Fields map[string]Variable
	Ext    Variable
}

func (App) isFlatType()         {}
func (Fun) isFlatType()         {}
func (EmptyRecord) isFlatType() {}
func (Record) isFlatType()      {}
