// Package diagnostics turns the checker's structured type errors into
// user-facing reports. The engine itself never formats prose; it hands
// over error values and this package decides how they read.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/vela/internal/region"
	"github.com/funvibe/vela/internal/typesystem"
)

// Diagnostic pairs one reported type error with its source region.
type Diagnostic struct {
	Region region.Region
	Err    typesystem.TypeError
}

func New(r region.Region, err typesystem.TypeError) Diagnostic {
	return Diagnostic{Region: r, Err: err}
}

// Title is the one-line heading of the report.
func (d Diagnostic) Title() string {
	switch e := d.Err.(type) {
	case *typesystem.InfiniteType:
		return "INFINITE TYPE"
	case *typesystem.Mismatch:
		if e.Hint != "" {
			return "TYPE MISMATCH (" + e.Hint + ")"
		}
		return "TYPE MISMATCH"
	default:
		return "TYPE ERROR"
	}
}

// Message renders the full report body, deterministic for a given
// error value.
func (d Diagnostic) Message() string {
	var b strings.Builder
	switch e := d.Err.(type) {
	case *typesystem.Mismatch:
		fmt.Fprintf(&b, "Expected:\n\n    %s\n\n", e.Expected)
		fmt.Fprintf(&b, "But found:\n\n    %s\n", e.Actual)
		if hint := ReasonHint(e.Reason); hint != "" {
			fmt.Fprintf(&b, "\nHint: %s\n", hint)
		}
	case *typesystem.InfiniteType:
		fmt.Fprintf(&b, "This value has a self-referential type:\n\n    %s\n", e.Type)
		b.WriteString("\nThere is no way to write an infinite type; something in the\nexpression feeds its own result back into itself.\n")
	default:
		fmt.Fprintf(&b, "%s\n", d.Err)
	}
	return b.String()
}

// ReasonHint maps each specific mismatch reason to one deterministic
// sentence. An empty string means the plain message already says it
// all.
func ReasonHint(r typesystem.Reason) string {
	switch r := r.(type) {
	case nil:
		return ""
	case typesystem.BadFields:
		parts := make([]string, 0, len(r.Fields))
		for _, f := range r.Fields {
			if inner := ReasonHint(f.Reason); inner != "" {
				parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, inner))
			} else {
				parts = append(parts, f.Field)
			}
		}
		return "these record fields do not match: " + strings.Join(parts, ", ")
	case typesystem.MessyFields:
		var parts []string
		if len(r.OnlyLeft) > 0 {
			parts = append(parts, "the expected type also needs "+strings.Join(r.OnlyLeft, ", "))
		}
		if len(r.OnlyRight) > 0 {
			parts = append(parts, "the actual type also has "+strings.Join(r.OnlyRight, ", "))
		}
		return "the record fields do not line up: " + strings.Join(parts, "; ")
	case typesystem.IntFloat:
		return "Int and Float are different types; convert explicitly"
	case typesystem.TooLongComparableTuple:
		return fmt.Sprintf("tuples with more than 6 elements cannot be compared (this one has %d)", r.N)
	case typesystem.MissingArgs:
		if r.N == 1 {
			return "it looks like one argument is missing"
		}
		return fmt.Sprintf("it looks like %d arguments are missing", r.N)
	case typesystem.RigidClash:
		return fmt.Sprintf("type variables %s and %s are both chosen by the caller and cannot be assumed equal", r.Left, r.Right)
	case typesystem.NotPartOfSuper:
		return fmt.Sprintf("this type is not %s", superNoun(r.Super))
	case typesystem.RigidVarTooGeneric:
		return fmt.Sprintf("type variable %s is chosen by the caller; it cannot be forced to be %s", r.Name, describeSpecific(r.Specific))
	case typesystem.RigidSuperTooGeneric:
		return fmt.Sprintf("type variable %s only promises to be %s; it cannot be forced to be %s", r.Name, superNoun(r.Super), describeSpecific(r.Specific))
	default:
		return ""
	}
}

func superNoun(s typesystem.Super) string {
	switch s {
	case typesystem.Number:
		return "a number"
	case typesystem.Comparable:
		return "comparable"
	case typesystem.Appendable:
		return "appendable"
	case typesystem.CompAppend:
		return "comparable and appendable"
	default:
		return s.String()
	}
}

func describeSpecific(s typesystem.SpecificThing) string {
	switch s := s.(type) {
	case typesystem.SpecificType:
		return s.Name
	case typesystem.SpecificFunction:
		return "a function"
	case typesystem.SpecificRecord:
		return "a record"
	case typesystem.SpecificSuper:
		return superNoun(s.Super)
	default:
		return "something more specific"
	}
}
