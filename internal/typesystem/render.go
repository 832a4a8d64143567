package typesystem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/vela/internal/config"
)

// SourceType is a printable tree read back from the graph on error
// paths. It is detached from the graph: safe to hold after healing.
type SourceType interface {
	fmt.Stringer
	sourceType()
}

// SrcVar is a type variable by display name.
type SrcVar struct {
	Name string
}

// SrcCon is a constructor application, aliases included.
type SrcCon struct {
	Name string
	Args []SourceType
}

// SrcFun is one arrow of a curried function.
type SrcFun struct {
	Arg    SourceType
	Result SourceType
}

// SrcTuple is a tuple, special-cased from its canonical constructor
// for readability.
type SrcTuple struct {
	Elems []SourceType
}

// SrcRecord is a row. Ext is "" for a closed record.
type SrcRecord struct {
	Fields []SrcField
	Ext    string
}

type SrcField struct {
	Name string
	Type SourceType
}

func (SrcVar) sourceType()    {}
func (SrcCon) sourceType()    {}
func (SrcFun) sourceType()    {}
func (SrcTuple) sourceType()  {}
func (SrcRecord) sourceType() {}

func (t SrcVar) String() string {
	return t.Name
}

func (t SrcCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, 0, len(t.Args)+1)
	parts = append(parts, t.Name)
	for _, arg := range t.Args {
		parts = append(parts, atom(arg))
	}
	return strings.Join(parts, " ")
}

func (t SrcFun) String() string {
	arg := t.Arg.String()
	if _, ok := t.Arg.(SrcFun); ok {
		arg = "(" + arg + ")"
	}
	return arg + " -> " + t.Result.String()
}

func (t SrcTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "( " + strings.Join(parts, ", ") + " )"
}

func (t SrcRecord) String() string {
	if len(t.Fields) == 0 && t.Ext == "" {
		return "{}"
	}
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = fmt.Sprintf("%s : %s", f.Name, f.Type)
	}
	if t.Ext == "" {
		return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
	}
	if len(fields) == 0 {
		return fmt.Sprintf("{ %s }", t.Ext)
	}
	return fmt.Sprintf("{ %s | %s }", t.Ext, strings.Join(fields, ", "))
}

// atom parenthesizes compound types used in argument position.
func atom(t SourceType) string {
	switch t := t.(type) {
	case SrcCon:
		if len(t.Args) > 0 {
			return "(" + t.String() + ")"
		}
		return t.String()
	case SrcFun:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

// Render reads the final type of v back from the graph as a printable
// tree. Cyclic types render the back edge as the infinity variable, so
// rendering terminates on the graphs the occurs check rejects.
func Render(g *Graph, v Variable) SourceType {
	return renderHelp(g, make(map[Variable]bool), v)
}

func renderHelp(g *Graph, active map[Variable]bool, v Variable) SourceType {
	root := g.Find(v)
	if active[root] {
		return SrcVar{Name: "∞"}
	}
	active[root] = true
	defer delete(active, root)

	switch content := g.descs[root].Content.(type) {
	case FlexVar:
		return SrcVar{Name: flexName(content.Name, root)}

	case FlexSuper:
		if content.Name != "" {
			return SrcVar{Name: content.Name}
		}
		return SrcVar{Name: content.Super.String()}

	case RigidVar:
		return SrcVar{Name: content.Name}

	case RigidSuper:
		return SrcVar{Name: content.Name}

	case Alias:
		args := make([]SourceType, len(content.Args))
		for i, arg := range content.Args {
			args[i] = renderHelp(g, active, arg.Var)
		}
		return SrcCon{Name: content.Name, Args: args}

	case ErrorContent:
		return SrcVar{Name: "?"}

	case Structure:
		return renderFlat(g, active, content.Flat)
	}
	return SrcVar{Name: "?"}
}

func renderFlat(g *Graph, active map[Variable]bool, flat FlatType) SourceType {
	switch flat := flat.(type) {
	case App:
		args := make([]SourceType, len(flat.Args))
		for i, arg := range flat.Args {
			args[i] = renderHelp(g, active, arg)
		}
		if config.IsTuple(flat.Name) {
			return SrcTuple{Elems: args}
		}
		return SrcCon{Name: flat.Name, Args: args}

	case Fun:
		return SrcFun{
			Arg:    renderHelp(g, active, flat.Arg),
			Result: renderHelp(g, active, flat.Result),
		}

	case EmptyRecord:
		return SrcRecord{}

	case Record:
		fields := make([]SrcField, 0, len(flat.Fields))
		for _, name := range sortedFieldNames(flat.Fields) {
			fields = append(fields, SrcField{Name: name, Type: renderHelp(g, active, flat.Fields[name])})
		}
		ext := renderHelp(g, active, flat.Ext)
		switch tail := ext.(type) {
		case SrcRecord:
			fields = append(fields, tail.Fields...)
			sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
			return SrcRecord{Fields: fields, Ext: tail.Ext}
		case SrcVar:
			return SrcRecord{Fields: fields, Ext: tail.Name}
		default:
			return SrcRecord{Fields: fields}
		}
	}
	return SrcVar{Name: "?"}
}

// flexName gives an unnamed inference variable a deterministic display
// name derived from its representative.
func flexName(name string, root Variable) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("t%d", root)
}

func sortedFieldNames(fields map[string]Variable) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
