package typesystem

// Occurs reports whether the structural expansion of v reaches a
// variable already on the expansion path, i.e. whether v's type is
// infinite. Alias bodies and alias arguments are traversed. The seen
// list makes the walk terminate on graphs that are already cyclic.
func Occurs(g *Graph, v Variable) bool {
	return occursHelp(g, nil, v)
}

func occursHelp(g *Graph, seen []Variable, v Variable) bool {
	root := g.Find(v)
	for _, s := range seen {
		if s == root {
			return true
		}
	}

	switch content := g.descs[root].Content.(type) {
	case FlexVar, FlexSuper, RigidVar, RigidSuper, ErrorContent:
		return false

	case Alias:
		inner := append(seen, root)
		for _, arg := range content.Args {
			if occursHelp(g, inner, arg.Var) {
				return true
			}
		}
		return occursHelp(g, inner, content.Real)

	case Structure:
		inner := append(seen, root)
		switch flat := content.Flat.(type) {
		case App:
			for _, arg := range flat.Args {
				if occursHelp(g, inner, arg) {
					return true
				}
			}
			return false
		case Fun:
			return occursHelp(g, inner, flat.Arg) || occursHelp(g, inner, flat.Result)
		case EmptyRecord:
			return false
		case Record:
			for _, fieldVar := range flat.Fields {
				if occursHelp(g, inner, fieldVar) {
					return true
				}
			}
			return occursHelp(g, inner, flat.Ext)
		}
	}
	return false
}
