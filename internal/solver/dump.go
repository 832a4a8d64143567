package solver

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/funvibe/vela/internal/typesystem"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// DumpGraph writes a human-readable dump of every registered
// variable's representative: content, rank and the rendered type.
// Purely a debugging aid; the format is not stable.
func (s *State) DumpGraph(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "session %s: %d registered variables\n\n", s.session, len(s.vars)); err != nil {
		return err
	}

	seen := make(map[typesystem.Variable]bool)
	for _, v := range s.vars {
		root := s.graph.Find(v)
		if seen[root] {
			continue
		}
		seen[root] = true

		desc := s.graph.Descriptor(root)
		if _, err := fmt.Fprintf(w, "t%d (rank %d) = %s\n", root, desc.Rank, typesystem.Render(s.graph, root)); err != nil {
			return err
		}
		dumpConfig.Fdump(w, desc.Content)
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
