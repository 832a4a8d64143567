package solver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/vela/internal/diagnostics"
	"github.com/funvibe/vela/internal/region"
	"github.com/funvibe/vela/internal/typesystem"
)

// Constraint is one equation handed over by the constraint generator:
// make Expected and Actual equal, blaming Region if that fails.
type Constraint struct {
	Hint     string
	Region   region.Region
	Expected typesystem.Variable
	Actual   typesystem.Variable
}

// Solve runs a batch of constraints in order and returns the
// session's diagnostics. Failed constraints heal their variables, so
// one bad expression does not fail every constraint that touches it.
func (s *State) Solve(constraints []Constraint) []diagnostics.Diagnostic {
	for _, c := range constraints {
		s.Unify(c.Hint, c.Region, c.Expected, c.Actual)
	}

	if s.opts.Debug.DumpGraph {
		if err := s.writeDump(); err != nil {
			fmt.Fprintf(os.Stderr, "velac: graph dump failed: %v\n", err)
		}
	}
	return s.reports
}

func (s *State) writeDump() error {
	dir := s.opts.Debug.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("solver-%s.dump", s.session))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.DumpGraph(f)
}
