// Package solver owns the per-session state around the unification
// engine: the live-variable registry, the error sink, and the entry
// points the constraint generator drives.
//
// One State owns one graph. Nothing here is safe for concurrent use;
// a parallel checker gives each worker its own session.
package solver

import (
	"github.com/google/uuid"

	"github.com/funvibe/vela/internal/config"
	"github.com/funvibe/vela/internal/diagnostics"
	"github.com/funvibe/vela/internal/region"
	"github.com/funvibe/vela/internal/typesystem"
)

// State is a solver session.
type State struct {
	graph   *typesystem.Graph
	unifier *typesystem.Unifier
	opts    *config.Options
	session uuid.UUID

	vars    []typesystem.Variable
	reports []diagnostics.Diagnostic
}

func NewState(opts *config.Options) *State {
	if opts == nil {
		opts = config.Default()
	}
	s := &State{
		graph:   typesystem.NewGraph(),
		opts:    opts,
		session: uuid.New(),
	}
	s.unifier = typesystem.NewUnifier(s.graph, s)
	return s
}

// Graph exposes the session's type graph to collaborators that build
// types directly (constraint generation, tests).
func (s *State) Graph() *typesystem.Graph {
	return s.graph
}

// Session returns the unique id of this solver run.
func (s *State) Session() uuid.UUID {
	return s.session
}

// Fresh allocates and registers a variable in one step.
func (s *State) Fresh(content typesystem.Content, rank int32) typesystem.Variable {
	v := s.graph.Fresh(typesystem.MakeDescriptor(content, rank))
	s.Register(v)
	return v
}

// Register records a live variable for later passes. Every variable
// that appears in a structural position must pass through here.
func (s *State) Register(v typesystem.Variable) {
	s.vars = append(s.vars, v)
}

// Vars returns every registered variable, in registration order.
func (s *State) Vars() []typesystem.Variable {
	return s.vars
}

// AddError appends one diagnostic to the session. The sink is
// append-only within a session.
func (s *State) AddError(r region.Region, err typesystem.TypeError) {
	s.reports = append(s.reports, diagnostics.New(r, err))
}

// Reports returns the diagnostics accumulated so far.
func (s *State) Reports() []diagnostics.Diagnostic {
	return s.reports
}

// Unify runs one constraint through the engine. Reports whether the
// two sides were made equal; on failure one diagnostic has been
// recorded and both sides are healed.
func (s *State) Unify(hint string, r region.Region, expected, actual typesystem.Variable) bool {
	return s.unifier.Unify(hint, r, expected, actual)
}
