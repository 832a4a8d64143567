package solver

import (
	"sort"
	"time"

	"github.com/funvibe/vela/internal/cache"
	"github.com/funvibe/vela/internal/typesystem"
)

// Signature reads the solved types of a module's top-level
// definitions back from the graph in a cacheable form. Call it after
// Solve; unresolved or healed definitions render as their display
// forms ("t3", "?") and are cached like everything else.
func (s *State) Signature(module string, decls map[string]typesystem.Variable) *cache.ModuleSignature {
	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	sig := &cache.ModuleSignature{
		Module:  module,
		Session: s.session.String(),
		Checked: time.Now().Unix(),
	}
	for _, name := range names {
		sig.Decls = append(sig.Decls, cache.DeclSignature{
			Name: name,
			Type: typesystem.Render(s.graph, decls[name]).String(),
		})
	}
	return sig
}
