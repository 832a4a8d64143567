package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/funvibe/vela/internal/config"
	"github.com/funvibe/vela/internal/diagnostics"
	"github.com/funvibe/vela/internal/region"
	"github.com/funvibe/vela/internal/solver"
	"github.com/funvibe/vela/internal/typesystem"
)

// selfcheckCmd exercises the unification engine end-to-end on a fixed
// battery of scenarios and shows the diagnostics each produces. It is
// the smoke tool for the checker while the frontend is in progress.
var selfcheckCmd = &cobra.Command{
	Use:   "selfcheck",
	Short: "Run the type engine smoke battery",
	RunE: func(cmd *cobra.Command, args []string) error {
		dump, _ := cmd.Flags().GetBool("dump")
		return runSelfcheck(cmd, dump)
	},
}

func init() {
	selfcheckCmd.Flags().Bool("dump", false, "dump the type graph of each scenario")
}

func loadOptions() (*config.Options, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(wd)
}

// scenario is one engine exercise: build two types, unify them, and
// expect success or failure. The failure reason is not checked.
type scenario struct {
	name   string
	wantOK bool
	build  func(s *solver.State) (expected, actual typesystem.Variable)
}

func atom(s *solver.State, name string) typesystem.Variable {
	return s.Fresh(typesystem.Structure{Flat: typesystem.App{Name: name}}, typesystem.OutermostRank)
}

func scenarios() []scenario {
	return []scenario{
		{
			name:   "identical atoms",
			wantOK: true,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				return atom(s, config.IntTypeName), atom(s, config.IntTypeName)
			},
		},
		{
			name:   "Int against Float",
			wantOK: false,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				return atom(s, config.IntTypeName), atom(s, config.FloatTypeName)
			},
		},
		{
			name:   "comparable list of functions",
			wantOK: false,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				elem := s.Fresh(typesystem.FlexSuper{Super: typesystem.Comparable}, typesystem.OutermostRank)
				left := s.Fresh(typesystem.Structure{Flat: typesystem.App{Name: config.ListTypeName, Args: []typesystem.Variable{elem}}}, typesystem.OutermostRank)
				fn := s.Fresh(typesystem.Structure{Flat: typesystem.Fun{Arg: atom(s, config.IntTypeName), Result: atom(s, config.IntTypeName)}}, typesystem.OutermostRank)
				right := s.Fresh(typesystem.Structure{Flat: typesystem.App{Name: config.ListTypeName, Args: []typesystem.Variable{fn}}}, typesystem.OutermostRank)
				return left, right
			},
		},
		{
			name:   "seven-tuple against comparable",
			wantOK: false,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				args := make([]typesystem.Variable, 7)
				for i := range args {
					args[i] = s.Fresh(typesystem.FlexVar{}, typesystem.OutermostRank)
				}
				tuple := s.Fresh(typesystem.Structure{Flat: typesystem.App{Name: config.TupleName(7), Args: args}}, typesystem.OutermostRank)
				comp := s.Fresh(typesystem.FlexSuper{Super: typesystem.Comparable}, typesystem.OutermostRank)
				return tuple, comp
			},
		},
		{
			name:   "record field clash",
			wantOK: false,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				closed := func(fields map[string]typesystem.Variable) typesystem.Variable {
					empty := s.Fresh(typesystem.Structure{Flat: typesystem.EmptyRecord{}}, typesystem.OutermostRank)
					return s.Fresh(typesystem.Structure{Flat: typesystem.Record{Fields: fields, Ext: empty}}, typesystem.OutermostRank)
				}
				left := closed(map[string]typesystem.Variable{
					"name": atom(s, config.StringTypeName),
					"age":  atom(s, config.IntTypeName),
				})
				right := closed(map[string]typesystem.Variable{
					"name": atom(s, config.StringTypeName),
					"age":  atom(s, config.BoolTypeName),
				})
				return left, right
			},
		},
		{
			name:   "rigid clash",
			wantOK: false,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				a := s.Fresh(typesystem.RigidVar{Name: "a"}, typesystem.OutermostRank)
				b := s.Fresh(typesystem.RigidVar{Name: "b"}, typesystem.OutermostRank)
				return a, b
			},
		},
		{
			name:   "comparable meets appendable",
			wantOK: true,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				comp := s.Fresh(typesystem.FlexSuper{Super: typesystem.Comparable}, typesystem.OutermostRank)
				app := s.Fresh(typesystem.FlexSuper{Super: typesystem.Appendable}, typesystem.OutermostRank)
				return comp, app
			},
		},
		{
			name:   "infinite type",
			wantOK: false,
			build: func(s *solver.State) (typesystem.Variable, typesystem.Variable) {
				v := s.Fresh(typesystem.FlexVar{}, typesystem.OutermostRank)
				s.Graph().Descriptor(v).Content = typesystem.Structure{Flat: typesystem.App{Name: config.ListTypeName, Args: []typesystem.Variable{v}}}
				return v, atom(s, config.IntTypeName)
			},
		},
	}
}

func runSelfcheck(cmd *cobra.Command, dump bool) error {
	reporter := diagnostics.NewReporter(os.Stdout, colorMode(cmd))
	failed := 0

	for _, sc := range scenarios() {
		state := solver.NewState(nil)
		expected, actual := sc.build(state)
		ok := state.Unify("selfcheck", region.At(1, 1), expected, actual)

		status := "ok"
		if ok != sc.wantOK {
			status = "UNEXPECTED"
			failed++
		}
		fmt.Printf("=== %-32s unified=%-5v expected=%-5v %s\n", sc.name, ok, sc.wantOK, status)
		reporter.ReportAll(state.Reports())
		if dump {
			if err := state.DumpGraph(os.Stdout); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("selfcheck: %d scenario(s) behaved unexpectedly", failed)
	}
	fmt.Println("selfcheck: engine behaves as expected")
	return nil
}
