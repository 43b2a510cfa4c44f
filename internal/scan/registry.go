package scan

import (
	"fmt"
	"sort"

	"github.com/san-kum/sems/internal/ols"
)

type Registry struct {
	solvers map[string]func() ols.Solver
}

func NewRegistry() *Registry {
	r := &Registry{
		solvers: make(map[string]func() ols.Solver),
	}

	r.solvers["normal"] = func() ols.Solver { return ols.NewNormalEquations() }
	r.solvers["qr"] = func() ols.Solver { return ols.NewQR() }

	return r
}

func (r *Registry) GetSolver(name string) (ols.Solver, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownMethod, name, r.ListSolvers())
	}
	return fn(), nil
}

func (r *Registry) ListSolvers() []string {
	names := make([]string, 0, len(r.solvers))
	for name := range r.solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
