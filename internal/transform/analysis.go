package transform

import (
	"fmt"

	"github.com/stratumlang/stratum/internal/fact"
)

// AnalysisPass is an AST → facts stage that declares its dependencies by
// name (e.g. "type_checker" depends on "symbol_resolver"); the Engine
// topologically sorts registered passes before running them, so a pass
// never runs before the passes it needs.
type AnalysisPass struct {
	Name      string
	DependsOn []string
	Run       func(ast any, store *fact.Store) error
}

// Engine holds a registry of analysis passes and executes them in
// dependency order.
type Engine struct {
	passes map[string]AnalysisPass
	order  []string // registration order, used to break toposort ties deterministically
}

// NewEngine creates an empty Engine.
func NewEngine() *Engine {
	return &Engine{passes: make(map[string]AnalysisPass)}
}

// Register adds a pass. Registering a pass under a name already in use
// replaces it.
func (e *Engine) Register(p AnalysisPass) {
	if _, exists := e.passes[p.Name]; !exists {
		e.order = append(e.order, p.Name)
	}
	e.passes[p.Name] = p
}

// RunAll topologically sorts every registered pass by its declared
// dependencies and runs each in that order against ast and store. It
// returns the order passes actually ran in, for diagnostics, and the
// first error encountered (wrapped with the failing pass's name).
func (e *Engine) RunAll(ast any, store *fact.Store) ([]string, error) {
	sorted, err := e.topoSort()
	if err != nil {
		return nil, err
	}
	for i, name := range sorted {
		p := e.passes[name]
		if err := p.Run(ast, store); err != nil {
			return sorted[:i+1], &StageError{Stage: name, Err: err}
		}
	}
	return sorted, nil
}

// topoSort performs a deterministic Kahn's-algorithm sort over the
// registered passes' DependsOn edges, visiting ties in registration
// order. A cycle is reported as an error that does not name the passes
// involved.
func (e *Engine) topoSort() ([]string, error) {
	indegree := make(map[string]int, len(e.passes))
	dependents := make(map[string][]string)

	for _, name := range e.order {
		p := e.passes[name]
		if _, ok := indegree[name]; !ok {
			indegree[name] = 0
		}
		for _, dep := range p.DependsOn {
			if _, ok := e.passes[dep]; !ok {
				return nil, fmt.Errorf("analysis pass %q depends on unregistered pass %q", name, dep)
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for _, name := range e.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	var sorted []string
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		sorted = append(sorted, n)
		for _, dep := range dependents[n] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(sorted) != len(e.passes) {
		return nil, fmt.Errorf("analysis pass dependency graph has a cycle")
	}
	return sorted, nil
}
