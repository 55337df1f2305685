package transform

import (
	"errors"
	"testing"

	"github.com/stratumlang/stratum/internal/fact"
)

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestEngineRunsInDependencyOrder(t *testing.T) {
	e := NewEngine()
	e.Register(AnalysisPass{Name: "type_checker", DependsOn: []string{"symbol_resolver"}, Run: func(any, *fact.Store) error { return nil }})
	e.Register(AnalysisPass{Name: "symbol_resolver", Run: func(any, *fact.Store) error { return nil }})

	order, err := e.RunAll(nil, fact.NewStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if indexOf(order, "symbol_resolver") >= indexOf(order, "type_checker") {
		t.Fatalf("dependency ran after dependent: %v", order)
	}
}

func TestEngineDetectsCycle(t *testing.T) {
	e := NewEngine()
	e.Register(AnalysisPass{Name: "a", DependsOn: []string{"b"}, Run: func(any, *fact.Store) error { return nil }})
	e.Register(AnalysisPass{Name: "b", DependsOn: []string{"a"}, Run: func(any, *fact.Store) error { return nil }})

	if _, err := e.RunAll(nil, fact.NewStore()); err == nil {
		t.Fatalf("expected a cycle error")
	}
}

func TestEngineDetectsMissingDependency(t *testing.T) {
	e := NewEngine()
	e.Register(AnalysisPass{Name: "a", DependsOn: []string{"ghost"}, Run: func(any, *fact.Store) error { return nil }})

	if _, err := e.RunAll(nil, fact.NewStore()); err == nil {
		t.Fatalf("expected a missing-dependency error")
	}
}

func TestEngineStopsAtFirstFailingPass(t *testing.T) {
	e := NewEngine()
	e.Register(AnalysisPass{Name: "a", Run: func(any, *fact.Store) error { return errors.New("boom") }})
	e.Register(AnalysisPass{Name: "b", DependsOn: []string{"a"}, Run: func(any, *fact.Store) error { return nil }})

	_, err := e.RunAll(nil, fact.NewStore())
	if err == nil {
		t.Fatalf("expected an error")
	}
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != "a" {
		t.Fatalf("got %v", err)
	}
}

func TestEngineRegistrationOrderBreaksTies(t *testing.T) {
	e := NewEngine()
	e.Register(AnalysisPass{Name: "first", Run: func(any, *fact.Store) error { return nil }})
	e.Register(AnalysisPass{Name: "second", Run: func(any, *fact.Store) error { return nil }})

	order, err := e.RunAll(nil, fact.NewStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if indexOf(order, "first") >= indexOf(order, "second") {
		t.Fatalf("expected registration order preserved among independent passes, got %v", order)
	}
}
