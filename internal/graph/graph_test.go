package graph

import "testing"

func chain(n int) *TaskGraph {
	g := New(true)
	for i := 0; i < n; i++ {
		g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	}
	for i := 0; i < n-1; i++ {
		g.AddTransfer(i, i+1, 1)
	}
	return g
}

func TestRoots_Chain(t *testing.T) {
	g := chain(3)
	roots := g.Roots()
	if len(roots) != 1 || roots[0] != 0 {
		t.Errorf("expected roots=[0], got %v", roots)
	}
}

func TestRoots_Fork(t *testing.T) {
	g := New(true)
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTransfer(0, 1, 1)
	g.AddTransfer(0, 2, 1)

	roots := g.Roots()
	if len(roots) != 1 || roots[0] != 0 {
		t.Errorf("expected roots=[0], got %v", roots)
	}
}

func TestCheckTopology_EmptyGraph(t *testing.T) {
	g := New(true)
	if err := g.CheckTopology(); err != ErrEmptyGraph {
		t.Errorf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestCheckTopology_Acyclic(t *testing.T) {
	g := chain(4)
	if err := g.CheckTopology(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckTopology_Cycle(t *testing.T) {
	g := New(true)
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTransfer(0, 1, 1)
	g.AddTransfer(1, 0, 1)

	if err := g.CheckTopology(); err != ErrCycle {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestCheckTopology_NoRootsNonEmpty(t *testing.T) {
	// A self-loop-free but root-less graph: every task has an incoming
	// edge from the cycle 0->1->2->0.
	g := New(true)
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	g.AddTransfer(0, 1, 1)
	g.AddTransfer(1, 2, 1)
	g.AddTransfer(2, 0, 1)

	if err := g.CheckTopology(); err != ErrCycle {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestCheckTopology_DiamondIsFine(t *testing.T) {
	g := New(true)
	for i := 0; i < 4; i++ {
		g.AddTask([]OperatingPoint{{Weight: 1, Energy: 1}})
	}
	g.AddTransfer(0, 1, 1)
	g.AddTransfer(0, 2, 1)
	g.AddTransfer(1, 3, 1)
	g.AddTransfer(2, 3, 1)

	if err := g.CheckTopology(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	roots := g.Roots()
	if len(roots) != 1 || roots[0] != 0 {
		t.Errorf("expected roots=[0], got %v", roots)
	}
}
