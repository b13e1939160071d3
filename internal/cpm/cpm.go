package cpm

import (
	"errors"
	"fmt"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
)

// ErrInconsistentState is returned when critical-path reconstruction
// finds no child matching the slack equality — a logic error, since
// the CPM state should always be internally consistent.
var ErrInconsistentState = errors.New("cpm: inconsistent state during critical path reconstruction")

// Analyze performs critical-path method analysis over g under its
// tasks' current policy assignment, per §4.2. It clears and rewrites
// every task's Early/Late scratch fields, then returns the global
// critical time and one realizing critical path.
func Analyze(g *graph.TaskGraph) (*Result, error) {
	g.ClearCPM()

	roots := g.Roots()
	if len(roots) == 0 {
		return nil, graph.ErrCycle
	}

	bestRoot := -1
	bestLate := 0
	for _, r := range roots {
		late := visit(g, r, 0)
		if bestRoot == -1 || late < bestLate {
			bestRoot = r
			bestLate = late
		}
	}

	path, err := reconstructPath(g, bestRoot)
	if err != nil {
		return nil, err
	}

	return &Result{
		CriticalTime: -bestLate,
		CriticalPath: path,
	}, nil
}

// visit implements the recursive, memoized forward/backward pass of
// §4.2 step 2. It updates t's Early field from parentCumulativeWeight,
// recurses into every child carrying the extended cumulative weight,
// and returns the resulting Late value for t.
func visit(g *graph.TaskGraph, idx int, parentCumulativeWeight int) int {
	t := g.Tasks[idx]
	t.SetEarly(parentCumulativeWeight)

	minChildLate := 0 // neutral element: leaves yield min == 0
	for i, target := range t.Targets {
		childLate := visit(g, target.Dst, t.Early+t.Weight())
		if i == 0 || childLate < minChildLate {
			minChildLate = childLate
		}
	}

	t.SetLateMin(minChildLate - t.Weight())
	return t.Late
}

// reconstructPath walks from root to a sink by repeatedly choosing a
// child whose Late satisfies the slack equality from §4.2 step 4.
func reconstructPath(g *graph.TaskGraph, root int) ([]int, error) {
	path := []int{root}
	current := root

	for {
		t := g.Tasks[current]
		if len(t.Targets) == 0 {
			return path, nil
		}

		next := -1
		for _, target := range t.Targets {
			if g.Tasks[target.Dst].Late == t.Late+t.Weight() {
				next = target.Dst
				break
			}
		}
		if next == -1 {
			return nil, fmt.Errorf("%w: task %d has no child matching late=%d+weight=%d",
				ErrInconsistentState, current, t.Late, t.Weight())
		}
		path = append(path, next)
		current = next
	}
}
