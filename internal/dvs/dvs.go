// Package dvs implements the deadline-driven voltage-assignment loop
// of §4.3: starting from every task's slowest operating point, it
// speeds up critical-path members until the critical path meets the
// deadline, or reports that no further speed-up is available.
package dvs

import (
	"errors"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/cpm"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
)

// ErrInfeasibleDeadline is a soft failure: the critical path has been
// fully sped up and still exceeds the deadline. The caller may accept
// the best-effort policy assignment produced so far.
var ErrInfeasibleDeadline = errors.New("dvs: no further speed-up available to meet deadline")

// Run assigns every task its slowest policy, then repeatedly speeds up
// the first decrementable task on the current critical path until the
// critical time is within deadline. It returns the final CPM result
// for the settled policy assignment, and ErrInfeasibleDeadline (unwrapped,
// non-fatal) if the critical path was exhausted first.
func Run(g *graph.TaskGraph, deadline int) (*cpm.Result, error) {
	if g.TaskCount() == 0 {
		return nil, graph.ErrEmptyGraph
	}

	slowest := g.PolicyCount() - 1
	for _, t := range g.Tasks {
		t.Policy = slowest
	}

	result, err := cpm.Analyze(g)
	if err != nil {
		return nil, err
	}

	for result.CriticalTime > deadline {
		speedup := -1
		for _, idx := range result.CriticalPath {
			if g.Tasks[idx].Policy > 0 {
				speedup = idx
				break
			}
		}
		if speedup == -1 {
			return result, ErrInfeasibleDeadline
		}

		g.Tasks[speedup].Policy--

		result, err = cpm.Analyze(g)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}
