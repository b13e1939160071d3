package schedule

import (
	"errors"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/cpm"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
)

// ErrUnimprovable is a soft failure: blame attribution found nothing
// left to speed up while the makespan still exceeds the deadline. The
// caller accepts the current plan as the final answer.
var ErrUnimprovable = errors.New("schedule: no further improvement possible")

// Refine repeatedly diagnoses the earliest-late task, speeds up its
// upstream blockers, re-plans, and retries until the plan meets the
// deadline, blame attribution yields nothing, or every policy on the
// graph is exhausted. It returns the final plan and the final CPM
// result for the settled policy assignment.
func Refine(g *graph.TaskGraph, deadline int, plan *Plan, result *cpm.Result) (*Plan, *cpm.Result, error) {
	for {
		if plan.Makespan <= deadline {
			return plan, result, nil
		}

		tBad := earliestLate(g, plan, deadline)
		if tBad == -1 {
			return plan, result, nil
		}

		suggestions := dedupe(blame(g, plan, tBad))
		if len(suggestions) == 0 {
			if g.Tasks[tBad].Policy > 0 {
				suggestions = []int{tBad}
			} else {
				return plan, result, ErrUnimprovable
			}
		}

		for _, idx := range suggestions {
			if g.Tasks[idx].Policy > 0 {
				g.Tasks[idx].Policy--
			}
		}

		var err error
		result, err = cpm.Analyze(g)
		if err != nil {
			return nil, nil, err
		}

		plan = List(g, len(plan.Processors))
	}
}

// earliestLate finds the task whose actual start exceeds the latest
// start permitted under the original CPM slack offset by the
// deadline, picking the smallest actual start (tie-break: smallest
// index). Returns -1 if no such task exists.
func earliestLate(g *graph.TaskGraph, plan *Plan, deadline int) int {
	best := -1
	bestStart := 0
	for i, t := range g.Tasks {
		start := plan.Start(i, t.Weight())
		latestPermitted := deadline + t.Late
		if start <= latestPermitted {
			continue
		}
		if best == -1 || start < bestStart {
			best, bestStart = i, start
		}
	}
	return best
}

// blame performs the upstream blame walk from §4.5. A parent p of t
// is a blocker iff finish(p)+transferTime == start(t). The walk
// returns the aggregate of every blocking parent's own suggestions;
// if a blocking parent has none of its own but can itself improve, it
// becomes the suggestion.
func blame(g *graph.TaskGraph, plan *Plan, t int) []int {
	task := g.Tasks[t]
	start := plan.Start(t, task.Weight())

	var aggregate []int
	for _, p := range task.Parents {
		pa := plan.AssignmentOf[p]
		transferTime := 0
		if pa.Core != plan.AssignmentOf[t].Core {
			transferTime = volumeTo(g, p, t)
		}
		if pa.Finish+transferTime != start {
			continue
		}

		sub := blame(g, plan, p)
		if len(sub) > 0 {
			aggregate = append(aggregate, sub...)
		} else if g.Tasks[p].Policy > 0 {
			aggregate = append(aggregate, p)
		}
	}
	return aggregate
}

// dedupe removes repeated suggestions arising from diamond topologies,
// preserving first-seen order.
func dedupe(suggestions []int) []int {
	seen := make(map[int]bool, len(suggestions))
	out := make([]int, 0, len(suggestions))
	for _, s := range suggestions {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
