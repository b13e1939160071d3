package schedule

import (
	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
)

// readyKey orders the ready set by (delta, enumeration order), so the
// tree's leftmost node is always the most urgent task with a
// deterministic tie-break, mirroring how a vruntime scheduler orders
// its run queue by (vruntime, task id).
type readyKey struct {
	delta int
	order int
}

func readyCmp(a, b interface{}) int {
	ka, kb := a.(readyKey), b.(readyKey)
	switch {
	case ka.delta < kb.delta:
		return -1
	case ka.delta > kb.delta:
		return 1
	case ka.order < kb.order:
		return -1
	case ka.order > kb.order:
		return 1
	default:
		return 0
	}
}

// List performs list scheduling with inter-core communication per
// §4.4. g's tasks must already have Early/Late set by a prior CPM
// pass under their settled policies.
func List(g *graph.TaskGraph, cores int) *Plan {
	n := g.TaskCount()
	plan := &Plan{
		Processors:   make([]*Processor, cores),
		AssignmentOf: make([]Assignment, n),
	}
	for k := range plan.Processors {
		plan.Processors[k] = &Processor{}
	}
	for i := range plan.AssignmentOf {
		plan.AssignmentOf[i].Core = -1
	}

	pendingParents := make([]int, n)
	for i, t := range g.Tasks {
		pendingParents[i] = len(t.Parents)
	}

	ready := redblacktree.NewWith(readyCmp)
	enqueue := func(idx int) {
		k := readyKey{delta: g.Tasks[idx].Late - g.Tasks[idx].Early, order: idx}
		ready.Put(k, idx)
	}

	for i := 0; i < n; i++ {
		if pendingParents[i] == 0 {
			enqueue(i)
		}
	}

	for ready.Size() > 0 {
		node := ready.Left()
		tStar := node.Value.(int)
		ready.Remove(node.Key)

		weight := g.Tasks[tStar].Weight()
		bestCore, bestStart := 0, -1
		for k := 0; k < cores; k++ {
			readyAt := dataReadyAt(g, plan, tStar, k)
			start := availableAt(plan.Processors[k].ProcessingTimeline, readyAt, weight)
			if bestStart == -1 || start < bestStart {
				bestStart, bestCore = start, k
			}
		}

		finish := bestStart + weight
		plan.Processors[bestCore].ProcessingTimeline = append(
			plan.Processors[bestCore].ProcessingTimeline,
			ProcessingEvent{Start: bestStart, Finish: finish, TaskID: tStar},
		)
		plan.AssignmentOf[tStar] = Assignment{Core: bestCore, Finish: finish}

		for _, p := range g.Tasks[tStar].Parents {
			pa := plan.AssignmentOf[p]
			if pa.Core != bestCore {
				volume := volumeTo(g, p, tStar)
				plan.Processors[pa.Core].TransferTimeline = append(
					plan.Processors[pa.Core].TransferTimeline,
					TransferEvent{Start: pa.Finish, Duration: volume, Src: p, Dst: tStar},
				)
			}
		}

		for _, target := range g.Tasks[tStar].Targets {
			pendingParents[target.Dst]--
			if pendingParents[target.Dst] == 0 {
				enqueue(target.Dst)
			}
		}
	}

	plan.Makespan = makespan(plan)
	return plan
}

// dataReadyAt returns the earliest time core k may start t given its
// parents' placements: the max, over parents on a different core,
// of finish(p)+volume(p->t). Parents already on k contribute 0.
func dataReadyAt(g *graph.TaskGraph, plan *Plan, t int, k int) int {
	readyAt := 0
	for _, p := range g.Tasks[t].Parents {
		pa := plan.AssignmentOf[p]
		if pa.Core == k {
			continue
		}
		candidate := pa.Finish + volumeTo(g, p, t)
		if candidate > readyAt {
			readyAt = candidate
		}
	}
	return readyAt
}

// availableAt finds the smallest start >= readyAt such that
// [start, start+weight) overlaps no interval in timeline, advancing
// past conflicts non-preemptively until none remain.
func availableAt(timeline []ProcessingEvent, readyAt, weight int) int {
	start := readyAt
	for {
		advanced := false
		for _, iv := range timeline {
			if start < iv.Finish && iv.Start < start+weight {
				start = iv.Finish
				advanced = true
			}
		}
		if !advanced {
			return start
		}
	}
}

// volumeTo looks up the transfer duration on edge src->dst.
func volumeTo(g *graph.TaskGraph, src, dst int) int {
	for _, target := range g.Tasks[src].Targets {
		if target.Dst == dst {
			return target.Volume
		}
	}
	return 0
}

func makespan(plan *Plan) int {
	max := 0
	for _, proc := range plan.Processors {
		for _, ev := range proc.ProcessingTimeline {
			if ev.Finish > max {
				max = ev.Finish
			}
		}
	}
	return max
}
