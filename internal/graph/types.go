// Package graph holds the task-graph data model: tasks with per-task
// operating points, inter-task data transfers, and the mutable policy
// and CPM scratch fields the later pipeline stages write into.
package graph

import "fmt"

// OperatingPoint is one voltage/frequency point a task can run at.
// Weight is the execution time; Energy the energy spent running at
// that point. Index 0 is fastest/highest-energy, the last index is
// slowest/lowest-energy.
type OperatingPoint struct {
	Weight int
	Energy int
}

// Target is an outgoing edge: a transfer of Volume time units to Dst,
// charged only when Dst lands on a different core than the source.
type Target struct {
	Dst    int
	Volume int
}

// Task is one node of the task graph. Policy indexes into Points and
// is the only field the CPM/DVS/scheduler stages mutate besides the
// scratch Early/Late fields.
type Task struct {
	Points []OperatingPoint

	Policy int

	Targets []Target
	Parents []int

	// Scratch fields, valid only immediately after a CPM recompute.
	Early    int
	Late     int
	earlySet bool
	lateSet  bool
}

// Weight returns the task's execution time under its current policy.
func (t *Task) Weight() int {
	return t.Points[t.Policy].Weight
}

// Energy returns the task's energy under its current policy.
func (t *Task) Energy() int {
	return t.Points[t.Policy].Energy
}

// ClearCPM resets the scratch Early/Late fields ahead of a CPM recompute.
func (t *Task) ClearCPM() {
	t.Early, t.Late = 0, 0
	t.earlySet, t.lateSet = false, false
}

// TaskGraph is a DAG of Tasks addressed by 0-based index, plus a flat
// list of all transfers kept for convenience scans (root detection,
// canonical re-emission).
type TaskGraph struct {
	Tasks     []*Task
	Transfers []FlatTransfer

	// IndexingFromZero records the I/O basis the graph was parsed
	// with; it has no bearing on in-memory indexing, which is always
	// 0-based.
	IndexingFromZero bool
}

// FlatTransfer mirrors one Target edge for global scans.
type FlatTransfer struct {
	Src    int
	Dst    int
	Volume int
}

// New builds an empty graph ready to receive AddTask/AddTransfer calls.
func New(indexingFromZero bool) *TaskGraph {
	return &TaskGraph{IndexingFromZero: indexingFromZero}
}

// AddTask appends a task with the given operating points and returns its index.
func (g *TaskGraph) AddTask(points []OperatingPoint) int {
	g.Tasks = append(g.Tasks, &Task{Points: points})
	return len(g.Tasks) - 1
}

// AddTransfer records an edge src->dst of the given duration, maintaining
// both the forward Targets list and the mirrored Parents back-edges.
func (g *TaskGraph) AddTransfer(src, dst, volume int) error {
	if src < 0 || src >= len(g.Tasks) || dst < 0 || dst >= len(g.Tasks) {
		return fmt.Errorf("transfer %d->%d: index out of range (%d tasks)", src, dst, len(g.Tasks))
	}
	g.Tasks[src].Targets = append(g.Tasks[src].Targets, Target{Dst: dst, Volume: volume})
	g.Tasks[dst].Parents = append(g.Tasks[dst].Parents, src)
	g.Transfers = append(g.Transfers, FlatTransfer{Src: src, Dst: dst, Volume: volume})
	return nil
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int {
	return len(g.Tasks)
}

// PolicyCount returns P, the shared number of operating points, or 0
// for an empty graph.
func (g *TaskGraph) PolicyCount() int {
	if len(g.Tasks) == 0 {
		return 0
	}
	return len(g.Tasks[0].Points)
}

// ClearCPM resets every task's scratch CPM fields.
func (g *TaskGraph) ClearCPM() {
	for _, t := range g.Tasks {
		t.ClearCPM()
	}
}

// SetEarly and SetLateMin apply the spec's "initialize if unset, else
// widen" update rule used by the CPM recursion (internal/cpm).
func (t *Task) SetEarly(v int) {
	if !t.earlySet || v > t.Early {
		t.Early = v
	}
	t.earlySet = true
}

func (t *Task) SetLateMin(v int) {
	if !t.lateSet || v < t.Late {
		t.Late = v
	}
	t.lateSet = true
}
