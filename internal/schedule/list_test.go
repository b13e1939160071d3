package schedule

import (
	"testing"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/cpm"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
)

func single(w, e int) []graph.OperatingPoint {
	return []graph.OperatingPoint{{Weight: w, Energy: e}}
}

// fork builds two independent tasks (no edge between them) feeding a
// single sink, so a 2-core machine can run both fork branches at once.
func fork() *graph.TaskGraph {
	g := graph.New(true)
	g.AddTask(single(3, 1)) // 0
	g.AddTask(single(4, 1)) // 1
	g.AddTask(single(2, 1)) // 2: sink
	g.AddTransfer(0, 2, 1)
	g.AddTransfer(1, 2, 1)
	return g
}

func TestList_ParallelBranchesUseBothCores(t *testing.T) {
	g := fork()
	if _, err := cpm.Analyze(g); err != nil {
		t.Fatalf("cpm.Analyze: %v", err)
	}

	plan := List(g, 2)

	if plan.AssignmentOf[0].Core == plan.AssignmentOf[1].Core {
		t.Fatalf("expected the two independent branches on different cores, got both on core %d",
			plan.AssignmentOf[0].Core)
	}

	// Sink can only start once both branches' data has arrived: the
	// slower branch (task 1) finishes at 4, and the branch on the other
	// core adds its transfer on top of its own finish.
	sinkStart := plan.Start(2, g.Tasks[2].Weight())
	if sinkStart < 4 {
		t.Errorf("sink started at %d before its slowest input could have arrived", sinkStart)
	}
}

func TestList_SingleCoreSerializesEverything(t *testing.T) {
	g := fork()
	if _, err := cpm.Analyze(g); err != nil {
		t.Fatalf("cpm.Analyze: %v", err)
	}

	plan := List(g, 1)

	for _, proc := range plan.Processors[1:] {
		if len(proc.ProcessingTimeline) != 0 {
			t.Fatalf("expected only core 0 to be used")
		}
	}
	if plan.Makespan != 3+4+2 {
		t.Errorf("expected makespan %d, got %d", 3+4+2, plan.Makespan)
	}
}

func TestList_CrossCoreTransferDelaysDependent(t *testing.T) {
	g := graph.New(true)
	g.AddTask(single(2, 1)) // 0
	g.AddTask(single(2, 1)) // 1
	g.AddTransfer(0, 1, 10) // big transfer cost
	if _, err := cpm.Analyze(g); err != nil {
		t.Fatalf("cpm.Analyze: %v", err)
	}

	plan := List(g, 2)

	// Whatever core task 1 lands on, if it differs from task 0's core
	// it must wait out the full transfer; if it's the same core, no
	// transfer is charged. Either way finish-start == weight.
	start := plan.Start(1, g.Tasks[1].Weight())
	if plan.AssignmentOf[0].Core != plan.AssignmentOf[1].Core {
		if start < plan.AssignmentOf[0].Finish+10 {
			t.Errorf("expected transfer delay of 10 before task 1 starts, got start=%d parentFinish=%d",
				start, plan.AssignmentOf[0].Finish)
		}
	}
}

func TestList_NonOverlappingOnSameCore(t *testing.T) {
	g := graph.New(true)
	g.AddTask(single(5, 1))
	g.AddTask(single(5, 1))
	if _, err := cpm.Analyze(g); err != nil {
		t.Fatalf("cpm.Analyze: %v", err)
	}

	plan := List(g, 1)

	a := plan.Processors[0].ProcessingTimeline[0]
	b := plan.Processors[0].ProcessingTimeline[1]
	if a.Finish > b.Start {
		t.Errorf("expected non-overlapping placement, got %v then %v", a, b)
	}
}
