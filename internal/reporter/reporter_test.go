package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/cpm"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/schedule"
)

func sampleRun() (*graph.TaskGraph, *cpm.Result, *schedule.Plan) {
	g := graph.New(true)
	g.AddTask([]graph.OperatingPoint{{Weight: 2, Energy: 10}, {Weight: 5, Energy: 3}})
	g.AddTask([]graph.OperatingPoint{{Weight: 2, Energy: 10}, {Weight: 5, Energy: 3}})
	g.AddTransfer(0, 1, 1)

	result, err := cpm.Analyze(g)
	if err != nil {
		panic(err)
	}
	plan := schedule.List(g, 1)
	return g, result, plan
}

func TestPrintReport_Feasible(t *testing.T) {
	g, result, plan := sampleRun()
	rpt := New(g, result, plan, plan.Makespan, nil)

	var buf bytes.Buffer
	rpt.PrintReport(&buf)
	output := buf.String()

	if !strings.Contains(output, "schedule report") {
		t.Error("expected report header")
	}
	if !strings.Contains(output, "within deadline") {
		t.Error("expected feasible badge when deadline equals makespan")
	}
	if !strings.Contains(output, "core 0") {
		t.Error("expected a core 0 section")
	}
}

func TestPrintReport_Infeasible(t *testing.T) {
	g, result, plan := sampleRun()
	rpt := New(g, result, plan, plan.Makespan-1, schedule.ErrUnimprovable)

	var buf bytes.Buffer
	rpt.PrintReport(&buf)
	output := buf.String()

	if !strings.Contains(output, "deadline missed") {
		t.Error("expected infeasible badge")
	}
	if !strings.Contains(output, "no further improvement") {
		t.Error("expected the pipeline error surfaced in the report")
	}
}

func TestJSON(t *testing.T) {
	g, result, plan := sampleRun()
	rpt := New(g, result, plan, plan.Makespan, nil)

	data, err := rpt.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, `"feasible": true`) {
		t.Error("expected feasible: true in JSON output")
	}
	if !strings.Contains(output, `"critical_path"`) {
		t.Error("expected critical_path field")
	}
}

func TestTotalEnergy(t *testing.T) {
	g, result, plan := sampleRun()
	rpt := New(g, result, plan, plan.Makespan, nil)

	// Tasks default to policy 0, the fastest/highest-energy point.
	if got := rpt.TotalEnergy(); got != 20 {
		t.Errorf("expected total energy 20, got %d", got)
	}
}
