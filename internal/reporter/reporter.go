// Package reporter renders a settled schedule — the task graph, its CPM
// result, and the per-core plan produced by internal/schedule — as a
// terminal report or as machine-readable JSON.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/cpm"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/schedule"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/ui"
)

// Reporter renders one run's outcome: a graph under its settled
// policies, the CPM result for that policy assignment, the core plan
// the list scheduler produced for it, and the deadline it was measured
// against. Err carries a non-fatal pipeline outcome (dvs.ErrInfeasibleDeadline
// or schedule.ErrUnimprovable) when the deadline could not be met.
type Reporter struct {
	Graph    *graph.TaskGraph
	Result   *cpm.Result
	Plan     *schedule.Plan
	Deadline int
	Err      error
}

// New constructs a Reporter for a finished pipeline run.
func New(g *graph.TaskGraph, result *cpm.Result, plan *schedule.Plan, deadline int, runErr error) *Reporter {
	return &Reporter{Graph: g, Result: result, Plan: plan, Deadline: deadline, Err: runErr}
}

// Feasible reports whether the plan's makespan is within the deadline.
func (r *Reporter) Feasible() bool {
	return r.Plan != nil && r.Plan.Makespan <= r.Deadline
}

// TotalEnergy sums every task's energy at its settled policy.
func (r *Reporter) TotalEnergy() int {
	total := 0
	for _, t := range r.Graph.Tasks {
		total += t.Energy()
	}
	return total
}

// PrintReport writes a terminal-friendly schedule report to w.
func (r *Reporter) PrintReport(w io.Writer) {
	fmt.Fprintf(w, "%s  deadline %d, makespan %d, %s\n\n",
		ui.BoldCyan("schedule report"), r.Deadline, r.Plan.Makespan, ui.FeasibleBadge(r.Feasible()))

	fmt.Fprintf(w, "critical time: %d   energy: %d   cores: %d\n",
		r.Result.CriticalTime, r.TotalEnergy(), len(r.Plan.Processors))

	if len(r.Result.CriticalPath) > 0 {
		labels := make([]string, len(r.Result.CriticalPath))
		for i, idx := range r.Result.CriticalPath {
			labels[i] = fmt.Sprintf("%d", idx)
		}
		fmt.Fprintf(w, "critical path: %s\n", ui.BoldYellow(strings.Join(labels, " -> ")))
	}
	fmt.Fprintln(w)

	policyCount := r.Graph.PolicyCount()
	for k, proc := range r.Plan.Processors {
		fmt.Fprintf(w, "%s\n", ui.CorePrefix(k))
		for _, ev := range proc.ProcessingTimeline {
			task := r.Graph.Tasks[ev.TaskID]
			fmt.Fprintf(w, "    [%4d,%4d)  %s  %s\n",
				ev.Start, ev.Finish, ui.TaskLabel(ev.TaskID), ui.PolicyBadge(task.Policy, policyCount))
		}
		for _, tr := range proc.TransferTimeline {
			fmt.Fprintf(w, "    [%4d,%4d)  %s\n",
				tr.Start, schedule.TransferFinish(tr), ui.Dim(fmt.Sprintf("transfer task %d -> task %d", tr.Src, tr.Dst)))
		}
	}

	if r.Err != nil {
		fmt.Fprintf(w, "\n%s %v\n", ui.Red("note:"), r.Err)
	}
}

// jsonReport is the wire shape for Reporter.JSON.
type jsonReport struct {
	Deadline     int        `json:"deadline"`
	Makespan     int        `json:"makespan"`
	Feasible     bool       `json:"feasible"`
	CriticalTime int        `json:"critical_time"`
	CriticalPath []int      `json:"critical_path"`
	TotalEnergy  int        `json:"total_energy"`
	Note         string     `json:"note,omitempty"`
	Processors   []jsonCore `json:"processors"`
}

type jsonCore struct {
	Core       int                `json:"core"`
	Processing []jsonProcEvent    `json:"processing"`
	Transfers  []jsonTransferInfo `json:"transfers"`
}

type jsonProcEvent struct {
	TaskID int `json:"task_id"`
	Start  int `json:"start"`
	Finish int `json:"finish"`
	Policy int `json:"policy"`
}

type jsonTransferInfo struct {
	Src    int `json:"src"`
	Dst    int `json:"dst"`
	Start  int `json:"start"`
	Finish int `json:"finish"`
}

// JSON returns the machine-readable report.
func (r *Reporter) JSON() ([]byte, error) {
	out := jsonReport{
		Deadline:     r.Deadline,
		Makespan:     r.Plan.Makespan,
		Feasible:     r.Feasible(),
		CriticalTime: r.Result.CriticalTime,
		CriticalPath: r.Result.CriticalPath,
		TotalEnergy:  r.TotalEnergy(),
	}
	if r.Err != nil {
		out.Note = r.Err.Error()
	}

	for k, proc := range r.Plan.Processors {
		jc := jsonCore{Core: k}
		for _, ev := range proc.ProcessingTimeline {
			jc.Processing = append(jc.Processing, jsonProcEvent{
				TaskID: ev.TaskID,
				Start:  ev.Start,
				Finish: ev.Finish,
				Policy: r.Graph.Tasks[ev.TaskID].Policy,
			})
		}
		for _, tr := range proc.TransferTimeline {
			jc.Transfers = append(jc.Transfers, jsonTransferInfo{
				Src: tr.Src, Dst: tr.Dst, Start: tr.Start, Finish: schedule.TransferFinish(tr),
			})
		}
		out.Processors = append(out.Processors, jc)
	}

	return json.MarshalIndent(out, "", "  ")
}
