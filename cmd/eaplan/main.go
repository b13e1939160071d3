// Command eaplan is a thin CLI driver over the scheduling core: it
// reads a task graph, runs CPM + DVS + list scheduling + refinement,
// and reports the settled plan. The parser and the Gantt chart
// publisher it plugs into the core live outside the core; this
// binary only wires them together.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/config"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/cpm"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/dvs"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/ioformat"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/reporter"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/runlog"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/schedule"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/ui"
	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/viewer"
)

var (
	flagConfig   string
	flagDeadline int
	flagCores    int
	flagJSON     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "eaplan",
		Short: "Energy-aware, deadline-constrained task scheduler",
		Long: `eaplan reads a task graph, assigns each task an operating point under
a deadline, places tasks on cores accounting for cross-core transfer
delay, and refines the plan until the deadline is met or no further
improvement is possible.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().IntVar(&flagDeadline, "deadline", 0, "Target makespan (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagCores, "cores", 0, "Number of cores (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Red(err.Error()))
		os.Exit(1)
	}
}

// resolvedConfig merges the config file with command-line overrides.
func resolvedConfig() config.Config {
	cfg := config.Load(flagConfig)
	if flagDeadline > 0 {
		cfg.Deadline = flagDeadline
	}
	if flagCores > 0 {
		cfg.Cores = flagCores
	}
	if flagJSON {
		cfg.Output = "json"
	}
	return cfg
}

// runPipeline parses the input, runs CPM+DVS, lists, and refines,
// returning everything a reporter needs plus the soft pipeline error
// (infeasible deadline / unimprovable), if any.
func runPipeline(path string, cfg config.Config) (*graph.TaskGraph, *cpm.Result, *schedule.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	g, err := ioformat.Parse(f)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := g.CheckTopology(); err != nil {
		if errors.Is(err, graph.ErrEmptyGraph) {
			return g, &cpm.Result{}, &schedule.Plan{}, nil
		}
		return nil, nil, nil, err
	}

	result, err := dvs.Run(g, cfg.Deadline)
	softErr := err
	if err != nil && !errors.Is(err, dvs.ErrInfeasibleDeadline) {
		return nil, nil, nil, err
	}

	plan := schedule.List(g, cfg.Cores)
	if softErr == nil {
		plan, result, softErr = schedule.Refine(g, cfg.Deadline, plan, result)
	}

	return g, result, plan, softErr
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <input>",
		Short: "Compute and report a schedule for a task graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolvedConfig()

			g, result, plan, softErr := runPipeline(args[0], cfg)
			if softErr != nil && !errors.Is(softErr, dvs.ErrInfeasibleDeadline) && !errors.Is(softErr, schedule.ErrUnimprovable) {
				return softErr
			}

			rpt := reporter.New(g, result, plan, cfg.Deadline, softErr)

			if cfg.Output == "json" {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				rpt.PrintReport(os.Stdout)
			}

			entry := runlog.Entry{
				RunID:        fmt.Sprintf("run-%d", time.Now().UnixNano()),
				CreatedAt:    time.Now(),
				Deadline:     cfg.Deadline,
				Cores:        cfg.Cores,
				Makespan:     plan.Makespan,
				Feasible:     rpt.Feasible(),
				CriticalTime: result.CriticalTime,
				CriticalPath: result.CriticalPath,
				TotalEnergy:  rpt.TotalEnergy(),
				Policies:     policiesOf(g),
			}
			if softErr != nil {
				entry.Note = softErr.Error()
			}
			if err := runlog.Append(entry); err != nil {
				fmt.Fprintln(os.Stderr, ui.Yellow("warning: could not record run history: "+err.Error()))
			}

			if cfg.Viz {
				addr, err := viewer.Start(cfg.VizPort)
				if err != nil {
					return fmt.Errorf("start viewer: %w", err)
				}
				if err := viewer.PostChart(addr, viewer.ToGanttChart(g, plan, cfg.Deadline)); err != nil {
					return fmt.Errorf("publish chart: %w", err)
				}
				fmt.Fprintf(os.Stderr, "%s %s\n", ui.BoldCyan("viewer listening on"), addr)
			}

			return nil
		},
	}
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := runlog.Load()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(ui.Dim("no runs recorded yet"))
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  deadline=%d  makespan=%d  %s\n",
					ui.Dim(e.CreatedAt.Format("2006-01-02 15:04:05")), e.Deadline, e.Makespan,
					ui.FeasibleBadge(e.Feasible))
			}
			return nil
		},
	}
	return cmd
}

func policiesOf(g *graph.TaskGraph) []int {
	policies := make([]int, g.TaskCount())
	for i, t := range g.Tasks {
		policies[i] = t.Policy
	}
	return policies
}
