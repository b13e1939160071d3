package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// corePalette assigns a distinct bold color to each core index so a
// printed timeline reads at a glance which processor a task landed on.
var corePalette = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// CorePrefix returns a colored [core N] prefix, cycling through the
// palette for core indices beyond its length.
func CorePrefix(core int) string {
	c := corePalette[core%len(corePalette)]
	return Dim("[") + c(fmt.Sprintf("core %d", core)) + Dim("]")
}

// TaskLabel returns a dim "task N" label for a task index.
func TaskLabel(taskID int) string {
	return Dim(fmt.Sprintf("task %d", taskID))
}

// PolicyBadge renders a task's operating-point index with a color that
// warms as the policy slows down (0 = fastest/green, increasing = more
// yellow/red), mirroring how a speedometer reads off load.
func PolicyBadge(policy, policyCount int) string {
	if policyCount <= 1 {
		return Dim(fmt.Sprintf("p%d", policy))
	}
	switch {
	case policy == 0:
		return Green(fmt.Sprintf("p%d", policy))
	case policy == policyCount-1:
		return Red(fmt.Sprintf("p%d", policy))
	default:
		return Yellow(fmt.Sprintf("p%d", policy))
	}
}

// FeasibleBadge renders a pass/fail marker for deadline feasibility.
func FeasibleBadge(feasible bool) string {
	if feasible {
		return Green("✓ within deadline")
	}
	return Red("✗ deadline missed")
}
