package runner

import (
	"fmt"
	"strings"
	"time"
)

// Summary は計時結果の1行サマリを返す
func (r *Result) Summary() string {
	return fmt.Sprintf("Kernel executed in %f seconds with %d iterations and error of %0.10f",
		r.Elapsed.Seconds(), r.Iterations, r.Error)
}

// Status は終了理由を返す
func (r *Result) Status() string {
	switch {
	case r.Interrupted:
		return "interrupted"
	case r.Converged:
		return "converged"
	default:
		return "iteration budget exhausted"
	}
}

// Report は結果をフォーマットして返す
func (r *Result) Report() string {
	var b strings.Builder

	fmt.Fprintf(&b, `
================================================================================
                         RUN REPORT: %s
================================================================================

EXECUTION SUMMARY
-----------------
  Start Time:     %s
  End Time:       %s
  Kernel Time:    %v

SOLVER
------
  Grid:           %dx%d
  Workers:        %d (%s schedule, %s commit)
  Iterations:     %d
  Final Error:    %0.10f
  Status:         %s

ITERATION TIMING
----------------
  Avg Compute:    %v
  Avg Commit:     %v
  P99 Iteration:  %v
  Iterations/s:   %.1f
`,
		r.Name,
		r.StartTime.Format("2006-01-02 15:04:05"),
		r.EndTime.Format("2006-01-02 15:04:05"),
		r.Elapsed.Round(time.Microsecond),
		r.Size, r.Size,
		r.Threads, r.Schedule, r.Commit,
		r.Iterations,
		r.Error,
		r.Status(),
		r.Metrics.AverageCompute.Round(time.Microsecond),
		r.Metrics.AverageCommit.Round(time.Microsecond),
		r.Metrics.P99Iteration.Round(time.Microsecond),
		r.Metrics.IterationsPerSecond,
	)

	if r.OutputPath != "" || r.HeatmapPath != "" {
		b.WriteString("\nOUTPUT\n------\n")
		if r.OutputPath != "" {
			fmt.Fprintf(&b, "  Grid:           %s\n", r.OutputPath)
		}
		if r.HeatmapPath != "" {
			fmt.Fprintf(&b, "  Heatmap:        %s\n", r.HeatmapPath)
		}
	}

	b.WriteString("\n" + r.Summary() + "\n")
	b.WriteString("================================================================================")
	return b.String()
}
