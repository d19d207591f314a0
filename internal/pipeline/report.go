package pipeline

import (
	"context"
	"fmt"
	"io"
)

// BatchFailure records one document that could not be processed.
type BatchFailure struct {
	Path string
	Err  error
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Processed  int
	Succeeded  int
	Failed     int
	ByCaseType map[string]int
	Failures   []BatchFailure
}

// Runner processes documents sequentially, one status line per document
// and a summary table at the end. Document failures are recorded and the
// batch continues.
type Runner struct {
	pipeline *Pipeline
	out      io.Writer
}

// NewRunner creates a batch runner writing progress to out.
func NewRunner(p *Pipeline, out io.Writer) *Runner {
	return &Runner{pipeline: p, out: out}
}

// Run processes every input in order.
func (r *Runner) Run(ctx context.Context, inputs []Input) *BatchSummary {
	summary := &BatchSummary{ByCaseType: map[string]int{}}

	for _, in := range inputs {
		summary.Processed++

		res, err := r.pipeline.ProcessDocument(ctx, in)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, BatchFailure{Path: in.Path, Err: err})
			fmt.Fprintf(r.out, "✗ %s: %v\n", in.Path, err)
			continue
		}

		summary.Succeeded++
		summary.ByCaseType[res.Record.Case.CaseType]++
		fmt.Fprintf(r.out, "✓ %s -> %s (%s/%s, %d events, %d entities)\n",
			in.Path, res.CaseID, res.Record.Case.CaseType, res.Record.Case.Outcome,
			len(res.Record.Timeline), len(res.Record.Entities))
		for _, stage := range res.Stages {
			if stage.Status == StageFailed {
				fmt.Fprintf(r.out, "  ! %s stage failed: %v\n", stage.Name, stage.Err)
			}
		}
	}

	r.printSummary(summary)
	return summary
}

func (r *Runner) printSummary(summary *BatchSummary) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Batch summary")
	fmt.Fprintf(r.out, "  %-12s %d\n", "processed", summary.Processed)
	fmt.Fprintf(r.out, "  %-12s %d\n", "succeeded", summary.Succeeded)
	fmt.Fprintf(r.out, "  %-12s %d\n", "failed", summary.Failed)
	for _, caseType := range []string{"7A", "14B", "mixed", "unknown"} {
		if count := summary.ByCaseType[caseType]; count > 0 {
			fmt.Fprintf(r.out, "  %-12s %d\n", caseType, count)
		}
	}
}
