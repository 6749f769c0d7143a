package agents

import (
	"context"
	"fmt"
	"time"

	"rei_analyzer/pkg/core/deal"
)

// PipelineAgent moves scored deals through the acquisition pipeline. It is
// the only component that transitions deal statuses; scoring and ranking
// read statuses but never write them.
type PipelineAgent struct {
	// ShortlistScore is the minimum overall score to advance an analyzed
	// deal to SHORTLISTED; anything below RejectScore is REJECTED, and the
	// band between is left for manual review.
	ShortlistScore float64
	RejectScore    float64
}

// NewPipelineAgent returns the agent with default thresholds.
func NewPipelineAgent() *PipelineAgent {
	return &PipelineAgent{ShortlistScore: 70, RejectScore: 40}
}

func (a *PipelineAgent) Name() string { return "pipeline" }

// Run screens new deals and triages analyzed, scored deals into
// shortlist/reject buckets. Per-deal transition errors are collected; the
// run succeeds when at least one deal was processed.
func (a *PipelineAgent) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	res := &Result{AgentName: a.Name(), Summary: map[string]int{}}
	if len(in.Deals) == 0 {
		return nil, fmt.Errorf("pipeline agent received no deals")
	}

	processed := 0
	for _, d := range in.Deals {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("pipeline canceled: %v", err))
			break
		}
		if err := a.triage(d); err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		processed++
		res.Summary[string(d.Analysis.Status)]++
	}

	res.Deals = in.Deals
	res.Success = processed > 0
	res.Duration = time.Since(start)
	fmt.Printf("[PIPELINE] Triaged %d deals (%d errors): %v\n", processed, len(res.Errors), res.Summary)
	return res, nil
}

func (a *PipelineAgent) triage(d *deal.Deal) error {
	switch d.Analysis.Status {
	case deal.StatusNew:
		// Basic screen: structurally usable listing.
		if d.Property == nil || d.Property.Price <= 0 {
			return d.Transition(deal.StatusRejected)
		}
		return d.Transition(deal.StatusScreened)

	case deal.StatusAnalyzed:
		if d.Analysis.Score == nil {
			return fmt.Errorf("deal %s is analyzed but unscored", d.ID)
		}
		switch {
		case d.Analysis.Score.Overall >= a.ShortlistScore:
			return d.Transition(deal.StatusShortlisted)
		case d.Analysis.Score.Overall < a.RejectScore:
			return d.Transition(deal.StatusRejected)
		default:
			return nil // Manual-review band, stays ANALYZED
		}

	default:
		// Deals elsewhere in the pipeline are not this agent's to move.
		return nil
	}
}
