package report

import (
	"strings"
	"testing"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/core/ranking"
	"rei_analyzer/pkg/core/sensitivity"
	"rei_analyzer/pkg/models"
)

func memoDeal(t *testing.T) *deal.Deal {
	t.Helper()
	d := deal.FromProperty(&models.Property{
		ID:            "memo-1",
		Address:       "88 Birch St",
		City:          "Memphis",
		State:         "TN",
		Price:         150000,
		EstimatedRent: 1500,
	}, nil, nil)
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	return d
}

func TestRenderMemoSections(t *testing.T) {
	d := memoDeal(t)
	engine := ranking.NewEngine(ranking.DefaultConfig())
	engine.RankDeals([]*deal.Deal{d}, nil, false)
	bd, err := engine.ExplainScore(d)
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	sens, err := sensitivity.NewAnalyzer().Analyze(d)
	if err != nil {
		t.Fatalf("sensitivity failed: %v", err)
	}

	memo, err := RenderMemo(MemoInput{Deal: d, Breakdown: bd, Sensitivity: sens})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{
		"# Investment Memo: 88 Birch St, Memphis TN",
		"## Purchase", "## Monthly Operations", "## Return Metrics",
		"## Stress Test", "## Score Breakdown",
		"| Price | $150000 |",
	} {
		if !strings.Contains(memo, want) {
			t.Errorf("memo missing %q", want)
		}
	}
}

func TestRenderMemoDeterministic(t *testing.T) {
	d := memoDeal(t)
	a, err := RenderMemo(MemoInput{Deal: d})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	b, err := RenderMemo(MemoInput{Deal: d})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if a != b {
		t.Error("memo should be deterministic for unchanged deal state")
	}
}

func TestRenderMemoOmitsEmptySections(t *testing.T) {
	d := memoDeal(t)
	memo, err := RenderMemo(MemoInput{Deal: d})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(memo, "## Stress Test") || strings.Contains(memo, "## Score Breakdown") {
		t.Error("sections without input data should be omitted")
	}
}

func TestRenderMemoRequiresAnalysis(t *testing.T) {
	d := deal.FromProperty(&models.Property{ID: "raw", Price: 100000, EstimatedRent: 900}, nil, nil)
	if _, err := RenderMemo(MemoInput{Deal: d}); err == nil {
		t.Error("unanalyzed deal should be rejected")
	}
}

func TestRenderMemoHTML(t *testing.T) {
	html, err := RenderMemoHTML(MemoInput{Deal: memoDeal(t)})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<table") || !strings.Contains(html, "<h1") {
		t.Error("expected GFM tables and headings in HTML output")
	}
}
