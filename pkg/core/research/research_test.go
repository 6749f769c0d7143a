package research

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"rei_analyzer/pkg/core/deal"
	"rei_analyzer/pkg/models"
)

type stubProvider struct {
	response string
	err      error
	prompts  []string
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func analyzedDeal(t *testing.T) *deal.Deal {
	t.Helper()
	d := deal.FromProperty(&models.Property{
		ID:            "dd-1",
		Address:       "412 Maple Ave",
		City:          "Cleveland",
		State:         "OH",
		PropertyType:  "single_family",
		Price:         130000,
		EstimatedRent: 1450,
		YearBuilt:     1978,
	}, nil, nil)
	if err := d.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	return d
}

func TestBuildDiligencePromptIncludesFigures(t *testing.T) {
	d := analyzedDeal(t)
	prompt, err := BuildDiligencePrompt(d)
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	for _, want := range []string{"412 Maple Ave", "$130000", "$1450", "Cash-on-cash", "Cap rate", "1978"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildDiligencePromptRequiresAnalysis(t *testing.T) {
	d := deal.FromProperty(&models.Property{ID: "raw", Price: 100000, EstimatedRent: 1000}, nil, nil)
	if _, err := BuildDiligencePrompt(d); err == nil {
		t.Error("unanalyzed deal should be rejected")
	}
}

func TestBuildDiligencePromptDeterministic(t *testing.T) {
	d := analyzedDeal(t)
	a, _ := BuildDiligencePrompt(d)
	b, _ := BuildDiligencePrompt(d)
	if a != b {
		t.Error("prompt should be deterministic for unchanged deal state")
	}
}

func TestParseDiligenceReportMessyOutput(t *testing.T) {
	raw := "```json\n{'summary': 'workable deal', 'strengths': ['cash flow'], 'concerns': [], " +
		"'inspection_items': ['roof', 'HVAC'], 'recommendation': 'proceed_with_caution', 'confidence': 0.7,}\n```"
	report, err := ParseDiligenceReport(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if report.Summary != "workable deal" {
		t.Errorf("unexpected summary %q", report.Summary)
	}
	if len(report.InspectionItems) != 2 {
		t.Errorf("expected 2 inspection items, got %v", report.InspectionItems)
	}
	if report.Recommendation != "proceed_with_caution" {
		t.Errorf("unexpected recommendation %q", report.Recommendation)
	}
}

func TestParseDiligenceReportNormalizesRecommendation(t *testing.T) {
	report, err := ParseDiligenceReport(`{"summary": "x", "recommendation": "BUY NOW"}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if report.Recommendation != "proceed_with_caution" {
		t.Errorf("off-menu recommendation should normalize, got %q", report.Recommendation)
	}
	if len(report.Concerns) == 0 {
		t.Error("normalization should be recorded as a concern")
	}
}

func TestParseDiligenceReportClampsConfidence(t *testing.T) {
	report, err := ParseDiligenceReport(`{"summary": "x", "recommendation": "proceed", "confidence": 3.5}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if report.Confidence != 1 {
		t.Errorf("confidence should clamp to 1, got %f", report.Confidence)
	}
}

func TestParseDiligenceReportRejectsEmpty(t *testing.T) {
	if _, err := ParseDiligenceReport(`{}`); err == nil {
		t.Error("contentless response should fail")
	}
	if _, err := ParseDiligenceReport("no json here [[["); err == nil {
		t.Error("garbage should fail")
	}
}

func TestRunDiligenceEndToEnd(t *testing.T) {
	stub := &stubProvider{response: `{"summary": "strong rental", "recommendation": "proceed", "confidence": 0.85}`}
	report, err := RunDiligence(context.Background(), stub, analyzedDeal(t))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if report.Recommendation != "proceed" {
		t.Errorf("unexpected recommendation %q", report.Recommendation)
	}
	if len(stub.prompts) != 1 || !strings.Contains(stub.prompts[0], "Underwriting") {
		t.Error("provider should receive the underwriting prompt")
	}
}

func TestRunDiligenceProviderError(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("rate limited")}
	if _, err := RunDiligence(context.Background(), stub, analyzedDeal(t)); err == nil {
		t.Error("provider failure must propagate")
	}
}
