package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/launchlens/pdpaudit/models"
)

func TestDecodeAnalysis(t *testing.T) {
	content := `{
		"summary": "Two localization gaps found.",
		"findings": [
			{
				"category": "Localization",
				"severity": "High",
				"owner": "Merch",
				"issue": "Sizes shown in US conventions",
				"why_it_matters": "UK shoppers expect UK sizing",
				"where": "Size selector, see size_chart_view",
				"recommendation": "Show UK sizes with a conversion hint",
				"evidence_screenshot": "size_chart_view"
			}
		]
	}`

	analysis, err := decodeAnalysis(content)
	if err != nil {
		t.Fatalf("decodeAnalysis: %v", err)
	}
	if analysis.Summary != "Two localization gaps found." {
		t.Errorf("Summary = %q", analysis.Summary)
	}
	if len(analysis.Findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(analysis.Findings))
	}
	f := analysis.Findings[0]
	if f.Category != models.CategoryLocalization || f.Severity != models.SeverityHigh {
		t.Errorf("finding = %+v", f)
	}
	if f.EvidenceScreenshot != models.KeySizeChartView {
		t.Errorf("evidence = %q", f.EvidenceScreenshot)
	}
}

func TestDecodeAnalysis_FencedJSON(t *testing.T) {
	content := "```json\n{\"summary\": \"ok\", \"findings\": []}\n```"
	analysis, err := decodeAnalysis(content)
	if err != nil {
		t.Fatalf("decodeAnalysis: %v", err)
	}
	if analysis.Summary != "ok" {
		t.Errorf("Summary = %q", analysis.Summary)
	}
}

func TestDecodeAnalysis_Invalid(t *testing.T) {
	if _, err := decodeAnalysis("I could not produce JSON, sorry."); err == nil {
		t.Error("prose response must fail to decode")
	}
}

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth 401", &openai.APIError{HTTPStatusCode: 401}, models.ErrCodeAnalysisAuthFailure},
		{"auth 403", &openai.APIError{HTTPStatusCode: 403}, models.ErrCodeAnalysisAuthFailure},
		{"rate limit", &openai.APIError{HTTPStatusCode: 429}, models.ErrCodeAnalysisRateLimited},
		{"server error", &openai.APIError{HTTPStatusCode: 500}, models.ErrCodeAnalysisFailure},
		{"timeout", context.DeadlineExceeded, models.ErrCodeAnalysisFailure},
		{"other", errors.New("connection refused"), models.ErrCodeAnalysisFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAPIError(tt.err)
			if got.Code != tt.want {
				t.Errorf("code = %q, want %q", got.Code, tt.want)
			}
		})
	}
}
