package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-advisor/internal/agent"
	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/search"
	"github.com/jonathan/career-advisor/internal/types"
)

func TestFormatYears(t *testing.T) {
	tests := []struct {
		years float64
		want  string
	}{
		{0, "unknown"},
		{-1, "unknown"},
		{0.5, "6 months"},
		{1, "1 year"},
		{3, "3 years"},
		{2.5, "2 years, 6 months"},
		{8.25, "8 years, 3 months"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatYears(tt.years), "years=%v", tt.years)
	}
}

func TestPrintAnalysis(t *testing.T) {
	relevance := 0.9
	result := &types.AnalysisResult{
		Skills: []types.Skill{
			{Name: "Python", Category: "technical", Proficiency: "advanced"},
			{Name: "Mentoring", Category: "soft"},
			{Name: "Kubernetes"},
		},
		Experience: types.ExperienceAssessment{Level: "senior", Years: 8},
		Strengths:  []string{"systems design", "mentoring"},
		Weaknesses: []string{"frontend"},
		Trajectory: "on track for staff engineer",
		Education:  types.EducationRelevance{Credential: "BSc", Relevance: &relevance},
		Confidence: 0.9,
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(result)

	out := buf.String()
	assert.Contains(t, out, "PROFILE ANALYSIS")
	assert.Contains(t, out, "senior")
	assert.Contains(t, out, "8 years")
	assert.Contains(t, out, "0.90 (high)")
	assert.Contains(t, out, "Python (technical, advanced)")
	assert.Contains(t, out, "Mentoring (soft)")
	assert.Contains(t, out, "systems design")
	assert.Contains(t, out, "frontend")
}

func TestPrintAnalysis_UnresolvedLevel(t *testing.T) {
	result := &types.AnalysisResult{Confidence: 0.1}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(result)

	out := buf.String()
	assert.Contains(t, out, "unresolved")
	assert.Contains(t, out, "(low)")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintOutcome(t *testing.T) {
	outcome := agent.Outcome{
		SkillsParse:     agent.ParseStrict,
		AssessmentParse: agent.ParseFallback,
		Unresolved:      []string{"trajectory"},
		Notes:           []string{"assessment output was unstructured"},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutcome(outcome)

	out := buf.String()
	assert.Contains(t, out, "RUN DIAGNOSTICS")
	assert.Contains(t, out, "strict")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "trajectory")
	assert.Contains(t, out, "unstructured")
}

func TestPrintSearchResults(t *testing.T) {
	results := []search.Result{
		{Title: "Python demand", URL: "https://bls.gov/x", Content: "rising", Score: 0.91},
		{Title: "Go salaries", URL: "https://indeed.com/y", Content: "steady", Score: 0.72},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintSearchResults("Python job market", results)

	out := buf.String()
	assert.Contains(t, out, "SEARCH RESULTS")
	assert.Contains(t, out, "Python job market")
	assert.Contains(t, out, "#1  Python demand")
	assert.Contains(t, out, "0.91")
}

func TestPrintSearchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSearchResults("anything", nil)
	assert.Contains(t, buf.String(), "NO SEARCH RESULTS")
}

func TestPrintStats(t *testing.T) {
	stats := agent.Stats{
		LLMCalls:    3,
		SearchCalls: 1,
		Elapsed:     1500 * time.Millisecond,
		Usage:       llm.Usage{PromptTokens: 200, CompletionTokens: 100, TotalTokens: 300},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintStats(stats)

	out := buf.String()
	assert.Contains(t, out, "RUN STATS")
	assert.Contains(t, out, "LLM calls:     3")
	assert.Contains(t, out, "200 prompt + 100 completion = 300")
	assert.Contains(t, out, "1.5s")
}
