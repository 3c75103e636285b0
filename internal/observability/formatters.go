// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/career-advisor/internal/agent"
	"github.com/jonathan/career-advisor/internal/search"
	"github.com/jonathan/career-advisor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// FormatYears renders a fractional year count in a human-readable form.
func FormatYears(years float64) string {
	if years <= 0 {
		return "unknown"
	}

	whole := int(years)
	months := int((years - float64(whole)) * 12)
	switch {
	case whole == 0:
		return fmt.Sprintf("%d months", months)
	case months == 0:
		if whole == 1 {
			return "1 year"
		}
		return fmt.Sprintf("%d years", whole)
	default:
		return fmt.Sprintf("%d years, %d months", whole, months)
	}
}

// PrintAnalysis outputs a human-readable summary of the analysis result.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	level := result.Experience.Level
	if level == "" {
		level = "unresolved"
	}
	sb.WriteString(fmt.Sprintf("Level:       %s\n", level))
	sb.WriteString(fmt.Sprintf("Experience:  %s\n", FormatYears(result.Experience.Years)))
	sb.WriteString(fmt.Sprintf("Confidence:  %.2f %s\n", result.Confidence, confidenceBand(result.Confidence)))
	sb.WriteString("\n")

	if len(result.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(result.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			skill := result.Skills[i]
			sb.WriteString(fmt.Sprintf("  • %s", skill.Name))
			var attrs []string
			if skill.Category != "" {
				attrs = append(attrs, skill.Category)
			}
			if skill.Proficiency != "" {
				attrs = append(attrs, skill.Proficiency)
			}
			if len(attrs) > 0 {
				sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(attrs, ", ")))
			}
			sb.WriteString("\n")
		}
		if len(result.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(result.Strengths) > 0 {
		sb.WriteString("Strengths:\n")
		for _, s := range truncateList(result.Strengths, 3) {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
		sb.WriteString("\n")
	}

	if len(result.Weaknesses) > 0 {
		sb.WriteString("Weaknesses:\n")
		for _, w := range truncateList(result.Weaknesses, 3) {
			sb.WriteString(fmt.Sprintf("  • %s\n", w))
		}
	}

	p.printBox("PROFILE ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs parse modes, unresolved fields, and warnings
// from the most recent analysis run.
func (p *Printer) PrintOutcome(outcome agent.Outcome) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Skill parse:      %s\n", outcome.SkillsParse))
	sb.WriteString(fmt.Sprintf("Assessment parse: %s\n", outcome.AssessmentParse))

	if len(outcome.Unresolved) > 0 {
		sb.WriteString(fmt.Sprintf("Unresolved:       %s\n", strings.Join(outcome.Unresolved, ", ")))
	}

	if len(outcome.Notes) > 0 {
		sb.WriteString("\nNotes:\n")
		for _, note := range outcome.Notes {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", note))
		}
	}

	p.printBox("RUN DIAGNOSTICS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSearchResults outputs the grounding search hits.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSearchResults(query string, results []search.Result) {
	if len(results) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO SEARCH RESULTS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query: %s\n\n", query))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, r.Title))
		sb.WriteString(fmt.Sprintf("    Score: %.2f\n", r.Score))
		sb.WriteString(fmt.Sprintf("    %s\n", r.URL))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more results", len(results)-maxItemsToShow))
	}

	p.printBox("SEARCH RESULTS", sb.String())
}

// PrintStats outputs per-run call counts, token usage, and elapsed time.
func (p *Printer) PrintStats(stats agent.Stats) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("LLM calls:     %d\n", stats.LLMCalls))
	sb.WriteString(fmt.Sprintf("Search calls:  %d\n", stats.SearchCalls))
	if stats.Usage.TotalTokens > 0 {
		sb.WriteString(fmt.Sprintf("Tokens:        %d prompt + %d completion = %d\n",
			stats.Usage.PromptTokens, stats.Usage.CompletionTokens, stats.Usage.TotalTokens))
	}
	sb.WriteString(fmt.Sprintf("Elapsed:       %s", stats.Elapsed.Round(time.Millisecond)))

	p.printBox("RUN STATS", sb.String())
}

func confidenceBand(confidence float64) string {
	switch {
	case confidence >= agent.HighConfidenceFloor:
		return "(high)"
	case confidence <= agent.LowConfidenceCeiling:
		return "(low)"
	default:
		return "(medium)"
	}
}

func truncateList(items []string, limit int) []string {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}
