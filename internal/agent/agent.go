// Package agent provides the analysis agent abstraction and the
// profile analyzer, the one concrete agent implemented today.
package agent

import (
	"context"
	"time"

	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/prompts"
	"github.com/jonathan/career-advisor/internal/search"
	"github.com/jonathan/career-advisor/internal/types"
)

// promptFile is the embedded prompt template file shared by all agents.
const promptFile = "analyzer.json"

// Agent is the capability contract shared by analysis agents. Adding
// job-market or gap-analysis agents later means adding implementers,
// not widening this interface.
type Agent interface {
	Name() string
	Role() string
	Analyze(ctx context.Context, input string) (*types.AnalysisResult, error)
}

// Stats holds per-run execution statistics for an agent.
type Stats struct {
	LLMCalls    int
	SearchCalls int
	Elapsed     time.Duration
	Usage       llm.Usage
}

// Base holds the capability set common to all agents: identity, an LLM
// client, an optional search client, and execution statistics.
type Base struct {
	name   string
	role   string
	llm    llm.Client
	search *search.Client

	llmCalls    int
	searchCalls int
	elapsed     time.Duration
}

// NewBase creates the shared agent capability set. searchClient may be
// nil, which disables search-backed enrichment.
func NewBase(name, role string, client llm.Client, searchClient *search.Client) Base {
	return Base{name: name, role: role, llm: client, search: searchClient}
}

// Name returns the agent's name.
func (b *Base) Name() string { return b.name }

// Role returns the agent's role description.
func (b *Base) Role() string { return b.role }

// Stats returns execution statistics for the most recent run.
func (b *Base) Stats() Stats {
	var usage llm.Usage
	if b.llm != nil {
		usage = b.llm.Usage()
	}
	return Stats{
		LLMCalls:    b.llmCalls,
		SearchCalls: b.searchCalls,
		Elapsed:     b.elapsed,
		Usage:       usage,
	}
}

// resetStats clears per-run counters at the start of an analysis.
func (b *Base) resetStats() {
	b.llmCalls = 0
	b.searchCalls = 0
	b.elapsed = 0
}

// completePrompt renders a prompt template and sends it to the LLM.
func (b *Base) completePrompt(ctx context.Context, key string, data map[string]string, shape *llm.Shape, temperature float32) (string, error) {
	template, err := prompts.Get(promptFile, key)
	if err != nil {
		return "", err
	}

	resp, err := b.llm.Complete(ctx, llm.Request{
		Prompt:      prompts.Format(template, data),
		Shape:       shape,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	b.llmCalls++
	return resp.Text, nil
}
