package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/career-advisor/internal/agent"
	"github.com/jonathan/career-advisor/internal/config"
	"github.com/jonathan/career-advisor/internal/ingestion"
	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/observability"
	"github.com/jonathan/career-advisor/internal/report"
	"github.com/jonathan/career-advisor/internal/search"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a professional profile",
	Long:  "Analyze a free-text professional profile: extract skills, assess experience and career trajectory, optionally ground the findings in live search results, and write a JSON report.",
	RunE:  runAnalyze,
}

var (
	analyzeProfile    string
	analyzeOut        string
	analyzeProvider   string
	analyzeModel      string
	analyzeGrounding  string
	analyzeConfigPath string
	analyzeTimeout    int
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProfile, "profile", "p", "", "Path to profile text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", report.DefaultFilename, "Path to output JSON report")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "openrouter", "LLM provider: openrouter or gemini")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Model override (defaults to the provider's standard model)")
	analyzeCmd.Flags().StringVar(&analyzeGrounding, "grounding", "", "Search grounding: market, courses, or off (default market when TAVILY_API_KEY is set)")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to JSON config file")
	analyzeCmd.Flags().IntVar(&analyzeTimeout, "timeout", 0, "Per-request LLM timeout in seconds")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed run information")

	rootCmd.AddCommand(analyzeCmd)
}

// mergedConfig combines flag values with the optional config file.
// Flags the user set explicitly always win; config file values fill
// the rest; built-in defaults cover whatever remains.
func mergedConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{Verbose: analyzeVerbose}
	if cmd.Flags().Changed("profile") {
		cfg.Profile = analyzeProfile
	}
	if cmd.Flags().Changed("out") {
		cfg.Out = analyzeOut
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = analyzeProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = analyzeModel
	}
	if cmd.Flags().Changed("grounding") {
		cfg.Grounding = analyzeGrounding
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = analyzeTimeout
	}

	if analyzeConfigPath != "" {
		fileCfg, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.Verbose = cfg.Verbose || fileCfg.Verbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		Out:      report.DefaultFilename,
		Provider: "openrouter",
	})

	if cfg.Profile == "" {
		return config.Config{}, fmt.Errorf("input validation: --profile is required (flag or config file)")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("input validation: %w", err)
	}
	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := mergedConfig(cmd)
	if err != nil {
		return err
	}

	env := config.FromEnv()
	if err := cfg.ValidateKeys(env); err != nil {
		return fmt.Errorf("input validation: %w", err)
	}

	// Grounding defaults to market enrichment when a Tavily key exists.
	if cfg.Grounding == "" {
		if env.TavilyKey != "" {
			cfg.Grounding = "market"
		} else {
			cfg.Grounding = "off"
		}
	}

	runID := uuid.New()
	printer := observability.NewPrinter(os.Stdout)
	fmt.Fprintf(os.Stdout, "Run %s\n", runID)

	// Step 1: read and clean the profile.
	fmt.Fprintf(os.Stdout, "[1/4] Reading profile from %s\n", cfg.Profile)
	profile, meta, err := ingestion.ReadProfile(cfg.Profile)
	if err != nil {
		return fmt.Errorf("input validation: %w", err)
	}
	if cfg.Verbose {
		fmt.Fprintf(os.Stdout, "      %d words, %d lines, sha256 %.12s\n", meta.Words, meta.Lines, meta.Hash)
	}

	// Step 2: build provider clients.
	fmt.Fprintf(os.Stdout, "[2/4] Connecting to %s\n", cfg.Provider)
	llmCfg := providerConfig(cfg, env)
	client, err := llm.NewClient(cmd.Context(), llmCfg, env.ProviderKey(cfg.Provider))
	if err != nil {
		return fmt.Errorf("model call (client setup): %w", err)
	}
	defer client.Close()

	searchClient := groundingClient(cfg, env)

	// Step 3: run the analysis.
	fmt.Fprintf(os.Stdout, "[3/4] Analyzing profile (grounding: %s)\n", cfg.Grounding)
	analyzer := agent.NewProfileAnalyzer(client, searchClient, agent.GroundingMode(cfg.Grounding))
	result, err := analyzer.Analyze(cmd.Context(), profile)
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	outcome := analyzer.Outcome()
	if cfg.Verbose {
		printer.PrintAnalysis(result)
		printer.PrintOutcome(outcome)
		if outcome.SearchQuery != "" {
			printer.PrintSearchResults(outcome.SearchQuery, outcome.SearchResults)
		}
		printer.PrintStats(analyzer.Stats())
	}
	for _, note := range outcome.Notes {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", note)
	}

	// Step 4: write the report.
	fmt.Fprintf(os.Stdout, "[4/4] Writing report to %s\n", cfg.Out)
	if err := report.Write(cfg.Out, result); err != nil {
		return fmt.Errorf("output write: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Done: confidence %.2f, %d skill(s), elapsed %s\n",
		result.Confidence, len(result.Skills), analyzer.Stats().Elapsed.Round(time.Millisecond))
	return nil
}

// providerConfig builds the LLM configuration from the merged CLI config.
func providerConfig(cfg config.Config, env config.Env) *llm.Config {
	var llmCfg *llm.Config
	if cfg.Provider == "gemini" {
		llmCfg = llm.DefaultGeminiConfig()
	} else {
		llmCfg = llm.DefaultOpenRouterConfig()
		if env.OpenRouterBaseURL != "" {
			llmCfg.BaseURL = env.OpenRouterBaseURL
		}
	}
	if cfg.TimeoutSeconds > 0 {
		llmCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.Model != "" {
		for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
			llmCfg = llmCfg.WithModel(tier, cfg.Model)
		}
	}
	return llmCfg
}

// groundingClient builds the search client, or nil when grounding is
// off or no Tavily key is configured. A missing key downgrades to a
// warning; it never fails the run.
func groundingClient(cfg config.Config, env config.Env) *search.Client {
	if cfg.Grounding == "" || cfg.Grounding == "off" {
		return nil
	}

	searchClient, err := search.NewClient(env.TavilyKey, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: search grounding disabled: %v\n", err)
		return nil
	}
	return searchClient
}
