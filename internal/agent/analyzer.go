package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/career-advisor/internal/ingestion"
	"github.com/jonathan/career-advisor/internal/llm"
	"github.com/jonathan/career-advisor/internal/schemas"
	"github.com/jonathan/career-advisor/internal/search"
	"github.com/jonathan/career-advisor/internal/types"
)

// Confidence bands for analysis results. A result at or above
// HighConfidenceFloor came from fully structured model output; one at
// or below LowConfidenceCeiling leaned on heuristic recovery.
const (
	HighConfidenceFloor  = 0.8
	LowConfidenceCeiling = 0.4
	MinConfidence        = 0.1
)

// unresolvedPenalty is subtracted from the confidence score for each
// required field the analysis could not resolve.
const unresolvedPenalty = 0.05

// ParseMode records how a model response was turned into structured data.
type ParseMode string

const (
	ParseStrict   ParseMode = "strict"
	ParseFallback ParseMode = "fallback"
)

// GroundingMode selects which external search, if any, enriches the analysis.
type GroundingMode string

const (
	GroundingOff     GroundingMode = "off"
	GroundingMarket  GroundingMode = "market"
	GroundingCourses GroundingMode = "courses"
)

// Outcome describes how the most recent analysis went: which parse
// path each model call took, which fields stayed unresolved, and what
// the grounding search returned.
type Outcome struct {
	SkillsParse     ParseMode
	AssessmentParse ParseMode
	Unresolved      []string
	Notes           []string
	SearchQuery     string
	SearchResults   []search.Result
}

// ProfileAnalyzer analyzes free-text professional profiles. It makes
// two primary model calls (skill extraction, then profile assessment),
// issues at most one clarifying follow-up per unresolved category, and
// optionally grounds the trajectory in live search results.
type ProfileAnalyzer struct {
	Base
	grounding GroundingMode
	outcome   Outcome
}

// NewProfileAnalyzer builds an analyzer on top of the given LLM client.
// The client is wrapped with a single-retry policy so transient
// rate-limit and timeout errors get one more chance before surfacing.
// searchClient may be nil; grounding is then skipped regardless of mode.
func NewProfileAnalyzer(client llm.Client, searchClient *search.Client, grounding GroundingMode) *ProfileAnalyzer {
	if grounding == "" {
		grounding = GroundingOff
	}
	return &ProfileAnalyzer{
		Base: NewBase(
			"profile-analyzer",
			"Analyzes professional profiles to extract skills and assess career development",
			llm.NewRetryClient(client, 1, time.Second),
			searchClient,
		),
		grounding: grounding,
	}
}

// Outcome returns diagnostic details for the most recent Analyze call.
func (a *ProfileAnalyzer) Outcome() Outcome {
	return a.outcome
}

// assessmentPayload mirrors the JSON object the assessment prompt asks for.
type assessmentPayload struct {
	ExperienceLevel   string   `json:"experience_level"`
	YearsExperience   float64  `json:"years_experience"`
	CareerProgression string   `json:"career_progression"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	CareerTrajectory  string   `json:"career_trajectory"`
	Education         struct {
		Credential string   `json:"credential"`
		Relevance  *float64 `json:"relevance"`
		Rationale  string   `json:"rationale"`
	} `json:"education"`
}

// Analyze runs the full analysis pipeline over a raw profile text.
// It never fails on malformed model output; only invalid input,
// context cancellation, and unrecoverable provider errors are returned.
func (a *ProfileAnalyzer) Analyze(ctx context.Context, input string) (*types.AnalysisResult, error) {
	a.resetStats()
	a.outcome = Outcome{}
	started := time.Now()
	defer func() { a.elapsed = time.Since(started) }()

	if strings.TrimSpace(input) == "" {
		return nil, &InvalidInputError{Reason: "profile text is empty"}
	}
	profile := ingestion.CleanText(input)

	skills, err := a.extractSkills(ctx, profile)
	if err != nil {
		return nil, err
	}

	assessment, err := a.assessProfile(ctx, profile, skills)
	if err != nil {
		return nil, err
	}

	skills = a.clarifySkills(ctx, profile, skills)
	assessment.ExperienceLevel = a.clarifyExperienceLevel(ctx, profile, assessment.ExperienceLevel)

	result := &types.AnalysisResult{
		Skills: types.MergeSkills(skills),
		Experience: types.ExperienceAssessment{
			Level:       assessment.ExperienceLevel,
			Years:       assessment.YearsExperience,
			Progression: assessment.CareerProgression,
		},
		Strengths:  assessment.Strengths,
		Weaknesses: assessment.Weaknesses,
		Trajectory: assessment.CareerTrajectory,
		Education: types.EducationRelevance{
			Credential: assessment.Education.Credential,
			Relevance:  assessment.Education.Relevance,
			Rationale:  assessment.Education.Rationale,
		},
	}

	a.ground(ctx, result)

	a.outcome.Unresolved = unresolvedFields(result)
	result.Confidence = a.confidence(len(a.outcome.Unresolved))

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("result validation: %w", err)
	}
	return result, nil
}

// extractSkills runs the skill-extraction call and parses its output,
// strictly first and heuristically when that fails.
func (a *ProfileAnalyzer) extractSkills(ctx context.Context, profile string) ([]types.Skill, error) {
	shape := &llm.Shape{Name: "skills", Schema: schemas.MustSource(schemas.SkillsSchema)}
	raw, err := a.completePrompt(ctx, "extract-skills", map[string]string{"Profile": profile}, shape, 0.3)
	if err != nil {
		return nil, fmt.Errorf("model call (skill extraction): %w", err)
	}

	skills, parseErr := parseSkillsStrict(raw)
	if parseErr == nil {
		a.outcome.SkillsParse = ParseStrict
		return skills, nil
	}

	a.outcome.SkillsParse = ParseFallback
	a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("skill extraction output was unstructured: %v", parseErr))
	skills, notes := parseSkillsFallback(raw)
	a.outcome.Notes = append(a.outcome.Notes, notes...)
	return skills, nil
}

// assessProfile runs the assessment call and parses its output.
func (a *ProfileAnalyzer) assessProfile(ctx context.Context, profile string, skills []types.Skill) (assessmentPayload, error) {
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return assessmentPayload{}, fmt.Errorf("encoding skills for assessment: %w", err)
	}

	shape := &llm.Shape{Name: "analysis", Schema: schemas.MustSource(schemas.AnalysisSchema)}
	raw, err := a.completePrompt(ctx, "assess-profile", map[string]string{
		"Profile": profile,
		"Skills":  string(skillsJSON),
	}, shape, 0.5)
	if err != nil {
		return assessmentPayload{}, fmt.Errorf("model call (profile assessment): %w", err)
	}

	payload, parseErr := parseAssessmentStrict(raw)
	if parseErr == nil {
		a.outcome.AssessmentParse = ParseStrict
		return payload, nil
	}

	a.outcome.AssessmentParse = ParseFallback
	a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("assessment output was unstructured: %v", parseErr))
	payload, notes := parseAssessmentFallback(raw)
	a.outcome.Notes = append(a.outcome.Notes, notes...)
	return payload, nil
}

// clarifySkills issues at most one follow-up when no skills were
// recovered. Only a strictly parsed answer is accepted; anything else
// leaves the skill list empty.
func (a *ProfileAnalyzer) clarifySkills(ctx context.Context, profile string, skills []types.Skill) []types.Skill {
	if len(skills) > 0 {
		return skills
	}

	shape := &llm.Shape{Name: "skills", Schema: schemas.MustSource(schemas.SkillsSchema)}
	raw, err := a.completePrompt(ctx, "clarify-skills", map[string]string{"Profile": profile}, shape, 0)
	if err != nil {
		a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("skill clarification failed: %v", err))
		return skills
	}

	clarified, parseErr := parseSkillsStrict(raw)
	if parseErr != nil {
		a.outcome.Notes = append(a.outcome.Notes, "skill clarification returned unstructured output; skills left empty")
		return skills
	}
	a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("skill clarification recovered %d skill(s)", len(clarified)))
	return clarified
}

// clarifyExperienceLevel issues at most one follow-up when the
// assessment produced no usable experience level. The answer must be
// exactly one of the recognized levels; anything else leaves it empty.
func (a *ProfileAnalyzer) clarifyExperienceLevel(ctx context.Context, profile, level string) string {
	if level != "" && types.ExperienceLevelValid(level) {
		return strings.ToLower(level)
	}

	raw, err := a.completePrompt(ctx, "clarify-experience-level", map[string]string{"Profile": profile}, nil, 0)
	if err != nil {
		a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("experience-level clarification failed: %v", err))
		return ""
	}

	answer := strings.ToLower(strings.Trim(strings.TrimSpace(raw), ".\"'"))
	if !types.ExperienceLevelValid(answer) {
		a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("experience-level clarification returned %q; level left empty", answer))
		return ""
	}
	a.outcome.Notes = append(a.outcome.Notes, "experience level resolved by clarification")
	return answer
}

// ground performs at most one search call and folds the findings into
// the trajectory. Search failures only add a note.
func (a *ProfileAnalyzer) ground(ctx context.Context, result *types.AnalysisResult) {
	if a.grounding == GroundingOff || a.search == nil || len(result.Skills) == 0 {
		return
	}

	topSkill := result.Skills[0].Name
	var (
		resp *search.Response
		err  error
	)
	switch a.grounding {
	case GroundingMarket:
		a.outcome.SearchQuery = fmt.Sprintf("%s job market demand and trends", topSkill)
		resp, err = a.search.SearchJobMarket(ctx, a.outcome.SearchQuery)
	case GroundingCourses:
		a.outcome.SearchQuery = fmt.Sprintf("best online courses for %s", topSkill)
		resp, err = a.search.SearchCourses(ctx, a.outcome.SearchQuery)
	default:
		a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("unknown grounding mode %q; grounding skipped", a.grounding))
		return
	}
	if err != nil {
		a.outcome.Notes = append(a.outcome.Notes, fmt.Sprintf("search call failed; analysis not grounded: %v", err))
		return
	}
	a.searchCalls++
	a.outcome.SearchResults = resp.Results

	summary := search.Summary(resp.Results, 3)
	if summary == "" {
		a.outcome.Notes = append(a.outcome.Notes, "search returned no usable results")
		return
	}
	if result.Trajectory == "" {
		result.Trajectory = summary
	} else {
		result.Trajectory = result.Trajectory + " " + summary
	}
}

// confidence computes the final score from the parse modes and the
// number of unresolved required fields.
func (a *ProfileAnalyzer) confidence(unresolved int) float64 {
	var score float64
	switch {
	case a.outcome.SkillsParse == ParseStrict && a.outcome.AssessmentParse == ParseStrict:
		score = 0.9
	case a.outcome.SkillsParse == ParseStrict || a.outcome.AssessmentParse == ParseStrict:
		score = 0.55
	default:
		score = 0.35
	}

	score -= unresolvedPenalty * float64(unresolved)
	if score < MinConfidence {
		score = MinConfidence
	}
	return score
}

// unresolvedFields lists the required fields the analysis left empty.
func unresolvedFields(result *types.AnalysisResult) []string {
	var unresolved []string
	if result.Experience.Level == "" {
		unresolved = append(unresolved, "experience level")
	}
	if len(result.Skills) == 0 {
		unresolved = append(unresolved, "skills")
	}
	if len(result.Strengths) == 0 {
		unresolved = append(unresolved, "strengths")
	}
	if len(result.Weaknesses) == 0 {
		unresolved = append(unresolved, "weaknesses")
	}
	if result.Trajectory == "" {
		unresolved = append(unresolved, "trajectory")
	}
	return unresolved
}

// parseSkillsStrict parses a model response as a JSON skill array,
// recovering JSON from fences or surrounding prose first, then
// checking it against the skills schema.
func parseSkillsStrict(raw string) ([]types.Skill, error) {
	doc := llm.ExtractJSONValue(llm.CleanJSONBlock(raw))

	var skills []types.Skill
	if err := json.Unmarshal([]byte(doc), &skills); err != nil {
		return nil, err
	}
	if err := schemas.ValidateString(schemas.MustSource(schemas.SkillsSchema), doc); err != nil {
		return nil, err
	}
	return skills, nil
}

// parseAssessmentStrict parses a model response as a JSON assessment
// object and checks it against the analysis schema.
func parseAssessmentStrict(raw string) (assessmentPayload, error) {
	doc := llm.ExtractJSONValue(llm.CleanJSONBlock(raw))

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		return assessmentPayload{}, err
	}
	if err := schemas.ValidateString(schemas.MustSource(schemas.AnalysisSchema), doc); err != nil {
		return assessmentPayload{}, err
	}
	return payload, nil
}
