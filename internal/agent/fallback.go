package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
)

// The fallback parser is the heuristic path used when the model's
// output does not conform to the requested structured shape. It scans
// raw text for recognizable field labels and assembles whatever it can;
// anything it cannot resolve stays empty rather than guessed. It is
// kept separate from the strict-parse path so its heuristics can be
// tested and tuned independently.

// similarityThreshold is the token-overlap score above which two
// strength/weakness entries are considered near-duplicates.
const similarityThreshold = 0.6

var (
	bulletPrefix = regexp.MustCompile(`^\s*[-*•·]\s*`)

	skillLabel      = regexp.MustCompile(`(?i)^skills?:\s*(.+)$`)
	strengthLabel   = regexp.MustCompile(`(?i)^strengths?:\s*(.+)$`)
	weaknessLabel   = regexp.MustCompile(`(?i)^weakness(?:es)?:\s*(.+)$`)
	experienceLabel = regexp.MustCompile(`(?i)^experience(?:\s+level)?:\s*(.+)$`)
	yearsLabel      = regexp.MustCompile(`(?i)^years(?:\s+of\s+experience)?:\s*([\d.]+)`)
	progressLabel   = regexp.MustCompile(`(?i)^(?:career\s+)?progression:\s*(.+)$`)
	trajectoryLabel = regexp.MustCompile(`(?i)^(?:career\s+)?trajectory:\s*(.+)$`)
	educationLabel  = regexp.MustCompile(`(?i)^(?:education|credential):\s*(.+)$`)
	relevanceLabel  = regexp.MustCompile(`(?i)^relevance:\s*([\d.]+)`)
	rationaleLabel  = regexp.MustCompile(`(?i)^rationale:\s*(.+)$`)

	// Trailing "(category, proficiency)" or "(category)" annotation on a skill item.
	skillAnnotation = regexp.MustCompile(`^(.*?)\s*\(([^)]*)\)\s*$`)

	// Last-resort technology-name scan for when no skill labels are present.
	techNamePattern = regexp.MustCompile(`(?i)\b(?:Python|Java|C\+\+|JavaScript|TypeScript|Go|Rust|SQL|React|Angular|Vue|Node\.js|AWS|Azure|GCP|Docker|Kubernetes|Terraform|git|REST|GraphQL|HTML|CSS|TensorFlow|PyTorch|scikit-learn|pandas|numpy)\b`)
)

// parseSkillsFallback scans raw model output for skills. Returns the
// recovered skills plus notes describing what the scan found.
func parseSkillsFallback(raw string) ([]types.Skill, []string) {
	var skills []types.Skill
	var notes []string

	for _, line := range strings.Split(raw, "\n") {
		line = bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		m := skillLabel.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, item := range splitSkillList(m[1]) {
			if skill, ok := parseSkillItem(item); ok {
				skills = append(skills, skill)
			}
		}
	}

	if len(skills) > 0 {
		notes = append(notes, fmt.Sprintf("recovered %d skill(s) from labeled lines", len(skills)))
		return types.MergeSkills(skills), notes
	}

	// No labels anywhere: fall back to a technology-name pattern scan.
	seen := make(map[string]bool)
	for _, match := range techNamePattern.FindAllString(raw, -1) {
		key := strings.ToLower(match)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, types.Skill{Name: match, Category: types.CategoryTechnical})
	}

	if len(skills) > 0 {
		notes = append(notes, fmt.Sprintf("recovered %d skill(s) by technology-name scan", len(skills)))
	} else {
		notes = append(notes, "no skills recovered from unstructured output")
	}
	return types.MergeSkills(skills), notes
}

// parseSkillItem parses one comma-separated skill entry, honoring a
// trailing "(category, proficiency)" annotation. The category is left
// empty when the annotation does not name one; it is never guessed.
func parseSkillItem(item string) (types.Skill, bool) {
	item = strings.TrimSpace(item)
	if item == "" {
		return types.Skill{}, false
	}

	skill := types.Skill{Name: item}
	if m := skillAnnotation.FindStringSubmatch(item); m != nil {
		skill.Name = strings.TrimSpace(m[1])
		for _, part := range strings.Split(m[2], ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			switch {
			case isCategory(part):
				skill.Category = part
			case isProficiency(part):
				skill.Proficiency = part
			}
		}
	}

	if skill.Name == "" {
		return types.Skill{}, false
	}
	return skill, true
}

// parseAssessmentFallback scans raw model output for assessment fields.
// Unresolved fields stay zero-valued.
func parseAssessmentFallback(raw string) (assessmentPayload, []string) {
	var payload assessmentPayload
	var notes []string

	for _, line := range strings.Split(raw, "\n") {
		line = bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		switch {
		case experienceLabel.MatchString(line):
			candidate := strings.ToLower(strings.TrimSpace(experienceLabel.FindStringSubmatch(line)[1]))
			candidate = strings.Trim(candidate, ".,")
			if types.ExperienceLevelValid(candidate) {
				payload.ExperienceLevel = candidate
			}
		case yearsLabel.MatchString(line):
			if years, err := strconv.ParseFloat(yearsLabel.FindStringSubmatch(line)[1], 64); err == nil && years >= 0 {
				payload.YearsExperience = years
			}
		case progressLabel.MatchString(line):
			payload.CareerProgression = strings.TrimSpace(progressLabel.FindStringSubmatch(line)[1])
		case trajectoryLabel.MatchString(line):
			payload.CareerTrajectory = strings.TrimSpace(trajectoryLabel.FindStringSubmatch(line)[1])
		case strengthLabel.MatchString(line):
			payload.Strengths = append(payload.Strengths, splitList(strengthLabel.FindStringSubmatch(line)[1])...)
		case weaknessLabel.MatchString(line):
			payload.Weaknesses = append(payload.Weaknesses, splitList(weaknessLabel.FindStringSubmatch(line)[1])...)
		case educationLabel.MatchString(line):
			payload.Education.Credential = strings.TrimSpace(educationLabel.FindStringSubmatch(line)[1])
		case relevanceLabel.MatchString(line):
			if score, err := strconv.ParseFloat(relevanceLabel.FindStringSubmatch(line)[1], 64); err == nil && score >= 0 && score <= 1 {
				payload.Education.Relevance = &score
			}
		case rationaleLabel.MatchString(line):
			payload.Education.Rationale = strings.TrimSpace(rationaleLabel.FindStringSubmatch(line)[1])
		}
	}

	payload.Strengths = dropNearDuplicates(payload.Strengths)
	payload.Weaknesses = dropNearDuplicates(payload.Weaknesses)

	var recovered []string
	if payload.ExperienceLevel != "" {
		recovered = append(recovered, "experience level")
	}
	if len(payload.Strengths) > 0 {
		recovered = append(recovered, "strengths")
	}
	if len(payload.Weaknesses) > 0 {
		recovered = append(recovered, "weaknesses")
	}
	if payload.CareerTrajectory != "" {
		recovered = append(recovered, "trajectory")
	}
	if payload.Education.Credential != "" {
		recovered = append(recovered, "education")
	}
	if len(recovered) > 0 {
		notes = append(notes, "recovered from labeled lines: "+strings.Join(recovered, ", "))
	} else {
		notes = append(notes, "no assessment fields recovered from unstructured output")
	}

	return payload, notes
}

// splitSkillList splits a comma-separated skill list while keeping
// commas inside "(category, proficiency)" annotations intact.
func splitSkillList(value string) []string {
	var items []string
	depth := 0
	start := 0
	for i, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				items = append(items, value[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, value[start:])
	return items
}

// splitList splits a comma-separated label value into trimmed entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// dropNearDuplicates removes entries whose token overlap with an
// earlier entry exceeds the similarity threshold.
func dropNearDuplicates(items []string) []string {
	var kept []string
	for _, item := range items {
		duplicate := false
		for _, existing := range kept {
			if similarity(item, existing) > similarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, item)
		}
	}
	return kept
}

// similarity computes Jaccard token overlap between two strings.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(strings.ToLower(s)) {
		set[strings.Trim(token, ".,;:!?")] = true
	}
	return set
}

func isCategory(s string) bool {
	switch s {
	case types.CategoryTechnical, types.CategorySoft, types.CategoryDomain:
		return true
	}
	return false
}

func isProficiency(s string) bool {
	for _, p := range types.ProficiencyLevels {
		if s == p {
			return true
		}
	}
	return false
}
