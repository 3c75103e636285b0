// Package types provides type definitions for structured data used throughout the career-advisor system.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Skill categories recognized by the analyzer.
const (
	CategoryTechnical = "technical"
	CategorySoft      = "soft"
	CategoryDomain    = "domain"
)

// Experience levels recognized by the analyzer, ordered from least to most senior.
var ExperienceLevels = []string{"entry", "junior", "mid", "senior", "lead", "executive"}

// Proficiency levels recognized by the analyzer, ordered from least to most proficient.
// An empty proficiency means the model could not estimate one.
var ProficiencyLevels = []string{"beginner", "intermediate", "advanced", "expert"}

// Skill represents a single professional skill extracted from a profile.
type Skill struct {
	Name            string  `json:"name" validate:"required"`
	Category        string  `json:"category" validate:"omitempty,oneof=technical soft domain"`
	Proficiency     string  `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	YearsExperience float64 `json:"years_experience,omitempty" validate:"gte=0"`
}

// ExperienceAssessment represents the overall experience estimate for a profile.
type ExperienceAssessment struct {
	Level       string  `json:"level,omitempty" validate:"omitempty,oneof=entry junior mid senior lead executive"`
	Years       float64 `json:"years,omitempty" validate:"gte=0"`
	Progression string  `json:"progression,omitempty"`
}

// EducationRelevance represents how relevant a credential is to the career path.
// Relevance is nil when the model could not produce a score.
type EducationRelevance struct {
	Credential string   `json:"credential,omitempty"`
	Relevance  *float64 `json:"relevance,omitempty" validate:"omitempty,gte=0,lte=1"`
	Rationale  string   `json:"rationale,omitempty"`
}

// AnalysisResult is the aggregate output of a profile analysis run.
// Field names and nesting are stable across runs for the same input.
type AnalysisResult struct {
	Skills     []Skill              `json:"skills" validate:"dive"`
	Experience ExperienceAssessment `json:"experience"`
	Strengths  []string             `json:"strengths"`
	Weaknesses []string             `json:"weaknesses"`
	Trajectory string               `json:"trajectory,omitempty"`
	Education  EducationRelevance   `json:"education"`
	Confidence float64              `json:"confidence" validate:"gte=0,lte=1"`
}

// Validate validates the AnalysisResult using the validator.
func (r *AnalysisResult) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// proficiencyRank maps a proficiency level to its ordinal position.
// Unknown or empty proficiencies rank below beginner.
func proficiencyRank(level string) int {
	for i, p := range ProficiencyLevels {
		if strings.EqualFold(level, p) {
			return i + 1
		}
	}
	return 0
}

// ExperienceLevelValid reports whether level is one of the recognized experience levels.
func ExperienceLevelValid(level string) bool {
	for _, l := range ExperienceLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// MergeSkills deduplicates skills by (lowercased name, category).
// When duplicates occur, the entry with the highest proficiency wins;
// ties are broken by greater years of experience. First-seen order is preserved.
func MergeSkills(skills []Skill) []Skill {
	type key struct {
		name     string
		category string
	}

	index := make(map[key]int, len(skills))
	merged := make([]Skill, 0, len(skills))

	for _, s := range skills {
		s.Name = strings.TrimSpace(s.Name)
		s.Category = strings.ToLower(strings.TrimSpace(s.Category))
		s.Proficiency = strings.ToLower(strings.TrimSpace(s.Proficiency))
		if s.Name == "" {
			continue
		}

		k := key{name: strings.ToLower(s.Name), category: s.Category}
		if i, seen := index[k]; seen {
			existing := merged[i]
			if proficiencyRank(s.Proficiency) > proficiencyRank(existing.Proficiency) {
				merged[i] = s
			} else if proficiencyRank(s.Proficiency) == proficiencyRank(existing.Proficiency) &&
				s.YearsExperience > existing.YearsExperience {
				merged[i] = s
			}
			continue
		}

		index[k] = len(merged)
		merged = append(merged, s)
	}

	return merged
}
