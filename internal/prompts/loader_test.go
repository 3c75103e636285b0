package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("analyzer.json", "extract-skills")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "extract all the skills")
	assert.Contains(t, prompt, "{{.Profile}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("analyzer.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("analyzer.json", "assess-profile")
		assert.NotEmpty(t, prompt)
	})
}

func TestAnalyzerPromptKeys(t *testing.T) {
	ClearCache()

	keys, err := List("analyzer.json")
	require.NoError(t, err)

	for _, want := range []string{"extract-skills", "assess-profile", "clarify-experience-level", "clarify-skills"} {
		assert.Contains(t, keys, want)
	}
}

func TestAssessPromptPlaceholders(t *testing.T) {
	ClearCache()

	prompt := MustGet("analyzer.json", "assess-profile")
	assert.Contains(t, prompt, "{{.Profile}}")
	assert.Contains(t, prompt, "{{.Skills}}")
	assert.Contains(t, prompt, "experience_level")
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("analyzer.json", "extract-skills")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("analyzer.json", "extract-skills")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
