package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-advisor/internal/types"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")

	result := &types.AnalysisResult{
		Skills:     []types.Skill{{Name: "Python", Category: "technical"}},
		Experience: types.ExperienceAssessment{Level: "senior", Years: 8},
		Strengths:  []string{"systems design"},
		Confidence: 0.9,
	}

	require.NoError(t, Write(path, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded types.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "senior", loaded.Experience.Level)
	assert.Equal(t, "Python", loaded.Skills[0].Name)
	assert.Equal(t, 0.9, loaded.Confidence)

	// Output is indented and newline-terminated.
	assert.True(t, strings.HasPrefix(string(data), "{\n  "))
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestWrite_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")

	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o644))
	require.NoError(t, Write(path, map[string]string{"fresh": "data"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fresh")
	assert.NotContains(t, string(data), "old content")
}

func TestWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "analysis.json")

	err := Write(path, map[string]string{})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWrite_UnencodableValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")

	err := Write(path, map[string]any{"bad": func() {}})
	require.Error(t, err)
	assert.NoFileExists(t, path)

	// No temp files may be left behind.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
