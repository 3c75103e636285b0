package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_JSONMarshaling(t *testing.T) {
	metadata := &Metadata{
		Path:      "/tmp/profile.txt",
		Timestamp: "2026-01-01T00:00:00Z",
		Hash:      "abcd1234",
		Words:     42,
		Lines:     7,
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, jsonBytes)

	var unmarshaled Metadata
	err = json.Unmarshal(jsonBytes, &unmarshaled)
	require.NoError(t, err)
	assert.Equal(t, metadata.Path, unmarshaled.Path)
	assert.Equal(t, metadata.Timestamp, unmarshaled.Timestamp)
	assert.Equal(t, metadata.Hash, unmarshaled.Hash)
	assert.Equal(t, metadata.Words, unmarshaled.Words)
	assert.Equal(t, metadata.Lines, unmarshaled.Lines)
}

func TestComputeHash(t *testing.T) {
	content1 := "test content"
	content2 := "different content"

	hash1 := computeHash(content1)
	hash2 := computeHash(content2)

	// Hash should be 64 hex characters (SHA256)
	assert.Len(t, hash1, 64)
	assert.Len(t, hash2, 64)

	// Different content should produce different hashes
	assert.NotEqual(t, hash1, hash2)

	// Same content should produce same hash
	hash1Again := computeHash(content1)
	assert.Equal(t, hash1, hash1Again)
}

func TestNewMetadata(t *testing.T) {
	content := "one two three\nfour five"

	metadata := NewMetadata(content, "/tmp/profile.txt")

	assert.Equal(t, "/tmp/profile.txt", metadata.Path)
	assert.NotEmpty(t, metadata.Timestamp)
	assert.Len(t, metadata.Hash, 64) // SHA256 hex length
	assert.Equal(t, 5, metadata.Words)
	assert.Equal(t, 2, metadata.Lines)

	// Verify timestamp is valid RFC3339
	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)

	// Verify hash is computed from content
	expectedHash := computeHash(content)
	assert.Equal(t, expectedHash, metadata.Hash)
}

func TestNewMetadata_EmptyContent(t *testing.T) {
	metadata := NewMetadata("", "")

	assert.Empty(t, metadata.Path)
	assert.Zero(t, metadata.Words)
	assert.Zero(t, metadata.Lines)
	assert.NotEmpty(t, metadata.Hash)
}
