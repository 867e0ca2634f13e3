package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valugen/comps-cli/internal/model"
)

func TestReadInputFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subject.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"subjectCity":"Quincy"}`), 0o644))

	data, err := readInput(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Quincy")
}

func TestReadInputMissingFile(t *testing.T) {
	_, err := readInput("/nonexistent/subject.json")
	assert.Error(t, err)
}

func TestWriteResultToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	result := &model.GatherResult{
		ComparableSales: []model.CandidateRecord{},
		SearchSummary:   "0 raw entries.",
	}
	require.NoError(t, writeResult(path, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded model.GatherResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Error)
	assert.Equal(t, "0 raw entries.", decoded.SearchSummary)
	assert.NotNil(t, decoded.ComparableSales)
}

func TestWriteFailureReturnsCauseAndWritesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "err.json")
	gatherOutput = path
	t.Cleanup(func() { gatherOutput = "-" })

	subjectErr := func() error {
		_, err := model.ParseSubject([]byte(`{"subjectCity":"Quincy"}`))
		return err
	}()
	require.Error(t, subjectErr)

	err := writeFailure(subjectErr)
	assert.ErrorIs(t, err, subjectErr)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)

	var decoded model.GatherResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Error)
	assert.Empty(t, decoded.ComparableSales)
	assert.Contains(t, decoded.SearchSummary, "Error:")
	assert.Contains(t, decoded.SearchSummary, "subjectCounty")
}
