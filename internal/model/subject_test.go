package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`12000`, 12000},
		{`"12000"`, 12000},
		{`"12,000"`, 12000},
		{`12000.7`, 12000},
		{`null`, 0},
		{`""`, 0},
	}
	for _, tt := range tests {
		var f FlexInt
		require.NoError(t, json.Unmarshal([]byte(tt.in), &f), tt.in)
		assert.Equal(t, tt.want, f.Int(), tt.in)
	}

	var f FlexInt
	assert.Error(t, json.Unmarshal([]byte(`"about five"`), &f))
}

func TestParseSubject(t *testing.T) {
	doc := `{
		"subjectCity": "Woburn",
		"subjectCounty": "Middlesex",
		"subjectPropertyType": "industrial",
		"subjectSizeSqFt": "24,500"
	}`

	s, err := ParseSubject([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Woburn", s.City)
	assert.Equal(t, 24500, s.SizeSqFt.Int())
	assert.Equal(t, "MA", s.State)    // defaulted
	assert.Equal(t, FlexInt(DefaultNumberOfComps), s.NumberOfComps)
}

func TestParseSubjectMissingFields(t *testing.T) {
	_, err := ParseSubject([]byte(`{"subjectCity": "Woburn"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subjectCounty")
	assert.Contains(t, err.Error(), "subjectPropertyType")
	assert.NotContains(t, err.Error(), "subjectCity")
}

func TestParseSubjectMalformed(t *testing.T) {
	_, err := ParseSubject([]byte(`{not json`))
	assert.Error(t, err)
}

func TestValidateListsAllMissing(t *testing.T) {
	err := SubjectProperty{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subjectCity, subjectCounty, subjectPropertyType")
}

func TestErrorResult(t *testing.T) {
	r := ErrorResult("Error: something broke")
	assert.True(t, r.Error)
	assert.Equal(t, "Error: something broke", r.SearchSummary)
	require.NotNil(t, r.ComparableSales)
	assert.Empty(t, r.ComparableSales)
}
