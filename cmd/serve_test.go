package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valugen/comps-cli/internal/config"
	"github.com/valugen/comps-cli/internal/gather"
	"github.com/valugen/comps-cli/internal/model"
	"github.com/valugen/comps-cli/internal/source"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg = &config.Config{
		Server: config.ServerConfig{Port: 0, CORSOrigins: []string{"*"}},
	}
	// No sources wired: requests succeed with an empty result set.
	return newRouter(gather.New([]source.Source{}))
}

func TestServeHealthz(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeCompsValidRequest(t *testing.T) {
	router := testRouter(t)

	body := `{"subjectCity":"Quincy","subjectCounty":"Norfolk","subjectPropertyType":"retail"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/comps", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.GatherResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Error)
	assert.NotNil(t, result.ComparableSales)
	assert.Empty(t, result.ComparableSales)
	assert.Contains(t, result.SearchSummary, "0 raw entries")
}

func TestServeCompsMissingRequiredFields(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/comps", strings.NewReader(`{"subjectCity":"Quincy"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var result model.GatherResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Error)
	assert.Contains(t, result.SearchSummary, "subjectCounty")
}

func TestServeCompsMalformedBody(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/comps", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
