package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMaps(t *testing.T) {
	m, err := DefaultMaps()
	require.NoError(t, err)
	assert.NotEmpty(t, m.Municipalities)
	assert.NotEmpty(t, m.Counties)
}

func TestPlatformForCaseInsensitive(t *testing.T) {
	m, err := DefaultMaps()
	require.NoError(t, err)

	assert.Equal(t, PlatformVision, m.PlatformFor("Weymouth"))
	assert.Equal(t, PlatformVision, m.PlatformFor("  weymouth "))
	assert.Equal(t, PlatformBoston, m.PlatformFor("BOSTON"))
}

func TestPlatformForUnmapped(t *testing.T) {
	m, err := DefaultMaps()
	require.NoError(t, err)

	assert.Equal(t, PlatformGeneric, m.PlatformFor("Nowhereville"))
}

func TestRegistryForKnownCounty(t *testing.T) {
	m, err := DefaultMaps()
	require.NoError(t, err)

	r := m.RegistryFor("Suffolk")
	assert.Contains(t, r.Name, "Suffolk")
	assert.Contains(t, r.SearchURLTemplate, "masslandrecords.com")
	assert.Contains(t, r.SearchURLTemplate, "{search_page}")
}

func TestRegistryForFallback(t *testing.T) {
	m, err := DefaultMaps()
	require.NoError(t, err)

	r := m.RegistryFor("made up")
	assert.Equal(t, "Made Up Registry of Deeds (Generic Fallback)", r.Name)
	assert.Equal(t, "madeup", r.Subdomain)
	assert.Contains(t, r.SearchURLTemplate, "masslandrecords.com/madeup/")
}

func TestLoadMapsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps.yaml")
	yaml := `
municipalities:
  Springfield: patriot
counties:
  Hampden:
    name: Hampden County Registry of Deeds
    subdomain: hampden
    name_on_site: Hampden
    search_url_template: http://www.masslandrecords.com/hampden/{search_page}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	m, err := LoadMaps(path)
	require.NoError(t, err)
	assert.Equal(t, PlatformPatriot, m.PlatformFor("springfield"))
	assert.Equal(t, "Hampden County Registry of Deeds", m.RegistryFor("HAMPDEN").Name)
}

func TestLoadMapsEmptyPathUsesDefaults(t *testing.T) {
	m, err := LoadMaps("")
	require.NoError(t, err)
	assert.Equal(t, PlatformCambridge, m.PlatformFor("Cambridge"))
}

func TestLoadMapsMissingFile(t *testing.T) {
	_, err := LoadMaps("/nonexistent/maps.yaml")
	assert.Error(t, err)
}
