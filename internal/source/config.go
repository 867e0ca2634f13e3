package source

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Platform identifies the assessor-site software a municipality runs.
// Dispatch is by explicit lookup table, loaded once at startup; unmapped
// municipalities fall back to PlatformGeneric.
type Platform string

const (
	PlatformVision    Platform = "vision"
	PlatformAxisGIS   Platform = "axisgis"
	PlatformPatriot   Platform = "patriot"
	PlatformBoston    Platform = "boston"
	PlatformCambridge Platform = "cambridge"
	PlatformGeneric   Platform = "generic"
)

// RegistryInfo describes one MassLandRecords registry-of-deeds site.
type RegistryInfo struct {
	Name              string `yaml:"name"`
	Subdomain         string `yaml:"subdomain"`
	NameOnSite        string `yaml:"name_on_site"`
	SearchURLTemplate string `yaml:"search_url_template"`
}

// Maps is the immutable site-directory configuration: which assessor
// platform each municipality runs and which deeds registry serves each
// county. It is loaded once at process start and passed explicitly into the
// adapters; never mutated at runtime.
type Maps struct {
	Municipalities map[string]Platform     `yaml:"municipalities"`
	Counties       map[string]RegistryInfo `yaml:"counties"`
}

//go:embed defaults.yaml
var defaultMaps []byte

// DefaultMaps returns the built-in site directory.
func DefaultMaps() (*Maps, error) {
	return parseMaps(defaultMaps)
}

// LoadMaps reads a site directory from a YAML file, or the built-in
// defaults when path is empty.
func LoadMaps(path string) (*Maps, error) {
	if path == "" {
		return DefaultMaps()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: read site maps %s", path)
	}
	return parseMaps(data)
}

func parseMaps(data []byte) (*Maps, error) {
	var m Maps
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "source: parse site maps")
	}
	// Keys are matched case/space-insensitively.
	munis := make(map[string]Platform, len(m.Municipalities))
	for k, v := range m.Municipalities {
		munis[normKey(k)] = v
	}
	counties := make(map[string]RegistryInfo, len(m.Counties))
	for k, v := range m.Counties {
		counties[normKey(k)] = v
	}
	m.Municipalities = munis
	m.Counties = counties
	return &m, nil
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PlatformFor returns the assessor platform mapped for a municipality, or
// PlatformGeneric when unmapped.
func (m *Maps) PlatformFor(municipality string) Platform {
	if p, ok := m.Municipalities[normKey(municipality)]; ok {
		return p
	}
	return PlatformGeneric
}

// RegistryFor returns the deeds registry serving a county. Unmapped counties
// get a best-guess fallback entry so the adapter degrades instead of failing.
func (m *Maps) RegistryFor(county string) RegistryInfo {
	if r, ok := m.Counties[normKey(county)]; ok {
		return r
	}
	guess := strings.ReplaceAll(normKey(county), " ", "")
	return RegistryInfo{
		Name:              fmt.Sprintf("%s Registry of Deeds (Generic Fallback)", titleCase(county)),
		Subdomain:         guess,
		NameOnSite:        titleCase(county),
		SearchURLTemplate: fmt.Sprintf("http://www.masslandrecords.com/%s/{search_page}", guess),
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
