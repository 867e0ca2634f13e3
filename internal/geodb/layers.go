// Package geodb answers parcel-attribute lookups against a local extract of
// the statewide tax-parcel database, laid out as one shapefile per layer.
package geodb

import (
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// Layer name suffixes within a parcel extract directory. Extracts are
// prefixed per town (M001Assess, M305Assess, ...), so layers are found by
// suffix match.
const (
	layerAssess = "Assess"
	layerTaxPar = "TaxPar"
	layerUseLUT = "UC_LUT"
)

// Columns the assessment layer must carry for address matching to work.
var requiredAssessColumns = []string{"LOC_ID", "SITE_ADDR", "ADDR_NUM", "FULL_STR", "CITY"}

type feature struct {
	attrs map[string]string
	shape shp.Shape
}

type layer struct {
	name     string
	columns  []string
	features []feature
}

// openLayer loads every feature of the first shapefile in dir whose base
// name ends with the given layer suffix. Attribute values are cleaned of the
// dBase NUL padding the format carries.
func openLayer(dir, suffix string) (*layer, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix+".shp"))
	if err != nil {
		return nil, eris.Wrapf(err, "geodb: scan %s for %s layer", dir, suffix)
	}
	if len(matches) == 0 {
		return nil, eris.Errorf("geodb: no %s layer found in %s", suffix, dir)
	}

	reader, err := shp.Open(matches[0])
	if err != nil {
		return nil, eris.Wrapf(err, "geodb: open layer %s", matches[0])
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = strings.ToUpper(strings.TrimRight(f.String(), "\x00"))
	}

	l := &layer{name: filepath.Base(matches[0]), columns: columns}
	for reader.Next() {
		_, shape := reader.Shape()
		attrs := make(map[string]string, len(columns))
		for i, col := range columns {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			attrs[col] = val
		}
		l.features = append(l.features, feature{attrs: attrs, shape: shape})
	}
	return l, nil
}

// requireColumns verifies the layer carries every named column.
func (l *layer) requireColumns(cols ...string) error {
	have := make(map[string]bool, len(l.columns))
	for _, c := range l.columns {
		have[c] = true
	}
	var missing []string
	for _, c := range cols {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("geodb: layer %s missing required columns (%s)", l.name, strings.Join(missing, ", "))
	}
	return nil
}

// findByLocID returns the first feature whose LOC_ID matches.
func (l *layer) findByLocID(locID string) (feature, bool) {
	for _, f := range l.features {
		if f.attrs["LOC_ID"] == locID {
			return f, true
		}
	}
	return feature{}, false
}
