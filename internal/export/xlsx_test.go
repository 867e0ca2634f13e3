package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/valugen/comps-cli/internal/model"
)

func TestWriteWorkbook(t *testing.T) {
	rec := model.CandidateRecord{
		Address:      "45 Commerce Way",
		SaleDate:     "2024-06-15",
		SalePrice:    model.IntPtr(1250000),
		PropertyType: "Warehouse",
		Source:       "MassGIS Property Viewer",
	}
	rec.SetConfidence(0.8)

	subject := model.SubjectProperty{City: "Quincy", County: "Norfolk", PropertyType: "warehouse"}
	result := &model.GatherResult{
		RunID:           "run-1",
		ComparableSales: []model.CandidateRecord{rec},
		SearchSummary:   "1 selected.",
	}

	path := filepath.Join(t.TempDir(), "comps.xlsx")
	require.NoError(t, WriteWorkbook(path, subject, result))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	comps, ok := f.Sheet["Comparable Sales"]
	require.True(t, ok)
	require.Len(t, comps.Rows, 2)
	assert.Equal(t, "Address", comps.Rows[0].Cells[0].String())
	assert.Equal(t, "45 Commerce Way", comps.Rows[1].Cells[0].String())
	assert.Equal(t, "2024-06-15", comps.Rows[1].Cells[1].String())
	assert.Equal(t, "1250000", comps.Rows[1].Cells[2].String())
	assert.Equal(t, "", comps.Rows[1].Cells[3].String()) // building size absent
	assert.Equal(t, "0.80", comps.Rows[1].Cells[11].String())

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, "Subject City", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "Quincy", summary.Rows[0].Cells[1].String())
}

func TestWriteWorkbookEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	result := &model.GatherResult{ComparableSales: []model.CandidateRecord{}, SearchSummary: "0 raw entries."}

	require.NoError(t, WriteWorkbook(path, model.SubjectProperty{City: "Quincy"}, result))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	comps := f.Sheet["Comparable Sales"]
	require.NotNil(t, comps)
	assert.Len(t, comps.Rows, 1) // header only
}

func TestWriteWorkbookBadPath(t *testing.T) {
	err := WriteWorkbook("/nonexistent/dir/out.xlsx", model.SubjectProperty{}, &model.GatherResult{})
	assert.Error(t, err)
}
