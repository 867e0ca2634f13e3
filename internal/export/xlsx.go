// Package export writes aggregation results to spreadsheet workbooks for
// appraisal workpapers.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/valugen/comps-cli/internal/model"
)

var compHeaders = []string{
	"Address", "Sale Date", "Sale Price", "Building SqFt", "Lot SqFt",
	"Assessed Value", "Year Built", "Property Type", "Use Code", "Parcel ID",
	"Source", "Confidence", "Description",
}

// WriteWorkbook saves the selected comparables and the run summary as an
// XLSX workbook at path.
func WriteWorkbook(path string, subject model.SubjectProperty, result *model.GatherResult) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Comparable Sales")
	if err != nil {
		return eris.Wrap(err, "export: add comps sheet")
	}

	header := sheet.AddRow()
	for _, h := range compHeaders {
		header.AddCell().SetString(h)
	}
	for _, rec := range result.ComparableSales {
		addCompRow(sheet, rec)
	}

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	addKV(summary, "Subject City", subject.City)
	addKV(summary, "Subject County", subject.County)
	addKV(summary, "Subject Property Type", subject.PropertyType)
	if subject.Address != "" {
		addKV(summary, "Subject Address", subject.Address)
	}
	addKV(summary, "Run ID", result.RunID)
	addKV(summary, "Search Summary", result.SearchSummary)

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func addCompRow(sheet *xlsx.Sheet, rec model.CandidateRecord) {
	row := sheet.AddRow()
	row.AddCell().SetString(rec.Address)
	row.AddCell().SetString(rec.SaleDate)
	addOptionalInt(row, rec.SalePrice)
	addOptionalInt(row, rec.BuildingSizeSqFt)
	addOptionalInt(row, rec.LotSizeSqFt)
	addOptionalInt(row, rec.AssessedValue)
	addOptionalInt(row, rec.YearBuilt)
	row.AddCell().SetString(rec.PropertyType)
	row.AddCell().SetString(rec.UseCode)
	row.AddCell().SetString(rec.ParcelID)
	row.AddCell().SetString(rec.Source)
	if rec.Confidence != nil {
		row.AddCell().SetString(fmt.Sprintf("%.2f", *rec.Confidence))
	} else {
		row.AddCell().SetString("")
	}
	row.AddCell().SetString(rec.BriefDescription)
}

func addOptionalInt(row *xlsx.Row, v *int) {
	cell := row.AddCell()
	if v == nil {
		cell.SetString("")
		return
	}
	cell.SetInt(*v)
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetString(value)
}
