package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const visionResultsPage = `
<table id="grdSales">
<tr><th>Parcel</th><th>Date</th><th>Price</th><th>Address</th></tr>
<tr>
  <td><a href="Parcel.aspx?pid=10456">MAP 12 LOT 3</a></td>
  <td>6/15/2024</td>
  <td>$1,250,000</td>
  <td>45 COMMERCE WAY</td>
</tr>
<tr>
  <td><a href="Parcel.aspx?pid=10457">MAP 12 LOT 4</a></td>
  <td>n/a</td>
  <td>$900,000</td>
  <td>47 COMMERCE WAY</td>
</tr>
<tr>
  <td>MAP 13 LOT 1</td>
  <td>1/3/2023</td>
  <td>$2,100,000</td>
  <td>12 MAIN ST</td>
</tr>
</table>`

func TestParseVisionSales(t *testing.T) {
	sales := ParseVisionSales(visionResultsPage, "Weymouth")
	require.Len(t, sales, 2) // the dateless row is dropped

	first := sales[0]
	assert.Equal(t, "45 COMMERCE WAY", first.Address)
	assert.Equal(t, "2024-06-15", first.SaleDate)
	require.NotNil(t, first.SalePrice)
	assert.Equal(t, 1250000, *first.SalePrice)
	assert.Equal(t, "10456", first.ParcelID)
	assert.Equal(t, "Vision Government Solutions - Weymouth Assessor", first.Source)
	assert.InDelta(t, 0.9, first.ConfidenceOr(0), 1e-9)

	// No pid link: parcel cell text is the ID.
	assert.Equal(t, "MAP 13 LOT 1", sales[1].ParcelID)
}

func TestParseVisionSalesEmptyPage(t *testing.T) {
	assert.Empty(t, ParseVisionSales("<html><body>No results found</body></html>", "Weymouth"))
}

const visionDetailPage = `
<table>
<tr><td>Building Area:</td><td>12,500</td></tr>
<tr><td>Land Area:</td><td>1.5 AC</td></tr>
<tr><td>Year Built:</td><td>1987</td></tr>
<tr><td>Property Use:</td><td>RETAIL STORE</td></tr>
<tr><td>Style:</td><td>Commercial Block</td></tr>
<tr><td>Grade:</td><td>Average</td></tr>
</table>`

func TestFillVisionDetails(t *testing.T) {
	sales := ParseVisionSales(visionResultsPage, "Weymouth")
	require.NotEmpty(t, sales)
	rec := &sales[0]

	FillVisionDetails(rec, visionDetailPage)

	require.NotNil(t, rec.BuildingSizeSqFt)
	assert.Equal(t, 12500, *rec.BuildingSizeSqFt)
	require.NotNil(t, rec.LotSizeSqFt)
	assert.Equal(t, 65340, *rec.LotSizeSqFt)
	require.NotNil(t, rec.YearBuilt)
	assert.Equal(t, 1987, *rec.YearBuilt)
	assert.Equal(t, "RETAIL STORE", rec.PropertyType)
	assert.Equal(t, "Style: Commercial Block; Condition: Average", rec.BriefDescription)
}

func TestFillVisionDetailsPartialPage(t *testing.T) {
	sales := ParseVisionSales(visionResultsPage, "Weymouth")
	require.NotEmpty(t, sales)
	rec := &sales[0]

	FillVisionDetails(rec, `<tr><td>Year Built:</td><td>1965</td></tr>`)

	assert.Nil(t, rec.BuildingSizeSqFt)
	require.NotNil(t, rec.YearBuilt)
	assert.Equal(t, 1965, *rec.YearBuilt)
	assert.Empty(t, rec.BriefDescription)
}

func TestVisionUseCode(t *testing.T) {
	code, ok := VisionUseCode("retail")
	require.True(t, ok)
	assert.Equal(t, "300", code)

	code, ok = VisionUseCode("Retail Store") // substring match
	require.True(t, ok)
	assert.Equal(t, "300", code)

	_, ok = VisionUseCode("hospital")
	assert.False(t, ok)
}
