package geodb

import (
	"math"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
)

// shapeArea computes the planar area of a parcel polygon in the layer's
// native units (square meters for the statewide parcel extracts). Returns 0
// for nil or non-polygon shapes.
func shapeArea(shape shp.Shape) float64 {
	poly, ok := shape.(*shp.Polygon)
	if !ok || poly == nil || poly.NumParts == 0 || len(poly.Points) == 0 {
		return 0
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < poly.NumParts; i++ {
		start := poly.Parts[i]
		end := int32(len(poly.Points))
		if i+1 < poly.NumParts {
			end = poly.Parts[i+1]
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, poly.Points[j].X, poly.Points[j].Y)
		}
		ring := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
		if err := mp.Push(ring); err != nil {
			continue
		}
	}
	// Ring orientation varies between extracts; area is reported unsigned.
	return math.Abs(mp.Area())
}
