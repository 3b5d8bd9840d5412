package geo

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// minRingCoords is the smallest closed ring: a triangle plus the closing point.
const minRingCoords = 4

// BBox is a WGS84 bounding box.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Array returns the box in GeoJSON bbox order: [minLon, minLat, maxLon, maxLat].
func (b BBox) Array() [4]float64 {
	return [4]float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat}
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidatePolygon checks ring closure and coordinate ranges (x = lon, y = lat).
func ValidatePolygon(p *geom.Polygon) error {
	if p == nil || p.NumLinearRings() == 0 {
		return fmt.Errorf("polygon has no rings")
	}
	for i := range p.NumLinearRings() {
		ring := p.LinearRing(i)
		n := ring.NumCoords()
		if n < minRingCoords {
			return fmt.Errorf("ring %d has %d coordinates (min %d)", i, n, minRingCoords)
		}
		first, last := ring.Coord(0), ring.Coord(n-1)
		if first.X() != last.X() || first.Y() != last.Y() {
			return fmt.Errorf("ring %d is not closed", i)
		}
		for j := range n {
			c := ring.Coord(j)
			if !ValidateCoordinates(c.Y(), c.X()) {
				return fmt.Errorf("ring %d coordinate %d out of range: (%g, %g)", i, j, c.X(), c.Y())
			}
		}
	}
	return nil
}

// ParsePolygon decodes a GeoJSON geometry or feature holding a single Polygon.
func ParsePolygon(data []byte) (*geom.Polygon, error) {
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		var f geojson.Feature
		if ferr := json.Unmarshal(data, &f); ferr != nil || f.Geometry == nil {
			return nil, fmt.Errorf("decode geojson: %w", err)
		}
		g = f.Geometry
	}
	p, ok := g.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("geometry must be a Polygon, got %T", g)
	}
	if err := ValidatePolygon(p); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePolygon encodes a polygon as a GeoJSON geometry object.
func EncodePolygon(p *geom.Polygon) ([]byte, error) {
	data, err := geojson.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return data, nil
}

// BoundingBox returns the bounding box of the polygon's outer ring.
func BoundingBox(p *geom.Polygon) BBox {
	b := p.Bounds()
	return BBox{
		MinLon: b.Min(0),
		MinLat: b.Min(1),
		MaxLon: b.Max(0),
		MaxLat: b.Max(1),
	}
}

// NewPolygon builds a single-ring polygon from lon/lat pairs, closing the ring if needed.
func NewPolygon(lonLat [][2]float64) (*geom.Polygon, error) {
	coords := make([]geom.Coord, 0, len(lonLat)+1)
	for _, c := range lonLat {
		coords = append(coords, geom.Coord{c[0], c[1]})
	}
	if len(coords) > 0 {
		first, last := coords[0], coords[len(coords)-1]
		if first[0] != last[0] || first[1] != last[1] {
			coords = append(coords, geom.Coord{first[0], first[1]})
		}
	}
	p, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{coords})
	if err != nil {
		return nil, fmt.Errorf("build polygon: %w", err)
	}
	if err := ValidatePolygon(p); err != nil {
		return nil, err
	}
	return p, nil
}
