// aviation/geojson.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	gomath "math"

	"github.com/airwaynet/routegraph/math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

// Sampled paths are simplified down to this tolerance, in degrees.
const geojsonSimplifyThreshold = 1e-4

// GeoJSON returns a feature collection with a line feature for the route's
// path, with each segment sampled at segmentPoints intermediate points
// along its great circle, and a point feature for each waypoint. Paths
// that cross the antimeridian are split there so that the result is a
// MultiLineString.
func (r *Route) GeoJSON(segmentPoints int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(r.nodes) == 0 {
		return fc
	}

	var lines orb.MultiLineString
	var cur orb.LineString
	addPoint := func(ll math.LatLong) {
		p := orb.Point{ll.Lon, ll.Lat}
		if n := len(cur); n > 0 && gomath.Abs(p.Lon()-cur[n-1].Lon()) > 180 {
			lines = append(lines, cur)
			cur = nil
		}
		cur = append(cur, p)
	}

	addPoint(r.nodes[0].LatLong)
	for i := 1; i < len(r.nodes); i++ {
		pts := math.GreatCirclePoints(r.nodes[i-1].LatLong, r.nodes[i].LatLong, segmentPoints)
		for _, ll := range pts[1:] {
			addPoint(ll)
		}
	}
	lines = append(lines, cur)

	for i, ls := range lines {
		if len(ls) > 2 {
			lines[i] = simplify.DouglasPeucker(geojsonSimplifyThreshold).LineString(ls)
		}
	}

	var path *geojson.Feature
	if len(lines) == 1 {
		path = geojson.NewFeature(lines[0])
	} else {
		path = geojson.NewFeature(lines)
	}
	path.Properties["route"] = r.String()
	if d, err := r.TotalDistance(); err == nil {
		path.Properties["distance"] = d
	}
	fc.Append(path)

	for i, n := range r.nodes {
		f := geojson.NewFeature(orb.Point{n.Lon, n.Lat})
		f.Properties["id"] = n.ID
		f.Properties["index"] = i
		if i+1 < len(r.nodes) {
			f.Properties["airway"] = n.Airway
			f.Properties["distance"] = n.Distance
		}
		fc.Append(f)
	}

	return fc
}
