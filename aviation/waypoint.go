// aviation/waypoint.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"

	"github.com/airwaynet/routegraph/math"
)

// AirwayDirect is the airway label used for direct (off-airway) segments.
const AirwayDirect = "DCT"

// Waypoint is a named position. Identifiers are not unique: fixes in
// different parts of the world may share a name, so two waypoints are only
// the same if both the identifier and the position match.
type Waypoint struct {
	ID string
	math.LatLong
}

func MakeWaypoint(id string, lat, lon float64) Waypoint {
	return Waypoint{ID: id, LatLong: math.LatLong{Lat: lat, Lon: lon}}
}

func (w Waypoint) String() string {
	return fmt.Sprintf("%s %s", w.ID, w.LatLong)
}

// DistanceFrom returns the great circle distance between the two waypoints
// in nautical miles.
func (w Waypoint) DistanceFrom(w2 Waypoint) float64 {
	return math.GreatCircleDistance(w.LatLong, w2.LatLong)
}

// Neighbor is the payload of a directed edge in the waypoint graph: the
// airway it follows and its length in nautical miles.
type Neighbor struct {
	Airway   string
	Distance float64
}
