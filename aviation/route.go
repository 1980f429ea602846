// aviation/route.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/airwaynet/routegraph/util"
)

// RouteNode is a waypoint along a route along with the airway and
// distance to the following waypoint. The last node of a route has no
// outgoing segment; its Airway is empty and Distance is zero.
type RouteNode struct {
	Waypoint
	Airway   string
	Distance float64
}

// Route is an ordered sequence of waypoints connected by airways.
type Route struct {
	nodes []RouteNode
}

func (r *Route) Count() int {
	return len(r.nodes)
}

// First returns the first waypoint of the route, which must be non-empty.
func (r *Route) First() Waypoint {
	return r.nodes[0].Waypoint
}

// Last returns the last waypoint of the route, which must be non-empty.
func (r *Route) Last() Waypoint {
	return r.nodes[len(r.nodes)-1].Waypoint
}

// Nodes returns a copy of the route's nodes.
func (r *Route) Nodes() []RouteNode {
	return slices.Clone(r.nodes)
}

func (r *Route) Clone() *Route {
	return &Route{nodes: slices.Clone(r.nodes)}
}

// TotalDistance returns the sum of the distances of the route's segments.
func (r *Route) TotalDistance() (float64, error) {
	if len(r.nodes) == 0 {
		return 0, ErrEmptyRoute
	}

	d := 0.
	for _, n := range r.nodes[:len(r.nodes)-1] {
		d += n.Distance
	}
	return d, nil
}

// AddFirstWaypoint adds w at the start of the route, connected to the
// previous first waypoint via the given airway and distance. If the route
// is empty, w is the only waypoint and the airway and distance are
// unused.
func (r *Route) AddFirstWaypoint(w Waypoint, airway string, dist float64) {
	n := RouteNode{Waypoint: w}
	if len(r.nodes) > 0 {
		n.Airway, n.Distance = airway, dist
	}
	r.nodes = slices.Insert(r.nodes, 0, n)
}

// AddFirstWaypointAuto is like AddFirstWaypoint but uses the great circle
// distance to the current first waypoint.
func (r *Route) AddFirstWaypointAuto(w Waypoint, airway string) {
	dist := 0.
	if len(r.nodes) > 0 {
		dist = w.DistanceFrom(r.First())
	}
	r.AddFirstWaypoint(w, airway, dist)
}

// AddLastWaypoint appends w to the route, connected from the current last
// waypoint via the given airway and distance.
func (r *Route) AddLastWaypoint(w Waypoint, airway string, dist float64) {
	if n := len(r.nodes); n > 0 {
		r.nodes[n-1].Airway = airway
		r.nodes[n-1].Distance = dist
	}
	r.nodes = append(r.nodes, RouteNode{Waypoint: w})
}

// AddLastWaypointAuto is like AddLastWaypoint but uses the great circle
// distance from the current last waypoint.
func (r *Route) AddLastWaypointAuto(w Waypoint, airway string) {
	dist := 0.
	if len(r.nodes) > 0 {
		dist = r.Last().DistanceFrom(w)
	}
	r.AddLastWaypoint(w, airway, dist)
}

// AddLastWaypointBare appends w without updating the segment that leads
// to it; the previous last waypoint keeps whatever airway and distance it
// had.
func (r *Route) AddLastWaypointBare(w Waypoint) {
	r.nodes = append(r.nodes, RouteNode{Waypoint: w})
}

// AppendRoute appends all of r2's nodes, connecting the current last
// waypoint to r2's first via the given airway and distance.
func (r *Route) AppendRoute(r2 *Route, airway string, dist float64) {
	if len(r2.nodes) == 0 {
		return
	}
	if n := len(r.nodes); n > 0 {
		r.nodes[n-1].Airway = airway
		r.nodes[n-1].Distance = dist
	}
	r.nodes = append(r.nodes, r2.nodes...)
}

// AppendRouteAuto is like AppendRoute but uses the great circle distance
// between the two routes' endpoints.
func (r *Route) AppendRouteAuto(r2 *Route, airway string) {
	if len(r2.nodes) == 0 {
		return
	}
	dist := 0.
	if len(r.nodes) > 0 {
		dist = r.Last().DistanceFrom(r2.First())
	}
	r.AppendRoute(r2, airway, dist)
}

// ConnectRoute appends r2 to the route; r2 must start at the route's last
// waypoint, which appears only once in the result.
func (r *Route) ConnectRoute(r2 *Route) error {
	if len(r2.nodes) == 0 {
		return nil
	}
	if n := len(r.nodes); n > 0 {
		if r.Last() != r2.First() {
			return fmt.Errorf("%s, %s: %w", r.Last().ID, r2.First().ID, ErrRouteJunction)
		}
		r.nodes = r.nodes[:n-1]
	}
	r.nodes = append(r.nodes, r2.nodes...)
	return nil
}

// Concat appends r2 to the route. If r2 starts where the route ends, the
// two are joined there; otherwise a segment along the given airway with
// the great circle distance is added between them.
func (r *Route) Concat(r2 *Route, airway string) {
	if len(r.nodes) > 0 && len(r2.nodes) > 0 && r.Last() == r2.First() {
		_ = r.ConnectRoute(r2)
	} else {
		r.AppendRouteAuto(r2, airway)
	}
}

// Equal reports whether the two routes visit the same waypoints via the
// same airways and distances.
func (r *Route) Equal(r2 *Route) bool {
	n := len(r.nodes)
	if n != len(r2.nodes) {
		return false
	}
	if n == 0 {
		return true
	}
	return slices.Equal(r.nodes[:n-1], r2.nodes[:n-1]) && r.Last() == r2.Last()
}

// Text returns the route in the usual flight plan form: airways
// interleaved with the waypoints where the airway changes. Consecutive
// segments along the same airway are collapsed so that only the waypoint
// where it is left appears; direct segments are never collapsed. The
// first and last waypoints are only included if requested.
func (r *Route) Text(showFirst, showLast bool) (string, error) {
	if len(r.nodes) < 2 {
		return "", ErrRouteTooShort
	}

	var tokens []string
	if showFirst {
		tokens = append(tokens, r.nodes[0].ID)
	}

	last := len(r.nodes) - 1
	i := 0
	for i+1 < last {
		if aw := r.nodes[i].Airway; aw != r.nodes[i+1].Airway || aw == AirwayDirect {
			tokens = append(tokens, aw, r.nodes[i+1].ID)
		}
		i++
	}
	tokens = append(tokens, r.nodes[i].Airway)

	if showLast {
		tokens = append(tokens, r.nodes[last].ID)
	}

	return strings.Join(tokens, " "), nil
}

// String returns the route text with both endpoints included. Routes with
// fewer than two waypoints are listed as their identifiers.
func (r *Route) String() string {
	if s, err := r.Text(true, true); err == nil {
		return s
	}
	return strings.Join(util.MapSlice(r.nodes, func(n RouteNode) string { return n.ID }), " ")
}

// RouteFromFixes builds a route through the waypoints with the given
// identifiers. The first identifier is resolved to the first waypoint
// that has it; each following one is resolved to a neighbor of the
// previous waypoint along an edge in the graph if there is one, and
// otherwise to the waypoint with that identifier closest to the previous
// one, connected directly.
func RouteFromFixes(g *WaypointGraph, ids []string) (*Route, error) {
	r := &Route{}
	prev := NotFound
	for _, id := range ids {
		if prev == NotFound {
			idxs := g.FindByID(id)
			if len(idxs) == 0 {
				return nil, fmt.Errorf("%s: %w", id, ErrUnknownWaypoint)
			}
			prev = idxs[0]
			r.AddLastWaypointBare(g.Waypoint(prev))
			continue
		}

		if e, ok := shortestEdgeTo(g, prev, id); ok {
			r.AddLastWaypoint(g.Waypoint(e.To), e.Airway, e.Distance)
			prev = e.To
			continue
		}

		next := g.FindClosest(id, g.Waypoint(prev).LatLong)
		if next == NotFound {
			return nil, fmt.Errorf("%s: %w", id, ErrUnknownWaypoint)
		}
		r.AddLastWaypointAuto(g.Waypoint(next), AirwayDirect)
		prev = next
	}

	return r, nil
}

func shortestEdgeTo(g *WaypointGraph, from int, id string) (Edge, bool) {
	var best Edge
	found := false
	for _, e := range g.Neighbors(from) {
		if g.Waypoint(e.To).ID == id && (!found || e.Distance < best.Distance) {
			best, found = e, true
		}
	}
	return best, found
}
