// aviation/graph.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/airwaynet/routegraph/math"
)

// NotFound is returned by the lookup methods when there is no matching
// waypoint in the graph.
const NotFound = -1

// EdgeID identifies a single edge; ids are unique over the lifetime of a
// WaypointGraph and are never reused.
type EdgeID int64

// Edge is a directed connection from a waypoint to the waypoint with index
// To.
type Edge struct {
	ID EdgeID
	To int
	Neighbor
}

// WaypointGraph stores waypoints in an arena indexed by stable integer
// handles along with a per-waypoint adjacency list. Handles are handed
// out in increasing order and are never reused; removed waypoints and
// edges are tombstoned rather than compacted so that previously-returned
// indices stay valid.
//
// WaypointGraph does no locking of its own; it assumes a single writer.
type WaypointGraph struct {
	waypoints []Waypoint
	removed   []bool
	edges     [][]Edge
	inDegree  []int
	// Released waypoints are removed as soon as they have no edges.
	released []bool

	index map[Waypoint]int
	byID  map[string][]int

	nextEdge EdgeID
	nLive    int
	nEdges   int
}

func NewWaypointGraph() *WaypointGraph {
	return &WaypointGraph{
		index: make(map[Waypoint]int),
		byID:  make(map[string][]int),
	}
}

// AddWaypoint appends w to the graph and returns its index. It does not
// check for duplicates; callers that want deduplication should call
// FindByWaypoint first.
func (g *WaypointGraph) AddWaypoint(w Waypoint) int {
	idx := len(g.waypoints)
	g.waypoints = append(g.waypoints, w)
	g.removed = append(g.removed, false)
	g.edges = append(g.edges, nil)
	g.inDegree = append(g.inDegree, 0)
	g.released = append(g.released, false)

	if _, ok := g.index[w]; !ok {
		g.index[w] = idx
	}
	g.byID[w.ID] = append(g.byID[w.ID], idx)
	g.nLive++

	return idx
}

// FindByWaypoint returns the index of the live waypoint with the same
// identifier and position as w, or NotFound.
func (g *WaypointGraph) FindByWaypoint(w Waypoint) int {
	if idx, ok := g.index[w]; ok {
		return idx
	}
	return NotFound
}

// FindOrAddWaypoint returns the index of w, adding it if it isn't already
// present. The second return value reports whether it was added.
func (g *WaypointGraph) FindOrAddWaypoint(w Waypoint) (int, bool) {
	if idx := g.FindByWaypoint(w); idx != NotFound {
		return idx, false
	}
	return g.AddWaypoint(w), true
}

// FindByID returns the indices of all live waypoints with the given
// identifier, in insertion order.
func (g *WaypointGraph) FindByID(id string) []int {
	return slices.Clone(g.byID[id])
}

// IDs returns an iterator over the distinct identifiers of the live
// waypoints, in no particular order.
func (g *WaypointGraph) IDs() iter.Seq[string] {
	return maps.Keys(g.byID)
}

// FindClosest returns the index of the live waypoint with the given
// identifier that is closest to the given position, or NotFound.
func (g *WaypointGraph) FindClosest(id string, near math.LatLong) int {
	best, bestDist := NotFound, 0.
	for _, idx := range g.byID[id] {
		if d := math.GreatCircleDistance(g.waypoints[idx].LatLong, near); best == NotFound || d < bestDist {
			best, bestDist = idx, d
		}
	}
	return best
}

// AddNeighbor adds a directed edge from the waypoint at index from to the
// one at index to. No reciprocal edge is added.
func (g *WaypointGraph) AddNeighbor(from, to int, n Neighbor) (EdgeID, error) {
	if !g.IsLive(from) {
		return 0, fmt.Errorf("%d: %w", from, ErrInvalidIndex)
	} else if !g.IsLive(to) {
		return 0, fmt.Errorf("%d: %w", to, ErrInvalidIndex)
	}

	id := g.nextEdge
	g.nextEdge++

	g.edges[from] = append(g.edges[from], Edge{ID: id, To: to, Neighbor: n})
	g.inDegree[to]++
	g.nEdges++

	return id, nil
}

// RemoveEdge removes the edge with the given id from the adjacency list of
// from, preserving the order of the remaining edges. It returns false if
// there is no such edge.
func (g *WaypointGraph) RemoveEdge(from int, id EdgeID) bool {
	if from < 0 || from >= len(g.edges) {
		return false
	}

	i := slices.IndexFunc(g.edges[from], func(e Edge) bool { return e.ID == id })
	if i == -1 {
		return false
	}

	to := g.edges[from][i].To
	g.inDegree[to]--
	g.edges[from] = slices.Delete(g.edges[from], i, i+1)
	g.nEdges--

	for _, idx := range []int{from, to} {
		if g.released[idx] {
			g.RemoveWaypoint(idx)
		}
	}
	return true
}

// RemoveWaypoint tombstones the waypoint at index i, provided that no
// edges start or end there. It returns whether the waypoint was removed.
// The index is never reissued.
func (g *WaypointGraph) RemoveWaypoint(i int) bool {
	if !g.IsLive(i) || len(g.edges[i]) > 0 || g.inDegree[i] > 0 {
		return false
	}

	w := g.waypoints[i]
	g.removed[i] = true
	g.released[i] = false
	g.edges[i] = nil
	g.nLive--

	g.byID[w.ID] = slices.DeleteFunc(g.byID[w.ID], func(idx int) bool { return idx == i })
	if len(g.byID[w.ID]) == 0 {
		delete(g.byID, w.ID)
	}

	if g.index[w] == i {
		delete(g.index, w)
		// An identical waypoint may have been added separately; it now
		// becomes the one that lookups resolve to.
		for _, idx := range g.byID[w.ID] {
			if g.waypoints[idx] == w {
				g.index[w] = idx
				break
			}
		}
	}

	return true
}

// ReleaseWaypoint removes the waypoint at index i if it has no edges, as
// RemoveWaypoint does. Otherwise it is left in place and removed when its
// last edge is removed. It returns whether the waypoint was removed
// immediately.
func (g *WaypointGraph) ReleaseWaypoint(i int) bool {
	if g.RemoveWaypoint(i) {
		return true
	}
	if g.IsLive(i) {
		g.released[i] = true
	}
	return false
}

// IsLive reports whether i is a valid index of a waypoint that hasn't
// been removed.
func (g *WaypointGraph) IsLive(i int) bool {
	return i >= 0 && i < len(g.waypoints) && !g.removed[i]
}

// Waypoint returns the waypoint at index i. Removed waypoints are still
// returned, since their indices remain valid handles.
func (g *WaypointGraph) Waypoint(i int) Waypoint {
	return g.waypoints[i]
}

// Neighbors returns the edges leaving the waypoint at index i. The
// returned slice must not be modified.
func (g *WaypointGraph) Neighbors(i int) []Edge {
	if i < 0 || i >= len(g.edges) {
		return nil
	}
	return g.edges[i]
}

// InDegree returns the number of edges that end at index i.
func (g *WaypointGraph) InDegree(i int) int {
	return g.inDegree[i]
}

// Count returns the number of live waypoints.
func (g *WaypointGraph) Count() int {
	return g.nLive
}

// Len returns the number of indices that have been issued, including
// those of removed waypoints.
func (g *WaypointGraph) Len() int {
	return len(g.waypoints)
}

// EdgeCount returns the number of edges in the graph.
func (g *WaypointGraph) EdgeCount() int {
	return g.nEdges
}

// Merge adds the waypoints and edges of other to g, reusing existing
// waypoints where the identifier and position match.
func (g *WaypointGraph) Merge(other *WaypointGraph) {
	remap := make([]int, other.Len())
	for i := range remap {
		remap[i] = NotFound
		if other.IsLive(i) {
			remap[i], _ = g.FindOrAddWaypoint(other.waypoints[i])
		}
	}

	for from, edges := range other.edges {
		for _, e := range edges {
			// Both ends were remapped to live waypoints above.
			_, _ = g.AddNeighbor(remap[from], remap[e.To], e.Neighbor)
		}
	}
}
