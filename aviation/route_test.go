// aviation/route_test.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"encoding/json"
	"errors"
	gomath "math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	wpA = MakeWaypoint("A", 40, -70)
	wpB = MakeWaypoint("B", 41, -60)
	wpC = MakeWaypoint("C", 42, -50)
	wpD = MakeWaypoint("D", 43, -40)
	wpE = MakeWaypoint("E", 44, -30)
)

func makeRoute(wps []Waypoint, airways []string) *Route {
	r := &Route{}
	r.AddLastWaypointBare(wps[0])
	for i, w := range wps[1:] {
		r.AddLastWaypoint(w, airways[i], float64(10*(i+1)))
	}
	return r
}

func TestRouteText(t *testing.T) {
	for _, tc := range []struct {
		name      string
		wps       []Waypoint
		airways   []string
		first     bool
		last      bool
		expected  string
		expectErr bool
	}{
		{
			name:     "collapse airway",
			wps:      []Waypoint{wpA, wpB, wpC, wpD},
			airways:  []string{"J1", "J1", "J2"},
			expected: "J1 C J2",
		},
		{
			name:     "collapse airway with endpoints",
			wps:      []Waypoint{wpA, wpB, wpC, wpD},
			airways:  []string{"J1", "J1", "J2"},
			first:    true,
			last:     true,
			expected: "A J1 C J2 D",
		},
		{
			name:     "direct segments kept",
			wps:      []Waypoint{wpA, wpB, wpC, wpD, wpE},
			airways:  []string{"J1", "J1", "DCT", "DCT"},
			first:    true,
			last:     true,
			expected: "A J1 C DCT D DCT E",
		},
		{
			name:     "all direct",
			wps:      []Waypoint{wpA, wpB, wpC},
			airways:  []string{"DCT", "DCT"},
			first:    true,
			expected: "A DCT B DCT",
		},
		{
			name:     "single segment",
			wps:      []Waypoint{wpA, wpB},
			airways:  []string{"UL9"},
			last:     true,
			expected: "UL9 B",
		},
		{
			name:     "single airway",
			wps:      []Waypoint{wpA, wpB, wpC, wpD},
			airways:  []string{"J1", "J1", "J1"},
			first:    true,
			last:     true,
			expected: "A J1 D",
		},
		{
			name:      "too short",
			wps:       []Waypoint{wpA},
			expectErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := makeRoute(tc.wps, tc.airways)
			s, err := r.Text(tc.first, tc.last)
			if tc.expectErr {
				if !errors.Is(err, ErrRouteTooShort) {
					t.Errorf("expected ErrRouteTooShort, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s != tc.expected {
				t.Errorf("Text(%v, %v) = %q, expected %q", tc.first, tc.last, s, tc.expected)
			}
		})
	}
}

func TestRouteTotalDistance(t *testing.T) {
	var r Route
	if _, err := r.TotalDistance(); !errors.Is(err, ErrEmptyRoute) {
		t.Errorf("expected ErrEmptyRoute, got %v", err)
	}

	r.AddLastWaypointBare(wpA)
	if d, err := r.TotalDistance(); err != nil || d != 0 {
		t.Errorf("single waypoint route distance %f, %v", d, err)
	}

	r.AddLastWaypoint(wpB, "J1", 12.5)
	r.AddLastWaypoint(wpC, "J1", 7.5)
	r.AddLastWaypointAuto(wpD, AirwayDirect)
	d, err := r.TotalDistance()
	if err != nil {
		t.Fatal(err)
	}
	if expected := 20 + wpC.DistanceFrom(wpD); gomath.Abs(d-expected) > 1e-9 {
		t.Errorf("TotalDistance() = %f, expected %f", d, expected)
	}

	sum := 0.
	for _, n := range r.Nodes() {
		sum += n.Distance
	}
	if gomath.Abs(sum-d) > 1e-9 {
		t.Errorf("segment sum %f != total %f", sum, d)
	}
	if n := r.Nodes()[r.Count()-1]; n.Airway != "" || n.Distance != 0 {
		t.Errorf("last node has an outgoing segment %+v", n)
	}
}

func TestRouteAddFirst(t *testing.T) {
	var r Route
	r.AddFirstWaypointAuto(wpC, "J1")
	r.AddFirstWaypoint(wpB, "J1", 100)
	r.AddFirstWaypointAuto(wpA, "J2")

	if r.Count() != 3 || r.First() != wpA || r.Last() != wpC {
		t.Fatalf("unexpected route %s", r.String())
	}
	n := r.Nodes()
	if n[0].Airway != "J2" || gomath.Abs(n[0].Distance-wpA.DistanceFrom(wpB)) > 1e-9 {
		t.Errorf("unexpected first node %+v", n[0])
	}
	if n[1].Airway != "J1" || n[1].Distance != 100 {
		t.Errorf("unexpected second node %+v", n[1])
	}
	if n[2].Airway != "" || n[2].Distance != 0 {
		t.Errorf("unexpected last node %+v", n[2])
	}
	if s := r.String(); s != "A J2 B J1 C" {
		t.Errorf("String() = %q", s)
	}
}

func TestRouteAppend(t *testing.T) {
	r := makeRoute([]Waypoint{wpA, wpB}, []string{"J1"})
	r2 := makeRoute([]Waypoint{wpD, wpE}, []string{"J2"})

	r.AppendRoute(r2, AirwayDirect, 500)
	if s := r.String(); s != "A J1 B DCT D J2 E" {
		t.Errorf("String() = %q", s)
	}
	if d, _ := r.TotalDistance(); d != 10+500+10 {
		t.Errorf("TotalDistance() = %f", d)
	}

	r3 := makeRoute([]Waypoint{wpA, wpB}, []string{"J1"})
	r3.AppendRouteAuto(makeRoute([]Waypoint{wpD}, nil), "NATA")
	if d, _ := r3.TotalDistance(); gomath.Abs(d-(10+wpB.DistanceFrom(wpD))) > 1e-9 {
		t.Errorf("TotalDistance() = %f", d)
	}

	// Appending an empty route changes nothing.
	r3.AppendRouteAuto(&Route{}, "J9")
	if n := r3.Nodes(); n[len(n)-1].Airway != "" {
		t.Errorf("empty append modified the last node %+v", n[len(n)-1])
	}
}

func TestRouteConnect(t *testing.T) {
	r := makeRoute([]Waypoint{wpA, wpB, wpC}, []string{"J1", "J1"})
	r2 := makeRoute([]Waypoint{wpC, wpD, wpE}, []string{"J2", "J3"})

	// Nodes held from before the connection keep their values.
	before := r.Nodes()
	before[0].Airway = "Q1"
	if err := r.ConnectRoute(r2); err != nil {
		t.Fatal(err)
	}
	if n := before[2]; n.Waypoint != wpC || n.Airway != "" || n.Distance != 0 {
		t.Errorf("earlier Nodes() result modified: %+v", n)
	}
	if r.Nodes()[0].Airway != "J1" {
		t.Errorf("modifying the Nodes() result changed the route")
	}
	if r.Count() != 5 {
		t.Errorf("junction not collapsed: %s", r.String())
	}
	if s := r.String(); s != "A J1 C J2 D J3 E" {
		t.Errorf("String() = %q", s)
	}

	r3 := makeRoute([]Waypoint{wpA, wpB}, []string{"J1"})
	if err := r3.ConnectRoute(makeRoute([]Waypoint{wpD, wpE}, []string{"J2"})); !errors.Is(err, ErrRouteJunction) {
		t.Errorf("expected ErrRouteJunction, got %v", err)
	}
	if r3.Count() != 2 {
		t.Errorf("failed connect modified the route: %s", r3.String())
	}

	var empty Route
	if err := empty.ConnectRoute(r2); err != nil || !empty.Equal(r2) {
		t.Errorf("connecting to an empty route: %v, %s", err, empty.String())
	}
}

func TestRouteConcat(t *testing.T) {
	r := makeRoute([]Waypoint{wpA, wpB}, []string{"J1"})
	r.Concat(makeRoute([]Waypoint{wpB, wpC}, []string{"J2"}), AirwayDirect)
	if s := r.String(); s != "A J1 B J2 C" {
		t.Errorf("String() after junction concat = %q", s)
	}

	r.Concat(makeRoute([]Waypoint{wpE}, nil), AirwayDirect)
	if s := r.String(); s != "A J1 B J2 C DCT E" {
		t.Errorf("String() after direct concat = %q", s)
	}
	if d, _ := r.TotalDistance(); gomath.Abs(d-(10+10+wpC.DistanceFrom(wpE))) > 1e-9 {
		t.Errorf("TotalDistance() = %f", d)
	}
}

func TestRouteEqual(t *testing.T) {
	r1 := makeRoute([]Waypoint{wpA, wpB, wpC}, []string{"J1", "J2"})
	r2 := r1.Clone()
	if !r1.Equal(r2) {
		t.Errorf("clone not equal")
	}

	r2.AddLastWaypointBare(wpD)
	if r1.Equal(r2) {
		t.Errorf("routes of different lengths are equal")
	}

	r3 := makeRoute([]Waypoint{wpA, wpB, wpC}, []string{"J1", "J3"})
	if r1.Equal(r3) {
		t.Errorf("routes with different airways are equal")
	}

	// The last node's outgoing segment doesn't matter.
	r4 := makeRoute([]Waypoint{wpA, wpB}, []string{"J1"})
	r5 := makeRoute([]Waypoint{wpA, wpB}, []string{"J1"})
	r5.nodes[1].Airway = "stale"
	if !r4.Equal(r5) {
		t.Errorf("routes differing only in trailing segment are not equal")
	}
}

func TestRouteFromFixes(t *testing.T) {
	feed := "A,J1\n" +
		"S,AAA,40,-70,BBB,41,-60,0,0,450\n" +
		"S,BBB,41,-60,CCC,42,-50,0,0,440\n" +
		"A,J2\n" +
		"S,BBB,41,-60,CCC,42,-50,0,0,430\n"
	g := NewWaypointGraph()
	if err := LoadATS(strings.NewReader(feed), g); err != nil {
		t.Fatal(err)
	}
	g.AddWaypoint(MakeWaypoint("DDD", 43, -40))
	g.AddWaypoint(MakeWaypoint("DDD", -43, 140))

	r, err := RouteFromFixes(g, []string{"AAA", "BBB", "CCC", "DDD"})
	if err != nil {
		t.Fatal(err)
	}
	if s := r.String(); s != "AAA J1 BBB J2 CCC DCT DDD" {
		t.Errorf("String() = %q", s)
	}
	if r.Last().Lat != 43 {
		t.Errorf("expected the closest DDD, got %s", r.Last())
	}
	d, _ := r.TotalDistance()
	ccc := MakeWaypoint("CCC", 42, -50)
	if expected := 450 + 430 + ccc.DistanceFrom(r.Last()); gomath.Abs(d-expected) > 1e-9 {
		t.Errorf("TotalDistance() = %f, expected %f", d, expected)
	}

	if _, err := RouteFromFixes(g, []string{"AAA", "ZZZ"}); !errors.Is(err, ErrUnknownWaypoint) {
		t.Errorf("expected ErrUnknownWaypoint, got %v", err)
	}
}

func TestRouteGeoJSON(t *testing.T) {
	r := makeRoute([]Waypoint{wpA, wpB, wpC}, []string{"J1", "J2"})
	fc := r.GeoJSON(8)

	if len(fc.Features) != 4 {
		t.Fatalf("expected 4 features, got %d", len(fc.Features))
	}
	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("expected LineString, got %T", fc.Features[0].Geometry)
	}
	if len(ls) < 3 {
		t.Errorf("line has only %d points", len(ls))
	}
	if ls[0] != (orb.Point{wpA.Lon, wpA.Lat}) {
		t.Errorf("line starts at %v", ls[0])
	}
	if end := ls[len(ls)-1]; gomath.Abs(end.Lon()-wpC.Lon) > 1e-9 || gomath.Abs(end.Lat()-wpC.Lat) > 1e-9 {
		t.Errorf("line ends at %v", end)
	}
	if fc.Features[0].Properties["route"] != "A J1 B J2 C" {
		t.Errorf("route property %v", fc.Features[0].Properties["route"])
	}
	if fc.Features[2].Properties["id"] != "B" || fc.Features[2].Properties["airway"] != "J2" {
		t.Errorf("unexpected point properties %v", fc.Features[2].Properties)
	}

	b, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	fc2, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc2.Features) != len(fc.Features) {
		t.Errorf("round trip lost features")
	}
}

func TestRouteGeoJSONAntimeridian(t *testing.T) {
	r := makeRoute([]Waypoint{MakeWaypoint("W", 30, 170), MakeWaypoint("E", 30, -170)}, []string{"R580"})
	fc := r.GeoJSON(4)
	mls, ok := fc.Features[0].Geometry.(orb.MultiLineString)
	if !ok {
		t.Fatalf("expected MultiLineString, got %T", fc.Features[0].Geometry)
	}
	if len(mls) != 2 {
		t.Errorf("expected 2 lines, got %d", len(mls))
	}
	for _, ls := range mls {
		for _, p := range ls[1:] {
			if gomath.Abs(p.Lon()-ls[0].Lon()) > 180 {
				t.Errorf("line %v crosses the antimeridian", ls)
			}
		}
	}
}
