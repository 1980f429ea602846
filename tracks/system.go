// tracks/system.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tracks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/airwaynet/routegraph/aviation"
)

// System identifies one of the oceanic track systems.
type System int

const (
	// NATs are the North Atlantic organized tracks.
	NATs System = iota
	// PACOTs are the Pacific organized tracks.
	PACOTs
	// AUSOTs are the Australian organized tracks.
	AUSOTs
)

// Systems lists all of the track systems.
var Systems = []System{NATs, PACOTs, AUSOTs}

func (s System) String() string {
	switch s {
	case NATs:
		return "NATs"
	case PACOTs:
		return "PACOTs"
	case AUSOTs:
		return "AUSOTs"
	default:
		return "System(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseSystem returns the System with the given name; the match is case
// insensitive and the trailing "s" is optional.
func ParseSystem(name string) (System, error) {
	n := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(name)), "S")
	for _, s := range Systems {
		if n == s.AirwayPrefix() {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownSystem)
}

// AirwayPrefix returns the prefix of the airway label given to track
// segments; the track's identifier is appended to it.
func (s System) AirwayPrefix() string {
	switch s {
	case NATs:
		return "NAT"
	case PACOTs:
		return "PACOT"
	case AUSOTs:
		return "AUSOT"
	default:
		panic("unhandled track system " + s.String())
	}
}

var (
	// 55/20, 5530/20: latitude north, longitude west.
	natSlashRe = regexp.MustCompile(`^(\d{2})(\d{2})?/(\d{2,3})$`)
	// 5520N: 55N 20W.
	natArincRe = regexp.MustCompile(`^(\d{2})(\d{2})N$`)
	// 40N160E, 3012S14500E, 55N020W.
	latLongRe = regexp.MustCompile(`^(\d{2})(\d{2})?([NS])(\d{2,3})(\d{2})?([EW])$`)
)

// ParseCoordinate interprets a token of a track's route as a latitude and
// longitude written in the form used by the track system. If it is one,
// a waypoint at that position with a canonical identifier of the form
// N55W020 (or N5530W020, with minutes) is returned.
func (s System) ParseCoordinate(tok string) (aviation.Waypoint, bool) {
	switch s {
	case NATs:
		if m := natSlashRe.FindStringSubmatch(tok); m != nil {
			return makeCoordinateWaypoint(m[1], m[2], "N", m[3], "", "W")
		}
		if m := natArincRe.FindStringSubmatch(tok); m != nil {
			return makeCoordinateWaypoint(m[1], "", "N", m[2], "", "W")
		}
		return parseLatLongToken(tok)

	case PACOTs, AUSOTs:
		return parseLatLongToken(tok)

	default:
		return aviation.Waypoint{}, false
	}
}

func parseLatLongToken(tok string) (aviation.Waypoint, bool) {
	m := latLongRe.FindStringSubmatch(tok)
	if m == nil {
		return aviation.Waypoint{}, false
	}
	return makeCoordinateWaypoint(m[1], m[2], m[3], m[4], m[5], m[6])
}

func makeCoordinateWaypoint(latDeg, latMin, ns, lonDeg, lonMin, ew string) (aviation.Waypoint, bool) {
	latD, latM, ok := parseDegreesMinutes(latDeg, latMin, 90)
	if !ok {
		return aviation.Waypoint{}, false
	}
	lonD, lonM, ok := parseDegreesMinutes(lonDeg, lonMin, 180)
	if !ok {
		return aviation.Waypoint{}, false
	}

	lat := float64(latD) + float64(latM)/60
	lon := float64(lonD) + float64(lonM)/60
	if ns == "S" {
		lat = -lat
	}
	if ew == "W" {
		lon = -lon
	}

	id := ns + fmt.Sprintf("%02d", latD)
	if latM != 0 {
		id += fmt.Sprintf("%02d", latM)
	}
	id += ew + fmt.Sprintf("%03d", lonD)
	if lonM != 0 {
		id += fmt.Sprintf("%02d", lonM)
	}

	return aviation.MakeWaypoint(id, lat, lon), true
}

func parseDegreesMinutes(deg, min string, limit int) (int, int, bool) {
	d, err := strconv.Atoi(deg)
	if err != nil {
		return 0, 0, false
	}
	m := 0
	if min != "" {
		if m, err = strconv.Atoi(min); err != nil || m >= 60 {
			return 0, 0, false
		}
	}
	if d > limit || (d == limit && m > 0) {
		return 0, 0, false
	}
	return d, m, true
}
