// aviation/ats.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/airwaynet/routegraph/log"
	"github.com/airwaynet/routegraph/util"

	"github.com/pkg/errors"
)

// Airway feeds (ats.txt) are line-oriented with comma-separated fields.
// Lines starting with 'A' give the name of the airway that the following
// segments belong to:
//
//	A,J75,...
//
// and lines starting with 'S' are segments:
//
//	S,id1,lat1,lon1,id2,lat2,lon2,heading1,heading2,distance
//
// Blank lines are skipped and lines that start with anything else are
// ignored.

const atsSegmentFields = 10

// FeedRecordError describes a record of an airway feed that couldn't be
// parsed. It matches ErrMalformedFeedRecord with errors.Is.
type FeedRecordError struct {
	Line int
	Text string
	Err  error
}

func (e *FeedRecordError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *FeedRecordError) Unwrap() []error {
	return []error{ErrMalformedFeedRecord, e.Err}
}

// LoadATS reads an airway feed from r and adds its waypoints and segments
// to g. Waypoints already in the graph are reused. Each segment adds a
// single directed edge. If an error is returned, g may have been partially
// updated and should be discarded.
func LoadATS(r io.Reader, g *WaypointGraph) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	airway := ""
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}

		switch line[0] {
		case 'A':
			fields := strings.Split(line, ",")
			if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
				return &FeedRecordError{Line: lineno, Text: line, Err: errors.New("missing airway identifier")}
			}
			airway = strings.TrimSpace(fields[1])

		case 'S':
			if airway == "" {
				return &FeedRecordError{Line: lineno, Text: line, Err: errors.New("segment before any airway record")}
			}
			if err := addATSSegment(g, airway, line); err != nil {
				return &FeedRecordError{Line: lineno, Text: line, Err: err}
			}
		}
	}

	return errors.Wrap(scanner.Err(), "reading airway feed")
}

func addATSSegment(g *WaypointGraph, airway string, line string) error {
	fields := strings.Split(line, ",")
	if len(fields) != atsSegmentFields {
		return errors.Errorf("expected %d fields, got %d", atsSegmentFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	w1, err := parseATSWaypoint(fields[1:4])
	if err != nil {
		return err
	}
	w2, err := parseATSWaypoint(fields[4:7])
	if err != nil {
		return err
	}

	// fields[7] and fields[8] are the headings between the two waypoints,
	// which we don't need.

	dist, err := strconv.ParseFloat(fields[9], 64)
	if err != nil {
		return errors.Wrap(err, "distance")
	} else if dist < 0 {
		return errors.Errorf("%g: negative distance", dist)
	}

	idx1, _ := g.FindOrAddWaypoint(w1)
	idx2, _ := g.FindOrAddWaypoint(w2)
	_, err = g.AddNeighbor(idx1, idx2, Neighbor{Airway: airway, Distance: dist})
	return err
}

// parseATSWaypoint parses the id, latitude, longitude triple of a segment
// record.
func parseATSWaypoint(f []string) (Waypoint, error) {
	if f[0] == "" {
		return Waypoint{}, errors.New("empty waypoint identifier")
	}

	lat, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return Waypoint{}, errors.Wrapf(err, "%s: latitude", f[0])
	}
	lon, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return Waypoint{}, errors.Wrapf(err, "%s: longitude", f[0])
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Waypoint{}, errors.Errorf("%s: position (%g, %g) out of range", f[0], lat, lon)
	}

	return MakeWaypoint(f[0], lat, lon), nil
}

// LoadATSFile loads the airway feed in the given file into g. Files with a
// .zst extension are decompressed.
func LoadATSFile(path string, g *WaypointGraph) error {
	r, err := util.OpenFile(path)
	if err != nil {
		return errors.Wrap(err, "opening airway feed")
	}
	defer r.Close()

	return errors.Wrap(LoadATS(r, g), path)
}

// LoadATSFiles builds a graph from a set of airway feeds. Each feed is
// loaded on its own first so that a feed that fails to load leaves nothing
// behind; such feeds, and feeds without any segments, are skipped and
// logged once all feeds have been read. An error is only returned if none
// of the feeds could be loaded.
func LoadATSFiles(paths []string, lg *log.Logger) (*WaypointGraph, error) {
	g := NewWaypointGraph()

	var e util.ErrorLogger
	loaded := 0
	for _, path := range paths {
		e.Push(path)

		scratch := NewWaypointGraph()
		if err := LoadATSFile(path, scratch); err != nil {
			e.Error(err)
		} else if scratch.EdgeCount() == 0 {
			e.ErrorString("no airway segments")
		} else {
			g.Merge(scratch)
			loaded++
			lg.Info("Loaded airway feed", slog.String("path", path),
				slog.Int("waypoints", scratch.Count()), slog.Int("edges", scratch.EdgeCount()))
		}

		e.Pop()
	}

	if e.HaveErrors() {
		e.LogErrors(lg)
	}
	if loaded == 0 && len(paths) > 0 {
		return nil, fmt.Errorf("%w:\n%s", ErrNoFeedsLoaded, e.String())
	}
	return g, nil
}
