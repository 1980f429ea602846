// tracks/handler.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tracks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/airwaynet/routegraph/aviation"
	"github.com/airwaynet/routegraph/log"
	"github.com/airwaynet/routegraph/util"

	"github.com/brunoga/deep"
)

var (
	ErrTrackFetchFailure        = errors.New("Unable to get tracks")
	ErrInvalidOverlayTransition = errors.New("Invalid track overlay state transition")
	ErrUnknownSystem            = errors.New("Unknown track system")
)

// State is the stage a Handler has reached.
type State int

const (
	NotStarted State = iota
	Fetching
	Parsed
	Applied
	RolledBack
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Fetching:
		return "Fetching"
	case Parsed:
		return "Parsed"
	case Applied:
		return "Applied"
	case RolledBack:
		return "RolledBack"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// OverlayWaypoint is a waypoint that an overlay connected edges to. Owned
// waypoints were added to the graph by the overlay.
type OverlayWaypoint struct {
	Index int
	Owned bool
}

// OverlayEdge identifies an edge added by an overlay.
type OverlayEdge struct {
	From int
	ID   aviation.EdgeID
}

// Overlay records the changes made to a graph when a track message was
// added to it, which is everything needed to take them back out.
type Overlay struct {
	Waypoints []OverlayWaypoint
	Edges     []OverlayEdge
	// Route tokens that weren't coordinates and didn't match any waypoint
	// in the graph; tracks are broken at these.
	Unresolved []string
}

// Handler fetches the tracks of a single track system and adds them to a
// waypoint graph, keeping what's needed to remove them again.
//
// Fetching may happen asynchronously but graph updates happen on the
// caller's goroutine; Handler doesn't lock the graph.
type Handler struct {
	System System

	graph *aviation.WaypointGraph
	lg    *log.Logger

	mu      sync.Mutex
	state   State
	message *Message
	overlay *Overlay
}

// NewHandler returns a Handler for the given system that will update g.
// lg may be nil.
func NewHandler(sys System, g *aviation.WaypointGraph, lg *log.Logger) *Handler {
	return &Handler{
		System: sys,
		graph:  g,
		lg:     lg.With(slog.String("system", sys.String())),
	}
}

func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// StartedGettingTracks reports whether tracks are being or have been
// fetched.
func (h *Handler) StartedGettingTracks() bool {
	return h.State() != NotStarted
}

// RawData returns a copy of the fetched message, or nil if there isn't
// one.
func (h *Handler) RawData() *Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.message == nil {
		return nil
	}
	return deep.MustCopy(h.message)
}

// Overlay returns the record of the changes made by AddToWaypointList, or
// nil if the tracks aren't currently applied.
func (h *Handler) Overlay() *Overlay {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.overlay
}

func (h *Handler) transitionError(op string) error {
	return fmt.Errorf("%s: %s from %s: %w", h.System, op, h.state, ErrInvalidOverlayTransition)
}

func (h *Handler) beginFetch() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != NotStarted {
		return h.transitionError("fetch")
	}
	h.state = Fetching
	return nil
}

// GetAllTracks fetches and parses the tracks, returning when done.
func (h *Handler) GetAllTracks(p Provider) error {
	if err := h.beginFetch(); err != nil {
		return err
	}
	return h.fetch(context.Background(), p)
}

// GetAllTracksAsync fetches and parses the tracks in a separate goroutine.
// The result is sent on the returned chan, which is then closed. If ctx is
// canceled before the tracks are parsed, the handler goes back to
// NotStarted and ctx's error is returned.
func (h *Handler) GetAllTracksAsync(ctx context.Context, p Provider) <-chan error {
	ch := make(chan error, 1)
	if err := h.beginFetch(); err != nil {
		ch <- err
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)
		ch <- h.fetch(ctx, p)
	}()
	return ch
}

func (h *Handler) fetch(ctx context.Context, p Provider) error {
	start := time.Now()
	msg, err := func() (*Message, error) {
		r, err := p.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		defer r.Close()

		return ParseMessage(contextReader{ctx: ctx, r: r})
	}()

	h.mu.Lock()
	defer h.mu.Unlock()

	if cerr := ctx.Err(); cerr != nil {
		h.state = NotStarted
		h.lg.Info("Track fetch canceled")
		return cerr
	}
	if err == nil && msg.System != h.System {
		err = fmt.Errorf("got %s tracks", msg.System)
	}
	if err != nil {
		// Don't keep serving a message that couldn't be used.
		if inv, ok := p.(interface{ Invalidate() }); ok {
			inv.Invalidate()
		}
		h.state = Failed
		h.lg.Warn("Track fetch failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w: %w", h.System, ErrTrackFetchFailure, err)
	}

	h.message = msg
	h.state = Parsed
	h.lg.Info("Fetched tracks", slog.Int("tracks", msg.TrackCount()),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

// AddToWaypointList adds the parsed tracks to the graph if they haven't
// been added already. Coordinate tokens become waypoints, added to the
// graph if they aren't there yet, and named tokens are matched to the
// graph waypoint with that identifier closest to the track. Successive
// waypoints of each track are joined with an edge labeled with the
// system's airway prefix and the track's identifier.
func (h *Handler) AddToWaypointList() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case Applied:
		return nil
	case Parsed:
	default:
		return h.transitionError("AddToWaypointList")
	}

	ov := &Overlay{}
	seen := make(map[int]struct{})
	touch := func(idx int, added bool) {
		if _, ok := seen[idx]; !ok {
			seen[idx] = struct{}{}
			ov.Waypoints = append(ov.Waypoints, OverlayWaypoint{Index: idx, Owned: added})
		}
	}

	for _, sec := range h.message.Sections() {
		for _, trk := range sec.Tracks {
			h.addTrack(trk, ov, touch)
		}
	}

	h.overlay = ov
	h.state = Applied
	h.lg.Info("Added tracks to graph", slog.Int("waypoints", len(ov.Waypoints)),
		slog.Int("edges", len(ov.Edges)), slog.Any("unresolved", ov.Unresolved))

	return nil
}

func (h *Handler) addTrack(trk Track, ov *Overlay, touch func(int, bool)) {
	g := h.graph
	airway := h.System.AirwayPrefix() + trk.Ident

	// Named fixes at the start of a track are resolved relative to its
	// first coordinate.
	var ref aviation.Waypoint
	haveRef := false
	for _, tok := range trk.Route {
		if w, ok := h.System.ParseCoordinate(tok); ok {
			ref, haveRef = w, true
			break
		}
	}

	prev := aviation.NotFound
	for _, tok := range trk.Route {
		idx := aviation.NotFound
		if w, ok := h.System.ParseCoordinate(tok); ok {
			var added bool
			idx, added = g.FindOrAddWaypoint(w)
			touch(idx, added)
		} else {
			switch {
			case prev != aviation.NotFound:
				idx = g.FindClosest(tok, g.Waypoint(prev).LatLong)
			case haveRef:
				idx = g.FindClosest(tok, ref.LatLong)
			default:
				if ids := g.FindByID(tok); len(ids) > 0 {
					idx = ids[0]
				}
			}
			if idx == aviation.NotFound {
				h.lg.Debugf("%s: no waypoint %s; breaking track", airway, tok)
				ov.Unresolved = append(ov.Unresolved, tok)
				prev = aviation.NotFound
				continue
			}
			touch(idx, false)
		}

		if prev != aviation.NotFound && prev != idx {
			dist := g.Waypoint(prev).DistanceFrom(g.Waypoint(idx))
			// Both indices are live; the graph has just returned them.
			id, _ := g.AddNeighbor(prev, idx, aviation.Neighbor{Airway: airway, Distance: dist})
			ov.Edges = append(ov.Edges, OverlayEdge{From: prev, ID: id})
		}
		prev = idx
	}
}

// UndoEdit removes the tracks added by AddToWaypointList from the graph.
// Waypoints the tracks added are removed; one that something else has
// since connected to is handed to the graph, which removes it once those
// edges are gone. If the tracks were never added, it does nothing.
func (h *Handler) UndoEdit() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case NotStarted, Parsed:
		return nil
	case Applied:
	default:
		return h.transitionError("UndoEdit")
	}

	g := h.graph
	ov := h.overlay
	for i := len(ov.Edges) - 1; i >= 0; i-- {
		e := ov.Edges[i]
		if !g.RemoveEdge(e.From, e.ID) {
			h.lg.Warnf("%d: edge %d already removed", e.From, e.ID)
		}
	}

	released := 0
	for i := len(ov.Waypoints) - 1; i >= 0; i-- {
		if w := ov.Waypoints[i]; w.Owned && !g.ReleaseWaypoint(w.Index) {
			released++
		}
	}

	h.overlay = nil
	h.state = RolledBack
	h.lg.Info("Removed tracks from graph", slog.Int("edges", len(ov.Edges)),
		slog.Int("released_waypoints", released))

	return nil
}

func cachePath(name string) string {
	return filepath.Join("tracks", name+".msgpack.zst")
}

// SaveCache stores the fetched message in the cache under the given name.
func (h *Handler) SaveCache(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.message == nil {
		return h.transitionError("SaveCache")
	}
	return util.CacheStoreObject(cachePath(name), h.message)
}

// LoadCache loads a message previously stored with SaveCache, leaving the
// handler in the Parsed state. It returns the time the message was
// stored.
func (h *Handler) LoadCache(name string) (time.Time, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != NotStarted {
		return time.Time{}, h.transitionError("LoadCache")
	}

	var msg Message
	t, err := util.CacheRetrieveObject(cachePath(name), &msg)
	if err != nil {
		return time.Time{}, err
	}
	if msg.System != h.System {
		return time.Time{}, fmt.Errorf("%s: cached message has %s tracks: %w", name, msg.System, ErrUnknownSystem)
	}

	h.message = &msg
	h.state = Parsed
	return t, nil
}
