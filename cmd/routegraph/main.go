// cmd/routegraph/main.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// routegraph loads airway feeds into a waypoint graph, optionally applies
// an oceanic track message to it, and then prints (and optionally
// exports) a route through the graph.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	av "github.com/airwaynet/routegraph/aviation"
	"github.com/airwaynet/routegraph/log"
	"github.com/airwaynet/routegraph/tracks"
	"github.com/airwaynet/routegraph/util"

	"github.com/goforj/godump"
)

var configFile = flag.String("config", "", "JSON configuration file")

func init() {
	registerFlags(flag.CommandLine)
}

func main() {
	flag.Parse()

	config, err := LoadConfig(*configFile, flag.CommandLine)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	lg := log.New(config.LogLevel, config.LogDir)
	defer lg.CatchAndReportCrash()

	if err := run(config, lg, os.Stdout); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(config *Config, lg *log.Logger, w io.Writer) error {
	if len(config.ATSFiles) == 0 {
		return errors.New("no airway feeds specified")
	}

	g, err := av.LoadATSFiles(config.ATSFiles, lg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Loaded %d waypoints, %d edges\n", g.Count(), g.EdgeCount())

	if config.TrackSource != "" {
		h, err := applyTracks(config, g, lg)
		if err != nil {
			return err
		}

		ov := h.Overlay()
		fmt.Fprintf(w, "Applied %s: %d waypoints, %d edges\n", h.System, len(ov.Waypoints), len(ov.Edges))
		if len(ov.Unresolved) > 0 {
			fmt.Fprintf(w, "Unresolved track fixes: %s\n", strings.Join(ov.Unresolved, " "))
		}

		if config.TracksJSON {
			b, err := h.RawData().TracksJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		}
		if config.Dump {
			godump.Fdump(w, h.RawData())
		}
	}

	if config.Route != "" {
		if err := printRoute(config, g, w); err != nil {
			return err
		}
	}

	if config.CacheMaxBytes > 0 {
		if err := util.CacheCullObjects(config.CacheMaxBytes); err != nil {
			lg.Warnf("culling cache: %v", err)
		}
	}

	return nil
}

// applyTracks fetches the configured track message and adds its tracks to
// the graph. If fetching fails and a cache name is configured, the most
// recently cached message is used instead.
func applyTracks(config *Config, g *av.WaypointGraph, lg *log.Logger) (*tracks.Handler, error) {
	sys, err := tracks.ParseSystem(config.TrackSystem)
	if err != nil {
		return nil, err
	}
	p, err := makeProvider(config)
	if err != nil {
		return nil, err
	}

	h := tracks.NewHandler(sys, g, lg)
	if err := h.GetAllTracks(p); err != nil {
		if config.TrackCache == "" {
			return nil, err
		}
		lg.Warnf("%v: falling back to cached tracks", err)

		h = tracks.NewHandler(sys, g, lg)
		t, cerr := h.LoadCache(config.TrackCache)
		if cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		lg.Infof("Using %s tracks cached at %s", sys, t)
	} else if config.TrackCache != "" {
		if err := h.SaveCache(config.TrackCache); err != nil {
			lg.Warnf("%s: unable to cache tracks: %v", config.TrackCache, err)
		}
	}

	if err := h.AddToWaypointList(); err != nil {
		return nil, err
	}
	return h, nil
}

// makeProvider returns the provider for the configured track source, which
// is chosen by its scheme.
func makeProvider(config *Config) (tracks.Provider, error) {
	src := config.TrackSource
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return tracks.NewHTTPProvider(src, config.HTTPCacheTTL), nil

	case strings.HasPrefix(src, "gs://"):
		bucket, object, ok := strings.Cut(strings.TrimPrefix(src, "gs://"), "/")
		if !ok || bucket == "" || object == "" {
			return nil, fmt.Errorf("%s: expected gs://bucket/object", src)
		}
		p := tracks.GCSProvider{Bucket: bucket, Object: object}
		if config.GCSCredentials != "" {
			creds, err := os.ReadFile(config.GCSCredentials)
			if err != nil {
				return nil, err
			}
			p.CredentialsJSON = creds
		}
		return p, nil

	case strings.HasPrefix(src, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(src, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("%s: expected s3://bucket/key", src)
		}
		return tracks.S3Provider{
			Bucket:   bucket,
			Key:      key,
			Region:   config.S3Region,
			Endpoint: config.S3Endpoint,
		}, nil

	default:
		return tracks.FileProvider{Path: src}, nil
	}
}

func printRoute(config *Config, g *av.WaypointGraph, w io.Writer) error {
	fixes := strings.Fields(strings.ToUpper(config.Route))

	unknown := util.FilterSlice(fixes, func(fix string) bool { return len(g.FindByID(fix)) == 0 })
	if len(unknown) > 0 {
		unknown = util.MapSlice(unknown, func(fix string) string {
			if sim := util.SimilarStrings(fix, g.IDs(), 2); len(sim) > 0 {
				return fix + " (did you mean " + strings.Join(sim, ", ") + "?)"
			}
			return fix
		})
		return fmt.Errorf("%w: %s", av.ErrUnknownWaypoint, strings.Join(unknown, "; "))
	}

	r, err := av.RouteFromFixes(g, fixes)
	if err != nil {
		return err
	}

	text, err := r.Text(true, true)
	if err != nil {
		return err
	}
	dist, err := r.TotalDistance()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n%.1f nm\n", text, dist)

	if config.Dump {
		godump.Fdump(w, r.Nodes())
	}

	if config.GeoJSON != "" {
		b, err := r.GeoJSON(config.SegmentPoints).MarshalJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(config.GeoJSON, b, 0o644); err != nil {
			return err
		}
	}

	return nil
}
