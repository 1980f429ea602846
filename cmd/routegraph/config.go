// cmd/routegraph/config.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings for a run. Values come from (in increasing
// order of precedence) the built-in defaults, an optional JSON config
// file, ROUTEGRAPH_* environment variables and command-line flags.
type Config struct {
	LogLevel string
	LogDir   string

	ATSFiles []string

	TrackSystem    string
	TrackSource    string
	TrackCache     string
	HTTPCacheTTL   time.Duration
	S3Region       string
	S3Endpoint     string
	GCSCredentials string

	Route         string
	GeoJSON       string
	SegmentPoints int

	Dump          bool
	TracksJSON    bool
	CacheMaxBytes int64
}

// configFlags maps command-line flags to configuration keys. Only flags
// that are given explicitly override the other sources.
var configFlags = []struct {
	name, key, usage string
	isBool           bool
}{
	{name: "loglevel", key: "logLevel", usage: "logging level: debug, info, warn, error"},
	{name: "logdir", key: "logDir", usage: "log file directory"},
	{name: "ats", key: "ats", usage: "comma-separated list of ATS airway feed files"},
	{name: "system", key: "tracks.system", usage: "track system of the track message: NATs, PACOTs or AUSOTs"},
	{name: "tracks", key: "tracks.source", usage: "track message file, http(s) URL, gs://bucket/object or s3://bucket/key"},
	{name: "trackcache", key: "tracks.cache", usage: "name under which fetched tracks are cached and from which they are restored if fetching fails"},
	{name: "route", key: "route.fixes", usage: "space-separated list of fixes to build a route from"},
	{name: "geojson", key: "route.geojson", usage: "write the route as GeoJSON to this file"},
	{name: "segments", key: "route.segmentPoints", usage: "number of great circle points sampled per route segment in GeoJSON output"},
	{name: "dump", key: "dump", usage: "dump the parsed track message and the route", isBool: true},
	{name: "tracksjson", key: "tracksJSON", usage: "print a JSON summary of the tracks", isBool: true},
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logDir", "")
	v.SetDefault("ats", []string{})

	v.SetDefault("tracks.system", "NATs")
	v.SetDefault("tracks.source", "")
	v.SetDefault("tracks.cache", "")
	v.SetDefault("tracks.httpTTL", "15m")
	v.SetDefault("tracks.s3.region", "us-east-1")
	v.SetDefault("tracks.s3.endpoint", "")
	v.SetDefault("tracks.gcsCredentials", "")

	v.SetDefault("route.fixes", "")
	v.SetDefault("route.geojson", "")
	v.SetDefault("route.segmentPoints", 16)

	v.SetDefault("dump", false)
	v.SetDefault("tracksJSON", false)
	v.SetDefault("cacheMaxBytes", 64*1024*1024)
}

// registerFlags adds the configuration flags to fs.
func registerFlags(fs *flag.FlagSet) {
	for _, f := range configFlags {
		if f.isBool {
			fs.Bool(f.name, false, f.usage)
		} else {
			fs.String(f.name, "", f.usage)
		}
	}
}

// fileList returns the file list for key. Lists given as a single string,
// from a flag or the environment, are split on commas; each entry of a
// JSON array may also hold a comma-separated list.
func fileList(v *viper.Viper, key string) []string {
	entries := v.GetStringSlice(key)
	if s, ok := v.Get(key).(string); ok {
		entries = []string{s}
	}

	var files []string
	for _, e := range entries {
		for _, f := range strings.Split(e, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
	}
	return files
}

// LoadConfig assembles the configuration. configFile may be empty, in
// which case only the defaults, the environment and the flags are used.
// fs may be nil.
func LoadConfig(configFile string, fs *flag.FlagSet) (*Config, error) {
	v := viper.New()
	setConfigDefaults(v)

	v.SetEnvPrefix("ROUTEGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if fs != nil {
		keys := make(map[string]string)
		for _, f := range configFlags {
			keys[f.name] = f.key
		}
		fs.Visit(func(f *flag.Flag) {
			key, ok := keys[f.Name]
			if !ok {
				return
			}
			v.Set(key, f.Value.String())
		})
	}

	c := &Config{
		LogLevel:       v.GetString("logLevel"),
		LogDir:         v.GetString("logDir"),
		ATSFiles:       fileList(v, "ats"),
		TrackSystem:    v.GetString("tracks.system"),
		TrackSource:    v.GetString("tracks.source"),
		TrackCache:     v.GetString("tracks.cache"),
		HTTPCacheTTL:   v.GetDuration("tracks.httpTTL"),
		S3Region:       v.GetString("tracks.s3.region"),
		S3Endpoint:     v.GetString("tracks.s3.endpoint"),
		GCSCredentials: v.GetString("tracks.gcsCredentials"),
		Route:          v.GetString("route.fixes"),
		GeoJSON:        v.GetString("route.geojson"),
		SegmentPoints:  v.GetInt("route.segmentPoints"),
		Dump:           v.GetBool("dump"),
		TracksJSON:     v.GetBool("tracksJSON"),
		CacheMaxBytes:  v.GetInt64("cacheMaxBytes"),
	}

	if c.SegmentPoints < 0 {
		return nil, fmt.Errorf("%d: invalid number of segment points", c.SegmentPoints)
	}
	return c, nil
}
