// Package config loads and defaults the settings a syncd process needs at
// startup: where its persisted state lives, how writes to it are flushed,
// the discovery skip-list, counter polling cadence, and the tie-break seed
// used when match.Matcher falls back to randomized selection.
//
// Shaped after hive/merge.Options/DefaultOptions: a plain struct with a
// DefaultOptions constructor, optionally overridden by an on-disk YAML
// document.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sonic-net/sairedis-go/saimeta"
	"github.com/sonic-net/sairedis-go/store"
)

// Options configures one syncd process.
type Options struct {
	// RedisAddr is the persisted-state backend's address.
	// Default: "localhost:6379"
	RedisAddr string

	// RedisDB selects the logical Redis database index.
	// Default: 0
	RedisDB int

	// Flush controls whether store writes reach Redis immediately or
	// accumulate until an explicit Flush.
	// Default: store.FlushAuto
	Flush store.FlushMode

	// TieBreakSeed seeds match.Matcher's randomized tie-break fallback.
	// Two processes given the same seed make the same fallback choices
	// on the same input, which matters for reproducing a reconciliation
	// run from a recorded record stream.
	// Default: 0
	TieBreakSeed uint64

	// DiscoverySkip lists attributes discovery.Walker.Discover should not read for a
	// given object type (e.g. counters, or attributes known to require a
	// live ASIC rather than a replay target).
	// Default: empty
	DiscoverySkip map[saimeta.ObjectType][]saimeta.AttrID

	// PollGroups maps a counters.Group name to its polling interval.
	// Default: empty
	PollGroups map[string]time.Duration

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	// Default: "info"
	LogLevel string
}

// DefaultOptions returns production-ready defaults.
func DefaultOptions() Options {
	return Options{
		RedisAddr:     "localhost:6379",
		RedisDB:       0,
		Flush:         store.FlushAuto,
		TieBreakSeed:  0,
		DiscoverySkip: map[saimeta.ObjectType][]saimeta.AttrID{},
		PollGroups:    map[string]time.Duration{},
		LogLevel:      "info",
	}
}

// document is the on-disk YAML shape. Flush and PollGroups use plain
// strings rather than store.FlushMode/time.Duration directly so the file
// format stays human-writable without custom (Un)MarshalYAML methods on
// those types.
type document struct {
	RedisAddr     string                                   `yaml:"redis_addr"`
	RedisDB       int                                      `yaml:"redis_db"`
	Flush         string                                   `yaml:"flush"`
	TieBreakSeed  uint64                                   `yaml:"tie_break_seed"`
	DiscoverySkip map[saimeta.ObjectType][]saimeta.AttrID `yaml:"discovery_skip"`
	PollGroups    map[string]string                        `yaml:"poll_groups"`
	LogLevel      string                                   `yaml:"log_level"`
}

// Load reads path as YAML and returns Options with any fields the document
// sets overriding DefaultOptions. A missing field keeps its default.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into Options, starting from DefaultOptions.
func Parse(data []byte) (Options, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Options{}, fmt.Errorf("config: parse: %w", err)
	}

	opts := DefaultOptions()
	if doc.RedisAddr != "" {
		opts.RedisAddr = doc.RedisAddr
	}
	opts.RedisDB = doc.RedisDB
	if doc.Flush != "" {
		mode, err := parseFlushMode(doc.Flush)
		if err != nil {
			return Options{}, err
		}
		opts.Flush = mode
	}
	opts.TieBreakSeed = doc.TieBreakSeed
	if len(doc.DiscoverySkip) > 0 {
		opts.DiscoverySkip = doc.DiscoverySkip
	}
	if len(doc.PollGroups) > 0 {
		opts.PollGroups = make(map[string]time.Duration, len(doc.PollGroups))
		for name, raw := range doc.PollGroups {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return Options{}, fmt.Errorf("config: poll group %q: %w", name, err)
			}
			opts.PollGroups[name] = d
		}
	}
	if doc.LogLevel != "" {
		opts.LogLevel = doc.LogLevel
	}
	return opts, nil
}

func parseFlushMode(s string) (store.FlushMode, error) {
	switch s {
	case "auto":
		return store.FlushAuto, nil
	case "pipelined":
		return store.FlushPipelined, nil
	default:
		return 0, fmt.Errorf("config: unknown flush mode %q", s)
	}
}
