// Package store persists the reconciliation core's durable state in Redis:
// the VIDTORID/RIDTOVID identifier hashes, the ASIC_STATE object hashes,
// and the HIDDEN/COLDVIDS membership sets, plus a TEMP_-prefixed mirror of
// ASIC_STATE used to stage a view-apply before it is published atomically.
//
// Grounded on newtron's AsicDBClient for the ASIC_STATE key-naming and
// SCAN-based enumeration idioms, and on the registry-hive toolkit's
// dirty-tracker/tx-manager pair for the accumulate-then-flush and
// begin/commit shape: a Store's FlushPipelined mode accumulates writes the
// way dirty.Tracker.Add does, and Session.Commit publishes them the way
// tx.Manager.Commit turns a staged transaction visible in one step.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/sonic-net/sairedis-go/ident"
	"github.com/sonic-net/sairedis-go/saimeta"
)

const (
	keyVIDToRID = "VIDTORID"
	keyRIDToVID = "RIDTOVID"
	keyHidden   = "HIDDEN"
	keyColdVIDs = "COLDVIDS"

	asicStateTable     = "ASIC_STATE"
	tempAsicStateTable = "TEMP_ASIC_STATE"
)

// FlushMode controls whether a Store's writes reach Redis as they're
// issued or accumulate until Flush is called, mirroring dirty.Tracker's
// FlushDataOnly/FlushFull durability knobs adapted from msync/fdatasync to
// a Redis pipeline EXEC.
type FlushMode int

const (
	// FlushAuto executes every write in its own pipeline immediately.
	FlushAuto FlushMode = iota
	// FlushPipelined accumulates writes until Flush is called, batching
	// them into a single pipeline EXEC.
	FlushPipelined
)

// Store is the Redis-backed persistence layer. The zero value is not
// usable; construct one with New or Dial.
type Store struct {
	client redisClient
	mode   FlushMode

	mu      sync.Mutex
	pending []op
}

// New wraps an already-connected client. Use Dial to also establish the
// connection with retry.
func New(client *RedisClient, mode FlushMode) *Store {
	return &Store{client: newAdapter(client), mode: mode}
}

// newWithClient is the test seam: it accepts the narrow redisClient
// interface directly rather than a concrete *RedisClient.
func newWithClient(client redisClient, mode FlushMode) *Store {
	return &Store{client: client, mode: mode}
}

// SetMode changes the flush mode. Any already-pending writes are
// unaffected; call Flush first if switching away from FlushPipelined.
func (s *Store) SetMode(mode FlushMode) { s.mode = mode }

// queue runs o immediately under FlushAuto, or defers it to the next Flush
// under FlushPipelined.
func (s *Store) queue(ctx context.Context, o op) error {
	if s.mode == FlushPipelined {
		s.mu.Lock()
		s.pending = append(s.pending, o)
		s.mu.Unlock()
		return nil
	}
	return s.client.Exec(ctx, func(p pipeliner) { o(p) })
}

// Flush executes every pending write accumulated under FlushPipelined as a
// single pipeline EXEC, then clears the pending list. A no-op under
// FlushAuto or with nothing pending.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return s.client.Exec(ctx, func(p pipeliner) {
		for _, o := range batch {
			o(p)
		}
	})
}

// op is one deferred write against a pipeline.
type op func(p pipeliner)

func asicStateKey(ot saimeta.ObjectType, serializedID string) (string, error) {
	name, err := objectTypeName(ot)
	if err != nil {
		return "", err
	}
	return asicStateTable + ":" + name + ":" + serializedID, nil
}

func tempAsicStateKey(ot saimeta.ObjectType, serializedID string) (string, error) {
	name, err := objectTypeName(ot)
	if err != nil {
		return "", err
	}
	return tempAsicStateTable + ":" + name + ":" + serializedID, nil
}

func splitAsicStateKey(table, key string) (saimeta.ObjectType, string, bool) {
	rest, ok := cutPrefix(key, table+":")
	if !ok {
		return 0, "", false
	}
	sep := strings.IndexByte(rest, ':')
	if sep < 0 {
		return 0, "", false
	}
	ot, err := objectTypeByName(rest[:sep])
	if err != nil {
		return 0, "", false
	}
	return ot, rest[sep+1:], true
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}

// parseVID parses the "oid:0x<hex>" form the transport grammar and
// asicview.StructuredKey.Canonical both use for identifying an object.
func parseVID(s string) (ident.VID, bool) {
	if len(s) < 6 || s[:6] != "oid:0x" {
		return ident.NullVID, false
	}
	var n uint64
	for i := 6; i < len(s); i++ {
		c := s[i]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint64(c-'A') + 10
		default:
			return ident.NullVID, false
		}
		n = n<<4 | d
	}
	return ident.VID(n), true
}
