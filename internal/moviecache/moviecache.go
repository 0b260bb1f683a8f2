// Package moviecache persists the most recent movie list snapshot on the
// client so the next session can render before the network answers.
//
// Storage failures never leave this package: reads degrade to "no cache"
// and writes become no-ops, each with a log line.
package moviecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/vmunix/marquee/internal/movie"
)

// SchemaVersion is the cache format understood by this build. Bump it when
// the persisted layout changes incompatibly.
const SchemaVersion = "1.0.0"

// DefaultMaxBytes mirrors the usual browser storage quota.
const DefaultMaxBytes = 5 << 20

// Storage keys.
const (
	KeySnapshot    = "movie-cache"
	KeyWrittenAt   = "movie-cache-timestamp"
	KeySchema      = "movie-cache-version"
	KeyDataVersion = "movies-data-version"
)

var bucketName = []byte("movie-cache")

var ownedKeys = []string{KeySnapshot, KeyWrittenAt, KeySchema, KeyDataVersion}

// ErrQuotaExceeded is logged when an envelope does not fit in MaxBytes.
var ErrQuotaExceeded = errors.New("cache quota exceeded")

// Envelope is one persisted snapshot.
type Envelope struct {
	Movies        []movie.Movie
	DataVersion   string
	SchemaVersion string
	WrittenAt     time.Time
}

// Status summarises what is on disk.
type Status struct {
	HasCache      bool      `json:"has_cache"`
	Count         int       `json:"count"`
	DataVersion   string    `json:"data_version,omitempty"`
	SchemaVersion string    `json:"schema_version,omitempty"`
	WrittenAt     time.Time `json:"written_at,omitzero"`
	People        int       `json:"people"`
}

// Options configures an Adapter.
type Options struct {
	// Path is the BoltDB file. Empty keeps everything in memory.
	Path string
	// MaxBytes caps the encoded envelope size. Zero means DefaultMaxBytes.
	MaxBytes int
	Logger   *slog.Logger
}

// Adapter reads and writes the cache envelope.
type Adapter struct {
	db       *bolt.DB // nil in memory-only mode
	mu       sync.Mutex
	peopleMu sync.Mutex // serializes people read-merge-write
	mem      map[string][]byte
	maxBytes int
	now      func() time.Time
	log      *slog.Logger
}

// Open returns an adapter backed by opts.Path, creating the file and its
// directory if needed.
func Open(opts Options) (*Adapter, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	a := &Adapter{
		mem:      make(map[string][]byte),
		maxBytes: maxBytes,
		now:      time.Now,
		log:      logger,
	}
	if opts.Path == "" {
		return a, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := bolt.Open(opts.Path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	a.db = db
	return a, nil
}

// NewMemory returns an adapter that never touches disk.
func NewMemory(logger *slog.Logger) *Adapter {
	a, _ := Open(Options{Logger: logger})
	return a
}

// Close releases the underlying file.
func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Read returns the stored envelope, or nil if there is none, it cannot be
// decoded, or it was written by an incompatible cache format.
func (a *Adapter) Read() *Envelope {
	vals, err := a.load(ownedKeys...)
	if err != nil {
		a.log.Warn("cache read failed", "error", err)
		return nil
	}
	raw, ok := vals[KeySnapshot]
	if !ok {
		return nil
	}
	if schema := string(vals[KeySchema]); schema != SchemaVersion {
		a.log.Info("cache format mismatch, ignoring snapshot", "stored", schema, "current", SchemaVersion)
		return nil
	}

	var movies []movie.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		a.log.Warn("cache snapshot corrupt", "error", err)
		return nil
	}
	if movies == nil {
		movies = []movie.Movie{}
	}

	env := &Envelope{
		Movies:        movies,
		DataVersion:   string(vals[KeyDataVersion]),
		SchemaVersion: SchemaVersion,
	}
	if ts, ok := vals[KeyWrittenAt]; ok {
		if ms, err := strconv.ParseInt(string(ts), 10, 64); err == nil {
			env.WrittenAt = time.UnixMilli(ms)
		}
	}
	return env
}

// Write stores env as the current snapshot, replacing any previous one. The
// format marker is set to SchemaVersion and WrittenAt to the current time.
// Failures are logged and otherwise ignored.
func (a *Adapter) Write(env Envelope) {
	movies := env.Movies
	if movies == nil {
		movies = []movie.Movie{}
	}
	raw, err := json.Marshal(movies)
	if err != nil {
		a.log.Warn("cache encode failed", "error", err)
		return
	}

	vals := map[string][]byte{
		KeySnapshot:    raw,
		KeyWrittenAt:   []byte(strconv.FormatInt(a.now().UnixMilli(), 10)),
		KeySchema:      []byte(SchemaVersion),
		KeyDataVersion: []byte(env.DataVersion),
	}
	size := 0
	for k, v := range vals {
		size += len(k) + len(v)
	}
	if size > a.maxBytes {
		a.log.Warn("cache write skipped", "error", ErrQuotaExceeded, "bytes", size, "max_bytes", a.maxBytes)
		return
	}

	if err := a.store(vals); err != nil {
		a.log.Warn("cache write failed", "error", err)
		return
	}
	a.log.Debug("cache written", "movies", len(movies), "data_version", env.DataVersion)
}

// Clear removes every key this package owns. Safe to call repeatedly.
func (a *Adapter) Clear() {
	if err := a.remove(ownedKeys...); err != nil {
		a.log.Warn("cache clear failed", "error", err)
		return
	}
	a.log.Debug("cache cleared")
}

// Status reports on the stored snapshot without validating the format marker.
func (a *Adapter) Status() Status {
	vals, err := a.load(ownedKeys...)
	if err != nil {
		a.log.Warn("cache status failed", "error", err)
		return Status{}
	}
	st := Status{
		DataVersion:   string(vals[KeyDataVersion]),
		SchemaVersion: string(vals[KeySchema]),
	}
	if raw, ok := vals[KeySnapshot]; ok {
		var movies []json.RawMessage
		if json.Unmarshal(raw, &movies) == nil {
			st.HasCache = true
			st.Count = len(movies)
		}
	}
	if ts, ok := vals[KeyWrittenAt]; ok {
		if ms, err := strconv.ParseInt(string(ts), 10, 64); err == nil {
			st.WrittenAt = time.UnixMilli(ms)
		}
	}
	st.People = len(a.peopleMap())
	return st
}

// SchemaMarker returns the stored cache format marker, if any.
func (a *Adapter) SchemaMarker() (string, bool) {
	vals, err := a.load(KeySchema)
	if err != nil {
		a.log.Warn("cache marker read failed", "error", err)
		return "", false
	}
	v, ok := vals[KeySchema]
	return string(v), ok
}

// SetSchemaMarker overwrites the cache format marker.
func (a *Adapter) SetSchemaMarker(marker string) {
	if err := a.store(map[string][]byte{KeySchema: []byte(marker)}); err != nil {
		a.log.Warn("cache marker write failed", "error", err)
	}
}

// load returns the present keys. Values are copies.
func (a *Adapter) load(keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if a.db == nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		for _, k := range keys {
			if v, ok := a.mem[k]; ok {
				out[k] = append([]byte(nil), v...)
			}
		}
		return out, nil
	}

	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if v := b.Get([]byte(k)); v != nil {
				out[k] = append([]byte(nil), v...)
			}
		}
		return nil
	})
	return out, err
}

// store writes all values in one transaction.
func (a *Adapter) store(vals map[string][]byte) error {
	if a.db == nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		for k, v := range vals {
			a.mem[k] = v
		}
		return nil
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		for k, v := range vals {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *Adapter) remove(keys ...string) error {
	if a.db == nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		for _, k := range keys {
			delete(a.mem, k)
		}
		return nil
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}
