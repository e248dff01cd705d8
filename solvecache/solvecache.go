// Package solvecache persists solved boards in a badger key-value store so
// repeated boards skip the search.
//
// Keys are "<dictionary fingerprint>/<rows>x<cols>/<letters>".  Values are the
// JSON-encoded sorted word list.
package solvecache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"row-major/boggle/board"

	"github.com/dgraph-io/badger"
	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"
)

// Cache is safe for concurrent use.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

type Opt func(*Cache)

// WithTTL expires entries d after they are written.  Zero keeps them forever.
func WithTTL(d time.Duration) Opt {
	return func(c *Cache) {
		c.ttl = d
	}
}

// glogLogger routes badger's logging through glog.
type glogLogger struct{}

func (glogLogger) Errorf(format string, args ...interface{}) {
	glog.ErrorDepth(1, fmt.Sprintf("badger: "+format, args...))
}

func (glogLogger) Warningf(format string, args ...interface{}) {
	glog.WarningDepth(1, fmt.Sprintf("badger: "+format, args...))
}

func (glogLogger) Infof(format string, args ...interface{}) {
	if glog.V(1) {
		glog.InfoDepth(1, fmt.Sprintf("badger: "+format, args...))
	}
}

func (glogLogger) Debugf(format string, args ...interface{}) {
	if glog.V(2) {
		glog.InfoDepth(1, fmt.Sprintf("badger: "+format, args...))
	}
}

// Open opens (creating if needed) the cache stored in dataDir.  If clear is
// set, any existing contents are removed first.
func Open(dataDir string, clear bool, opts ...Opt) (*Cache, error) {
	if clear {
		if err := os.RemoveAll(dataDir); err != nil {
			return nil, xerrors.Errorf("while clearing cache dir %q: %w", dataDir, err)
		}
	}

	db, err := badger.Open(badger.DefaultOptions(dataDir).WithLogger(glogLogger{}))
	if err != nil {
		return nil, xerrors.Errorf("while opening badger kv dir %q: %w", dataDir, err)
	}

	c := &Cache{
		db: db,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return xerrors.Errorf("while closing database: %w", err)
	}
	return nil
}

// Key is the badger key for board g solved against the dictionary with the
// given fingerprint.
func Key(fingerprint uint64, g board.Grid) []byte {
	return []byte(fmt.Sprintf("%016x/%dx%d/%s", fingerprint, g.NumRows, g.NumCols, g.Cells))
}

// Get returns the cached words for g, with found=false on a miss.
func (c *Cache) Get(ctx context.Context, fingerprint uint64, g board.Grid) ([]string, bool, error) {
	tracer := otel.Tracer("row-major/boggle/solvecache")
	var span trace.Span
	_, span = tracer.Start(ctx, "Cache.Get")
	defer span.End()

	key := Key(fingerprint, g)
	span.SetAttributes(attribute.String("key", string(key)))

	var words []string
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if xerrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		} else if err != nil {
			return xerrors.Errorf("while getting key: %w", err)
		}

		found = true
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &words); err != nil {
				return xerrors.Errorf("while unmarshaling cached words: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		err := xerrors.Errorf("while reading cache entry %q: %w", key, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	span.SetAttributes(attribute.Bool("found", found))
	return words, found, nil
}

// Put stores words as the solution of g.
func (c *Cache) Put(ctx context.Context, fingerprint uint64, g board.Grid, words []string) error {
	tracer := otel.Tracer("row-major/boggle/solvecache")
	var span trace.Span
	_, span = tracer.Start(ctx, "Cache.Put")
	defer span.End()

	key := Key(fingerprint, g)
	span.SetAttributes(attribute.String("key", string(key)))

	if words == nil {
		words = []string{}
	}
	val, err := json.Marshal(words)
	if err != nil {
		return xerrors.Errorf("while marshaling words: %w", err)
	}

	entry := badger.NewEntry(key, val)
	if c.ttl > 0 {
		entry = entry.WithTTL(c.ttl)
	}

CommitRetry:
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
	if xerrors.Is(err, badger.ErrConflict) {
		goto CommitRetry
	} else if err != nil {
		err := xerrors.Errorf("while writing cache entry %q: %w", key, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
