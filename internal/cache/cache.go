package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/logging"
	"github.com/a3tai/schedify/internal/schedule"
)

const keyPrefix = "schedule:"

// Options configures a Cache
type Options struct {
	// Dir is the badger directory. Ignored when InMemory is set.
	Dir      string
	InMemory bool
	// TTL bounds how long a parse result is kept; zero keeps it forever
	TTL time.Duration
	// MemoryEntries sizes the in-process LRU in front of badger. Zero uses
	// the default, a negative value disables it.
	MemoryEntries int
	Logger        logrus.FieldLogger
}

// Stats counts lookups since the cache was opened
type Stats struct {
	MemoryHits    int64 `json:"memory_hits"`
	DiskHits      int64 `json:"disk_hits"`
	Misses        int64 `json:"misses"`
	MemoryEntries int   `json:"memory_entries"`
}

// Cache stores parsed schedules keyed by the content of the source document
type Cache struct {
	db     *badger.DB
	front  *recent
	ttl    time.Duration
	logger logrus.FieldLogger

	memoryHits atomic.Int64
	diskHits   atomic.Int64
	misses     atomic.Int64
}

// Open opens (or creates) the cache
func Open(opts Options) (*Cache, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, fmt.Errorf("cache directory cannot be empty")
		}
		badgerOpts = badger.DefaultOptions(opts.Dir)
	}

	db, err := badger.Open(badgerOpts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	logger := logging.OrDiscard(opts.Logger)
	logger.WithFields(logrus.Fields{
		"dir":       opts.Dir,
		"in_memory": opts.InMemory,
		"ttl":       opts.TTL,
	}).Debug("opened schedule cache")

	c := &Cache{db: db, ttl: opts.TTL, logger: logger}
	switch {
	case opts.MemoryEntries == 0:
		c.front = newRecent(defaultMemoryEntries, opts.TTL)
	case opts.MemoryEntries > 0:
		c.front = newRecent(opts.MemoryEntries, opts.TTL)
	}
	return c, nil
}

// Key derives the cache key for a source document
func Key(document []byte) string {
	sum := sha256.Sum256(document)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the schedule stored under key. A missing or expired entry is
// reported as a miss, not an error.
func (c *Cache) Get(key string) (*schedule.ParsedSchedule, bool, error) {
	if c.front != nil {
		if s, ok := c.front.get(key); ok {
			c.memoryHits.Add(1)
			return s, true, nil
		}
	}

	var s schedule.ParsedSchedule
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw, err := decompress(val)
			if err != nil {
				return err
			}
			return json.Unmarshal(raw, &s)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	c.diskHits.Add(1)
	c.logger.WithField("key", key).Debug("schedule cache hit")
	if c.front != nil {
		c.front.put(key, &s)
	}
	return &s, true, nil
}

// Put stores s under key
func (c *Cache) Put(key string, s *schedule.ParsedSchedule) error {
	if s == nil {
		return fmt.Errorf("cannot cache a nil schedule")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}
	val, err := compress(raw)
	if err != nil {
		return err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), val)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if c.front != nil {
		c.front.put(key, s)
	}
	return nil
}

// Delete removes the entry under key, if any
func (c *Cache) Delete(key string) error {
	if c.front != nil {
		c.front.remove(key)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Stats reports lookup counters
func (c *Cache) Stats() Stats {
	st := Stats{
		MemoryHits: c.memoryHits.Load(),
		DiskHits:   c.diskHits.Load(),
		Misses:     c.misses.Load(),
	}
	if c.front != nil {
		st.MemoryEntries = c.front.len()
	}
	return st
}

// Close closes the underlying BadgerDB
func (c *Cache) Close() error {
	return c.db.Close()
}
