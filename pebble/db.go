// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pebble persists simulator state on disk behind avalanchego's
// [database.Database] interface.
package pebble

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int64 `json:"cacheSize" yaml:"cacheSize"`
	BytesPerSync                int   `json:"bytesPerSync" yaml:"bytesPerSync"`
	WALBytesPerSync             int   `json:"walBytesPerSync" yaml:"walBytesPerSync"`
	MemTableStopWritesThreshold int   `json:"memTableStopWritesThreshold" yaml:"memTableStopWritesThreshold"`
	MemTableSize                int   `json:"memTableSize" yaml:"memTableSize"`
	MaxOpenFiles                int   `json:"maxOpenFiles" yaml:"maxOpenFiles"`
	// Sync makes every write durable before it returns
	Sync bool `json:"sync" yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   64 << 20,
		BytesPerSync:                1 << 20,
		WALBytesPerSync:             1 << 20,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 << 20,
		MaxOpenFiles:                1_024,
		Sync:                        true,
	}
}

type Database struct {
	lock    sync.RWMutex
	db      *pebble.DB
	closed  bool
	closing chan struct{}
	wg      sync.WaitGroup

	writeOpts *pebble.WriteOptions
	metrics   *metrics
}

// New opens (or creates) the database at [file] and registers its metrics
// with [reg].
func New(file string, cfg Config, reg prometheus.Registerer) (*Database, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	d := &Database{
		closing:   make(chan struct{}),
		writeOpts: pebble.NoSync,
		metrics:   m,
	}
	if cfg.Sync {
		d.writeOpts = pebble.Sync
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                uint64(cfg.MemTableSize),
		MaxOpenFiles:                cfg.MaxOpenFiles,
	}
	defer opts.Cache.Unref()
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	d.db, err = pebble.Open(file, opts)
	if err != nil {
		return nil, err
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, nil
}

func updateError(err error) error {
	if errors.Is(err, pebble.ErrNotFound) {
		return database.ErrNotFound
	}
	if errors.Is(err, pebble.ErrClosed) {
		return database.ErrClosed
	}
	return err
}

func (d *Database) Has(key []byte) (bool, error) {
	_, err := d.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (d *Database) Get(key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	v, closer, err := d.db.Get(key)
	d.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	defer closer.Close()
	return slices.Clone(v), nil
}

func (d *Database) Put(key []byte, value []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return database.ErrClosed
	}
	return updateError(d.db.Set(key, value, d.writeOpts))
}

func (d *Database) Delete(key []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return database.ErrClosed
	}
	return updateError(d.db.Delete(key, d.writeOpts))
}

func (d *Database) Compact(start []byte, limit []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return database.ErrClosed
	}
	if limit == nil {
		// pebble requires an upper bound
		it, err := d.db.NewIter(&pebble.IterOptions{})
		if err != nil {
			return updateError(err)
		}
		if it.Last() {
			limit = append(slices.Clone(it.Key()), 0)
		}
		if err := it.Close(); err != nil {
			return updateError(err)
		}
		if limit == nil {
			return nil
		}
	}
	return updateError(d.db.Compact(start, limit, true))
}

func (d *Database) HealthCheck(context.Context) (interface{}, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (d *Database) Close() error {
	d.lock.Lock()
	if d.closed {
		d.lock.Unlock()
		return database.ErrClosed
	}
	d.closed = true
	close(d.closing)
	err := d.db.Close()
	d.lock.Unlock()

	d.wg.Wait()
	return updateError(err)
}

func (d *Database) NewBatch() database.Batch {
	return &batch{db: d}
}

func (d *Database) NewIterator() database.Iterator {
	return d.NewIteratorWithStartAndPrefix(nil, nil)
}

func (d *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return d.NewIteratorWithStartAndPrefix(start, nil)
}

func (d *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return d.NewIteratorWithStartAndPrefix(nil, prefix)
}

func (d *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return &iterator{err: database.ErrClosed}
	}
	lower := prefix
	if bytes.Compare(start, prefix) > 0 {
		lower = start
	}
	it, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return &iterator{err: updateError(err)}
	}
	return &iterator{iter: it}
}

// prefixUpperBound returns the smallest key greater than every key starting
// with [prefix], or nil if there is none.
func prefixUpperBound(prefix []byte) []byte {
	upper := slices.Clone(prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

type iterator struct {
	iter    *pebble.Iterator
	started bool
	valid   bool
	key     []byte
	value   []byte
	err     error
}

func (it *iterator) Next() bool {
	if it.iter == nil || it.err != nil {
		return false
	}
	if !it.started {
		it.valid = it.iter.First()
		it.started = true
	} else if it.valid {
		it.valid = it.iter.Next()
	}
	if !it.valid {
		it.key, it.value = nil, nil
		it.err = updateError(it.iter.Error())
		return false
	}
	it.key = slices.Clone(it.iter.Key())
	it.value = slices.Clone(it.iter.Value())
	return true
}

func (it *iterator) Error() error {
	return it.err
}

func (it *iterator) Key() []byte {
	return it.key
}

func (it *iterator) Value() []byte {
	return it.value
}

func (it *iterator) Release() {
	if it.iter == nil {
		return
	}
	if err := it.iter.Close(); err != nil && it.err == nil {
		it.err = updateError(err)
	}
	it.iter = nil
}

type op struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db   *Database
	ops  []op
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.ops = append(b.ops, op{key: slices.Clone(key), value: slices.Clone(value)})
	b.size += len(key) + len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, op{key: slices.Clone(key), delete: true})
	b.size += len(key)
	return nil
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	pb := b.db.db.NewBatch()
	defer pb.Close()
	if err := b.Replay(&pebbleWriter{pb}); err != nil {
		return err
	}
	return updateError(pb.Commit(b.db.writeOpts))
}

func (b *batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	for _, o := range b.ops {
		var err error
		if o.delete {
			err = w.Delete(o.key)
		} else {
			err = w.Put(o.key, o.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}

type pebbleWriter struct {
	b *pebble.Batch
}

func (w *pebbleWriter) Put(key, value []byte) error {
	return w.b.Set(key, value, nil)
}

func (w *pebbleWriter) Delete(key []byte) error {
	return w.b.Delete(key, nil)
}
