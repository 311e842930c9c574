// Package pebbleindex wraps a pebble.DB opened against an in-memory VFS as
// a comparison baseline: an LSM-backed, disk-shaped store run entirely in
// RAM, contrasted against the B++ tree's gapped in-memory leaves.
package pebbleindex

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"kvindex/bpptree/index"
)

var _ index.Index[int64, string] = (*Index[int64, string])(nil)

// Index adapts a pebble.DB to the index.Index[K, V] contract. Keys are
// encoded big-endian so pebble's default byte-order comparator preserves
// numeric order; values are gob-encoded since pebble only stores bytes.
type Index[K index.Number, V any] struct {
	db *pebble.DB
}

// Open creates a pebble database backed by an in-memory filesystem, so no
// on-disk state survives the process, while still exercising pebble's real
// write path.
func Open[K index.Number, V any]() (*Index[K, V], error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, err
	}
	return &Index[K, V]{db: db}, nil
}

func encodeKey[K index.Number](key K) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, toOrderedUint64(key))
	return buf.Bytes()
}

// toOrderedUint64 maps a Number onto a uint64 that preserves ordering for
// byte-lexicographic comparison. Only the integer half of Number is exact;
// floats are truncated, which is acceptable for a benchmarking baseline.
func toOrderedUint64[K index.Number](key K) uint64 {
	const bias = uint64(1) << 63
	v := int64(key)
	return uint64(v) + bias
}

func encodeValue[V any](value V) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeValue[V any](data []byte) (V, error) {
	var value V
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&value)
	return value, err
}

func (idx *Index[K, V]) Search(key K) (V, bool) {
	var zero V
	data, closer, err := idx.db.Get(encodeKey(key))
	if err != nil {
		return zero, false
	}
	defer closer.Close()
	value, err := decodeValue[V](data)
	if err != nil {
		return zero, false
	}
	return value, true
}

func (idx *Index[K, V]) Insert(key K, value V) (V, bool) {
	prior, had := idx.Search(key)
	encoded, err := encodeValue(value)
	if err != nil {
		return prior, had
	}
	idx.db.Set(encodeKey(key), encoded, pebble.NoSync)
	return prior, had
}

func (idx *Index[K, V]) Delete(key K) bool {
	_, had := idx.Search(key)
	if !had {
		return false
	}
	idx.db.Delete(encodeKey(key), pebble.NoSync)
	return true
}

func (idx *Index[K, V]) Range(lo, hi K) index.Iterator[K, V] {
	iter, err := idx.db.NewIter(&pebble.IterOptions{
		LowerBound: encodeKey(lo),
		UpperBound: encodeKey(hi + 1),
	})
	if err != nil {
		return &cursor[K, V]{}
	}
	return &cursor[K, V]{iter: iter, started: false}
}

func (idx *Index[K, V]) Iter() index.Iterator[K, V] {
	iter, err := idx.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return &cursor[K, V]{}
	}
	return &cursor[K, V]{iter: iter, started: false}
}

func (idx *Index[K, V]) Stats() index.Stats {
	metrics := idx.db.Metrics()
	files := 0
	for _, lvl := range metrics.Levels {
		files += int(lvl.NumFiles)
	}
	return index.Stats{
		Size:   int(metrics.Total().NumEntries),
		Leaves: files,
		Height: len(metrics.Levels),
	}
}

func (idx *Index[K, V]) Close() error { return idx.db.Close() }

type cursor[K index.Number, V any] struct {
	iter    *pebble.Iterator
	started bool
	key     K
	value   V
}

func (c *cursor[K, V]) Next() bool {
	if c.iter == nil {
		return false
	}
	var ok bool
	if !c.started {
		ok = c.iter.First()
		c.started = true
	} else {
		ok = c.iter.Next()
	}
	if !ok {
		return false
	}
	c.key = fromOrderedUint64[K](binary.BigEndian.Uint64(c.iter.Key()))
	value, err := decodeValue[V](c.iter.Value())
	if err != nil {
		return false
	}
	c.value = value
	return true
}

func fromOrderedUint64[K index.Number](u uint64) K {
	const bias = uint64(1) << 63
	return K(int64(u - bias))
}

func (c *cursor[K, V]) Key() K   { return c.key }
func (c *cursor[K, V]) Value() V { return c.value }
func (c *cursor[K, V]) Close() error {
	if c.iter == nil {
		return nil
	}
	return c.iter.Close()
}
