// Package lsmtree is a minimal log-structured merge tree comparison
// baseline: append-only memtable, sorted+bloom-filtered segments, tiered
// compaction. It contrasts the B++ tree's in-place gapped updates against
// an out-of-place, compaction-driven design. Keys are fixed to int64 since
// the bloom filter hashes a fixed-width key encoding.
package lsmtree

import (
	"container/heap"
	"slices"
	"sort"

	"kvindex/bpptree/index"
)

var _ index.Index[int64, string] = (*LSMTree[string])(nil)

type entry[V any] struct {
	Key       int64
	Val       V
	Tombstone bool
}

type segment[V any] struct {
	Data   []entry[V]
	Filter *BloomFilter
}

// LSMTree is keyed by int64; V is the value type.
type LSMTree[V any] struct {
	MemTable  []entry[V]
	Levels    [][]segment[V] // Level 0 holds multiple segments, levels 1+ are merged
	Threshold int            // max memtable size before flush
}

func NewLSM[V any](threshold int) *LSMTree[V] {
	return &LSMTree[V]{
		Threshold: threshold,
		MemTable:  make([]entry[V], 0, threshold),
		Levels:    make([][]segment[V], 5), // L0 to L4
	}
}

func (l *LSMTree[V]) Insert(k int64, v V) (V, bool) {
	prior, had := l.Search(k)
	l.MemTable = append(l.MemTable, entry[V]{Key: k, Val: v})
	if len(l.MemTable) >= l.Threshold {
		l.flush()
	}
	return prior, had
}

func (l *LSMTree[V]) Delete(k int64) bool {
	_, had := l.Search(k)
	if !had {
		return false
	}
	var zero V
	l.MemTable = append(l.MemTable, entry[V]{Key: k, Val: zero, Tombstone: true})
	if len(l.MemTable) >= l.Threshold {
		l.flush()
	}
	return true
}

func (l *LSMTree[V]) flush() {
	slices.SortStableFunc(l.MemTable, func(a, b entry[V]) int {
		return int(a.Key - b.Key)
	})
	// Keep only the newest (last appended) version of each key.
	deduped := l.MemTable[:0]
	for i, e := range l.MemTable {
		if i+1 < len(l.MemTable) && l.MemTable[i+1].Key == e.Key {
			continue
		}
		deduped = append(deduped, e)
	}
	l.MemTable = deduped

	filter := NewBloom(len(l.MemTable)*10, 3)
	for _, e := range l.MemTable {
		filter.Add(e.Key)
	}

	l.Levels[0] = append([]segment[V]{{Data: l.MemTable, Filter: filter}}, l.Levels[0]...)
	l.MemTable = make([]entry[V], 0, l.Threshold)

	l.checkCompaction(0)
}

func (l *LSMTree[V]) checkCompaction(level int) {
	if len(l.Levels[level]) >= 10 && level < len(l.Levels)-1 {
		l.compactLevel(level)
	}
}

func (l *LSMTree[V]) compactLevel(level int) {
	var combined []entry[V]
	for _, s := range l.Levels[level] {
		combined = append(combined, s.Data...)
	}

	// Stable sort: newer segments are at the beginning of the slice.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Key < combined[j].Key
	})

	var compacted []entry[V]
	for i := 0; i < len(combined); i++ {
		if i > 0 && combined[i].Key == combined[i-1].Key {
			continue // keep newest version
		}
		compacted = append(compacted, combined[i])
	}

	filter := NewBloom(len(compacted)*10, 3)
	for _, e := range compacted {
		filter.Add(e.Key)
	}

	l.Levels[level+1] = append([]segment[V]{{Data: compacted, Filter: filter}}, l.Levels[level+1]...)
	l.Levels[level] = make([]segment[V], 0)

	l.checkCompaction(level + 1)
}

func (l *LSMTree[V]) Search(key int64) (V, bool) {
	var zero V
	for i := len(l.MemTable) - 1; i >= 0; i-- {
		if l.MemTable[i].Key == key {
			if l.MemTable[i].Tombstone {
				return zero, false
			}
			return l.MemTable[i].Val, true
		}
	}

	for _, level := range l.Levels {
		for _, s := range level {
			if !s.Filter.Test(key) {
				continue
			}
			idx, found := slices.BinarySearchFunc(s.Data, key, func(e entry[V], t int64) int {
				return int(e.Key - t)
			})
			if found {
				if s.Data[idx].Tombstone {
					return zero, false
				}
				return s.Data[idx].Val, true
			}
		}
	}
	return zero, false
}

func (l *LSMTree[V]) Range(start, end int64) index.Iterator[int64, V] {
	return l.scan(start, end, false)
}

func (l *LSMTree[V]) Iter() index.Iterator[int64, V] {
	return l.scan(0, 0, true)
}

// scan merges the memtable and every segment via a k-way heap merge, with
// a full-scan mode for Iter alongside the bounded mode for Range.
func (l *LSMTree[V]) scan(start, end int64, full bool) index.Iterator[int64, V] {
	h := &mergeHeap[V]{}
	heap.Init(h)

	if len(l.MemTable) > 0 {
		heap.Push(h, &heapItem[V]{data: l.MemTable, index: 0})
	}
	for _, level := range l.Levels {
		for _, seg := range level {
			if len(seg.Data) > 0 {
				heap.Push(h, &heapItem[V]{data: seg.Data, index: 0})
			}
		}
	}

	var final []entry[V]
	var lastKey int64
	first := true

	for h.Len() > 0 {
		item := heap.Pop(h).(*heapItem[V])
		e := item.data[item.index]

		if full || (e.Key >= start && e.Key <= end) {
			if first || e.Key != lastKey {
				if !e.Tombstone {
					final = append(final, e)
				}
				lastKey = e.Key
				first = false
			}
		}

		item.index++
		if item.index < len(item.data) {
			heap.Push(h, item)
		}
	}

	return &lsmIterator[V]{data: final, idx: -1}
}

func (l *LSMTree[V]) Stats() index.Stats {
	size := len(l.MemTable)
	segments := 0
	if len(l.MemTable) > 0 {
		segments = 1
	}
	for _, level := range l.Levels {
		for _, s := range level {
			size += len(s.Data)
			segments++
		}
	}
	return index.Stats{Size: size, Leaves: segments, Height: len(l.Levels)}
}

func (l *LSMTree[V]) Close() error { return nil }

type heapItem[V any] struct {
	data  []entry[V]
	index int
}

type mergeHeap[V any] []*heapItem[V]

func (h mergeHeap[V]) Len() int           { return len(h) }
func (h mergeHeap[V]) Less(i, j int) bool { return h[i].data[h[i].index].Key < h[j].data[h[j].index].Key }
func (h mergeHeap[V]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap[V]) Push(x interface{}) {
	*h = append(*h, x.(*heapItem[V]))
}
func (h *mergeHeap[V]) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

type lsmIterator[V any] struct {
	data []entry[V]
	idx  int
}

func (it *lsmIterator[V]) Next() bool    { it.idx++; return it.idx < len(it.data) }
func (it *lsmIterator[V]) Key() int64    { return it.data[it.idx].Key }
func (it *lsmIterator[V]) Value() V      { return it.data[it.idx].Val }
func (it *lsmIterator[V]) Close() error  { return nil }
