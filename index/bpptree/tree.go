// Package bpptree implements a B+ tree variant whose leaves use gapped
// arrays and a per-leaf linear position predictor to accelerate insertion
// and point lookup. A Tree is single-owner, single-thread: callers must
// serialize access externally.
package bpptree

import "kvindex/bpptree/index"

var _ index.Index[int64, string] = (*Tree[int64, string])(nil)

// Tree is the public façade over the root node and leaf chain.
type Tree[K Number, V any] struct {
	root   node[K, V]
	head   *leaf[K, V]
	cfg    Config
	order  int
	hits   int64 // tracks model_hit_rate for Stats
	misses int64
}

// New constructs a tree from cfg, filling unset fields with their defaults.
// Invalid configuration fails with a *index.ConfigurationError.
func New[K Number, V any](cfg Config) (*Tree[K, V], error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	root := newLeaf[K, V](cfg.InitialLeafCapacity)
	return &Tree[K, V]{
		root:  root,
		head:  root,
		cfg:   cfg,
		order: cfg.Order,
	}, nil
}

// Insert writes (key, value), routing through internal nodes to the owning
// leaf and growing a new root if that leaf splits.
func (t *Tree[K, V]) Insert(key K, value V) (prior V, hadPrior bool) {
	switch root := t.root.(type) {
	case *leaf[K, V]:
		outcome := root.insert(key, value, t.cfg)
		if outcome.replaced {
			return outcome.prior, true
		}
		if outcome.split {
			t.growRoot(outcome.sepKey, root, outcome.right)
		}
		return prior, false
	case *internal[K, V]:
		p, had, split := root.insertDescend(key, value, t.cfg, t.order)
		if had {
			return p, true
		}
		if split.ok {
			t.growRoot(split.sep, root, split.right)
		}
		return prior, false
	}
	panic("bpptree: unreachable node kind")
}

// growRoot replaces the root with a new internal node over left and right,
// increasing the tree's height by one.
func (t *Tree[K, V]) growRoot(sep K, left, right node[K, V]) {
	t.root = &internal[K, V]{
		keys:     []K{sep},
		children: []node[K, V]{left, right},
	}
}

// Search returns the value stored for key, if present.
func (t *Tree[K, V]) Search(key K) (V, bool) {
	l := findLeaf[K, V](t.root, key)
	value, found, consulted, hit := l.search(key, t.cfg)
	if consulted {
		if hit {
			t.hits++
		} else {
			t.misses++
		}
	}
	return value, found
}

// Delete removes key if present and reports whether it was found. Leaves
// are never merged or rebalanced, so they may become arbitrarily sparse
// under sustained deletes.
func (t *Tree[K, V]) Delete(key K) bool {
	l := findLeaf[K, V](t.root, key)
	return l.delete(key, t.cfg)
}

// Range returns a cursor over every (key, value) pair with lo <= key <= hi,
// in ascending order.
func (t *Tree[K, V]) Range(lo, hi K) index.Iterator[K, V] {
	if lo > hi {
		return &cursor[K, V]{}
	}
	start := findLeaf[K, V](t.root, lo)
	return &cursor[K, V]{leaf: start, slot: -1, hasLo: true, hasHi: true, lo: lo, hi: hi}
}

// Iter returns a cursor over every (key, value) pair in ascending order.
func (t *Tree[K, V]) Iter() index.Iterator[K, V] {
	return &cursor[K, V]{leaf: t.head, slot: -1}
}

// Close releases the tree's resources. The in-memory B++ tree holds
// nothing beyond what the garbage collector already reclaims.
func (t *Tree[K, V]) Close() error { return nil }
