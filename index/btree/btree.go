// Package btree is a classic (non B+) in-memory B-tree comparison baseline:
// values live at every level, not just the leaves, and delete performs full
// borrow/merge rebalancing. It contrasts against the B++ tree's
// leaves-only, no-rebalance design.
package btree

import (
	"slices"

	"kvindex/bpptree/index"
)

var _ index.Index[int64, string] = (*BTree[int64, string])(nil)

type btreeNode[K index.Number, V any] struct {
	Leaf     bool
	Keys     []K
	Values   []V
	Children []*btreeNode[K, V]
}

type BTree[K index.Number, V any] struct {
	T    int
	Root *btreeNode[K, V]
}

func NewBTree[K index.Number, V any](t int) *BTree[K, V] {
	if t < 2 {
		t = 2
	}
	return &BTree[K, V]{T: t, Root: &btreeNode[K, V]{Leaf: true}}
}

func (bt *BTree[K, V]) Search(key K) (V, bool) {
	return bt.search(bt.Root, key)
}

func (bt *BTree[K, V]) search(x *btreeNode[K, V], key K) (V, bool) {
	i, found := slices.BinarySearch(x.Keys, key)
	if found {
		return x.Values[i], true
	}
	if x.Leaf {
		var zero V
		return zero, false
	}
	return bt.search(x.Children[i], key)
}

func (bt *BTree[K, V]) Insert(key K, value V) (V, bool) {
	root := bt.Root
	if len(root.Keys) == (2*bt.T - 1) {
		newRoot := &btreeNode[K, V]{Children: []*btreeNode[K, V]{root}}
		bt.splitChild(newRoot, 0)
		bt.Root = newRoot
	}
	return bt.insertNonFull(bt.Root, key, value)
}

func (bt *BTree[K, V]) insertNonFull(x *btreeNode[K, V], k K, v V) (V, bool) {
	if x.Leaf {
		idx, found := slices.BinarySearch(x.Keys, k)
		if found {
			prior := x.Values[idx]
			x.Values[idx] = v
			return prior, true
		}
		x.Keys = slices.Insert(x.Keys, idx, k)
		x.Values = slices.Insert(x.Values, idx, v)
		var zero V
		return zero, false
	}

	i := 0
	for i < len(x.Keys) && k > x.Keys[i] {
		i++
	}
	if len(x.Children[i].Keys) == (2*bt.T - 1) {
		bt.splitChild(x, i)
		if k > x.Keys[i] {
			i++
		}
	}
	return bt.insertNonFull(x.Children[i], k, v)
}

func (bt *BTree[K, V]) splitChild(x *btreeNode[K, V], i int) {
	t := bt.T
	y := x.Children[i]
	z := &btreeNode[K, V]{Leaf: y.Leaf}
	z.Keys = append(z.Keys, y.Keys[t:]...)
	z.Values = append(z.Values, y.Values[t:]...)
	if !y.Leaf {
		z.Children = append(z.Children, y.Children[t:]...)
	}

	midKey, midVal := y.Keys[t-1], y.Values[t-1]
	y.Keys, y.Values = y.Keys[:t-1], y.Values[:t-1]
	if !y.Leaf {
		y.Children = y.Children[:t]
	}

	x.Keys = slices.Insert(x.Keys, i, midKey)
	x.Values = slices.Insert(x.Values, i, midVal)
	x.Children = slices.Insert(x.Children, i+1, z)
}

func (bt *BTree[K, V]) Delete(key K) bool {
	_, found := bt.Search(key)
	if !found {
		return false
	}
	bt.delete(bt.Root, key)
	if len(bt.Root.Keys) == 0 && !bt.Root.Leaf {
		bt.Root = bt.Root.Children[0]
	}
	return true
}

func (bt *BTree[K, V]) delete(x *btreeNode[K, V], k K) {
	idx, found := slices.BinarySearch(x.Keys, k)
	if found {
		if x.Leaf {
			x.Keys = slices.Delete(x.Keys, idx, idx+1)
			x.Values = slices.Delete(x.Values, idx, idx+1)
		} else {
			bt.deleteInternal(x, idx)
		}
	} else if !x.Leaf {
		child := x.Children[idx]
		if len(child.Keys) < bt.T {
			bt.fill(x, idx)
		}
		if idx > len(x.Keys) {
			bt.delete(x.Children[idx-1], k)
		} else {
			bt.delete(x.Children[idx], k)
		}
	}
}

func (bt *BTree[K, V]) deleteInternal(x *btreeNode[K, V], i int) {
	k, y, z := x.Keys[i], x.Children[i], x.Children[i+1]
	if len(y.Keys) >= bt.T {
		pk, pv := bt.getPred(y)
		x.Keys[i], x.Values[i] = pk, pv
		bt.delete(y, pk)
	} else if len(z.Keys) >= bt.T {
		sk, sv := bt.getSucc(z)
		x.Keys[i], x.Values[i] = sk, sv
		bt.delete(z, sk)
	} else {
		bt.merge(x, i)
		bt.delete(y, k)
	}
}

func (bt *BTree[K, V]) getPred(x *btreeNode[K, V]) (K, V) {
	for !x.Leaf {
		x = x.Children[len(x.Keys)]
	}
	return x.Keys[len(x.Keys)-1], x.Values[len(x.Values)-1]
}

func (bt *BTree[K, V]) getSucc(x *btreeNode[K, V]) (K, V) {
	for !x.Leaf {
		x = x.Children[0]
	}
	return x.Keys[0], x.Values[0]
}

func (bt *BTree[K, V]) fill(x *btreeNode[K, V], i int) {
	if i != 0 && len(x.Children[i-1].Keys) >= bt.T {
		bt.borrowPrev(x, i)
	} else if i != len(x.Keys) && len(x.Children[i+1].Keys) >= bt.T {
		bt.borrowNext(x, i)
	} else {
		if i != len(x.Keys) {
			bt.merge(x, i)
		} else {
			bt.merge(x, i-1)
		}
	}
}

func (bt *BTree[K, V]) borrowPrev(x *btreeNode[K, V], i int) {
	c, s := x.Children[i], x.Children[i-1]
	c.Keys = slices.Insert(c.Keys, 0, x.Keys[i-1])
	c.Values = slices.Insert(c.Values, 0, x.Values[i-1])
	if !c.Leaf {
		c.Children = slices.Insert(c.Children, 0, s.Children[len(s.Keys)])
		s.Children = s.Children[:len(s.Keys)]
	}
	x.Keys[i-1], x.Values[i-1] = s.Keys[len(s.Keys)-1], s.Values[len(s.Keys)-1]
	s.Keys, s.Values = s.Keys[:len(s.Keys)-1], s.Values[:len(s.Values)-1]
}

func (bt *BTree[K, V]) borrowNext(x *btreeNode[K, V], i int) {
	c, s := x.Children[i], x.Children[i+1]
	c.Keys, c.Values = append(c.Keys, x.Keys[i]), append(c.Values, x.Values[i])
	if !c.Leaf {
		c.Children = append(c.Children, s.Children[0])
		s.Children = slices.Delete(s.Children, 0, 1)
	}
	x.Keys[i], x.Values[i] = s.Keys[0], s.Values[0]
	s.Keys, s.Values = s.Keys[1:], s.Values[1:]
}

func (bt *BTree[K, V]) merge(x *btreeNode[K, V], i int) {
	y, z := x.Children[i], x.Children[i+1]
	y.Keys, y.Values = append(y.Keys, x.Keys[i]), append(y.Values, x.Values[i])
	y.Keys, y.Values = append(y.Keys, z.Keys...), append(y.Values, z.Values...)
	if !y.Leaf {
		y.Children = append(y.Children, z.Children...)
	}
	x.Keys, x.Values = slices.Delete(x.Keys, i, i+1), slices.Delete(x.Values, i, i+1)
	x.Children = slices.Delete(x.Children, i+1, i+2)
}

func (bt *BTree[K, V]) Range(start, end K) index.Iterator[K, V] {
	it := &btreeIterator[K, V]{idx: -1}
	bt.collect(bt.Root, start, end, it)
	return it
}

func (bt *BTree[K, V]) Iter() index.Iterator[K, V] {
	it := &btreeIterator[K, V]{idx: -1, full: true}
	var lo, hi K
	bt.collect(bt.Root, lo, hi, it)
	return it
}

func (bt *BTree[K, V]) collect(x *btreeNode[K, V], s, e K, it *btreeIterator[K, V]) {
	for i := 0; i < len(x.Keys); i++ {
		if !x.Leaf {
			bt.collect(x.Children[i], s, e, it)
		}
		if it.full || (x.Keys[i] >= s && x.Keys[i] <= e) {
			it.data = append(it.data, entry[K, V]{x.Keys[i], x.Values[i]})
		}
	}
	if !x.Leaf {
		bt.collect(x.Children[len(x.Keys)], s, e, it)
	}
}

func (bt *BTree[K, V]) Stats() index.Stats {
	var walk func(n *btreeNode[K, V], depth int) (size, nodes, maxDepth int)
	walk = func(n *btreeNode[K, V], depth int) (size, nodes, maxDepth int) {
		size, nodes, maxDepth = len(n.Keys), 1, depth
		for _, c := range n.Children {
			cs, cn, cd := walk(c, depth+1)
			size += cs
			nodes += cn
			if cd > maxDepth {
				maxDepth = cd
			}
		}
		return
	}
	size, nodes, maxDepth := walk(bt.Root, 1)
	stats := index.Stats{Size: size, Leaves: nodes, Height: maxDepth}
	if nodes > 0 {
		stats.AvgUtilization = float64(size) / float64(nodes*(2*bt.T-1))
	}
	return stats
}

func (bt *BTree[K, V]) Close() error { return nil }

type entry[K index.Number, V any] struct {
	k K
	v V
}

type btreeIterator[K index.Number, V any] struct {
	data []entry[K, V]
	idx  int
	full bool
}

func (it *btreeIterator[K, V]) Next() bool  { it.idx++; return it.idx < len(it.data) }
func (it *btreeIterator[K, V]) Key() K      { return it.data[it.idx].k }
func (it *btreeIterator[K, V]) Value() V    { return it.data[it.idx].v }
func (it *btreeIterator[K, V]) Close() error { return nil }
