package bpptree

import (
	"math/rand"
	"testing"
)

func newTestTree(t *testing.T) *Tree[int64, string] {
	t.Helper()
	tr, err := New[int64, string](Config{Order: 4, InitialLeafCapacity: 8, TrainingInterval: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestInsertSearchBasic(t *testing.T) {
	tr := newTestTree(t)
	if _, ok := tr.Search(1); ok {
		t.Fatal("search on empty tree found something")
	}

	if _, had := tr.Insert(1, "one"); had {
		t.Fatal("first insert reported a prior value")
	}
	v, ok := tr.Search(1)
	if !ok || v != "one" {
		t.Fatalf("Search(1) = %q, %v, want one, true", v, ok)
	}
}

func TestInsertOverwriteReturnsPrior(t *testing.T) {
	tr := newTestTree(t)
	tr.Insert(5, "first")
	prior, had := tr.Insert(5, "second")
	if !had || prior != "first" {
		t.Fatalf("Insert overwrite = %q, %v, want first, true", prior, had)
	}
	v, _ := tr.Search(5)
	if v != "second" {
		t.Fatalf("Search(5) = %q, want second", v)
	}
}

func TestDeleteThenSearch(t *testing.T) {
	tr := newTestTree(t)
	tr.Insert(3, "three")
	if !tr.Delete(3) {
		t.Fatal("Delete(3) = false, want true")
	}
	if _, ok := tr.Search(3); ok {
		t.Fatal("Search(3) found deleted key")
	}
	if tr.Delete(3) {
		t.Fatal("second Delete(3) = true, want false")
	}
}

func TestDeleteMissingKey(t *testing.T) {
	tr := newTestTree(t)
	tr.Insert(1, "one")
	if tr.Delete(99) {
		t.Fatal("Delete of absent key reported success")
	}
}

// TestAscendingIteration checks that Iter yields every live key in
// strictly ascending order, including across a split that has grown the
// tree past a single leaf.
func TestAscendingIteration(t *testing.T) {
	tr := newTestTree(t)
	const n = 500
	perm := rand.New(rand.NewSource(1)).Perm(n)
	for _, k := range perm {
		tr.Insert(int64(k), "v")
	}

	it := tr.Iter()
	count := 0
	var prev int64
	havePrev := false
	for it.Next() {
		k := it.Key()
		if havePrev && k <= prev {
			t.Fatalf("iteration out of order: %d after %d", k, prev)
		}
		prev, havePrev = k, true
		count++
	}
	if count != n {
		t.Fatalf("iterated %d keys, want %d", count, n)
	}
}

func TestRangeBasic(t *testing.T) {
	tr := newTestTree(t)
	for i := int64(0); i < 100; i++ {
		tr.Insert(i, "v")
	}

	it := tr.Range(10, 20)
	count := 0
	for it.Next() {
		k := it.Key()
		if k < 10 || k > 20 {
			t.Fatalf("Range(10,20) yielded out-of-range key %d", k)
		}
		count++
	}
	if count != 11 {
		t.Fatalf("Range(10,20) yielded %d keys, want 11", count)
	}
}

func TestRangeEmptyWhenLoGreaterThanHi(t *testing.T) {
	tr := newTestTree(t)
	tr.Insert(1, "one")
	it := tr.Range(5, 1)
	if it.Next() {
		t.Fatal("Range(5,1) with lo > hi yielded a result")
	}
}

func TestManyInsertionsSearchEveryKey(t *testing.T) {
	tr, err := New[int64, int](Config{Order: 4, InitialLeafCapacity: 8, TrainingInterval: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	const n = 2000
	perm := rand.New(rand.NewSource(2)).Perm(n)
	for _, k := range perm {
		tr.Insert(int64(k), k)
	}
	for i := 0; i < n; i++ {
		v, ok := tr.Search(int64(i))
		if !ok {
			t.Fatalf("Search(%d) not found", i)
		}
		if v != i {
			t.Fatalf("Search(%d) = %v, want %d", i, v, i)
		}
	}
}

// TestPredictorSoundness checks that the predictor is a search accelerant
// only: a tree whose leaf models are all forced untrained before lookup and
// one that trains normally must agree on every lookup.
func TestPredictorSoundness(t *testing.T) {
	const n = 300
	keys := rand.New(rand.NewSource(3)).Perm(n)

	untrained, err := New[int64, int](Config{Order: 4, InitialLeafCapacity: 8, TrainingInterval: 1 << 30})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	trained, err := New[int64, int](Config{Order: 4, InitialLeafCapacity: 8, TrainingInterval: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, k := range keys {
		untrained.Insert(int64(k), k)
		trained.Insert(int64(k), k)
	}
	// Compaction and split retrain a leaf regardless of TrainingInterval,
	// so clear every model before the lookups.
	for l := untrained.head; l != nil; l = l.next {
		l.model.trained = false
	}

	for i := 0; i < n; i++ {
		uv, uok := untrained.Search(int64(i))
		tv, tok := trained.Search(int64(i))
		if uok != tok || uv != tv {
			t.Fatalf("key %d: untrained=(%v,%v) trained=(%v,%v)", i, uv, uok, tv, tok)
		}
	}
}

func TestStatsReportsSizeAndHeight(t *testing.T) {
	tr := newTestTree(t)
	for i := int64(0); i < 200; i++ {
		tr.Insert(i, "v")
	}
	stats := tr.Stats()
	if stats.Size != 200 {
		t.Fatalf("Stats().Size = %d, want 200", stats.Size)
	}
	if stats.Leaves < 1 {
		t.Fatalf("Stats().Leaves = %d, want >= 1", stats.Leaves)
	}
	if stats.Height < 1 {
		t.Fatalf("Stats().Height = %d, want >= 1", stats.Height)
	}
	if stats.AvgUtilization <= 0 || stats.AvgUtilization > 1 {
		t.Fatalf("Stats().AvgUtilization = %v, want in (0,1]", stats.AvgUtilization)
	}
}

func TestRepeatedInsertSameKeyNeverGrowsSize(t *testing.T) {
	tr := newTestTree(t)
	for i := 0; i < 50; i++ {
		tr.Insert(7, "same")
	}
	if tr.Stats().Size != 1 {
		t.Fatalf("Stats().Size = %d, want 1 after repeated inserts of one key", tr.Stats().Size)
	}
}

func TestDescendingInsertionOrder(t *testing.T) {
	tr := newTestTree(t)
	const n = 300
	for i := n - 1; i >= 0; i-- {
		tr.Insert(int64(i), "v")
	}
	it := tr.Iter()
	var prev int64
	first := true
	count := 0
	for it.Next() {
		if !first && it.Key() <= prev {
			t.Fatalf("descending-order fill produced out-of-order iteration at %d", it.Key())
		}
		prev, first = it.Key(), false
		count++
	}
	if count != n {
		t.Fatalf("iterated %d keys, want %d", count, n)
	}
}
