package bpptree

import "testing"

func TestLeafInsertAndLocate(t *testing.T) {
	l := newLeaf[int64, string](8)
	cfg := Config{Order: 4, InitialLeafCapacity: 8, TrainingInterval: 4, ProbeRadius: 2}.withDefaults()

	for _, k := range []int64{5, 1, 3, 7, 2} {
		outcome := l.insert(k, "v", cfg)
		if outcome.split {
			t.Fatalf("unexpected split inserting %d into capacity-8 leaf with 5 entries", k)
		}
	}

	if !l.isSorted() {
		t.Fatal("leaf not sorted after inserts")
	}
	if l.liveCount != 5 {
		t.Fatalf("liveCount = %d, want 5", l.liveCount)
	}

	for _, k := range []int64{1, 2, 3, 5, 7} {
		loc := l.locate(k, cfg.ProbeRadius)
		if !loc.found {
			t.Errorf("locate(%d) not found", k)
		}
	}
	if loc := l.locate(4, cfg.ProbeRadius); loc.found {
		t.Error("locate(4) unexpectedly found a key never inserted")
	}
}

func TestLeafSplitOnFullInsert(t *testing.T) {
	l := newLeaf[int64, string](4)
	cfg := Config{Order: 4, InitialLeafCapacity: 4, TrainingInterval: 100, ProbeRadius: 1}.withDefaults()

	for i := int64(0); i < 4; i++ {
		outcome := l.insert(i, "v", cfg)
		if outcome.split {
			t.Fatalf("premature split inserting key %d into a leaf with room", i)
		}
	}

	outcome := l.insert(4, "v", cfg)
	if !outcome.split {
		t.Fatal("expected split once a capacity-4 leaf receives a 5th distinct key")
	}
	if outcome.right == nil {
		t.Fatal("split outcome missing right sibling")
	}
	if l.next != outcome.right {
		t.Fatal("donor leaf's next pointer was not relinked to the new right sibling")
	}

	total := l.liveCount + outcome.right.liveCount
	if total != 5 {
		t.Fatalf("post-split total live count = %d, want 5", total)
	}

	min, ok := outcome.right.minKey()
	if !ok || min != outcome.sepKey {
		t.Fatalf("right sibling min key = %v (ok=%v), want separator %v", min, ok, outcome.sepKey)
	}
}

func TestLeafDeleteFreesSlot(t *testing.T) {
	l := newLeaf[int64, string](8)
	cfg := Config{Order: 4, InitialLeafCapacity: 8}.withDefaults()

	l.insert(1, "one", cfg)
	l.insert(2, "two", cfg)
	if !l.delete(1, cfg) {
		t.Fatal("delete(1) = false, want true")
	}
	if l.liveCount != 1 {
		t.Fatalf("liveCount after delete = %d, want 1", l.liveCount)
	}
	if loc := l.locate(1, cfg.ProbeRadius); loc.found {
		t.Fatal("locate(1) found a deleted key")
	}
}

func TestRespreadPreservesOrderAndCount(t *testing.T) {
	entries := []cell[int64, string]{
		{key: 1, value: "a", live: true},
		{key: 2, value: "b", live: true},
		{key: 3, value: "c", live: true},
		{key: 4, value: "d", live: true},
	}
	out := respread(entries, 16)

	var keys []int64
	for _, c := range out {
		if c.live {
			keys = append(keys, c.key)
		}
	}
	if len(keys) != len(entries) {
		t.Fatalf("respread produced %d live cells, want %d", len(keys), len(entries))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Fatalf("respread disturbed order: %v", keys)
		}
	}
}

func TestModelFitAndPredictMonotonic(t *testing.T) {
	var m model[int64]
	keys := []int64{0, 10, 20, 30, 40}
	positions := []int{0, 2, 4, 6, 8}
	m.fit(keys, positions)

	if !m.trained {
		t.Fatal("fit with 5 samples left model untrained")
	}
	prevPos := -1
	for _, k := range keys {
		p := m.predict(k, 16)
		if p < prevPos {
			t.Fatalf("predict(%d) = %d, not monotonic after previous %d", k, p, prevPos)
		}
		prevPos = p
	}
}

func TestModelPredictClampsOutOfRange(t *testing.T) {
	var m model[int64]
	m.fit([]int64{10, 20, 30}, []int{1, 2, 3})

	if p := m.predict(-1000, 16); p != 0 {
		t.Errorf("predict(below range) = %d, want 0", p)
	}
	if p := m.predict(1000, 16); p != 15 {
		t.Errorf("predict(above range) = %d, want 15", p)
	}
}

func TestModelUntrainedBelowTwoSamples(t *testing.T) {
	var m model[int64]
	m.fit([]int64{1}, []int{0})
	if m.trained {
		t.Fatal("fit with a single sample should leave the model untrained")
	}
}
