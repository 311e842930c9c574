// Package index defines the shared contract every ordered key/value
// structure in this repository implements, so the benchmark driver in
// cmd/bpptreebench can sweep them interchangeably.
package index

// Number is the set of key types admitting both ordering and a lossless-
// enough cast to float64 for the B++ tree's linear predictor.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Index is the contract shared by every structure in this repository:
// the B++ tree (index/bpptree) and its comparison baselines
// (index/btree, index/bplustree, index/lsmtree, index/pebbleindex).
//
// There is deliberately no SaveTo/LoadFrom here: none of these structures
// keep a persistent or on-disk representation. index/pebbleindex, the one
// baseline backed by a real storage engine, opens pebble against an
// in-memory VFS for the same reason.
type Index[K Number, V any] interface {
	// Insert writes (key, value). If key was already present its prior
	// value is returned with hadPrior = true; size is unchanged in that
	// case.
	Insert(key K, value V) (prior V, hadPrior bool)

	// Search returns the value for key, or the zero value and false if
	// key is absent. Absence is never an error.
	Search(key K) (V, bool)

	// Delete removes key if present and reports whether it was removed.
	// Delete of an absent key is not an error.
	Delete(key K) bool

	// Range returns a finite, single-pass, non-restartable cursor over
	// all (key, value) pairs with lo <= key <= hi, in ascending order.
	Range(lo, hi K) Iterator[K, V]

	// Iter returns a finite, single-pass, non-restartable cursor over
	// every (key, value) pair in ascending order.
	Iter() Iterator[K, V]

	// Stats reports a point-in-time snapshot computed by a single walk.
	Stats() Stats

	// Close releases any resources held by the structure. Safe to call
	// on structures that hold none.
	Close() error
}

// Stats is a point-in-time statistics snapshot. Fields that only apply to
// the B++ tree's gapped-leaf/predictor design are zero-valued
// (HasModelHitRate = false) on the comparison baselines.
type Stats struct {
	Size             int
	Leaves           int
	Height           int
	AvgUtilization   float64
	LeavesWithModels int
	ModelHitRate     float64
	HasModelHitRate  bool
}
