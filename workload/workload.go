// Package workload generates mixed read/write traffic against an
// index.Index: OLTP (read-heavy point lookups), OLAP (write-heavy point
// inserts), and Reporting (range scans).
package workload

import (
	"math/rand"

	"kvindex/bpptree/index"
)

type Type string

const (
	OLTP      Type = "OLTP (90/10)"
	OLAP      Type = "OLAP (10/90)"
	Reporting Type = "Reporting (Range)"
)

// Execute runs a mixed distribution of ops against idx, inserting a fixed
// value for every write so call sites only need to supply it once.
func Execute[K index.Number, V any](idx index.Index[K, V], t Type, ops int, keySpace int, value V) {
	for i := 0; i < ops; i++ {
		choice := rand.Intn(100)
		key := K(rand.Intn(keySpace))

		switch t {
		case OLTP:
			if choice < 90 {
				idx.Search(key)
			} else {
				idx.Insert(key, value)
			}
		case OLAP:
			if choice < 10 {
				idx.Search(key)
			} else {
				idx.Insert(key, value)
			}
		case Reporting:
			it := idx.Range(key, key+100)
			for it.Next() {
			}
			it.Close()
		}
	}
}
