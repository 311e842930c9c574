package bpptree

import "kvindex/bpptree/index"

// Number re-exports index.Number so the rest of this package can spell the
// constraint without qualifying every type parameter.
type Number = index.Number
