package dashboard

// Row is one sparse aggregate. Key is the 1-based month or day of month.
type Row[V any] struct {
	Key   int
	Value V
}

// Fill spreads rows over a slice of length n, indexed by Key-1. Positions without a
// row stay nil, which renders as null rather than zero. Keys outside 1..n are dropped.
func Fill[V any](n int, rows []Row[V]) []*V {
	out := make([]*V, n)
	for _, r := range rows {
		if r.Key < 1 || r.Key > n {
			continue
		}
		v := r.Value
		out[r.Key-1] = &v
	}
	return out
}
