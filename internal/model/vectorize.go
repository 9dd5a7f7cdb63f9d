package model

import (
	"hash/fnv"
	"sort"
)

// Vectorize produces the canonical per-depot visit sequence of s (§4.7 step
// 2): for each depot, its operational routes in vehicle/slot order, each as
// the ordered list of customer node ids along its chain. Two solutions that
// differ only in arena slot numbering (e.g. after postinsert renumbers
// routes) still vectorize identically, which is what makes the derived hash
// usable for ALNS duplicate detection.
func Vectorize(s *Solution) [][]int {
	out := make([][]int, 0, len(s.Depots))
	for d := range s.Depots {
		var seq []int
		vehIdx := append([]int(nil), s.Depots[d].Vehicles...)
		sort.Ints(vehIdx)
		for _, vi := range vehIdx {
			veh := &s.Vehicles[vi]
			for _, ri := range veh.Routes {
				r := &s.Routes[ri]
				if !r.Operational() {
					continue
				}
				for c := r.First; c != -1; {
					cust := &s.Customers[c]
					seq = append(seq, cust.NodeID)
					c = cust.Next
				}
				seq = append(seq, -1) // route separator
			}
		}
		out = append(out, seq)
	}
	return out
}

// VectorizeHash is a stable 64-bit hash of Vectorize(s), used by the ALNS
// driver (§4.7) to detect whether a trial solution's shape has been seen
// before within the run.
func VectorizeHash(s *Solution) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeInt := func(v int) {
		u := uint64(int64(v))
		for i := 0; i < 8; i++ {
			buf[i] = byte(u >> (8 * i))
		}
		h.Write(buf[:])
	}
	for _, seq := range Vectorize(s) {
		writeInt(-2) // depot separator, distinct from the -1 route separator
		for _, id := range seq {
			writeInt(id)
		}
	}
	return h.Sum64()
}
