package opt

import (
	"math/rand"

	"lrpalns/internal/model"
)

// Every local-search operator below takes a budget of attempts and keeps
// only strictly improving moves (Δf < 0), per §4.6. Each mutation routes
// through InsertNode/RemoveNode so the solution's cached aggregates stay
// correct whether the move is kept or rolled back.

// insertSequence splices seq, in order, between tail and head of route.
func insertSequence(s *model.Solution, tail, head, route int, seq []int) {
	t := tail
	for _, c := range seq {
		s.InsertNode(c, t, head, route)
		t = c
	}
}

func allRoutes(s *model.Solution) []int {
	out := make([]int, 0, len(s.Routes)-1)
	for r := 1; r < len(s.Routes); r++ {
		out = append(out, r)
	}
	return out
}

// lsMove relocates one customer to a random position, keeping the move
// only if it strictly improves f.
func lsMove(rng *rand.Rand, s *model.Solution, w model.Weights, budget int) bool {
	improved := false
	for attempt := 0; attempt < budget; attempt++ {
		closed := closedCustomers(s)
		if len(closed) == 0 {
			return improved
		}
		c := closed[rng.Intn(len(closed))]
		cust := &s.Customers[c]
		origTail, origHead, origRoute := cust.Prev, cust.Next, cust.Route

		z0 := model.Evaluate(s, w).Total
		s.RemoveNode(c)

		routes := allRoutes(s)
		r := routes[rng.Intn(len(routes))]
		slots := routeInsertionSlots(s, r)
		slot := slots[rng.Intn(len(slots))]
		s.InsertNode(c, slot[0], slot[1], r)

		z1 := model.Evaluate(s, w).Total
		if z1 < z0 {
			improved = true
			continue
		}
		s.RemoveNode(c)
		s.InsertNode(c, origTail, origHead, origRoute)
	}
	return improved
}

// lsIntraOpt reverses a random subsegment of one route (2-opt within a
// route).
func lsIntraOpt(rng *rand.Rand, s *model.Solution, w model.Weights, budget int) bool {
	improved := false
	for attempt := 0; attempt < budget; attempt++ {
		pool := routesWithAtLeast(s, 2)
		if len(pool) == 0 {
			return improved
		}
		r := pool[rng.Intn(len(pool))]
		seq := routeCustomers(s, r)
		n := len(seq)
		i, j := rng.Intn(n), rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		if i == j {
			continue
		}
		tail, head := model.DepotEnd, model.DepotEnd
		if i > 0 {
			tail = seq[i-1]
		}
		if j < n-1 {
			head = seq[j+1]
		}
		segment := seq[i : j+1]

		z0 := model.Evaluate(s, w).Total
		for _, c := range segment {
			s.RemoveNode(c)
		}
		reversed := reverseInts(segment)
		insertSequence(s, tail, head, r, reversed)

		z1 := model.Evaluate(s, w).Total
		if z1 < z0 {
			improved = true
			continue
		}
		for _, c := range reversed {
			s.RemoveNode(c)
		}
		insertSequence(s, tail, head, r, segment)
	}
	return improved
}

// lsInterOpt is 2-opt across two distinct routes: it swaps the tail
// portions of both routes past a random split point in each.
func lsInterOpt(rng *rand.Rand, s *model.Solution, w model.Weights, budget int) bool {
	improved := false
	for attempt := 0; attempt < budget; attempt++ {
		pool := operationalRoutes(s)
		if len(pool) < 2 {
			return improved
		}
		r1 := pool[rng.Intn(len(pool))]
		r2 := pool[rng.Intn(len(pool))]
		if r1 == r2 {
			continue
		}
		seq1 := routeCustomers(s, r1)
		seq2 := routeCustomers(s, r2)
		i := rng.Intn(len(seq1) + 1)
		j := rng.Intn(len(seq2) + 1)
		prefix1, suffix1 := seq1[:i], seq1[i:]
		prefix2, suffix2 := seq2[:j], seq2[j:]
		if len(suffix1) == 0 && len(suffix2) == 0 {
			continue
		}
		tail1, tail2 := model.DepotEnd, model.DepotEnd
		if len(prefix1) > 0 {
			tail1 = prefix1[len(prefix1)-1]
		}
		if len(prefix2) > 0 {
			tail2 = prefix2[len(prefix2)-1]
		}

		z0 := model.Evaluate(s, w).Total
		for _, c := range suffix1 {
			s.RemoveNode(c)
		}
		for _, c := range suffix2 {
			s.RemoveNode(c)
		}
		insertSequence(s, tail1, model.DepotEnd, r1, suffix2)
		insertSequence(s, tail2, model.DepotEnd, r2, suffix1)

		z1 := model.Evaluate(s, w).Total
		if z1 < z0 {
			improved = true
			continue
		}
		for _, c := range suffix2 {
			s.RemoveNode(c)
		}
		for _, c := range suffix1 {
			s.RemoveNode(c)
		}
		insertSequence(s, tail1, model.DepotEnd, r1, suffix1)
		insertSequence(s, tail2, model.DepotEnd, r2, suffix2)
	}
	return improved
}

// lsSplit closes a random route and redistributes its customers by greedy
// insertion elsewhere, keeping the move only if it improves f.
func lsSplit(rng *rand.Rand, s *model.Solution, w model.Weights, budget int) bool {
	improved := false
	for attempt := 0; attempt < budget; attempt++ {
		pool := operationalRoutes(s)
		if len(pool) == 0 {
			return improved
		}
		r := pool[rng.Intn(len(pool))]
		seq := routeCustomers(s, r)
		if len(seq) == 0 {
			continue
		}

		z0 := model.Evaluate(s, w).Total
		for _, c := range seq {
			s.RemoveNode(c)
		}
		s.Preinsert()
		redistributeGreedyAtDepot(rng, s, w, -1)

		z1 := model.Evaluate(s, w).Total
		if z1 < z0 {
			improved = true
			continue
		}
		for _, c := range seq {
			if !s.Customers[c].Open() {
				s.RemoveNode(c)
			}
		}
		insertSequence(s, model.DepotEnd, model.DepotEnd, r, seq)
	}
	return improved
}

// lsSwapCustomers exchanges the positions of two non-adjacent closed
// customers, possibly across routes.
func lsSwapCustomers(rng *rand.Rand, s *model.Solution, w model.Weights, budget int) bool {
	improved := false
	for attempt := 0; attempt < budget; attempt++ {
		closed := closedCustomers(s)
		if len(closed) < 2 {
			return improved
		}
		c1 := closed[rng.Intn(len(closed))]
		c2 := closed[rng.Intn(len(closed))]
		if c1 == c2 {
			continue
		}
		cu1, cu2 := &s.Customers[c1], &s.Customers[c2]
		if cu1.Next == c2 || cu2.Next == c1 {
			continue // adjacent: slots would shift mid-swap
		}
		t1, h1, r1 := cu1.Prev, cu1.Next, cu1.Route
		t2, h2, r2 := cu2.Prev, cu2.Next, cu2.Route

		z0 := model.Evaluate(s, w).Total
		s.RemoveNode(c1)
		s.RemoveNode(c2)
		s.InsertNode(c1, t2, h2, r2)
		s.InsertNode(c2, t1, h1, r1)

		z1 := model.Evaluate(s, w).Total
		if z1 < z0 {
			improved = true
			continue
		}
		s.RemoveNode(c1)
		s.RemoveNode(c2)
		s.InsertNode(c1, t1, h1, r1)
		s.InsertNode(c2, t2, h2, r2)
	}
	return improved
}

// lsSwapDepots moves every customer served by one depot's fleet to
// another depot, redistributing them by greedy insertion restricted to the
// target depot's routes.
func lsSwapDepots(rng *rand.Rand, s *model.Solution, w model.Weights, budget int) bool {
	improved := false
	for attempt := 0; attempt < budget; attempt++ {
		from := operationalDepots(s)
		if len(from) == 0 || len(s.Depots) < 2 {
			return improved
		}
		d1 := from[rng.Intn(len(from))]
		d2 := rng.Intn(len(s.Depots))
		if d2 == d1 {
			continue
		}

		var routeIDs []int
		for _, vi := range s.Depots[d1].Vehicles {
			routeIDs = append(routeIDs, s.Vehicles[vi].Routes...)
		}
		origSeqs := make(map[int][]int, len(routeIDs))
		var customers []int
		for _, ri := range routeIDs {
			seq := routeCustomers(s, ri)
			if len(seq) == 0 {
				continue
			}
			origSeqs[ri] = seq
			customers = append(customers, seq...)
		}
		if len(customers) == 0 {
			continue
		}

		z0 := model.Evaluate(s, w).Total
		for _, c := range customers {
			s.RemoveNode(c)
		}
		s.Preinsert()
		redistributeGreedyAtDepot(rng, s, w, d2)

		z1 := model.Evaluate(s, w).Total
		if z1 < z0 {
			improved = true
			continue
		}
		for _, c := range customers {
			if !s.Customers[c].Open() {
				s.RemoveNode(c)
			}
		}
		for _, ri := range routeIDs {
			if seq, ok := origSeqs[ri]; ok {
				insertSequence(s, model.DepotEnd, model.DepotEnd, ri, seq)
			}
		}
	}
	return improved
}

func routesWithAtLeast(s *model.Solution, n int) []int {
	var out []int
	for r := 1; r < len(s.Routes); r++ {
		if s.Routes[r].Count >= n {
			out = append(out, r)
		}
	}
	return out
}

func reverseInts(in []int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
