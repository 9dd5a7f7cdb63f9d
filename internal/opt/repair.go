package opt

import (
	"math/rand"
	"sort"

	"lrpalns/internal/model"
)

// candidateSlot is one (customer, insertion position) evaluation: the
// objective value after a try-and-undo insert, and where it was tried.
type candidateSlot struct {
	cost           float64
	tail, head, rt int
}

// routeInsertionSlots enumerates every (tail, head) pair an open customer
// could be spliced between in route r, including both depot endpoints of
// an empty route.
func routeInsertionSlots(s *model.Solution, r int) [][2]int {
	route := &s.Routes[r]
	if route.Count == 0 {
		return [][2]int{{model.DepotEnd, model.DepotEnd}}
	}
	var slots [][2]int
	tail := model.DepotEnd
	c := route.First
	for c != -1 {
		slots = append(slots, [2]int{tail, c})
		tail = c
		c = s.Customers[c].Next
	}
	slots = append(slots, [2]int{tail, model.DepotEnd})
	return slots
}

func openCustomers(s *model.Solution) []int {
	var out []int
	for i := range s.Customers {
		if s.Customers[i].Open() {
			out = append(out, i)
		}
	}
	return out
}

// customerCandidates is the one-step try-and-undo of §4.5: for every
// candidate position across every route, insert c (through InsertNode),
// score f(s) with penalties on, and remove it back. Correctness rests on
// InsertNode/RemoveNode being a perfect inverse pair (§8 property 5).
func customerCandidates(s *model.Solution, c int, w model.Weights, rng *rand.Rand, perturbed bool) []candidateSlot {
	return customerCandidatesAtDepot(s, c, w, rng, perturbed, -1)
}

// customerCandidatesAtDepot is customerCandidates restricted to routes
// belonging to one depot, used by swap_depots (§4.6) to redistribute a
// depot's former customers without letting them drift back to it.
func customerCandidatesAtDepot(s *model.Solution, c int, w model.Weights, rng *rand.Rand, perturbed bool, depot int) []candidateSlot {
	var out []candidateSlot
	for r := 1; r < len(s.Routes); r++ {
		if depot != -1 && s.Routes[r].Depot != depot {
			continue
		}
		for _, slot := range routeInsertionSlots(s, r) {
			s.InsertNode(c, slot[0], slot[1], r)
			z := model.Evaluate(s, w).Total
			s.RemoveNode(c)
			if perturbed {
				z *= noise1(rng)
			}
			out = append(out, candidateSlot{z, slot[0], slot[1], r})
		}
	}
	return out
}

func bestCandidate(cands []candidateSlot) candidateSlot {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.cost < best.cost {
			best = c
		}
	}
	return best
}

func insertWithPolicy(rng *rand.Rand, s *model.Solution, w model.Weights, perturbed bool) {
	s.Preinsert()
	for {
		open := openCustomers(s)
		if len(open) == 0 {
			break
		}
		c := open[0]
		cands := customerCandidates(s, c, w, rng, perturbed)
		if len(cands) == 0 {
			break // no route at all; nothing more this operator can do
		}
		b := bestCandidate(cands)
		s.InsertNode(c, b.tail, b.head, b.rt)
	}
	s.Postinsert()
}

// insertBest scans open customers in index order, choosing each one's
// minimizing position, and inserts it before moving to the next (§4.5).
func insertBest(rng *rand.Rand, s *model.Solution, w model.Weights) {
	insertWithPolicy(rng, s, w, false)
}

func insertBestPerturbed(rng *rand.Rand, s *model.Solution, w model.Weights) {
	insertWithPolicy(rng, s, w, true)
}

// insertGreedy considers all (customer, position) pairs each round and
// commits only the single globally minimizing pair before recomputing
// (§4.5) — strictly more work than insertBest per round, but each
// commitment accounts for every other customer still waiting.
func insertGreedyWithPolicy(rng *rand.Rand, s *model.Solution, w model.Weights, perturbed bool) {
	s.Preinsert()
	for {
		open := openCustomers(s)
		if len(open) == 0 {
			break
		}
		var globalBest candidateSlot
		globalC := -1
		for _, c := range open {
			cands := customerCandidates(s, c, w, rng, perturbed)
			if len(cands) == 0 {
				continue
			}
			b := bestCandidate(cands)
			if globalC == -1 || b.cost < globalBest.cost {
				globalBest, globalC = b, c
			}
		}
		if globalC == -1 {
			break
		}
		s.InsertNode(globalC, globalBest.tail, globalBest.head, globalBest.rt)
	}
	s.Postinsert()
}

func insertGreedy(rng *rand.Rand, s *model.Solution, w model.Weights) {
	insertGreedyWithPolicy(rng, s, w, false)
}

// redistributeGreedyAtDepot runs the same globally-minimizing commitment
// loop as insertGreedy, restricted to one depot's routes and without the
// preinsert!/postinsert! hooks — callers that already hold those hooks
// open across a larger local-search move (split, swap_depots) drive them
// directly.
func redistributeGreedyAtDepot(rng *rand.Rand, s *model.Solution, w model.Weights, depot int) {
	for {
		open := openCustomers(s)
		if len(open) == 0 {
			return
		}
		var globalBest candidateSlot
		globalC := -1
		for _, c := range open {
			cands := customerCandidatesAtDepot(s, c, w, rng, false, depot)
			if len(cands) == 0 {
				continue
			}
			b := bestCandidate(cands)
			if globalC == -1 || b.cost < globalBest.cost {
				globalBest, globalC = b, c
			}
		}
		if globalC == -1 {
			return
		}
		s.InsertNode(globalC, globalBest.tail, globalBest.head, globalBest.rt)
	}
}

func insertGreedyPerturbed(rng *rand.Rand, s *model.Solution, w model.Weights) {
	insertGreedyWithPolicy(rng, s, w, true)
}

// regretInsertK returns a regret-k insertion operator (§4.5): for each open
// customer it computes the k best positions' costs z1≤…≤zk and regret
// Σ(zi−z1), then inserts the customer of maximum regret at its z1 position.
func regretInsertK(k int, perturbed bool) InsertionFunc {
	return func(rng *rand.Rand, s *model.Solution, w model.Weights) {
		s.Preinsert()
		for {
			open := openCustomers(s)
			if len(open) == 0 {
				break
			}
			bestRegret := -1.0
			bestCustomer := -1
			var bestSlot candidateSlot
			for _, c := range open {
				cands := customerCandidates(s, c, w, rng, perturbed)
				if len(cands) == 0 {
					continue
				}
				sort.Slice(cands, func(i, j int) bool { return cands[i].cost < cands[j].cost })
				kk := k
				if kk > len(cands) {
					kk = len(cands)
				}
				z1 := cands[0].cost
				regret := 0.0
				for i := 0; i < kk; i++ {
					regret += cands[i].cost - z1
				}
				if bestCustomer == -1 || regret > bestRegret {
					bestRegret, bestCustomer, bestSlot = regret, c, cands[0]
				}
			}
			if bestCustomer == -1 {
				break
			}
			s.InsertNode(bestCustomer, bestSlot.tail, bestSlot.head, bestSlot.rt)
		}
		s.Postinsert()
	}
}
