package opt

import (
	"math"
	"math/rand"

	"lrpalns/internal/model"
)

// materializeFleet instantiates one live Vehicle per template in
// g.VehicleTypes, each starting with a single empty route, and returns the
// fresh Solution. Builders never invent vehicles beyond what the graph's
// fleet roster provides; Preinsert grows the fleet further only where the
// add_vehicle/add_route predicates allow it.
func materializeFleet(g *model.Graph) *model.Solution {
	s := model.NewSolution(g)
	for d := range s.Depots {
		for _, tmpl := range g.VehicleTypesAt(d) {
			v := s.AddVehicle(d, tmpl)
			s.AddRoute(v)
		}
	}
	return s
}

// finishBuild runs postinsert! once placement is done and reports
// model.InfeasibleInitial if any customer remains open (§6, §7).
func finishBuild(s *model.Solution) error {
	s.Postinsert()
	for i := range s.Customers {
		if s.Customers[i].Open() {
			return model.NewInfeasibleInitial("builder left %d customers unplaced", countOpen(s))
		}
	}
	return nil
}

func countOpen(s *model.Solution) int {
	n := 0
	for i := range s.Customers {
		if s.Customers[i].Open() {
			n++
		}
	}
	return n
}

func nearestDepot(g *model.Graph, c int) int {
	best, bestDist := -1, math.Inf(1)
	for d := range g.Depots {
		dist := g.Arc(g.DepotNodeID(d), g.CustomerNodeID(c))
		if best == -1 || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

// BuildRandom places customers in random order at a uniformly random slot,
// growing the fleet via Preinsert whenever the current route set runs out
// (§6 method "random": no optimization, a baseline for comparison).
func BuildRandom(rng *rand.Rand, g *model.Graph, w model.Weights) (*model.Solution, error) {
	s := materializeFleet(g)
	s.Preinsert()

	order := rng.Perm(len(s.Customers))
	for _, c := range order {
		routes := allRoutes(s)
		if len(routes) == 0 {
			break
		}
		r := routes[rng.Intn(len(routes))]
		slots := routeInsertionSlots(s, r)
		slot := slots[rng.Intn(len(slots))]
		s.InsertNode(c, slot[0], slot[1], r)
		s.Preinsert()
	}
	return s, finishBuild(s)
}

// BuildNearestNeighbor grows every route by repeatedly appending its
// closest remaining open customer, round-robin across routes, growing the
// fleet via Preinsert when every route has had a turn and customers remain
// (§6 method "nn").
func BuildNearestNeighbor(rng *rand.Rand, g *model.Graph, w model.Weights) (*model.Solution, error) {
	s := materializeFleet(g)
	s.Preinsert()

	iterCap := len(s.Customers)*2 + 10
	for iter := 0; iter < iterCap; iter++ {
		if countOpen(s) == 0 {
			break
		}
		progressed := false
		for _, r := range allRoutes(s) {
			if countOpen(s) == 0 {
				break
			}
			route := &s.Routes[r]
			lastNode := s.Graph.DepotNodeID(route.Depot)
			tail := model.DepotEnd
			if route.Last != -1 {
				lastNode = s.Graph.CustomerNodeID(route.Last)
				tail = route.Last
			}
			bestC, bestDist := -1, math.Inf(1)
			for c := range s.Customers {
				if !s.Customers[c].Open() {
					continue
				}
				d := s.Graph.Arc(lastNode, s.Graph.CustomerNodeID(c))
				if bestC == -1 || d < bestDist {
					bestC, bestDist = c, d
				}
			}
			if bestC == -1 {
				continue
			}
			s.InsertNode(bestC, tail, model.DepotEnd, r)
			progressed = true
		}
		if !progressed || countOpen(s) > 0 {
			s.Preinsert()
		}
	}
	return s, finishBuild(s)
}

// BuildCluster assigns each customer to its nearest depot, then fills that
// depot's routes in capacity order by nearest-neighbor (§6 method
// "cluster"): a depot-aware variant of BuildNearestNeighbor.
func BuildCluster(rng *rand.Rand, g *model.Graph, w model.Weights) (*model.Solution, error) {
	s := materializeFleet(g)
	s.Preinsert()

	assigned := make([]int, len(s.Customers))
	for c := range s.Customers {
		assigned[c] = nearestDepot(s.Graph, c)
	}

	iterCap := len(s.Customers)*2 + 10
	for iter := 0; iter < iterCap; iter++ {
		if countOpen(s) == 0 {
			break
		}
		progressed := false
		for _, r := range allRoutes(s) {
			route := &s.Routes[r]
			veh := &s.Vehicles[route.Vehicle]
			if route.Load >= veh.Capacity {
				continue
			}
			lastNode := s.Graph.DepotNodeID(route.Depot)
			tail := model.DepotEnd
			if route.Last != -1 {
				lastNode = s.Graph.CustomerNodeID(route.Last)
				tail = route.Last
			}
			bestC, bestDist := -1, math.Inf(1)
			for c := range s.Customers {
				if !s.Customers[c].Open() || assigned[c] != route.Depot {
					continue
				}
				d := s.Graph.Arc(lastNode, s.Graph.CustomerNodeID(c))
				if bestC == -1 || d < bestDist {
					bestC, bestDist = c, d
				}
			}
			if bestC == -1 {
				continue
			}
			s.InsertNode(bestC, tail, model.DepotEnd, r)
			progressed = true
		}
		if !progressed {
			s.Preinsert()
		}
	}
	return s, finishBuild(s)
}

// BuildClarkeWright is the classic savings construction (§6 method "cw"):
// every customer starts in its own single-customer route at its nearest
// depot, then routes are merged tail-to-head in descending order of
// savings save(i,j) = arc(depot,i)+arc(depot,j)-arc(i,j) until no positive
// merge remains.
func BuildClarkeWright(rng *rand.Rand, g *model.Graph, w model.Weights) (*model.Solution, error) {
	s := materializeFleet(g)
	s.Preinsert()

	for c := range s.Customers {
		d := nearestDepot(s.Graph, c)
		r := emptyRouteAtDepot(s, d)
		if r == -1 {
			s.Preinsert()
			r = emptyRouteAtDepot(s, d)
		}
		if r == -1 {
			// the add_* predicates refuse a new route while the fleet has
			// headroom, so open one on a fresh vehicle of the depot's first type
			if tmpls := s.Graph.VehicleTypesAt(d); len(tmpls) > 0 {
				r = s.AddRoute(s.AddVehicle(d, tmpls[0]))
			}
		}
		if r == -1 {
			continue // left open; finishBuild reports InfeasibleInitial
		}
		s.InsertNode(c, model.DepotEnd, model.DepotEnd, r)
	}

	for iter := 0; iter < len(s.Customers); iter++ {
		pool := operationalRoutes(s)
		bestR1, bestR2, bestSaving := -1, -1, 0.0
		for i, r1 := range pool {
			for _, r2 := range pool[i+1:] {
				a, b := &s.Routes[r1], &s.Routes[r2]
				if a.Depot != b.Depot || a.Last == -1 || b.First == -1 {
					continue
				}
				dep := s.Graph.DepotNodeID(a.Depot)
				last1 := s.Graph.CustomerNodeID(a.Last)
				first2 := s.Graph.CustomerNodeID(b.First)
				saving := s.Graph.Arc(dep, last1) + s.Graph.Arc(dep, first2) - s.Graph.Arc(last1, first2)
				if saving > bestSaving {
					bestSaving, bestR1, bestR2 = saving, r1, r2
				}
			}
		}
		if bestR1 == -1 {
			break
		}
		mergeRouteInto(s, bestR1, bestR2)
	}
	return s, finishBuild(s)
}

func emptyRouteAtDepot(s *model.Solution, d int) int {
	for _, vi := range s.Depots[d].Vehicles {
		for _, ri := range s.Vehicles[vi].Routes {
			if s.Routes[ri].Count == 0 {
				return ri
			}
		}
	}
	return -1
}

// mergeRouteInto appends source's customer sequence onto the tail of
// target and leaves source empty (garbage-collected by the next
// postinsert!).
func mergeRouteInto(s *model.Solution, target, source int) {
	seq := routeCustomers(s, source)
	for _, c := range seq {
		s.RemoveNode(c)
	}
	tail := model.DepotEnd
	if s.Routes[target].Last != -1 {
		tail = s.Routes[target].Last
	}
	insertSequence(s, tail, model.DepotEnd, target, seq)
}

// BuildRegret2 and BuildRegret3 hand a freshly materialized, all-open
// solution straight to the regret-k repair operator (§4.5): construction
// and repair share the same placement logic by design.
func BuildRegret2(rng *rand.Rand, g *model.Graph, w model.Weights) (*model.Solution, error) {
	s := materializeFleet(g)
	regretInsertK(2, false)(rng, s, w)
	return s, finishOpenCheck(s)
}

func BuildRegret3(rng *rand.Rand, g *model.Graph, w model.Weights) (*model.Solution, error) {
	s := materializeFleet(g)
	regretInsertK(3, false)(rng, s, w)
	return s, finishOpenCheck(s)
}

func finishOpenCheck(s *model.Solution) error {
	if n := countOpen(s); n > 0 {
		return model.NewInfeasibleInitial("builder left %d customers unplaced", n)
	}
	return nil
}
