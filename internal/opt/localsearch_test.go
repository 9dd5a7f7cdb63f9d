package opt

import (
	"math/rand"
	"testing"

	"lrpalns/internal/model"
)

// twoDepotGraph puts two depots 100 units apart, each able to host its own
// fleet, with two customers sitting right next to depot 0 and far from
// depot 1 — any move of those customers to depot 1's fleet is strictly
// worse, which is what lsSwapDepots's rejection path below needs.
func twoDepotGraph() *model.Graph {
	return &model.Graph{
		Depots: []model.Depot{
			{Index: 0, Coord: model.Point{0, 0}, Capacity: 1000, ShareHigh: 1, Window: model.TimeWindow{0, 1e9}},
			{Index: 1, Coord: model.Point{100, 0}, Capacity: 1000, ShareHigh: 1, Window: model.TimeWindow{0, 1e9}},
		},
		Customers: []model.Customer{
			{Index: 0, NodeID: 2, Coord: model.Point{1, 0}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 1, NodeID: 3, Coord: model.Point{2, 0}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
		},
		Arcs: map[model.ArcKey]float64{
			{0, 1}: 100,
			{0, 2}: 1, {0, 3}: 2,
			{1, 2}: 99, {1, 3}: 98,
			{2, 3}: 1,
		},
		VehicleTypes: []model.Vehicle{
			{Depot: 0, Capacity: 60, Range: 1e9, Speed: 1, MaxWorkDur: 1e9, MaxRoutes: 3},
			{Depot: 1, Capacity: 60, Range: 1e9, Speed: 1, MaxWorkDur: 1e9, MaxRoutes: 3},
		},
	}
}

// Rejecting a swap_depots move must restore the exact pre-move placement
// (and therefore the exact pre-move cost), matching every other local-search
// operator in this file.
func TestLsSwapDepotsRestoresExactPlacementOnRejection(t *testing.T) {
	g := twoDepotGraph()
	w := model.Weights{Fixed: 1, Operational: 1, Penalty: 1000}
	s := model.NewSolution(g)
	v0 := s.AddVehicle(0, g.VehicleTypes[0])
	r0 := s.AddRoute(v0)
	v1 := s.AddVehicle(1, g.VehicleTypes[1])
	s.AddRoute(v1)

	s.InsertNode(0, model.DepotEnd, model.DepotEnd, r0)
	s.InsertNode(1, 0, model.DepotEnd, r0)

	before := model.Evaluate(s, w).Total
	beforeRoute, beforePrev1, beforeNext0 := s.Customers[0].Route, s.Customers[1].Prev, s.Customers[0].Next

	rng := rand.New(rand.NewSource(7))
	if lsSwapDepots(rng, s, w, 5) {
		t.Fatalf("expected moving both customers onto the far depot's fleet to be rejected")
	}

	after := model.Evaluate(s, w).Total
	if after != before {
		t.Fatalf("rejection did not restore the original cost: got %v want %v", after, before)
	}
	if s.Customers[0].Route != beforeRoute || s.Customers[1].Route != beforeRoute {
		t.Fatalf("rejection did not restore both customers to route %d", beforeRoute)
	}
	if s.Customers[0].Next != beforeNext0 || s.Customers[1].Prev != beforePrev1 {
		t.Fatalf("rejection did not restore the exact chain order")
	}
}
