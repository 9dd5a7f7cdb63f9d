package model

import "testing"

func evalGraph() *Graph {
	g := &Graph{
		Depots: []Depot{
			{Index: 0, Coord: Point{0, 0}, Capacity: 100, CostFixed: 1000, ShareLow: 0, ShareHigh: 1, Window: TimeWindow{0, 1e9}},
		},
		Customers: []Customer{
			{Index: 0, NodeID: 1, Coord: Point{1, 0}, Demand: 5, Window: TimeWindow{0, 1e9}},
		},
		Arcs: map[ArcKey]float64{{0, 1}: 1},
	}
	return g
}

// A solution with an unassigned customer must be infeasible and its
// penalty term must reflect the customer's demand.
func TestIsFeasibleOpenCustomer(t *testing.T) {
	g := evalGraph()
	s := NewSolution(g)

	if IsFeasible(s) {
		t.Fatalf("solution with an open customer reported feasible")
	}
	b := Evaluate(s, Weights{Fixed: 1, Operational: 1, Penalty: 1})
	if b.Penalty != 5 {
		t.Fatalf("penalty = %v, want 5 (the open customer's demand)", b.Penalty)
	}
}

// Once every customer is placed within capacity and window, the solution
// must be feasible and the penalty term zero.
func TestIsFeasibleAfterInsert(t *testing.T) {
	g := evalGraph()
	g.VehicleTypes = []Vehicle{{Depot: 0, Capacity: 100, Range: 1e9, Speed: 1, MaxWorkDur: 1e9}}
	s, _, r := newSolutionWithOneVehicle(g)

	s.InsertNode(0, DepotEnd, DepotEnd, r)
	s.Postinsert()

	if !IsFeasible(s) {
		t.Fatalf("fully assigned, in-capacity solution reported infeasible")
	}
}

// Evaluate's fixed term only counts operational depots/vehicles.
func TestEvaluateFixedCostOnlyWhenOperational(t *testing.T) {
	g := evalGraph()
	s := NewSolution(g)
	b := Evaluate(s, Weights{Fixed: 1})
	if b.Fixed != 0 {
		t.Fatalf("fixed = %v, want 0 for a depot with no operational vehicles", b.Fixed)
	}
}
