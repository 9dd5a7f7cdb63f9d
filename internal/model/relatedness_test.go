package model

import (
	"math"
	"testing"
)

// Self-relatedness is defined as +∞ for every pairwise relatedness kind.
func TestSelfRelatednessIsInfinite(t *testing.T) {
	g := smallGraph()
	s, _, r := newSolutionWithOneVehicle(g)
	s.InsertNode(0, DepotEnd, DepotEnd, r)

	if !math.IsInf(CustomerRelatedness(s, 0, 0), 1) {
		t.Fatalf("CustomerRelatedness(c,c) not +Inf")
	}
	if !math.IsInf(RouteRelatedness(s, r, r), 1) {
		t.Fatalf("RouteRelatedness(r,r) not +Inf")
	}
}

// RouteRelatedness/VehicleRelatedness between a non-operational route or
// vehicle and anything else is -Inf, so destroy operators never select it.
func TestRelatednessNegativeInfinityForEmpty(t *testing.T) {
	g := smallGraph()
	s, v, r := newSolutionWithOneVehicle(g)
	s.InsertNode(0, DepotEnd, DepotEnd, r)

	emptyRoute := s.AddRoute(v)
	if !math.IsInf(RouteRelatedness(s, r, emptyRoute), -1) {
		t.Fatalf("RouteRelatedness with an empty route not -Inf")
	}

	emptyVeh := s.AddVehicle(0, g.VehicleTypes[0])
	if !math.IsInf(VehicleRelatedness(s, v, emptyVeh), -1) {
		t.Fatalf("VehicleRelatedness with an empty vehicle not -Inf")
	}
}

// Two customers on the same route/vehicle/depot must be more related than
// two otherwise-identical customers with nothing in common.
func TestCustomerRelatednessSharedRouteIsHigher(t *testing.T) {
	g := smallGraph()
	s, _, r := newSolutionWithOneVehicle(g)
	s.InsertNode(0, DepotEnd, DepotEnd, r)
	s.InsertNode(1, 0, DepotEnd, r)

	same := CustomerRelatedness(s, 0, 1)

	s2, _, r2a := newSolutionWithOneVehicle(g)
	v2 := s2.Vehicles[0]
	r2b := s2.AddRoute(s2.AddVehicle(0, v2))
	s2.InsertNode(0, DepotEnd, DepotEnd, r2a)
	s2.InsertNode(1, DepotEnd, DepotEnd, r2b)
	diff := CustomerRelatedness(s2, 0, 1)

	if same <= diff {
		t.Fatalf("same-route relatedness (%v) not greater than different-route relatedness (%v)", same, diff)
	}
}

// CustomerRelatedness's time term must come from the window's early bound
// (Window.Start), not the cached arrival time. This is only distinguishable
// with TimeTracking off, where Arrive stays +Inf for every customer — using
// it would make the denominator NaN regardless of how far apart the two
// customers' windows actually are.
func TestCustomerRelatednessUsesWindowStartNotArrival(t *testing.T) {
	g := smallGraph()
	s, _, r := newSolutionWithOneVehicle(g)
	s.InsertNode(0, DepotEnd, DepotEnd, r)
	s.InsertNode(1, 0, DepotEnd, r)

	s.Customers[0].Window.Start = 100
	s.Customers[1].Window.Start = 100
	close := CustomerRelatedness(s, 0, 1)

	s.Customers[1].Window.Start = 500
	far := CustomerRelatedness(s, 0, 1)

	if math.IsNaN(close) || math.IsNaN(far) {
		t.Fatalf("relatedness is NaN: close=%v far=%v (Arrive is +Inf with TimeTracking off)", close, far)
	}
	if close <= far {
		t.Fatalf("matching window starts (%v) should be more related than a 400-unit gap (%v)", close, far)
	}
}
