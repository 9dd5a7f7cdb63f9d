package model

import "math"

// Solution is the mutable live graph: per-run copies of every depot, vehicle,
// route and customer, all cached aggregates, and a reference to the static
// Graph they were built from. Route slot 0 is the NullRoute sentinel and is
// never a real route.
type Solution struct {
	Graph *Graph

	Depots    []Depot
	Vehicles  []Vehicle
	Routes    []Route
	Customers []Customer

	nextVehicleSlot []int // per-depot counter for fresh vehicle indices
	nextRouteSlot   int   // global counter for fresh route indices
}

// NewSolution builds an empty live Solution from a static Graph: every
// customer starts open, every depot starts with no vehicles.
func NewSolution(g *Graph) *Solution {
	s := &Solution{
		Graph:     g,
		Depots:    make([]Depot, len(g.Depots)),
		Customers: make([]Customer, len(g.Customers)),
		Routes:    []Route{{Index: NullRoute, Depot: -1, Vehicle: -1, Slot: -1, First: -1, Last: -1}},
	}
	copy(s.Depots, g.Depots)
	copy(s.Customers, g.Customers)
	for i := range s.Customers {
		s.Customers[i].Route = NullRoute
		s.Customers[i].Prev = -1
		s.Customers[i].Next = -1
		s.Customers[i].Arrive = math.Inf(1)
		s.Customers[i].Depart = math.Inf(1)
	}
	for i := range s.Depots {
		s.Depots[i].Vehicles = nil
		s.Depots[i].Count, s.Depots[i].Load, s.Depots[i].Length = 0, 0, 0
	}
	s.nextVehicleSlot = make([]int, len(s.Depots))
	s.nextRouteSlot = 1 // 0 is NullRoute
	return s
}

// Clone deep-copies the Solution. ALNS (§4.7) trials mutate a clone and
// discard it on rejection; this is the "deep-copy per iteration" strategy
// spec.md §5/§9 allows in place of an undo log.
func (s *Solution) Clone() *Solution {
	c := &Solution{
		Graph:           s.Graph,
		Depots:          append([]Depot(nil), s.Depots...),
		Vehicles:        append([]Vehicle(nil), s.Vehicles...),
		Routes:          append([]Route(nil), s.Routes...),
		Customers:       append([]Customer(nil), s.Customers...),
		nextVehicleSlot: append([]int(nil), s.nextVehicleSlot...),
		nextRouteSlot:   s.nextRouteSlot,
	}
	for i := range c.Depots {
		c.Depots[i].Vehicles = append([]int(nil), s.Depots[i].Vehicles...)
	}
	for i := range c.Vehicles {
		c.Vehicles[i].Routes = append([]int(nil), s.Vehicles[i].Routes...)
	}
	return c
}

// AddVehicle appends a fresh empty vehicle to depot d, copying type
// parameters from tmpl, and returns its slot index. It does not check
// AddVehicleAllowed — callers (hooks.go) are responsible for that predicate.
func (s *Solution) AddVehicle(d int, tmpl Vehicle) int {
	idx := len(s.Vehicles)
	tmpl.Index = idx
	tmpl.Depot = d
	tmpl.Routes = nil
	tmpl.Count, tmpl.Load, tmpl.Length = 0, 0, 0
	s.Vehicles = append(s.Vehicles, tmpl)
	s.Depots[d].Vehicles = append(s.Depots[d].Vehicles, idx)
	s.nextVehicleSlot[d]++
	return idx
}

// AddRoute appends a fresh empty route to vehicle v and returns its slot
// index.
func (s *Solution) AddRoute(v int) int {
	idx := s.nextRouteSlot
	s.nextRouteSlot++
	veh := &s.Vehicles[v]
	r := Route{
		Index:   idx,
		Depot:   veh.Depot,
		Vehicle: v,
		Slot:    len(veh.Routes),
		First:   -1,
		Last:    -1,
	}
	if n := len(veh.Routes); n > 0 {
		prev := &s.Routes[veh.Routes[n-1]]
		r.TimeInit, r.FuelInit = prev.TimeEnd, prev.FuelEnd
	}
	r.TimeStart, r.TimeEnd = r.TimeInit, r.TimeInit
	r.FuelStart, r.FuelEnd = r.FuelInit, r.FuelInit
	for idx >= len(s.Routes) {
		s.Routes = append(s.Routes, Route{Index: -1})
	}
	s.Routes[idx] = r
	veh.Routes = append(veh.Routes, idx)
	return idx
}
