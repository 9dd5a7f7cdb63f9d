package model

import "math"

// DepotEnd is the tail/head sentinel meaning "the depot endpoint of the
// route", used by InsertNode/RemoveNode in place of a customer index.
const DepotEnd = -1

// InsertNode splices customer c between tail and head (either of which may
// be DepotEnd) into route r, updating every cached aggregate on the route,
// its vehicle and its depot, then re-propagating route times if the graph
// has time tracking enabled (§4.1).
//
// tail/head must genuinely flank the insertion point: if route r is
// currently empty, both must be DepotEnd; otherwise tail.Next must equal
// head (consulting DepotEnd for the route's First/Last) before the call.
func (s *Solution) InsertNode(c, tail, head, r int) {
	cust := &s.Customers[c]
	route := &s.Routes[r]
	veh := &s.Vehicles[route.Vehicle]
	dep := &s.Depots[route.Depot]

	removed := s.arc(tail, head, route)
	added := s.arc(tail, c, route) + s.arc(c, head, route)
	delta := added - removed

	// splice pointers
	cust.Prev, cust.Next = tail, head
	if tail == DepotEnd {
		route.First = c
	} else {
		s.Customers[tail].Next = c
	}
	if head == DepotEnd {
		route.Last = c
	} else {
		s.Customers[head].Prev = c
	}

	// centroid running mean (pre-increment n)
	n := route.Count
	route.Centroid.X = (route.Centroid.X*float64(n) + cust.Coord.X) / float64(n+1)
	route.Centroid.Y = (route.Centroid.Y*float64(n) + cust.Coord.Y) / float64(n+1)

	route.Count++
	route.Load += cust.Demand
	route.Length += delta
	veh.Count++
	veh.Load += cust.Demand
	veh.Length += delta
	dep.Count++
	dep.Load += cust.Demand
	dep.Length += delta

	cust.Route = r

	if s.Graph.TimeTracking {
		s.propagateVehicle(route.Vehicle)
	}
}

// RemoveNode is the exact inverse of InsertNode: it unsplices c from its
// current route, subtracts it from every cached aggregate, marks it open,
// and re-propagates route times. Calling RemoveNode(InsertNode(c,...)) must
// restore every cached aggregate bit-for-bit (spec.md §8 property 5).
func (s *Solution) RemoveNode(c int) {
	cust := &s.Customers[c]
	r := cust.Route
	route := &s.Routes[r]
	veh := &s.Vehicles[route.Vehicle]
	dep := &s.Depots[route.Depot]

	tail, head := cust.Prev, cust.Next
	removed := s.arc(tail, c, route) + s.arc(c, head, route)
	added := s.arc(tail, head, route)
	delta := added - removed

	if tail == DepotEnd {
		route.First = head
	} else {
		s.Customers[tail].Next = head
	}
	if head == DepotEnd {
		route.Last = tail
	} else {
		s.Customers[head].Prev = tail
	}

	n := route.Count
	if n == 1 {
		route.Centroid = Point{}
	} else {
		route.Centroid.X = (route.Centroid.X*float64(n) - cust.Coord.X) / float64(n-1)
		route.Centroid.Y = (route.Centroid.Y*float64(n) - cust.Coord.Y) / float64(n-1)
	}

	route.Count--
	route.Load -= cust.Demand
	route.Length += delta
	veh.Count--
	veh.Load -= cust.Demand
	veh.Length += delta
	dep.Count--
	dep.Load -= cust.Demand
	dep.Length += delta

	if route.Count < 0 || veh.Count < 0 || dep.Count < 0 {
		panic(NewInvariantViolation("negative count after removing customer %d from route %d (route=%d veh=%d dep=%d)", c, r, route.Count, veh.Count, dep.Count))
	}

	cust.Route = NullRoute
	cust.Prev, cust.Next = -1, -1
	cust.Arrive, cust.Depart = math.Inf(1), math.Inf(1)

	if s.Graph.TimeTracking {
		s.propagateVehicle(route.Vehicle)
	}
}

// arc returns the arc length between two chain positions in route r, where
// either endpoint may be DepotEnd (the route's depot).
func (s *Solution) arc(a, b int, r *Route) float64 {
	return s.Graph.Arc(s.nodeID(a, r), s.nodeID(b, r))
}

func (s *Solution) nodeID(custIdx int, r *Route) int {
	if custIdx == DepotEnd {
		return s.Graph.DepotNodeID(r.Depot)
	}
	return s.Graph.CustomerNodeID(custIdx)
}

// propagateVehicle recomputes, in order, the time/fuel schedule of every
// route belonging to vehicle v, then the backward slack pass over the whole
// vehicle (§4.1). Recomputing the full vehicle (rather than only routes
// causally after the touched one) keeps the implementation a single
// obviously-correct pass; total work is still O(L) in the vehicle's
// customers since every route is touched at most once per call.
func (s *Solution) propagateVehicle(v int) {
	veh := &s.Vehicles[v]
	var prevEnd, prevFuel float64
	for i, rIdx := range veh.Routes {
		route := &s.Routes[rIdx]
		if i == 0 {
			// first route inherits whatever TimeInit/FuelInit it already
			// has (set at AddRoute time from the vehicle's prior state).
		} else {
			route.TimeInit, route.FuelInit = prevEnd, prevFuel
		}
		s.propagateRoute(route, veh)
		prevEnd, prevFuel = route.TimeEnd, route.FuelEnd
	}
	if len(veh.Routes) > 0 {
		veh.Start = s.Routes[veh.Routes[0]].TimeInit
		veh.End = s.Routes[veh.Routes[len(veh.Routes)-1]].TimeEnd
	} else {
		veh.Start, veh.End = 0, 0
	}
	s.propagateSlack(v)
}

// propagateRoute runs the forward time/fuel pass of §4.1's route time model
// for a single route, given its vehicle.
func (s *Solution) propagateRoute(route *Route, veh *Vehicle) {
	if route.Count == 0 {
		route.TimeStart, route.TimeEnd = route.TimeInit, route.TimeInit
		route.FuelStart, route.FuelEnd = route.FuelInit, route.FuelInit
		return
	}
	route.FuelStart = route.FuelInit + math.Max(0, route.Length/veh.Range-route.FuelInit)
	route.TimeStart = route.TimeInit + veh.FuelTime*(route.FuelStart-route.FuelInit) + veh.LoadTime*route.Load

	prevDepart := route.TimeStart
	prevIdx := DepotEnd
	for c := route.First; c != -1; {
		cust := &s.Customers[c]
		arcLen := s.arc(prevIdx, c, route)
		cust.Arrive = prevDepart + arcLen/veh.Speed
		wait := math.Max(0, cust.Window.Start-cust.Arrive-veh.ServiceOverhead)
		cust.Depart = cust.Arrive + veh.ServiceOverhead + wait + cust.ServiceDur
		prevDepart = cust.Depart
		prevIdx = c
		c = cust.Next
	}
	route.FuelEnd = route.FuelStart - route.Length/veh.Range
	route.TimeEnd = prevDepart + s.arc(prevIdx, DepotEnd, route)/veh.Speed
}

// propagateSlack runs the backward slack pass of §4.1 over vehicle v's
// routes, then folds in the depot's closing-time bound.
func (s *Solution) propagateSlack(v int) {
	veh := &s.Vehicles[v]
	dep := &s.Depots[veh.Depot]
	running := math.Inf(1)
	for i := len(veh.Routes) - 1; i >= 0; i-- {
		route := &s.Routes[veh.Routes[i]]
		for c := route.Last; c != -1; {
			cust := &s.Customers[c]
			margin := cust.Window.End - cust.Arrive - veh.ServiceOverhead
			if margin < running {
				running = margin
			}
			c = cust.Prev
		}
		route.Slack = running
	}
	if bound := dep.Window.End - veh.End; bound < running {
		running = bound
	}
	veh.Slack = running

	minDepotSlack := math.Inf(1)
	for _, vi := range dep.Vehicles {
		if sl := s.Vehicles[vi].Slack; sl < minDepotSlack {
			minDepotSlack = sl
		}
	}
	dep.Slack = minDepotSlack
}
