package model

// AddRouteAllowed implements the conservative add_route predicate of §4.1: a
// new empty route is addable to vehicle v iff it has spare route capacity,
// none of its current routes is empty, it is still within its time window
// and working-duration budget, its depot has spare capacity, and — the
// liberal half — either the vehicle has no routes yet or its existing
// routes/depot are already saturated (so adding an empty route can only
// help, never just grow the fleet for no reason).
func (s *Solution) AddRouteAllowed(v int) bool {
	veh := &s.Vehicles[v]
	dep := &s.Depots[veh.Depot]
	if len(veh.Routes) >= veh.MaxRoutes {
		return false
	}
	for _, rIdx := range veh.Routes {
		if !s.Routes[rIdx].Operational() {
			return false
		}
	}
	if veh.End > dep.Window.End {
		return false
	}
	if veh.End-veh.Start > veh.MaxWorkDur {
		return false
	}
	if dep.Load >= dep.Capacity {
		return false
	}
	if len(veh.Routes) == 0 {
		return true
	}
	saturated := dep.Load >= dep.Capacity
	for _, rIdx := range veh.Routes {
		if s.Routes[rIdx].Load >= veh.Capacity {
			saturated = true
		}
	}
	return saturated
}

// AddVehicleAllowed implements the add_vehicle predicate of §4.1: a new
// vehicle is addable at depot d (of the given type template) iff no empty
// identical-type vehicle already sits idle there, the depot has spare
// capacity, and either no vehicle of that type is at the depot yet or at
// least one existing vehicle of that type is tight on time or capacity (so
// the fleet only grows when the type it already runs is struggling).
func (s *Solution) AddVehicleAllowed(d, typeIndex int) bool {
	dep := &s.Depots[d]
	if dep.Load >= dep.Capacity {
		return false
	}
	anyOfType := false
	tight := false
	for _, vi := range dep.Vehicles {
		veh := &s.Vehicles[vi]
		if veh.TypeIndex != typeIndex {
			continue
		}
		anyOfType = true
		if !veh.Operational() {
			return false // an empty identical-type vehicle already exists
		}
		if veh.Load >= veh.Capacity || veh.End-veh.Start >= veh.MaxWorkDur {
			tight = true
		}
	}
	return !anyOfType || tight
}

// DeleteRouteAllowed: a route is deletable iff non-operational.
func (s *Solution) DeleteRouteAllowed(r int) bool {
	return !s.Routes[r].Operational()
}

// DeleteVehicleAllowed: a vehicle is deletable iff non-operational and at
// least one other identical-type vehicle remains at the depot.
func (s *Solution) DeleteVehicleAllowed(v int) bool {
	veh := &s.Vehicles[v]
	if veh.Operational() {
		return false
	}
	dep := &s.Depots[veh.Depot]
	for _, vi := range dep.Vehicles {
		if vi != v && s.Vehicles[vi].TypeIndex == veh.TypeIndex {
			return true
		}
	}
	return false
}

// VehicleTemplates returns one representative Vehicle per distinct type
// present at depot d, used by Preinsert to decide what a fresh vehicle of
// that type should look like.
func (s *Solution) VehicleTemplates(d int) []Vehicle {
	seen := map[int]bool{}
	var out []Vehicle
	for _, vi := range s.Depots[d].Vehicles {
		veh := s.Vehicles[vi]
		if seen[veh.TypeIndex] {
			continue
		}
		seen[veh.TypeIndex] = true
		out = append(out, veh)
	}
	return out
}

// Preinsert walks every vehicle and, for each, appends a fresh empty route
// and/or fresh empty vehicle wherever the add_* predicates permit it,
// giving insertion operators candidate slots to place open customers into
// (§4.1, §4.5 — repair operators call this first).
func (s *Solution) Preinsert() {
	for d := range s.Depots {
		for _, tmpl := range s.VehicleTemplates(d) {
			if s.AddVehicleAllowed(d, tmpl.TypeIndex) {
				nv := s.AddVehicle(d, tmpl)
				s.AddRoute(nv)
			}
		}
	}
	// existing vehicles may also need one more empty route
	for v := range s.Vehicles {
		if s.AddRouteAllowed(v) {
			s.AddRoute(v)
		}
	}
}

// Postinsert garbage-collects non-operational routes/vehicles, compacts the
// vehicle/route arenas back to dense indices, and refreshes every
// customer's cached route index (§4.1). Calling it twice in
// a row is idempotent (spec.md §8 property 6): the second call finds
// nothing left to delete or renumber.
func (s *Solution) Postinsert() {
	for d := range s.Depots {
		kept := s.Depots[d].Vehicles[:0]
		for _, vi := range s.Depots[d].Vehicles {
			veh := &s.Vehicles[vi]
			keptRoutes := veh.Routes[:0]
			for _, ri := range veh.Routes {
				if s.Routes[ri].Operational() || !s.DeleteRouteAllowed(ri) {
					keptRoutes = append(keptRoutes, ri)
				}
			}
			veh.Routes = keptRoutes
			if veh.Operational() || !s.DeleteVehicleAllowed(vi) {
				kept = append(kept, vi)
			}
		}
		s.Depots[d].Vehicles = kept
	}
	s.compact()
	s.refreshCustomerCaches()
}

// compact reclaims the slots Postinsert's pruning above just freed: it
// renumbers s.Vehicles and s.Routes to dense 0-based (1-based for routes,
// slot 0 stays NullRoute) indices and rewrites every back-reference —
// Depot.Vehicles, Vehicle.Routes, Route.Vehicle, Route.Slot, Customer.Route
// — to match. Without this the arenas only ever grow, and every hook that
// scans them (refreshCustomerCaches, operationalRoutes, closedCustomers,
// ...) gets slower every iteration of a run.
func (s *Solution) compact() {
	vehMap := make(map[int]int, len(s.Vehicles))
	newVehicles := make([]Vehicle, 0, len(s.Vehicles))
	for d := range s.Depots {
		remapped := s.Depots[d].Vehicles[:0]
		for _, vi := range s.Depots[d].Vehicles {
			nv := len(newVehicles)
			vehMap[vi] = nv
			veh := s.Vehicles[vi]
			veh.Index = nv
			newVehicles = append(newVehicles, veh)
			remapped = append(remapped, nv)
		}
		s.Depots[d].Vehicles = remapped
	}

	routeMap := make(map[int]int, len(s.Routes))
	newRoutes := make([]Route, 1, len(s.Routes))
	newRoutes[0] = s.Routes[NullRoute]
	for i := range newVehicles {
		veh := &newVehicles[i]
		remapped := veh.Routes[:0]
		for _, ri := range veh.Routes {
			nr, ok := routeMap[ri]
			if !ok {
				nr = len(newRoutes)
				routeMap[ri] = nr
				route := s.Routes[ri]
				route.Index = nr
				route.Vehicle = veh.Index
				newRoutes = append(newRoutes, route)
			}
			remapped = append(remapped, nr)
		}
		veh.Routes = remapped
		for slot, ri := range veh.Routes {
			newRoutes[ri].Slot = slot
		}
	}

	for i := range s.Customers {
		cust := &s.Customers[i]
		if cust.Route == NullRoute {
			continue
		}
		if nr, ok := routeMap[cust.Route]; ok {
			cust.Route = nr
		}
	}

	s.Vehicles = newVehicles
	s.Routes = newRoutes
	s.nextRouteSlot = len(newRoutes)
}

// Preremove refreshes every customer's cached route index without deleting
// anything (§4.1).
func (s *Solution) Preremove() {
	s.refreshCustomerCaches()
}

func (s *Solution) refreshCustomerCaches() {
	for ri := 1; ri < len(s.Routes); ri++ {
		route := &s.Routes[ri]
		if !route.Operational() {
			continue
		}
		for c := route.First; c != -1; {
			cust := &s.Customers[c]
			cust.Route = ri
			c = cust.Next
		}
	}
}
