package model

import "math"

// CustomerRelatedness is the §4.3 formula for two customers: similar demand,
// depot, vehicle and route push it up; physical and time-window distance
// push it down. Self-relatedness is +∞.
func CustomerRelatedness(s *Solution, c1, c2 int) float64 {
	if c1 == c2 {
		return math.Inf(1)
	}
	a, b := &s.Customers[c1], &s.Customers[c2]

	num := math.Abs(a.Demand-b.Demand) + 1
	if a.Route != NullRoute && b.Route != NullRoute {
		ra, rb := &s.Routes[a.Route], &s.Routes[b.Route]
		if ra.Depot == rb.Depot {
			num++
		}
		if ra.Vehicle == rb.Vehicle {
			num++
		}
		if a.Route == b.Route {
			num++
		}
	}

	den := s.Graph.Arc(a.NodeID, b.NodeID) + math.Abs(a.Window.Start-b.Window.Start) + math.Abs(a.Window.End-b.Window.End)
	return num / den
}

// CustomerDepotRelatedness is the §4.3 formula for a customer and a depot.
func CustomerDepotRelatedness(s *Solution, c, d int) float64 {
	cust := &s.Customers[c]

	num := 1.0
	if cust.Route != NullRoute && s.Routes[cust.Route].Depot == d {
		num++
	}
	den := s.Graph.Arc(cust.NodeID, s.Graph.DepotNodeID(d))
	return num / den
}

// RouteRelatedness is the §4.3 formula for two routes: centroid distance
// plus time-window spread in the denominator. Non-operational routes are
// never chosen, so a pair involving one returns -∞.
func RouteRelatedness(s *Solution, r1, r2 int) float64 {
	if r1 == r2 {
		return math.Inf(1)
	}
	a, b := &s.Routes[r1], &s.Routes[r2]
	if !a.Operational() || !b.Operational() {
		return math.Inf(-1)
	}

	num := math.Abs(a.Load-b.Load) + 1
	if a.Depot == b.Depot {
		num++
	}
	if a.Vehicle == b.Vehicle {
		num++
	}

	den := EuclideanArc(a.Centroid, b.Centroid) + math.Abs(a.TimeStart-b.TimeStart) + math.Abs(a.TimeEnd-b.TimeEnd)
	return num / den
}

// VehicleRelatedness is the §4.3 formula for two vehicles: demand-weighted
// centroid distance plus time-window spread in the denominator.
func VehicleRelatedness(s *Solution, v1, v2 int) float64 {
	if v1 == v2 {
		return math.Inf(1)
	}
	a, b := &s.Vehicles[v1], &s.Vehicles[v2]
	if !a.Operational() || !b.Operational() {
		return math.Inf(-1)
	}

	num := math.Abs(a.Load-b.Load) + 1
	if a.Depot == b.Depot {
		num++
	}

	ca, cb := vehicleCentroid(s, a), vehicleCentroid(s, b)
	den := EuclideanArc(ca, cb) + math.Abs(a.Start-b.Start) + math.Abs(a.End-b.End)
	return num / den
}

// vehicleCentroid demand-weights the centroids of a vehicle's routes.
func vehicleCentroid(s *Solution, v *Vehicle) Point {
	if v.Load == 0 {
		return Point{}
	}
	var p Point
	for _, ri := range v.Routes {
		r := &s.Routes[ri]
		if r.Load == 0 {
			continue
		}
		p.X += r.Centroid.X * r.Load
		p.Y += r.Centroid.Y * r.Load
	}
	p.X /= v.Load
	p.Y /= v.Load
	return p
}
