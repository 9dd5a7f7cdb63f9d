package model

import "math"

// Weights are the three objective coefficients φᶠ, φᵒ, φᵖ of §4.2.
type Weights struct {
	Fixed       float64
	Operational float64
	Penalty     float64
}

// Breakdown is the decomposed objective value returned alongside the
// scalar total, useful for logging and for the ALNS driver's acceptance
// bookkeeping.
type Breakdown struct {
	Fixed       float64
	Operational float64
	Penalty     float64
	Total       float64
}

// Evaluate computes f(s; weights) per §4.2: a fixed-cost term over
// operational depots/vehicles, an operational-cost term over route length,
// vehicle working time and depot throughput, and a penalty term over every
// constraint violation, scaled so the penalty weight acts on the same order
// of magnitude as the fixed+operational terms.
func Evaluate(s *Solution, w Weights) Breakdown {
	var fixed, operational float64
	for i := range s.Depots {
		d := &s.Depots[i]
		if d.Operational() {
			fixed += d.CostFixed
		}
	}
	for i := range s.Vehicles {
		v := &s.Vehicles[i]
		if v.Operational() {
			fixed += v.FixedCost
		}
	}
	for i := 1; i < len(s.Routes); i++ {
		r := &s.Routes[i]
		if !r.Operational() {
			continue
		}
		v := &s.Vehicles[r.Vehicle]
		operational += r.Length * v.CostPerDist
	}
	for i := range s.Vehicles {
		v := &s.Vehicles[i]
		if v.Operational() {
			operational += (v.End - v.Start) * v.CostPerTime
		}
	}
	for i := range s.Depots {
		d := &s.Depots[i]
		operational += d.Load * d.CostOperational
	}

	penalty := violationMagnitude(s)

	scale := 1.0
	if base := fixed + operational; base > 0 {
		scale = math.Pow(10, math.Ceil(math.Log10(base)))
	}
	total := w.Fixed*fixed + w.Operational*operational + w.Penalty*penalty*scale
	return Breakdown{Fixed: fixed, Operational: operational, Penalty: penalty, Total: total}
}

// violationMagnitude sums every constraint-violation magnitude of §4.2:
// depot share bounds, mandatory-use, depot/vehicle capacity, range,
// working-hours, open customers, and late time windows (counted only when
// the graph tracks time; otherwise arrival times are not computed).
func violationMagnitude(s *Solution) float64 {
	var p float64
	nC := float64(len(s.Customers))

	for i := range s.Depots {
		d := &s.Depots[i]
		n := float64(d.Count)
		p += math.Max(0, d.ShareLow*nC-n)
		p += math.Max(0, n-d.ShareHigh*nC)
		if d.Mandatory && d.Count == 0 {
			p += d.CostFixed
		}
		p += math.Max(0, d.Load-d.Capacity)
	}

	for i := 1; i < len(s.Routes); i++ {
		r := &s.Routes[i]
		if !r.Operational() {
			continue
		}
		v := &s.Vehicles[r.Vehicle]
		p += math.Max(0, r.Load-v.Capacity)
		p += math.Max(0, r.Length-v.Range)
	}

	for i := range s.Vehicles {
		v := &s.Vehicles[i]
		if !v.Operational() {
			continue
		}
		dep := &s.Depots[v.Depot]
		p += math.Max(0, dep.Window.Start-v.Start)
		p += math.Max(0, v.End-dep.Window.End)
		p += math.Max(0, (v.End-v.Start)-v.MaxWorkDur)
	}

	for i := range s.Customers {
		c := &s.Customers[i]
		if c.Open() {
			p += c.Demand
			continue
		}
		if s.Graph.TimeTracking {
			p += math.Max(0, c.Arrive-c.Window.End)
		}
	}

	return p
}

// IsFeasible is the predicate form of violationMagnitude: true iff every
// violation magnitude is zero.
func IsFeasible(s *Solution) bool {
	return violationMagnitude(s) == 0
}
