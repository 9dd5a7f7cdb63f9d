package opt

import (
	"math/rand"
	"testing"

	"lrpalns/internal/model"
)

func tinyGraph() *model.Graph {
	return &model.Graph{
		Depots: []model.Depot{
			{Index: 0, Coord: model.Point{0, 0}, Capacity: 1000, ShareHigh: 1, Window: model.TimeWindow{0, 1e9}},
		},
		Customers: []model.Customer{
			{Index: 0, NodeID: 1, Coord: model.Point{1, 0}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 1, NodeID: 2, Coord: model.Point{2, 0}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 2, NodeID: 3, Coord: model.Point{1, 1}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 3, NodeID: 4, Coord: model.Point{2, 1}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 4, NodeID: 5, Coord: model.Point{3, 1}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 5, NodeID: 6, Coord: model.Point{3, 0}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 6, NodeID: 7, Coord: model.Point{4, 0}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 7, NodeID: 8, Coord: model.Point{4, 1}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 8, NodeID: 9, Coord: model.Point{5, 0}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
			{Index: 9, NodeID: 10, Coord: model.Point{5, 1}, Demand: 5, Window: model.TimeWindow{0, 1e9}},
		},
		Arcs:         buildArcs(),
		VehicleTypes: []model.Vehicle{{Depot: 0, Capacity: 60, Range: 1e9, Speed: 1, MaxWorkDur: 1e9, MaxRoutes: 3}},
	}
}

// buildArcs fills in every pairwise Euclidean distance among the tiny
// instance's eleven nodes (one depot, ten customers) so Arc never falls
// back to +Inf for a missing pair.
func buildArcs() map[model.ArcKey]float64 {
	coords := []model.Point{
		{0, 0}, {1, 0}, {2, 0}, {1, 1}, {2, 1}, {3, 1}, {3, 0}, {4, 0}, {4, 1}, {5, 0}, {5, 1},
	}
	arcs := map[model.ArcKey]float64{}
	for i := range coords {
		for j := i + 1; j < len(coords); j++ {
			arcs[model.ArcKey{From: i, To: j}] = model.EuclideanArc(coords[i], coords[j])
		}
	}
	return arcs
}

func defaultTestParams() Parameters {
	return Parameters{
		TotalIterations:    50,
		SegmentSize:        10,
		LocalSearchCadence: 0,
		DestroyCatalog:     []string{"node_random", "node_worst"},
		InsertionCatalog:   []string{"best", "greedy"},
		SigmaBest:          33,
		SigmaImprove:       9,
		SigmaAccept:        13,
		Omega:              0.05,
		Tau:                0.5,
		OmegaFloor:         0.01,
		TauFloor:           0.01,
		Cooling:            0.99,
		DestroyMinAbs:      1,
		DestroyMaxAbs:      3,
		DestroyMinFrac:     0.1,
		DestroyMaxFrac:     0.3,
		Reaction:           0.1,
		Weights:            model.Weights{Fixed: 1, Operational: 1, Penalty: 1},
		Seed:               42,
	}
}

func TestParametersValidateRejectsUnknownOperator(t *testing.T) {
	p := defaultTestParams()
	p.DestroyCatalog = []string{"not_a_real_operator"}
	if err := p.Validate(); err == nil {
		t.Fatalf("Validate accepted an unknown destroy operator")
	}
}

func TestParametersValidateRejectsBadFractions(t *testing.T) {
	p := defaultTestParams()
	p.DestroyMinFrac = 0.5
	p.DestroyMaxFrac = 0.2
	if err := p.Validate(); err == nil {
		t.Fatalf("Validate accepted DestroyMinFrac > DestroyMaxFrac")
	}
}

func TestBuildClarkeWrightPlacesEveryCustomer(t *testing.T) {
	g := tinyGraph()
	rng := rand.New(rand.NewSource(1))
	s, err := BuildClarkeWright(rng, g, model.Weights{Fixed: 1, Operational: 1, Penalty: 1})
	if err != nil {
		t.Fatalf("BuildClarkeWright: %v", err)
	}
	for i := range s.Customers {
		if s.Customers[i].Open() {
			t.Fatalf("customer %d left open", i)
		}
	}
}

// Solve run twice with the same seed on the same instance must reach the
// same best cost and the same convergence history.
func TestSolveDeterministic(t *testing.T) {
	g := tinyGraph()
	p := defaultTestParams()

	build := func() (*Result, error) {
		rng := rand.New(rand.NewSource(p.Seed))
		s0, err := BuildClarkeWright(rng, g, p.Weights)
		if err != nil {
			return nil, err
		}
		return Solve(rand.New(rand.NewSource(p.Seed)), p, s0, "test-instance", nil)
	}

	r1, err := build()
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	r2, err := build()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if r1.BestCost != r2.BestCost {
		t.Fatalf("best cost not deterministic: %v vs %v", r1.BestCost, r2.BestCost)
	}
	if len(r1.History) != len(r2.History) {
		t.Fatalf("history length not deterministic: %d vs %d", len(r1.History), len(r2.History))
	}
}

// The best-cost sequence Solve reports must be monotone non-increasing:
// zStar only ever improves or stays flat.
func TestSolveBestCostMonotone(t *testing.T) {
	g := tinyGraph()
	p := defaultTestParams()
	rng := rand.New(rand.NewSource(p.Seed))
	s0, err := BuildClarkeWright(rng, g, p.Weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	result, err := Solve(rand.New(rand.NewSource(p.Seed)), p, s0, "test-instance", nil)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for i := 1; i < len(result.History); i++ {
		if result.History[i] > result.History[i-1] {
			t.Fatalf("history not monotone at %d: %v -> %v", i, result.History[i-1], result.History[i])
		}
	}
}

// Solve streams one progress call per iteration when a callback is given.
func TestSolveProgressCallback(t *testing.T) {
	g := tinyGraph()
	p := defaultTestParams()
	rng := rand.New(rand.NewSource(p.Seed))
	s0, err := BuildClarkeWright(rng, g, p.Weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	calls := 0
	_, err = Solve(rand.New(rand.NewSource(p.Seed)), p, s0, "test-instance", func(iter int, bestCost, currentCost, temperature float64) {
		calls++
	})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if calls != p.TotalIterations {
		t.Fatalf("progress called %d times, want %d", calls, p.TotalIterations)
	}
}
