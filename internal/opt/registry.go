package opt

import (
	"math/rand"

	"lrpalns/internal/model"
)

// DestroyFunc opens at least q customers in s (§4.4). It wraps preremove!
// internally where a family needs refreshed caches.
type DestroyFunc func(rng *rand.Rand, q int, s *model.Solution)

// InsertionFunc places every open customer in s (§4.5). It runs preinsert!
// first and postinsert! once every customer is placed.
type InsertionFunc func(rng *rand.Rand, s *model.Solution, w model.Weights)

// LocalSearchFunc attempts up to budget improving moves on s (§4.6) and
// reports whether any move was kept.
type LocalSearchFunc func(rng *rand.Rand, s *model.Solution, w model.Weights, budget int) bool

// DestroyRegistry maps the twelve §4.4 operator identifiers (four families
// × three policies) to their implementations. This replaces the dynamic
// dispatch-by-symbol §9 calls out as a design smell in the source: an
// unknown identifier is a model.ConfigError, caught by Parameters.Validate
// before a run ever starts.
var DestroyRegistry = map[string]DestroyFunc{
	"node_random":    destroyNodeRandom,
	"node_related":   destroyNodeRelated,
	"node_worst":     destroyNodeWorst,
	"route_random":   destroyRouteRandom,
	"route_related":  destroyRouteRelated,
	"route_worst":    destroyRouteWorst,
	"vehicle_random": destroyVehicleRandom,
	"vehicle_related": destroyVehicleRelated,
	"vehicle_worst":  destroyVehicleWorst,
	"depot_random":   destroyDepotRandom,
	"depot_related":  destroyDepotRelated,
	"depot_worst":    destroyDepotWorst,
}

// InsertionRegistry maps the §4.5 operator identifiers, including the
// perturbed variants that multiply the reported z by 1+U(-0.2,0.2) before
// comparison.
var InsertionRegistry = map[string]InsertionFunc{
	"best":             insertBest,
	"best_perturbed":   insertBestPerturbed,
	"greedy":           insertGreedy,
	"greedy_perturbed": insertGreedyPerturbed,
	"regret2":          regretInsertK(2, false),
	"regret3":          regretInsertK(3, false),
	"regret2_perturbed": regretInsertK(2, true),
	"regret3_perturbed": regretInsertK(3, true),
}

// LocalSearchRegistry maps the six §4.6 operator identifiers.
var LocalSearchRegistry = map[string]LocalSearchFunc{
	"move":            lsMove,
	"intra_opt":       lsIntraOpt,
	"inter_opt":       lsInterOpt,
	"split":           lsSplit,
	"swap_customers":  lsSwapCustomers,
	"swap_depots":     lsSwapDepots,
}

// BuilderFunc constructs an initial feasible solution for g (§4.4 of the
// programmatic API, "initial_solution"). It returns model.InfeasibleInitial
// if it cannot place every customer.
type BuilderFunc func(rng *rand.Rand, g *model.Graph, w model.Weights) (*model.Solution, error)

// BuilderRegistry maps the six §6 method identifiers to their builders.
var BuilderRegistry = map[string]BuilderFunc{
	"cw":      BuildClarkeWright,
	"nn":      BuildNearestNeighbor,
	"random":  BuildRandom,
	"regret2": BuildRegret2,
	"regret3": BuildRegret3,
	"cluster": BuildCluster,
}
