package opt

import (
	"math"
	"math/rand"
	"time"

	"lrpalns/internal/metrics"
	"lrpalns/internal/model"
)

// Result is what Solve returns (§6's alns(rng, χ, s₀) → [Solution]): the
// best solution found, its cost, and the full convergence history —
// one point per iteration plus any local-search improvement — so callers
// can plot it.
type Result struct {
	Best    *model.Solution
	BestCost float64
	History []float64
}

// ProgressFunc receives one convergence point per iteration, letting a
// caller stream a run's progress (§13's RunEvent) without opt knowing
// anything about brokers or HTTP.
type ProgressFunc func(iter int, bestCost, currentCost, temperature float64)

type opStat struct {
	weight float64
	score  float64 // π, accumulated reward this segment
	uses   int     // c, accumulated uses this segment
}

func newStats(catalog []string) map[string]*opStat {
	m := make(map[string]*opStat, len(catalog))
	for _, id := range catalog {
		m[id] = &opStat{weight: 1}
	}
	return m
}

// weightFloor keeps every operator strictly selectable even after a run of
// unlucky segments (§9's operator-weight-bookkeeping note).
const weightFloor = 1e-3

func selectOperator(rng *rand.Rand, stats map[string]*opStat, catalog []string) string {
	total := 0.0
	for _, id := range catalog {
		total += stats[id].weight
	}
	x := rng.Float64() * total
	for _, id := range catalog {
		x -= stats[id].weight
		if x <= 0 {
			return id
		}
	}
	return catalog[len(catalog)-1]
}

// Solve runs the ALNS driver of §4.7 from initial feasible solution s0,
// mutating nothing outside the copies it makes internally. instance
// labels the metrics this run emits; progress may be nil, in which case
// no per-iteration callback fires.
func Solve(rng *rand.Rand, p Parameters, s0 *model.Solution, instance string, progress ProgressFunc) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	status := "completed"
	defer func() { metrics.RunDuration.WithLabelValues(instance, status).Observe(time.Since(start).Seconds()) }()

	s := s0.Clone()
	z := model.Evaluate(s, p.Weights).Total

	best := s0.Clone()
	zStar := z

	destroyStats := newStats(p.DestroyCatalog)
	insertStats := newStats(p.InsertionCatalog)

	t0 := p.Omega * zStar / math.Log(1/p.Tau)
	tMin := p.OmegaFloor * zStar / math.Log(1/p.TauFloor)
	temp := t0

	seen := map[uint64]bool{}
	history := make([]float64, 0, p.TotalIterations)

	numCustomers := len(s.Customers)

	for iter := 1; iter <= p.TotalIterations; iter++ {
		metrics.Iterations.WithLabelValues(instance).Inc()
		rOp := selectOperator(rng, destroyStats, p.DestroyCatalog)
		iOp := selectOperator(rng, insertStats, p.InsertionCatalog)
		destroyStats[rOp].uses++
		insertStats[iOp].uses++
		metrics.OperatorSelections.WithLabelValues("destroy", rOp).Inc()
		metrics.OperatorSelections.WithLabelValues("insertion", iOp).Inc()

		eta := rng.Float64()
		q := p.DestroySize(eta, numCustomers)

		trial := s.Clone()
		DestroyRegistry[rOp](rng, q, trial)
		InsertionRegistry[iOp](rng, trial, p.Weights)
		zTrial := model.Evaluate(trial, p.Weights).Total
		hash := model.VectorizeHash(trial)

		accepted := false
		switch {
		case zTrial < zStar:
			accepted = true
			destroyStats[rOp].score += p.SigmaBest
			insertStats[iOp].score += p.SigmaBest
			seen[hash] = true
			metrics.Acceptances.WithLabelValues(instance, "best").Inc()
		case zTrial < z:
			accepted = true
			if !seen[hash] {
				destroyStats[rOp].score += p.SigmaImprove
				insertStats[iOp].score += p.SigmaImprove
			}
			seen[hash] = true
			metrics.Acceptances.WithLabelValues(instance, "improve").Inc()
		default:
			if rng.Float64() < math.Exp(-(zTrial-z)/(temp+1e-9)) {
				accepted = true
				if !seen[hash] {
					destroyStats[rOp].score += p.SigmaAccept
					insertStats[iOp].score += p.SigmaAccept
				}
				seen[hash] = true
				metrics.Acceptances.WithLabelValues(instance, "sa_accept").Inc()
			} else {
				metrics.Acceptances.WithLabelValues(instance, "reject").Inc()
			}
		}

		if accepted {
			s = trial
			z = zTrial
			if z < zStar {
				zStar = z
				best = s.Clone()
			}
		}

		temp = math.Max(temp*p.Cooling, tMin)
		history = append(history, zStar)
		if progress != nil {
			progress(iter, zStar, z, temp)
		}

		if iter%p.SegmentSize == 0 {
			settleSegment(destroyStats, p.DestroyCatalog, p.Reaction)
			settleSegment(insertStats, p.InsertionCatalog, p.Reaction)
		}

		if p.LocalSearchCadence > 0 && iter%p.LocalSearchCadence == 0 {
			for _, id := range p.LocalSearchCatalog {
				if LocalSearchRegistry[id](rng, s, p.Weights, p.LocalSearchBudget) {
					z = model.Evaluate(s, p.Weights).Total
					if z < zStar {
						zStar = z
						best = s.Clone()
					}
					history = append(history, zStar)
				}
			}
		}
	}

	return &Result{Best: best, BestCost: zStar, History: history}, nil
}

// settleSegment applies w ← ρ·π/c + (1−ρ)·w for every operator used this
// segment, then zeroes π,c for the next one (§4.7 step 5).
func settleSegment(stats map[string]*opStat, catalog []string, rho float64) {
	for _, id := range catalog {
		st := stats[id]
		if st.uses > 0 {
			st.weight = rho*(st.score/float64(st.uses)) + (1-rho)*st.weight
			if st.weight < weightFloor {
				st.weight = weightFloor
			}
		}
		st.score, st.uses = 0, 0
	}
}
