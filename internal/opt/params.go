// Package opt implements the destroy/repair/local-search operators and the
// Adaptive Large Neighborhood Search driver that runs them over a
// model.Solution.
package opt

import "lrpalns/internal/model"

// Parameters is the χ record of §4.7: every field ALNS honors, with the
// domain constraints §6 states on them.
type Parameters struct {
	TotalIterations     int // k̅
	SegmentSize         int // k̲
	LocalSearchCadence  int // l̲
	LocalSearchBudget   int // l̅

	DestroyCatalog     []string // Ψᵣ
	InsertionCatalog   []string // Ψᵢ
	LocalSearchCatalog []string // Ψₗ, may be empty

	SigmaBest    float64 // σ₁: new global best
	SigmaImprove float64 // σ₂: new improvement or new-unseen acceptance
	SigmaAccept  float64 // σ₃: new-unseen SA-accepted worse

	Omega      float64 // ω, start-temperature scale
	Tau        float64 // τ, start-temperature acceptance probability
	OmegaFloor float64 // ω̲, floor-temperature scale
	TauFloor   float64 // τ̲, floor-temperature acceptance probability
	Cooling    float64 // θ ∈ (0,1)

	DestroyMinAbs  int     // C̲
	DestroyMaxAbs  int     // C̅
	DestroyMinFrac float64 // μ̲
	DestroyMaxFrac float64 // μ̅

	Reaction float64 // ρ ∈ [0,1]

	Weights model.Weights // φᶠ, φᵒ, φᵖ used by f(s)

	Seed int64
}

// Validate checks every domain constraint §6 states on χ, returning a
// model.ConfigError describing the first violation found.
func (p Parameters) Validate() error {
	if p.TotalIterations <= 0 {
		return model.NewConfigError("k̅ (TotalIterations) must be positive, got %d", p.TotalIterations)
	}
	if p.SegmentSize <= 0 {
		return model.NewConfigError("k̲ (SegmentSize) must be positive, got %d", p.SegmentSize)
	}
	if len(p.DestroyCatalog) == 0 {
		return model.NewConfigError("Ψᵣ (DestroyCatalog) must be non-empty")
	}
	if len(p.InsertionCatalog) == 0 {
		return model.NewConfigError("Ψᵢ (InsertionCatalog) must be non-empty")
	}
	for _, id := range p.DestroyCatalog {
		if _, ok := DestroyRegistry[id]; !ok {
			return model.NewConfigError("unknown destroy operator %q", id)
		}
	}
	for _, id := range p.InsertionCatalog {
		if _, ok := InsertionRegistry[id]; !ok {
			return model.NewConfigError("unknown insertion operator %q", id)
		}
	}
	for _, id := range p.LocalSearchCatalog {
		if _, ok := LocalSearchRegistry[id]; !ok {
			return model.NewConfigError("unknown local-search operator %q", id)
		}
	}
	if p.SigmaBest < 0 || p.SigmaImprove < 0 || p.SigmaAccept < 0 {
		return model.NewConfigError("σ₁,σ₂,σ₃ must be ≥ 0")
	}
	if !(p.Cooling > 0 && p.Cooling < 1) {
		return model.NewConfigError("θ (Cooling) must satisfy 0 < θ < 1, got %v", p.Cooling)
	}
	if !(p.DestroyMinFrac > 0 && p.DestroyMinFrac <= p.DestroyMaxFrac && p.DestroyMaxFrac <= 1) {
		return model.NewConfigError("μ̲,μ̅ must satisfy 0 < μ̲ ≤ μ̅ ≤ 1, got %v,%v", p.DestroyMinFrac, p.DestroyMaxFrac)
	}
	if p.Reaction < 0 || p.Reaction > 1 {
		return model.NewConfigError("ρ (Reaction) must satisfy 0 ≤ ρ ≤ 1, got %v", p.Reaction)
	}
	return nil
}

// DestroySize computes q = ⌊(1−η)·min(C̲, μ̲·|C|) + η·min(C̅, μ̅·|C|)⌋ for a
// draw η ~ U(0,1) (§4.7).
func (p Parameters) DestroySize(eta float64, numCustomers int) int {
	n := float64(numCustomers)
	lo := minF(float64(p.DestroyMinAbs), p.DestroyMinFrac*n)
	hi := minF(float64(p.DestroyMaxAbs), p.DestroyMaxFrac*n)
	q := (1-eta)*lo + eta*hi
	return int(q)
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
