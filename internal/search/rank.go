package search

// RankStrategy decides how a document's stored rank and the engine's
// BM25-derived rank blend into one relevance score. Larger is better;
// relevance ordering happens in SQL using the strategy's weights, so a
// strategy is a pair of weights rather than an arbitrary function.
type RankStrategy interface {
	// Weights returns the multipliers applied to the stored document rank
	// and the engine rank. When a row has no stored rank the engine rank
	// is used at full weight.
	Weights() (stored, engine float64)
}

// WeightedBlend is the default strategy: combined = stored*Stored + engine*Engine.
type WeightedBlend struct {
	Stored float64
	Engine float64
}

func (b WeightedBlend) Weights() (float64, float64) {
	return b.Stored, b.Engine
}

// Combine mirrors the SQL combined-rank expression for callers that need
// the value in Go.
func (b WeightedBlend) Combine(stored *float64, engine float64) float64 {
	if stored == nil {
		return engine
	}
	return *stored*b.Stored + engine*b.Engine
}

// DefaultBlend returns the historical 0.7/0.3 weighting.
func DefaultBlend() WeightedBlend {
	return WeightedBlend{Stored: 0.7, Engine: 0.3}
}
