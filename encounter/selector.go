package encounter

import (
	"math/rand"

	"go.uber.org/zap"
)

// PoolEntry is one selectable attack. When every weight in a pool is zero
// the pool is drawn uniformly.
type PoolEntry struct {
	ID     string  `yaml:"id"`
	Weight float64 `yaml:"weight"`
}

// WeightScript re-derives pool weights at selection time.
type WeightScript interface {
	Weights(fraction float64, mood string, ids []string) (map[string]float64, error)
}

// Selector draws the next attack from a pool, never repeating the previous
// attack when the pool offers an alternative.
type Selector struct {
	rng *rand.Rand
}

func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Selector{rng: rng}
}

// Pick returns an id from pool \ {last}, or from the whole pool when it has a
// single entry. It returns "" for an empty pool.
func (s *Selector) Pick(pool []PoolEntry, last string) string {
	if len(pool) == 0 {
		return ""
	}
	candidates := pool
	if len(pool) > 1 && last != "" {
		candidates = make([]PoolEntry, 0, len(pool))
		for _, entry := range pool {
			if entry.ID != last {
				candidates = append(candidates, entry)
			}
		}
		if len(candidates) == 0 {
			candidates = pool
		}
	}

	total := 0.0
	for _, entry := range candidates {
		if entry.Weight > 0 {
			total += entry.Weight
		}
	}
	if total <= 0 {
		return candidates[s.rng.Intn(len(candidates))].ID
	}

	pick := s.rng.Float64() * total
	acc := 0.0
	for _, entry := range candidates {
		if entry.Weight <= 0 {
			continue
		}
		acc += entry.Weight
		if pick < acc {
			return entry.ID
		}
	}
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].Weight > 0 {
			return candidates[i].ID
		}
	}
	return candidates[len(candidates)-1].ID
}

// pool returns the mood's pool with weights re-derived by its script, if it
// has one. Script failures fall back to the authored weights.
func (e *Encounter) pool(m *Mood) []PoolEntry {
	if m.Script == nil {
		return m.Pool
	}
	ids := make([]string, len(m.Pool))
	for i, entry := range m.Pool {
		ids[i] = entry.ID
	}
	weights, err := m.Script.Weights(e.HealthFraction(), m.Name, ids)
	if err != nil {
		e.log.Warn("weight script failed",
			zap.String("encounter", e.def.Name),
			zap.String("mood", m.Name),
			zap.String("script", m.WeightScript),
			zap.Error(err),
		)
		return m.Pool
	}
	out := make([]PoolEntry, len(m.Pool))
	for i, entry := range m.Pool {
		out[i] = entry
		if w, ok := weights[entry.ID]; ok {
			out[i].Weight = w
		}
	}
	return out
}
