// Package markov predicts the most likely next risk tier of a client
// from a static transition matrix. Pure lookup, no hidden state.
package markov

import (
	"fmt"

	"github.com/caixaverso/investcore/internal/contracts"
)

// Distribution maps each candidate next tier to its probability.
type Distribution map[contracts.Tier]float64

// transitions is the static tier transition matrix. Each row sums to 1.
var transitions = map[contracts.Tier]Distribution{
	contracts.TierConservative: {
		contracts.TierConservative: 0.80,
		contracts.TierModerate:     0.18,
		contracts.TierAggressive:   0.02,
	},
	contracts.TierModerate: {
		contracts.TierConservative: 0.10,
		contracts.TierModerate:     0.70,
		contracts.TierAggressive:   0.20,
	},
	contracts.TierAggressive: {
		contracts.TierConservative: 0.03,
		contracts.TierModerate:     0.22,
		contracts.TierAggressive:   0.75,
	},
}

// Predict returns the transition distribution for tier and the most
// likely next tier (argmax of the row). The returned distribution is a
// copy; mutating it does not affect the matrix.
func Predict(tier contracts.Tier) (Distribution, contracts.Tier, error) {
	row, ok := transitions[tier]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", contracts.ErrUnknownProfile, tier)
	}

	dist := make(Distribution, len(row))
	var next contracts.Tier
	best := -1.0
	// Iterate in fixed tier order so equal probabilities break ties
	// deterministically.
	for _, t := range contracts.Tiers() {
		p := row[t]
		dist[t] = p
		if p > best {
			best = p
			next = t
		}
	}

	return dist, next, nil
}
