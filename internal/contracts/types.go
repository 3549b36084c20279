package contracts

import (
	"fmt"
	"strings"
	"time"
)

// Tier is the discrete risk classification of a client.
type Tier string

const (
	TierConservative Tier = "Conservative"
	TierModerate     Tier = "Moderate"
	TierAggressive   Tier = "Aggressive"
)

// Tiers lists all valid tiers in ascending risk order.
func Tiers() []Tier {
	return []Tier{TierConservative, TierModerate, TierAggressive}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierConservative, TierModerate, TierAggressive:
		return true
	}
	return false
}

func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a case-insensitive tier name to a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conservative":
		return TierConservative, nil
	case "moderate":
		return TierModerate, nil
	case "aggressive":
		return TierAggressive, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProfile, s)
}

// RiskLevel is the catalog-assigned risk of a single product.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Product is immutable reference data owned by the catalog.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	AnnualYield   float64   `json:"annual_yield"`
	Risk          RiskLevel `json:"risk"`
	MinTermMonths int       `json:"min_term_months"`
	LiquidityDays int       `json:"liquidity_days"`
}

// Client is a minimal registry record, created on first simulation.
type Client struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Simulation is an unexecuted, hypothetical investment projection.
// Effectuated flips false to true exactly once and never reverts.
type Simulation struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"client_id"`
	ProductID   int64     `json:"product_id"`
	Amount      float64   `json:"amount"`
	FinalValue  float64   `json:"final_value"`
	TermMonths  int       `json:"term_months"`
	CreatedAt   time.Time `json:"created_at"`
	Effectuated bool      `json:"effectuated"`
}

// InvestmentEntry is a permanent investment-history record. ProductType
// and AnnualYield are snapshots taken at effectivization time; the row is
// immutable once created.
type InvestmentEntry struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"client_id"`
	ProductID     int64     `json:"product_id"`
	ProductType   string    `json:"product_type"`
	AnnualYield   float64   `json:"annual_yield"`
	Amount        float64   `json:"amount"`
	EffectuatedAt time.Time `json:"effectuated_at"`
}

// RiskProfile is the most recent classification for a client. At most
// one row per client is kept; recomputation overwrites it.
type RiskProfile struct {
	ClientID    int64     `json:"client_id"`
	Tier        Tier      `json:"tier"`
	Score       int       `json:"score"`
	UpdatedAt   time.Time `json:"updated_at"`
	Explanation string    `json:"explanation"`
}
