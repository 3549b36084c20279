package riskprofile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/caixaverso/investcore/internal/contracts"
)

// Pure scoring calculator. Data loading, locking, and persistence live
// in Engine; everything in this file is side-effect free.

// Default score assigned when a client has no usable history.
const defaultScore = 20

const (
	noteNoHistory        = "Client has no investment history; profile defaults to conservative."
	noteNonPositiveTotal = "Total invested is zero or negative; profile defaults to conservative."
)

// Statistics holds the raw aggregates behind a score, used to build the
// human-readable explanation.
type Statistics struct {
	TotalInvested     float64 `json:"total_invested"`
	Frequency12M      int     `json:"frequency_12m"`
	MeanLiquidityDays float64 `json:"mean_liquidity_days"`
	MeanAnnualYield   float64 `json:"mean_annual_yield"`
	HighRiskFraction  float64 `json:"high_risk_fraction"`
}

// ScoreResult is the outcome of scoring one client's history.
type ScoreResult struct {
	Score     int
	Tier      contracts.Tier
	Stats     Statistics
	Defaulted bool
	Note      string
}

// Score computes the composite risk score for a client history against
// the product catalog. now anchors the trailing 12-month frequency
// window.
func Score(history []contracts.InvestmentEntry, products []contracts.Product, now time.Time) ScoreResult {
	if len(history) == 0 {
		return defaultResult(noteNoHistory)
	}

	total := 0.0
	for _, h := range history {
		total += h.Amount
	}
	if total <= 0 {
		return defaultResult(noteNonPositiveTotal)
	}

	stats := Statistics{
		TotalInvested:    total,
		Frequency12M:     frequency12Months(history, now),
		HighRiskFraction: highRiskFraction(history, total),
	}
	stats.MeanLiquidityDays, stats.MeanAnnualYield = productAverages(history, products)

	score := volumeScore(stats.TotalInvested) +
		frequencyScore(stats.Frequency12M) +
		liquidityScore(stats.MeanLiquidityDays) +
		yieldScore(stats.MeanAnnualYield) +
		compositionScore(stats.HighRiskFraction)

	tier := TierForScore(score)

	return ScoreResult{
		Score: score,
		Tier:  tier,
		Stats: stats,
		Note:  buildExplanation(tier, score, stats),
	}
}

func defaultResult(note string) ScoreResult {
	return ScoreResult{
		Score:     defaultScore,
		Tier:      contracts.TierConservative,
		Defaulted: true,
		Note:      note,
	}
}

// TierForScore maps a total score to its tier band.
func TierForScore(score int) contracts.Tier {
	switch {
	case score <= 80:
		return contracts.TierConservative
	case score <= 140:
		return contracts.TierModerate
	default:
		return contracts.TierAggressive
	}
}

// frequency12Months counts entries inside the trailing 12-month window.
func frequency12Months(history []contracts.InvestmentEntry, now time.Time) int {
	cutoff := now.AddDate(-1, 0, 0)
	count := 0
	for _, h := range history {
		if !h.EffectuatedAt.Before(cutoff) {
			count++
		}
	}
	return count
}

// highRiskFraction is the share of total invested value held in
// high-risk product types, clamped to [0, 1].
func highRiskFraction(history []contracts.InvestmentEntry, total float64) float64 {
	highRisk := 0.0
	for _, h := range history {
		if Classify(h.ProductType) == HighRisk {
			highRisk += h.Amount
		}
	}
	return math.Min(math.Max(highRisk/total, 0), 1)
}

// productAverages matches history entries to catalog products by type
// (case-insensitive) and averages liquidity days and annual yield over
// the matched entries. Unmatched entries are excluded; with no matches
// the fallbacks are 30 days and 0.10.
func productAverages(history []contracts.InvestmentEntry, products []contracts.Product) (liquidity, yield float64) {
	byType := make(map[string]contracts.Product, len(products))
	for _, p := range products {
		byType[strings.ToLower(p.Type)] = p
	}

	var liquiditySum, yieldSum float64
	matched := 0
	for _, h := range history {
		p, ok := byType[strings.ToLower(h.ProductType)]
		if !ok {
			continue
		}
		liquiditySum += float64(p.LiquidityDays)
		yieldSum += p.AnnualYield
		matched++
	}

	if matched == 0 {
		return 30, 0.10
	}
	return liquiditySum / float64(matched), yieldSum / float64(matched)
}

// Axis band functions. Each maps a raw statistic to an integer score.

func volumeScore(totalInvested float64) int {
	switch {
	case totalInvested < 5_000:
		return 10
	case totalInvested < 20_000:
		return 20
	case totalInvested < 100_000:
		return 30
	default:
		return 40
	}
}

func frequencyScore(freq12M int) int {
	switch {
	case freq12M == 0:
		return 10
	case freq12M == 1:
		return 20
	case freq12M <= 6:
		return 30
	default:
		return 40
	}
}

func liquidityScore(meanLiquidityDays float64) int {
	// Short liquidity windows signal a strong preference for liquidity,
	// which reads as conservative appetite.
	switch {
	case meanLiquidityDays <= 30:
		return 40
	case meanLiquidityDays <= 90:
		return 25
	default:
		return 10
	}
}

func yieldScore(meanAnnualYield float64) int {
	switch {
	case meanAnnualYield < 0.08:
		return 10
	case meanAnnualYield < 0.12:
		return 20
	case meanAnnualYield < 0.20:
		return 30
	default:
		return 40
	}
}

func compositionScore(highRiskFraction float64) int {
	return int(math.Round(highRiskFraction * 40))
}

// buildExplanation renders the tier, score, and raw statistics into a
// human-readable summary for API responses.
func buildExplanation(tier contracts.Tier, score int, stats Statistics) string {
	var base string
	switch tier {
	case contracts.TierConservative:
		base = "Conservative profile: focus on safety, preference for liquidity, and low exposure to higher-risk assets."
	case contracts.TierModerate:
		base = "Moderate profile: balance between safety and return, with some exposure to higher-risk assets."
	case contracts.TierAggressive:
		base = "Aggressive profile: higher risk tolerance, seeking higher returns and accepting more volatility."
	default:
		base = "Risk profile computed from the client's investment behavior."
	}

	return base + fmt.Sprintf(
		" Score %d. Total invested: %.2f. Movements in the last 12 months: %d. Mean product liquidity: ~%.1f days. Mean annual yield: %.2f%%. High-risk exposure: %.2f%% of total invested.",
		score,
		stats.TotalInvested,
		stats.Frequency12M,
		stats.MeanLiquidityDays,
		stats.MeanAnnualYield*100,
		stats.HighRiskFraction*100,
	)
}
