// Package risk turns externally resolved signals into a composite risk score,
// categorical risk level, discount rate and confidence value for one
// receivable. Calculation is a pure function of a configuration snapshot and
// the input signals: identical inputs always produce identical output.
package risk

import (
	"github.com/verdant-labs/climate-receivables/internal/models"
	"github.com/verdant-labs/climate-receivables/internal/riskconfig"
)

// Level is the categorical risk classification of a composite score
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// componentCount is the number of weighted risk components
const componentCount = 5

// Input carries the externally resolved signals for one receivable. Every
// signal is optional; a missing signal degrades confidence instead of failing
// the calculation.
type Input struct {
	// CreditRating is the payer's rating band label; empty means unresolved
	CreditRating string
	// ProductionVariability is the asset output variability estimate, 0-100
	ProductionVariability *float64
	// MarketVolatility is the market volatility estimate, 0-100
	MarketVolatility *float64
	// PolicyImpact is the policy/regulatory impact estimate, 0-100
	PolicyImpact *float64
	// FinancialHealth is the payer financial health score, 0-100 where higher
	// is healthier
	FinancialHealth *float64
}

// Components holds the per-factor sub-scores that formed a composite score
type Components struct {
	CreditRating          float64 `json:"credit_rating"`
	FinancialHealth       float64 `json:"financial_health"`
	ProductionVariability float64 `json:"production_variability"`
	MarketConditions      float64 `json:"market_conditions"`
	PolicyImpact          float64 `json:"policy_impact"`
}

// Assessment is the result of one risk calculation
type Assessment struct {
	Score          float64    `json:"score"` // composite, 0-100
	Level          Level      `json:"level"`
	DiscountRate   float64    `json:"discount_rate"` // percent
	Confidence     float64    `json:"confidence"`    // 0-100
	Components     Components `json:"components"`
	LiveComponents int        `json:"live_components"` // how many signals were live
}

// Calculate produces a risk assessment from a configuration snapshot and the
// resolved signals. An invalid snapshot fails with ConfigurationError; missing
// signals substitute neutral defaults and reduce confidence.
func Calculate(snap riskconfig.Snapshot, in Input) (Assessment, error) {
	if err := validateSnapshot(snap); err != nil {
		return Assessment{}, err
	}

	creditScore, creditLive := resolveCreditRating(in.CreditRating, snap.Matrix)
	healthSignal, healthLive := ResolveSignal(in.FinancialHealth)
	productionSignal, productionLive := ResolveSignal(in.ProductionVariability)
	marketSignal, marketLive := ResolveSignal(in.MarketVolatility)
	policySignal, policyLive := ResolveSignal(in.PolicyImpact)

	c := Components{
		CreditRating:          creditScore,
		FinancialHealth:       100 - healthSignal, // healthier payer, lower risk
		ProductionVariability: bandScore(productionSignal, snap.Thresholds.Production),
		MarketConditions:      bandScore(marketSignal, snap.Thresholds.Volatility),
		PolicyImpact:          policySignal,
	}

	w := snap.Weights
	score := clamp(
		w.CreditRating*c.CreditRating+
			w.FinancialHealth*c.FinancialHealth+
			w.ProductionVariability*c.ProductionVariability+
			w.MarketConditions*c.MarketConditions+
			w.PolicyImpact*c.PolicyImpact,
		0, 100)

	live := 0
	for _, isLive := range []bool{creditLive, healthLive, productionLive, marketLive, policyLive} {
		if isLive {
			live++
		}
	}

	return Assessment{
		Score:          score,
		Level:          LevelFor(score, snap.Thresholds.Credit),
		DiscountRate:   discountRate(score, live, snap.Parameters),
		Confidence:     confidence(live, snap.Parameters),
		Components:     c,
		LiveComponents: live,
	}, nil
}

// validateSnapshot rejects configurations the engine must not compute with.
// Defaults are the configuration store's responsibility, never the engine's.
func validateSnapshot(snap riskconfig.Snapshot) error {
	if !snap.Weights.SumValid() {
		return &models.ConfigurationError{Reason: "risk weights do not sum to 1.0"}
	}
	p := snap.Parameters
	if !(p.MinDiscountRate < p.BaseDiscountRate && p.BaseDiscountRate < p.MaxDiscountRate) {
		return &models.ConfigurationError{Reason: "discount rates violate min < base < max"}
	}
	if p.ConfidenceBase < 50 || p.ConfidenceBase > 95 {
		return &models.ConfigurationError{Reason: "confidence base outside [50,95]"}
	}
	t := snap.Thresholds
	if !t.Production.Increasing() || !t.Volatility.Increasing() || !t.Credit.Increasing() {
		return &models.ConfigurationError{Reason: "thresholds are not strictly increasing"}
	}
	if len(snap.Matrix) == 0 {
		return &models.ConfigurationError{Reason: "credit rating matrix is empty"}
	}
	return nil
}

// bandScore locates a 0-100 signal within a threshold triple and returns the
// banded sub-score
func bandScore(value float64, t riskconfig.ThresholdTriple) float64 {
	switch {
	case value <= t.Low:
		return 20
	case value <= t.Medium:
		return 40
	case value <= t.High:
		return 60
	default:
		return 80
	}
}

// tierScores maps a rating band's risk tier to its credit sub-score
var tierScores = map[riskconfig.RiskTier]float64{
	riskconfig.TierPrime:           10,
	riskconfig.TierInvestmentGrade: 30,
	riskconfig.TierSpeculative:     55,
	riskconfig.TierHighRisk:        80,
	riskconfig.TierDefaultRisk:     95,
}

// resolveCreditRating maps a rating label to its credit sub-score via the
// matrix. An empty or unknown label degrades to the neutral default.
func resolveCreditRating(label string, matrix map[string]riskconfig.CreditRating) (float64, bool) {
	if label == "" {
		return NeutralSignal, false
	}
	band, ok := matrix[label]
	if !ok {
		return NeutralSignal, false
	}
	if score, ok := tierScores[band.RiskTier]; ok {
		return score, true
	}
	return NeutralSignal, false
}

// LevelFor locates a composite score against the configured credit cutoffs
func LevelFor(score float64, cutoffs riskconfig.CreditCutoffs) Level {
	switch {
	case score < cutoffs.InvestmentGrade:
		return LevelLow
	case score < cutoffs.SpeculativeGrade:
		return LevelMedium
	case score < cutoffs.HighRisk:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// discountRate maps the composite score linearly into [min, max]. With no
// live signal at all the base rate applies: there is nothing to anchor the
// mapping on.
func discountRate(score float64, live int, p riskconfig.RiskParameters) float64 {
	if live == 0 {
		return p.BaseDiscountRate
	}
	return p.MinDiscountRate + (score/100)*(p.MaxDiscountRate-p.MinDiscountRate)
}

// confidence computes the reported confidence: the full real-time bonus when
// every component was live, otherwise a proportional share of the base is
// deducted per defaulted component
func confidence(live int, p riskconfig.RiskParameters) float64 {
	if live == componentCount {
		return clamp(p.ConfidenceBase+p.ConfidenceRealTimeBonus, 0, 100)
	}
	defaulted := float64(componentCount - live)
	return clamp(p.ConfidenceBase-(p.ConfidenceBase/componentCount)*defaulted, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
