// Package riskconfig owns the numeric weights, thresholds, parameters and
// per-credit-rating matrix that drive risk scoring. Reads never fail due to
// absence: unset keys fall back to named defaults field by field, so the store
// always yields complete, semantically valid values.
package riskconfig

import "math"

// WeightSumTolerance is the allowed deviation of the risk weight sum from 1.0
const WeightSumTolerance = 0.001

// RiskWeights are the non-negative fractions applied to each risk component.
// Invariant: the five components sum to 1.0 within WeightSumTolerance.
type RiskWeights struct {
	CreditRating          float64 `json:"credit_rating"`
	FinancialHealth       float64 `json:"financial_health"`
	ProductionVariability float64 `json:"production_variability"`
	MarketConditions      float64 `json:"market_conditions"`
	PolicyImpact          float64 `json:"policy_impact"`
}

// Sum returns the total of all five weight components
func (w RiskWeights) Sum() float64 {
	return w.CreditRating + w.FinancialHealth + w.ProductionVariability + w.MarketConditions + w.PolicyImpact
}

// SumValid reports whether the weight sum is within tolerance of 1.0
func (w RiskWeights) SumValid() bool {
	return math.Abs(w.Sum()-1.0) <= WeightSumTolerance
}

// ThresholdTriple is a low/medium/high band boundary set on a 0-100 scale
type ThresholdTriple struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Increasing reports whether the triple is strictly increasing
func (t ThresholdTriple) Increasing() bool {
	return t.Low < t.Medium && t.Medium < t.High
}

// CreditCutoffs are composite-score cutoffs (0-100, higher is riskier) used to
// locate a score in a categorical risk level
type CreditCutoffs struct {
	InvestmentGrade  float64 `json:"investment_grade"`
	SpeculativeGrade float64 `json:"speculative_grade"`
	HighRisk         float64 `json:"high_risk"`
}

// Increasing reports whether the cutoffs are strictly increasing
func (c CreditCutoffs) Increasing() bool {
	return c.InvestmentGrade < c.SpeculativeGrade && c.SpeculativeGrade < c.HighRisk
}

// RiskThresholds groups the nine configured threshold values
type RiskThresholds struct {
	Production ThresholdTriple `json:"production"`
	Volatility ThresholdTriple `json:"volatility"`
	Credit     CreditCutoffs   `json:"credit"`
}

// RiskParameters are the scalar inputs of discount-rate and confidence
// computation. Invariants: MinDiscountRate < BaseDiscountRate <
// MaxDiscountRate and 50 <= ConfidenceBase <= 95.
type RiskParameters struct {
	BaseDiscountRate        float64 `json:"base_discount_rate"` // percent
	MaxDiscountRate         float64 `json:"max_discount_rate"`  // percent
	MinDiscountRate         float64 `json:"min_discount_rate"`  // percent
	ConfidenceBase          float64 `json:"confidence_base"`
	ConfidenceRealTimeBonus float64 `json:"confidence_real_time_bonus"`
}

// RiskTier is the categorical label assigned to a credit-rating band
type RiskTier string

const (
	TierPrime           RiskTier = "Prime"
	TierInvestmentGrade RiskTier = "Investment Grade"
	TierSpeculative     RiskTier = "Speculative"
	TierHighRisk        RiskTier = "High Risk"
	TierDefaultRisk     RiskTier = "Default Risk"
)

// CreditRating describes one rating band of the credit matrix
type CreditRating struct {
	Rating          string   `json:"rating"` // band label, e.g. "AA-"
	DefaultRate     float64  `json:"default_rate"`
	SpreadBps       int      `json:"spread_bps"`
	InvestmentGrade bool     `json:"investment_grade"`
	RiskTier        RiskTier `json:"risk_tier"`
}

// Snapshot is a complete, point-in-time view of all four configuration
// categories. The risk engine consumes snapshots, never the store itself.
type Snapshot struct {
	Weights    RiskWeights             `json:"weights"`
	Thresholds RiskThresholds          `json:"thresholds"`
	Parameters RiskParameters          `json:"parameters"`
	Matrix     map[string]CreditRating `json:"matrix"` // keyed by rating label
}
