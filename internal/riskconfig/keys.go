package riskconfig

import "strings"

// Storage key naming. All non-matrix keys share the "risk_" prefix; credit
// matrix keys are derived from the rating band label.
const (
	riskKeyPrefix = "risk_"

	keyWeightCreditRating          = "risk_weight_credit_rating"
	keyWeightFinancialHealth       = "risk_weight_financial_health"
	keyWeightProductionVariability = "risk_weight_production_variability"
	keyWeightMarketConditions      = "risk_weight_market_conditions"
	keyWeightPolicyImpact          = "risk_weight_policy_impact"

	keyThresholdProductionLow    = "risk_threshold_production_low"
	keyThresholdProductionMedium = "risk_threshold_production_medium"
	keyThresholdProductionHigh   = "risk_threshold_production_high"
	keyThresholdVolatilityLow    = "risk_threshold_volatility_low"
	keyThresholdVolatilityMedium = "risk_threshold_volatility_medium"
	keyThresholdVolatilityHigh   = "risk_threshold_volatility_high"
	keyThresholdInvestmentGrade  = "risk_threshold_credit_investment_grade"
	keyThresholdSpeculativeGrade = "risk_threshold_credit_speculative_grade"
	keyThresholdHighRisk         = "risk_threshold_credit_high_risk"

	keyParamBaseDiscountRate   = "risk_param_base_discount_rate"
	keyParamMaxDiscountRate    = "risk_param_max_discount_rate"
	keyParamMinDiscountRate    = "risk_param_min_discount_rate"
	keyParamConfidenceBase     = "risk_param_confidence_base"
	keyParamConfidenceRTBonus  = "risk_param_confidence_real_time_bonus"

	creditRatingKeyPrefix = "credit_rating_"

	suffixDefaultRate     = "_default_rate"
	suffixSpreadBps       = "_spread_bps"
	suffixInvestmentGrade = "_investment_grade"
	suffixRiskTier        = "_risk_tier"
)

// ratingKeyByLabel is the explicit bidirectional mapping between canonical
// rating band labels and their storage key stems. Labels outside this table
// are encoded with the same deterministic transform (lowercase, "+" -> "_plus",
// "-" -> "_minus"), so custom bands round-trip too.
var ratingKeyByLabel = map[string]string{
	"AAA":  "aaa",
	"AA+":  "aa_plus",
	"AA":   "aa",
	"AA-":  "aa_minus",
	"A+":   "a_plus",
	"A":    "a",
	"A-":   "a_minus",
	"BBB+": "bbb_plus",
	"BBB":  "bbb",
	"BBB-": "bbb_minus",
	"BB+":  "bb_plus",
	"BB":   "bb",
	"BB-":  "bb_minus",
	"B+":   "b_plus",
	"B":    "b",
	"B-":   "b_minus",
	"CCC+": "ccc_plus",
	"CCC":  "ccc",
	"CCC-": "ccc_minus",
	"CC":   "cc",
	"C":    "c",
	"D":    "d",
}

var ratingLabelByKey = func() map[string]string {
	m := make(map[string]string, len(ratingKeyByLabel))
	for label, key := range ratingKeyByLabel {
		m[key] = label
	}
	return m
}()

// EncodeRatingKey converts a rating band label to its storage key stem
func EncodeRatingKey(label string) string {
	if key, ok := ratingKeyByLabel[label]; ok {
		return key
	}
	key := strings.ToLower(label)
	key = strings.ReplaceAll(key, "+", "_plus")
	key = strings.ReplaceAll(key, "-", "_minus")
	return key
}

// DecodeRatingKey converts a storage key stem back to the rating band label
func DecodeRatingKey(key string) string {
	if label, ok := ratingLabelByKey[key]; ok {
		return label
	}
	label := strings.ReplaceAll(key, "_plus", "+")
	label = strings.ReplaceAll(label, "_minus", "-")
	return strings.ToUpper(label)
}

// ratingFieldKeys returns the four persisted keys for one rating band
func ratingFieldKeys(label string) (defaultRate, spreadBps, investmentGrade, riskTier string) {
	stem := creditRatingKeyPrefix + EncodeRatingKey(label)
	return stem + suffixDefaultRate, stem + suffixSpreadBps, stem + suffixInvestmentGrade, stem + suffixRiskTier
}
