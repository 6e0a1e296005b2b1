package riskconfig

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/verdant-labs/climate-receivables/internal/models"
)

// Store exposes typed access to the risk configuration on top of a flat
// key/value Repository. Updates validate invariants before writing and write
// each category atomically; getters fill missing or unparsable keys from the
// canonical defaults field by field.
type Store struct {
	repo Repository
	log  *logrus.Logger
}

// NewStore initializes a configuration store over the given repository
func NewStore(repo Repository, log *logrus.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// floatOr reads a float value for key, falling back to def when the key is
// unset or its stored value does not parse
func (s *Store) floatOr(key string, def float64) (float64, error) {
	raw, ok, err := s.repo.Get(key)
	if err != nil {
		return 0, fmt.Errorf("failed to read config key %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.log.Warnf("Unparsable config value for %s (%q), using default %v", key, raw, def)
		return def, nil
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RiskWeights returns the configured weight vector, default-filled per field
func (s *Store) RiskWeights() (RiskWeights, error) {
	w := DefaultRiskWeights()
	var err error
	if w.CreditRating, err = s.floatOr(keyWeightCreditRating, w.CreditRating); err != nil {
		return RiskWeights{}, err
	}
	if w.FinancialHealth, err = s.floatOr(keyWeightFinancialHealth, w.FinancialHealth); err != nil {
		return RiskWeights{}, err
	}
	if w.ProductionVariability, err = s.floatOr(keyWeightProductionVariability, w.ProductionVariability); err != nil {
		return RiskWeights{}, err
	}
	if w.MarketConditions, err = s.floatOr(keyWeightMarketConditions, w.MarketConditions); err != nil {
		return RiskWeights{}, err
	}
	if w.PolicyImpact, err = s.floatOr(keyWeightPolicyImpact, w.PolicyImpact); err != nil {
		return RiskWeights{}, err
	}
	return w, nil
}

// UpdateRiskWeights validates and persists a new weight vector. Weights that
// do not sum to 1.0 within tolerance are rejected with no partial write.
func (s *Store) UpdateRiskWeights(w RiskWeights) error {
	for name, v := range map[string]float64{
		"credit_rating":          w.CreditRating,
		"financial_health":       w.FinancialHealth,
		"production_variability": w.ProductionVariability,
		"market_conditions":      w.MarketConditions,
		"policy_impact":          w.PolicyImpact,
	} {
		if v < 0 {
			return models.NewValidationError("risk_weights", "weight %s must be non-negative, got %v", name, v)
		}
	}
	if !w.SumValid() {
		return models.NewValidationError("risk_weights", "weights must sum to 1.0 within %v, got %v", WeightSumTolerance, w.Sum())
	}
	if err := s.repo.SetAll(weightValues(w)); err != nil {
		return fmt.Errorf("failed to persist risk weights: %w", err)
	}
	s.log.Infof("Risk weights updated: sum=%v", w.Sum())
	return nil
}

func weightValues(w RiskWeights) map[string]string {
	return map[string]string{
		keyWeightCreditRating:          formatFloat(w.CreditRating),
		keyWeightFinancialHealth:       formatFloat(w.FinancialHealth),
		keyWeightProductionVariability: formatFloat(w.ProductionVariability),
		keyWeightMarketConditions:      formatFloat(w.MarketConditions),
		keyWeightPolicyImpact:          formatFloat(w.PolicyImpact),
	}
}

// RiskThresholds returns the configured thresholds, default-filled per field
func (s *Store) RiskThresholds() (RiskThresholds, error) {
	t := DefaultRiskThresholds()
	fields := []struct {
		key string
		dst *float64
	}{
		{keyThresholdProductionLow, &t.Production.Low},
		{keyThresholdProductionMedium, &t.Production.Medium},
		{keyThresholdProductionHigh, &t.Production.High},
		{keyThresholdVolatilityLow, &t.Volatility.Low},
		{keyThresholdVolatilityMedium, &t.Volatility.Medium},
		{keyThresholdVolatilityHigh, &t.Volatility.High},
		{keyThresholdInvestmentGrade, &t.Credit.InvestmentGrade},
		{keyThresholdSpeculativeGrade, &t.Credit.SpeculativeGrade},
		{keyThresholdHighRisk, &t.Credit.HighRisk},
	}
	for _, f := range fields {
		v, err := s.floatOr(f.key, *f.dst)
		if err != nil {
			return RiskThresholds{}, err
		}
		*f.dst = v
	}
	return t, nil
}

// UpdateRiskThresholds validates and persists the nine threshold values.
// Each triple must be strictly increasing.
func (s *Store) UpdateRiskThresholds(t RiskThresholds) error {
	if !t.Production.Increasing() {
		return models.NewValidationError("risk_thresholds", "production thresholds must satisfy low < medium < high, got %v < %v < %v", t.Production.Low, t.Production.Medium, t.Production.High)
	}
	if !t.Volatility.Increasing() {
		return models.NewValidationError("risk_thresholds", "volatility thresholds must satisfy low < medium < high, got %v < %v < %v", t.Volatility.Low, t.Volatility.Medium, t.Volatility.High)
	}
	if !t.Credit.Increasing() {
		return models.NewValidationError("risk_thresholds", "credit cutoffs must satisfy investmentGrade < speculativeGrade < highRisk, got %v < %v < %v", t.Credit.InvestmentGrade, t.Credit.SpeculativeGrade, t.Credit.HighRisk)
	}
	if err := s.repo.SetAll(thresholdValues(t)); err != nil {
		return fmt.Errorf("failed to persist risk thresholds: %w", err)
	}
	s.log.Info("Risk thresholds updated")
	return nil
}

func thresholdValues(t RiskThresholds) map[string]string {
	return map[string]string{
		keyThresholdProductionLow:    formatFloat(t.Production.Low),
		keyThresholdProductionMedium: formatFloat(t.Production.Medium),
		keyThresholdProductionHigh:   formatFloat(t.Production.High),
		keyThresholdVolatilityLow:    formatFloat(t.Volatility.Low),
		keyThresholdVolatilityMedium: formatFloat(t.Volatility.Medium),
		keyThresholdVolatilityHigh:   formatFloat(t.Volatility.High),
		keyThresholdInvestmentGrade:  formatFloat(t.Credit.InvestmentGrade),
		keyThresholdSpeculativeGrade: formatFloat(t.Credit.SpeculativeGrade),
		keyThresholdHighRisk:         formatFloat(t.Credit.HighRisk),
	}
}

// RiskParameters returns the configured parameters, default-filled per field
func (s *Store) RiskParameters() (RiskParameters, error) {
	p := DefaultRiskParameters()
	fields := []struct {
		key string
		dst *float64
	}{
		{keyParamBaseDiscountRate, &p.BaseDiscountRate},
		{keyParamMaxDiscountRate, &p.MaxDiscountRate},
		{keyParamMinDiscountRate, &p.MinDiscountRate},
		{keyParamConfidenceBase, &p.ConfidenceBase},
		{keyParamConfidenceRTBonus, &p.ConfidenceRealTimeBonus},
	}
	for _, f := range fields {
		v, err := s.floatOr(f.key, *f.dst)
		if err != nil {
			return RiskParameters{}, err
		}
		*f.dst = v
	}
	return p, nil
}

// UpdateRiskParameters validates and persists the scalar parameters
func (s *Store) UpdateRiskParameters(p RiskParameters) error {
	if !(p.MinDiscountRate < p.BaseDiscountRate && p.BaseDiscountRate < p.MaxDiscountRate) {
		return models.NewValidationError("risk_parameters", "discount rates must satisfy min < base < max, got min=%v base=%v max=%v", p.MinDiscountRate, p.BaseDiscountRate, p.MaxDiscountRate)
	}
	if p.ConfidenceBase < 50 || p.ConfidenceBase > 95 {
		return models.NewValidationError("risk_parameters", "confidence base must be between 50 and 95, got %v", p.ConfidenceBase)
	}
	if err := s.repo.SetAll(parameterValues(p)); err != nil {
		return fmt.Errorf("failed to persist risk parameters: %w", err)
	}
	s.log.Info("Risk parameters updated")
	return nil
}

func parameterValues(p RiskParameters) map[string]string {
	return map[string]string{
		keyParamBaseDiscountRate:  formatFloat(p.BaseDiscountRate),
		keyParamMaxDiscountRate:   formatFloat(p.MaxDiscountRate),
		keyParamMinDiscountRate:   formatFloat(p.MinDiscountRate),
		keyParamConfidenceBase:    formatFloat(p.ConfidenceBase),
		keyParamConfidenceRTBonus: formatFloat(p.ConfidenceRealTimeBonus),
	}
}

// CreditRatingMatrix returns the configured matrix keyed by rating label.
// When no matrix has ever been written the canonical 22-band default is
// returned.
func (s *Store) CreditRatingMatrix() (map[string]CreditRating, error) {
	stored, err := s.repo.List(creditRatingKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit rating config: %w", err)
	}
	if len(stored) == 0 {
		matrix := make(map[string]CreditRating)
		for _, r := range DefaultCreditRatings() {
			matrix[r.Rating] = r
		}
		return matrix, nil
	}

	matrix := make(map[string]CreditRating)
	for key, raw := range stored {
		stem, field, ok := splitRatingKey(key)
		if !ok {
			s.log.Warnf("Skipping unrecognized credit rating key %q", key)
			continue
		}
		label := DecodeRatingKey(stem)
		r := matrix[label]
		r.Rating = label
		switch field {
		case suffixDefaultRate:
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				r.DefaultRate = v
			} else {
				s.log.Warnf("Unparsable default rate for rating %s: %q", label, raw)
			}
		case suffixSpreadBps:
			if v, err := strconv.Atoi(raw); err == nil {
				r.SpreadBps = v
			} else {
				s.log.Warnf("Unparsable spread for rating %s: %q", label, raw)
			}
		case suffixInvestmentGrade:
			r.InvestmentGrade = raw == "true"
		case suffixRiskTier:
			r.RiskTier = RiskTier(raw)
		}
		matrix[label] = r
	}
	return matrix, nil
}

// splitRatingKey separates a credit matrix storage key into its band stem and
// field suffix
func splitRatingKey(key string) (stem, field string, ok bool) {
	rest := strings.TrimPrefix(key, creditRatingKeyPrefix)
	for _, suffix := range []string{suffixDefaultRate, suffixSpreadBps, suffixInvestmentGrade, suffixRiskTier} {
		if strings.HasSuffix(rest, suffix) {
			return strings.TrimSuffix(rest, suffix), suffix, true
		}
	}
	return "", "", false
}

// UpdateCreditRatingMatrix bulk-replaces the stored matrix. Each rating
// expands into four persisted fields. Duplicate labels are rejected.
func (s *Store) UpdateCreditRatingMatrix(ratings []CreditRating) error {
	if len(ratings) == 0 {
		return models.NewValidationError("credit_ratings", "matrix must contain at least one rating band")
	}
	seen := make(map[string]bool, len(ratings))
	values := make(map[string]string, len(ratings)*4)
	for _, r := range ratings {
		if r.Rating == "" {
			return models.NewValidationError("credit_ratings", "rating label must not be empty")
		}
		if seen[r.Rating] {
			return models.NewValidationError("credit_ratings", "duplicate rating label %q", r.Rating)
		}
		seen[r.Rating] = true
		if r.DefaultRate < 0 || r.DefaultRate > 1 {
			return models.NewValidationError("credit_ratings", "default rate for %s must be in [0,1], got %v", r.Rating, r.DefaultRate)
		}
		if r.SpreadBps < 0 {
			return models.NewValidationError("credit_ratings", "spread for %s must be non-negative, got %d", r.Rating, r.SpreadBps)
		}
		kDefault, kSpread, kInvGrade, kTier := ratingFieldKeys(r.Rating)
		values[kDefault] = formatFloat(r.DefaultRate)
		values[kSpread] = strconv.Itoa(r.SpreadBps)
		values[kInvGrade] = strconv.FormatBool(r.InvestmentGrade)
		values[kTier] = string(r.RiskTier)
	}
	if err := s.repo.Replace(creditRatingKeyPrefix, values); err != nil {
		return fmt.Errorf("failed to persist credit rating matrix: %w", err)
	}
	s.log.Infof("Credit rating matrix updated: %d bands", len(ratings))
	return nil
}

// ResetToDefaults deletes all configuration for this subsystem and reseeds
// every category with the canonical defaults. Clearing the whole prefix first
// removes stale keys no default maps onto.
func (s *Store) ResetToDefaults() error {
	if err := s.repo.DeletePrefix(riskKeyPrefix); err != nil {
		return fmt.Errorf("failed to clear risk configuration: %w", err)
	}
	values := weightValues(DefaultRiskWeights())
	for k, v := range thresholdValues(DefaultRiskThresholds()) {
		values[k] = v
	}
	for k, v := range parameterValues(DefaultRiskParameters()) {
		values[k] = v
	}
	if err := s.repo.SetAll(values); err != nil {
		return fmt.Errorf("failed to reseed risk configuration: %w", err)
	}
	if err := s.UpdateCreditRatingMatrix(DefaultCreditRatings()); err != nil {
		return fmt.Errorf("failed to reseed credit rating matrix: %w", err)
	}
	s.log.Info("Risk configuration reset to defaults")
	return nil
}

// Snapshot assembles a complete configuration view for the risk engine
func (s *Store) Snapshot() (Snapshot, error) {
	w, err := s.RiskWeights()
	if err != nil {
		return Snapshot{}, err
	}
	t, err := s.RiskThresholds()
	if err != nil {
		return Snapshot{}, err
	}
	p, err := s.RiskParameters()
	if err != nil {
		return Snapshot{}, err
	}
	m, err := s.CreditRatingMatrix()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Weights: w, Thresholds: t, Parameters: p, Matrix: m}, nil
}

// SortedRatings returns the matrix bands of a snapshot ordered by default
// rate, strongest band first. Used by the API layer for stable listings.
func SortedRatings(matrix map[string]CreditRating) []CreditRating {
	out := make([]CreditRating, 0, len(matrix))
	for _, r := range matrix {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DefaultRate != out[j].DefaultRate {
			return out[i].DefaultRate < out[j].DefaultRate
		}
		return out[i].Rating < out[j].Rating
	})
	return out
}
