package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/verdant-labs/climate-receivables/internal/metrics"
	"github.com/verdant-labs/climate-receivables/internal/models"
	"github.com/verdant-labs/climate-receivables/internal/risk"
)

// RecalculateRisk computes the risk assessment for one receivable. Unless
// force is set, a cached assessment is returned as-is; force bypasses and
// overwrites the cache. The computed score and discount rate are persisted on
// the receivable.
func (s *Service) RecalculateRisk(ctx context.Context, id uuid.UUID, force bool) (*risk.Assessment, error) {
	rec, err := s.repo.FindReceivableByID(id)
	if err != nil {
		metrics.RiskCalculations.WithLabelValues("failed").Inc()
		return nil, err
	}

	if !force {
		cached, hit, err := s.scores.Get(ctx, id.String())
		if err != nil {
			s.log.Warnf("Score cache read failed for %s: %v", id, err)
		} else if hit {
			metrics.RiskCalculations.WithLabelValues("cached").Inc()
			return cached, nil
		}
	}

	snap, err := s.store.Snapshot()
	if err != nil {
		metrics.RiskCalculations.WithLabelValues("failed").Inc()
		return nil, err
	}

	assessment, err := risk.Calculate(snap, s.resolveSignals(rec))
	if err != nil {
		metrics.RiskCalculations.WithLabelValues("failed").Inc()
		return nil, err
	}

	if err := s.repo.UpdateReceivableRisk(id, assessment.Score, assessment.DiscountRate); err != nil {
		metrics.RiskCalculations.WithLabelValues("failed").Inc()
		return nil, err
	}
	if err := s.scores.Set(ctx, id.String(), assessment); err != nil {
		s.log.Warnf("Score cache write failed for %s: %v", id, err)
	}
	metrics.RiskCalculations.WithLabelValues("calculated").Inc()
	s.log.Infof("Risk recalculated for receivable %s: score=%.1f level=%s discount=%.2f%% confidence=%.0f",
		id, assessment.Score, assessment.Level, assessment.DiscountRate, assessment.Confidence)

	if assessment.Level == risk.LevelHigh || assessment.Level == risk.LevelCritical {
		s.sendRiskAlert(rec, assessment)
	}
	return &assessment, nil
}

// resolveSignals gathers whatever external signals are reachable for a
// receivable. Anything unavailable stays absent and degrades confidence
// instead of failing the calculation.
func (s *Service) resolveSignals(rec *models.Receivable) risk.Input {
	var in risk.Input

	payer, err := s.repo.FindPayerByID(rec.PayerID)
	if err != nil {
		s.log.Warnf("Payer lookup failed for receivable %s: %v", rec.ID, err)
	} else {
		in.CreditRating = payer.CreditRating
		in.FinancialHealth = payer.FinancialHealthScore
	}

	asset, err := s.repo.FindAssetByID(rec.AssetID)
	if err != nil {
		s.log.Warnf("Asset lookup failed for receivable %s: %v", rec.ID, err)
	} else {
		in.ProductionVariability = asset.ProductionVariability
	}

	if s.feed != nil {
		rate, err := s.feed.GetPolicyRate()
		if err != nil {
			s.log.Warnf("Policy rate feed unavailable: %v", err)
		} else {
			// Normalize the rate in percent onto the 0-100 signal scale: a
			// 20% rate saturates volatility, a 25% rate saturates policy
			// impact.
			volatility := clampSignal(rate * 5)
			policy := clampSignal(rate * 4)
			in.MarketVolatility = &volatility
			in.PolicyImpact = &policy
		}
	}
	return in
}

func clampSignal(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// sendRiskAlert emails the configured operations address; failures are
// logged only
func (s *Service) sendRiskAlert(rec *models.Receivable, a risk.Assessment) {
	if s.mailer == nil || s.config.AlertEmail == "" {
		return
	}
	if err := s.mailer.SendRiskAlert(s.config.AlertEmail, rec.ID.String(), string(a.Level), a.Score, a.DiscountRate); err != nil {
		metrics.AlertEmails.WithLabelValues("failed").Inc()
		return
	}
	metrics.AlertEmails.WithLabelValues("sent").Inc()
}

// BatchResult reports the outcome of a batch recalculation
type BatchResult struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RecalculateAll recalculates risk for every receivable, continuing past
// individual failures and reporting per-item counts
func (s *Service) RecalculateAll(ctx context.Context, force bool) (BatchResult, error) {
	receivables, err := s.repo.ListReceivables()
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{Total: len(receivables)}
	for _, rec := range receivables {
		if _, err := s.RecalculateRisk(ctx, rec.ID, force); err != nil {
			result.Failed++
			s.log.Errorf("Batch recalculation failed for receivable %s: %v", rec.ID, err)
			continue
		}
		result.Succeeded++
	}
	s.log.Infof("Batch risk recalculation finished: %d total, %d succeeded, %d failed",
		result.Total, result.Succeeded, result.Failed)
	return result, nil
}
