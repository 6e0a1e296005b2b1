package riskconfig

// DefaultRiskWeights returns the canonical weight vector
func DefaultRiskWeights() RiskWeights {
	return RiskWeights{
		CreditRating:          0.35,
		FinancialHealth:       0.25,
		ProductionVariability: 0.20,
		MarketConditions:      0.10,
		PolicyImpact:          0.10,
	}
}

// DefaultRiskThresholds returns the canonical threshold values
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		Production: ThresholdTriple{Low: 20, Medium: 50, High: 80},
		Volatility: ThresholdTriple{Low: 15, Medium: 40, High: 70},
		Credit:     CreditCutoffs{InvestmentGrade: 35, SpeculativeGrade: 60, HighRisk: 80},
	}
}

// DefaultRiskParameters returns the canonical scalar parameters
func DefaultRiskParameters() RiskParameters {
	return RiskParameters{
		BaseDiscountRate:        2.0,
		MaxDiscountRate:         5.0,
		MinDiscountRate:         1.0,
		ConfidenceBase:          70,
		ConfidenceRealTimeBonus: 10,
	}
}

// DefaultCreditRatings returns the canonical 22-band matrix (AAA..D), ordered
// from strongest to weakest band
func DefaultCreditRatings() []CreditRating {
	return []CreditRating{
		{Rating: "AAA", DefaultRate: 0.0001, SpreadBps: 40, InvestmentGrade: true, RiskTier: TierPrime},
		{Rating: "AA+", DefaultRate: 0.0002, SpreadBps: 50, InvestmentGrade: true, RiskTier: TierPrime},
		{Rating: "AA", DefaultRate: 0.0003, SpreadBps: 60, InvestmentGrade: true, RiskTier: TierPrime},
		{Rating: "AA-", DefaultRate: 0.0004, SpreadBps: 70, InvestmentGrade: true, RiskTier: TierPrime},
		{Rating: "A+", DefaultRate: 0.0005, SpreadBps: 80, InvestmentGrade: true, RiskTier: TierInvestmentGrade},
		{Rating: "A", DefaultRate: 0.0007, SpreadBps: 95, InvestmentGrade: true, RiskTier: TierInvestmentGrade},
		{Rating: "A-", DefaultRate: 0.0009, SpreadBps: 110, InvestmentGrade: true, RiskTier: TierInvestmentGrade},
		{Rating: "BBB+", DefaultRate: 0.0012, SpreadBps: 130, InvestmentGrade: true, RiskTier: TierInvestmentGrade},
		{Rating: "BBB", DefaultRate: 0.0016, SpreadBps: 160, InvestmentGrade: true, RiskTier: TierInvestmentGrade},
		{Rating: "BBB-", DefaultRate: 0.0022, SpreadBps: 200, InvestmentGrade: true, RiskTier: TierInvestmentGrade},
		{Rating: "BB+", DefaultRate: 0.0035, SpreadBps: 250, InvestmentGrade: false, RiskTier: TierSpeculative},
		{Rating: "BB", DefaultRate: 0.0055, SpreadBps: 320, InvestmentGrade: false, RiskTier: TierSpeculative},
		{Rating: "BB-", DefaultRate: 0.0080, SpreadBps: 400, InvestmentGrade: false, RiskTier: TierSpeculative},
		{Rating: "B+", DefaultRate: 0.0120, SpreadBps: 500, InvestmentGrade: false, RiskTier: TierSpeculative},
		{Rating: "B", DefaultRate: 0.0180, SpreadBps: 620, InvestmentGrade: false, RiskTier: TierSpeculative},
		{Rating: "B-", DefaultRate: 0.0270, SpreadBps: 780, InvestmentGrade: false, RiskTier: TierSpeculative},
		{Rating: "CCC+", DefaultRate: 0.0400, SpreadBps: 950, InvestmentGrade: false, RiskTier: TierHighRisk},
		{Rating: "CCC", DefaultRate: 0.0600, SpreadBps: 1150, InvestmentGrade: false, RiskTier: TierHighRisk},
		{Rating: "CCC-", DefaultRate: 0.0850, SpreadBps: 1400, InvestmentGrade: false, RiskTier: TierHighRisk},
		{Rating: "CC", DefaultRate: 0.1200, SpreadBps: 1800, InvestmentGrade: false, RiskTier: TierHighRisk},
		{Rating: "C", DefaultRate: 0.2000, SpreadBps: 2500, InvestmentGrade: false, RiskTier: TierHighRisk},
		{Rating: "D", DefaultRate: 1.0000, SpreadBps: 5000, InvestmentGrade: false, RiskTier: TierDefaultRisk},
	}
}
