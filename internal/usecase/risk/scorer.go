// Package risk scores loan applications with a deterministic weighted
// heuristic over nine factors and persists immutable assessment
// snapshots.
package risk

import (
	"math"

	"microloan-backend/internal/domain/customer"
	domainLoan "microloan-backend/internal/domain/loan"
	domain "microloan-backend/internal/domain/risk"
)

// Weights sum to 1.00. Kept as static data, not scattered conditionals.
var Weights = map[domain.Factor]float64{
	domain.FactorCreditScore:       0.25,
	domain.FactorPaymentHistory:    0.20,
	domain.FactorExistingLoans:     0.15,
	domain.FactorIncomeStability:   0.15,
	domain.FactorDebtToIncomeRatio: 0.10,
	domain.FactorEmploymentHistory: 0.05,
	domain.FactorCollateralValue:   0.05,
	domain.FactorGuarantorStrength: 0.03,
	domain.FactorKYCCompleteness:   0.02,
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AssessCreditScore scores prior repayment behavior. No history yields
// the neutral base of 50.
func AssessCreditScore(h *customer.FinancialHistory) int {
	if h == nil {
		return 50
	}
	score := 50
	bonus := h.SuccessfulLoans * 10
	if bonus > 30 {
		bonus = 30
	}
	score += bonus
	score -= h.DefaultedLoans * 20
	penalty := h.LatePayments * 5
	if penalty > 25 {
		penalty = 25
	}
	score -= penalty
	return clamp(score)
}

func AssessPaymentHistory(h *customer.FinancialHistory) int {
	if h == nil || h.TotalPayments == 0 {
		return 60
	}
	onTimeRate := float64(h.OnTimePayments) / float64(h.TotalPayments) * 100
	return clamp(int(20 + 0.8*onTimeRate))
}

func AssessExistingLoans(existingDebts, monthlyIncome float64) int {
	if existingDebts <= 0 {
		return 100
	}
	if monthlyIncome <= 0 {
		return 20
	}
	ratio := existingDebts / monthlyIncome * 100
	switch {
	case ratio <= 20:
		return 100
	case ratio <= 40:
		return 80
	case ratio <= 60:
		return 60
	case ratio <= 80:
		return 40
	default:
		return 20
	}
}

var employmentBase = map[string]int{
	"employed":      85,
	"self_employed": 70,
	"retired":       60,
	"student":       30,
	"unemployed":    20,
}

func AssessIncomeStability(employmentStatus string, monthlyIncome float64) int {
	score, ok := employmentBase[employmentStatus]
	if !ok {
		score = 40
	}
	switch {
	case monthlyIncome >= 100_000:
		score += 10
	case monthlyIncome >= 50_000:
		score += 5
	case monthlyIncome < 20_000:
		score -= 10
	}
	return clamp(score)
}

func AssessDebtToIncomeRatio(existingDebts, monthlyIncome float64) int {
	if monthlyIncome <= 0 {
		return 20
	}
	ratio := existingDebts / monthlyIncome * 100
	switch {
	case ratio <= 15:
		return 100
	case ratio <= 25:
		return 90
	case ratio <= 35:
		return 75
	case ratio <= 45:
		return 60
	case ratio <= 55:
		return 40
	default:
		return 20
	}
}

var employmentHistoryScores = map[string]int{
	"employed":      90,
	"self_employed": 75,
	"retired":       70,
	"student":       40,
	"unemployed":    10,
}

func AssessEmploymentHistory(employmentStatus string) int {
	if s, ok := employmentHistoryScores[employmentStatus]; ok {
		return s
	}
	return 50
}

var collateralTypeFactors = map[domainLoan.CollateralType]float64{
	domainLoan.CollateralProperty:       1.2,
	domainLoan.CollateralFixedDeposit:   1.1,
	domainLoan.CollateralGold:           1.0,
	domainLoan.CollateralVehicle:        0.9,
	domainLoan.CollateralBusinessAssets: 0.8,
	domainLoan.CollateralGuarantee:      0.7,
}

func AssessCollateralValue(collType domainLoan.CollateralType, collValue, loanAmount float64) int {
	if collType == "" || collType == domainLoan.CollateralNone {
		return 20
	}
	if collValue <= 0 {
		return 30
	}
	ratio := collValue / loanAmount * 100
	var base int
	switch {
	case ratio >= 150:
		base = 100
	case ratio >= 120:
		base = 90
	case ratio >= 100:
		base = 80
	case ratio >= 80:
		base = 70
	case ratio >= 60:
		base = 60
	default:
		base = 40
	}
	factor, ok := collateralTypeFactors[collType]
	if !ok {
		factor = 0.6
	}
	score := int(float64(base) * factor)
	if score > 100 {
		score = 100
	}
	return score
}

// AssessGuarantorStrength is a placeholder without external
// verification: presence of contactable guarantor details is all it
// checks.
func AssessGuarantorStrength(name, phone string) int {
	if name == "" || phone == "" {
		return 40
	}
	return 70
}

func AssessKYCCompleteness(status customer.KYCStatus) int {
	switch status {
	case customer.KYCApproved:
		return 100
	case customer.KYCPending:
		return 50
	case customer.KYCRejected:
		return 0
	default:
		return 20
	}
}

// OverallScore is the rounded weighted average of the factor scores.
// Factors missing from the map simply drop out of both sums.
func OverallScore(factors domain.FactorScores) int {
	var weighted, total float64
	for f, score := range factors {
		w := Weights[f]
		weighted += float64(score) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(weighted / total))
}

func LevelForScore(score int) domain.Level {
	switch {
	case score >= 90:
		return domain.LevelVeryLow
	case score >= 75:
		return domain.LevelLow
	case score >= 60:
		return domain.LevelMedium
	case score >= 40:
		return domain.LevelHigh
	default:
		return domain.LevelVeryHigh
	}
}

// Recommend derives the advice list from the risk level plus
// factor-specific weak spots.
func Recommend(level domain.Level, factors domain.FactorScores) domain.Recommendations {
	var recs domain.Recommendations
	switch level {
	case domain.LevelVeryLow, domain.LevelLow:
		recs = append(recs, "eligible for standard terms")
	case domain.LevelMedium:
		recs = append(recs, "approve with standard monitoring")
	case domain.LevelHigh:
		recs = append(recs, "require additional guarantees before approval")
	case domain.LevelVeryHigh:
		recs = append(recs, "recommend rejection or full collateral coverage")
	}
	if factors[domain.FactorDebtToIncomeRatio] <= 60 {
		recs = append(recs, "reduce existing debt obligations")
	}
	if factors[domain.FactorCollateralValue] < 60 {
		recs = append(recs, "pledge additional or higher-grade collateral")
	}
	if factors[domain.FactorCreditScore] < 50 {
		recs = append(recs, "establish repayment track record with a smaller loan")
	}
	if factors[domain.FactorGuarantorStrength] < 70 {
		recs = append(recs, "provide a contactable guarantor")
	}
	return recs
}
