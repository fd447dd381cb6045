package risk

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("risk assessment not found")

type Level string

const (
	LevelVeryLow  Level = "very_low"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
)

type Factor string

const (
	FactorCreditScore       Factor = "credit_score"
	FactorPaymentHistory    Factor = "payment_history"
	FactorExistingLoans     Factor = "existing_loans"
	FactorIncomeStability   Factor = "income_stability"
	FactorDebtToIncomeRatio Factor = "debt_to_income_ratio"
	FactorEmploymentHistory Factor = "employment_history"
	FactorCollateralValue   Factor = "collateral_value"
	FactorGuarantorStrength Factor = "guarantor_strength"
	FactorKYCCompleteness   Factor = "kyc_completeness"
)

// FactorScores maps factor name to its [0,100] score. Stored as a JSON
// column.
type FactorScores map[Factor]int

func (f FactorScores) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	b, err := json.Marshal(f)
	return string(b), err
}

func (f *FactorScores) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return fmt.Errorf("risk: cannot scan %T into FactorScores", src)
}

// Recommendations is an ordered advice list. Stored as a JSON column.
type Recommendations []string

func (r Recommendations) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	return string(b), err
}

func (r *Recommendations) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return fmt.Errorf("risk: cannot scan %T into Recommendations", src)
}

// Assessment is one immutable scoring snapshot. History is append-only;
// the current assessment is the most recent by creation time.
type Assessment struct {
	ID              uint64          `gorm:"primaryKey;column:id"`
	ApplicationID   uint64          `gorm:"not null;index:idx_assessments_application"`
	CustomerID      uint64          `gorm:"not null;index:idx_assessments_customer"`
	Score           int             `gorm:"not null"`
	Level           Level           `gorm:"size:16;not null"`
	FactorScores    FactorScores    `gorm:"type:json"`
	Recommendations Recommendations `gorm:"type:json"`
	AssessedBy      uint64          `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
}

func (Assessment) TableName() string { return "risk_assessments" }
