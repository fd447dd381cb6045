package risk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"microloan-backend/internal/domain/audit"
	"microloan-backend/internal/domain/customer"
	domainLoan "microloan-backend/internal/domain/loan"
	domain "microloan-backend/internal/domain/risk"
	"microloan-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	loanRepo  domainLoan.Repository
	riskRepo  domain.Repository
	customers customer.Lookup
	history   customer.HistoryProvider
	uow       uow.UnitOfWork
}

func NewUsecase(loans domainLoan.Repository, assessments domain.Repository, customers customer.Lookup, history customer.HistoryProvider, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loanRepo: loans, riskRepo: assessments, customers: customers, history: history, uow: tx}
}

type AssessmentDTO struct {
	ID              uint64                 `json:"id"`
	ApplicationID   uint64                 `json:"application_id"`
	CustomerID      uint64                 `json:"customer_id"`
	Score           int                    `json:"score"`
	Level           domain.Level           `json:"level"`
	FactorScores    domain.FactorScores    `json:"factor_scores"`
	Recommendations domain.Recommendations `json:"recommendations"`
	AssessedBy      uint64                 `json:"assessed_by"`
	CreatedAt       time.Time              `json:"created_at"`
}

func toDTO(a *domain.Assessment) *AssessmentDTO {
	return &AssessmentDTO{
		ID:              a.ID,
		ApplicationID:   a.ApplicationID,
		CustomerID:      a.CustomerID,
		Score:           a.Score,
		Level:           a.Level,
		FactorScores:    a.FactorScores,
		Recommendations: a.Recommendations,
		AssessedBy:      a.AssessedBy,
		CreatedAt:       a.CreatedAt,
	}
}

// Perform scores the application and persists an immutable assessment
// snapshot. The history provider treats absence as a nil snapshot; the
// scorers are nil-tolerant.
func (u *Usecase) Perform(ctx context.Context, applicationID, actorID uint64) (*AssessmentDTO, error) {
	app, err := u.loanRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}

	cust, err := u.customers.GetByID(ctx, app.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrNotFound
		}
		return nil, err
	}

	hist, err := u.history.GetFinancialHistory(ctx, app.CustomerID)
	if err != nil {
		return nil, err
	}

	factors := domain.FactorScores{
		domain.FactorCreditScore:       AssessCreditScore(hist),
		domain.FactorPaymentHistory:    AssessPaymentHistory(hist),
		domain.FactorExistingLoans:     AssessExistingLoans(app.ExistingDebts, app.MonthlyIncome),
		domain.FactorIncomeStability:   AssessIncomeStability(app.EmploymentStatus, app.MonthlyIncome),
		domain.FactorDebtToIncomeRatio: AssessDebtToIncomeRatio(app.ExistingDebts, app.MonthlyIncome),
		domain.FactorEmploymentHistory: AssessEmploymentHistory(app.EmploymentStatus),
		domain.FactorCollateralValue:   AssessCollateralValue(app.CollateralType, app.CollateralValue, app.Amount),
		domain.FactorGuarantorStrength: AssessGuarantorStrength(app.GuarantorName, app.GuarantorPhone),
		domain.FactorKYCCompleteness:   AssessKYCCompleteness(cust.KYCStatus),
	}

	score := OverallScore(factors)
	level := LevelForScore(score)

	assessment := &domain.Assessment{
		ApplicationID:   app.ID,
		CustomerID:      app.CustomerID,
		Score:           score,
		Level:           level,
		FactorScores:    factors,
		Recommendations: Recommend(level, factors),
		AssessedBy:      actorID,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Assessments.Create(ctx, assessment); err != nil {
			return err
		}
		return r.Audit.Record(ctx, audit.Entry{
			ActorID:      actorID,
			Action:       "risk_assessment.performed",
			ResourceType: "loan_application",
			ResourceID:   app.ID,
			Details:      fmt.Sprintf(`{"score":%d,"level":%q}`, score, level),
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(assessment), nil
}

// Latest returns the most recent assessment for the application.
func (u *Usecase) Latest(ctx context.Context, applicationID uint64) (*AssessmentDTO, error) {
	a, err := u.riskRepo.GetLatestByApplication(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toDTO(a), nil
}
