package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	customerDomain "microloan-backend/internal/domain/customer"
	loanDomain "microloan-backend/internal/domain/loan"
	domain "microloan-backend/internal/domain/risk"
	"microloan-backend/internal/domain/uow"
	"microloan-backend/internal/testutil/auditmock"
	"microloan-backend/internal/testutil/custmock"
	"microloan-backend/internal/testutil/loanmock"
	"microloan-backend/internal/testutil/riskmock"
	"microloan-backend/internal/testutil/uowmock"
	uc "microloan-backend/internal/usecase/risk"

	"gorm.io/gorm"
)

func newRiskHandler(loans *loanmock.Repo, assessments *riskmock.Repo, history *custmock.History) *RiskHandler {
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Assessments: assessments, Audit: &auditmock.Sink{}})
	return NewRiskHandler(uc.NewUsecase(loans, assessments, approvedCustomers(), history, tx))
}

func TestAssess_Success(t *testing.T) {
	e := newEchoWithValidator()

	loans := &loanmock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*loanDomain.Application, error) {
			return &loanDomain.Application{
				ID: id, CustomerID: 3, Amount: 150000, TermMonths: 12,
				EmploymentStatus: "salaried", MonthlyIncome: 30000, ExistingDebts: 5000,
				CollateralType: loanDomain.CollateralProperty, CollateralValue: 200000,
				GuarantorName: "Budi Santoso", GuarantorPhone: "+628123456789",
				Status: loanDomain.StatusSubmitted,
			}, nil
		},
	}
	assessments := &riskmock.Repo{
		CreateFn: func(ctx context.Context, a *domain.Assessment) error {
			a.ID = 11
			return nil
		},
	}
	history := &custmock.History{
		GetFinancialHistoryFn: func(ctx context.Context, customerID uint64) (*customerDomain.FinancialHistory, error) {
			return &customerDomain.FinancialHistory{
				SuccessfulLoans: 2, OnTimePayments: 20, TotalPayments: 22, LatePayments: 2,
			}, nil
		},
	}
	h := newRiskHandler(loans, assessments, history)

	req := httptest.NewRequest(http.MethodPost, "/applications/42/risk-assessments", nil)
	withActor(req, "9", "loan_officer", "7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Assess(c); err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}
	var got uc.AssessmentDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.ID != 11 || got.ApplicationID != 42 || got.CustomerID != 3 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if got.Score < 0 || got.Score > 100 {
		t.Fatalf("score out of range: %d", got.Score)
	}
	if got.Level == "" {
		t.Fatalf("missing risk level")
	}
	if len(got.FactorScores) != 9 {
		t.Fatalf("factor scores = %d, want 9", len(got.FactorScores))
	}
	if got.AssessedBy != 9 {
		t.Fatalf("assessed_by = %d, want 9", got.AssessedBy)
	}
}

func TestAssess_ApplicationNotFound(t *testing.T) {
	e := newEchoWithValidator()

	loans := &loanmock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*loanDomain.Application, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := newRiskHandler(loans, &riskmock.Repo{}, &custmock.History{})

	req := httptest.NewRequest(http.MethodPost, "/applications/42/risk-assessments", nil)
	withActor(req, "9", "loan_officer", "7")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Assess(c); err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestLatest_Success(t *testing.T) {
	e := newEchoWithValidator()

	assessments := &riskmock.Repo{
		GetLatestByApplicationFn: func(ctx context.Context, applicationID uint64) (*domain.Assessment, error) {
			return &domain.Assessment{
				ID: 11, ApplicationID: applicationID, CustomerID: 3,
				Score: 72, Level: domain.LevelMedium,
			}, nil
		},
	}
	h := newRiskHandler(&loanmock.Repo{}, assessments, &custmock.History{})

	req := httptest.NewRequest(http.MethodGet, "/applications/42/risk-assessments/latest", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Latest(c); err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got uc.AssessmentDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Score != 72 || got.Level != domain.LevelMedium {
		t.Fatalf("unexpected dto: %+v", got)
	}
}

func TestLatest_NotFound(t *testing.T) {
	e := newEchoWithValidator()

	assessments := &riskmock.Repo{
		GetLatestByApplicationFn: func(ctx context.Context, applicationID uint64) (*domain.Assessment, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := newRiskHandler(&loanmock.Repo{}, assessments, &custmock.History{})

	req := httptest.NewRequest(http.MethodGet, "/applications/42/risk-assessments/latest", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Latest(c); err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
