package http

import (
	"net/http"

	domain "microloan-backend/internal/domain/loan"
	"microloan-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createApplicationReq struct {
	CustomerID       uint64  `json:"customer_id"       validate:"required"`
	ProductID        uint64  `json:"product_id"        validate:"required"`
	Amount           float64 `json:"amount"            validate:"required,gt=0,dec2"`
	TermMonths       int     `json:"term_months"       validate:"required,min=1,max=240"`
	InterestRate     float64 `json:"interest_rate"     validate:"omitempty,gte=0,dec2"`
	PaymentFrequency string  `json:"payment_frequency" validate:"required,oneof=weekly biweekly monthly quarterly"`
	Purpose          string  `json:"purpose"           validate:"required"`
	EmploymentStatus string  `json:"employment_status" validate:"required"`
	MonthlyIncome    float64 `json:"monthly_income"    validate:"gte=0,dec2"`
	ExistingDebts    float64 `json:"existing_debts"    validate:"gte=0,dec2"`

	CollateralType        string  `json:"collateral_type"        validate:"omitempty,oneof=none property fixed_deposit gold vehicle business_assets guarantee other"`
	CollateralValue       float64 `json:"collateral_value"       validate:"gte=0,dec2"`
	CollateralDescription string  `json:"collateral_description"`

	GuarantorName         string `json:"guarantor_name"`
	GuarantorPhone        string `json:"guarantor_phone"`
	GuarantorRelationship string `json:"guarantor_relationship"`

	BranchID uint64 `json:"branch_id" validate:"required"`
}

func (h *LoanHandler) CreateApplication(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), loan.CreateInput{
		CustomerID:       req.CustomerID,
		ProductID:        req.ProductID,
		Amount:           req.Amount,
		TermMonths:       req.TermMonths,
		InterestRate:     req.InterestRate,
		PaymentFrequency: domain.PaymentFrequency(req.PaymentFrequency),
		Purpose:          req.Purpose,
		EmploymentStatus: req.EmploymentStatus,
		MonthlyIncome:    req.MonthlyIncome,
		ExistingDebts:    req.ExistingDebts,

		CollateralType:        domain.CollateralType(req.CollateralType),
		CollateralValue:       req.CollateralValue,
		CollateralDescription: req.CollateralDescription,

		GuarantorName:         req.GuarantorName,
		GuarantorPhone:        req.GuarantorPhone,
		GuarantorRelationship: req.GuarantorRelationship,

		BranchID: req.BranchID,
	}, actor.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type updateApplicationReq struct {
	Amount           *float64 `json:"amount"            validate:"omitempty,gt=0,dec2"`
	TermMonths       *int     `json:"term_months"       validate:"omitempty,min=1,max=240"`
	InterestRate     *float64 `json:"interest_rate"     validate:"omitempty,gte=0,dec2"`
	PaymentFrequency *string  `json:"payment_frequency" validate:"omitempty,oneof=weekly biweekly monthly quarterly"`
	Purpose          *string  `json:"purpose"`
	EmploymentStatus *string  `json:"employment_status"`
	MonthlyIncome    *float64 `json:"monthly_income"    validate:"omitempty,gte=0,dec2"`
	ExistingDebts    *float64 `json:"existing_debts"    validate:"omitempty,gte=0,dec2"`

	CollateralType        *string  `json:"collateral_type"        validate:"omitempty,oneof=none property fixed_deposit gold vehicle business_assets guarantee other"`
	CollateralValue       *float64 `json:"collateral_value"       validate:"omitempty,gte=0,dec2"`
	CollateralDescription *string  `json:"collateral_description"`

	GuarantorName         *string `json:"guarantor_name"`
	GuarantorPhone        *string `json:"guarantor_phone"`
	GuarantorRelationship *string `json:"guarantor_relationship"`
}

func (h *LoanHandler) UpdateApplication(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	var req updateApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loan.UpdateInput{
		Amount:                req.Amount,
		TermMonths:            req.TermMonths,
		InterestRate:          req.InterestRate,
		Purpose:               req.Purpose,
		EmploymentStatus:      req.EmploymentStatus,
		MonthlyIncome:         req.MonthlyIncome,
		ExistingDebts:         req.ExistingDebts,
		CollateralValue:       req.CollateralValue,
		CollateralDescription: req.CollateralDescription,
		GuarantorName:         req.GuarantorName,
		GuarantorPhone:        req.GuarantorPhone,
		GuarantorRelationship: req.GuarantorRelationship,
	}
	if req.PaymentFrequency != nil {
		f := domain.PaymentFrequency(*req.PaymentFrequency)
		in.PaymentFrequency = &f
	}
	if req.CollateralType != nil {
		t := domain.CollateralType(*req.CollateralType)
		in.CollateralType = &t
	}

	dto, err := h.uc.Update(c.Request().Context(), id, in, actor.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) SubmitApplication(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	dto, err := h.uc.Submit(c.Request().Context(), id, actor.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// GetApplicationByCode resolves an application by its human-facing
// code, e.g. APP-000042.
func (h *LoanHandler) GetApplicationByCode(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid code path param"})
	}
	dto, err := h.uc.GetByCode(c.Request().Context(), code)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetApplication(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
