// Package loan manages the loan application lifecycle from draft to
// submission: validation against the product terms, KYC gating,
// amortization schedule generation and the creation of the approval
// chain on submit.
package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainApproval "microloan-backend/internal/domain/approval"
	"microloan-backend/internal/domain/audit"
	"microloan-backend/internal/domain/customer"
	domain "microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/uow"
	"microloan-backend/internal/usecase/approval"
	"microloan-backend/internal/usecase/schedule"
	"microloan-backend/pkg/money"

	"gorm.io/gorm"
)

type Usecase struct {
	loanRepo  domain.Repository
	customers customer.Lookup
	uow       uow.UnitOfWork
	now       func() time.Time
}

func NewUsecase(loans domain.Repository, customers customer.Lookup, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loanRepo: loans, customers: customers, uow: tx, now: time.Now}
}

// Create validates the request against the product, verifies the
// customer's KYC, generates the amortization schedule and persists a
// draft application with its schedule in one transaction.
func (u *Usecase) Create(ctx context.Context, in CreateInput, actorID uint64) (*ApplicationDTO, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	cust, err := u.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrNotFound
		}
		return nil, err
	}
	if cust.KYCStatus != customer.KYCApproved {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrKYCNotApproved, cust.KYCStatus)
	}

	var app *domain.Application
	var entries []domain.ScheduleEntry
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		product, err := r.Loans.GetProduct(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown loan product %d", domain.ErrValidation, in.ProductID)
			}
			return err
		}
		if err := checkProductTerms(product, in.Amount, in.TermMonths); err != nil {
			return err
		}

		rate := in.InterestRate
		if rate <= 0 {
			rate = product.InterestRate
		}

		sched, err := schedule.Calculate(schedule.Input{
			Principal:  in.Amount,
			AnnualRate: rate,
			TermMonths: in.TermMonths,
			Frequency:  in.PaymentFrequency,
			StartDate:  u.now(),
		})
		if err != nil {
			return err
		}

		seq, err := r.Loans.NextSequence(ctx)
		if err != nil {
			return err
		}
		fee := money.Round2(in.Amount * product.ProcessingFeeRate / 100)

		app = &domain.Application{
			ApplicationCode:  fmt.Sprintf("APP-%06d", seq),
			CustomerID:       in.CustomerID,
			ProductID:        in.ProductID,
			Amount:           in.Amount,
			TermMonths:       in.TermMonths,
			InterestRate:     rate,
			PaymentFrequency: in.PaymentFrequency,
			Purpose:          in.Purpose,
			EmploymentStatus: in.EmploymentStatus,
			MonthlyIncome:    in.MonthlyIncome,
			ExistingDebts:    in.ExistingDebts,

			CollateralType:        in.CollateralType,
			CollateralValue:       in.CollateralValue,
			CollateralDescription: in.CollateralDescription,

			GuarantorName:         in.GuarantorName,
			GuarantorPhone:        in.GuarantorPhone,
			GuarantorRelationship: in.GuarantorRelationship,

			ProcessingFee:   fee,
			TotalAmount:     money.Round2(sched.TotalAmount + fee),
			PeriodicPayment: sched.Payment,

			Status:    domain.StatusDraft,
			BranchID:  in.BranchID,
			CreatedBy: actorID,
		}
		if err := r.Loans.Create(ctx, app); err != nil {
			return err
		}

		for i := range sched.Entries {
			sched.Entries[i].ApplicationID = app.ID
		}
		entries = sched.Entries
		if err := r.Loans.ReplaceSchedule(ctx, app.ID, entries); err != nil {
			return err
		}

		return r.Audit.Record(ctx, audit.Entry{
			ActorID:      actorID,
			Action:       "loan_application.created",
			ResourceType: "loan_application",
			ResourceID:   app.ID,
			Details:      fmt.Sprintf(`{"application_code":%q,"amount":%.2f}`, app.ApplicationCode, app.Amount),
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(app, entries), nil
}

// Update patches an editable application. A change to any term that
// feeds the amortization (amount, term, rate, frequency) regenerates
// the schedule and the derived totals.
func (u *Usecase) Update(ctx context.Context, id uint64, in UpdateInput, actorID uint64) (*ApplicationDTO, error) {
	var app *domain.Application
	var entries []domain.ScheduleEntry
	err := u.uow.WithinApplicationTx(ctx, id, func(r uow.Repos, a *domain.Application) error {
		if !a.Status.Editable() {
			return fmt.Errorf("%w: status is %s", domain.ErrNotEditable, a.Status)
		}

		termsChanged := applyPatch(a, in)
		if err := validatePatched(a); err != nil {
			return err
		}

		product, err := r.Loans.GetProduct(ctx, a.ProductID)
		if err != nil {
			return err
		}
		if err := checkProductTerms(product, a.Amount, a.TermMonths); err != nil {
			return err
		}

		if termsChanged {
			sched, err := schedule.Calculate(schedule.Input{
				Principal:  a.Amount,
				AnnualRate: a.InterestRate,
				TermMonths: a.TermMonths,
				Frequency:  a.PaymentFrequency,
				StartDate:  u.now(),
			})
			if err != nil {
				return err
			}
			a.ProcessingFee = money.Round2(a.Amount * product.ProcessingFeeRate / 100)
			a.TotalAmount = money.Round2(sched.TotalAmount + a.ProcessingFee)
			a.PeriodicPayment = sched.Payment

			for i := range sched.Entries {
				sched.Entries[i].ApplicationID = a.ID
			}
			if err := r.Loans.ReplaceSchedule(ctx, a.ID, sched.Entries); err != nil {
				return err
			}
			entries = sched.Entries
		} else {
			entries, err = r.Loans.ListSchedule(ctx, a.ID)
			if err != nil {
				return err
			}
		}

		if err := r.Loans.Save(ctx, a); err != nil {
			return err
		}
		app = a
		return r.Audit.Record(ctx, audit.Entry{
			ActorID:      actorID,
			Action:       "loan_application.updated",
			ResourceType: "loan_application",
			ResourceID:   a.ID,
			Details:      fmt.Sprintf(`{"terms_changed":%t}`, termsChanged),
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(app, entries), nil
}

// Submit moves a draft into the approval workflow: it re-checks KYC,
// stamps the submission time and creates the pending approval chain
// derived from the amount.
func (u *Usecase) Submit(ctx context.Context, id uint64, actorID uint64) (*ApplicationDTO, error) {
	var app *domain.Application
	err := u.uow.WithinApplicationTx(ctx, id, func(r uow.Repos, a *domain.Application) error {
		if a.Status != domain.StatusDraft {
			return fmt.Errorf("%w: only drafts can be submitted, status is %s", domain.ErrNotEditable, a.Status)
		}

		cust, err := u.customers.GetByID(ctx, a.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customer.ErrNotFound
			}
			return err
		}
		if cust.KYCStatus != customer.KYCApproved {
			return fmt.Errorf("%w: status is %s", domain.ErrKYCNotApproved, cust.KYCStatus)
		}

		now := u.now()
		a.Status = domain.StatusSubmitted
		a.SubmittedAt = &now

		steps := approval.BuildChain(a.Amount)
		records := make([]*domainApproval.Record, 0, len(steps))
		for _, s := range steps {
			records = append(records, &domainApproval.Record{
				ApplicationID: a.ID,
				Level:         s.Level,
				RequiredRole:  s.Role,
				Status:        domainApproval.StatusPending,
				IsRequired:    true,
			})
		}
		if err := r.Approvals.CreateBatch(ctx, records); err != nil {
			return err
		}

		if err := r.Loans.Save(ctx, a); err != nil {
			return err
		}
		app = a
		return r.Audit.Record(ctx, audit.Entry{
			ActorID:      actorID,
			Action:       "loan_application.submitted",
			ResourceType: "loan_application",
			ResourceID:   a.ID,
			Details:      fmt.Sprintf(`{"approval_levels":%d}`, len(records)),
		})
	})
	if err != nil {
		return nil, err
	}
	return toDTO(app, nil), nil
}

// Get returns the application with its amortization schedule.
func (u *Usecase) Get(ctx context.Context, id uint64) (*ApplicationDTO, error) {
	app, err := u.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	entries, err := u.loanRepo.ListSchedule(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	return toDTO(app, entries), nil
}

// GetByCode resolves an application by its human-facing code.
func (u *Usecase) GetByCode(ctx context.Context, code string) (*ApplicationDTO, error) {
	app, err := u.loanRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	entries, err := u.loanRepo.ListSchedule(ctx, app.ID)
	if err != nil {
		return nil, err
	}
	return toDTO(app, entries), nil
}

func validateCreate(in CreateInput) error {
	switch {
	case in.CustomerID == 0:
		return fmt.Errorf("%w: customer id is required", domain.ErrValidation)
	case in.ProductID == 0:
		return fmt.Errorf("%w: product id is required", domain.ErrValidation)
	case in.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	case in.TermMonths < domain.MinTermMonths || in.TermMonths > domain.MaxTermMonths:
		return fmt.Errorf("%w: term must be between %d and %d months", domain.ErrValidation, domain.MinTermMonths, domain.MaxTermMonths)
	case !in.PaymentFrequency.Valid():
		return fmt.Errorf("%w: unknown payment frequency %q", domain.ErrValidation, in.PaymentFrequency)
	case in.Purpose == "":
		return fmt.Errorf("%w: purpose is required", domain.ErrValidation)
	case in.EmploymentStatus == "":
		return fmt.Errorf("%w: employment status is required", domain.ErrValidation)
	case in.MonthlyIncome < 0 || in.ExistingDebts < 0:
		return fmt.Errorf("%w: income and debts cannot be negative", domain.ErrValidation)
	}
	if in.CollateralType != "" && in.CollateralType != domain.CollateralNone && in.CollateralValue <= 0 {
		return fmt.Errorf("%w: collateral value must be positive when collateral is pledged", domain.ErrValidation)
	}
	return nil
}

// validatePatched re-checks the field rules after a patch has been
// applied. A patch can break an invariant that held at creation, e.g.
// attaching a collateral type while the stored value is still zero.
// Amount and term bounds are covered by checkProductTerms.
func validatePatched(a *domain.Application) error {
	switch {
	case !a.PaymentFrequency.Valid():
		return fmt.Errorf("%w: unknown payment frequency %q", domain.ErrValidation, a.PaymentFrequency)
	case a.Purpose == "":
		return fmt.Errorf("%w: purpose is required", domain.ErrValidation)
	case a.EmploymentStatus == "":
		return fmt.Errorf("%w: employment status is required", domain.ErrValidation)
	case a.MonthlyIncome < 0 || a.ExistingDebts < 0:
		return fmt.Errorf("%w: income and debts cannot be negative", domain.ErrValidation)
	}
	if a.HasCollateral() && a.CollateralValue <= 0 {
		return fmt.Errorf("%w: collateral value must be positive when collateral is pledged", domain.ErrValidation)
	}
	return nil
}

func checkProductTerms(p *domain.Product, amount float64, termMonths int) error {
	if !p.IsActive {
		return fmt.Errorf("%w: loan product %q is inactive", domain.ErrValidation, p.Name)
	}
	if amount < p.MinAmount || amount > p.MaxAmount {
		return fmt.Errorf("%w: amount must be between %.2f and %.2f for product %q", domain.ErrValidation, p.MinAmount, p.MaxAmount, p.Name)
	}
	if termMonths < p.MinTermMonths || termMonths > p.MaxTermMonths {
		return fmt.Errorf("%w: term must be between %d and %d months for product %q", domain.ErrValidation, p.MinTermMonths, p.MaxTermMonths, p.Name)
	}
	return nil
}

// applyPatch copies the non-nil fields onto the application and reports
// whether any schedule-relevant term changed.
func applyPatch(a *domain.Application, in UpdateInput) bool {
	termsChanged := false
	if in.Amount != nil && *in.Amount != a.Amount {
		a.Amount = *in.Amount
		termsChanged = true
	}
	if in.TermMonths != nil && *in.TermMonths != a.TermMonths {
		a.TermMonths = *in.TermMonths
		termsChanged = true
	}
	if in.InterestRate != nil && *in.InterestRate != a.InterestRate {
		a.InterestRate = *in.InterestRate
		termsChanged = true
	}
	if in.PaymentFrequency != nil && *in.PaymentFrequency != a.PaymentFrequency {
		a.PaymentFrequency = *in.PaymentFrequency
		termsChanged = true
	}
	if in.Purpose != nil {
		a.Purpose = *in.Purpose
	}
	if in.EmploymentStatus != nil {
		a.EmploymentStatus = *in.EmploymentStatus
	}
	if in.MonthlyIncome != nil {
		a.MonthlyIncome = *in.MonthlyIncome
	}
	if in.ExistingDebts != nil {
		a.ExistingDebts = *in.ExistingDebts
	}
	if in.CollateralType != nil {
		a.CollateralType = *in.CollateralType
	}
	if in.CollateralValue != nil {
		a.CollateralValue = *in.CollateralValue
	}
	if in.CollateralDescription != nil {
		a.CollateralDescription = *in.CollateralDescription
	}
	if in.GuarantorName != nil {
		a.GuarantorName = *in.GuarantorName
	}
	if in.GuarantorPhone != nil {
		a.GuarantorPhone = *in.GuarantorPhone
	}
	if in.GuarantorRelationship != nil {
		a.GuarantorRelationship = *in.GuarantorRelationship
	}
	return termsChanged
}
