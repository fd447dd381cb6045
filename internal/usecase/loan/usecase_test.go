package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	domainApproval "microloan-backend/internal/domain/approval"
	"microloan-backend/internal/domain/customer"
	domain "microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/uow"
	"microloan-backend/internal/testutil/approvalmock"
	"microloan-backend/internal/testutil/auditmock"
	"microloan-backend/internal/testutil/custmock"
	"microloan-backend/internal/testutil/loanmock"
	"microloan-backend/internal/testutil/uowmock"

	"gorm.io/gorm"
)

func testProduct() *domain.Product {
	return &domain.Product{
		ID:                4,
		Name:              "Micro Business",
		MinAmount:         10_000,
		MaxAmount:         1_000_000,
		MinTermMonths:     3,
		MaxTermMonths:     36,
		InterestRate:      12,
		ProcessingFeeRate: 2,
		IsActive:          true,
	}
}

func approvedCustomers() *custmock.Lookup {
	return &custmock.Lookup{
		GetByIDFn: func(ctx context.Context, id uint64) (*customer.Customer, error) {
			return &customer.Customer{ID: id, KYCStatus: customer.KYCApproved}, nil
		},
	}
}

func validCreateInput() CreateInput {
	return CreateInput{
		CustomerID:       3,
		ProductID:        4,
		Amount:           120_000,
		TermMonths:       12,
		PaymentFrequency: domain.FrequencyMonthly,
		Purpose:          "inventory restock",
		EmploymentStatus: "self_employed",
		MonthlyIncome:    45_000,
		BranchID:         7,
	}
}

func TestCreate_PersistsDraftWithSchedule(t *testing.T) {
	var created *domain.Application
	var schedEntries []domain.ScheduleEntry

	loans := &loanmock.Repo{
		GetProductFn: func(ctx context.Context, id uint64) (*domain.Product, error) {
			return testProduct(), nil
		},
		NextSequenceFn: func(ctx context.Context) (uint64, error) { return 7, nil },
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			a.ID = 42
			created = a
			return nil
		},
		ReplaceScheduleFn: func(ctx context.Context, applicationID uint64, entries []domain.ScheduleEntry) error {
			if applicationID != 42 {
				t.Fatalf("schedule written for application %d", applicationID)
			}
			schedEntries = entries
			return nil
		},
	}
	sink := &auditmock.Sink{}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Audit: sink})

	uc := NewUsecase(loans, approvedCustomers(), tx)
	uc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

	dto, err := uc.Create(context.Background(), validCreateInput(), 9)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created == nil {
		t.Fatal("application not persisted")
	}
	if dto.ApplicationCode != "APP-000007" {
		t.Fatalf("code = %s", dto.ApplicationCode)
	}
	if dto.Status != domain.StatusDraft {
		t.Fatalf("status = %s", dto.Status)
	}
	// Rate not supplied: the product's 12% applies.
	if dto.InterestRate != 12 {
		t.Fatalf("interest rate = %v", dto.InterestRate)
	}
	// 2% of 120,000.
	if dto.ProcessingFee != 2400 {
		t.Fatalf("processing fee = %v", dto.ProcessingFee)
	}
	if len(schedEntries) != 12 {
		t.Fatalf("schedule entries = %d, want 12", len(schedEntries))
	}
	if last := schedEntries[len(schedEntries)-1]; last.Balance != 0 {
		t.Fatalf("final balance = %v, want 0", last.Balance)
	}
	for _, e := range schedEntries {
		if e.ApplicationID != 42 {
			t.Fatalf("entry %d not linked to application", e.Sequence)
		}
	}
	if dto.TotalAmount <= dto.Amount {
		t.Fatalf("total %v should exceed principal %v", dto.TotalAmount, dto.Amount)
	}
	if len(sink.Entries) != 1 || sink.Entries[0].Action != "loan_application.created" {
		t.Fatalf("audit entries = %+v", sink.Entries)
	}
}

func TestCreate_RejectsUnapprovedKYC(t *testing.T) {
	customers := &custmock.Lookup{
		GetByIDFn: func(ctx context.Context, id uint64) (*customer.Customer, error) {
			return &customer.Customer{ID: id, KYCStatus: customer.KYCPending}, nil
		},
	}
	createCalled := false
	loans := &loanmock.Repo{
		CreateFn: func(ctx context.Context, a *domain.Application) error {
			createCalled = true
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Audit: &auditmock.Sink{}})

	uc := NewUsecase(loans, customers, tx)
	_, err := uc.Create(context.Background(), validCreateInput(), 9)
	if !errors.Is(err, domain.ErrKYCNotApproved) {
		t.Fatalf("err = %v, want ErrKYCNotApproved", err)
	}
	if createCalled {
		t.Fatal("application persisted despite KYC gate")
	}
}

func TestCreate_Validation(t *testing.T) {
	mutate := func(fn func(*CreateInput)) CreateInput {
		in := validCreateInput()
		fn(&in)
		return in
	}
	cases := []struct {
		name string
		in   CreateInput
	}{
		{"zero amount", mutate(func(in *CreateInput) { in.Amount = 0 })},
		{"term too long", mutate(func(in *CreateInput) { in.TermMonths = 500 })},
		{"bad frequency", mutate(func(in *CreateInput) { in.PaymentFrequency = "daily" })},
		{"missing purpose", mutate(func(in *CreateInput) { in.Purpose = "" })},
		{"missing employment", mutate(func(in *CreateInput) { in.EmploymentStatus = "" })},
		{"collateral without value", mutate(func(in *CreateInput) { in.CollateralType = domain.CollateralGold })},
		{"negative debts", mutate(func(in *CreateInput) { in.ExistingDebts = -1 })},
	}
	uc := NewUsecase(&loanmock.Repo{}, approvedCustomers(), &uowmock.UoW{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Create(context.Background(), tc.in, 9); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreate_ProductBounds(t *testing.T) {
	inactive := testProduct()
	inactive.IsActive = false

	cases := []struct {
		name    string
		product *domain.Product
		amount  float64
		term    int
	}{
		{"inactive product", inactive, 120_000, 12},
		{"amount above product max", testProduct(), 2_000_000, 12},
		{"term below product min", testProduct(), 120_000, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loans := &loanmock.Repo{
				GetProductFn: func(ctx context.Context, id uint64) (*domain.Product, error) {
					return tc.product, nil
				},
			}
			tx := uowmock.Passthrough(uow.Repos{Loans: loans, Audit: &auditmock.Sink{}})
			uc := NewUsecase(loans, approvedCustomers(), tx)

			in := validCreateInput()
			in.Amount = tc.amount
			in.TermMonths = tc.term
			if _, err := uc.Create(context.Background(), in, 9); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func draftApplication() *domain.Application {
	return &domain.Application{
		ID:               42,
		ApplicationCode:  "APP-000007",
		CustomerID:       3,
		ProductID:        4,
		Amount:           120_000,
		TermMonths:       12,
		InterestRate:     12,
		PaymentFrequency: domain.FrequencyMonthly,
		Purpose:          "inventory restock",
		EmploymentStatus: "self_employed",
		ProcessingFee:    2400,
		Status:           domain.StatusDraft,
		BranchID:         7,
	}
}

func TestUpdate_TermChangeRegeneratesSchedule(t *testing.T) {
	app := draftApplication()
	replaced := false
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Application, error) { return app, nil },
		GetProductFn: func(ctx context.Context, id uint64) (*domain.Product, error) {
			return testProduct(), nil
		},
		ReplaceScheduleFn: func(ctx context.Context, applicationID uint64, entries []domain.ScheduleEntry) error {
			replaced = true
			if len(entries) != 24 {
				t.Fatalf("regenerated entries = %d, want 24", len(entries))
			}
			return nil
		},
	}
	sink := &auditmock.Sink{}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Audit: sink})
	uc := NewUsecase(loans, approvedCustomers(), tx)

	amount := 240_000.0
	term := 24
	dto, err := uc.Update(context.Background(), 42, UpdateInput{Amount: &amount, TermMonths: &term}, 9)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !replaced {
		t.Fatal("schedule not regenerated")
	}
	if dto.ProcessingFee != 4800 { // 2% of 240,000
		t.Fatalf("processing fee = %v", dto.ProcessingFee)
	}
	if dto.PeriodicPayment <= 0 {
		t.Fatalf("periodic payment = %v", dto.PeriodicPayment)
	}
	if len(sink.Entries) != 1 || sink.Entries[0].Action != "loan_application.updated" {
		t.Fatalf("audit entries = %+v", sink.Entries)
	}
}

func TestUpdate_NonTermPatchKeepsSchedule(t *testing.T) {
	app := draftApplication()
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Application, error) { return app, nil },
		GetProductFn: func(ctx context.Context, id uint64) (*domain.Product, error) {
			return testProduct(), nil
		},
		ReplaceScheduleFn: func(ctx context.Context, applicationID uint64, entries []domain.ScheduleEntry) error {
			t.Fatal("schedule must not be regenerated for a purpose-only patch")
			return nil
		},
		ListScheduleFn: func(ctx context.Context, applicationID uint64) ([]domain.ScheduleEntry, error) {
			return []domain.ScheduleEntry{{ApplicationID: applicationID, Sequence: 1}}, nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Audit: &auditmock.Sink{}})
	uc := NewUsecase(loans, approvedCustomers(), tx)

	purpose := "equipment purchase"
	dto, err := uc.Update(context.Background(), 42, UpdateInput{Purpose: &purpose}, 9)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if dto.Purpose != purpose {
		t.Fatalf("purpose = %q", dto.Purpose)
	}
	if len(dto.Schedule) != 1 {
		t.Fatalf("schedule = %+v", dto.Schedule)
	}
}

func TestUpdate_RejectsInvalidPatchedFields(t *testing.T) {
	collateral := domain.CollateralProperty
	negativeIncome := -1.0
	negativeDebts := -500.0
	emptyPurpose := ""

	cases := []struct {
		name string
		in   UpdateInput
	}{
		// The stored draft carries no collateral value, so pledging a
		// type without also patching the value must fail.
		{"collateral type without value", UpdateInput{CollateralType: &collateral}},
		{"negative income", UpdateInput{MonthlyIncome: &negativeIncome}},
		{"negative debts", UpdateInput{ExistingDebts: &negativeDebts}},
		{"purpose cleared", UpdateInput{Purpose: &emptyPurpose}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := draftApplication()
			loans := &loanmock.Repo{
				GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Application, error) { return app, nil },
				GetProductFn: func(ctx context.Context, id uint64) (*domain.Product, error) {
					return testProduct(), nil
				},
				SaveFn: func(ctx context.Context, a *domain.Application) error {
					t.Fatal("invalid patch must not be persisted")
					return nil
				},
			}
			tx := uowmock.Passthrough(uow.Repos{Loans: loans, Audit: &auditmock.Sink{}})
			uc := NewUsecase(loans, approvedCustomers(), tx)

			if _, err := uc.Update(context.Background(), 42, tc.in, 9); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdate_NotEditable(t *testing.T) {
	app := draftApplication()
	app.Status = domain.StatusApproved
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Application, error) { return app, nil },
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Audit: &auditmock.Sink{}})
	uc := NewUsecase(loans, approvedCustomers(), tx)

	amount := 50_000.0
	if _, err := uc.Update(context.Background(), 42, UpdateInput{Amount: &amount}, 9); !errors.Is(err, domain.ErrNotEditable) {
		t.Fatalf("err = %v, want ErrNotEditable", err)
	}
}

func TestSubmit_CreatesApprovalChain(t *testing.T) {
	app := draftApplication()
	app.Amount = 600_000 // three sign-off levels

	var batch []*domainApproval.Record
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Application, error) { return app, nil },
	}
	approvals := &approvalmock.Repo{
		CreateBatchFn: func(ctx context.Context, records []*domainApproval.Record) error {
			batch = records
			return nil
		},
	}
	sink := &auditmock.Sink{}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Approvals: approvals, Audit: sink})
	uc := NewUsecase(loans, approvedCustomers(), tx)

	dto, err := uc.Submit(context.Background(), 42, 9)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if dto.Status != domain.StatusSubmitted {
		t.Fatalf("status = %s", dto.Status)
	}
	if dto.SubmittedAt == nil {
		t.Fatal("submitted_at not stamped")
	}
	if len(batch) != 3 {
		t.Fatalf("approval records = %d, want 3", len(batch))
	}
	wantRoles := []domainApproval.Role{
		domainApproval.RoleLoanOfficer,
		domainApproval.RoleBranchManager,
		domainApproval.RoleFinanceManager,
	}
	for i, rec := range batch {
		if rec.Level != i+1 || rec.RequiredRole != wantRoles[i] {
			t.Fatalf("record %d = level %d role %s", i, rec.Level, rec.RequiredRole)
		}
		if rec.Status != domainApproval.StatusPending || !rec.IsRequired {
			t.Fatalf("record %d = %+v", i, rec)
		}
	}
	if len(sink.Entries) != 1 || sink.Entries[0].Action != "loan_application.submitted" {
		t.Fatalf("audit entries = %+v", sink.Entries)
	}
}

func TestSubmit_OnlyFromDraft(t *testing.T) {
	app := draftApplication()
	app.Status = domain.StatusSubmitted
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Application, error) { return app, nil },
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Approvals: &approvalmock.Repo{}, Audit: &auditmock.Sink{}})
	uc := NewUsecase(loans, approvedCustomers(), tx)

	if _, err := uc.Submit(context.Background(), 42, 9); !errors.Is(err, domain.ErrNotEditable) {
		t.Fatalf("err = %v, want ErrNotEditable", err)
	}
}

func TestSubmit_ReValidatesKYC(t *testing.T) {
	app := draftApplication()
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domain.Application, error) { return app, nil },
	}
	customers := &custmock.Lookup{
		GetByIDFn: func(ctx context.Context, id uint64) (*customer.Customer, error) {
			return &customer.Customer{ID: id, KYCStatus: customer.KYCRejected}, nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Approvals: &approvalmock.Repo{}, Audit: &auditmock.Sink{}})
	uc := NewUsecase(loans, customers, tx)

	if _, err := uc.Submit(context.Background(), 42, 9); !errors.Is(err, domain.ErrKYCNotApproved) {
		t.Fatalf("err = %v, want ErrKYCNotApproved", err)
	}
}

func TestGet(t *testing.T) {
	app := draftApplication()
	loans := &loanmock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.Application, error) {
			if id != app.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return app, nil
		},
		ListScheduleFn: func(ctx context.Context, applicationID uint64) ([]domain.ScheduleEntry, error) {
			return []domain.ScheduleEntry{{ApplicationID: applicationID, Sequence: 1}, {ApplicationID: applicationID, Sequence: 2}}, nil
		},
	}
	uc := NewUsecase(loans, approvedCustomers(), &uowmock.UoW{})

	dto, err := uc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.ApplicationCode != "APP-000007" || len(dto.Schedule) != 2 {
		t.Fatalf("dto = %+v", dto)
	}

	if _, err := uc.Get(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
