// Package schedule computes amortization schedules for loan
// applications. The calculator is pure: terms in, entries out.
package schedule

import (
	"fmt"
	"math"
	"time"

	"microloan-backend/internal/domain/loan"
	"microloan-backend/pkg/money"
)

type Input struct {
	Principal  float64
	AnnualRate float64 // percent, e.g. 12.5
	TermMonths int
	Frequency  loan.PaymentFrequency
	StartDate  time.Time
}

type Result struct {
	Payment       float64
	TotalAmount   float64
	TotalInterest float64
	Entries       []loan.ScheduleEntry
}

// Calculate builds the level-payment amortization schedule. Each entry
// is rounded to cents at construction; any rounding residue is folded
// into the final period so the balance lands on exactly zero.
func Calculate(in Input) (*Result, error) {
	if in.Principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive", loan.ErrValidation)
	}
	if in.AnnualRate < 0 {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", loan.ErrValidation)
	}
	if in.TermMonths < loan.MinTermMonths || in.TermMonths > loan.MaxTermMonths {
		return nil, fmt.Errorf("%w: term must be between %d and %d months", loan.ErrValidation, loan.MinTermMonths, loan.MaxTermMonths)
	}
	if !in.Frequency.Valid() {
		return nil, fmt.Errorf("%w: unknown payment frequency %q", loan.ErrValidation, in.Frequency)
	}

	n := in.TermMonths
	rate := in.AnnualRate / 100 / 12

	// rate==0 makes the annuity denominator zero; fall back to
	// straight-line principal division.
	var payment float64
	if rate == 0 {
		payment = money.Round2(in.Principal / float64(n))
	} else {
		pow := math.Pow(1+rate, float64(n))
		payment = money.Round2(in.Principal * rate * pow / (pow - 1))
	}

	entries := make([]loan.ScheduleEntry, 0, n)
	balance := in.Principal
	var totalAmount, totalInterest float64

	for i := 1; i <= n; i++ {
		interest := money.Round2(balance * rate)
		principal := money.Round2(payment - interest)
		amount := payment

		if i == n {
			// Fold the residue: the last installment clears whatever
			// balance is left.
			principal = money.Round2(balance)
			amount = money.Round2(principal + interest)
			balance = 0
		} else {
			balance = money.Round2(balance - principal)
		}

		entries = append(entries, loan.ScheduleEntry{
			Sequence:  i,
			DueDate:   dueDate(in.StartDate, in.Frequency, i),
			Amount:    amount,
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
			Status:    loan.EntryPending,
		})
		totalAmount += amount
		totalInterest += interest
	}

	return &Result{
		Payment:       payment,
		TotalAmount:   money.Round2(totalAmount),
		TotalInterest: money.Round2(totalInterest),
		Entries:       entries,
	}, nil
}

// dueDate steps forward period periods from start. Calendar stepping is
// anchored on the start date so day-of-month is preserved where the
// target month allows it.
func dueDate(start time.Time, f loan.PaymentFrequency, period int) time.Time {
	switch f {
	case loan.FrequencyWeekly:
		return start.AddDate(0, 0, 7*period)
	case loan.FrequencyBiweekly:
		return start.AddDate(0, 0, 14*period)
	case loan.FrequencyQuarterly:
		return start.AddDate(0, 3*period, 0)
	default: // monthly
		return start.AddDate(0, period, 0)
	}
}
