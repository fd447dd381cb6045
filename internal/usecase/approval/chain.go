package approval

import (
	domain "microloan-backend/internal/domain/approval"
)

// ChainStep is one required sign-off level for a requested amount.
type ChainStep struct {
	Level int
	Role  domain.Role
}

// Amount thresholds for the approval chain. Upper bounds are inclusive:
// an application at exactly the boundary stays in the shorter chain.
const (
	OfficerLimit        = 100_000
	BranchManagerLimit  = 500_000
	FinanceManagerLimit = 5_000_000
	// CEOAmountThreshold: above this, every decision requires CEO
	// authority regardless of the level's nominal role.
	CEOAmountThreshold = 5_000_000
)

// BuildChain maps a requested amount to the ordered list of required
// approval levels.
func BuildChain(amount float64) []ChainStep {
	steps := []ChainStep{{Level: 1, Role: domain.RoleLoanOfficer}}
	if amount <= OfficerLimit {
		return steps
	}
	steps = append(steps, ChainStep{Level: 2, Role: domain.RoleBranchManager})
	if amount <= BranchManagerLimit {
		return steps
	}
	steps = append(steps, ChainStep{Level: 3, Role: domain.RoleFinanceManager})
	if amount <= FinanceManagerLimit {
		return steps
	}
	return append(steps, ChainStep{Level: 4, Role: domain.RoleCEO})
}

// RoleForLevel returns the required role at a level of the chain for
// the given amount, or false when the chain has no such level.
func RoleForLevel(amount float64, level int) (domain.Role, bool) {
	for _, s := range BuildChain(amount) {
		if s.Level == level {
			return s.Role, true
		}
	}
	return "", false
}

// hasAuthority applies the fixed role hierarchy plus the amount-based
// CEO override.
func hasAuthority(actor domain.Role, required domain.Role, amount float64) bool {
	if !actor.AtLeast(required) {
		return false
	}
	if amount > CEOAmountThreshold && !actor.AtLeast(domain.RoleCEO) {
		return false
	}
	return true
}
