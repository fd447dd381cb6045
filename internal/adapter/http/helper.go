package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	approvalDomain "microloan-backend/internal/domain/approval"
	"microloan-backend/internal/domain/customer"
	loanDomain "microloan-backend/internal/domain/loan"
	riskDomain "microloan-backend/internal/domain/risk"
	approvalUC "microloan-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// writeDomainError maps usecase/domain errors to HTTP codes.
func writeDomainError(c echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, riskDomain.ErrNotFound),
		errors.Is(err, approvalDomain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, loanDomain.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, loanDomain.ErrKYCNotApproved):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, loanDomain.ErrNotEditable),
		errors.Is(err, loanDomain.ErrNotReviewable),
		errors.Is(err, approvalDomain.ErrNoPendingApproval),
		errors.Is(err, approvalDomain.ErrCannotEscalate):
		code = http.StatusConflict
	case errors.Is(err, approvalDomain.ErrInsufficientAuthority):
		code = http.StatusForbidden
	default:
		code = http.StatusInternalServerError
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// parseActor resolves the acting principal from the identity headers
// set by the upstream auth layer. A nil error means actor is usable.
func parseActor(c echo.Context) (approvalUC.Actor, error) {
	var actor approvalUC.Actor

	rawID := strings.TrimSpace(c.Request().Header.Get("X-Actor-Id"))
	if rawID == "" {
		return actor, errors.New("missing X-Actor-Id header")
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return actor, errors.New("invalid X-Actor-Id header")
	}

	role := approvalDomain.Role(strings.TrimSpace(c.Request().Header.Get("X-Actor-Role")))
	if !role.Valid() {
		return actor, errors.New("missing or unknown X-Actor-Role header")
	}

	actor.ID = id
	actor.Role = role
	if rawBranch := strings.TrimSpace(c.Request().Header.Get("X-Actor-Branch")); rawBranch != "" {
		branch, err := strconv.ParseUint(rawBranch, 10, 64)
		if err != nil {
			return actor, errors.New("invalid X-Actor-Branch header")
		}
		actor.BranchID = branch
	}
	return actor, nil
}

func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name + " path param")
	}
	return id, nil
}
