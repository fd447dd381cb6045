package http

import (
	"net/http"
	"strconv"
	"time"

	"microloan-backend/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

type decideReq struct {
	Decision        string `json:"decision"         validate:"required,oneof=approved rejected"`
	Comments        string `json:"comments"`
	RejectionReason string `json:"rejection_reason" validate:"required_if=Decision rejected"`
}

// Decide records one approve/reject decision at a chain level.
func (h *ApprovalHandler) Decide(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || level < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid level path param"})
	}

	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Process(c.Request().Context(), actor, approval.ProcessInput{
		ApplicationID:   id,
		Level:           level,
		Decision:        approval.Decision(req.Decision),
		Comments:        req.Comments,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type escalateReq struct {
	CurrentLevel int    `json:"current_level" validate:"required,min=1"`
	Reason       string `json:"reason"        validate:"required"`
}

func (h *ApprovalHandler) Escalate(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	var req escalateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Escalate(c.Request().Context(), actor, approval.EscalateInput{
		ApplicationID: id,
		CurrentLevel:  req.CurrentLevel,
		Reason:        req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type bulkReq struct {
	Items []approval.BulkItem `json:"items" validate:"required,min=1,max=100,dive"`
}

// Bulk processes up to 100 decisions; atomicity is per item.
func (h *ApprovalHandler) Bulk(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	var req bulkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res := h.uc.BulkProcess(c.Request().Context(), actor, req.Items)
	return c.JSON(http.StatusOK, res)
}

// ListPending surfaces the actor's pending approval queue. Optional
// query params: min_amount, max_amount, submitted_after (RFC3339).
func (h *ApprovalHandler) ListPending(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	var f approval.PendingFilter
	if raw := c.QueryParam("min_amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_amount"})
		}
		f.MinAmount = &v
	}
	if raw := c.QueryParam("max_amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_amount"})
		}
		f.MaxAmount = &v
	}
	if raw := c.QueryParam("submitted_after"); raw != "" {
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid submitted_after, want RFC3339"})
		}
		f.SubmittedAfter = &v
	}

	records, err := h.uc.ListPending(c.Request().Context(), actor, f)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"records": records, "count": len(records)})
}

// History returns the full approval trail of one application.
func (h *ApprovalHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	records, err := h.uc.ListByApplication(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"records": records, "count": len(records)})
}
