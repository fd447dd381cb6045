package http

import (
	"net/http"

	"microloan-backend/internal/usecase/risk"

	"github.com/labstack/echo/v4"
)

type RiskHandler struct{ uc *risk.Usecase }

func NewRiskHandler(uc *risk.Usecase) *RiskHandler { return &RiskHandler{uc: uc} }

// Assess scores the application and stores a new assessment snapshot.
func (h *RiskHandler) Assess(c echo.Context) error {
	actor, err := parseActor(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	dto, err := h.uc.Perform(c.Request().Context(), id, actor.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Latest returns the most recent assessment for the application.
func (h *RiskHandler) Latest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	dto, err := h.uc.Latest(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
