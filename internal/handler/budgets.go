package handler

import (
	"net/http"

	"oficina/internal/dto"
	"oficina/internal/service"

	"github.com/gin-gonic/gin"
)

type BudgetsHandler struct{ svc service.BudgetService }

func NewBudgetsHandler(svc service.BudgetService) *BudgetsHandler {
	return &BudgetsHandler{svc: svc}
}

// Create godoc
// @Summary Cria um orçamento em rascunho para uma ordem
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateBudgetRequest true "Dados do orçamento"
// @Success 201 {object} dto.BudgetResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/budgets [post]
func (h *BudgetsHandler) Create(c *gin.Context) {
	var req dto.CreateBudgetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BudgetsHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Send godoc
// @Summary Envia o orçamento ao cliente
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.BudgetResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/budgets/{id}/send [post]
func (h *BudgetsHandler) Send(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Send(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BudgetsHandler) Status(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a draft. Sent or decided budgets are permanent records.
func (h *BudgetsHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
