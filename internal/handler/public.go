package handler

import (
	"net/http"

	"oficina/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicHandler is the unauthenticated surface: budget viewing and decisions
// via the link mailed to the customer, plus order tracking by natural keys.
type PublicHandler struct{ svc service.PublicService }

func NewPublicHandler(svc service.PublicService) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// ViewBudget godoc
// @Summary Consulta pública de orçamento
// @Tags public
// @Produce json
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/public/budgets/{id} [get]
func (h *PublicHandler) ViewBudget(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ViewBudget(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PublicHandler) BudgetStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.BudgetStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveBudget godoc
// @Summary Aprovação pública do orçamento
// @Tags public
// @Produce json
// @Param id path string true "ID do orçamento"
// @Success 200 {object} dto.BudgetDecisionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/public/budgets/{id}/approve [post]
func (h *PublicHandler) ApproveBudget(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ApproveBudget(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PublicHandler) RejectBudget(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RejectBudget(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OrderByNumber tracks a single order by its OS number.
func (h *PublicHandler) OrderByNumber(c *gin.Context) {
	resp, err := h.svc.OrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PublicHandler) OrdersByDocument(c *gin.Context) {
	resp, err := h.svc.OrdersByDocument(c.Request.Context(), c.Param("document"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PublicHandler) OrdersByPlate(c *gin.Context) {
	resp, err := h.svc.OrdersByPlate(c.Request.Context(), c.Param("plate"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
