package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/makaohq/makao-api/internal/middleware"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/repository"
	"github.com/makaohq/makao-api/internal/services"
)

type DemandLetterHandler struct {
	demandLetterService *services.DemandLetterService
}

func NewDemandLetterHandler(demandLetterService *services.DemandLetterService) *DemandLetterHandler {
	return &DemandLetterHandler{demandLetterService: demandLetterService}
}

// @Summary List Demand Letters
// @Description Get a paginated list of demand letters
// @Tags DemandLetters
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param tenant_id query int false "Filter by tenant"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /demand_letters [get]
func (h *DemandLetterHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["tenant_id"] = c.Query("tenant_id")

	letters, total, err := h.demandLetterService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"demand_letters": letters,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Demand Letter
// @Description Get a demand letter by ID
// @Tags DemandLetters
// @Produce json
// @Param letter_id path int true "Demand Letter ID"
// @Success 200 {object} models.DemandLetter
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /demand_letters/{letter_id} [get]
func (h *DemandLetterHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("letter_id"), 10, 32)
	letter, err := h.demandLetterService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"demand_letter": letter})
}

type createDemandLetterRequest struct {
	TenantID uint `json:"tenant_id" binding:"required"`
}

// @Summary Create Demand Letter Draft
// @Description Draft a demand letter from the tenant's overdue documents
// @Tags DemandLetters
// @Accept json
// @Produce json
// @Param request body createDemandLetterRequest true "Tenant"
// @Success 201 {object} models.DemandLetter
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /demand_letters [post]
func (h *DemandLetterHandler) Create(c *gin.Context) {
	var req createDemandLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	letter, err := h.demandLetterService.CreateDraft(c.Request.Context(), req.TenantID,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"demand_letter": letter})
}

// transition runs one lifecycle step and renders the updated letter.
func (h *DemandLetterHandler) transition(c *gin.Context, step func(id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error)) {
	id, _ := strconv.ParseUint(c.Param("letter_id"), 10, 32)
	letter, err := step(uint(id), middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"demand_letter": letter})
}

// @Summary Generate Demand Letter
// @Description Finalize a draft demand letter
// @Tags DemandLetters
// @Produce json
// @Param letter_id path int true "Demand Letter ID"
// @Success 200 {object} models.DemandLetter
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /demand_letters/{letter_id}/generate [post]
func (h *DemandLetterHandler) Generate(c *gin.Context) {
	h.transition(c, func(id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
		return h.demandLetterService.Generate(c.Request.Context(), id, actorID, ip, userAgent)
	})
}

// @Summary Send Demand Letter
// @Description Email the letter to the tenant and record the send time
// @Tags DemandLetters
// @Produce json
// @Param letter_id path int true "Demand Letter ID"
// @Success 200 {object} models.DemandLetter
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /demand_letters/{letter_id}/send [post]
func (h *DemandLetterHandler) Send(c *gin.Context) {
	h.transition(c, func(id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
		return h.demandLetterService.Send(c.Request.Context(), id, actorID, ip, userAgent)
	})
}

// @Summary Acknowledge Demand Letter
// @Description Record the tenant's acknowledgement
// @Tags DemandLetters
// @Produce json
// @Param letter_id path int true "Demand Letter ID"
// @Success 200 {object} models.DemandLetter
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /demand_letters/{letter_id}/acknowledge [post]
func (h *DemandLetterHandler) Acknowledge(c *gin.Context) {
	h.transition(c, func(id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
		return h.demandLetterService.Acknowledge(c.Request.Context(), id, actorID, ip, userAgent)
	})
}

// @Summary Settle Demand Letter
// @Description Close the letter after the cited arrears were cleared
// @Tags DemandLetters
// @Produce json
// @Param letter_id path int true "Demand Letter ID"
// @Success 200 {object} models.DemandLetter
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /demand_letters/{letter_id}/settle [post]
func (h *DemandLetterHandler) Settle(c *gin.Context) {
	h.transition(c, func(id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
		return h.demandLetterService.Settle(c.Request.Context(), id, actorID, ip, userAgent)
	})
}

// @Summary Escalate Demand Letter
// @Description Close the letter unresolved and hand it to collections
// @Tags DemandLetters
// @Produce json
// @Param letter_id path int true "Demand Letter ID"
// @Success 200 {object} models.DemandLetter
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /demand_letters/{letter_id}/escalate [post]
func (h *DemandLetterHandler) Escalate(c *gin.Context) {
	h.transition(c, func(id uint, actorID uint, ip, userAgent string) (*models.DemandLetter, error) {
		return h.demandLetterService.Escalate(c.Request.Context(), id, actorID, ip, userAgent)
	})
}
