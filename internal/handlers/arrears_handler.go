package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makaohq/makao-api/internal/services"
)

type ArrearsHandler struct {
	arrearsService *services.ArrearsService
}

func NewArrearsHandler(arrearsService *services.ArrearsService) *ArrearsHandler {
	return &ArrearsHandler{arrearsService: arrearsService}
}

// @Summary Arrears Report
// @Description Portfolio-wide arrears grouped per tenant, largest arrears first
// @Tags Arrears
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /arrears [get]
func (h *ArrearsHandler) Index(c *gin.Context) {
	groups, err := h.arrearsService.AllArrears(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"arrears": groups})
}

// @Summary Income Report
// @Description Outstanding amounts grouped per tenant, largest total first
// @Tags Arrears
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /arrears/income [get]
func (h *ArrearsHandler) Income(c *gin.Context) {
	groups, err := h.arrearsService.Income(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"income": groups})
}
