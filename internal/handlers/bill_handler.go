package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/middleware"
	"github.com/makaohq/makao-api/internal/repository"
	"github.com/makaohq/makao-api/internal/services"
)

type BillHandler struct {
	billService    *services.BillService
	invoiceService *services.InvoiceService
}

func NewBillHandler(billService *services.BillService, invoiceService *services.InvoiceService) *BillHandler {
	return &BillHandler{billService: billService, invoiceService: invoiceService}
}

type createBillRequest struct {
	TenantID        uint             `json:"tenant_id" binding:"required"`
	UtilityType     string           `json:"utility_type" binding:"required"`
	Period          string           `json:"period" binding:"required"`
	PreviousReading decimal.Decimal  `json:"previous_reading"`
	CurrentReading  decimal.Decimal  `json:"current_reading"`
	ChargePerUnit   decimal.Decimal  `json:"charge_per_unit" binding:"required"`
	VATRate         *decimal.Decimal `json:"vat_rate"`
	DueDate         time.Time        `json:"due_date" binding:"required"`
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// @Summary List Bills
// @Description Get a paginated list of utility bills
// @Tags Bills
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param tenant_id query int false "Filter by tenant"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bills [get]
func (h *BillHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["tenant_id"] = c.Query("tenant_id")
	query.Filters["period"] = c.Query("period")

	bills, total, err := h.billService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bills": bills,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Bill
// @Description Get a utility bill by ID
// @Tags Bills
// @Produce json
// @Param bill_id path int true "Bill ID"
// @Success 200 {object} models.Bill
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bills/{bill_id} [get]
func (h *BillHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bill_id"), 10, 32)
	bill, err := h.billService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// @Summary Create Bill
// @Description Create a utility bill from meter readings
// @Tags Bills
// @Accept json
// @Produce json
// @Param request body createBillRequest true "Bill Data"
// @Success 201 {object} models.Bill
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), services.CreateBillInput{
		TenantID:        req.TenantID,
		UtilityType:     req.UtilityType,
		Period:          req.Period,
		PreviousReading: req.PreviousReading,
		CurrentReading:  req.CurrentReading,
		ChargePerUnit:   req.ChargePerUnit,
		VATRate:         req.VATRate,
		DueDate:         req.DueDate,
	}, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bill": bill})
}

// @Summary Pay Bill
// @Description Record a direct payment against a bill
// @Tags Bills
// @Accept json
// @Produce json
// @Param bill_id path int true "Bill ID"
// @Param request body paymentRequest true "Payment Amount"
// @Success 200 {object} models.Bill
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bills/{bill_id}/pay [post]
func (h *BillHandler) Pay(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bill_id"), 10, 32)
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill, err := h.billService.RecordPayment(c.Request.Context(), uint(id), req.Amount,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// @Summary Cancel Bill
// @Description Cancel a bill; cancelled is terminal
// @Tags Bills
// @Produce json
// @Param bill_id path int true "Bill ID"
// @Success 200 {object} models.Bill
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bills/{bill_id}/cancel [post]
func (h *BillHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bill_id"), 10, 32)
	bill, err := h.billService.Cancel(c.Request.Context(), uint(id),
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// @Summary Delete Bill
// @Description Delete a bill. Refused once an invoice exists against it
// @Tags Bills
// @Produce json
// @Param bill_id path int true "Bill ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bills/{bill_id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bill_id"), 10, 32)
	if err := h.billService.Delete(c.Request.Context(), uint(id),
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted"})
}

type generateInvoiceRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// @Summary Generate Bill Invoice
// @Description Freeze the bill's remaining balance onto a new bill invoice
// @Tags Bills
// @Accept json
// @Produce json
// @Param bill_id path int true "Bill ID"
// @Param request body generateInvoiceRequest false "Optional due date"
// @Success 201 {object} models.BillInvoice
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bills/{bill_id}/invoice [post]
func (h *BillHandler) GenerateInvoice(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bill_id"), 10, 32)
	var req generateInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	billInvoice, err := h.invoiceService.GenerateBillInvoice(c.Request.Context(), uint(id), req.DueDate,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bill_invoice": billInvoice})
}
