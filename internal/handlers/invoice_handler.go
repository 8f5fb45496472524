package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/makaohq/makao-api/internal/middleware"
	"github.com/makaohq/makao-api/internal/repository"
	"github.com/makaohq/makao-api/internal/services"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// @Summary List Invoices
// @Description Get a paginated list of invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param tenant_id query int false "Filter by tenant"
// @Param kind query string false "Filter by kind (rent, balance)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["tenant_id"] = c.Query("tenant_id")
	query.Filters["kind"] = c.Query("kind")
	query.Filters["period"] = c.Query("period")

	invoices, total, err := h.invoiceService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Invoice
// @Description Get an invoice by ID
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.invoiceService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

type generateRentInvoiceRequest struct {
	TenantID uint       `json:"tenant_id" binding:"required"`
	Period   string     `json:"period" binding:"required"`
	DueDate  *time.Time `json:"due_date"`
}

// @Summary Generate Rent Invoice
// @Description Generate the recurring rent invoice for a tenant and period
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body generateRentInvoiceRequest true "Invoice Data"
// @Success 201 {object} models.Invoice
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/generate [post]
func (h *InvoiceHandler) GenerateRent(c *gin.Context) {
	var req generateRentInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceService.GenerateRentInvoice(c.Request.Context(), req.TenantID, req.Period, req.DueDate,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// @Summary Pay Invoice
// @Description Record a direct payment against an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Param request body paymentRequest true "Payment Amount"
// @Success 200 {object} models.Invoice
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), uint(id), req.Amount,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// @Summary Cancel Invoice
// @Description Cancel an invoice; cancelled is terminal
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.Invoice
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	invoice, err := h.invoiceService.Cancel(c.Request.Context(), uint(id),
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// @Summary Get Bill Invoice
// @Description Get a bill invoice by ID
// @Tags Invoices
// @Produce json
// @Param bill_invoice_id path int true "Bill Invoice ID"
// @Success 200 {object} models.BillInvoice
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bill_invoices/{bill_invoice_id} [get]
func (h *InvoiceHandler) ShowBillInvoice(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bill_invoice_id"), 10, 32)
	billInvoice, err := h.invoiceService.FindBillInvoiceByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill_invoice": billInvoice})
}

// @Summary Pay Bill Invoice
// @Description Record a direct payment against a bill invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param bill_invoice_id path int true "Bill Invoice ID"
// @Param request body paymentRequest true "Payment Amount"
// @Success 200 {object} models.BillInvoice
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bill_invoices/{bill_invoice_id}/pay [post]
func (h *InvoiceHandler) PayBillInvoice(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bill_invoice_id"), 10, 32)
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	billInvoice, err := h.invoiceService.RecordBillInvoicePayment(c.Request.Context(), uint(id), req.Amount,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill_invoice": billInvoice})
}

// @Summary Generate Arrears Invoice
// @Description Create a balance invoice from a payment report's arrears
// @Tags Invoices
// @Accept json
// @Produce json
// @Param report_id path int true "Payment Report ID"
// @Param request body generateInvoiceRequest false "Optional due date"
// @Success 201 {object} models.Invoice
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payment_reports/{report_id}/arrears_invoice [post]
func (h *InvoiceHandler) GenerateArrears(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("report_id"), 10, 32)
	var req generateInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	invoice, err := h.invoiceService.GenerateArrearsInvoice(c.Request.Context(), uint(id), req.DueDate,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}
