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

type PaymentHandler struct {
	allocationService *services.AllocationService
}

func NewPaymentHandler(allocationService *services.AllocationService) *PaymentHandler {
	return &PaymentHandler{allocationService: allocationService}
}

type allocatePaymentRequest struct {
	TenantID    uint            `json:"tenant_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Period      string          `json:"period" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`

	InvoiceIDs     []uint `json:"invoice_ids"`
	BillInvoiceIDs []uint `json:"bill_invoice_ids"`

	CreateMissingInvoices      bool `json:"create_missing_invoices"`
	AutoGenerateBalanceInvoice bool `json:"auto_generate_balance_invoice"`
	UpdateExistingInvoices     bool `json:"update_existing_invoices"`
}

// @Summary Allocate Payment
// @Description Distribute a payment across a tenant's outstanding documents and issue a payment report
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body allocatePaymentRequest true "Payment Data"
// @Success 201 {object} models.PaymentReport
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Allocate(c *gin.Context) {
	var req allocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.AllocatePaymentInput{
		TenantID:                   req.TenantID,
		Amount:                     req.Amount,
		Period:                     req.Period,
		InvoiceIDs:                 req.InvoiceIDs,
		BillInvoiceIDs:             req.BillInvoiceIDs,
		CreateMissingInvoices:      req.CreateMissingInvoices,
		AutoGenerateBalanceInvoice: req.AutoGenerateBalanceInvoice,
		UpdateExistingInvoices:     req.UpdateExistingInvoices,
	}
	if req.PaymentDate != nil {
		input.PaymentDate = *req.PaymentDate
	}

	report, err := h.allocationService.AllocatePayment(c.Request.Context(), input,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment_report": report})
}

// @Summary List Payment Reports
// @Description Get a paginated list of payment reports
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param tenant_id query int false "Filter by tenant"
// @Param period query string false "Filter by period"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payment_reports [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["tenant_id"] = c.Query("tenant_id")
	query.Filters["period"] = c.Query("period")
	query.Filters["status"] = c.Query("status")

	reports, total, err := h.allocationService.ListReports(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_reports": reports,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Get Payment Report
// @Description Get a payment report by ID with its allocations
// @Tags Payments
// @Produce json
// @Param report_id path int true "Payment Report ID"
// @Success 200 {object} models.PaymentReport
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payment_reports/{report_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("report_id"), 10, 32)
	report, err := h.allocationService.FindReportByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_report": report})
}

// @Summary Tenant Payment Reports
// @Description Get all payment reports for a tenant
// @Tags Payments
// @Produce json
// @Param tenant_id path int true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tenants/{tenant_id}/payment_reports [get]
func (h *PaymentHandler) ByTenant(c *gin.Context) {
	tenantID, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	reports, err := h.allocationService.FindReportsByTenant(c.Request.Context(), uint(tenantID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_reports": reports})
}
