package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Tenant       *TenantHandler
	Property     *PropertyHandler
	Bill         *BillHandler
	Invoice      *InvoiceHandler
	Payment      *PaymentHandler
	Arrears      *ArrearsHandler
	DemandLetter *DemandLetterHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Tenant:       NewTenantHandler(svcs.Tenant, svcs.Arrears),
		Property:     NewPropertyHandler(svcs.Property),
		Bill:         NewBillHandler(svcs.Bill, svcs.Invoice),
		Invoice:      NewInvoiceHandler(svcs.Invoice),
		Payment:      NewPaymentHandler(svcs.Allocation),
		Arrears:      NewArrearsHandler(svcs.Arrears),
		DemandLetter: NewDemandLetterHandler(svcs.DemandLetter),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Check if the API is up
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError translates service and billing errors into HTTP responses.
// Validation errors are the caller's to fix (400); state conflicts are 422.
func respondError(c *gin.Context, err error) {
	var invalidReading *billing.InvalidReadingError
	var invalidAmount *billing.InvalidPaymentAmountError
	var exceedsBalance *billing.PaymentExceedsBalanceError
	var nothingToInvoice *billing.NothingToInvoiceError
	var noOverdue *billing.NoOverdueInvoicesError

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrBillInvoiced):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &invalidReading),
		errors.As(err, &invalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &exceedsBalance),
		errors.As(err, &nothingToInvoice),
		errors.As(err, &noOverdue):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
