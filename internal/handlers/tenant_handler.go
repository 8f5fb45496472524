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

type TenantHandler struct {
	tenantService  *services.TenantService
	arrearsService *services.ArrearsService
}

func NewTenantHandler(tenantService *services.TenantService, arrearsService *services.ArrearsService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService, arrearsService: arrearsService}
}

// @Summary List Tenants
// @Description Get a paginated list of tenants
// @Tags Tenants
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param active query string false "Filter by active flag"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tenants [get]
func (h *TenantHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["search_term"] = c.Query("search_term")
	query.Filters["active"] = c.Query("active")

	tenants, total, err := h.tenantService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, t := range tenants {
		responses = append(responses, t.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"tenants": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Tenant
// @Description Get a tenant by ID
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenant_id path int true "Tenant ID"
// @Success 200 {object} models.TenantResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tenants/{tenant_id} [get]
func (h *TenantHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	tenant, err := h.tenantService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenant": tenant.ToResponse()})
}

// @Summary Create Tenant
// @Description Create a new tenant on a unit
// @Tags Tenants
// @Accept json
// @Produce json
// @Param request body models.Tenant true "Tenant Data"
// @Success 201 {object} models.TenantResponse
// @Security BearerAuth
// @Router /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var tenant models.Tenant
	if err := BindNestedOrFlat(c, "tenant", &tenant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tenantService.Create(c.Request.Context(), &tenant,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tenant": tenant.ToResponse()})
}

// @Summary Update Tenant
// @Description Update a tenant's financial attributes
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenant_id path int true "Tenant ID"
// @Param request body models.Tenant true "Tenant Data"
// @Success 200 {object} models.TenantResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	var updated models.Tenant
	if err := BindNestedOrFlat(c, "tenant", &updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), uint(id), &updated,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenant.ToResponse()})
}

// @Summary Delete Tenant
// @Description Remove a tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenant_id path int true "Tenant ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /tenants/{tenant_id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	if err := h.tenantService.Delete(c.Request.Context(), uint(id),
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tenant removed"})
}

// @Summary Tenant Rent Charge
// @Description Preview the policy-derived rent charge before generating an invoice
// @Tags Tenants
// @Produce json
// @Param tenant_id path int true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tenants/{tenant_id}/rent_charge [get]
func (h *TenantHandler) RentCharge(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	charge, err := h.tenantService.RentCharge(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subtotal":   charge.Subtotal,
		"vat_amount": charge.VATAmount,
		"total_due":  charge.TotalDue,
	})
}

// @Summary Tenant Outstanding Items
// @Description List a tenant's outstanding invoices and bill invoices with balances
// @Tags Tenants
// @Produce json
// @Param tenant_id path int true "Tenant ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tenants/{tenant_id}/outstanding [get]
func (h *TenantHandler) Outstanding(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("tenant_id"), 10, 32)
	items, err := h.arrearsService.TenantItems(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
