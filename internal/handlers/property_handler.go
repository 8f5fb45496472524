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

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// @Summary List Properties
// @Description Get a paginated list of properties
// @Tags Properties
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /properties [get]
func (h *PropertyHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["search_term"] = c.Query("search_term")

	properties, total, err := h.propertyService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties, "pagination": gin.H{"total": total}})
}

// @Summary Get Property
// @Description Get a property by ID with its units
// @Tags Properties
// @Accept json
// @Produce json
// @Param property_id path int true "Property ID"
// @Success 200 {object} models.Property
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{property_id} [get]
func (h *PropertyHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("property_id"), 10, 32)
	property, err := h.propertyService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}

// @Summary Create Property
// @Description Create a new property
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body models.Property true "Property Data"
// @Success 201 {object} models.Property
// @Security BearerAuth
// @Router /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var property models.Property
	if err := BindNestedOrFlat(c, "property", &property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.propertyService.Create(c.Request.Context(), &property,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// @Summary Update Property
// @Description Update an existing property
// @Tags Properties
// @Accept json
// @Produce json
// @Param property_id path int true "Property ID"
// @Param request body models.Property true "Property Data"
// @Success 200 {object} models.Property
// @Security BearerAuth
// @Router /properties/{property_id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("property_id"), 10, 32)
	var property models.Property
	if err := BindNestedOrFlat(c, "property", &property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	property.ID = uint(id)

	if err := h.propertyService.Update(c.Request.Context(), &property,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// @Summary List Units
// @Description Get the units of a property
// @Tags Properties
// @Produce json
// @Param property_id path int true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /properties/{property_id}/units [get]
func (h *PropertyHandler) Units(c *gin.Context) {
	propertyID, _ := strconv.ParseUint(c.Param("property_id"), 10, 32)
	units, err := h.propertyService.FindUnits(c.Request.Context(), uint(propertyID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}

// @Summary Create Unit
// @Description Create a new unit within a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param property_id path int true "Property ID"
// @Param request body models.Unit true "Unit Data"
// @Success 201 {object} models.Unit
// @Security BearerAuth
// @Router /properties/{property_id}/units [post]
func (h *PropertyHandler) CreateUnit(c *gin.Context) {
	propertyID, _ := strconv.ParseUint(c.Param("property_id"), 10, 32)
	var unit models.Unit
	if err := BindNestedOrFlat(c, "unit", &unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	unit.PropertyID = uint(propertyID)

	if err := h.propertyService.CreateUnit(c.Request.Context(), &unit,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}
