package handler

import (
	"context"
	"net/http"

	"workorder-api/internal/middleware"
	"workorder-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LocationHandler serves the /locations routes.
type LocationHandler struct {
	service LocationService
}

// LocationService interface for dependency injection
type LocationService interface {
	Create(ctx context.Context, req models.LocationCreate) (*models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Regeocode(ctx context.Context, id uuid.UUID) (*models.Location, error)
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// Create godoc
// @Summary      Create a location
// @Description  Reuses an existing row with the same address, city and state; otherwise geocodes and inserts.
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        location  body      models.LocationCreate  true  "Location"
// @Success      201       {object}  models.Location
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	var req models.LocationCreate
	if !bindJSON(c, &req) {
		return
	}

	location, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

// List godoc
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Success      200  {array}   models.Location
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	locations, err := h.service.List(c.Request.Context())
	if err != nil {
		middleware.WriteError(c, err)
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}

	c.JSON(http.StatusOK, locations)
}

// Get godoc
// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  models.Location
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id} [get]
func (h *LocationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	location, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}

// Regeocode godoc
// @Summary      Re-geocode a location
// @Description  Looks up coordinates for the stored address and saves them.
// @Tags         locations
// @Produce      json
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  models.Location
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{id}/geocode [post]
func (h *LocationHandler) Regeocode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	location, err := h.service.Regeocode(c.Request.Context(), id)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}
