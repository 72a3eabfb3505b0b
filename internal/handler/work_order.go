package handler

import (
	"context"
	"net/http"
	"strconv"

	"workorder-api/internal/apperror"
	"workorder-api/internal/middleware"
	"workorder-api/internal/models"
	"workorder-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkOrderHandler serves the /work-orders routes.
type WorkOrderHandler struct {
	service WorkOrderService
}

// WorkOrderService interface for dependency injection
type WorkOrderService interface {
	List(ctx context.Context, params service.ListParams) (*models.WorkOrderPage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error)
	Create(ctx context.Context, creator uuid.UUID, req models.WorkOrderCreate) (*models.WorkOrder, error)
	Update(ctx context.Context, id uuid.UUID, u models.WorkOrderUpdate) (*models.WorkOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewWorkOrderHandler creates a new work order handler
func NewWorkOrderHandler(svc WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{service: svc}
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("Invalid " + name + " parameter")
	}
	return n, nil
}

func listParams(c *gin.Context) (service.ListParams, error) {
	var params service.ListParams
	var err error

	if params.Page, err = queryInt(c, "page", models.DefaultPage); err != nil {
		return params, err
	}
	if params.Limit, err = queryInt(c, "limit", models.DefaultLimit); err != nil {
		return params, err
	}

	params.Filter.Status = models.WorkOrderStatus(c.Query("status"))
	params.Filter.Priority = models.WorkOrderPriority(c.Query("priority"))
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, apperror.Validation("Invalid assigned_to format")
		}
		params.Filter.AssignedTo = &id
	}
	return params, nil
}

// List godoc
// @Summary      List work orders
// @Description  Paginated, newest first, with the linked location embedded.
// @Tags         work-orders
// @Produce      json
// @Param        page         query     int     false  "Page (1-based)"  default(1)
// @Param        limit        query     int     false  "Page size"       default(10)
// @Param        status       query     string  false  "Status filter"
// @Param        priority     query     string  false  "Priority filter"
// @Param        assigned_to  query     string  false  "Assignee user ID"
// @Success      200          {object}  models.WorkOrderPage
// @Failure      400          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders [get]
func (h *WorkOrderHandler) List(c *gin.Context) {
	params, err := listParams(c)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary      Get a work order
// @Tags         work-orders
// @Produce      json
// @Param        id   path      string  true  "Work order ID"
// @Success      200  {object}  models.WorkOrder
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id} [get]
func (h *WorkOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	workOrder, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, workOrder)
}

// Create godoc
// @Summary      Create a work order
// @Description  The caller becomes the creator.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        workOrder  body      models.WorkOrderCreate  true  "Work order"
// @Success      201        {object}  models.WorkOrder
// @Failure      400        {object}  ErrorResponse
// @Failure      500        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders [post]
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req models.WorkOrderCreate
	if !bindJSON(c, &req) {
		return
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		middleware.WriteError(c, apperror.Unauthorized("Not authenticated", nil))
		return
	}

	workOrder, err := h.service.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workOrder)
}

// Update godoc
// @Summary      Update a work order
// @Description  Only fields present in the body change; explicit null clears nullable fields.
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Param        id         path      string                  true  "Work order ID"
// @Param        workOrder  body      models.WorkOrderUpdate  true  "Fields to change"
// @Success      200        {object}  models.WorkOrder
// @Failure      400        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Failure      500        {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id} [put]
func (h *WorkOrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.WorkOrderUpdate
	if !bindJSON(c, &req) {
		return
	}

	workOrder, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, workOrder)
}

// Delete godoc
// @Summary      Delete a work order
// @Tags         work-orders
// @Param        id  path  string  true  "Work order ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		middleware.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
