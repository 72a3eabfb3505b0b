package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"workorder-api/internal/apperror"
	"workorder-api/internal/models"

	"github.com/google/uuid"
)

// WorkOrderService contains the business logic for work order CRUD.
type WorkOrderService struct {
	repo WorkOrderRepository
}

// WorkOrderRepository interface for dependency injection
type WorkOrderRepository interface {
	ListWorkOrders(ctx context.Context, f models.WorkOrderFilter, offset, limit int) ([]models.WorkOrder, error)
	CountWorkOrders(ctx context.Context, f models.WorkOrderFilter) (int, error)
	GetWorkOrder(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error)
	WorkOrderExists(ctx context.Context, id uuid.UUID) (bool, error)
	InsertWorkOrder(ctx context.Context, wo models.NewWorkOrder) (uuid.UUID, error)
	UpdateWorkOrder(ctx context.Context, id uuid.UUID, changes []models.ColumnValue) (int64, error)
	DeleteWorkOrder(ctx context.Context, id uuid.UUID) (int64, error)
}

// NewWorkOrderService creates a new work order service
func NewWorkOrderService(repo WorkOrderRepository) *WorkOrderService {
	return &WorkOrderService{repo: repo}
}

// ListParams selects one page of work orders.
type ListParams struct {
	Page   int
	Limit  int
	Filter models.WorkOrderFilter
}

func (p ListParams) validate() error {
	if p.Page < 1 {
		return apperror.Validation("page must be greater than or equal to 1")
	}
	if p.Limit < 1 || p.Limit > models.MaxLimit {
		return apperror.Validation(fmt.Sprintf("limit must be between 1 and %d", models.MaxLimit))
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return apperror.Validation("page is too large")
	}
	if p.Filter.Status != "" && !p.Filter.Status.Valid() {
		return apperror.Validation(fmt.Sprintf("invalid status %q", p.Filter.Status))
	}
	if p.Filter.Priority != "" && !p.Filter.Priority.Valid() {
		return apperror.Validation(fmt.Sprintf("invalid priority %q", p.Filter.Priority))
	}
	return nil
}

// List returns a page of work orders and the total count under the same filters.
func (s *WorkOrderService) List(ctx context.Context, params ListParams) (*models.WorkOrderPage, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	offset := models.Offset(params.Page, params.Limit)
	workOrders, err := s.repo.ListWorkOrders(ctx, params.Filter, offset, params.Limit)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to fetch work orders")
	}

	total, err := s.repo.CountWorkOrders(ctx, params.Filter)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to fetch work orders")
	}

	return &models.WorkOrderPage{
		Data:       workOrders,
		Count:      total,
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	}, nil
}

// Get returns a work order with its location.
func (s *WorkOrderService) Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to fetch work order")
	}
	if wo == nil {
		return nil, apperror.NotFound("Work order not found")
	}
	return wo, nil
}

// Create inserts a work order owned by creator and returns it with its location.
func (s *WorkOrderService) Create(ctx context.Context, creator uuid.UUID, req models.WorkOrderCreate) (*models.WorkOrder, error) {
	req.ApplyDefaults()
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperror.Validation("title is required")
	}
	if !req.Status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("invalid status %q", req.Status))
	}
	if !req.Priority.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("invalid priority %q", req.Priority))
	}

	id, err := s.repo.InsertWorkOrder(ctx, models.NewWorkOrder{WorkOrderCreate: req, CreatedByUserID: creator})
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to create work order")
	}
	if id == uuid.Nil {
		return nil, apperror.Upstream("Failed to create work order", nil)
	}

	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to create work order")
	}
	if wo == nil {
		return nil, apperror.Upstream("Failed to fetch newly created work order with location details", nil)
	}
	return wo, nil
}

func validateUpdate(u models.WorkOrderUpdate) error {
	if u.Title.Set && (u.Title.Value == nil || strings.TrimSpace(*u.Title.Value) == "") {
		return apperror.Validation("title cannot be empty")
	}
	if u.Status.Set && (u.Status.Value == nil || !u.Status.Value.Valid()) {
		return apperror.Validation("invalid status")
	}
	if u.Priority.Set && (u.Priority.Value == nil || !u.Priority.Value.Valid()) {
		return apperror.Validation("invalid priority")
	}
	return nil
}

// Update applies the fields present in u. The existence check, the write and the
// re-fetch are separate statements.
func (s *WorkOrderService) Update(ctx context.Context, id uuid.UUID, u models.WorkOrderUpdate) (*models.WorkOrder, error) {
	changes := u.Changes()
	if len(changes) == 0 {
		return nil, apperror.Validation("No fields to update")
	}
	if err := validateUpdate(u); err != nil {
		return nil, err
	}

	exists, err := s.repo.WorkOrderExists(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to update work order")
	}
	if !exists {
		return nil, apperror.NotFound("Work order not found or not accessible")
	}

	affected, err := s.repo.UpdateWorkOrder(ctx, id, changes)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to update work order")
	}
	if affected == 0 {
		return nil, apperror.Upstream("Failed to update work order, or no effective changes made.", nil)
	}

	wo, err := s.repo.GetWorkOrder(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to update work order")
	}
	if wo == nil {
		return nil, apperror.NotFound("Failed to fetch updated work order details.")
	}
	return wo, nil
}

// Delete removes a work order; zero affected rows is reported as not found.
func (s *WorkOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.WorkOrderExists(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "Failed to delete work order")
	}
	if !exists {
		return apperror.NotFound("Work order not found or not accessible")
	}

	affected, err := s.repo.DeleteWorkOrder(ctx, id)
	if err != nil {
		return apperror.Wrap(err, "Failed to delete work order")
	}
	if affected == 0 {
		return apperror.NotFound("Work order not found, or no rows deleted.")
	}
	return nil
}
