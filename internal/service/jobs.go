package service

import (
	"context"

	"github.com/washdesk/backend/internal/logger"
	"github.com/washdesk/backend/internal/models"
	"go.uber.org/zap"
)

// JobRepository is interface for interacting with assignment-related data
type JobRepository interface {
	// GetOrderByID returns the order with its items and assignments
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// AcceptAssignment transitions the employee's pending assignment to accepted
	AcceptAssignment(ctx context.Context, orderID, employeeID string) error
	// DeclineAssignment transitions the employee's pending assignment to declined
	DeclineAssignment(ctx context.Context, orderID, employeeID string) error
	// ListOrdersByAssignment returns orders with an assignment for the employee
	ListOrdersByAssignment(ctx context.Context, employeeID string, statuses []models.AssignmentStatus, byUpdated bool) ([]models.Order, error)
}

// JobService implements the technician-facing job views and transitions
type JobService struct {
	repo JobRepository
}

// NewJobService creates new JobService instance
func NewJobService(repo JobRepository) *JobService {
	return &JobService{repo: repo}
}

// Incoming returns orders the employee has not yet responded to
func (js *JobService) Incoming(ctx context.Context, employeeID string) ([]models.Order, error) {
	if employeeID == "" {
		return nil, models.ErrMissingEmployeeID
	}
	return js.repo.ListOrdersByAssignment(ctx, employeeID,
		[]models.AssignmentStatus{models.AssignmentStatusPending}, false)
}

// Queue returns orders the employee has accepted and not yet completed
func (js *JobService) Queue(ctx context.Context, employeeID string) ([]models.Order, error) {
	if employeeID == "" {
		return nil, models.ErrMissingEmployeeID
	}
	return js.repo.ListOrdersByAssignment(ctx, employeeID,
		[]models.AssignmentStatus{models.AssignmentStatusAccepted}, false)
}

// History returns orders the employee declined or completed
func (js *JobService) History(ctx context.Context, employeeID string) ([]models.Order, error) {
	if employeeID == "" {
		return nil, models.ErrMissingEmployeeID
	}
	return js.repo.ListOrdersByAssignment(ctx, employeeID,
		[]models.AssignmentStatus{models.AssignmentStatusDeclined, models.AssignmentStatusCompleted}, true)
}

// Accept claims the order for the employee. First acceptance wins:
// sibling pending assignments are declined atomically.
func (js *JobService) Accept(ctx context.Context, orderID, employeeID string) (*models.Order, error) {
	if employeeID == "" {
		return nil, models.ErrMissingEmployeeID
	}

	if err := js.repo.AcceptAssignment(ctx, orderID, employeeID); err != nil {
		return nil, err
	}

	logger.Log.Info("job accepted",
		zap.String("order_id", orderID),
		zap.String("employee_id", employeeID))

	return js.repo.GetOrderByID(ctx, orderID)
}

// Decline releases the employee's claim on the order
func (js *JobService) Decline(ctx context.Context, orderID, employeeID string) (*models.Order, error) {
	if employeeID == "" {
		return nil, models.ErrMissingEmployeeID
	}

	if err := js.repo.DeclineAssignment(ctx, orderID, employeeID); err != nil {
		return nil, err
	}

	logger.Log.Info("job declined",
		zap.String("order_id", orderID),
		zap.String("employee_id", employeeID))

	return js.repo.GetOrderByID(ctx, orderID)
}
