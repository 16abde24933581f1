package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/washdesk/backend/internal/logger"
	"github.com/washdesk/backend/internal/models"
	"github.com/washdesk/backend/internal/payment"
	"github.com/washdesk/backend/internal/pricing"
	"go.uber.org/zap"
)

const scheduledDateLayout = "2006-01-02"

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts the order with its line items and assignments
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns the order with its items and assignments
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns orders newest-first, optionally filtered by status
	ListOrders(ctx context.Context, statuses []models.OrderStatus) ([]models.Order, error)
	// UpdateOrderStatus sets a new overall order status
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error
	// MarkOrderPaid moves a pending order to Paid with a conditional update
	MarkOrderPaid(ctx context.Context, id string) error
}

// CatalogRepository is interface for reading catalog data
type CatalogRepository interface {
	// GetService returns the service with its package tiers
	GetService(ctx context.Context, id string) (*models.Service, error)
	// GetAddOns returns the add-ons matching the given ids
	GetAddOns(ctx context.Context, ids []string) ([]models.AddOn, error)
	// ActiveEmployees returns the active roster ordered by employee id
	ActiveEmployees(ctx context.Context) ([]models.Employee, error)
}

// Dispatcher selects technicians for a new order
type Dispatcher interface {
	Dispatch(ctx context.Context, explicitIDs []string, active []models.Employee) ([]string, error)
}

// PaymentProcessor charges the customer for an order
type PaymentProcessor interface {
	Charge(ctx context.Context, orderID string, amount float64) (*payment.Receipt, error)
}

// NewOrderItem is one requested line item of a new order
type NewOrderItem struct {
	ServiceID     string
	AddOnIDs      []string
	PackageType   string
	PackageTimes  int
	ScheduledDate string
	ScheduledSlot string
}

// NewOrder is a create-order request
type NewOrder struct {
	Items       []NewOrderItem
	Customer    models.Customer
	EmployeeIDs []string
}

// OrderService implements OrderService interface
type OrderService struct {
	repo       OrderRepository
	catalog    CatalogRepository
	dispatcher Dispatcher
	payments   PaymentProcessor
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, catalog CatalogRepository, dispatcher Dispatcher, payments PaymentProcessor) *OrderService {
	return &OrderService{
		repo:       repo,
		catalog:    catalog,
		dispatcher: dispatcher,
		payments:   payments,
	}
}

// Create prices the requested line items, aggregates order totals,
// dispatches initial assignments and persists the order.
func (os *OrderService) Create(ctx context.Context, req NewOrder) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}

	items := make([]models.OrderLineItem, 0, len(req.Items))
	for _, in := range req.Items {
		item, err := os.priceItem(ctx, in)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	subtotal, tax, total, err := pricing.Aggregate(items)
	if err != nil {
		return nil, err
	}

	var active []models.Employee
	if len(req.EmployeeIDs) == 0 {
		active, err = os.catalog.ActiveEmployees(ctx)
		if err != nil {
			return nil, err
		}
	}

	employeeIDs, err := os.dispatcher.Dispatch(ctx, req.EmployeeIDs, active)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := models.Order{
		ID:          uuid.NewString(),
		Customer:    req.Customer,
		Items:       items,
		Subtotal:    subtotal,
		Tax:         tax,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
	}

	for _, id := range employeeIDs {
		order.Assignments = append(order.Assignments, models.Assignment{
			OrderID:    order.ID,
			EmployeeID: id,
			Status:     models.AssignmentStatusPending,
			AssignedAt: now,
		})
	}
	if len(order.Assignments) > 0 {
		order.AssignmentStatus = models.AssignmentStatusPending
	}

	created, err := os.repo.CreateOrder(ctx, &order)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("order created",
		zap.String("order_id", created.ID),
		zap.Float64("total", created.TotalAmount),
		zap.Int("assignments", len(created.Assignments)))

	return created, nil
}

// priceItem resolves catalog references, validates the schedule and
// computes the frozen price of one line item.
func (os *OrderService) priceItem(ctx context.Context, in NewOrderItem) (*models.OrderLineItem, error) {
	scheduledDate, err := time.Parse(scheduledDateLayout, in.ScheduledDate)
	if err != nil || strings.TrimSpace(in.ScheduledSlot) == "" {
		return nil, models.ErrInvalidSchedule
	}

	pkg, err := models.ParsePackageType(in.PackageType)
	if err != nil {
		return nil, err
	}
	if pkg != models.PackageOneTime && in.PackageTimes < 1 {
		return nil, models.ErrInvalidPackage
	}

	svc, err := os.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, models.ErrInvalidReference
	}

	addOns, err := os.catalog.GetAddOns(ctx, in.AddOnIDs)
	if err != nil {
		return nil, err
	}
	if len(addOns) != len(in.AddOnIDs) {
		return nil, models.ErrInvalidReference
	}
	for _, a := range addOns {
		if !a.Active {
			return nil, models.ErrInvalidReference
		}
	}

	price, fellBack := pricing.PriceLineItem(*svc, pkg, in.PackageTimes, addOns)
	if fellBack {
		logger.Log.Warn("package tier not found, falling back to base price",
			zap.String("service_id", svc.ID),
			zap.String("package_type", string(pkg)),
			zap.Int("times", in.PackageTimes))
	}

	return &models.OrderLineItem{
		ServiceID:     in.ServiceID,
		AddOnIDs:      in.AddOnIDs,
		PackageType:   pkg,
		PackageTimes:  in.PackageTimes,
		ScheduledDate: scheduledDate,
		ScheduledSlot: in.ScheduledSlot,
		UnitPrice:     price.UnitPrice,
		AddOnsTotal:   price.AddOnsTotal,
		LineTotal:     price.LineTotal,
	}, nil
}

// List returns orders filtered by the optional comma-separated status list
func (os *OrderService) List(ctx context.Context, statusFilter string) ([]models.Order, error) {
	var statuses []models.OrderStatus
	if strings.TrimSpace(statusFilter) != "" {
		for _, part := range strings.Split(statusFilter, ",") {
			status, err := models.ParseOrderStatus(part)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, status)
		}
	}

	return os.repo.ListOrders(ctx, statuses)
}

// Get returns a single order
func (os *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return os.repo.GetOrderByID(ctx, id)
}

// UpdateStatus sets a new order status and returns the updated order.
// Moving to Completed transitions the accepted assignment to completed.
func (os *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	if err := os.repo.UpdateOrderStatus(ctx, id, parsed); err != nil {
		return nil, err
	}

	return os.repo.GetOrderByID(ctx, id)
}

// Pay runs the simulated payment for a pending order and marks it Paid.
// The order is claimed with a conditional update before charging, so a
// concurrent payment of the same order charges at most once.
func (os *OrderService) Pay(ctx context.Context, id string) (*models.Order, *payment.Receipt, error) {
	order, err := os.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := os.repo.MarkOrderPaid(ctx, id); err != nil {
		return nil, nil, err
	}

	receipt, err := os.payments.Charge(ctx, order.ID, order.TotalAmount)
	if err != nil {
		return nil, nil, err
	}

	order, err = os.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return order, receipt, nil
}
