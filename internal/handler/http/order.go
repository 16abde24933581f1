package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/washdesk/backend/internal/models"
	"github.com/washdesk/backend/internal/payment"
	"github.com/washdesk/backend/internal/service"
)

// OrderService is interface for order-related operations
type OrderService interface {
	Create(ctx context.Context, req service.NewOrder) (*models.Order, error)
	List(ctx context.Context, statusFilter string) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
	Pay(ctx context.Context, id string) (*models.Order, *payment.Receipt, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type customerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type orderItemPayload struct {
	ServiceID     string   `json:"service_id"`
	AddOnIDs      []string `json:"add_on_ids,omitempty"`
	PackageType   string   `json:"package_type,omitempty"`
	PackageTimes  int      `json:"package_times,omitempty"`
	ScheduledDate string   `json:"scheduled_date"`
	ScheduledSlot string   `json:"scheduled_slot"`
}

type createOrderRequest struct {
	Items       []orderItemPayload `json:"items"`
	Customer    customerPayload    `json:"customer"`
	EmployeeIDs []string           `json:"employee_ids,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type assignmentResponse struct {
	EmployeeID  string  `json:"employee_id"`
	Status      string  `json:"status"`
	AssignedAt  string  `json:"assigned_at"`
	AcceptedAt  *string `json:"accepted_at,omitempty"`
	DeclinedAt  *string `json:"declined_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

type orderItemResponse struct {
	ServiceID     string   `json:"service_id"`
	AddOnIDs      []string `json:"add_on_ids,omitempty"`
	PackageType   string   `json:"package_type"`
	PackageTimes  int      `json:"package_times,omitempty"`
	ScheduledDate string   `json:"scheduled_date"`
	ScheduledSlot string   `json:"scheduled_slot"`
	UnitPrice     float64  `json:"unit_price"`
	AddOnsTotal   float64  `json:"add_ons_total"`
	LineTotal     float64  `json:"line_total"`
}

type orderResponse struct {
	ID                 string               `json:"id"`
	Customer           customerPayload      `json:"customer"`
	Items              []orderItemResponse  `json:"items"`
	Subtotal           float64              `json:"subtotal"`
	Tax                float64              `json:"tax"`
	TotalAmount        float64              `json:"total_amount"`
	Status             string               `json:"status"`
	AssignmentStatus   string               `json:"assignment_status,omitempty"`
	AssignedEmployeeID string               `json:"assigned_employee_id,omitempty"`
	Assignments        []assignmentResponse `json:"assignments"`
	CreatedAt          string               `json:"created_at"`
	UpdatedAt          string               `json:"updated_at"`
}

type receiptResponse struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	PaidAt string  `json:"paid_at"`
}

type payOrderResponse struct {
	Order   orderResponse   `json:"order"`
	Receipt receiptResponse `json:"receipt"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toOrderResponse(order models.Order) orderResponse {
	resp := orderResponse{
		ID: order.ID,
		Customer: customerPayload{
			Name:    order.Customer.Name,
			Phone:   order.Customer.Phone,
			Address: order.Customer.Address,
		},
		Items:              []orderItemResponse{},
		Subtotal:           order.Subtotal,
		Tax:                order.Tax,
		TotalAmount:        order.TotalAmount,
		Status:             string(order.Status),
		AssignmentStatus:   string(order.AssignmentStatus),
		AssignedEmployeeID: order.AssignedEmployeeID,
		Assignments:        []assignmentResponse{},
		CreatedAt:          order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          order.UpdatedAt.Format(time.RFC3339),
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ServiceID:     item.ServiceID,
			AddOnIDs:      item.AddOnIDs,
			PackageType:   string(item.PackageType),
			PackageTimes:  item.PackageTimes,
			ScheduledDate: item.ScheduledDate.Format("2006-01-02"),
			ScheduledSlot: item.ScheduledSlot,
			UnitPrice:     item.UnitPrice,
			AddOnsTotal:   item.AddOnsTotal,
			LineTotal:     item.LineTotal,
		})
	}

	for _, a := range order.Assignments {
		resp.Assignments = append(resp.Assignments, assignmentResponse{
			EmployeeID:  a.EmployeeID,
			Status:      string(a.Status),
			AssignedAt:  a.AssignedAt.Format(time.RFC3339),
			AcceptedAt:  formatTimePtr(a.AcceptedAt),
			DeclinedAt:  formatTimePtr(a.DeclinedAt),
			CompletedAt: formatTimePtr(a.CompletedAt),
		})
	}

	return resp
}

func toOrderListResponse(orders []models.Order) []orderResponse {
	resp := []orderResponse{}
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}
	return resp
}

// CreateOrder creates a priced, dispatched order
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		in := service.NewOrder{
			Customer: models.Customer{
				Name:    req.Customer.Name,
				Phone:   req.Customer.Phone,
				Address: req.Customer.Address,
			},
			EmployeeIDs: req.EmployeeIDs,
		}
		for _, item := range req.Items {
			in.Items = append(in.Items, service.NewOrderItem{
				ServiceID:     item.ServiceID,
				AddOnIDs:      item.AddOnIDs,
				PackageType:   item.PackageType,
				PackageTimes:  item.PackageTimes,
				ScheduledDate: item.ScheduledDate,
				ScheduledSlot: item.ScheduledSlot,
			})
		}

		order, err := oh.svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toOrderResponse(*order))
	}
}

// ListOrders returns orders newest-first, optionally filtered by a
// comma-separated status list
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.svc.List(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderListResponse(orders))
	}
}

// GetOrder returns a single order
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := oh.svc.Get(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResponse(*order))
	}
}

// UpdateOrderStatus sets a new overall order status
func (oh *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := oh.svc.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResponse(*order))
	}
}

// PayOrder runs the simulated payment for a pending order
func (oh *OrderHandler) PayOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, receipt, err := oh.svc.Pay(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, payOrderResponse{
			Order: toOrderResponse(*order),
			Receipt: receiptResponse{
				ID:     receipt.ID,
				Amount: receipt.Amount,
				Method: receipt.Method,
				PaidAt: receipt.PaidAt.Format(time.RFC3339),
			},
		})
	}
}
