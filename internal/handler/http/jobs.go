package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/washdesk/backend/internal/models"
)

// JobService is interface for technician-facing job operations
type JobService interface {
	Incoming(ctx context.Context, employeeID string) ([]models.Order, error)
	Queue(ctx context.Context, employeeID string) ([]models.Order, error)
	History(ctx context.Context, employeeID string) ([]models.Order, error)
	Accept(ctx context.Context, orderID, employeeID string) (*models.Order, error)
	Decline(ctx context.Context, orderID, employeeID string) (*models.Order, error)
}

// JobHandler represents HTTP handler for job-related requests
type JobHandler struct {
	svc JobService
}

// NewJobHandler creates new JobHandler instance
func NewJobHandler(svc JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type jobResponseRequest struct {
	EmployeeID string `json:"employee_id"`
}

// IncomingJobs returns orders still awaiting the technician's response
func (jh *JobHandler) IncomingJobs() http.HandlerFunc {
	return jh.listJobs(jh.svc.Incoming)
}

// QueueJobs returns orders the technician has accepted
func (jh *JobHandler) QueueJobs() http.HandlerFunc {
	return jh.listJobs(jh.svc.Queue)
}

// JobHistory returns orders the technician declined or completed
func (jh *JobHandler) JobHistory() http.HandlerFunc {
	return jh.listJobs(jh.svc.History)
}

func (jh *JobHandler) listJobs(view func(ctx context.Context, employeeID string) ([]models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := view(r.Context(), r.URL.Query().Get("employee_id"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderListResponse(orders))
	}
}

// AcceptJob claims the order for the technician
func (jh *JobHandler) AcceptJob() http.HandlerFunc {
	return jh.respondToJob(jh.svc.Accept)
}

// DeclineJob releases the technician's claim on the order
func (jh *JobHandler) DeclineJob() http.HandlerFunc {
	return jh.respondToJob(jh.svc.Decline)
}

func (jh *JobHandler) respondToJob(respond func(ctx context.Context, orderID, employeeID string) (*models.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req jobResponseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := respond(r.Context(), chi.URLParam(r, "orderID"), req.EmployeeID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOrderResponse(*order))
	}
}
