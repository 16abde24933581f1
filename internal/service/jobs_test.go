package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/washdesk/backend/internal/models"
)

type listCall struct {
	employeeID string
	statuses   []models.AssignmentStatus
	byUpdated  bool
}

type fakeJobRepo struct {
	order      *models.Order
	acceptErr  error
	declineErr error
	listCalls  []listCall
}

func (f *fakeJobRepo) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, models.ErrOrderNotFound
	}
	return f.order, nil
}

func (f *fakeJobRepo) AcceptAssignment(_ context.Context, orderID, employeeID string) error {
	return f.acceptErr
}

func (f *fakeJobRepo) DeclineAssignment(_ context.Context, orderID, employeeID string) error {
	return f.declineErr
}

func (f *fakeJobRepo) ListOrdersByAssignment(_ context.Context, employeeID string, statuses []models.AssignmentStatus, byUpdated bool) ([]models.Order, error) {
	f.listCalls = append(f.listCalls, listCall{employeeID: employeeID, statuses: statuses, byUpdated: byUpdated})
	return []models.Order{}, nil
}

func TestJobService_Views(t *testing.T) {
	tests := []struct {
		name         string
		view         func(js *JobService, ctx context.Context, employeeID string) ([]models.Order, error)
		wantStatuses []models.AssignmentStatus
		wantUpdated  bool
	}{
		{
			name: "incoming_filters_pending",
			view: func(js *JobService, ctx context.Context, id string) ([]models.Order, error) {
				return js.Incoming(ctx, id)
			},
			wantStatuses: []models.AssignmentStatus{models.AssignmentStatusPending},
		},
		{
			name: "queue_filters_accepted",
			view: func(js *JobService, ctx context.Context, id string) ([]models.Order, error) {
				return js.Queue(ctx, id)
			},
			wantStatuses: []models.AssignmentStatus{models.AssignmentStatusAccepted},
		},
		{
			name: "history_filters_declined_and_completed",
			view: func(js *JobService, ctx context.Context, id string) ([]models.Order, error) {
				return js.History(ctx, id)
			},
			wantStatuses: []models.AssignmentStatus{models.AssignmentStatusDeclined, models.AssignmentStatusCompleted},
			wantUpdated:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeJobRepo{}
			js := NewJobService(repo)

			_, err := tt.view(js, context.Background(), "EMP-1001")
			require.NoError(t, err)

			require.Len(t, repo.listCalls, 1)
			assert.Equal(t, "EMP-1001", repo.listCalls[0].employeeID)
			assert.Equal(t, tt.wantStatuses, repo.listCalls[0].statuses)
			assert.Equal(t, tt.wantUpdated, repo.listCalls[0].byUpdated)

			_, err = tt.view(js, context.Background(), "")
			assert.ErrorIs(t, err, models.ErrMissingEmployeeID)
		})
	}
}

func TestJobService_Accept(t *testing.T) {
	order := &models.Order{ID: "ord-1"}

	tests := []struct {
		name       string
		employeeID string
		repo       *fakeJobRepo
		wantErr    error
	}{
		{
			name:       "success_returns_refreshed_order",
			employeeID: "EMP-1001",
			repo:       &fakeJobRepo{order: order},
		},
		{
			name:       "missing_employee_id",
			employeeID: "",
			repo:       &fakeJobRepo{order: order},
			wantErr:    models.ErrMissingEmployeeID,
		},
		{
			name:       "already_responded",
			employeeID: "EMP-1001",
			repo:       &fakeJobRepo{order: order, acceptErr: models.ErrAlreadyResponded},
			wantErr:    models.ErrAlreadyResponded,
		},
		{
			name:       "assignment_not_found",
			employeeID: "EMP-9999",
			repo:       &fakeJobRepo{order: order, acceptErr: models.ErrAssignmentNotFound},
			wantErr:    models.ErrAssignmentNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js := NewJobService(tt.repo)

			got, err := js.Accept(context.Background(), "ord-1", tt.employeeID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order, got)
		})
	}
}

func TestJobService_Decline(t *testing.T) {
	order := &models.Order{ID: "ord-1"}

	repo := &fakeJobRepo{order: order}
	js := NewJobService(repo)

	got, err := js.Decline(context.Background(), "ord-1", "EMP-1001")
	require.NoError(t, err)
	assert.Equal(t, order, got)

	repo.declineErr = models.ErrAlreadyResponded
	_, err = js.Decline(context.Background(), "ord-1", "EMP-1001")
	assert.ErrorIs(t, err, models.ErrAlreadyResponded)
}
