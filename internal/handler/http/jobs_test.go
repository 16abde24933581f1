package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/washdesk/backend/internal/handler/http/mocks"
	"github.com/washdesk/backend/internal/models"
)

func jobRouter(svc JobService) *chi.Mux {
	h := NewJobHandler(svc)

	router := chi.NewRouter()
	router.Get("/api/jobs/incoming", h.IncomingJobs())
	router.Get("/api/jobs/queue", h.QueueJobs())
	router.Get("/api/jobs/history", h.JobHistory())
	router.Post("/api/jobs/{orderID}/accept", h.AcceptJob())
	router.Post("/api/jobs/{orderID}/decline", h.DeclineJob())
	return router
}

func TestJobHandler_IncomingJobs(t *testing.T) {
	createdAt := time.Now().UTC().Truncate(time.Second)
	order := sampleOrder(createdAt)

	tests := []struct {
		name           string
		target         string
		setup          func(t *testing.T) *mocks.MockJobService
		wantStatusCode int
		wantBody       []orderResponse
	}{
		{
			name:   "valid_request_return_200",
			target: "/api/jobs/incoming?employee_id=EMP-1001",
			setup: func(t *testing.T) *mocks.MockJobService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockJobService(ctrl)
				svcMock.EXPECT().Incoming(gomock.Any(), "EMP-1001").Return([]models.Order{*order}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody:       []orderResponse{toOrderResponse(*order)},
		},
		{
			name:   "missing_employee_id_return_400",
			target: "/api/jobs/incoming",
			setup: func(t *testing.T) *mocks.MockJobService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockJobService(ctrl)
				svcMock.EXPECT().Incoming(gomock.Any(), "").Return(nil, models.ErrMissingEmployeeID).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			jobRouter(tt.setup(t)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			require.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				var got []orderResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("unexpected body (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestJobHandler_QueueAndHistory(t *testing.T) {
	createdAt := time.Now().UTC().Truncate(time.Second)
	order := sampleOrder(createdAt)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockJobService(ctrl)
	svcMock.EXPECT().Queue(gomock.Any(), "EMP-1001").Return([]models.Order{*order}, nil)
	svcMock.EXPECT().History(gomock.Any(), "EMP-1001").Return([]models.Order{}, nil)

	router := jobRouter(svcMock)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/queue?employee_id=EMP-1001", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/history?employee_id=EMP-1001", nil))
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestJobHandler_AcceptJob(t *testing.T) {
	createdAt := time.Now().UTC().Truncate(time.Second)
	order := sampleOrder(createdAt)

	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockJobService
		wantStatusCode int
	}{
		{
			name: "valid_request_return_200",
			body: `{"employee_id": "EMP-1001"}`,
			setup: func(t *testing.T) *mocks.MockJobService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockJobService(ctrl)
				svcMock.EXPECT().Accept(gomock.Any(), order.ID, "EMP-1001").Return(order, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "malformed_body_return_400",
			body: "{",
			setup: func(t *testing.T) *mocks.MockJobService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockJobService(ctrl)
				svcMock.EXPECT().Accept(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unknown_order_return_404",
			body: `{"employee_id": "EMP-1001"}`,
			setup: func(t *testing.T) *mocks.MockJobService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockJobService(ctrl)
				svcMock.EXPECT().Accept(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrOrderNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "no_assignment_return_404",
			body: `{"employee_id": "EMP-9999"}`,
			setup: func(t *testing.T) *mocks.MockJobService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockJobService(ctrl)
				svcMock.EXPECT().Accept(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrAssignmentNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "already_responded_return_409",
			body: `{"employee_id": "EMP-1001"}`,
			setup: func(t *testing.T) *mocks.MockJobService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockJobService(ctrl)
				svcMock.EXPECT().Accept(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrAlreadyResponded).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+order.ID+"/accept", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			jobRouter(tt.setup(t)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Result().StatusCode)
		})
	}
}

func TestJobHandler_DeclineJob(t *testing.T) {
	createdAt := time.Now().UTC().Truncate(time.Second)
	order := sampleOrder(createdAt)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockJobService(ctrl)
	svcMock.EXPECT().Decline(gomock.Any(), order.ID, "EMP-1001").Return(order, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+order.ID+"/decline", strings.NewReader(`{"employee_id": "EMP-1001"}`))
	w := httptest.NewRecorder()

	jobRouter(svcMock).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}
