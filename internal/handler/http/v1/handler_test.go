package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/auth"
	"github.com/shenikar/rescue_dispatch/internal/config"
	"github.com/shenikar/rescue_dispatch/internal/models"
	ratelimit_mocks "github.com/shenikar/rescue_dispatch/internal/ratelimit/mocks"
	"github.com/shenikar/rescue_dispatch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testAPIKey    = "test-api-key"
	testJWTSecret = "test-jwt-secret"
)

type testMocks struct {
	incidents   *mocks.MockIncidentService
	assignments *mocks.MockAssignmentService
	volunteers  *mocks.MockVolunteerService
	disasters   *mocks.MockDisasterService
	limiter     *ratelimit_mocks.MockLimiter
}

// newTestHandler создает Handler с мокированными сервисами и лимитером
func newTestHandler(t *testing.T) (*Handler, *testMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := &testMocks{
		incidents:   mocks.NewMockIncidentService(ctrl),
		assignments: mocks.NewMockAssignmentService(ctrl),
		volunteers:  mocks.NewMockVolunteerService(ctrl),
		disasters:   mocks.NewMockDisasterService(ctrl),
		limiter:     ratelimit_mocks.NewMockLimiter(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:   []string{testAPIKey},
		JWTSecret: testJWTSecret,
	}

	handler := NewHandler(Services{
		Incidents:   m.incidents,
		Assignments: m.assignments,
		Volunteers:  m.volunteers,
		Disasters:   m.disasters,
	}, m.limiter, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func adminHeaders() map[string]string {
	return map[string]string{"X-API-Key": testAPIKey}
}

func bearerHeaders(t *testing.T, userID uuid.UUID, role models.Role) map[string]string {
	t.Helper()
	token, err := auth.NewTokenManager(testJWTSecret).Issue(userID, role, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func floatPtr(v float64) *float64 { return &v }

func validReport() ReportIncidentRequest {
	return ReportIncidentRequest{
		TypeCode:    "medical",
		VictimName:  "Ravi",
		VictimPhone: "+919800000000",
		Latitude:    floatPtr(25.60),
		Longitude:   floatPtr(85.10),
		Severity:    "critical",
	}
}

func TestHealthCheck(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestIdentity_InvalidAPIKey(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+uuid.NewString(), nil, map[string]string{"X-API-Key": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, codeUnauthorized, decodeError(t, w).Code)
}

func TestIdentity_InvalidBearerToken(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	otherToken, err := auth.NewTokenManager("another-secret").Issue(uuid.New(), models.RoleVolunteer, time.Hour)
	require.NoError(t, err)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+uuid.NewString(), nil, map[string]string{"Authorization": "Bearer " + otherToken})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentity_MalformedAuthorizationHeader(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+uuid.NewString(), nil, map[string]string{"Authorization": "Basic abc"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportIncident_AnonymousSuccess(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()

	m.limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(true, time.Duration(0), nil).Times(1)
	m.incidents.EXPECT().
		ReportIncident(gomock.Any(), models.Anonymous(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, inc *models.Incident) (*models.FanOutResult, error) {
			assert.Equal(t, "medical", inc.TypeCode)
			assert.Equal(t, models.SeverityCritical, inc.Severity)
			assert.InDelta(t, 25.60, inc.Latitude, 1e-9)
			inc.ID = incidentID
			inc.Status = models.IncidentPending
			return &models.FanOutResult{Incident: inc, Notified: 3}, nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, validReport()))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp FanOutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.Incident.ID)
	assert.Equal(t, "pending", resp.Incident.Status)
	assert.Equal(t, 3, resp.Notified)
}

func TestReportIncident_AuthenticatedSkipsRateLimit(t *testing.T) {
	_, m, router := newTestHandler(t)
	citizenID := uuid.New()

	m.limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Times(0)
	m.incidents.EXPECT().
		ReportIncident(gomock.Any(), models.Caller{Role: models.RoleCitizen, UserID: citizenID}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, inc *models.Incident) (*models.FanOutResult, error) {
			inc.ID = uuid.New()
			return &models.FanOutResult{Incident: inc}, nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, validReport()), bearerHeaders(t, citizenID, models.RoleCitizen))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReportIncident_AdminSkipsRateLimit(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Times(0)
	m.incidents.EXPECT().
		ReportIncident(gomock.Any(), models.Caller{Role: models.RoleAdministrator}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, inc *models.Incident) (*models.FanOutResult, error) {
			inc.ID = uuid.New()
			return &models.FanOutResult{Incident: inc}, nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, validReport()), adminHeaders())

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReportIncident_RateLimited(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(false, 90*time.Second, nil).Times(1)
	m.incidents.EXPECT().ReportIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, validReport()))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "90", w.Header().Get("Retry-After"))
	assert.Equal(t, codeRateLimited, decodeError(t, w).Code)
}

func TestReportIncident_LimiterUnavailableLetsReportThrough(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(false, time.Duration(0), errors.New("redis down")).Times(1)
	m.incidents.EXPECT().
		ReportIncident(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, inc *models.Incident) (*models.FanOutResult, error) {
			inc.ID = uuid.New()
			return &models.FanOutResult{Incident: inc}, nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, validReport()))

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReportIncident_InvalidJSON(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incidents.EXPECT().ReportIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"type_code": "medical"`), adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestReportIncident_ValidationError(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := validReport()
	reqBody.Latitude = nil // Отсутствуют координаты

	m.incidents.EXPECT().ReportIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Latitude' failed on the 'required' tag")
}

func TestReportIncident_OutOfRangeCoordinates(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := validReport()
	reqBody.Latitude = floatPtr(91)

	m.incidents.EXPECT().ReportIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeValidation, decodeError(t, w).Code)
}

func TestReportIncident_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", fmt.Errorf("%w: unknown issue type", models.ErrValidation), http.StatusBadRequest, codeValidation},
		{"authorization", fmt.Errorf("%w: issue type requires authentication", models.ErrAuthorization), http.StatusForbidden, codeForbidden},
		{"internal", errors.New("database is down"), http.StatusInternalServerError, codeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m, router := newTestHandler(t)
			m.incidents.EXPECT().ReportIncident(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err).Times(1)

			w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, validReport()), adminHeaders())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestReportIncident_InternalErrorIsNotLeaked(t *testing.T) {
	_, m, router := newTestHandler(t)
	m.incidents.EXPECT().ReportIncident(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("pq: password authentication failed")).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, validReport()), adminHeaders())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	expected := &models.Incident{
		ID:        incidentID,
		TypeCode:  "fire",
		Latitude:  30.0,
		Longitude: 40.0,
		Severity:  models.SeverityHigh,
		Status:    models.IncidentAcknowledged,
	}

	m.incidents.EXPECT().GetIncident(gomock.Any(), models.Caller{Role: models.RoleAdministrator}, incidentID).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", incidentID), nil, adminHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, "acknowledged", resp.Status)
	assert.Equal(t, "high", resp.Severity)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "GET", "/api/v1/incidents/invalid-uuid", nil, adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_NotFound(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()

	m.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("service: could not get incident: %w", models.ErrNotFound)).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", incidentID), nil, adminHeaders())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, codeNotFound, decodeError(t, w).Code)
}

func TestListIncidents_VolunteerLocationFromQuery(t *testing.T) {
	_, m, router := newTestHandler(t)
	volunteerID := uuid.New()
	expected := []*models.Incident{
		{ID: uuid.New(), Status: models.IncidentPending, Severity: models.SeverityCritical},
		{ID: uuid.New(), Status: models.IncidentEscalated, Severity: models.SeverityCritical},
	}

	m.incidents.EXPECT().
		ListVisibleIncidents(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, caller models.Caller, filter models.IncidentFilter) ([]*models.Incident, error) {
			assert.Equal(t, models.RoleVolunteer, caller.Role)
			assert.Equal(t, volunteerID, caller.UserID)
			require.NotNil(t, caller.Location)
			assert.InDelta(t, 25.61, caller.Location.Latitude, 1e-9)
			assert.InDelta(t, 85.12, caller.Location.Longitude, 1e-9)
			assert.Equal(t, []models.IncidentStatus{models.IncidentPending, models.IncidentEscalated}, filter.Statuses)
			assert.Equal(t, models.SeverityCritical, filter.Severity)
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 5, filter.PageSize)
			return expected, nil
		}).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?status=pending,escalated&severity=critical&lat=25.61&lng=85.12&page=2&page_size=5", nil,
		bearerHeaders(t, volunteerID, models.RoleVolunteer))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, expected[0].ID, resp[0].ID)
}

func TestListIncidents_InvalidStatusFilter(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incidents.EXPECT().ListVisibleIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents?status=pending,burning", nil, adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeValidation, decodeError(t, w).Code)
}

func TestListIncidents_PageTooLarge(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incidents.EXPECT().ListVisibleIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents?page=922337203685477580", nil, adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeValidation, decodeError(t, w).Code)
}

func TestListIncidents_LatitudeWithoutLongitude(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incidents.EXPECT().ListVisibleIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents?lat=25.6", nil, bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIncidents_AnonymousForbidden(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incidents.EXPECT().
		ListVisibleIncidents(gomock.Any(), models.Anonymous(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: anonymous callers cannot list incidents", models.ErrAuthorization)).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAcknowledgeIncident_Conflict(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()

	m.incidents.EXPECT().AcknowledgeIncident(gomock.Any(), gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("%w: incident is assigned", models.ErrStateConflict)).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/acknowledge", incidentID), nil, adminHeaders())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, codeConflict, decodeError(t, w).Code)
}

func TestEscalateIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	escalated := &models.Incident{ID: incidentID, Severity: models.SeverityCritical, Status: models.IncidentEscalated}

	m.incidents.EXPECT().EscalateIncident(gomock.Any(), gomock.Any(), incidentID).
		Return(&models.FanOutResult{Incident: escalated, Notified: 7}, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/escalate", incidentID), nil, adminHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp FanOutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "escalated", resp.Incident.Status)
	assert.Equal(t, 7, resp.Notified)
}

func TestCancelIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	reporterID := uuid.New()

	m.incidents.EXPECT().CancelIncident(gomock.Any(), models.Caller{Role: models.RoleCitizen, UserID: reporterID}, incidentID).
		Return(&models.Incident{ID: incidentID, Status: models.IncidentCancelled}, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/cancel", incidentID), nil, bearerHeaders(t, reporterID, models.RoleCitizen))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
}

func TestAcceptIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	volunteerID := uuid.New()
	now := time.Now()

	m.assignments.EXPECT().AcceptIncident(gomock.Any(), models.Caller{Role: models.RoleVolunteer, UserID: volunteerID}, incidentID).
		Return(&models.Assignment{
			ID:          uuid.New(),
			IncidentID:  incidentID,
			VolunteerID: volunteerID,
			Status:      models.AssignmentAccepted,
			AcceptedAt:  &now,
		}, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/accept", incidentID), nil, bearerHeaders(t, volunteerID, models.RoleVolunteer))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp AssignmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, volunteerID, resp.VolunteerID)
	assert.NotNil(t, resp.AcceptedAt)
}

func TestAcceptIncident_AlreadyAssigned(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()

	m.assignments.EXPECT().AcceptIncident(gomock.Any(), gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("%w: incident already has an active assignment", models.ErrStateConflict)).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/accept", incidentID), nil, bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDispatchVolunteer_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()
	volunteerID := uuid.New()

	m.assignments.EXPECT().DispatchVolunteer(gomock.Any(), models.Caller{Role: models.RoleAdministrator}, incidentID, volunteerID).
		Return(&models.Assignment{ID: uuid.New(), IncidentID: incidentID, VolunteerID: volunteerID, Status: models.AssignmentAssigned}, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/dispatch", incidentID),
		jsonBody(t, DispatchRequest{VolunteerID: volunteerID.String()}), adminHeaders())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"assigned"`)
}

func TestDispatchVolunteer_InvalidVolunteerID(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.assignments.EXPECT().DispatchVolunteer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/dispatch", uuid.New()),
		jsonBody(t, DispatchRequest{VolunteerID: "not-a-uuid"}), adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIncidentAssignments_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	incidentID := uuid.New()

	m.assignments.EXPECT().ListIncidentAssignments(gomock.Any(), gomock.Any(), incidentID).
		Return([]*models.Assignment{
			{ID: uuid.New(), IncidentID: incidentID, Status: models.AssignmentDropped, DropReason: "vehicle broke down"},
			{ID: uuid.New(), IncidentID: incidentID, Status: models.AssignmentAccepted},
		}, nil).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s/assignments", incidentID), nil, adminHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []AssignmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "vehicle broke down", resp[0].DropReason)
}

func TestAdvanceAssignment_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	assignmentID := uuid.New()

	m.assignments.EXPECT().AdvanceAssignment(gomock.Any(), gomock.Any(), assignmentID, models.AssignmentEnRoute).
		Return(&models.Assignment{ID: assignmentID, Status: models.AssignmentEnRoute}, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/assignments/%s/advance", assignmentID),
		jsonBody(t, AdvanceAssignmentRequest{Status: "en_route"}), bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"en_route"`)
}

func TestAdvanceAssignment_UnknownStatus(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.assignments.EXPECT().AdvanceAssignment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/assignments/%s/advance", uuid.New()),
		jsonBody(t, AdvanceAssignmentRequest{Status: "dropped"}), bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvanceAssignment_SkippedStep(t *testing.T) {
	_, m, router := newTestHandler(t)
	assignmentID := uuid.New()

	m.assignments.EXPECT().AdvanceAssignment(gomock.Any(), gomock.Any(), assignmentID, models.AssignmentCompleted).
		Return(nil, fmt.Errorf("%w: cannot move from accepted to completed", models.ErrStateConflict)).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/assignments/%s/advance", assignmentID),
		jsonBody(t, AdvanceAssignmentRequest{Status: "completed"}), bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDropAssignment_WithoutBody(t *testing.T) {
	_, m, router := newTestHandler(t)
	assignmentID := uuid.New()

	m.assignments.EXPECT().DropAssignment(gomock.Any(), gomock.Any(), assignmentID, "").
		Return(&models.Assignment{ID: assignmentID, Status: models.AssignmentDropped}, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/assignments/%s/drop", assignmentID), nil, bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDropAssignment_WithReason(t *testing.T) {
	_, m, router := newTestHandler(t)
	assignmentID := uuid.New()

	m.assignments.EXPECT().DropAssignment(gomock.Any(), gomock.Any(), assignmentID, "flooded road").
		Return(&models.Assignment{ID: assignmentID, Status: models.AssignmentDropped, DropReason: "flooded road"}, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/assignments/%s/drop", assignmentID),
		jsonBody(t, DropAssignmentRequest{Reason: "flooded road"}), bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "flooded road")
}

func TestGetAssignment_Forbidden(t *testing.T) {
	_, m, router := newTestHandler(t)
	assignmentID := uuid.New()

	m.assignments.EXPECT().GetAssignment(gomock.Any(), gomock.Any(), assignmentID).
		Return(nil, fmt.Errorf("%w: assignment belongs to another volunteer", models.ErrAuthorization)).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/assignments/%s", assignmentID), nil, bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterVolunteer_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	volunteerID := uuid.New()
	reqBody := VolunteerRequest{
		Name:            "Asha",
		Latitude:        floatPtr(25.6),
		Longitude:       floatPtr(85.1),
		ServiceRadiusKm: 15,
		IsAvailable:     true,
		IsVerified:      true,
		Rank:            "trained",
		Specializations: []string{"first_aid"},
	}

	m.volunteers.EXPECT().
		RegisterVolunteer(gomock.Any(), models.Caller{Role: models.RoleAdministrator}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, v *models.Volunteer) (*models.Volunteer, error) {
			assert.Equal(t, volunteerID, v.ID)
			assert.Equal(t, models.RankTrained, v.Rank)
			return v, nil
		}).Times(1)

	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/volunteers/%s", volunteerID), jsonBody(t, reqBody), adminHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp VolunteerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, volunteerID, resp.ID)
	assert.Equal(t, []string{"first_aid"}, resp.Specializations)
}

func TestRegisterVolunteer_InvalidRank(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := VolunteerRequest{Name: "Asha", Latitude: floatPtr(25.6), Longitude: floatPtr(85.1), Rank: "general"}

	m.volunteers.EXPECT().RegisterVolunteer(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/volunteers/%s", uuid.New()), jsonBody(t, reqBody), adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateLocation_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	volunteerID := uuid.New()

	m.volunteers.EXPECT().UpdateLocation(gomock.Any(), models.Caller{Role: models.RoleVolunteer, UserID: volunteerID}, 25.7, 85.2).Return(nil).Times(1)

	w := makeRequest(router, "PUT", "/api/v1/volunteers/me/location",
		jsonBody(t, LocationRequest{Latitude: floatPtr(25.7), Longitude: floatPtr(85.2)}), bearerHeaders(t, volunteerID, models.RoleVolunteer))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSetAvailability_MissingFlag(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.volunteers.EXPECT().SetAvailability(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", "/api/v1/volunteers/me/availability", bytes.NewBufferString(`{}`), bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetAvailability_OffDuty(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.volunteers.EXPECT().SetAvailability(gomock.Any(), gomock.Any(), false).Return(nil).Times(1)

	w := makeRequest(router, "PUT", "/api/v1/volunteers/me/availability", bytes.NewBufferString(`{"available": false}`), bearerHeaders(t, uuid.New(), models.RoleVolunteer))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestVerifyVolunteer_ForbiddenForVolunteer(t *testing.T) {
	_, m, router := newTestHandler(t)
	volunteerID := uuid.New()

	m.volunteers.EXPECT().VerifyVolunteer(gomock.Any(), gomock.Any(), volunteerID, true).
		Return(fmt.Errorf("%w: only administrators verify volunteers", models.ErrAuthorization)).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/volunteers/%s/verify", volunteerID),
		bytes.NewBufferString(`{"verified": true}`), bearerHeaders(t, volunteerID, models.RoleVolunteer))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFindEligibleVolunteers_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	near := &models.Volunteer{ID: uuid.New(), Name: "A", IsAvailable: true, IsVerified: true}

	m.volunteers.EXPECT().FindEligibleVolunteers(gomock.Any(), gomock.Any(), 25.6, 85.1, 10.0, 5).
		Return([]models.MatchedVolunteer{{Volunteer: near, DistanceKm: 4.9}}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/volunteers/eligible?lat=25.6&lng=85.1&radius_km=10&limit=5", nil, adminHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []MatchedVolunteerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, near.ID, resp[0].Volunteer.ID)
	assert.InDelta(t, 4.9, resp[0].DistanceKm, 1e-9)
}

func TestFindEligibleVolunteers_MissingCoordinates(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.volunteers.EXPECT().FindEligibleVolunteers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/volunteers/eligible?lat=25.6", nil, adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeclareDisaster_Success(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.disasters.EXPECT().DeclareDisaster(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, d *models.Disaster) (*models.Disaster, error) {
			d.ID = uuid.New()
			d.Status = models.DisasterActive
			return d, nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/v1/disasters",
		jsonBody(t, DeclareDisasterRequest{Name: "Kosi floods", Kind: "flood", Severity: "critical"}), adminHeaders())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Kosi floods")
}

func TestActivateTeam_DisasterResolved(t *testing.T) {
	_, m, router := newTestHandler(t)
	disasterID := uuid.New()
	teamID := uuid.New()

	m.disasters.EXPECT().ActivateTeam(gomock.Any(), gomock.Any(), disasterID, teamID, "Ward 12", "evacuation").
		Return(nil, fmt.Errorf("%w: disaster is not active", models.ErrStateConflict)).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/disasters/%s/activations", disasterID),
		jsonBody(t, ActivateTeamRequest{TeamID: teamID.String(), AssignedArea: "Ward 12", Responsibilities: "evacuation"}), adminHeaders())

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestActivateTeam_MissingArea(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.disasters.EXPECT().ActivateTeam(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/disasters/%s/activations", uuid.New()),
		jsonBody(t, ActivateTeamRequest{TeamID: uuid.NewString()}), adminHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdrawActivation_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	activationID := uuid.New()
	withdrawn := time.Now()

	m.disasters.EXPECT().WithdrawActivation(gomock.Any(), gomock.Any(), activationID).
		Return(&models.DisasterActivation{ID: activationID, WithdrawnAt: &withdrawn}, nil).Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/v1/activations/%s", activationID), nil, adminHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ActivationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Active)
}

func TestListActivations_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	disasterID := uuid.New()

	m.disasters.EXPECT().ListActivations(gomock.Any(), gomock.Any(), disasterID).
		Return([]*models.DisasterActivation{{ID: uuid.New(), DisasterID: disasterID, AssignedArea: "North"}}, nil).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/disasters/%s/activations", disasterID), nil, adminHeaders())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []ActivationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.True(t, resp[0].Active)
}
