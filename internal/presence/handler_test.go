package presence

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/middleware"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Heartbeat(ctx context.Context, callerID uint64, callerEmail string, companyID uint64) ([]domain.ActiveEditor, error) {
	args := m.Called(ctx, callerID, callerEmail, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActiveEditor), args.Error(1)
}

func (m *MockService) Leave(ctx context.Context, callerID, companyID uint64) error {
	args := m.Called(ctx, callerID, companyID)
	return args.Error(0)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint64(1))
		c.Set(middleware.UserEmailKey, "owner@acme.test")
		c.Next()
	})
	return router
}

func TestHeartbeatHandler(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, 30*time.Second)
	router := setupRouter()
	router.POST("/editor/heartbeat", handler.Heartbeat)

	mockService.On("Heartbeat", mock.Anything, uint64(1), "owner@acme.test", uint64(7)).
		Return([]domain.ActiveEditor{{CompanyID: 7, UserID: 2, UserEmail: "other@acme.test", LastHeartbeat: now}}, nil)

	req := httptest.NewRequest("POST", "/editor/heartbeat", strings.NewReader(`{"company_id": 7}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		ActiveEditors []domain.ActiveEditor `json:"active_editors"`
		Interval      int                   `json:"heartbeat_interval_seconds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.ActiveEditors, 1)
	assert.Equal(t, "other@acme.test", response.ActiveEditors[0].UserEmail)
	assert.Equal(t, 30, response.Interval)
}

func TestHeartbeatHandler_MissingCompany(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, 30*time.Second)
	router := setupRouter()
	router.POST("/editor/heartbeat", handler.Heartbeat)

	req := httptest.NewRequest("POST", "/editor/heartbeat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandler(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, 30*time.Second)
	router := setupRouter()
	router.DELETE("/editor/heartbeat", handler.Leave)

	mockService.On("Leave", mock.Anything, uint64(1), uint64(7)).Return(nil)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("DELETE", "/editor/heartbeat?company_id=7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	mockService.AssertNumberOfCalls(t, "Leave", 2)
}

func TestLeaveHandler_Forbidden(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, 30*time.Second)
	router := setupRouter()
	router.DELETE("/editor/heartbeat", handler.Leave)

	mockService.On("Leave", mock.Anything, uint64(1), uint64(8)).Return(errors.Forbidden(nil))

	req := httptest.NewRequest("DELETE", "/editor/heartbeat?company_id=8", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeaveHandler_BadQuery(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, 30*time.Second)
	router := setupRouter()
	router.DELETE("/editor/heartbeat", handler.Leave)

	req := httptest.NewRequest("DELETE", "/editor/heartbeat?company_id=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Leave", mock.Anything, mock.Anything, mock.Anything)
}
