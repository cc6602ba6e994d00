package publish

import (
	"careers-page-builder/internal/draft"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/middleware"
	"careers-page-builder/internal/utils"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Publish(ctx context.Context, callerID, companyID uint64, force bool) (*Result, error) {
	args := m.Called(ctx, callerID, companyID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

func setupRouter(userID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	return router
}

func postPublish(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/drafts/publish", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPublishHandler_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts/publish", handler.Publish)

	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	mockService.On("Publish", mock.Anything, uint64(1), uint64(7), true).
		Return(&Result{Stage: Published, Version: 3, PublishedAt: at}, nil)

	w := postPublish(router, `{"company_id": 7, "force": true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"message": "Published successfully",
		"published_at": "2026-03-02T09:30:00Z",
		"version": 3,
		"stage": "published"
	}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestPublishHandler_MissingCompanyID(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts/publish", handler.Publish)

	w := postPublish(router, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Validation failed", "details": {"company_id": "is required"}}`, w.Body.String())
	mockService.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no draft", errors.NotFound("No draft to publish", nil), http.StatusNotFound},
		{"forbidden", errors.Forbidden(nil), http.StatusForbidden},
		{"conflict", draft.Conflicted{Expected: 1, Actual: 2}.Err(), http.StatusConflict},
		{"stage failure", errors.New(http.StatusInternalServerError, "Publish failed", nil).WithDetails(FailureDetails{
			FailedStage: "sections", CompletedStages: []string{"company_applied", "settings_applied"}, RolledBack: true,
		}), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			handler := NewHandler(mockService)
			router := setupRouter(1)
			router.POST("/drafts/publish", handler.Publish)

			mockService.On("Publish", mock.Anything, uint64(1), uint64(7), false).Return(nil, tt.err)

			w := postPublish(router, `{"company_id": 7}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
