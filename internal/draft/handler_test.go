package draft

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/middleware"
	"careers-page-builder/internal/utils"
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

func (m *MockService) SaveDraft(ctx context.Context, in SaveInput) (Outcome, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockService) GetDraft(ctx context.Context, callerID, companyID uint64) (*View, error) {
	args := m.Called(ctx, callerID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*View), args.Error(1)
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

type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details"`
}

func postDraft(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/drafts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSaveDraft_Success(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts", handler.SaveDraft)

	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mockService.On("SaveDraft", mock.Anything, mock.MatchedBy(func(in SaveInput) bool {
		return in.CallerID == 1 &&
			in.CompanyID == 7 &&
			in.Company.Name == "Acme" &&
			len(in.Sections) == 2 &&
			in.Sections[0].Title == "Second" &&
			in.Sections[0].IsVisible &&
			!in.Sections[1].IsVisible &&
			in.Settings != nil &&
			in.Settings.PrimaryColor == "#ff0000"
	})).Return(Clean{Draft: &domain.Draft{CompanyID: 7, Version: 4, BaseVersion: 2, UpdatedAt: savedAt}}, nil)

	w := postDraft(router, `{
		"company": {"id": 7, "name": "Acme", "user_id": 99},
		"settings": {"primary_color": "#ff0000"},
		"sections": [
			{"title": "Second", "type": "about", "display_order": 5},
			{"title": "First", "type": "custom", "is_visible": false, "display_order": 0}
		]
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Draft saved", response["message"])
	assert.Equal(t, float64(4), response["version"])
	assert.Equal(t, "2026-03-01T12:00:00Z", response["saved_at"])
	mockService.AssertExpectations(t)
}

func TestSaveDraft_Conflict(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts", handler.SaveDraft)

	mockService.On("SaveDraft", mock.Anything, mock.Anything).Return(Conflicted{Expected: 1, Actual: 2}, nil)

	w := postDraft(router, `{"company": {"id": 7, "name": "Acme"}}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	var response errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response.Details["publishedVersion"])
	assert.Equal(t, float64(1), response.Details["draftBaseVersion"])
}

func TestSaveDraft_SectionsMustBeArray(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts", handler.SaveDraft)

	w := postDraft(router, `{"company": {"id": 7, "name": "Acme"}, "sections": {"title": "About"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "must be an array", response.Details["sections"])
	mockService.AssertNotCalled(t, "SaveDraft", mock.Anything, mock.Anything)
}

func TestSaveDraft_InvalidSectionType(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts", handler.SaveDraft)

	w := postDraft(router, `{"company": {"id": 7, "name": "Acme"}, "sections": [{"title": "x", "type": "jobs"}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Details, "sections.0.type")
}

func TestSaveDraft_MissingCompany(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts", handler.SaveDraft)

	w := postDraft(router, `{"settings": {"primary_color": "red"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "is required", response.Details["company.id"])
	assert.Equal(t, "is required", response.Details["company.name"])
	assert.Equal(t, "must be a hex color", response.Details["settings.primary_color"])
}

func TestSaveDraft_ServiceError(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.POST("/drafts", handler.SaveDraft)

	mockService.On("SaveDraft", mock.Anything, mock.Anything).Return(nil, errors.Forbidden(nil))

	w := postDraft(router, `{"company": {"id": 7, "name": "Acme"}}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Not authorized"}`, w.Body.String())
}

func TestGetDraft_None(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.GET("/drafts", handler.GetDraft)

	mockService.On("GetDraft", mock.Anything, uint64(1), uint64(7)).Return(nil, nil)

	req := httptest.NewRequest("GET", "/drafts?company_id=7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"draft":null}`, w.Body.String())
}

func TestGetDraft_MissingCompanyID(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)
	router := setupRouter(1)
	router.GET("/drafts", handler.GetDraft)

	req := httptest.NewRequest("GET", "/drafts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetDraft", mock.Anything, mock.Anything, mock.Anything)
}
