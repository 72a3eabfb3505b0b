package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"workorder-api/internal/models"
	"workorder-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

var testUser = &models.User{ID: uuid.MustParse("6f1f6c8e-2f7b-4c55-9a43-6c1d8f1b9a10"), Email: "tech@example.com"}

// MockLocationService is a mock implementation of the LocationService interface
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) Create(ctx context.Context, req models.LocationCreate) (*models.Location, error) {
	args := m.Called(ctx, req)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

func (m *MockLocationService) List(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	locs, _ := args.Get(0).([]models.Location)
	return locs, args.Error(1)
}

func (m *MockLocationService) Get(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

func (m *MockLocationService) Regeocode(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

// MockWorkOrderService is a mock implementation of the WorkOrderService interface
type MockWorkOrderService struct {
	mock.Mock
}

func (m *MockWorkOrderService) List(ctx context.Context, params service.ListParams) (*models.WorkOrderPage, error) {
	args := m.Called(ctx, params)
	page, _ := args.Get(0).(*models.WorkOrderPage)
	return page, args.Error(1)
}

func (m *MockWorkOrderService) Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	args := m.Called(ctx, id)
	wo, _ := args.Get(0).(*models.WorkOrder)
	return wo, args.Error(1)
}

func (m *MockWorkOrderService) Create(ctx context.Context, creator uuid.UUID, req models.WorkOrderCreate) (*models.WorkOrder, error) {
	args := m.Called(ctx, creator, req)
	wo, _ := args.Get(0).(*models.WorkOrder)
	return wo, args.Error(1)
}

func (m *MockWorkOrderService) Update(ctx context.Context, id uuid.UUID, u models.WorkOrderUpdate) (*models.WorkOrder, error) {
	args := m.Called(ctx, id, u)
	wo, _ := args.Get(0).(*models.WorkOrder)
	return wo, args.Error(1)
}

func (m *MockWorkOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	args := m.Called(ctx, creds)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	args := m.Called(ctx, creds)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	resp, _ := args.Get(0).(*models.AuthResponse)
	return resp, args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken string) models.MessageResponse {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(models.MessageResponse)
}

// staticAuthenticator accepts testToken only.
type staticAuthenticator struct{}

func (staticAuthenticator) Authenticate(_ context.Context, accessToken string) (*models.User, error) {
	if accessToken != testToken {
		return nil, errInvalidToken
	}
	return testUser, nil
}

type testServer struct {
	router     *gin.Engine
	auth       *MockAuthService
	locations  *MockLocationService
	workOrders *MockWorkOrderService
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	s := &testServer{
		router:     gin.New(),
		auth:       new(MockAuthService),
		locations:  new(MockLocationService),
		workOrders: new(MockWorkOrderService),
	}
	RegisterRoutes(s.router.Group("/api/v1"), Handlers{
		Auth:       NewAuthHandler(s.auth),
		Locations:  NewLocationHandler(s.locations),
		WorkOrders: NewWorkOrderHandler(s.workOrders),
	}, staticAuthenticator{})
	return s
}

func (s *testServer) assertExpectations(t *testing.T) {
	s.auth.AssertExpectations(t)
	s.locations.AssertExpectations(t)
	s.workOrders.AssertExpectations(t)
}

// do sends an authenticated request unless token is empty.
func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}
