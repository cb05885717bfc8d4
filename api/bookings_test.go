package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLedgerUseCase is a mock implementation of ledger.LedgerUseCase
type MockLedgerUseCase struct {
	mock.Mock
}

func (m *MockLedgerUseCase) CreateBooking(ctx context.Context, username, flightID string) (*domain.Booking, error) {
	args := m.Called(ctx, username, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedgerUseCase) CancelBooking(ctx context.Context, id int64, username string) (*domain.Booking, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedgerUseCase) ListActiveBookings(ctx context.Context, username string) ([]domain.Booking, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockLedgerUseCase) GetBooking(ctx context.Context, id int64, username string) (*domain.Booking, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedgerUseCase) ComputeSavings(ctx context.Context, username string) (float64, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedgerUseCase) AddCoupon(ctx context.Context, username, code string, discount float64) (*domain.Coupon, error) {
	args := m.Called(ctx, username, code, discount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockLedgerUseCase) ListCoupons(ctx context.Context, username string) ([]domain.Coupon, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Coupon), args.Error(1)
}

// MockStatusUseCase is a mock implementation of status.StatusUseCase
type MockStatusUseCase struct {
	mock.Mock
}

func (m *MockStatusUseCase) WithLive(ctx context.Context, username string) ([]domain.TrackedBooking, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackedBooking), args.Error(1)
}

func (m *MockStatusUseCase) Refresh(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:            1,
		Reference:     "ref-1",
		Username:      "alice",
		FlightID:      "F1",
		Price:         300,
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureTime: "2026-09-01 08:00",
		ArrivalTime:   "2026-09-01 11:00",
		Airline:       "Delta",
		FlightNumber:  "DL401",
		CreatedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockLedger := &MockLedgerUseCase{}
	handler := NewBookingHandler(mockLedger, &MockStatusUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{FlightID: "F1"})
	c.Request = httptest.NewRequest("POST", "/bookings/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userKey, "alice")

	mockLedger.On("CreateBooking", c.Request.Context(), "alice", "F1").Return(testBooking(), nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ref-1", response.Reference)
	assert.Equal(t, "F1", response.FlightID)
	assert.False(t, response.Cancelled)

	mockLedger.AssertExpectations(t)
}

func TestBookingHandler_create_expiredSearch(t *testing.T) {
	mockLedger := &MockLedgerUseCase{}
	handler := NewBookingHandler(mockLedger, &MockStatusUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{FlightID: "F9"})
	c.Request = httptest.NewRequest("POST", "/bookings/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userKey, "alice")

	mockLedger.On("CreateBooking", c.Request.Context(), "alice", "F9").Return(nil, domain.ErrNotFound)

	handler.create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockLedger.AssertExpectations(t)
}

func TestBookingHandler_list(t *testing.T) {
	mockStatus := &MockStatusUseCase{}
	handler := NewBookingHandler(&MockLedgerUseCase{}, mockStatus)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings/", nil)
	c.Set(userKey, "alice")

	tracked := []domain.TrackedBooking{
		{Booking: *testBooking(), Live: &domain.LiveStatus{FeedKey: "abc123", Callsign: "DL401", Status: domain.StatusInAir}},
		{Booking: *testBooking()},
	}
	mockStatus.On("WithLive", c.Request.Context(), "alice").Return(tracked, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []trackedBookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, domain.StatusInAir, response[0].LiveStatus)
	assert.Equal(t, noLiveData, response[1].LiveStatus)

	mockStatus.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockLedger := &MockLedgerUseCase{}
	handler := NewBookingHandler(mockLedger, &MockStatusUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/1", nil)
	c.Set(userKey, "alice")

	cancelled := testBooking()
	cancelled.Cancelled = true
	mockLedger.On("CancelBooking", c.Request.Context(), int64(1), "alice").Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Cancelled)

	mockLedger.AssertExpectations(t)
}

func TestBookingHandler_cancel_wrongOwner(t *testing.T) {
	mockLedger := &MockLedgerUseCase{}
	handler := NewBookingHandler(mockLedger, &MockStatusUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/1", nil)
	c.Set(userKey, "mallory")

	mockLedger.On("CancelBooking", c.Request.Context(), int64(1), "mallory").Return(nil, domain.ErrUnauthorized)

	handler.cancel(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockLedger.AssertExpectations(t)
}

func TestBookingHandler_cancel_badID(t *testing.T) {
	handler := NewBookingHandler(&MockLedgerUseCase{}, &MockStatusUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "not-a-number"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/not-a-number", nil)
	c.Set(userKey, "alice")

	handler.cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_savings(t *testing.T) {
	mockLedger := &MockLedgerUseCase{}
	handler := NewBookingHandler(mockLedger, &MockStatusUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings/savings", nil)
	c.Set(userKey, "alice")

	mockLedger.On("ComputeSavings", c.Request.Context(), "alice").Return(float64(-150), nil)

	handler.savings(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]float64
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, float64(-150), response["savings"])

	mockLedger.AssertExpectations(t)
}
