package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/minhvt/restaurant-reservation/internal/models"
	"github.com/minhvt/restaurant-reservation/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBookingService struct {
	createFn  func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error)
	confirmFn func(ctx context.Context, bookingID uint, ref string, actor models.Actor) (*models.Booking, error)
	cancelFn  func(ctx context.Context, bookingID uint, reason string, actor models.Actor) (*models.Booking, error)
	getFn     func(ctx context.Context, id uint) (*models.Booking, error)
	listFn    func(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, in)
}
func (m *mockBookingService) ConfirmDeposit(ctx context.Context, bookingID uint, ref string, actor models.Actor) (*models.Booking, error) {
	return m.confirmFn(ctx, bookingID, ref, actor)
}
func (m *mockBookingService) Cancel(ctx context.Context, bookingID uint, reason string, actor models.Actor) (*models.Booking, error) {
	return m.cancelFn(ctx, bookingID, reason, actor)
}
func (m *mockBookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) List(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
	return m.listFn(ctx, status)
}

func newRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req, httptest.NewRecorder()
}

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:            1,
		CustomerID:    "cust-1",
		TableID:       2,
		Guests:        4,
		ReservedDate:  "2026-09-10",
		ReservedTime:  "19:00",
		TotalAmount:   95000,
		DepositAmount: 50000,
		Status:        models.BookingPending,
	}
}

func TestBookingHandler_Create(t *testing.T) {
	e := echo.New()
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
			assert.Equal(t, uint(2), in.TableID)
			assert.Equal(t, 4, in.Guests)
			assert.Equal(t, float64(50000), in.DepositAmount)
			return sampleBooking(), nil
		},
	}
	h := NewBookingHandler(svc)

	body := `{"table_id":2,"guests":4,"date":"2026-09-10","time":"19:00","deposit_amount":50000,"items":[{"menu_item_id":1,"quantity":2}]}`
	req, rec := newRequest(http.MethodPost, "/bookings", body)
	c := e.NewContext(req, rec)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["id"])
	assert.Equal(t, "pending", resp["status"])
}

func TestBookingHandler_Create_ValidationError(t *testing.T) {
	e := echo.New()
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
			return nil, service.ErrDepositTooLow
		},
	}
	h := NewBookingHandler(svc)

	req, rec := newRequest(http.MethodPost, "/bookings", `{"table_id":2,"guests":4,"deposit_amount":1}`)
	c := e.NewContext(req, rec)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestBookingHandler_ConfirmDeposit(t *testing.T) {
	e := echo.New()
	svc := &mockBookingService{
		confirmFn: func(ctx context.Context, bookingID uint, ref string, actor models.Actor) (*models.Booking, error) {
			assert.Equal(t, uint(1), bookingID)
			assert.Equal(t, "ref-1", ref)
			b := sampleBooking()
			b.Status = models.BookingConfirmed
			return b, nil
		},
	}
	h := NewBookingHandler(svc)

	req, rec := newRequest(http.MethodPost, "/bookings/1/confirm-deposit", `{"transaction_ref":"ref-1"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.ConfirmDeposit(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"confirmed"`)
}

func TestBookingHandler_ConfirmDeposit_MissingRef(t *testing.T) {
	e := echo.New()
	h := NewBookingHandler(&mockBookingService{})

	req, rec := newRequest(http.MethodPost, "/bookings/1/confirm-deposit", `{}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.ConfirmDeposit(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestBookingHandler_ConfirmDeposit_Conflict(t *testing.T) {
	e := echo.New()
	svc := &mockBookingService{
		confirmFn: func(ctx context.Context, bookingID uint, ref string, actor models.Actor) (*models.Booking, error) {
			return nil, service.ErrTableOccupied
		},
	}
	h := NewBookingHandler(svc)

	req, rec := newRequest(http.MethodPost, "/bookings/1/confirm-deposit", `{"transaction_ref":"ref-1"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.ConfirmDeposit(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestBookingHandler_Cancel_InvalidTransition(t *testing.T) {
	e := echo.New()
	svc := &mockBookingService{
		cancelFn: func(ctx context.Context, bookingID uint, reason string, actor models.Actor) (*models.Booking, error) {
			return nil, service.ErrInvalidTransition
		},
	}
	h := NewBookingHandler(svc)

	req, rec := newRequest(http.MethodPost, "/bookings/1/cancel", `{"reason":"too late"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.Cancel(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
}

func TestBookingHandler_Get_NotFound(t *testing.T) {
	e := echo.New()
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, service.ErrBookingNotFound
		},
	}
	h := NewBookingHandler(svc)

	req, rec := newRequest(http.MethodGet, "/bookings/99", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.Get(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestBookingHandler_Get_BadID(t *testing.T) {
	e := echo.New()
	h := NewBookingHandler(&mockBookingService{})

	req, rec := newRequest(http.MethodGet, "/bookings/abc", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestBookingHandler_List_WithStatusFilter(t *testing.T) {
	e := echo.New()
	svc := &mockBookingService{
		listFn: func(ctx context.Context, status *models.BookingStatus) ([]models.Booking, error) {
			require.NotNil(t, status)
			assert.Equal(t, models.BookingConfirmed, *status)
			b := sampleBooking()
			b.Status = models.BookingConfirmed
			return []models.Booking{*b}, nil
		},
	}
	h := NewBookingHandler(svc)

	req, rec := newRequest(http.MethodGet, "/bookings?status=confirmed", "")
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
}
