package payment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gallopmart/internal/domain/subscription"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("seller_id", int64(42))
		c.Next()
	})
	RegisterSellerRoutes(r.Group("/api/v1/seller"), NewHandler(svc))
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestHandler_CheckoutFlow(t *testing.T) {
	activator := &mockActivator{}
	svc, _ := setupTestService(t, activator)
	r := setupTestRouter(svc)

	rr, env := postJSON(t, r, "/api/v1/seller/subscribe/create-order", CreateOrderRequest{Plan: "Trot"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var order CreateOrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, int64(99900), order.AmountPaise)

	now := time.Now().UTC()
	active := &subscription.Subscription{SellerID: 42, Plan: subscription.PlanTrot, Status: subscription.StatusActive}
	active.StartDate.Time, active.StartDate.Valid = now, true
	active.EndDate.Time, active.EndDate.Valid = now.AddDate(0, 0, 30), true
	activator.On("ActivateWithProof", mock.Anything, int64(42), subscription.PlanTrot, mock.Anything).Return(active, nil).Once()

	rr, env = postJSON(t, r, "/api/v1/seller/subscribe/verify-payment", VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_777",
		Signature: svc.Sign(order.OrderID, "pay_777"),
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var sub subscription.SubscriptionResponse
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, "Trot", sub.Plan)
	activator.AssertExpectations(t)
}

func TestHandler_Errors(t *testing.T) {
	svc, _ := setupTestService(t, &mockActivator{})
	r := setupTestRouter(svc)

	rr, env := postJSON(t, r, "/api/v1/seller/subscribe/create-order", CreateOrderRequest{Plan: "Diamond"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "UNKNOWN_PLAN", env.Error.Code)

	rr, env = postJSON(t, r, "/api/v1/seller/subscribe/create-order", CreateOrderRequest{Plan: "Free"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "PLAN_NOT_PAYABLE", env.Error.Code)

	rr, env = postJSON(t, r, "/api/v1/seller/subscribe/verify-payment", VerifyPaymentRequest{OrderID: "order_x", PaymentID: "p", Signature: "00"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error.Code)

	rr, _ = postJSON(t, r, "/api/v1/seller/subscribe/verify-payment", map[string]string{"order_id": "order_x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
