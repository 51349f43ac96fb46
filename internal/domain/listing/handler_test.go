package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallopmart/internal/domain/subscription"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T, f *fixture, sellerID int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-Seller") != "" {
			c.Set("seller_id", sellerID)
		}
		c.Next()
	})
	RegisterSellerRoutes(r.Group("/api/v1/seller"), NewHandler(f.svc))
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, asSeller bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if asSeller {
		req.Header.Set("X-Test-Seller", "1")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestHandler_ListingLifecycle(t *testing.T) {
	f := setupFixture(t)
	sellerID := f.newSeller(t, 100, subscription.PlanFree)
	r := setupTestRouter(t, f, sellerID)

	rr, env := doRequest(t, r, http.MethodPost, "/api/v1/seller/listings", CreateDraftRequest{Title: "Kathiawari stallion", PhotoCount: 1}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created ListingResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, StatusDraft, created.Status)

	rr, env = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/seller/listings/%d/publish", created.ID), nil, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var published ListingResponse
	require.NoError(t, json.Unmarshal(env.Data, &published))
	assert.Equal(t, StatusActive, published.Status)
	require.NotNil(t, published.ExpiresAt)

	rr, env = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/seller/listings/%d/publish", created.ID), nil, true)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	rr, env = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/seller/listings/%d/spotlight", created.ID), nil, true)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "PLAN_LIMIT", env.Error.Code)
	assert.Equal(t, string(subscription.PlanTrot), env.Error.Details["upgrade_to"])
}

func TestHandler_QuotaAndErrors(t *testing.T) {
	f := setupFixture(t)
	sellerID := f.newSeller(t, 101, subscription.PlanFree)
	r := setupTestRouter(t, f, sellerID)

	first := f.draft(t, sellerID, 1, 0)
	second := f.draft(t, sellerID, 1, 0)

	rr, _ := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/seller/listings/%d/publish", first.ID), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/seller/listings/%d/publish", second.ID), nil, true)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "PLAN_LIMIT", env.Error.Code)
	assert.EqualValues(t, 1, env.Error.Details["limit"])

	rr, env = doRequest(t, r, http.MethodPost, "/api/v1/seller/listings/999999/publish", nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "LISTING_NOT_FOUND", env.Error.Code)

	rr, env = doRequest(t, r, http.MethodPost, "/api/v1/seller/listings/abc/boost", nil, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)

	rr, _ = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/v1/seller/listings/%d", first.ID), nil, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_PublishWithoutSubscription(t *testing.T) {
	f := setupFixture(t)
	sellerID := f.newSeller(t, 102, subscription.PlanNone)
	r := setupTestRouter(t, f, sellerID)
	l := f.draft(t, sellerID, 1, 0)

	rr, env := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/v1/seller/listings/%d/publish", l.ID), nil, true)
	assert.Equal(t, http.StatusPaymentRequired, rr.Code)
	assert.Equal(t, "SUBSCRIPTION_INACTIVE", env.Error.Code)
}
