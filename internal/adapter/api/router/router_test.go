package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohit30san/thapar-olx/internal/adapter/api"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
	"github.com/rohit30san/thapar-olx/internal/adapter/repository/memstore"
	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/firebase"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/storage"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/websocket"
	"github.com/rohit30san/thapar-olx/internal/usecase"
)

const adminEmail = "admin@thapar.edu"

var (
	adminToken  = firebase.DevToken("admin", adminEmail, true)
	sellerToken = firebase.DevToken("S", "seller@thapar.edu", true)
	buyerToken  = firebase.DevToken("B", "buyer@thapar.edu", true)
)

type testServer struct {
	e   *echo.Echo
	mem *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mem := memstore.New()
	identity := firebase.NewDevIdentityProvider("http://localhost:8080")
	uploads := storage.NewMemoryAssetStore("http://localhost:8080/dev/uploads")
	policy := service.NewPolicy(adminEmail, "thapar.edu")
	rl := ratelimit.NewRateLimiter(nil)

	auth := usecase.NewAuthUseCase(mem.Users(), identity, nil, policy)
	conversations := usecase.NewConversationUseCase(mem.Conversations(), mem.Listings(), mem.Users(), rl, nil)
	deals := usecase.NewDealUseCase(mem.Deals(), mem.Listings(), conversations, nil, rl, nil, "")
	listings := usecase.NewListingUseCase(mem.Listings(), mem.Users(), uploads, policy)
	reviews := usecase.NewReviewUseCase(mem.Reviews(), mem.Users(), nil, policy)
	reports := usecase.NewReportUseCase(mem.Reports(), mem.Users(), policy, rl)
	moderation := usecase.NewModerationUseCase(
		mem.Users(), mem.Listings(), mem.Deals(), mem.Reports(), mem.Conversations(),
		conversations, policy, nil, nil, "Thapar OLX",
	)
	feed := usecase.NewFeedUseCase(mem.Listings(), mem.Deals(), mem.Conversations(), mem.Reports(), policy, nil)

	manager := websocket.NewManager()
	manager.Start(ctx)

	e := echo.New()
	e.Validator = api.NewValidator()

	Setup(e, Handlers{
		Auth:         handler.NewAuthHandler(auth),
		User:         handler.NewUserHandler(usecase.NewUserUseCase(mem.Users(), mem.Listings(), reviews)),
		Listing:      handler.NewListingHandler(listings),
		Deal:         handler.NewDealHandler(deals),
		Conversation: handler.NewConversationHandler(conversations),
		Review:       handler.NewReviewHandler(reviews),
		Report:       handler.NewReportHandler(reports),
		Admin:        handler.NewAdminHandler(moderation),
		WebSocket:    handler.NewWebSocketHandler(manager, websocket.NewMessageHandler(feed)),
		Health:       handler.NewHealthHandler(nil),
		Dev:          handler.NewDevHandler(identity, mem.Users(), uploads),
	}, middleware.NewAuthMiddleware(auth), middleware.NewAdminMiddleware(policy), rl)

	return &testServer{e: e, mem: mem}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (s *testServer) seedListing(t *testing.T, id, sellerID, title string) {
	t.Helper()
	require.NoError(t, s.mem.Listings().Create(context.Background(), &entity.Listing{
		ID:       id,
		SellerID: sellerID,
		Title:    title,
		Price:    1000,
		Images:   []string{},
		Status:   entity.ListingAvailable,
	}))
}

func errorCode(body map[string]interface{}) string {
	info, _ := body["error"].(map[string]interface{})
	code, _ := info["code"].(string)
	return code
}

func dataOf(body map[string]interface{}) map[string]interface{} {
	data, _ := body["data"].(map[string]interface{})
	return data
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestHealth_DegradedDependency(t *testing.T) {
	e := echo.New()
	SetupHealthRouter(e, handler.NewHealthHandler(map[string]handler.Pinger{
		"firestore": func(ctx context.Context) error { return nil },
		"redis":     func(ctx context.Context) error { return fmt.Errorf("connection refused") },
	}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	deps := body["dependencies"].(map[string]interface{})
	assert.Equal(t, "ok", deps["firestore"])
	assert.Equal(t, "down", deps["redis"])
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodGet, "/v1/deals", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	req := httptest.NewRequest(http.MethodGet, "/v1/deals", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	code, body = s.do(t, http.MethodGet, "/v1/auth/me", buyerToken, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, dataOf(body)["email_verified"])

	code, body = s.do(t, http.MethodGet, "/v1/auth/me", firebase.DevToken("G", "someone@gmail.com", true), "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
}

func TestSignupAndVerify(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(t, http.MethodPost, "/v1/auth/signup", "", `{"email":"new@thapar.edu","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, code)
	userID := dataOf(body)["id"].(string)

	code, body = s.do(t, http.MethodPost, "/v1/auth/signup", "", `{"email":"new@gmail.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", errorCode(body))

	code, body = s.do(t, http.MethodPost, "/v1/auth/signup", "", `{"email":"short@thapar.edu","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))

	token := firebase.DevToken(userID, "new@thapar.edu", false)
	_, body = s.do(t, http.MethodGet, "/v1/auth/verification", token, "")
	assert.Equal(t, false, dataOf(body)["verified"])

	code, _ = s.do(t, http.MethodGet, "/dev/verify?email=new%40thapar.edu", "", "")
	require.Equal(t, http.StatusOK, code)

	_, body = s.do(t, http.MethodGet, "/v1/auth/verification", token, "")
	assert.Equal(t, true, dataOf(body)["verified"])
}

func TestDealFlow(t *testing.T) {
	s := newTestServer(t)
	// First sight of each token creates the user record.
	s.do(t, http.MethodGet, "/v1/auth/me", sellerToken, "")
	s.do(t, http.MethodGet, "/v1/auth/me", buyerToken, "")
	s.seedListing(t, "L1", "S", "iPhone 11")

	code, body := s.do(t, http.MethodPost, "/v1/listings/L1/deals", buyerToken, "")
	require.Equal(t, http.StatusCreated, code, body)
	deal := dataOf(body)
	assert.Equal(t, entity.DealPending, deal["status"])
	dealID := deal["id"].(string)

	code, body = s.do(t, http.MethodPost, "/v1/listings/L1/deals", buyerToken, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DUPLICATE_OPEN_DEAL", errorCode(body))

	code, body = s.do(t, http.MethodPatch, "/v1/deals/"+dealID+"/status", sellerToken, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))

	code, body = s.do(t, http.MethodPatch, "/v1/deals/"+dealID+"/status", buyerToken, `{"status":"accepted"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "PERMISSION_DENIED", errorCode(body))

	code, body = s.do(t, http.MethodPatch, "/v1/deals/"+dealID+"/status", sellerToken, `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, entity.DealAccepted, dataOf(body)["status"])

	code, body = s.do(t, http.MethodPatch, "/v1/deals/"+dealID+"/status", sellerToken, `{"status":"pending"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(body))

	code, _ = s.do(t, http.MethodPost, "/v1/deals/"+dealID+"/retry", sellerToken, `{"step":"teleport"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(t, http.MethodPatch, "/v1/deals/"+dealID+"/status", sellerToken, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(t, http.MethodGet, "/v1/listings/L1", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.ListingSold, dataOf(body)["status"])

	code, body = s.do(t, http.MethodGet, "/v1/conversations", sellerToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/v1/auth/me", adminToken, "")
	s.do(t, http.MethodGet, "/v1/auth/me", sellerToken, "")
	s.do(t, http.MethodGet, "/v1/auth/me", buyerToken, "")
	s.seedListing(t, "L1", "S", "Fake AirPods")

	code, _ := s.do(t, http.MethodPost, "/v1/listings/L1/deals", buyerToken, "")
	require.Equal(t, http.StatusCreated, code)

	code, body := s.do(t, http.MethodDelete, "/v1/admin/listings/L1", sellerToken, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	code, body = s.do(t, http.MethodDelete, "/v1/admin/listings/L1", firebase.DevToken("admin", adminEmail, false), "")
	assert.Equal(t, "UNVERIFIED", errorCode(body), "status %d", code)

	code, body = s.do(t, http.MethodDelete, "/v1/admin/listings/L1", adminToken, "")
	require.Equal(t, http.StatusOK, code, body)
	assert.EqualValues(t, 1, dataOf(body)["deals_deleted"])

	code, _ = s.do(t, http.MethodGet, "/v1/listings/L1", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = s.do(t, http.MethodPatch, "/v1/admin/users/S/disabled", adminToken, `{"disabled":true}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, dataOf(body)["disabled"])

	code, body = s.do(t, http.MethodPatch, "/v1/admin/users/S/disabled", adminToken, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))

	code, body = s.do(t, http.MethodGet, "/v1/admin/dashboard", adminToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, dataOf(body)["users"])
}

func TestWebSocketBadges(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/v1/auth/me", sellerToken, "")
	s.do(t, http.MethodGet, "/v1/auth/me", buyerToken, "")
	s.seedListing(t, "L1", "S", "Air cooler")

	srv := httptest.NewServer(s.e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + sellerToken
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() map[string]interface{} {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var frame map[string]interface{}
		require.NoError(t, conn.ReadJSON(&frame))
		return frame
	}

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "feed": "badges"}))
	frame := read()
	assert.Equal(t, "snapshot", frame["type"])
	assert.EqualValues(t, 0, frame["data"].(map[string]interface{})["open_deals"])

	code, _ := s.do(t, http.MethodPost, "/v1/listings/L1/deals", buyerToken, "")
	require.Equal(t, http.StatusCreated, code)

	// Creating the deal also opens its conversation, so several snapshots
	// may arrive before both counters move.
	for {
		badges := read()["data"].(map[string]interface{})
		if badges["open_deals"] == float64(1) && badges["conversations"] == float64(1) {
			break
		}
	}
}
