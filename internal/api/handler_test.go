package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"catalogue-service/internal/catalog"
	"catalogue-service/internal/models"
	"catalogue-service/internal/redisclient"
	"catalogue-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func (m *memoryStore) SaveSession(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = data
	return nil
}

func (m *memoryStore) LoadSession(ctx context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, redisclient.ErrNotFound
	}
	return data, nil
}

func (m *memoryStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) SetUserInfo(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return nil
}

func (m *memoryStore) AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (m *memoryStore) ReleaseLock(ctx context.Context, key, token string) error {
	return nil
}

type nopPublisher struct{}

func (nopPublisher) PublishLeadRegistered(ctx context.Context, event *models.LeadRegisteredEvent) error {
	return nil
}

type staticLeads []models.Lead

func (l staticLeads) GetLeadsBySession(ctx context.Context, sessionID string) ([]models.Lead, error) {
	var out []models.Lead
	for _, lead := range l {
		if lead.SessionID == sessionID {
			out = append(out, lead)
		}
	}
	return out, nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func setupRouter(t *testing.T, deps map[string]Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogService := service.NewCatalogService(catalog.MustDefault())
	sessionService := service.NewSessionService(
		&memoryStore{sessions: map[string][]byte{}},
		nopPublisher{},
		catalogService,
		time.Hour,
		time.Second,
	)

	router := gin.New()
	leads := staticLeads{{ID: 1, SessionID: "known", Email: "ana@acme.io", Status: models.LeadStatusSubmitted}}
	NewHandler(sessionService, catalogService, leads, deps).SetupRoutes(router)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestReadinessCheck(t *testing.T) {
	router := setupRouter(t, map[string]Pinger{
		"redis": pingerFunc(func(ctx context.Context) error { return nil }),
	})
	w := do(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	router = setupRouter(t, map[string]Pinger{
		"postgres": pingerFunc(func(ctx context.Context) error { return errors.New("down") }),
	})
	w = do(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSessionFlow(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(t, router, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["session_id"].(string)
	base := "/api/v1/sessions/" + id

	w = do(t, router, http.MethodPost, base+"/register", gin.H{
		"full_name": "Ana Ruiz",
		"company":   "Acme",
		"email":     "ana@acme.io",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "registered", decode(t, w)["stage"])

	w = do(t, router, http.MethodPut, base+"/brand", gin.H{"brand_id": "kidde-commercial"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodPut, base+"/system", gin.H{"system_id": "addressable"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, base+"/view/products?subcategory=Control+Panels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode(t, w)
	assert.Equal(t, false, view["redirected"])
	products := view["products"].(map[string]interface{})
	assert.Equal(t, float64(1), products["total"])

	w = do(t, router, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/system", decode(t, w)["route"])

	w = do(t, router, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "empty", decode(t, w)["stage"])

	w = do(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLeads(t *testing.T) {
	router := setupRouter(t, nil)
	w := do(t, router, http.MethodPost, "/api/v1/sessions", nil)
	id := decode(t, w)["session_id"].(string)

	w = do(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/leads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["leads"])

	w = do(t, router, http.MethodGet, "/api/v1/sessions/missing/leads", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeselectProduct(t *testing.T) {
	router := setupRouter(t, nil)
	w := do(t, router, http.MethodPost, "/api/v1/sessions", nil)
	base := "/api/v1/sessions/" + decode(t, w)["session_id"].(string)

	do(t, router, http.MethodPut, base+"/brand", gin.H{"brand_id": "kidde-commercial"})
	do(t, router, http.MethodPut, base+"/system", gin.H{"system_id": "addressable"})
	w = do(t, router, http.MethodPut, base+"/product", gin.H{"product_id": "kc-addr-001"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "product-selected", decode(t, w)["stage"])

	w = do(t, router, http.MethodPut, base+"/product", gin.H{"product_id": ""})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "system-selected", body["stage"])
	state := body["state"].(map[string]interface{})
	assert.NotContains(t, state, "product_id")
}

func TestRegisterValidation(t *testing.T) {
	router := setupRouter(t, nil)
	w := do(t, router, http.MethodPost, "/api/v1/sessions", nil)
	id := decode(t, w)["session_id"].(string)

	w = do(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/register", gin.H{
		"full_name": "Ana",
		"company":   "Acme",
		"email":     "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w)["error"])
}

func TestViewRedirectsAndUnknownScreen(t *testing.T) {
	router := setupRouter(t, nil)
	w := do(t, router, http.MethodPost, "/api/v1/sessions", nil)
	id := decode(t, w)["session_id"].(string)

	w = do(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/view/product", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode(t, w)
	assert.Equal(t, true, view["redirected"])
	assert.Equal(t, "/brand", view["route"])

	w = do(t, router, http.MethodGet, "/api/v1/sessions/"+id+"/view/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogueRoutes(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(t, router, http.MethodGet, "/api/v1/brands", nil)
	require.Equal(t, http.StatusOK, w.Code)
	brands := decode(t, w)["brands"].([]interface{})
	assert.Len(t, brands, 4)
	first := brands[0].(map[string]interface{})
	assert.Equal(t, "brand-kidde", first["color"])

	w = do(t, router, http.MethodGet, "/api/v1/brands/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/brands/ems/systems/firecell/products?q=zzz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total"])

	w = do(t, router, http.MethodGet, "/api/v1/brands/kidde-commercial/systems/pava/products", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/products/kc-addr-001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	related := decode(t, w)["related"].([]interface{})
	assert.Len(t, related, 2)

	w = do(t, router, http.MethodGet, "/api/v1/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnnotateRoute(t *testing.T) {
	router := setupRouter(t, nil)

	w := do(t, router, http.MethodPost, "/api/v1/annotate", gin.H{"text": "UL listed"})
	require.Equal(t, http.StatusOK, w.Code)
	spans := decode(t, w)["spans"].([]interface{})
	require.Len(t, spans, 2)
	assert.Equal(t, "certification", spans[0].(map[string]interface{})["kind"])
}
