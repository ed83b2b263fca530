package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RaikyD/laundry-intake-service/internal/application"
	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memOrders struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (m *memOrders) AddOrder(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.CreatedAt = time.Now().UTC()
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *memOrders) ListOrders(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) UpdateOrder(ctx context.Context, id uuid.UUID, upd domain.OrderUpdate) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID != id {
			continue
		}
		if upd.Status != nil {
			m.orders[i].Status = *upd.Status
		}
		if upd.Notes != nil {
			m.orders[i].Notes = *upd.Notes
		}
		o := m.orders[i]
		return &o, nil
	}
	return nil, repository.ErrOrderNotFound
}

type memRaffle struct {
	entries []domain.RaffleEntry
}

func (m *memRaffle) AddEntry(ctx context.Context, e *domain.RaffleEntry) error {
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memRaffle) GetEntryByID(ctx context.Context, id uuid.UUID) (*domain.RaffleEntry, error) {
	return nil, repository.ErrRaffleEntryNotFound
}

const adminToken = "let-me-in"

type testAPI struct {
	srv    *httptest.Server
	orders *memOrders
	raffle *memRaffle
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	require.NoError(t, err)

	orders := &memOrders{}
	raffle := &memRaffle{}
	svc := application.NewOrdersService(orders, application.NewDraftStore(time.Hour), application.NewPromoCodes([]string{"WELCOME10"}), time.UTC)

	r := chi.NewRouter()
	r.Use(Authenticate(string(hash)))
	NewOrdersHandler(svc, application.NewRaffleService(raffle)).Register(r)
	NewAdminHandler(svc).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, orders: orders, raffle: raffle}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var raw any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		out, _ = raw.(map[string]any)
	}
	return resp, out
}

// nextWednesday is always at least two days out.
func nextWednesday() string {
	d := domain.DateOf(time.Now().UTC()).AddDays(2)
	for d.Weekday() != time.Wednesday {
		d = d.AddDays(1)
	}
	return d.String()
}

func TestDraftFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodPost, "/api/drafts", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	assert.Equal(t, "scheduling", body["step"])
	assert.Len(t, body["visibleFields"], 4)

	resp, body = api.do(t, http.MethodPost, "/api/drafts/"+id+"/next", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Len(t, body["fields"], 4)

	resp, _ = api.do(t, http.MethodPatch, "/api/drafts/"+id, map[string]any{
		"deliveryType": "Drop-off",
		"serviceType":  "basic",
		"dropOffDate":  nextWednesday(),
		"timeSlot":     "12:00 PM - 02:00 PM",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/drafts/"+id+"/next", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "contact_and_details", body["step"])

	resp, _ = api.do(t, http.MethodPatch, "/api/drafts/"+id, map[string]any{
		"firstName": "Brad", "lastName": "Tom", "phone": "4155551234", "email": "frank@laundry.com",
		"laundryType": "mixed", "numberOfBags": "2",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/drafts/"+id+"/promo", map[string]string{"code": "welcome10"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["promoValid"])

	resp, _ = api.do(t, http.MethodPost, "/api/drafts/"+id+"/next", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "smsConsent")
	assert.Contains(t, fields, "agreeTerms")

	resp, _ = api.do(t, http.MethodPatch, "/api/drafts/"+id, map[string]any{"smsConsent": true, "agreeTerms": true}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Regexp(t, `^[0-9A-F]{8}$`, body["orderId"])
	require.Len(t, api.orders.orders, 1)
	assert.Equal(t, "WELCOME10", api.orders.orders[0].PromoCode)

	resp, _ = api.do(t, http.MethodGet, "/api/drafts/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftErrors(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodGet, "/api/drafts/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := api.do(t, http.MethodPost, "/api/drafts", nil, "")
	id := body["id"].(string)

	resp, _ = api.do(t, http.MethodPatch, "/api/drafts/"+id, map[string]any{"firstName": "Brad"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPatch, "/api/drafts/"+id, map[string]any{"favouriteColour": "blue"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/drafts/"+id+"/back", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/drafts/"+id+"/submit", nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestEnterRaffle(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodPost, "/api/raffle", map[string]any{"name": "Frank", "phone": "12"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "smsConsent")

	resp, body = api.do(t, http.MethodPost, "/api/raffle", map[string]any{
		"name": "Frank", "phone": "650-555-1234", "smsConsent": true,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
	assert.Len(t, api.raffle.entries, 1)
}

func TestAdminRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodGet, "/api/admin/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/admin/orders", nil, "wrong")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/admin/orders?status=all", nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/admin/orders?status=shipped", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminUpdateOrder(t *testing.T) {
	api := newTestAPI(t)
	o := domain.Order{ID: uuid.New(), OrderID: "3F2A9C1B", Status: domain.StatusReceived}
	require.NoError(t, api.orders.AddOrder(context.Background(), &o))

	resp, body := api.do(t, http.MethodPatch, "/api/admin/orders/"+o.ID.String(),
		map[string]any{"status": "in_progress", "notes": "two bags"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in_progress", body["status"])
	assert.Equal(t, "two bags", body["notes"])

	resp, _ = api.do(t, http.MethodPatch, "/api/admin/orders/"+o.ID.String(), map[string]any{"status": "lost"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPatch, "/api/admin/orders/"+uuid.NewString(), map[string]any{"notes": "x"}, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/admin/orders/not-a-uuid", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
