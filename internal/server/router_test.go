package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/globatech/sirest/internal/bootstrap"
	"github.com/globatech/sirest/internal/config"
	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/services"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		Env:            "test",
		JWTSecret:      "test-secret",
		RestaurantName: "SiRest",
		TaxRate:        decimal.RequireFromString("0.19"),
		ServiceRate:    decimal.RequireFromString("0.10"),
		Currency:       "COP",
		Timezone:       "UTC",
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&kvstore.Entry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := testConfig()
	kv := kvstore.New(db)
	repos := services.NewRepos(kv)
	settings := services.NewSettings(kv, DefaultConfiguration(cfg))
	if err := bootstrap.Run(context.Background(), kv, repos, settings, log); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(cfg, db, nil, log)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, out
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	w, out := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: got %d %s", email, w.Code, w.Body.String())
	}
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(t)
	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, w.Code)
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics: expected 200 got %d", w.Code)
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	h := newTestServer(t)
	w, _ := doJSON(t, h, http.MethodGet, "/orders", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestOrderToPaymentFlow(t *testing.T) {
	h := newTestServer(t)
	waiter := login(t, h, "mesero@sirest.local", "mesero123")
	cashier := login(t, h, "cajero@sirest.local", "cajero123")

	// Waiter opens an order.
	w, out := doJSON(t, h, http.MethodPost, "/orders", waiter, map[string]any{
		"tableNumber": "3",
		"waiter":      "Carlos",
		"items": []map[string]any{
			{"productId": "p1", "name": "Plate", "unitPrice": "15.99", "quantity": 2},
			{"productId": "p2", "name": "Drink", "unitPrice": "3.50", "quantity": 3},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: got %d %s", w.Code, w.Body.String())
	}
	order := out["order"].(map[string]any)
	orderID := order["id"].(string)
	if order["subtotal"] != "42.48" {
		t.Fatalf("subtotal: got %v", order["subtotal"])
	}

	// Kitchen walks it to served.
	for _, status := range []string{"preparing", "ready", "served"} {
		w, _ = doJSON(t, h, http.MethodPut, "/orders/"+orderID, waiter, map[string]any{"status": status})
		if w.Code != http.StatusOK {
			t.Fatalf("to %s: got %d %s", status, w.Code, w.Body.String())
		}
	}

	// A waiter cannot settle.
	w, _ = doJSON(t, h, http.MethodPost, "/payments", waiter, map[string]any{
		"orderId": orderID, "paymentMethod": "cash", "tip": "5.00", "receivedAmount": "60.00",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("waiter settle: expected 403 got %d", w.Code)
	}

	// The cashier settles with cash.
	w, out = doJSON(t, h, http.MethodPost, "/payments", cashier, map[string]any{
		"orderId": orderID, "paymentMethod": "cash", "tip": "5.00", "receivedAmount": "60.00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("settle: got %d %s", w.Code, w.Body.String())
	}
	payment := out["payment"].(map[string]any)
	if payment["total"] != "59.8" && payment["total"] != "59.80" {
		t.Fatalf("total: got %v", payment["total"])
	}
	if payment["change"] != "0.2" && payment["change"] != "0.20" {
		t.Fatalf("change: got %v", payment["change"])
	}

	// Settling again is a 409.
	w, _ = doJSON(t, h, http.MethodPost, "/payments", cashier, map[string]any{
		"orderId": orderID, "paymentMethod": "card",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("double settle: expected 409 got %d %s", w.Code, w.Body.String())
	}

	// The closing reflects the single cash payment.
	w, out = doJSON(t, h, http.MethodPost, "/cash-closing", cashier, map[string]any{
		"cashCount": "60.00", "notes": "end of shift",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("closing: got %d %s", w.Code, w.Body.String())
	}
	report := out["report"].(map[string]any)
	if report["totalTransactions"] != float64(1) {
		t.Fatalf("transactions: got %v", report["totalTransactions"])
	}
}

func TestIllegalTransitionIs409(t *testing.T) {
	h := newTestServer(t)
	waiter := login(t, h, "mesero@sirest.local", "mesero123")

	w, out := doJSON(t, h, http.MethodPost, "/orders", waiter, map[string]any{
		"tableNumber": "1",
		"items":       []map[string]any{{"name": "x", "unitPrice": "10", "quantity": 1}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d", w.Code)
	}
	orderID := out["order"].(map[string]any)["id"].(string)

	w, out = doJSON(t, h, http.MethodPut, "/orders/"+orderID, waiter, map[string]any{"status": "served"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d %s", w.Code, w.Body.String())
	}
	if out["error"] != "invalid_transition" {
		t.Fatalf("error code: got %v", out["error"])
	}
}

func TestAdminOnlyEndpoints(t *testing.T) {
	h := newTestServer(t)
	waiter := login(t, h, "mesero@sirest.local", "mesero123")
	admin := login(t, h, "admin@sirest.local", "admin123")

	w, _ := doJSON(t, h, http.MethodGet, "/users", waiter, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("waiter /users: expected 403 got %d", w.Code)
	}
	w, _ = doJSON(t, h, http.MethodGet, "/users", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin /users: got %d %s", w.Code, w.Body.String())
	}

	w, _ = doJSON(t, h, http.MethodPost, "/products", waiter, map[string]any{"name": "New", "price": "10"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("waiter create product: expected 403 got %d", w.Code)
	}

	w, out := doJSON(t, h, http.MethodPut, "/configuration", admin, map[string]any{
		"restaurantName": "SiRest Centro",
		"taxRate":        "0.19",
		"serviceRate":    "0.10",
		"currency":       "COP",
		"timezone":       "UTC",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("put configuration: got %d %s", w.Code, w.Body.String())
	}
	cfg := out["configuration"].(map[string]any)
	if cfg["restaurantName"] != "SiRest Centro" {
		t.Fatalf("configuration name: got %v", cfg["restaurantName"])
	}
}

func TestSignupAndSession(t *testing.T) {
	h := newTestServer(t)

	w, out := doJSON(t, h, http.MethodPost, "/auth/signup", "", map[string]any{
		"email": "nuevo@sirest.local", "password": "secret1", "name": "Nuevo Cliente",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: got %d %s", w.Code, w.Body.String())
	}
	token := out["token"].(string)

	w, out = doJSON(t, h, http.MethodGet, "/auth/session", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("session: got %d %s", w.Code, w.Body.String())
	}
	user := out["user"].(map[string]any)
	if user["role"] != "customer" {
		t.Fatalf("self-serve signup must be customer, got %v", user["role"])
	}

	// A customer cannot create a staff account.
	w, _ = doJSON(t, h, http.MethodPost, "/auth/signup", token, map[string]any{
		"email": "evil@sirest.local", "password": "secret1", "name": "Evil", "role": "admin",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("staff signup by customer: expected 403 got %d", w.Code)
	}
}
