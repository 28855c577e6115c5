//go:build integration

package app_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/linemk/basket-shop/internal/app"
	"github.com/linemk/basket-shop/internal/lib/metrics"
)

// setupPostgres поднимает PostgreSQL в контейнере и накатывает миграции
func setupPostgres(ctx context.Context, t *testing.T) *sql.DB {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shop"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New(migrationsPath(), connStr)
	require.NoError(t, err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to run migrations: %v", err)
	}
	_, _ = m.Close()

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx))

	return db
}

func migrationsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	// internal/app -> корень проекта
	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	return "file://" + filepath.Join(projectRoot, "migrations")
}

func newTestServer(t *testing.T, db *sql.DB) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	m := metrics.New()
	srv := httptest.NewServer(app.NewRouter(log, app.NewServices(log, db, m), m))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type orderDetails struct {
	OrderID int64            `json:"orderId"`
	Items   []map[string]any `json:"items"`
	Total   float64          `json:"total"`
	Status  string           `json:"status"`
}

// сценарий: корзина -> оформление -> оплата
func TestBasketCheckoutPaymentFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := setupPostgres(ctx, t)
	srv := newTestServer(t, db)
	api := srv.URL + "/api"

	var products []map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, api+"/products", nil, &products))
	assert.Len(t, products, 5)

	for _, line := range []map[string]any{
		{"userId": 42, "productId": 1, "quantity": 1},
		{"userId": 42, "productId": 3, "quantity": 2},
	} {
		require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, api+"/basket", line, nil))
	}

	var basket struct {
		Items []map[string]any `json:"items"`
		Total float64          `json:"total"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, api+"/basket/42", nil, &basket))
	assert.Len(t, basket.Items, 2)
	assert.Equal(t, 1399.97, basket.Total)

	checkout := map[string]any{
		"userId":      42,
		"name":        "Ann",
		"email":       "ann@example.com",
		"address":     "Main st. 1",
		"totalAmount": 1399.97,
		"items": []map[string]any{
			{"product_id": 1, "quantity": 1, "price": 999.99},
			{"product_id": 3, "quantity": 2, "price": 199.99},
		},
	}
	var created struct {
		Message string `json:"message"`
		OrderID int64  `json:"orderId"`
	}
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, api+"/checkout", checkout, &created))
	require.NotZero(t, created.OrderID)

	orderURL := fmt.Sprintf("%s/orders/%d", api, created.OrderID)

	var details orderDetails
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, orderURL, nil, &details))
	assert.Equal(t, "pending", details.Status)
	assert.Len(t, details.Items, 2)
	assert.Equal(t, 1399.97, details.Total)

	// оформление не очищает корзину
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, api+"/basket/42", nil, &basket))
	assert.Len(t, basket.Items, 2)

	confirm := map[string]any{"orderId": created.OrderID}
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, api+"/confirm-payment", confirm, nil))

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, orderURL, nil, &details))
	assert.Equal(t, "paid", details.Status)

	var userOrders []map[string]any
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, api+"/orders/user/42", nil, &userOrders))
	assert.Len(t, userOrders, 1)

	require.Equal(t, http.StatusOK, doJSON(t, http.MethodDelete, api+"/basket/42", nil, nil))
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, api+"/basket/42", nil, &basket))
	assert.Empty(t, basket.Items)
	assert.Equal(t, float64(0), basket.Total)
}

// неизвестный товар во второй позиции откатывает весь заказ
func TestCheckoutRollback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := setupPostgres(ctx, t)
	srv := newTestServer(t, db)
	api := srv.URL + "/api"

	checkout := map[string]any{
		"userId":      7,
		"name":        "Bob",
		"email":       "bob@example.com",
		"address":     "Side st. 2",
		"totalAmount": 1000.0,
		"items": []map[string]any{
			{"product_id": 1, "quantity": 1, "price": 999.99},
			{"product_id": 999, "quantity": 1, "price": 0.01},
		},
	}
	var errResp struct {
		Error string `json:"error"`
	}
	require.Equal(t, http.StatusInternalServerError, doJSON(t, http.MethodPost, api+"/checkout", checkout, &errResp))
	assert.Contains(t, errResp.Error, "unknown product")

	var orders, items int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&orders))
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM order_items").Scan(&items))
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderEdgeCases(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := setupPostgres(ctx, t)
	srv := newTestServer(t, db)
	api := srv.URL + "/api"

	// подтверждение несуществующего заказа - не ошибка
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, api+"/confirm-payment", map[string]any{"orderId": 12345}, nil))
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, api+"/confirm-payment", map[string]any{"orderId": 0}, nil))

	var errResp struct {
		Error string `json:"error"`
	}
	require.Equal(t, http.StatusNotFound, doJSON(t, http.MethodGet, api+"/orders/12345", nil, &errResp))
	assert.Equal(t, "Order not found", errResp.Error)

	// заказ без позиций и с нулевой суммой принимается и отдаётся с пустым массивом
	var created struct {
		OrderID int64 `json:"orderId"`
	}
	emptyCheckout := map[string]any{"userId": 1, "totalAmount": 0, "items": []map[string]any{}}
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodPost, api+"/checkout", emptyCheckout, &created))
	require.NotZero(t, created.OrderID)

	var details orderDetails
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d", api, created.OrderID), nil, &details))
	assert.NotNil(t, details.Items)
	assert.Len(t, details.Items, 0)
	assert.Equal(t, "pending", details.Status)

	// очистка пустой корзины идемпотентна
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodDelete, api+"/basket/555", nil, nil))
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodDelete, api+"/basket/555", nil, nil))
}
