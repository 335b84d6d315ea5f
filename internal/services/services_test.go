package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/models"
)

type testEnv struct {
	kv       *kvstore.Store
	repos    *Repos
	settings *Settings
	alerts   *AlertService
	orders   *OrderService
	payments *PaymentService
	closings *ClosingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&kvstore.Entry{}))

	// Shared-cache sqlite returns busy errors under concurrent writers; a
	// single connection keeps the concurrency tests on our CAS path.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	log := logrus.New()
	log.SetOutput(io.Discard)

	kv := kvstore.New(db)
	repos := NewRepos(kv)
	settings := NewSettings(kv, models.Configuration{
		TaxRate:     decimal.RequireFromString("0.19"),
		ServiceRate: decimal.RequireFromString("0.10"),
		Timezone:    "America/Bogota",
	})
	alerts := NewAlertService(repos, nil, log)
	return &testEnv{
		kv:       kv,
		repos:    repos,
		settings: settings,
		alerts:   alerts,
		orders:   NewOrderService(repos, alerts, log),
		payments: NewPaymentService(repos, settings, log),
		closings: NewClosingService(repos, time.UTC),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// createOrderAt creates an order and walks it to the wanted status.
func (e *testEnv) createOrderAt(t *testing.T, status models.OrderStatus, items ...models.OrderItem) *models.Order {
	t.Helper()
	ctx := context.Background()
	if len(items) == 0 {
		items = []models.OrderItem{{ProductID: "p1", Name: "Bandeja Paisa", UnitPrice: dec("28000"), Quantity: 1}}
	}
	order, err := e.orders.Create(ctx, CreateOrderInput{TableNumber: "5", Waiter: "Carlos", Items: items}, "waiter-1")
	require.NoError(t, err)

	path := []models.OrderStatus{models.OrderPreparing, models.OrderReady, models.OrderServed}
	for _, st := range path {
		if order.Status == status {
			break
		}
		order, err = e.orders.UpdateStatus(context.Background(), order.ID, st, "cook-1")
		require.NoError(t, err)
	}
	require.Equal(t, status, order.Status)
	return order
}
