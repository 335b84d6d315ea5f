package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globatech/sirest/internal/models"
)

func TestSettingsFallsBackToDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	exists, err := env.settings.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	cfg, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, dec("0.19").Equal(cfg.TaxRate))
	assert.True(t, dec("0.10").Equal(cfg.ServiceRate))
	assert.Equal(t, "America/Bogota", cfg.Timezone)
}

func TestSettingsPutOverridesDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	saved, err := env.settings.Put(ctx, models.Configuration{
		RestaurantName: "La Cocina",
		TaxRate:        dec("0.08"),
		ServiceRate:    dec("0.00"),
		Currency:       "USD",
		Timezone:       "America/New_York",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", saved.UpdatedBy)

	exists, err := env.settings.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "La Cocina", got.RestaurantName)
	assert.True(t, dec("0.08").Equal(got.TaxRate))
	assert.Equal(t, ConfigurationKey, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPaymentUsesConfiguredRates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cfg, err := env.settings.Get(ctx)
	require.NoError(t, err)
	cfg.TaxRate = dec("0.05")
	cfg.ServiceRate = dec("0.00")
	_, err = env.settings.Put(ctx, cfg, "admin-1")
	require.NoError(t, err)

	order := env.createOrderAt(t, models.OrderServed, models.OrderItem{
		ProductID: "p1", Name: "Plate", UnitPrice: dec("100.00"), Quantity: 1,
	})
	payment, err := env.payments.Process(ctx, PaymentInput{OrderID: order.ID, Method: models.PayCard}, "cashier-1")
	require.NoError(t, err)
	assert.True(t, dec("105.00").Equal(payment.Total), "total %s", payment.Total)
}
