package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globatech/sirest/internal/models"
)

// settle creates an order at the given subtotal and pays it with the given
// method, returning the recorded payment.
func (e *testEnv) settle(t *testing.T, method models.PaymentMethod, unitPrice string) *models.Payment {
	t.Helper()
	order := e.createOrderAt(t, models.OrderServed, models.OrderItem{
		ProductID: "p1", Name: "Plate", UnitPrice: dec(unitPrice), Quantity: 1,
	})
	in := PaymentInput{OrderID: order.ID, Method: method, Tip: decimal.Zero}
	if method == models.PayCash {
		received := dec("1000000")
		in.ReceivedAmount = &received
	}
	payment, err := e.payments.Process(context.Background(), in, "cashier-1")
	require.NoError(t, err)
	return payment
}

func TestSummarizeByMethodConservation(t *testing.T) {
	env := newTestEnv(t)

	p1 := env.settle(t, models.PayCash, "100.00")
	p2 := env.settle(t, models.PayCash, "50.00")
	p3 := env.settle(t, models.PayCard, "80.00")
	p4 := env.settle(t, models.PayTransfer, "20.00")

	byMethod, grand := SummarizeByMethod([]models.Payment{*p1, *p2, *p3, *p4})

	assert.Equal(t, 2, byMethod[models.PayCash].Count)
	assert.Equal(t, 1, byMethod[models.PayCard].Count)
	assert.Equal(t, 1, byMethod[models.PayTransfer].Count)

	sum := decimal.Zero
	for _, s := range byMethod {
		sum = sum.Add(s.Total)
	}
	assert.True(t, grand.Equal(sum), "grand %s vs per-method sum %s", grand, sum)

	expected := p1.Total.Add(p2.Total).Add(p3.Total).Add(p4.Total)
	assert.True(t, grand.Equal(expected))
}

func TestGenerateClosingShortfall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Three cash payments of 100.00 each at zero rates would be 300.00; with
	// the configured 19% + 10% each settles at 129.00, so expected cash is
	// 387.00. Assert the signed difference against a count 5.00 short.
	for i := 0; i < 3; i++ {
		env.settle(t, models.PayCash, "100.00")
	}
	env.settle(t, models.PayCard, "40.00")

	closing, err := env.closings.GenerateClosing(ctx, dec("382.00"), "drawer light", time.Now(), "admin-1")
	require.NoError(t, err)

	assert.True(t, dec("387.00").Equal(closing.ExpectedCash), "expected cash %s", closing.ExpectedCash)
	assert.True(t, dec("-5.00").Equal(closing.Difference), "difference %s", closing.Difference)
	assert.True(t, dec("382.00").Equal(closing.CashCountEntered))
	assert.True(t, closing.TotalCash.Equal(closing.ExpectedCash))
	assert.True(t, dec("51.60").Equal(closing.TotalCard), "card %s", closing.TotalCard)
	assert.Equal(t, 4, closing.TotalTransactions)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), closing.Date)
	assert.Equal(t, "admin-1", closing.ClosedBy)
}

func TestGenerateClosingOverage(t *testing.T) {
	env := newTestEnv(t)
	env.settle(t, models.PayCash, "100.00")

	closing, err := env.closings.GenerateClosing(context.Background(), dec("130.00"), "", time.Now(), "admin-1")
	require.NoError(t, err)
	assert.True(t, dec("1.00").Equal(closing.Difference), "difference %s", closing.Difference)
}

func TestGenerateClosingEmptyDay(t *testing.T) {
	env := newTestEnv(t)

	closing, err := env.closings.GenerateClosing(context.Background(), dec("0"), "", time.Now(), "admin-1")
	require.NoError(t, err)
	assert.True(t, closing.ExpectedCash.IsZero())
	assert.True(t, closing.Difference.IsZero())
	assert.Equal(t, 0, closing.TotalTransactions)
}

func TestClosingIsFrozenSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.settle(t, models.PayCash, "100.00")
	first, err := env.closings.GenerateClosing(ctx, dec("129.00"), "", time.Now(), "admin-1")
	require.NoError(t, err)

	// A later payment on the same day must not rewrite the stored report.
	env.settle(t, models.PayCash, "100.00")

	closings, err := env.closings.List(ctx)
	require.NoError(t, err)
	require.Len(t, closings, 1)
	assert.True(t, closings[0].ExpectedCash.Equal(first.ExpectedCash))
	assert.Equal(t, 1, closings[0].TotalTransactions)

	second, err := env.closings.GenerateClosing(ctx, dec("258.00"), "", time.Now(), "admin-1")
	require.NoError(t, err)
	assert.True(t, dec("258.00").Equal(second.ExpectedCash))
	assert.Equal(t, 2, second.TotalTransactions)
}

func TestDailyPaymentsFiltersByLocalDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.settle(t, models.PayCash, "100.00")

	today, err := env.closings.DailyPayments(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, today, 1)

	yesterday, err := env.closings.DailyPayments(ctx, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, yesterday)
}

func TestSameLocalDayAcrossTimezones(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	// 03:00 UTC is 22:00 the previous day in Bogota (UTC-5).
	utc3am := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	sameDayUTC := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, sameLocalDay(utc3am, sameDayUTC, time.UTC))
	assert.False(t, sameLocalDay(utc3am, sameDayUTC, bogota))
}
