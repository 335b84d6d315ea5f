package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/globatech/sirest/internal/entity"
	"github.com/globatech/sirest/internal/errs"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/money"
)

// ComputeTotals is the canonical amount formula. Tax and service charge
// apply to the subtotal only (service and tip are not taxed); each component
// is rounded half-up to 2 decimals and the total is the sum of the rounded
// components. Flat "total with tax" multipliers seen on receipts are display
// approximations, never the source of truth.
func ComputeTotals(order *models.Order, tip, taxRate, serviceRate decimal.Decimal) models.Totals {
	subtotal := money.Round2(order.Subtotal)
	tax := money.Part(subtotal, taxRate)
	service := money.Part(subtotal, serviceRate)
	tip = money.Round2(tip)
	return models.Totals{
		Subtotal:      subtotal,
		Tax:           tax,
		ServiceCharge: service,
		Tip:           tip,
		Total:         subtotal.Add(tax).Add(service).Add(tip),
	}
}

type PaymentInput struct {
	OrderID        string               `json:"orderId"`
	Method         models.PaymentMethod `json:"paymentMethod"`
	Tip            decimal.Decimal      `json:"tip"`
	ReceivedAmount *decimal.Decimal     `json:"receivedAmount"`
	Notes          string               `json:"notes"`
}

type PaymentService struct {
	orders   *entity.Repo[models.Order]
	payments *entity.Repo[models.Payment]
	settings *Settings
	log      *logrus.Entry
}

func NewPaymentService(repos *Repos, settings *Settings, log *logrus.Logger) *PaymentService {
	return &PaymentService{
		orders:   repos.Orders,
		payments: repos.Payments,
		settings: settings,
		log:      log.WithField("component", "payments"),
	}
}

// Process settles one order. Amounts are recomputed server-side from the
// order and the configured rates; only the tip is taken from the caller.
//
// The order is claimed first with a conditional write (status → paid). Under
// two concurrent calls exactly one claim wins; the loser gets ErrConflict if
// it raced the write, or ErrAlreadyPaid if it read after the winner. The
// payment append happens after the claim, so a duplicate charge is
// impossible; the inverse partial state (paid order, failed payment write)
// is logged for operator reconciliation and surfaced as a StorageError.
func (s *PaymentService) Process(ctx context.Context, in PaymentInput, by string) (*models.Payment, error) {
	if in.OrderID == "" {
		return nil, errs.Invalid("orderId", "required")
	}
	if !in.Method.Valid() {
		return nil, errs.Invalid("paymentMethod", "unknown")
	}
	if in.Tip.IsNegative() {
		return nil, errs.Invalid("tip", "must_not_be_negative")
	}

	order, ver, err := s.orders.Get(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderPaid {
		return nil, errs.ErrAlreadyPaid
	}
	if order.Status != models.OrderReady && order.Status != models.OrderServed {
		return nil, &errs.InvalidTransitionError{From: string(order.Status), To: string(models.OrderPaid)}
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	totals := ComputeTotals(order, in.Tip, cfg.TaxRate, cfg.ServiceRate)

	received := totals.Total
	change := decimal.Zero
	if in.Method == models.PayCash {
		if in.ReceivedAmount == nil {
			return nil, errs.Invalid("receivedAmount", "required_for_cash")
		}
		received = money.Round2(*in.ReceivedAmount)
		if received.LessThan(totals.Total) {
			return nil, errs.Invalid("receivedAmount", "insufficient")
		}
		change = money.Max(decimal.Zero, received.Sub(totals.Total))
	}

	// Claim the order. Losing the race yields ErrConflict.
	now := time.Now().UTC()
	order.Status = models.OrderPaid
	order.PaidAt = &now
	if err := s.orders.UpdateCAS(ctx, in.OrderID, by, order, ver); err != nil {
		return nil, err
	}

	payment := models.Payment{
		OrderID:        in.OrderID,
		TableNumber:    order.TableNumber,
		Method:         in.Method,
		Totals:         totals,
		ReceivedAmount: received,
		Change:         change,
		Status:         "completed",
		Notes:          in.Notes,
	}
	if err := s.payments.Create(ctx, &payment, by); err != nil {
		s.log.WithError(err).WithField("order_id", in.OrderID).
			Error("order marked paid but payment write failed; needs reconciliation")
		return nil, err
	}
	return &payment, nil
}

// List returns all recorded payments, unfiltered; callers narrow by date or
// method.
func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) {
	return s.payments.List(ctx)
}
