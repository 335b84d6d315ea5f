package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/globatech/sirest/internal/entity"
	"github.com/globatech/sirest/internal/errs"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/money"
)

// forward is the one-step lifecycle sequence. Cancellation is reachable from
// any non-terminal state and is handled separately in CanTransition.
var forward = map[models.OrderStatus]models.OrderStatus{
	models.OrderPending:   models.OrderPreparing,
	models.OrderPreparing: models.OrderReady,
	models.OrderReady:     models.OrderServed,
	models.OrderServed:    models.OrderPaid,
}

// CanTransition reports whether from→to is legal: same-state no-op, one step
// forward, or cancellation of a non-terminal order.
func CanTransition(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	if to == models.OrderCancelled {
		return !from.Terminal()
	}
	return forward[from] == to
}

// Subtotal recomputes an order's subtotal from its items.
func Subtotal(items []models.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return money.Round2(sum)
}

type CreateOrderInput struct {
	TableNumber string             `json:"tableNumber"`
	Waiter      string             `json:"waiter"`
	Items       []models.OrderItem `json:"items"`
	Notes       string             `json:"notes"`
}

// OrderUpdate carries a partial order update. Nil fields are left untouched;
// a status change goes through the transition check.
type OrderUpdate struct {
	Status      *models.OrderStatus `json:"status"`
	TableNumber *string             `json:"tableNumber"`
	Waiter      *string             `json:"waiter"`
	Items       *[]models.OrderItem `json:"items"`
	Notes       *string             `json:"notes"`
}

type OrderService struct {
	orders *entity.Repo[models.Order]
	alerts *AlertService
	log    *logrus.Entry
}

func NewOrderService(repos *Repos, alerts *AlertService, log *logrus.Logger) *OrderService {
	return &OrderService{orders: repos.Orders, alerts: alerts, log: log.WithField("component", "orders")}
}

func validateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return errs.Invalid("items", "required")
	}
	for i, it := range items {
		if it.Quantity <= 0 {
			return errs.Invalid(fmt.Sprintf("items[%d].quantity", i), "must_be_positive")
		}
		if it.UnitPrice.IsNegative() {
			return errs.Invalid(fmt.Sprintf("items[%d].unitPrice", i), "must_not_be_negative")
		}
	}
	return nil
}

// Create validates the items, derives the subtotal, persists the order as
// pending and emits a new_order alert.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput, by string) (*models.Order, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	order := models.Order{
		TableNumber: in.TableNumber,
		Waiter:      in.Waiter,
		Items:       in.Items,
		Subtotal:    Subtotal(in.Items),
		Status:      models.OrderPending,
		Notes:       in.Notes,
	}
	if err := s.orders.Create(ctx, &order, by); err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("New order for table %s", order.TableNumber)
	if err := s.alerts.Emit(ctx, models.AlertNewOrder, msg, order.ID); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("alert emission failed")
	}
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, _, err := s.orders.Get(ctx, id)
	return order, err
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

// ListReadyForSettlement returns the orders a cashier may settle.
func (s *OrderService) ListReadyForSettlement(ctx context.Context) ([]models.Order, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if o.Status == models.OrderReady || o.Status == models.OrderServed {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateStatus applies a single lifecycle transition.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, to models.OrderStatus, by string) (*models.Order, error) {
	return s.Update(ctx, id, OrderUpdate{Status: &to}, by)
}

// Update applies a partial update. Items changes recompute the subtotal so
// the stored value stays derivable; status changes are transition-checked
// and emit the order_ready alert when the order reaches ready.
func (s *OrderService) Update(ctx context.Context, id string, upd OrderUpdate, by string) (*models.Order, error) {
	becameReady := false
	order, err := s.orders.Update(ctx, id, by, func(cur *models.Order) error {
		if upd.Status != nil {
			to := *upd.Status
			if !to.Valid() {
				return errs.Invalid("status", "unknown")
			}
			if to == models.OrderPaid && cur.Status != models.OrderPaid {
				// Settlement owns this transition; see PaymentService.
				return &errs.InvalidTransitionError{From: string(cur.Status), To: string(to)}
			}
			if !CanTransition(cur.Status, to) {
				return &errs.InvalidTransitionError{From: string(cur.Status), To: string(to)}
			}
			becameReady = to == models.OrderReady && cur.Status != models.OrderReady
			cur.Status = to
		}
		if upd.TableNumber != nil {
			cur.TableNumber = *upd.TableNumber
		}
		if upd.Waiter != nil {
			cur.Waiter = *upd.Waiter
		}
		if upd.Notes != nil {
			cur.Notes = *upd.Notes
		}
		if upd.Items != nil {
			if err := validateItems(*upd.Items); err != nil {
				return err
			}
			cur.Items = *upd.Items
			cur.Subtotal = Subtotal(cur.Items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if becameReady {
		msg := fmt.Sprintf("Order ready for table %s", order.TableNumber)
		if err := s.alerts.Emit(ctx, models.AlertOrderReady, msg, order.ID); err != nil {
			s.log.WithError(err).WithField("order_id", order.ID).Warn("alert emission failed")
		}
	}
	return order, nil
}
