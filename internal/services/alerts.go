package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/globatech/sirest/internal/entity"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/notify"
)

// AlertService owns the notification side-channel. Emission is best-effort
// by contract: a failed alert write must never fail the order write that
// triggered it, so callers log the returned error and move on.
type AlertService struct {
	alerts   *entity.Repo[models.Alert]
	notifier notify.Notifier
	log      *logrus.Entry
}

func NewAlertService(repos *Repos, notifier notify.Notifier, log *logrus.Logger) *AlertService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AlertService{
		alerts:   repos.Alerts,
		notifier: notifier,
		log:      log.WithField("component", "alerts"),
	}
}

// Emit persists an alert and publishes it to the broker. The broker publish
// is itself best-effort even when the persist succeeded.
func (s *AlertService) Emit(ctx context.Context, typ models.AlertType, message, orderID string) error {
	alert := models.Alert{Type: typ, Message: message, OrderID: orderID, Read: false}
	if err := s.alerts.Create(ctx, &alert, ""); err != nil {
		return err
	}
	if err := s.notifier.Publish(ctx, notify.Event{
		Type:    string(typ),
		Message: message,
		OrderID: orderID,
		SentAt:  time.Now().UTC(),
	}); err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("alert publish failed")
	}
	return nil
}

// Unread returns the alerts not yet acknowledged.
func (s *AlertService) Unread(ctx context.Context) ([]models.Alert, error) {
	all, err := s.alerts.List(ctx)
	if err != nil {
		return nil, err
	}
	unread := make([]models.Alert, 0, len(all))
	for _, a := range all {
		if !a.Read {
			unread = append(unread, a)
		}
	}
	return unread, nil
}

// MarkRead acknowledges one alert. This is the only mutation alerts support.
func (s *AlertService) MarkRead(ctx context.Context, id, by string) error {
	_, err := s.alerts.Update(ctx, id, by, func(a *models.Alert) error {
		a.Read = true
		return nil
	})
	return err
}
