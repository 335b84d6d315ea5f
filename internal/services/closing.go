package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/globatech/sirest/internal/entity"
	"github.com/globatech/sirest/internal/models"
)

// ClosingService produces end-of-shift cash reconciliation reports. Day
// boundaries follow the business's local timezone, not UTC: payments at
// 23:50 and 00:10 local belong to different closings.
type ClosingService struct {
	payments *entity.Repo[models.Payment]
	closings *entity.Repo[models.CashClosing]
	loc      *time.Location
}

func NewClosingService(repos *Repos, loc *time.Location) *ClosingService {
	if loc == nil {
		loc = time.Local
	}
	return &ClosingService{payments: repos.Payments, closings: repos.Closings, loc: loc}
}

func sameLocalDay(t, day time.Time, loc *time.Location) bool {
	ty, tm, td := t.In(loc).Date()
	dy, dm, dd := day.In(loc).Date()
	return ty == dy && tm == dm && td == dd
}

// DailyPayments returns all payments recorded on the given calendar day in
// the business timezone. The store scan returns records in key order but the
// filter does not rely on it.
func (s *ClosingService) DailyPayments(ctx context.Context, day time.Time) ([]models.Payment, error) {
	all, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Payment, 0, len(all))
	for _, p := range all {
		if sameLocalDay(p.CreatedAt, day, s.loc) {
			out = append(out, p)
		}
	}
	return out, nil
}

// SummarizeByMethod groups payments by method. The grand total is the sum of
// the per-method sums; there is no other path into it, so conservation holds
// by construction and is still asserted in tests.
func SummarizeByMethod(payments []models.Payment) (map[models.PaymentMethod]models.MethodSummary, decimal.Decimal) {
	byMethod := make(map[models.PaymentMethod]models.MethodSummary)
	grand := decimal.Zero
	for _, p := range payments {
		sum := byMethod[p.Method]
		sum.Count++
		sum.Total = sum.Total.Add(p.Total)
		byMethod[p.Method] = sum
	}
	for _, sum := range byMethod {
		grand = grand.Add(sum.Total)
	}
	return byMethod, grand
}

// GenerateClosing snapshots the day's recorded payments against a manual
// cash count. The difference keeps its sign: negative is a shortfall,
// positive an overage. Closings are frozen at generation time; payments
// backdated into the day later never rewrite an existing report.
func (s *ClosingService) GenerateClosing(ctx context.Context, cashCount decimal.Decimal, notes string, day time.Time, by string) (*models.CashClosing, error) {
	payments, err := s.DailyPayments(ctx, day)
	if err != nil {
		return nil, err
	}

	byMethod, totalSales := SummarizeByMethod(payments)
	expectedCash := byMethod[models.PayCash].Total

	closing := models.CashClosing{
		Date:              day.In(s.loc).Format("2006-01-02"),
		CashCountEntered:  cashCount,
		ExpectedCash:      expectedCash,
		Difference:        cashCount.Sub(expectedCash),
		TotalSales:        totalSales,
		TotalCash:         expectedCash,
		TotalCard:         byMethod[models.PayCard].Total,
		TotalTransactions: len(payments),
		Notes:             notes,
		ClosedBy:          by,
	}
	if err := s.closings.Create(ctx, &closing, by); err != nil {
		return nil, err
	}
	return &closing, nil
}

// List returns every persisted closing report.
func (s *ClosingService) List(ctx context.Context) ([]models.CashClosing, error) {
	return s.closings.List(ctx)
}
