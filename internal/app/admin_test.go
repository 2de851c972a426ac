package app

import (
	"context"
	"errors"
	"testing"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

// adminStubRepo serves the aggregate queries behind the dashboard.
type adminStubRepo struct {
	store.Repository

	applications      int64
	payments          int64
	completedPayments int64
	revenueCents      int64
	subscribers       int64
	byStatus          []domain.StatusCount
	trend             []domain.RevenuePoint

	allApplications []domain.Application
	allPayments     []domain.Payment
	allSubscribers  []domain.Subscriber
}

func (s *adminStubRepo) CountApplications(_ context.Context) (int64, error) { return s.applications, nil }
func (s *adminStubRepo) CountPayments(_ context.Context) (int64, error)     { return s.payments, nil }
func (s *adminStubRepo) CountPaymentsByStatus(_ context.Context, _ string) (int64, error) {
	return s.completedPayments, nil
}
func (s *adminStubRepo) SumCompletedPaymentCents(_ context.Context) (int64, error) {
	return s.revenueCents, nil
}
func (s *adminStubRepo) CountActiveSubscribers(_ context.Context) (int64, error) {
	return s.subscribers, nil
}
func (s *adminStubRepo) GroupApplicationsByStatus(_ context.Context) ([]domain.StatusCount, error) {
	return s.byStatus, nil
}
func (s *adminStubRepo) CompletedRevenueTrend(_ context.Context, _ int) ([]domain.RevenuePoint, error) {
	return s.trend, nil
}
func (s *adminStubRepo) FindAllApplications(_ context.Context) ([]domain.Application, error) {
	return s.allApplications, nil
}
func (s *adminStubRepo) FindAllPayments(_ context.Context) ([]domain.Payment, error) {
	return s.allPayments, nil
}
func (s *adminStubRepo) FindAllSubscribers(_ context.Context) ([]domain.Subscriber, error) {
	return s.allSubscribers, nil
}

func TestDashboardStats_AssemblesAggregates(t *testing.T) {
	repo := &adminStubRepo{
		applications:      42,
		payments:          20,
		completedPayments: 17,
		revenueCents:      2125000,
		subscribers:       310,
		byStatus: []domain.StatusCount{
			{Status: "submitted", Count: 30},
			{Status: "approved", Count: 12},
		},
		trend: []domain.RevenuePoint{{Date: "2026-08-31", Revenue: 1250.00}},
	}
	svc := NewAdminService(repo)

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats returned error: %v", err)
	}
	if stats.TotalApplications != 42 {
		t.Fatalf("expected 42 applications, got %d", stats.TotalApplications)
	}
	if stats.TotalRevenue != 21250.00 {
		t.Fatalf("expected $21250.00 revenue, got %v", stats.TotalRevenue)
	}
	if stats.TotalSubscribers != 310 {
		t.Fatalf("expected 310 subscribers, got %d", stats.TotalSubscribers)
	}
	// 17/20 = 85%
	if stats.SuccessRate != 85 {
		t.Fatalf("expected success rate 85, got %d", stats.SuccessRate)
	}
	if len(stats.ApplicationsByStatus) != 2 {
		t.Fatalf("expected status breakdown, got %v", stats.ApplicationsByStatus)
	}
}

func TestDashboardStats_ZeroPaymentsReadsAsZeroRate(t *testing.T) {
	svc := NewAdminService(&adminStubRepo{})

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats returned error: %v", err)
	}
	if stats.SuccessRate != 0 {
		t.Fatalf("expected 0%% with no payments, got %d", stats.SuccessRate)
	}
	if stats.ApplicationsByStatus == nil || stats.RevenueTrend == nil {
		t.Fatal("empty aggregates must serialize as [], not null")
	}
}

func TestExport_TypedDatasets(t *testing.T) {
	repo := &adminStubRepo{
		allApplications: []domain.Application{{ApplicationID: "APP-1"}},
		allPayments:     []domain.Payment{{TransactionID: "TXN-1"}},
		allSubscribers:  []domain.Subscriber{{Email: "a@b.com"}},
	}
	svc := NewAdminService(repo)

	for _, exportType := range []string{"applications", "payments", "subscribers"} {
		data, err := svc.Export(context.Background(), exportType)
		if err != nil {
			t.Fatalf("Export(%q) returned error: %v", exportType, err)
		}
		if data == nil {
			t.Fatalf("Export(%q) returned nil data", exportType)
		}
	}
}

func TestExport_UnknownTypeIsValidationError(t *testing.T) {
	svc := NewAdminService(&adminStubRepo{})

	_, err := svc.Export(context.Background(), "users")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
