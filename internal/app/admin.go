/**
 * @description
 * This file contains the business logic for the admin dashboard: the
 * aggregated stats payload and the typed data export.
 *
 * @dependencies
 * - context, fmt: Standard Go libraries.
 * - internal/domain, internal/store: Domain models and data access.
 */

package app

import (
	"context"
	"fmt"
	"math"

	"github.com/choiceproperties/marketplace-service/internal/domain"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

const revenueTrendDays = 7

// AdminService provides the read-only aggregates behind the admin dashboard.
type AdminService struct {
	repo store.Repository
}

// NewAdminService creates a new admin service instance.
func NewAdminService(repo store.Repository) *AdminService {
	return &AdminService{repo: repo}
}

// DashboardStats assembles the aggregate dashboard payload: totals, the
// payment success rate as a whole percentage, the applications-by-status
// breakdown, and the seven-day completed-revenue trend.
func (s *AdminService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	totalApps, err := s.repo.CountApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	totalPayments, err := s.repo.CountPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}
	completedPayments, err := s.repo.CountPaymentsByStatus(ctx, domain.PaymentStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed payments: %w", err)
	}
	revenueCents, err := s.repo.SumCompletedPaymentCents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	subscribers, err := s.repo.CountActiveSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}
	byStatus, err := s.repo.GroupApplicationsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group applications: %w", err)
	}
	trend, err := s.repo.CompletedRevenueTrend(ctx, revenueTrendDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue trend: %w", err)
	}

	// Success rate only counts finalized attempts; zero payments reads as 0%.
	successRate := 0
	if totalPayments > 0 {
		successRate = int(math.Round(float64(completedPayments) / float64(totalPayments) * 100))
	}
	if byStatus == nil {
		byStatus = []domain.StatusCount{}
	}
	if trend == nil {
		trend = []domain.RevenuePoint{}
	}

	return &domain.DashboardStats{
		TotalApplications:    totalApps,
		TotalRevenue:         float64(revenueCents) / 100,
		TotalSubscribers:     subscribers,
		SuccessRate:          successRate,
		ApplicationsByStatus: byStatus,
		RevenueTrend:         trend,
	}, nil
}

// Export returns the full dataset for one export type. Supported types are
// `applications`, `payments` and `subscribers`; anything else is a
// validation error.
func (s *AdminService) Export(ctx context.Context, exportType string) (interface{}, error) {
	switch exportType {
	case "applications":
		items, err := s.repo.FindAllApplications(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Application{}
		}
		return items, nil
	case "payments":
		items, err := s.repo.FindAllPayments(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Payment{}
		}
		return items, nil
	case "subscribers":
		items, err := s.repo.FindAllSubscribers(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []domain.Subscriber{}
		}
		return items, nil
	default:
		return nil, &ValidationError{Errors: []string{"Unknown export type: " + exportType}}
	}
}
