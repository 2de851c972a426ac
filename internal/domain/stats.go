/**
 * @description
 * Read-only aggregate models for the admin dashboard.
 */

package domain

// StatusCount is one bucket of the applications-by-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// RevenuePoint is one day of completed-payment revenue, in dollars.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// DashboardStats aggregates counts and sums over applications, payments and
// subscribers for the admin dashboard.
type DashboardStats struct {
	TotalApplications    int64          `json:"totalApplications"`
	TotalRevenue         float64        `json:"totalRevenue"`
	TotalSubscribers     int64          `json:"totalSubscribers"`
	SuccessRate          int            `json:"successRate"`
	ApplicationsByStatus []StatusCount  `json:"applicationsByStatus"`
	RevenueTrend         []RevenuePoint `json:"revenueTrend"`
}
