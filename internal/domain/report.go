package domain

import "time"

// DashboardOverview aggregates admin counters.
type DashboardOverview struct {
	TotalClients       int64
	TotalServices      int64
	PendingServices    int64
	InProgressServices int64
	CompletedServices  int64
	TotalRevenue       float64
}

// MonthlyRevenue is revenue from paid services within a calendar month.
type MonthlyRevenue struct {
	Month         time.Time
	Revenue       float64
	ServicesCount int64
}
