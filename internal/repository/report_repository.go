package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// ReportRepository computes admin dashboard aggregates.
type ReportRepository interface {
	Overview(ctx context.Context) (*domain.DashboardOverview, error)
	MonthlyRevenue(ctx context.Context, months int) ([]domain.MonthlyRevenue, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a Postgres-backed implementation.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Overview(ctx context.Context) (*domain.DashboardOverview, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM users WHERE role = 'CLIENT'),
            (SELECT COUNT(*) FROM client_services),
            (SELECT COUNT(*) FROM client_services WHERE status = 'PENDING'),
            (SELECT COUNT(*) FROM client_services WHERE status = 'IN_PROGRESS'),
            (SELECT COUNT(*) FROM client_services WHERE status = 'COMPLETED'),
            (SELECT COALESCE(SUM(price), 0)::float8 FROM client_services WHERE payment_status = 'PAID')`

	var o domain.DashboardOverview
	if err := r.pool.QueryRow(ctx, query).Scan(
		&o.TotalClients,
		&o.TotalServices,
		&o.PendingServices,
		&o.InProgressServices,
		&o.CompletedServices,
		&o.TotalRevenue,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *reportRepository) MonthlyRevenue(ctx context.Context, months int) ([]domain.MonthlyRevenue, error) {
	const query = `
        SELECT DATE_TRUNC('month', created_at) AS month, SUM(price)::float8, COUNT(*)
        FROM client_services
        WHERE payment_status = 'PAID'
          AND created_at >= NOW() - make_interval(months => $1)
        GROUP BY DATE_TRUNC('month', created_at)
        ORDER BY month DESC`

	rows, err := r.pool.Query(ctx, query, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MonthlyRevenue
	for rows.Next() {
		var m domain.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.Revenue, &m.ServicesCount); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
