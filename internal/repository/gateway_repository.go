package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// GatewayRepository persists admin payment gateway settings.
type GatewayRepository interface {
	List(ctx context.Context) ([]domain.PaymentGateway, error)
	GetByID(ctx context.Context, id string) (*domain.PaymentGateway, error)
	Update(ctx context.Context, gw *domain.PaymentGateway) error
}

type gatewayRepository struct {
	pool *pgxpool.Pool
}

// NewGatewayRepository returns a Postgres-backed implementation.
func NewGatewayRepository(pool *pgxpool.Pool) GatewayRepository {
	return &gatewayRepository{pool: pool}
}

func (r *gatewayRepository) List(ctx context.Context) ([]domain.PaymentGateway, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, logo_url, is_active, config, updated_at FROM payment_gateways ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PaymentGateway
	for rows.Next() {
		gw, err := scanGateway(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *gw)
	}
	return result, rows.Err()
}

func (r *gatewayRepository) GetByID(ctx context.Context, id string) (*domain.PaymentGateway, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, logo_url, is_active, config, updated_at FROM payment_gateways WHERE id=$1`, id)
	return scanGateway(row)
}

// Update stores the gateway. config is a jsonb column encoded by pgx.
func (r *gatewayRepository) Update(ctx context.Context, gw *domain.PaymentGateway) error {
	const query = `
        UPDATE payment_gateways SET is_active=$1, config=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, gw.IsActive, gw.Config, gw.ID).Scan(&gw.UpdatedAt)
}

func scanGateway(row pgx.Row) (*domain.PaymentGateway, error) {
	var gw domain.PaymentGateway
	if err := row.Scan(&gw.ID, &gw.Name, &gw.LogoURL, &gw.IsActive, &gw.Config, &gw.UpdatedAt); err != nil {
		return nil, err
	}
	return &gw, nil
}
