package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// UpdateRequestRepository stores client requests for service updates.
type UpdateRequestRepository interface {
	Create(ctx context.Context, req *domain.UpdateRequest) error
}

type updateRequestRepository struct {
	pool *pgxpool.Pool
}

// NewUpdateRequestRepository returns a Postgres-backed implementation.
func NewUpdateRequestRepository(pool *pgxpool.Pool) UpdateRequestRepository {
	return &updateRequestRepository{pool: pool}
}

func (r *updateRequestRepository) Create(ctx context.Context, req *domain.UpdateRequest) error {
	const query = `
        INSERT INTO service_update_requests (service_id, client_id, update_type, message, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		req.ServiceID,
		req.ClientID,
		req.UpdateType,
		req.Message,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt)
}
