package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// ClientServiceFilter captures admin search parameters.
type ClientServiceFilter struct {
	ClientID *string
	Status   *domain.EngagementStatus
	Limit    int
	Offset   int
}

// ClientServiceRepository encapsulates hired service persistence.
type ClientServiceRepository interface {
	Create(ctx context.Context, svc *domain.ClientService) error
	GetForClient(ctx context.Context, id, clientID string) (*domain.ClientService, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.ClientService, error)
	List(ctx context.Context, filter ClientServiceFilter) ([]domain.ClientService, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.EngagementStatus, notes *string) (*domain.ClientService, error)
}

type clientServiceRepository struct {
	pool *pgxpool.Pool
}

// NewClientServiceRepository instantiates repository.
func NewClientServiceRepository(pool *pgxpool.Pool) ClientServiceRepository {
	return &clientServiceRepository{pool: pool}
}

const clientServiceSelect = `
        SELECT cs.id, cs.client_id, cs.offering_id, cs.name, cs.service_type, cs.status, cs.price,
               cs.payment_status, cs.notes, cs.optimized_cv_text, cs.created_at, cs.updated_at,
               cs.estimated_delivery_date, u.full_name, u.email
        FROM client_services cs
        JOIN users u ON cs.client_id = u.id`

func (r *clientServiceRepository) Create(ctx context.Context, svc *domain.ClientService) error {
	const query = `
        INSERT INTO client_services (client_id, offering_id, name, service_type, status, price, payment_status,
            notes, optimized_cv_text, estimated_delivery_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		svc.ClientID,
		svc.OfferingID,
		svc.Name,
		svc.ServiceType,
		svc.Status,
		svc.Price,
		svc.PaymentStatus,
		svc.Notes,
		svc.OptimizedCVText,
		svc.EstimatedDeliveryDate,
	).Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)
}

func (r *clientServiceRepository) GetForClient(ctx context.Context, id, clientID string) (*domain.ClientService, error) {
	query := clientServiceSelect + ` WHERE cs.id=$1 AND cs.client_id=$2`
	return scanClientService(r.pool.QueryRow(ctx, query, id, clientID))
}

func (r *clientServiceRepository) ListByClient(ctx context.Context, clientID string) ([]domain.ClientService, error) {
	query := clientServiceSelect + ` WHERE cs.client_id=$1 ORDER BY cs.created_at DESC`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClientServices(rows)
}

func (r *clientServiceRepository) List(ctx context.Context, filter ClientServiceFilter) ([]domain.ClientService, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("cs.client_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("cs.status=$%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY cs.created_at DESC LIMIT %d OFFSET %d`,
		clientServiceSelect, where, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	services, err := scanClientServices(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM client_services cs WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *clientServiceRepository) UpdateStatus(ctx context.Context, id string, status domain.EngagementStatus, notes *string) (*domain.ClientService, error) {
	const query = `
        UPDATE client_services SET status=$1, notes=COALESCE($2, notes), updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, notes, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return scanClientService(r.pool.QueryRow(ctx, clientServiceSelect+` WHERE cs.id=$1`, id))
}

func scanClientServices(rows pgx.Rows) ([]domain.ClientService, error) {
	var result []domain.ClientService
	for rows.Next() {
		svc, err := scanClientService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *svc)
	}
	return result, rows.Err()
}

func scanClientService(row pgx.Row) (*domain.ClientService, error) {
	var svc domain.ClientService
	if err := row.Scan(
		&svc.ID,
		&svc.ClientID,
		&svc.OfferingID,
		&svc.Name,
		&svc.ServiceType,
		&svc.Status,
		&svc.Price,
		&svc.PaymentStatus,
		&svc.Notes,
		&svc.OptimizedCVText,
		&svc.CreatedAt,
		&svc.UpdatedAt,
		&svc.EstimatedDeliveryDate,
		&svc.ClientName,
		&svc.ClientEmail,
	); err != nil {
		return nil, err
	}
	return &svc, nil
}
