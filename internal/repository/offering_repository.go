package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// OfferingRepository persists the service catalog.
type OfferingRepository interface {
	ListActive(ctx context.Context) ([]domain.Offering, error)
	ListAll(ctx context.Context) ([]domain.Offering, error)
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
	Update(ctx context.Context, offering *domain.Offering) error
}

type offeringRepository struct {
	pool *pgxpool.Pool
}

// NewOfferingRepository returns a Postgres-backed implementation.
func NewOfferingRepository(pool *pgxpool.Pool) OfferingRepository {
	return &offeringRepository{pool: pool}
}

const offeringColumns = `id, title, price_label, amount, currency, description, features, support_note,
               cta_text, service_type, duration, category, active, updated_at`

func (r *offeringRepository) ListActive(ctx context.Context) ([]domain.Offering, error) {
	query := fmt.Sprintf(`SELECT %s FROM available_services WHERE active ORDER BY sort_order, id`, offeringColumns)
	return r.list(ctx, query)
}

func (r *offeringRepository) ListAll(ctx context.Context) ([]domain.Offering, error) {
	query := fmt.Sprintf(`SELECT %s FROM available_services ORDER BY sort_order, id`, offeringColumns)
	return r.list(ctx, query)
}

func (r *offeringRepository) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	query := fmt.Sprintf(`SELECT %s FROM available_services WHERE id=$1`, offeringColumns)
	return scanOffering(r.pool.QueryRow(ctx, query, id))
}

func (r *offeringRepository) Update(ctx context.Context, o *domain.Offering) error {
	const query = `
        UPDATE available_services SET title=$1, price_label=$2, amount=$3, currency=$4, description=$5,
            features=$6, support_note=$7, cta_text=$8, duration=$9, category=$10, active=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		o.Title,
		o.Price,
		o.Amount,
		o.Currency,
		o.Description,
		o.Features,
		o.SupportNote,
		o.CTAText,
		o.Duration,
		o.Category,
		o.Active,
		o.ID,
	).Scan(&o.UpdatedAt)
}

func (r *offeringRepository) list(ctx context.Context, query string) ([]domain.Offering, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Offering
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func scanOffering(row pgx.Row) (*domain.Offering, error) {
	var o domain.Offering
	if err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Price,
		&o.Amount,
		&o.Currency,
		&o.Description,
		&o.Features,
		&o.SupportNote,
		&o.CTAText,
		&o.Type,
		&o.Duration,
		&o.Category,
		&o.Active,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
