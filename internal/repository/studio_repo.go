package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/19antoxa95-source/stretching-training-manager-miniapp/internal/models"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories run
// the same queries inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type StudioRepository struct {
	db DBTX
}

func NewStudioRepository(db DBTX) *StudioRepository {
	return &StudioRepository{db: db}
}

func (r *StudioRepository) Create(ctx context.Context, studio *models.Studio) error {
	query := `
		INSERT INTO studios (tenant_key, name, payment_per_client, minimum_payment, start_count_from, payment_individual, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.QueryRow(
		ctx,
		query,
		studio.TenantKey,
		studio.Name,
		studio.PaymentPerClient,
		studio.MinimumPayment,
		studio.StartCountFrom,
		studio.PaymentIndividual,
		studio.Color,
	).Scan(&studio.ID)
}

func (r *StudioRepository) GetByID(ctx context.Context, tenantKey string, studioID int64) (*models.Studio, error) {
	query := `
		SELECT id, tenant_key, name, payment_per_client, minimum_payment, start_count_from, payment_individual, color
		FROM studios
		WHERE tenant_key = $1 AND id = $2
	`
	var studio models.Studio
	err := r.db.QueryRow(ctx, query, tenantKey, studioID).Scan(
		&studio.ID,
		&studio.TenantKey,
		&studio.Name,
		&studio.PaymentPerClient,
		&studio.MinimumPayment,
		&studio.StartCountFrom,
		&studio.PaymentIndividual,
		&studio.Color,
	)
	if err != nil {
		return nil, err
	}
	return &studio, nil
}

func (r *StudioRepository) ListByTenant(ctx context.Context, tenantKey string) ([]models.Studio, error) {
	query := `
		SELECT id, tenant_key, name, payment_per_client, minimum_payment, start_count_from, payment_individual, color
		FROM studios
		WHERE tenant_key = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, tenantKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	studios := make([]models.Studio, 0)
	for rows.Next() {
		var studio models.Studio
		if err := rows.Scan(
			&studio.ID,
			&studio.TenantKey,
			&studio.Name,
			&studio.PaymentPerClient,
			&studio.MinimumPayment,
			&studio.StartCountFrom,
			&studio.PaymentIndividual,
			&studio.Color,
		); err != nil {
			return nil, err
		}
		studios = append(studios, studio)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return studios, nil
}

func (r *StudioRepository) Update(ctx context.Context, studio *models.Studio) (*models.Studio, error) {
	query := `
		UPDATE studios
		SET name = $3, payment_per_client = $4, minimum_payment = $5, start_count_from = $6, payment_individual = $7, color = $8
		WHERE tenant_key = $1 AND id = $2
		RETURNING id, tenant_key, name, payment_per_client, minimum_payment, start_count_from, payment_individual, color
	`
	var updated models.Studio
	err := r.db.QueryRow(
		ctx,
		query,
		studio.TenantKey,
		studio.ID,
		studio.Name,
		studio.PaymentPerClient,
		studio.MinimumPayment,
		studio.StartCountFrom,
		studio.PaymentIndividual,
		studio.Color,
	).Scan(
		&updated.ID,
		&updated.TenantKey,
		&updated.Name,
		&updated.PaymentPerClient,
		&updated.MinimumPayment,
		&updated.StartCountFrom,
		&updated.PaymentIndividual,
		&updated.Color,
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *StudioRepository) Delete(ctx context.Context, tenantKey string, studioID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM studios WHERE tenant_key = $1 AND id = $2`, tenantKey, studioID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
