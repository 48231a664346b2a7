package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/domain/repository"
	"github.com/deal-proximity/internal/pkg/errors"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const dealStatusPublished = "published"

const dealColumns = `
	d.id::text          AS id,
	d.title             AS title,
	d.category          AS category,
	d.merchant_id::text AS merchant_id,
	m.name              AS merchant_name,
	d.price::float8     AS price,
	d.original_price::float8 AS original_price,
	d.sold_count        AS sold_count,
	d.status            AS status,
	d.updated_at        AS updated_at`

type dealRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDealRepository - репозиторий сделок только на чтение
func NewDealRepository(db *DB) repository.DealRepository {
	return &dealRepository{
		db:     db,
		logger: db.logger,
	}
}

type locationRow struct {
	DealID   string          `db:"deal_id"`
	ID       string          `db:"id"`
	Lat      sql.NullFloat64 `db:"lat"`
	Lon      sql.NullFloat64 `db:"lon"`
	IsActive bool            `db:"is_active"`
	IsDraft  bool            `db:"is_draft"`
}

func (r *dealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	query := `SELECT ` + dealColumns + `
		FROM deals d
		JOIN merchants m ON m.id = d.merchant_id
		WHERE d.id = $1::uuid`

	var deal domain.Deal
	if err := r.db.GetContext(ctx, &deal, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrDealNotFound
		}
		r.logger.Error("Failed to get deal", zap.String("deal_id", id), zap.Error(err))
		return nil, fmt.Errorf("get deal %s: %w", id, err)
	}

	deals := []domain.Deal{deal}
	if err := r.attachLocations(ctx, deals); err != nil {
		return nil, err
	}

	return &deals[0], nil
}

func (r *dealRepository) ListByCategory(ctx context.Context, category string) ([]domain.Deal, error) {
	query := `SELECT ` + dealColumns + `
		FROM deals d
		JOIN merchants m ON m.id = d.merchant_id
		WHERE d.category = $1 AND d.status = $2
		ORDER BY d.updated_at DESC, d.id`

	deals := make([]domain.Deal, 0)
	if err := r.db.SelectContext(ctx, &deals, query, category, dealStatusPublished); err != nil {
		r.logger.Error("Failed to list deals by category", zap.String("category", category), zap.Error(err))
		return nil, fmt.Errorf("list deals by category %q: %w", category, err)
	}

	if err := r.attachLocations(ctx, deals); err != nil {
		return nil, err
	}

	r.logger.Debug("Deals loaded",
		zap.String("category", category),
		zap.Int("count", len(deals)))

	return deals, nil
}

func (r *dealRepository) ListCategories(ctx context.Context) ([]domain.DealCategory, error) {
	query := `
		SELECT category AS name, COUNT(*) AS deal_count
		FROM deals
		WHERE status = $1
		GROUP BY category
		ORDER BY category`

	categories := make([]domain.DealCategory, 0)
	if err := r.db.SelectContext(ctx, &categories, query, dealStatusPublished); err != nil {
		r.logger.Error("Failed to list deal categories", zap.Error(err))
		return nil, fmt.Errorf("list deal categories: %w", err)
	}

	return categories, nil
}

// attachLocations загружает локации мерчантов одним запросом на все сделки.
// Порядок локаций сохраняется: он определяет выбор основной точки.
func (r *dealRepository) attachLocations(ctx context.Context, deals []domain.Deal) error {
	if len(deals) == 0 {
		return nil
	}

	ids := make([]string, 0, len(deals))
	index := make(map[string]int, len(deals))
	for i, d := range deals {
		ids = append(ids, d.ID)
		index[d.ID] = i
	}

	query := `
		SELECT d.id::text AS deal_id, ml.id::text AS id, ml.lat, ml.lon, ml.is_active, ml.is_draft
		FROM deals d
		JOIN merchant_locations ml ON ml.merchant_id = d.merchant_id
		WHERE d.id = ANY($1::uuid[])
		ORDER BY d.id, ml.position, ml.id`

	var rows []locationRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		r.logger.Error("Failed to load deal locations", zap.Int("deals", len(deals)), zap.Error(err))
		return fmt.Errorf("load deal locations: %w", err)
	}

	for _, row := range rows {
		i, ok := index[row.DealID]
		if !ok {
			continue
		}

		loc := domain.DealLocation{
			ID:       row.ID,
			IsActive: row.IsActive,
			IsDraft:  row.IsDraft,
		}
		if row.Lat.Valid && row.Lon.Valid {
			loc.Coordinates = &domain.GeoPoint{Lat: row.Lat.Float64, Lon: row.Lon.Float64}
		}
		deals[i].Locations = append(deals[i].Locations, loc)
	}

	return nil
}
