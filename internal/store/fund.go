package store

import (
	"context"
	"fmt"
	"time"

	"bloodaid/internal/utils"
	"bloodaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fundTableName = "bloodaid.funds"

var fundColumns = utils.StructTagValues(types.FundRecord{})

type FundRepository struct {
	pool *pgxpool.Pool
}

func NewFundRepository(pool *pgxpool.Pool) *FundRepository {
	return &FundRepository{pool: pool}
}

func (r *FundRepository) FundBySessionID(ctx context.Context, sessionID string) (*types.FundRecord, error) {
	query, args, err := psql().
		Select(fundColumns...).
		From(fundTableName).
		Where(sq.Eq{"session_id": sessionID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate fund-by-session query: %w", err)
	}

	var fund types.FundRecord
	err = pgxscan.Get(ctx, r.pool, &fund, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrFundNotFound
		}
		return nil, fmt.Errorf("failed to fetch fund record: %w", err)
	}

	return &fund, nil
}

func (r *FundRepository) Create(ctx context.Context, fund *types.FundRecord) error {
	fund.ID = utils.NanoID()
	fund.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(fundTableName).
		SetMap(utils.StructToMap(fund)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert fund query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create fund record")
}

func (r *FundRepository) Funds(ctx context.Context) ([]*types.FundRecord, error) {
	query, args, err := psql().
		Select(fundColumns...).
		From(fundTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate funds query: %w", err)
	}

	funds := make([]*types.FundRecord, 0)
	err = pgxscan.Select(ctx, r.pool, &funds, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fund records: %w", err)
	}

	return funds, nil
}

// TotalCents returns the sum of all recorded amounts, 0 on an empty
// ledger.
func (r *FundRepository) TotalCents(ctx context.Context) (int64, error) {
	query, args, err := psql().
		Select("coalesce(sum(amount_cents), 0)").
		From(fundTableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate fund total query: %w", err)
	}

	var total int64
	err = pgxscan.Get(ctx, r.pool, &total, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate fund total: %w", err)
	}

	return total, nil
}
