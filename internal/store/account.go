package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bloodaid/internal/utils"
	"bloodaid/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountTableName = "bloodaid.accounts"

var accountColumns = utils.StructTagValues(types.Account{})

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Account(ctx context.Context, email string) (*types.Account, error) {
	query, args, err := psql().
		Select(accountColumns...).
		From(accountTableName).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account query: %w", err)
	}

	var account types.Account
	err = pgxscan.Get(ctx, r.pool, &account, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	return &account, nil
}

// UpsertOnLogin creates the account on first sign-in with role donor
// and status active. On subsequent sign-ins it refreshes profile and
// login-tracking fields only; role and status are never touched here.
func (r *AccountRepository) UpsertOnLogin(ctx context.Context, account *types.Account) error {
	now := time.Now()
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	account.Role = types.RoleDonor
	account.Status = types.AccountStatusActive
	account.CreatedAt = now
	account.LastLogin = now

	query, args, err := psql().
		Insert(accountTableName).
		SetMap(utils.StructToMap(account)).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			photo_url = COALESCE(EXCLUDED.photo_url, ` + accountTableName + `.photo_url),
			blood_group = COALESCE(EXCLUDED.blood_group, ` + accountTableName + `.blood_group),
			district = COALESCE(EXCLUDED.district, ` + accountTableName + `.district),
			upazila = COALESCE(EXCLUDED.upazila, ` + accountTableName + `.upazila),
			phone = COALESCE(EXCLUDED.phone, ` + accountTableName + `.phone),
			last_login = EXCLUDED.last_login`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert account query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert account")
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, email string, account *types.Account) error {
	account.Email = email

	query, args, err := psql().
		Update(accountTableName).
		Set("name", account.Name).
		Set("photo_url", account.PhotoURL).
		Set("blood_group", account.BloodGroup).
		Set("district", account.District).
		Set("upazila", account.Upazila).
		Set("phone", account.Phone).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update profile query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) SetPhotoURL(ctx context.Context, email, photoURL string) error {
	query, args, err := psql().
		Update(accountTableName).
		Set("photo_url", photoURL).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set photo query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set account photo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) Accounts(ctx context.Context) ([]*types.Account, error) {
	query, args, err := psql().
		Select(accountColumns...).
		From(accountTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate accounts query: %w", err)
	}

	accounts := make([]*types.Account, 0)
	err = pgxscan.Select(ctx, r.pool, &accounts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	return accounts, nil
}

// ActiveDonors returns active donor accounts matching the search
// filters. Empty filter fields match everything.
func (r *AccountRepository) ActiveDonors(ctx context.Context, search types.DonorSearch) ([]*types.Account, error) {
	where := sq.Eq{
		"role":   types.RoleDonor,
		"status": types.AccountStatusActive,
	}
	if search.BloodGroup != "" {
		where["blood_group"] = search.BloodGroup
	}
	if search.District != "" {
		where["district"] = search.District
	}
	if search.Upazila != "" {
		where["upazila"] = search.Upazila
	}

	query, args, err := psql().
		Select(accountColumns...).
		From(accountTableName).
		Where(where).
		OrderBy("name asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor search query: %w", err)
	}

	donors := make([]*types.Account, 0)
	err = pgxscan.Select(ctx, r.pool, &donors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	return donors, nil
}

func (r *AccountRepository) UpdateRole(ctx context.Context, email string, role types.Role) error {
	query, args, err := psql().
		Update(accountTableName).
		Set("role", role).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update role query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account role: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, email string, status types.AccountStatus) error {
	query, args, err := psql().
		Update(accountTableName).
		Set("status", status).
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update status query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) CountByRole(ctx context.Context) (map[types.Role]int64, error) {
	query, args, err := psql().
		Select("role", "count(*) as total").
		From(accountTableName).
		GroupBy("role").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account counts query: %w", err)
	}

	var rows []struct {
		Role  types.Role `db:"role"`
		Total int64      `db:"total"`
	}
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts by role: %w", err)
	}

	counts := make(map[types.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Total
	}

	return counts, nil
}
