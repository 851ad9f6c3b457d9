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

const requestTableName = "bloodaid.donation_requests"

var requestColumns = utils.StructTagValues(types.DonationRequest{})

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Request(ctx context.Context, requestID string) (*types.DonationRequest, error) {
	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request query: %w", err)
	}

	var request types.DonationRequest
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}

	return &request, nil
}

func (r *RequestRepository) Requests(ctx context.Context, status *types.RequestStatus) ([]*types.DonationRequest, error) {
	builder := psql().
		Select(requestColumns...).
		From(requestTableName).
		OrderBy("created_at desc")

	if status != nil {
		builder = builder.Where(sq.Eq{"status": *status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate requests query: %w", err)
	}

	requests := make([]*types.DonationRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) RequestsByOwner(ctx context.Context, ownerEmail string, status *types.RequestStatus) ([]*types.DonationRequest, error) {
	where := sq.Eq{"requester_email": ownerEmail}
	if status != nil {
		where["status"] = *status
	}

	query, args, err := psql().
		Select(requestColumns...).
		From(requestTableName).
		Where(where).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate owner requests query: %w", err)
	}

	requests := make([]*types.DonationRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owner requests: %w", err)
	}

	return requests, nil
}

func (r *RequestRepository) Create(ctx context.Context, request *types.DonationRequest) error {
	now := time.Now()
	request.ID = utils.NanoID()
	request.Status = types.RequestStatusPending
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := psql().
		Insert(requestTableName).
		SetMap(utils.StructToMap(request)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create request")
}

// UpdateFields persists the mutable fields of a request. Requester
// identity and status columns stay untouched.
func (r *RequestRepository) UpdateFields(ctx context.Context, requestID string, request *types.DonationRequest) error {
	query, args, err := psql().
		Update(requestTableName).
		Set("recipient_name", request.RecipientName).
		Set("recipient_district", request.RecipientDistrict).
		Set("recipient_upazila", request.RecipientUpazila).
		Set("hospital", request.Hospital).
		Set("address", request.Address).
		Set("blood_group", request.BloodGroup).
		Set("donation_date", request.DonationDate).
		Set("donation_time", request.DonationTime).
		Set("message", request.Message).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update request query for request %s: %w", requestID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrRequestNotFound
	}

	return nil
}

// UpdateStatus applies an already-validated transition and stamps
// updated_at.
func (r *RequestRepository) UpdateStatus(ctx context.Context, requestID string, status types.RequestStatus) error {
	query, args, err := psql().
		Update(requestTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update status query for request %s: %w", requestID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrRequestNotFound
	}

	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, requestID string) error {
	query, args, err := psql().
		Delete(requestTableName).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete request query for request %s: %w", requestID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete request")
}

func (r *RequestRepository) CountsByStatus(ctx context.Context) (*types.RequestCounts, error) {
	query, args, err := psql().
		Select("status", "count(*) as total").
		From(requestTableName).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate request counts query: %w", err)
	}

	var rows []struct {
		Status types.RequestStatus `db:"status"`
		Total  int64               `db:"total"`
	}
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}

	counts := new(types.RequestCounts)
	for _, row := range rows {
		switch row.Status {
		case types.RequestStatusPending:
			counts.Pending = row.Total
		case types.RequestStatusInprogress:
			counts.Inprogress = row.Total
		case types.RequestStatusDone:
			counts.Done = row.Total
		case types.RequestStatusCanceled:
			counts.Canceled = row.Total
		}
	}

	return counts, nil
}
