package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTypes(ctx context.Context, organizationID int64) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, name, code, is_paid, default_days, is_active,
           created_at, updated_at
    FROM leave_types
    WHERE organization_id = $1
    ORDER BY name
  `, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Code, &t.IsPaid,
			&t.DefaultDays, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (s *Store) GetType(ctx context.Context, id int64) (*LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, name, code, is_paid, default_days, is_active,
           created_at, updated_at
    FROM leave_types
    WHERE id = $1
  `, id).Scan(&t.ID, &t.OrganizationID, &t.Name, &t.Code, &t.IsPaid,
		&t.DefaultDays, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateType(ctx context.Context, leaveType *LeaveType) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types
      (organization_id, name, code, is_paid, default_days, is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, leaveType.OrganizationID, leaveType.Name, leaveType.Code, leaveType.IsPaid,
		leaveType.DefaultDays, leaveType.IsActive, leaveType.CreatedAt, leaveType.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateType(ctx context.Context, leaveType *LeaveType) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_types
    SET name = $1, code = $2, is_paid = $3, default_days = $4, is_active = $5,
        updated_at = $6
    WHERE id = $7
  `, leaveType.Name, leaveType.Code, leaveType.IsPaid, leaveType.DefaultDays,
		leaveType.IsActive, leaveType.UpdatedAt, leaveType.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

func (s *Store) DeleteType(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_types WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

const requestSelect = `
    SELECT id, employee_id, leave_type_id, start_date, end_date, days, reason,
           status, decided_by, decided_at, created_at, updated_at
    FROM leave_requests`

func (s *Store) ListRequests(ctx context.Context, employeeID int64, limit, offset int) ([]LeaveRequest, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM leave_requests WHERE employee_id = $1",
		employeeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx,
		requestSelect+" WHERE employee_id = $1 ORDER BY start_date DESC, id DESC LIMIT $2 OFFSET $3",
		employeeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *r)
	}
	return requests, total, rows.Err()
}

func (s *Store) GetRequest(ctx context.Context, id int64) (*LeaveRequest, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, requestSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Store) CreateRequest(ctx context.Context, request *LeaveRequest) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests
      (employee_id, leave_type_id, start_date, end_date, days, reason, status,
       decided_by, decided_at, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, request.EmployeeID, request.LeaveTypeID, request.StartDate, request.EndDate,
		request.Days, request.Reason, request.Status, request.DecidedBy,
		request.DecidedAt, request.CreatedAt, request.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateRequest(ctx context.Context, request *LeaveRequest) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET start_date = $1, end_date = $2, days = $3, reason = $4, status = $5,
        decided_by = $6, decided_at = $7, updated_at = $8
    WHERE id = $9
  `, request.StartDate, request.EndDate, request.Days, request.Reason,
		request.Status, request.DecidedBy, request.DecidedAt, request.UpdatedAt,
		request.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (s *Store) ApprovedIntersecting(ctx context.Context, employeeID int64, periodStart, periodEnd time.Time) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx,
		requestSelect+` WHERE employee_id = $1 AND status = $2
      AND start_date <= $3 AND end_date >= $4
    ORDER BY start_date`,
		employeeID, StatusApproved, periodEnd, periodStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func (s *Store) CountBlockingRequests(ctx context.Context, employeeID int64, start, end time.Time, excludeID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM leave_requests
    WHERE employee_id = $1
      AND id <> $2
      AND status IN ($3, $4)
      AND start_date <= $5
      AND end_date >= $6
  `, employeeID, excludeID, StatusPending, StatusApproved, end, start).Scan(&count)
	return count, err
}

func scanRequest(row pgx.Row) (*LeaveRequest, error) {
	var r LeaveRequest
	err := row.Scan(&r.ID, &r.EmployeeID, &r.LeaveTypeID, &r.StartDate, &r.EndDate,
		&r.Days, &r.Reason, &r.Status, &r.DecidedBy, &r.DecidedAt,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
