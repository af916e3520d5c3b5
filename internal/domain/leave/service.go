package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListTypes(ctx context.Context, organizationID int64) ([]LeaveType, error) {
	return s.store.ListTypes(ctx, organizationID)
}

func (s *Service) GetType(ctx context.Context, id int64) (*LeaveType, error) {
	return s.store.GetType(ctx, id)
}

func (s *Service) CreateType(ctx context.Context, leaveType LeaveType) (int64, error) {
	leaveType.IsActive = true
	leaveType.Touch(time.Now().UTC())
	return s.store.CreateType(ctx, &leaveType)
}

func (s *Service) UpdateType(ctx context.Context, leaveType LeaveType) error {
	existing, err := s.store.GetType(ctx, leaveType.ID)
	if err != nil {
		return err
	}
	leaveType.OrganizationID = existing.OrganizationID
	leaveType.CreatedAt = existing.CreatedAt
	leaveType.Touch(time.Now().UTC())
	return s.store.UpdateType(ctx, &leaveType)
}

func (s *Service) DeleteType(ctx context.Context, id int64) error {
	if _, err := s.store.GetType(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteType(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, employeeID int64, limit, offset int) ([]LeaveRequest, int, error) {
	return s.store.ListRequests(ctx, employeeID, limit, offset)
}

func (s *Service) GetRequest(ctx context.Context, id int64) (*LeaveRequest, error) {
	return s.store.GetRequest(ctx, id)
}

// CreateRequest opens a pending request. A range colliding with another
// pending or approved request of the same employee is rejected.
func (s *Service) CreateRequest(ctx context.Context, request LeaveRequest) (int64, error) {
	days, err := RequestDays(request.StartDate, request.EndDate)
	if err != nil {
		return 0, err
	}
	if _, err := s.store.GetType(ctx, request.LeaveTypeID); err != nil {
		return 0, err
	}
	blocking, err := s.store.CountBlockingRequests(ctx, request.EmployeeID, request.StartDate, request.EndDate, 0)
	if err != nil {
		return 0, err
	}
	if blocking > 0 {
		return 0, ErrRequestOverlap
	}
	request.Days = days
	request.Status = StatusPending
	request.Touch(time.Now().UTC())
	return s.store.CreateRequest(ctx, &request)
}

// Approve decides a pending request. Approved leave immediately counts toward
// payroll leave deductions for intersecting runs.
func (s *Service) Approve(ctx context.Context, id, decidedBy int64) error {
	return s.decide(ctx, id, decidedBy, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id, decidedBy int64) error {
	return s.decide(ctx, id, decidedBy, StatusRejected)
}

// Cancel withdraws the employee's own pending request.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	request, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != StatusPending {
		return &RequestStateError{ID: request.ID, Status: request.Status, Want: StatusPending}
	}
	request.Status = StatusCancelled
	request.Touch(time.Now().UTC())
	return s.store.UpdateRequest(ctx, request)
}

func (s *Service) decide(ctx context.Context, id, decidedBy int64, status string) error {
	request, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != StatusPending {
		return &RequestStateError{ID: request.ID, Status: request.Status, Want: StatusPending}
	}
	now := time.Now().UTC()
	request.Status = status
	request.DecidedBy = &decidedBy
	request.DecidedAt = &now
	request.Touch(now)
	return s.store.UpdateRequest(ctx, request)
}

// ApprovedLeaveDays sums the calendar days of approved leave intersecting the
// inclusive period, clamped to the period's edges. This is the figure the
// payroll builder prices.
func (s *Service) ApprovedLeaveDays(ctx context.Context, employeeID int64, periodStart, periodEnd time.Time) (decimal.Decimal, error) {
	requests, err := s.store.ApprovedIntersecting(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return decimal.Zero, err
	}
	total := 0
	for _, r := range requests {
		total += OverlapDays(r.StartDate, r.EndDate, periodStart, periodEnd)
	}
	return decimal.NewFromInt(int64(total)), nil
}
