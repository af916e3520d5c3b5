package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListTypes(ctx context.Context, organizationID int64) ([]LeaveType, error)
	GetType(ctx context.Context, id int64) (*LeaveType, error)
	CreateType(ctx context.Context, leaveType *LeaveType) (int64, error)
	UpdateType(ctx context.Context, leaveType *LeaveType) error
	DeleteType(ctx context.Context, id int64) error

	ListRequests(ctx context.Context, employeeID int64, limit, offset int) ([]LeaveRequest, int, error)
	GetRequest(ctx context.Context, id int64) (*LeaveRequest, error)
	CreateRequest(ctx context.Context, request *LeaveRequest) (int64, error)
	UpdateRequest(ctx context.Context, request *LeaveRequest) error
	// ApprovedIntersecting returns approved requests whose range touches the
	// inclusive period.
	ApprovedIntersecting(ctx context.Context, employeeID int64, periodStart, periodEnd time.Time) ([]LeaveRequest, error)
	// CountBlockingRequests counts pending or approved requests of the
	// employee intersecting the range, minus the excluded request.
	CountBlockingRequests(ctx context.Context, employeeID int64, start, end time.Time, excludeID int64) (int, error)
}
