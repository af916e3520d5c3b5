package leave

import "time"

type LeaveType struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organizationId"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	IsPaid         bool      `json:"isPaid"`
	DefaultDays    int       `json:"defaultDays"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (t *LeaveType) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// LeaveRequest covers an inclusive calendar-day range. Only approved requests
// count toward payroll leave deductions.
type LeaveRequest struct {
	ID          int64      `json:"id"`
	EmployeeID  int64      `json:"employeeId"`
	LeaveTypeID int64      `json:"leaveTypeId"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Days        int        `json:"days"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	DecidedBy   *int64     `json:"decidedBy,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (r *LeaveRequest) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)
