package benefits

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListPlans(ctx context.Context, organizationID int64, limit, offset int) ([]Plan, int, error)
	GetPlan(ctx context.Context, id int64) (*Plan, error)
	CreatePlan(ctx context.Context, plan *Plan) (int64, error)
	UpdatePlan(ctx context.Context, plan *Plan) error
	DeletePlan(ctx context.Context, id int64) error

	ListEnrollments(ctx context.Context, employeeID int64) ([]Enrollment, error)
	GetEnrollment(ctx context.Context, id int64) (*Enrollment, error)
	ActiveEnrollment(ctx context.Context, employeeID, planID int64) (*Enrollment, error)
	CreateEnrollment(ctx context.Context, enrollment *Enrollment) (int64, error)
	UpdateEnrollment(ctx context.Context, enrollment *Enrollment) error
	// ActiveEnrollmentsOn returns enrollments of the employee covering the
	// given date, oldest first.
	ActiveEnrollmentsOn(ctx context.Context, employeeID int64, date time.Time) ([]Enrollment, error)
}
