package benefits

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

func (s *Service) ListPlans(ctx context.Context, organizationID int64, limit, offset int) ([]Plan, int, error) {
	return s.store.ListPlans(ctx, organizationID, limit, offset)
}

func (s *Service) GetPlan(ctx context.Context, id int64) (*Plan, error) {
	return s.store.GetPlan(ctx, id)
}

func (s *Service) CreatePlan(ctx context.Context, plan Plan) (int64, error) {
	if plan.EmployeeContribution.IsNegative() || plan.EmployerContribution.IsNegative() {
		return 0, ErrNegativeAmount
	}
	plan.IsActive = true
	plan.Touch(time.Now().UTC())
	return s.store.CreatePlan(ctx, &plan)
}

func (s *Service) UpdatePlan(ctx context.Context, plan Plan) error {
	if plan.EmployeeContribution.IsNegative() || plan.EmployerContribution.IsNegative() {
		return ErrNegativeAmount
	}
	existing, err := s.store.GetPlan(ctx, plan.ID)
	if err != nil {
		return err
	}
	plan.OrganizationID = existing.OrganizationID
	plan.CreatedAt = existing.CreatedAt
	plan.Touch(time.Now().UTC())
	return s.store.UpdatePlan(ctx, &plan)
}

func (s *Service) DeletePlan(ctx context.Context, id int64) error {
	if _, err := s.store.GetPlan(ctx, id); err != nil {
		return err
	}
	return s.store.DeletePlan(ctx, id)
}

func (s *Service) ListEnrollments(ctx context.Context, employeeID int64) ([]Enrollment, error) {
	return s.store.ListEnrollments(ctx, employeeID)
}

func (s *Service) GetEnrollment(ctx context.Context, id int64) (*Enrollment, error) {
	return s.store.GetEnrollment(ctx, id)
}

// Enroll joins an employee to a plan. One active enrollment per
// (employee, plan) pair.
func (s *Service) Enroll(ctx context.Context, enrollment Enrollment) (int64, error) {
	if enrollment.OverrideEmployeeContribution.IsNegative() {
		return 0, ErrNegativeAmount
	}
	if _, err := s.store.GetPlan(ctx, enrollment.PlanID); err != nil {
		return 0, err
	}
	active, err := s.store.ActiveEnrollment(ctx, enrollment.EmployeeID, enrollment.PlanID)
	if err != nil {
		return 0, err
	}
	if active != nil {
		return 0, &AlreadyEnrolledError{EmployeeID: enrollment.EmployeeID, PlanID: enrollment.PlanID}
	}
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	enrollment.IsActive = true
	enrollment.Touch(time.Now().UTC())
	return s.store.CreateEnrollment(ctx, &enrollment)
}

// Terminate closes an enrollment as of endDate. Contributions stop counting
// for payroll periods after that date.
func (s *Service) Terminate(ctx context.Context, id int64, endDate time.Time) error {
	enrollment, err := s.store.GetEnrollment(ctx, id)
	if err != nil {
		return err
	}
	enrollment.IsActive = false
	enrollment.EndDate = &endDate
	enrollment.Touch(time.Now().UTC())
	return s.store.UpdateEnrollment(ctx, enrollment)
}

// EmployeeContribution sums per-enrollment contributions across the
// employee's enrollments active on the reference date. A nonzero enrollment
// override beats the plan default.
func (s *Service) EmployeeContribution(ctx context.Context, employeeID int64, onDate time.Time) (decimal.Decimal, error) {
	enrollments, err := s.store.ActiveEnrollmentsOn(ctx, employeeID, onDate)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range enrollments {
		plan, err := s.store.GetPlan(ctx, enrollments[i].PlanID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(enrollments[i].ContributionFor(plan))
	}
	return total, nil
}
