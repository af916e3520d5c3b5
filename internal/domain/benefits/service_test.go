package benefits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	plans       map[int64]*Plan
	enrollments map[int64]*Enrollment
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		plans:       make(map[int64]*Plan),
		enrollments: make(map[int64]*Enrollment),
		nextID:      1,
	}
}

func (f *fakeStore) ListPlans(_ context.Context, organizationID int64, _, _ int) ([]Plan, int, error) {
	var out []Plan
	for _, p := range f.plans {
		if p.OrganizationID == organizationID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) GetPlan(_ context.Context, id int64) (*Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreatePlan(_ context.Context, plan *Plan) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *plan
	cp.ID = id
	f.plans[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdatePlan(_ context.Context, plan *Plan) error {
	if _, ok := f.plans[plan.ID]; !ok {
		return ErrPlanNotFound
	}
	cp := *plan
	f.plans[plan.ID] = &cp
	return nil
}

func (f *fakeStore) DeletePlan(_ context.Context, id int64) error {
	if _, ok := f.plans[id]; !ok {
		return ErrPlanNotFound
	}
	delete(f.plans, id)
	return nil
}

func (f *fakeStore) ListEnrollments(_ context.Context, employeeID int64) ([]Enrollment, error) {
	var out []Enrollment
	for _, e := range f.enrollments {
		if e.EmployeeID == employeeID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetEnrollment(_ context.Context, id int64) (*Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) ActiveEnrollment(_ context.Context, employeeID, planID int64) (*Enrollment, error) {
	for _, e := range f.enrollments {
		if e.EmployeeID == employeeID && e.PlanID == planID && e.IsActive {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateEnrollment(_ context.Context, enrollment *Enrollment) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *enrollment
	cp.ID = id
	f.enrollments[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateEnrollment(_ context.Context, enrollment *Enrollment) error {
	if _, ok := f.enrollments[enrollment.ID]; !ok {
		return ErrEnrollmentNotFound
	}
	cp := *enrollment
	f.enrollments[enrollment.ID] = &cp
	return nil
}

func (f *fakeStore) ActiveEnrollmentsOn(_ context.Context, employeeID int64, date time.Time) ([]Enrollment, error) {
	var out []Enrollment
	for _, e := range f.enrollments {
		if e.EmployeeID == employeeID && e.ActiveOn(date) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seedPlan(t *testing.T, svc *Service, name string, employeeContribution int64) int64 {
	t.Helper()
	id, err := svc.CreatePlan(context.Background(), Plan{
		OrganizationID:       1,
		Name:                 name,
		EmployeeContribution: d(employeeContribution),
		EmployerContribution: d(employeeContribution * 2),
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	return id
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	svc := NewService(newFakeStore())
	planID := seedPlan(t, svc, "Pension", 100)

	if _, err := svc.Enroll(context.Background(), Enrollment{EmployeeID: 10, PlanID: planID}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	_, err := svc.Enroll(context.Background(), Enrollment{EmployeeID: 10, PlanID: planID})
	var already *AlreadyEnrolledError
	if !errors.As(err, &already) {
		t.Fatalf("duplicate enrollment accepted, err = %v", err)
	}
}

func TestEmployeeContributionSumsPlans(t *testing.T) {
	svc := NewService(newFakeStore())
	pension := seedPlan(t, svc, "Pension", 100)
	medical := seedPlan(t, svc, "Medical", 250)

	for _, planID := range []int64{pension, medical} {
		if _, err := svc.Enroll(context.Background(), Enrollment{
			EmployeeID:     10,
			PlanID:         planID,
			EnrollmentDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("Enroll: %v", err)
		}
	}

	total, err := svc.EmployeeContribution(context.Background(), 10, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EmployeeContribution: %v", err)
	}
	if !total.Equal(d(350)) {
		t.Fatalf("total = %s, want 350", total)
	}
}

func TestEmployeeContributionHonorsOverride(t *testing.T) {
	svc := NewService(newFakeStore())
	planID := seedPlan(t, svc, "Pension", 100)

	if _, err := svc.Enroll(context.Background(), Enrollment{
		EmployeeID:                   10,
		PlanID:                       planID,
		EnrollmentDate:               time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		OverrideEmployeeContribution: d(75),
	}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	total, err := svc.EmployeeContribution(context.Background(), 10, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EmployeeContribution: %v", err)
	}
	if !total.Equal(d(75)) {
		t.Fatalf("total = %s, want override 75", total)
	}
}

func TestEmployeeContributionIgnoresTerminated(t *testing.T) {
	svc := NewService(newFakeStore())
	planID := seedPlan(t, svc, "Pension", 100)
	id, err := svc.Enroll(context.Background(), Enrollment{
		EmployeeID:     10,
		PlanID:         planID,
		EnrollmentDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if err := svc.Terminate(context.Background(), id, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	total, err := svc.EmployeeContribution(context.Background(), 10, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EmployeeContribution: %v", err)
	}
	if !total.IsZero() {
		t.Fatalf("total = %s, want 0 after termination", total)
	}
}

func TestEnrollAfterTermination(t *testing.T) {
	svc := NewService(newFakeStore())
	planID := seedPlan(t, svc, "Pension", 100)
	id, err := svc.Enroll(context.Background(), Enrollment{EmployeeID: 10, PlanID: planID})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if err := svc.Terminate(context.Background(), id, time.Now().UTC()); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	if _, err := svc.Enroll(context.Background(), Enrollment{EmployeeID: 10, PlanID: planID}); err != nil {
		t.Fatalf("re-enrolling after termination should work: %v", err)
	}
}

func TestCreatePlanValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.CreatePlan(context.Background(), Plan{
		OrganizationID:       1,
		Name:                 "bad",
		EmployeeContribution: d(-10),
	})
	if !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative contribution accepted, err = %v", err)
	}
}
