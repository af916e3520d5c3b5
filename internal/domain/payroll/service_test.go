package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hrms/internal/domain/tax"
)

type fakeStore struct {
	structures  map[int64]*SalaryStructure
	components  map[int64]*SalaryComponent
	assignments map[int64]*SalaryAssignment
	runs        map[int64]*Run
	details     map[int64]*Detail
	slips       map[int64]*Slip
	employees   map[int64]int64 // employee id -> organization id
	nextID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		structures:  make(map[int64]*SalaryStructure),
		components:  make(map[int64]*SalaryComponent),
		assignments: make(map[int64]*SalaryAssignment),
		runs:        make(map[int64]*Run),
		details:     make(map[int64]*Detail),
		slips:       make(map[int64]*Slip),
		employees:   make(map[int64]int64),
		nextID:      1,
	}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) ListStructures(_ context.Context, organizationID int64, _, _ int) ([]SalaryStructure, int, error) {
	var out []SalaryStructure
	for _, st := range f.structures {
		if st.OrganizationID == organizationID {
			out = append(out, *st)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) GetStructure(_ context.Context, id int64) (*SalaryStructure, error) {
	st, ok := f.structures[id]
	if !ok {
		return nil, ErrStructureNotFound
	}
	cp := *st
	cp.Components = nil
	for _, c := range f.components {
		if c.SalaryStructureID == id {
			cp.Components = append(cp.Components, *c)
		}
	}
	return &cp, nil
}

func (f *fakeStore) CreateStructure(_ context.Context, structure *SalaryStructure) (int64, error) {
	id := f.id()
	cp := *structure
	cp.ID = id
	for _, c := range structure.Components {
		c.ID = f.id()
		c.SalaryStructureID = id
		comp := c
		f.components[c.ID] = &comp
	}
	cp.Components = nil
	f.structures[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateStructure(_ context.Context, structure *SalaryStructure) error {
	if _, ok := f.structures[structure.ID]; !ok {
		return ErrStructureNotFound
	}
	cp := *structure
	cp.Components = nil
	f.structures[structure.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteStructure(_ context.Context, id int64) error {
	if _, ok := f.structures[id]; !ok {
		return ErrStructureNotFound
	}
	delete(f.structures, id)
	return nil
}

func (f *fakeStore) CountActiveAssignments(_ context.Context, structureID int64) (int, error) {
	count := 0
	for _, a := range f.assignments {
		if a.SalaryStructureID == structureID && a.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) GetComponent(_ context.Context, id int64) (*SalaryComponent, error) {
	c, ok := f.components[id]
	if !ok {
		return nil, ErrComponentNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) CreateComponent(_ context.Context, component *SalaryComponent) (int64, error) {
	id := f.id()
	cp := *component
	cp.ID = id
	f.components[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateComponent(_ context.Context, component *SalaryComponent) error {
	if _, ok := f.components[component.ID]; !ok {
		return ErrComponentNotFound
	}
	cp := *component
	f.components[component.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteComponent(_ context.Context, id int64) error {
	if _, ok := f.components[id]; !ok {
		return ErrComponentNotFound
	}
	delete(f.components, id)
	return nil
}

func (f *fakeStore) GetAssignment(_ context.Context, id int64) (*SalaryAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListAssignments(_ context.Context, employeeID int64) ([]SalaryAssignment, error) {
	var out []SalaryAssignment
	for _, a := range f.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveAssignment(_ context.Context, employeeID int64) (*SalaryAssignment, error) {
	for _, a := range f.assignments {
		if a.EmployeeID == employeeID && a.IsActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, assignment *SalaryAssignment) (int64, error) {
	now := time.Now().UTC()
	for _, a := range f.assignments {
		if a.EmployeeID == assignment.EmployeeID && a.IsActive {
			a.IsActive = false
			a.EndDate = &now
			a.UpdatedAt = now
		}
	}
	id := f.id()
	cp := *assignment
	cp.ID = id
	f.assignments[id] = &cp
	return id, nil
}

func (f *fakeStore) ListRuns(_ context.Context, organizationID int64, _, _ int) ([]Run, int, error) {
	var out []Run
	for _, r := range f.runs {
		if r.OrganizationID == organizationID {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) GetRun(_ context.Context, id int64) (*Run, error) {
	r, ok := f.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) CreateRun(_ context.Context, run *Run) (int64, error) {
	id := f.id()
	cp := *run
	cp.ID = id
	f.runs[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateRun(_ context.Context, run *Run) error {
	current, ok := f.runs[run.ID]
	if !ok {
		return ErrRunNotFound
	}
	current.Name = run.Name
	current.Frequency = run.Frequency
	current.StartDate = run.StartDate
	current.EndDate = run.EndDate
	current.Remarks = run.Remarks
	current.UpdatedAt = run.UpdatedAt
	return nil
}

func (f *fakeStore) CountOverlappingRuns(_ context.Context, organizationID int64, start, end time.Time, excludeID int64) (int, error) {
	count := 0
	for _, r := range f.runs {
		if r.OrganizationID != organizationID || r.ID == excludeID || r.Status == RunStatusCancelled {
			continue
		}
		if !r.StartDate.After(end) && !r.EndDate.Before(start) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) TransitionRun(_ context.Context, run *Run, expected string) (bool, error) {
	current, ok := f.runs[run.ID]
	if !ok {
		return false, ErrRunNotFound
	}
	if current.Status != expected {
		return false, nil
	}
	cp := *run
	f.runs[run.ID] = &cp
	return true, nil
}

func (f *fakeStore) ListDetails(_ context.Context, runID int64) ([]Detail, error) {
	var out []Detail
	for _, d := range f.details {
		if d.RunID == runID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeStore) GetDetail(_ context.Context, id int64) (*Detail, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, ErrDetailNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) DetailExists(_ context.Context, runID, employeeID int64) (bool, error) {
	for _, d := range f.details {
		if d.RunID == runID && d.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateDetail(_ context.Context, detail *Detail) (int64, error) {
	for _, d := range f.details {
		if d.RunID == detail.RunID && d.EmployeeID == detail.EmployeeID {
			return 0, &DuplicateDetailError{RunID: detail.RunID, EmployeeID: detail.EmployeeID}
		}
	}
	id := f.id()
	cp := *detail
	cp.ID = id
	f.details[id] = &cp
	return id, nil
}

func (f *fakeStore) UpdateDetail(_ context.Context, detail *Detail) error {
	if _, ok := f.details[detail.ID]; !ok {
		return ErrDetailNotFound
	}
	cp := *detail
	f.details[detail.ID] = &cp
	return nil
}

func (f *fakeStore) EmployeesWithActiveAssignment(_ context.Context, organizationID int64) ([]int64, error) {
	var out []int64
	for _, a := range f.assignments {
		if !a.IsActive {
			continue
		}
		if f.employees[a.EmployeeID] == organizationID {
			out = append(out, a.EmployeeID)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSlips(_ context.Context, employeeID int64, _, _ int) ([]Slip, int, error) {
	var out []Slip
	for _, sl := range f.slips {
		if sl.EmployeeID == employeeID {
			out = append(out, *sl)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) GetSlip(_ context.Context, id int64) (*Slip, error) {
	sl, ok := f.slips[id]
	if !ok {
		return nil, ErrSlipNotFound
	}
	cp := *sl
	return &cp, nil
}

func (f *fakeStore) GetSlipByDetail(_ context.Context, detailID int64) (*Slip, error) {
	for _, sl := range f.slips {
		if sl.DetailID == detailID {
			cp := *sl
			return &cp, nil
		}
	}
	return nil, ErrSlipNotFound
}

func (f *fakeStore) CreateSlip(_ context.Context, slip *Slip) (int64, error) {
	id := f.id()
	cp := *slip
	cp.ID = id
	f.slips[id] = &cp
	return id, nil
}

func (f *fakeStore) TransitionSlip(_ context.Context, slip *Slip, expected string) (bool, error) {
	current, ok := f.slips[slip.ID]
	if !ok {
		return false, ErrSlipNotFound
	}
	if current.Status != expected {
		return false, nil
	}
	cp := *slip
	f.slips[slip.ID] = &cp
	return true, nil
}

type fakeTaxSource struct {
	cfg *tax.Configuration
	err error
}

func (f *fakeTaxSource) ActiveConfiguration(context.Context, int64) (*tax.Configuration, error) {
	return f.cfg, f.err
}

type fakeLeaveSource struct {
	days decimal.Decimal
	err  error
}

func (f *fakeLeaveSource) ApprovedLeaveDays(context.Context, int64, time.Time, time.Time) (decimal.Decimal, error) {
	return f.days, f.err
}

type fakeBenefitSource struct {
	amount decimal.Decimal
	err    error
}

func (f *fakeBenefitSource) EmployeeContribution(context.Context, int64, time.Time) (decimal.Decimal, error) {
	return f.amount, f.err
}

type fixture struct {
	store    *fakeStore
	taxes    *fakeTaxSource
	leaves   *fakeLeaveSource
	benefits *fakeBenefitSource
	svc      *Service
}

func newFixture() *fixture {
	store := newFakeStore()
	taxes := &fakeTaxSource{}
	leaves := &fakeLeaveSource{days: decimal.Zero}
	benefits := &fakeBenefitSource{amount: decimal.Zero}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		store:    store,
		taxes:    taxes,
		leaves:   leaves,
		benefits: benefits,
		svc:      NewService(store, taxes, leaves, benefits, logger),
	}
}

func (fx *fixture) seedStructure(t *testing.T) int64 {
	t.Helper()
	id, err := fx.svc.CreateStructure(context.Background(), SalaryStructure{
		OrganizationID: 1,
		Name:           "Standard Grade",
		BasicSalary:    d(5000),
		IsActive:       true,
		Components: []SalaryComponent{
			fixedEarning("House Allowance", 1500),
			fixedEarning("Transport Allowance", 500),
			fixedEarning("Meal Allowance", 300),
			pctDeduction("PAYE", 15),
			pctDeduction("NAPSA", 5),
			{Name: "Work Injury Benefit", Type: ComponentTypeDeduction, Amount: d(50), IsActive: true},
		},
	})
	if err != nil {
		t.Fatalf("CreateStructure: %v", err)
	}
	return id
}

func (fx *fixture) seedEmployee(t *testing.T, employeeID, structureID int64) {
	t.Helper()
	fx.store.employees[employeeID] = 1
	_, err := fx.svc.CreateAssignment(context.Background(), SalaryAssignment{
		EmployeeID:        employeeID,
		SalaryStructureID: structureID,
		EffectiveDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
}

func (fx *fixture) seedRun(t *testing.T, month time.Month) int64 {
	t.Helper()
	start := time.Date(2026, month, 1, 0, 0, 0, 0, time.UTC)
	id, err := fx.svc.CreateRun(context.Background(), Run{
		OrganizationID: 1,
		Name:           fmt.Sprintf("%s 2026", month),
		Frequency:      "Monthly",
		StartDate:      start,
		EndDate:        start.AddDate(0, 1, -1),
	})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	return id
}

func TestCreateAssignmentCachesDerivedSalaries(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)

	assignment, err := fx.svc.ActiveAssignment(context.Background(), 10)
	if err != nil {
		t.Fatalf("ActiveAssignment: %v", err)
	}
	if !assignment.GrossSalary.Equal(d(7300)) {
		t.Fatalf("cached gross = %s, want 7300", assignment.GrossSalary)
	}
	if !assignment.NetSalary.Equal(d(5790)) {
		t.Fatalf("cached net = %s, want 5790", assignment.NetSalary)
	}
}

func TestCreateAssignmentClosesPriorActive(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	fx.seedEmployee(t, 10, structureID)

	history, err := fx.svc.ListAssignments(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListAssignments: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("assignment count = %d, want 2", len(history))
	}
	activeCount, closedWithEndDate := 0, 0
	for _, a := range history {
		if a.IsActive {
			activeCount++
		} else if a.EndDate != nil {
			closedWithEndDate++
		}
	}
	if activeCount != 1 {
		t.Fatalf("active assignments = %d, want exactly 1", activeCount)
	}
	if closedWithEndDate != 1 {
		t.Fatalf("closed assignments with end date = %d, want 1", closedWithEndDate)
	}
}

func TestDeleteStructureInUse(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)

	if err := fx.svc.DeleteStructure(context.Background(), structureID); !errors.Is(err, ErrStructureInUse) {
		t.Fatalf("deleting an assigned structure should fail, err = %v", err)
	}
}

func TestBuildDetail(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	detail, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, "")
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if !detail.GrossSalary.Equal(d(7300)) {
		t.Fatalf("gross = %s, want 7300", detail.GrossSalary)
	}
	if !detail.NetSalary.Equal(d(5790)) {
		t.Fatalf("net = %s, want 5790", detail.NetSalary)
	}
	if !detail.TotalDeductions.Equal(d(1510)) {
		t.Fatalf("deductions = %s, want 1510", detail.TotalDeductions)
	}
	if detail.Status != DetailStatusDraft {
		t.Fatalf("status = %s, want Draft", detail.Status)
	}
}

func TestBuildDetailDuplicate(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	if _, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, ""); err != nil {
		t.Fatalf("first BuildDetail: %v", err)
	}
	_, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, "")
	var dup *DuplicateDetailError
	if !errors.As(err, &dup) {
		t.Fatalf("second detail accepted, err = %v", err)
	}
}

func TestBuildDetailNoActiveSalary(t *testing.T) {
	fx := newFixture()
	fx.seedStructure(t)
	runID := fx.seedRun(t, time.January)

	_, err := fx.svc.BuildDetail(context.Background(), runID, 42, nil, nil, "")
	var noSalary *NoActiveSalaryError
	if !errors.As(err, &noSalary) {
		t.Fatalf("want NoActiveSalaryError, got %v", err)
	}
	if noSalary.EmployeeID != 42 {
		t.Fatalf("error names employee %d, want 42", noSalary.EmployeeID)
	}
}

func TestBuildDetailDayCountBounds(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	bad := 32
	ok := 22
	if _, err := fx.svc.BuildDetail(context.Background(), runID, 10, &bad, &ok, ""); !errors.Is(err, ErrInvalidDayCount) {
		t.Fatalf("working days 32 accepted, err = %v", err)
	}
	neg := -1
	if _, err := fx.svc.BuildDetail(context.Background(), runID, 10, &ok, &neg, ""); !errors.Is(err, ErrInvalidDayCount) {
		t.Fatalf("days worked -1 accepted, err = %v", err)
	}
}

func TestBuildDetailProration(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	working, worked := 22, 11
	detail, err := fx.svc.BuildDetail(context.Background(), runID, 10, &working, &worked, "")
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if !detail.GrossSalary.Equal(d(3650)) {
		t.Fatalf("prorated gross = %s, want 3650", detail.GrossSalary)
	}
	if !detail.NetSalary.Equal(d(2895)) {
		t.Fatalf("prorated net = %s, want 2895", detail.NetSalary)
	}
}

func TestBuildDetailWithTax(t *testing.T) {
	fx := newFixture()
	fx.taxes.cfg = &tax.Configuration{
		OrganizationID: 1,
		StandardRate:   decimal.NewFromInt(10),
		IsActive:       true,
	}
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	detail, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, "")
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if !detail.TotalTax.Equal(d(730)) {
		t.Fatalf("tax = %s, want 10%% of 7300 = 730", detail.TotalTax)
	}
	if !detail.NetSalary.Equal(d(5060)) {
		t.Fatalf("net = %s, want 5790 - 730 = 5060", detail.NetSalary)
	}
}

func TestBuildDetailLeaveAndBenefit(t *testing.T) {
	fx := newFixture()
	fx.leaves.days = d(3)
	fx.benefits.amount = d(200)
	structureID := fx.seedStructure(t)

	// Add a fixed-per-day leave deduction component.
	_, err := fx.svc.AddComponent(context.Background(), structureID, SalaryComponent{
		Name:         "Unpaid Leave",
		Type:         ComponentTypeDeduction,
		Amount:       d(100),
		IsLeaveBased: true,
	})
	if err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	detail, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, "")
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if !detail.LeaveDeduction.Equal(d(300)) {
		t.Fatalf("leave deduction = %s, want 100 x 3 days = 300", detail.LeaveDeduction)
	}
	if !detail.BenefitDeduction.Equal(d(200)) {
		t.Fatalf("benefit deduction = %s, want 200", detail.BenefitDeduction)
	}
	if !detail.LeaveDays.Equal(d(3)) {
		t.Fatalf("leave days = %s, want 3", detail.LeaveDays)
	}
	// The leave component also subtracts inside ComputeNet, so the structure
	// side charges 100 once; leave pricing adds 300 on top.
	want := d(5790).Sub(d(100)).Sub(d(300)).Sub(d(200))
	if !detail.NetSalary.Equal(want) {
		t.Fatalf("net = %s, want %s", detail.NetSalary, want)
	}
}

func TestBuildDetailFailSoftDeductions(t *testing.T) {
	fx := newFixture()
	fx.leaves.err = errors.New("leave store unavailable")
	fx.benefits.err = errors.New("benefits store unavailable")
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	detail, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, "")
	if err != nil {
		t.Fatalf("deduction lookups failing must not abort the detail: %v", err)
	}
	if !detail.LeaveDeduction.IsZero() || !detail.BenefitDeduction.IsZero() {
		t.Fatalf("degraded deductions should be zero, got leave %s benefit %s",
			detail.LeaveDeduction, detail.BenefitDeduction)
	}
	if !detail.NetSalary.Equal(d(5790)) {
		t.Fatalf("net = %s, want 5790", detail.NetSalary)
	}
}

func TestCreateRunOverlap(t *testing.T) {
	fx := newFixture()
	fx.seedRun(t, time.January)

	_, err := fx.svc.CreateRun(context.Background(), Run{
		OrganizationID: 1,
		Name:           "Mid January 2026",
		StartDate:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, ErrRunOverlap) {
		t.Fatalf("overlapping run accepted, err = %v", err)
	}
}

func TestCancelledRunDoesNotBlockOverlap(t *testing.T) {
	fx := newFixture()
	runID := fx.seedRun(t, time.January)
	if err := fx.svc.Cancel(context.Background(), runID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := fx.svc.CreateRun(context.Background(), Run{
		OrganizationID: 1,
		Name:           "January 2026 retry",
		StartDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("cancelled run should not block the period: %v", err)
	}
}

func TestProcessRun(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	fx.seedEmployee(t, 11, structureID)
	runID := fx.seedRun(t, time.January)

	for _, employee := range []int64{10, 11} {
		if _, err := fx.svc.BuildDetail(context.Background(), runID, employee, nil, nil, ""); err != nil {
			t.Fatalf("BuildDetail(%d): %v", employee, err)
		}
	}

	run, err := fx.svc.Process(context.Background(), runID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if run.Status != RunStatusProcessed {
		t.Fatalf("status = %s, want Processed", run.Status)
	}
	if run.ProcessedDate == nil {
		t.Fatalf("processed date not stamped")
	}
	if run.EmployeeCount != 2 {
		t.Fatalf("employee count = %d, want 2", run.EmployeeCount)
	}
	if !run.TotalGross.Equal(d(14600)) {
		t.Fatalf("total gross = %s, want 14600", run.TotalGross)
	}
	if !run.TotalNet.Equal(d(11580)) {
		t.Fatalf("total net = %s, want 11580", run.TotalNet)
	}
}

func TestProcessEmptyRun(t *testing.T) {
	fx := newFixture()
	runID := fx.seedRun(t, time.January)

	if _, err := fx.svc.Process(context.Background(), runID); !errors.Is(err, ErrRunEmpty) {
		t.Fatalf("empty run processed, err = %v", err)
	}
}

func TestProcessTwice(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)
	if _, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, ""); err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if _, err := fx.svc.Process(context.Background(), runID); err != nil {
		t.Fatalf("first Process: %v", err)
	}

	_, err := fx.svc.Process(context.Background(), runID)
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("double processing accepted, err = %v", err)
	}
}

func TestMarkPaidRequiresProcessed(t *testing.T) {
	fx := newFixture()
	runID := fx.seedRun(t, time.January)

	_, err := fx.svc.MarkPaid(context.Background(), runID, time.Now().UTC())
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("paying a draft run accepted, err = %v", err)
	}
}

func TestUpdateRunOnlyWhileDraft(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)
	if _, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, ""); err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	if _, err := fx.svc.Process(context.Background(), runID); err != nil {
		t.Fatalf("Process: %v", err)
	}

	err := fx.svc.UpdateRun(context.Background(), Run{
		ID:        runID,
		Name:      "renamed",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("editing a processed run accepted, err = %v", err)
	}
}

func TestGenerateForAllIdempotent(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	fx.seedEmployee(t, 11, structureID)
	fx.seedEmployee(t, 12, structureID)
	runID := fx.seedRun(t, time.January)

	if _, err := fx.svc.BuildDetail(context.Background(), runID, 11, nil, nil, ""); err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}

	summary, err := fx.svc.GenerateForAll(context.Background(), runID, nil)
	if err != nil {
		t.Fatalf("GenerateForAll: %v", err)
	}
	if summary.Created != 2 || summary.Skipped != 1 || len(summary.Failed) != 0 {
		t.Fatalf("summary = %+v, want 2 created 1 skipped", summary)
	}

	again, err := fx.svc.GenerateForAll(context.Background(), runID, nil)
	if err != nil {
		t.Fatalf("second GenerateForAll: %v", err)
	}
	if again.Created != 0 || again.Skipped != 3 {
		t.Fatalf("rerun summary = %+v, want all skipped", again)
	}
}

func TestRecalculateAllIdempotent(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)

	working, worked := 22, 11
	if _, err := fx.svc.BuildDetail(context.Background(), runID, 10, &working, &worked, ""); err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}

	snapshot := func() Detail {
		details, err := fx.svc.ListDetails(context.Background(), runID)
		if err != nil {
			t.Fatalf("ListDetails: %v", err)
		}
		if len(details) != 1 {
			t.Fatalf("detail count = %d, want 1", len(details))
		}
		return details[0]
	}

	before := snapshot()
	for i := 0; i < 2; i++ {
		if err := fx.svc.RecalculateAll(context.Background(), runID); err != nil {
			t.Fatalf("RecalculateAll: %v", err)
		}
	}
	after := snapshot()

	if !before.GrossSalary.Equal(after.GrossSalary) || !before.NetSalary.Equal(after.NetSalary) ||
		!before.TotalDeductions.Equal(after.TotalDeductions) || !before.TotalTax.Equal(after.TotalTax) {
		t.Fatalf("recalculation over unchanged inputs drifted: before %+v after %+v", before, after)
	}
	if after.WorkingDays == nil || *after.WorkingDays != 22 || after.DaysWorked == nil || *after.DaysWorked != 11 {
		t.Fatalf("recorded day counts changed: %+v", after)
	}
}

func TestRecalculateAllPicksUpNewState(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)
	if _, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, ""); err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}

	fx.benefits.amount = d(250)
	if err := fx.svc.RecalculateAll(context.Background(), runID); err != nil {
		t.Fatalf("RecalculateAll: %v", err)
	}

	details, err := fx.svc.ListDetails(context.Background(), runID)
	if err != nil {
		t.Fatalf("ListDetails: %v", err)
	}
	if !details[0].BenefitDeduction.Equal(d(250)) {
		t.Fatalf("benefit deduction = %s, want refreshed 250", details[0].BenefitDeduction)
	}
	if !details[0].NetSalary.Equal(d(5540)) {
		t.Fatalf("net = %s, want 5790 - 250 = 5540", details[0].NetSalary)
	}
}

func TestSlipLifecycle(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)
	detail, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, "")
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}

	slip, err := fx.svc.GenerateSlip(context.Background(), detail.ID, "", "")
	if err != nil {
		t.Fatalf("GenerateSlip: %v", err)
	}
	wantNumber := fmt.Sprintf("SS-%d-%d-%s", runID, 10, time.Now().UTC().Format("20060102"))
	if slip.SlipNumber != wantNumber {
		t.Fatalf("slip number = %s, want %s", slip.SlipNumber, wantNumber)
	}
	if slip.Status != SlipStatusGenerated {
		t.Fatalf("status = %s, want Generated", slip.Status)
	}
	if !slip.NetPayable.Equal(detail.NetSalary) {
		t.Fatalf("net payable = %s, want %s", slip.NetPayable, detail.NetSalary)
	}
	if len(slip.Components) != 6 {
		t.Fatalf("component count = %d, want 6", len(slip.Components))
	}

	if _, err := fx.svc.GenerateSlip(context.Background(), detail.ID, "", ""); !errors.Is(err, ErrSlipExists) {
		t.Fatalf("second slip accepted, err = %v", err)
	}

	// Sending before approval is out of order.
	err = fx.svc.SendSlip(context.Background(), slip.ID)
	var state *StateError
	if !errors.As(err, &state) {
		t.Fatalf("sending a generated slip accepted, err = %v", err)
	}

	if err := fx.svc.ApproveSlip(context.Background(), slip.ID); err != nil {
		t.Fatalf("ApproveSlip: %v", err)
	}
	if err := fx.svc.SendSlip(context.Background(), slip.ID); err != nil {
		t.Fatalf("SendSlip: %v", err)
	}
	credited := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := fx.svc.MarkSlipPaid(context.Background(), slip.ID, credited); err != nil {
		t.Fatalf("MarkSlipPaid: %v", err)
	}

	paid, err := fx.svc.GetSlip(context.Background(), slip.ID)
	if err != nil {
		t.Fatalf("GetSlip: %v", err)
	}
	if paid.Status != SlipStatusPaid {
		t.Fatalf("status = %s, want Paid", paid.Status)
	}
	if paid.SalaryCreditedDate == nil || !paid.SalaryCreditedDate.Equal(credited) {
		t.Fatalf("credited date = %v, want %s", paid.SalaryCreditedDate, credited)
	}
}

func TestSlipPDF(t *testing.T) {
	fx := newFixture()
	structureID := fx.seedStructure(t)
	fx.seedEmployee(t, 10, structureID)
	runID := fx.seedRun(t, time.January)
	detail, err := fx.svc.BuildDetail(context.Background(), runID, 10, nil, nil, "")
	if err != nil {
		t.Fatalf("BuildDetail: %v", err)
	}
	slip, err := fx.svc.GenerateSlip(context.Background(), detail.ID, "January 2026", "")
	if err != nil {
		t.Fatalf("GenerateSlip: %v", err)
	}

	pdf, err := fx.svc.SlipPDF(context.Background(), slip.ID)
	if err != nil {
		t.Fatalf("SlipPDF: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("empty pdf output")
	}
	if string(pdf[:4]) != "%PDF" {
		t.Fatalf("output does not start with a pdf header")
	}
}
