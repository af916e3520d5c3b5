package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

func (s *Service) ListRuns(ctx context.Context, organizationID int64, limit, offset int) ([]Run, int, error) {
	return s.store.ListRuns(ctx, organizationID, limit, offset)
}

func (s *Service) GetRun(ctx context.Context, id int64) (*Run, error) {
	return s.store.GetRun(ctx, id)
}

// CreateRun opens a draft run after checking the period does not collide with
// another non-cancelled run of the organization.
func (s *Service) CreateRun(ctx context.Context, run Run) (int64, error) {
	if run.EndDate.Before(run.StartDate) {
		return 0, ErrInvalidPeriod
	}
	overlapping, err := s.store.CountOverlappingRuns(ctx, run.OrganizationID, run.StartDate, run.EndDate, 0)
	if err != nil {
		return 0, err
	}
	if overlapping > 0 {
		return 0, ErrRunOverlap
	}
	run.Status = RunStatusDraft
	run.TotalGross = decimal.Zero
	run.TotalDeductions = decimal.Zero
	run.TotalTax = decimal.Zero
	run.TotalNet = decimal.Zero
	run.Touch(time.Now().UTC())
	return s.store.CreateRun(ctx, &run)
}

// UpdateRun edits run metadata. Allowed only while the run is still a draft.
func (s *Service) UpdateRun(ctx context.Context, run Run) error {
	current, err := s.store.GetRun(ctx, run.ID)
	if err != nil {
		return err
	}
	if current.Status != RunStatusDraft {
		return &StateError{Entity: "payroll run", ID: current.ID, Status: current.Status, Want: RunStatusDraft}
	}
	if run.EndDate.Before(run.StartDate) {
		return ErrInvalidPeriod
	}
	overlapping, err := s.store.CountOverlappingRuns(ctx, current.OrganizationID, run.StartDate, run.EndDate, run.ID)
	if err != nil {
		return err
	}
	if overlapping > 0 {
		return ErrRunOverlap
	}
	current.Name = run.Name
	current.Frequency = run.Frequency
	current.StartDate = run.StartDate
	current.EndDate = run.EndDate
	current.Remarks = run.Remarks
	current.Touch(time.Now().UTC())
	return s.store.UpdateRun(ctx, current)
}

// Process finalizes a draft run: totals and employee count are recomputed as
// straight sums over current details, then the run flips to Processed. The
// status write is compare-and-swap so two concurrent triggers cannot both
// process the same run.
func (s *Service) Process(ctx context.Context, id int64) (*Run, error) {
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != RunStatusDraft {
		return nil, &StateError{Entity: "payroll run", ID: run.ID, Status: run.Status, Want: RunStatusDraft}
	}
	details, err := s.store.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrRunEmpty
	}

	sumTotals(run, details)
	now := time.Now().UTC()
	run.Status = RunStatusProcessed
	run.ProcessedDate = &now
	run.Touch(now)

	swapped, err := s.store.TransitionRun(ctx, run, RunStatusDraft)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &StateError{Entity: "payroll run", ID: run.ID, Status: RunStatusProcessed, Want: RunStatusDraft}
	}
	return run, nil
}

// MarkPaid stamps the payment date on a processed run.
func (s *Service) MarkPaid(ctx context.Context, id int64, paidDate time.Time) (*Run, error) {
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != RunStatusProcessed {
		return nil, &StateError{Entity: "payroll run", ID: run.ID, Status: run.Status, Want: RunStatusProcessed}
	}
	run.Status = RunStatusPaid
	run.PaidDate = &paidDate
	run.Touch(time.Now().UTC())

	swapped, err := s.store.TransitionRun(ctx, run, RunStatusProcessed)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, &StateError{Entity: "payroll run", ID: run.ID, Status: RunStatusPaid, Want: RunStatusProcessed}
	}
	return run, nil
}

// Cancel abandons a draft run. Processed and paid runs are immutable history.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if run.Status != RunStatusDraft {
		return &StateError{Entity: "payroll run", ID: run.ID, Status: run.Status, Want: RunStatusDraft}
	}
	run.Status = RunStatusCancelled
	run.Touch(time.Now().UTC())

	swapped, err := s.store.TransitionRun(ctx, run, RunStatusDraft)
	if err != nil {
		return err
	}
	if !swapped {
		return &StateError{Entity: "payroll run", ID: run.ID, Status: RunStatusCancelled, Want: RunStatusDraft}
	}
	return nil
}

// GenerateForAll batch-builds a detail for every employee of the organization
// holding an active salary assignment. Employees already in the run are
// skipped, so re-running after a partial failure only fills the gaps.
func (s *Service) GenerateForAll(ctx context.Context, runID int64, workingDays *int) (*RunSummary, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != RunStatusDraft {
		return nil, &StateError{Entity: "payroll run", ID: run.ID, Status: run.Status, Want: RunStatusDraft}
	}

	employees, err := s.store.EmployeesWithActiveAssignment(ctx, run.OrganizationID)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{}
	for _, employeeID := range employees {
		_, err := s.BuildDetail(ctx, runID, employeeID, workingDays, nil, "")
		switch err.(type) {
		case nil:
			summary.Created++
		case *DuplicateDetailError:
			summary.Skipped++
		default:
			summary.Failed = append(summary.Failed, employeeID)
			s.logger.Error("payroll detail generation failed",
				"run_id", runID, "employee_id", employeeID, "error", err)
		}
	}
	return summary, nil
}

// RecalculateAll re-derives every existing detail of a draft run from current
// structure, leave, benefit, and tax state. Recorded WorkingDays and
// DaysWorked stay as they are; rerunning over unchanged inputs is a no-op.
func (s *Service) RecalculateAll(ctx context.Context, runID int64) error {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != RunStatusDraft {
		return &StateError{Entity: "payroll run", ID: run.ID, Status: run.Status, Want: RunStatusDraft}
	}
	details, err := s.store.ListDetails(ctx, runID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range details {
		detail := &details[i]
		assignment, err := s.store.ActiveAssignment(ctx, detail.EmployeeID)
		if err != nil {
			return err
		}
		if assignment == nil {
			s.logger.Warn("skipping recalculation, employee lost active assignment",
				"run_id", runID, "employee_id", detail.EmployeeID)
			continue
		}
		structure, err := s.store.GetStructure(ctx, assignment.SalaryStructureID)
		if err != nil {
			return err
		}

		amounts := s.computeAmounts(ctx, run, detail.EmployeeID, assignment, structure, detail.WorkingDays, detail.DaysWorked)
		detail.TotalEarnings = amounts.Gross
		detail.TotalDeductions = amounts.TotalDeductions
		detail.TotalTax = amounts.Tax
		detail.GrossSalary = amounts.Gross
		detail.NetSalary = amounts.Net
		detail.LeaveDeduction = amounts.LeaveDeduction
		detail.BenefitDeduction = amounts.BenefitDeduction
		detail.LeaveDays = amounts.LeaveDays
		detail.Touch(now)
		if err := s.store.UpdateDetail(ctx, detail); err != nil {
			return err
		}
	}
	return nil
}

func sumTotals(run *Run, details []Detail) {
	gross, deductions, taxTotal, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, d := range details {
		gross = gross.Add(d.GrossSalary)
		deductions = deductions.Add(d.TotalDeductions)
		taxTotal = taxTotal.Add(d.TotalTax)
		net = net.Add(d.NetSalary)
	}
	run.TotalGross = gross
	run.TotalDeductions = deductions
	run.TotalTax = taxTotal
	run.TotalNet = net
	run.EmployeeCount = len(details)
}
