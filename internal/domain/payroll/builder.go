package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hrms/internal/domain/tax"
)

// detailAmounts is the computed money side of one detail, shared by initial
// construction and recalculation.
type detailAmounts struct {
	Gross            decimal.Decimal
	TotalDeductions  decimal.Decimal
	Tax              decimal.Decimal
	Net              decimal.Decimal
	LeaveDeduction   decimal.Decimal
	BenefitDeduction decimal.Decimal
	LeaveDays        decimal.Decimal
}

// BuildDetail computes and persists one employee's payroll detail for a draft
// run. Day counts prorate gross and the structure-implied deductions; leave,
// benefit, and tax amounts stack on top.
func (s *Service) BuildDetail(ctx context.Context, runID, employeeID int64, workingDays, daysWorked *int, remarks string) (*Detail, error) {
	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Status != RunStatusDraft {
		return nil, &StateError{Entity: "payroll run", ID: run.ID, Status: run.Status, Want: RunStatusDraft}
	}
	if err := validateDayCounts(workingDays, daysWorked); err != nil {
		return nil, err
	}

	exists, err := s.store.DetailExists(ctx, runID, employeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &DuplicateDetailError{RunID: runID, EmployeeID: employeeID}
	}

	assignment, err := s.store.ActiveAssignment(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, &NoActiveSalaryError{EmployeeID: employeeID}
	}
	structure, err := s.store.GetStructure(ctx, assignment.SalaryStructureID)
	if err != nil {
		return nil, err
	}

	amounts := s.computeAmounts(ctx, run, employeeID, assignment, structure, workingDays, daysWorked)

	detail := &Detail{
		RunID:            runID,
		EmployeeID:       employeeID,
		TotalEarnings:    amounts.Gross,
		TotalDeductions:  amounts.TotalDeductions,
		TotalTax:         amounts.Tax,
		GrossSalary:      amounts.Gross,
		NetSalary:        amounts.Net,
		LeaveDeduction:   amounts.LeaveDeduction,
		BenefitDeduction: amounts.BenefitDeduction,
		WorkingDays:      workingDays,
		DaysWorked:       daysWorked,
		LeaveDays:        amounts.LeaveDays,
		Status:           DetailStatusDraft,
		Remarks:          remarks,
	}
	detail.Touch(time.Now().UTC())

	id, err := s.store.CreateDetail(ctx, detail)
	if err != nil {
		return nil, err
	}
	detail.ID = id
	return detail, nil
}

// computeAmounts runs the calculation pipeline: gross from the structure,
// proration, structure-implied deductions, fail-soft leave/benefit amounts,
// then income tax on the prorated gross. Net is floored at zero.
func (s *Service) computeAmounts(ctx context.Context, run *Run, employeeID int64, assignment *SalaryAssignment, structure *SalaryStructure, workingDays, daysWorked *int) detailAmounts {
	gross := ComputeGross(structure, assignment.OverrideBasicSalary)
	interimNet := ComputeNet(gross, structure)
	gross = Prorate(gross, daysWorked, workingDays)
	interimNet = Prorate(interimNet, daysWorked, workingDays)
	structureDeductions := gross.Sub(interimNet)

	leaveRes := s.leaveDeduction(ctx, employeeID, run.StartDate, run.EndDate, gross, structure)
	if leaveRes.Degraded {
		s.logger.Warn("leave deduction degraded to zero",
			"employee_id", employeeID, "run_id", run.ID, "error", leaveRes.Cause)
	}
	benefitRes := s.benefitDeduction(ctx, employeeID, run.EndDate)
	if benefitRes.Degraded {
		s.logger.Warn("benefit deduction degraded to zero",
			"employee_id", employeeID, "run_id", run.ID, "error", benefitRes.Cause)
	}

	taxAmount := decimal.Zero
	if s.tax != nil {
		cfg, err := s.tax.ActiveConfiguration(ctx, run.OrganizationID)
		if err != nil {
			s.logger.Warn("tax configuration lookup failed, taxing zero",
				"organization_id", run.OrganizationID, "run_id", run.ID, "error", err)
		} else {
			taxAmount = tax.Calculate(cfg, gross, periodsInRun(run))
		}
	}

	totalDeductions := structureDeductions.
		Add(leaveRes.Amount).
		Add(benefitRes.Amount).
		Add(taxAmount)
	net := gross.Sub(totalDeductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return detailAmounts{
		Gross:            gross,
		TotalDeductions:  totalDeductions,
		Tax:              taxAmount,
		Net:              net,
		LeaveDeduction:   leaveRes.Amount,
		BenefitDeduction: benefitRes.Amount,
		LeaveDays:        leaveRes.Days,
	}
}

// ApproveDetail moves a detail from Draft to Approved. Payment marking lives
// at the run and slip layers, not here.
func (s *Service) ApproveDetail(ctx context.Context, id int64) error {
	detail, err := s.store.GetDetail(ctx, id)
	if err != nil {
		return err
	}
	if detail.Status != DetailStatusDraft {
		return &StateError{Entity: "payroll detail", ID: detail.ID, Status: detail.Status, Want: DetailStatusDraft}
	}
	detail.Status = DetailStatusApproved
	detail.Touch(time.Now().UTC())
	return s.store.UpdateDetail(ctx, detail)
}

func (s *Service) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	return s.store.GetDetail(ctx, id)
}

func (s *Service) ListDetails(ctx context.Context, runID int64) ([]Detail, error) {
	if _, err := s.store.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.store.ListDetails(ctx, runID)
}

func validateDayCounts(counts ...*int) error {
	for _, c := range counts {
		if c != nil && (*c < 0 || *c > 31) {
			return ErrInvalidDayCount
		}
	}
	return nil
}

// periodsInRun counts the calendar months a run spans, scaling the monthly
// tax exemption for multi-month runs.
func periodsInRun(run *Run) int {
	months := (run.EndDate.Year()-run.StartDate.Year())*12 + int(run.EndDate.Month()-run.StartDate.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
