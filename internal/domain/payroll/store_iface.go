package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hrms/internal/domain/tax"
)

type StoreAPI interface {
	ListStructures(ctx context.Context, organizationID int64, limit, offset int) ([]SalaryStructure, int, error)
	GetStructure(ctx context.Context, id int64) (*SalaryStructure, error)
	CreateStructure(ctx context.Context, structure *SalaryStructure) (int64, error)
	UpdateStructure(ctx context.Context, structure *SalaryStructure) error
	DeleteStructure(ctx context.Context, id int64) error
	CountActiveAssignments(ctx context.Context, structureID int64) (int, error)

	GetComponent(ctx context.Context, id int64) (*SalaryComponent, error)
	CreateComponent(ctx context.Context, component *SalaryComponent) (int64, error)
	UpdateComponent(ctx context.Context, component *SalaryComponent) error
	DeleteComponent(ctx context.Context, id int64) error

	GetAssignment(ctx context.Context, id int64) (*SalaryAssignment, error)
	ListAssignments(ctx context.Context, employeeID int64) ([]SalaryAssignment, error)
	ActiveAssignment(ctx context.Context, employeeID int64) (*SalaryAssignment, error)
	// CreateAssignment closes any prior active assignment for the employee in
	// the same transaction before inserting the new one.
	CreateAssignment(ctx context.Context, assignment *SalaryAssignment) (int64, error)

	ListRuns(ctx context.Context, organizationID int64, limit, offset int) ([]Run, int, error)
	GetRun(ctx context.Context, id int64) (*Run, error)
	CreateRun(ctx context.Context, run *Run) (int64, error)
	UpdateRun(ctx context.Context, run *Run) error
	// CountOverlappingRuns excludes cancelled runs and, when excludeID is
	// nonzero, the run being edited.
	CountOverlappingRuns(ctx context.Context, organizationID int64, start, end time.Time, excludeID int64) (int, error)
	// TransitionRun writes run's status, totals, and stamp dates only when the
	// stored status still equals expected. Returns false when the row was in
	// another state.
	TransitionRun(ctx context.Context, run *Run, expected string) (bool, error)

	ListDetails(ctx context.Context, runID int64) ([]Detail, error)
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	DetailExists(ctx context.Context, runID, employeeID int64) (bool, error)
	CreateDetail(ctx context.Context, detail *Detail) (int64, error)
	UpdateDetail(ctx context.Context, detail *Detail) error
	EmployeesWithActiveAssignment(ctx context.Context, organizationID int64) ([]int64, error)

	ListSlips(ctx context.Context, employeeID int64, limit, offset int) ([]Slip, int, error)
	GetSlip(ctx context.Context, id int64) (*Slip, error)
	GetSlipByDetail(ctx context.Context, detailID int64) (*Slip, error)
	CreateSlip(ctx context.Context, slip *Slip) (int64, error)
	// TransitionSlip is the slip counterpart of TransitionRun.
	TransitionSlip(ctx context.Context, slip *Slip, expected string) (bool, error)
}

// TaxSource supplies the organization's active tax configuration. A nil
// configuration (no error) means the organization levies no tax.
type TaxSource interface {
	ActiveConfiguration(ctx context.Context, organizationID int64) (*tax.Configuration, error)
}

// LeaveSource reports calendar days of approved leave intersecting a period.
type LeaveSource interface {
	ApprovedLeaveDays(ctx context.Context, employeeID int64, periodStart, periodEnd time.Time) (decimal.Decimal, error)
}

// BenefitSource reports the summed employee contribution across enrollments
// active on the reference date.
type BenefitSource interface {
	EmployeeContribution(ctx context.Context, employeeID int64, onDate time.Time) (decimal.Decimal, error)
}
