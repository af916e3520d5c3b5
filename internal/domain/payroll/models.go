package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryStructure is an organization-level template of a basic salary plus
// ordered earning/deduction components. Structures referenced by an active
// assignment are treated as immutable: edits never rewrite already-computed
// payroll details.
type SalaryStructure struct {
	ID             int64             `json:"id"`
	OrganizationID int64             `json:"organizationId"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	BasicSalary    decimal.Decimal   `json:"basicSalary"`
	IsActive       bool              `json:"isActive"`
	Components     []SalaryComponent `json:"components,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func (s *SalaryStructure) Touch(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// SalaryComponent is one named line item of a structure. Exactly one of
// Amount / Percentage is the source of value, selected by IsPercentageBased.
type SalaryComponent struct {
	ID                int64           `json:"id"`
	SalaryStructureID int64           `json:"salaryStructureId"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Percentage        decimal.Decimal `json:"percentage"`
	IsPercentageBased bool            `json:"isPercentageBased"`
	IsTaxable         bool            `json:"isTaxable"`
	IsLeaveBased      bool            `json:"isLeaveBased"`
	DisplayOrder      int             `json:"displayOrder"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (c *SalaryComponent) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

// SalaryAssignment links an employee to a structure for a time range. At most
// one assignment per employee is active at any instant; creating a new one
// closes the previous in the same transaction.
type SalaryAssignment struct {
	ID                  int64            `json:"id"`
	EmployeeID          int64            `json:"employeeId"`
	SalaryStructureID   int64            `json:"salaryStructureId"`
	EffectiveDate       time.Time        `json:"effectiveDate"`
	EndDate             *time.Time       `json:"endDate,omitempty"`
	OverrideBasicSalary *decimal.Decimal `json:"overrideBasicSalary,omitempty"`
	GrossSalary         decimal.Decimal  `json:"grossSalary"`
	NetSalary           decimal.Decimal  `json:"netSalary"`
	IsActive            bool             `json:"isActive"`
	Remarks             string           `json:"remarks,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

func (a *SalaryAssignment) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// Run is one payroll period's batch of per-employee calculations. Totals are
// always recomputed from details, never hand-edited.
type Run struct {
	ID              int64           `json:"id"`
	OrganizationID  int64           `json:"organizationId"`
	Name            string          `json:"name"`
	Frequency       string          `json:"frequency"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Status          string          `json:"status"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	EmployeeCount   int             `json:"employeeCount"`
	ProcessedDate   *time.Time      `json:"processedDate,omitempty"`
	PaidDate        *time.Time      `json:"paidDate,omitempty"`
	Remarks         string          `json:"remarks,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (r *Run) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// Detail is one employee's computed result within one run. At most one detail
// exists per (run, employee) pair, enforced by the store.
type Detail struct {
	ID               int64           `json:"id"`
	RunID            int64           `json:"runId"`
	EmployeeID       int64           `json:"employeeId"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	TotalTax         decimal.Decimal `json:"totalTax"`
	GrossSalary      decimal.Decimal `json:"grossSalary"`
	NetSalary        decimal.Decimal `json:"netSalary"`
	LeaveDeduction   decimal.Decimal `json:"leaveDeduction"`
	BenefitDeduction decimal.Decimal `json:"benefitDeduction"`
	WorkingDays      *int            `json:"workingDays,omitempty"`
	DaysWorked       *int            `json:"daysWorked,omitempty"`
	LeaveDays        decimal.Decimal `json:"leaveDays"`
	Status           string          `json:"status"`
	Remarks          string          `json:"remarks,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (d *Detail) Touch(now time.Time) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}

// Slip expands a finalized detail back into named components for a payslip.
type Slip struct {
	ID                 int64           `json:"id"`
	DetailID           int64           `json:"detailId"`
	EmployeeID         int64           `json:"employeeId"`
	SlipNumber         string          `json:"slipNumber"`
	Period             string          `json:"period"`
	GrossSalary        decimal.Decimal `json:"grossSalary"`
	TotalDeductions    decimal.Decimal `json:"totalDeductions"`
	IncomeTax          decimal.Decimal `json:"incomeTax"`
	NetPayable         decimal.Decimal `json:"netPayable"`
	Status             string          `json:"status"`
	SalaryCreditedDate *time.Time      `json:"salaryCreditedDate,omitempty"`
	Remarks            string          `json:"remarks,omitempty"`
	Components         []SlipComponent `json:"components,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (s *Slip) Touch(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

type SlipComponent struct {
	ID           int64           `json:"id"`
	SlipID       int64           `json:"slipId"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	DisplayOrder int             `json:"displayOrder"`
}

// RunSummary reports the outcome of a batch generate over a run.
type RunSummary struct {
	Created int     `json:"created"`
	Skipped int     `json:"skipped"`
	Failed  []int64 `json:"failed,omitempty"`
}
