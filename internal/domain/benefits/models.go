package benefits

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is an organization-level benefit (pension, medical, insurance) with a
// default per-period employee contribution.
type Plan struct {
	ID                   int64           `json:"id"`
	OrganizationID       int64           `json:"organizationId"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	Provider             string          `json:"provider,omitempty"`
	EmployeeContribution decimal.Decimal `json:"employeeContribution"`
	EmployerContribution decimal.Decimal `json:"employerContribution"`
	IsActive             bool            `json:"isActive"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func (p *Plan) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// Enrollment joins an employee to a plan. A nonzero override replaces the
// plan's default employee contribution; zero means "use the plan default".
type Enrollment struct {
	ID                           int64           `json:"id"`
	EmployeeID                   int64           `json:"employeeId"`
	PlanID                       int64           `json:"planId"`
	EnrollmentDate               time.Time       `json:"enrollmentDate"`
	EndDate                      *time.Time      `json:"endDate,omitempty"`
	OverrideEmployeeContribution decimal.Decimal `json:"overrideEmployeeContribution"`
	IsActive                     bool            `json:"isActive"`
	CreatedAt                    time.Time       `json:"createdAt"`
	UpdatedAt                    time.Time       `json:"updatedAt"`
}

func (e *Enrollment) Touch(now time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
}

// ContributionFor resolves the per-period employee contribution of one
// enrollment against its plan.
func (e *Enrollment) ContributionFor(plan *Plan) decimal.Decimal {
	if !e.OverrideEmployeeContribution.IsZero() {
		return e.OverrideEmployeeContribution
	}
	if plan == nil {
		return decimal.Zero
	}
	return plan.EmployeeContribution
}

// ActiveOn reports whether the enrollment covers the given date.
func (e *Enrollment) ActiveOn(date time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.EnrollmentDate.After(date) {
		return false
	}
	return e.EndDate == nil || !e.EndDate.Before(date)
}
