package payroll

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DeductionResult carries a fail-soft deduction amount. When the underlying
// lookup failed, Amount is zero, Degraded is set, and Cause holds the error so
// the builder can log it without aborting the payroll detail.
type DeductionResult struct {
	Amount   decimal.Decimal
	Days     decimal.Decimal
	Degraded bool
	Cause    error
}

func zeroDeduction() DeductionResult {
	return DeductionResult{Amount: decimal.Zero, Days: decimal.Zero}
}

func degradedDeduction(cause error) DeductionResult {
	return DeductionResult{Amount: decimal.Zero, Days: decimal.Zero, Degraded: true, Cause: cause}
}

// leaveComponent picks the deduction component that prices unpaid leave. An
// explicitly flagged component wins; otherwise the first active deduction
// whose name mentions leave. Nil when the structure defines neither, which
// means the organization applies no leave penalty.
func leaveComponent(structure *SalaryStructure) *SalaryComponent {
	if structure == nil {
		return nil
	}
	for i := range structure.Components {
		c := &structure.Components[i]
		if c.IsActive && c.Type == ComponentTypeDeduction && c.IsLeaveBased {
			return c
		}
	}
	for i := range structure.Components {
		c := &structure.Components[i]
		if c.IsActive && c.Type == ComponentTypeDeduction && strings.Contains(strings.ToLower(c.Name), "leave") {
			return c
		}
	}
	return nil
}

// leaveDeduction prices approved leave days against the structure's leave
// component. Percentage components charge gross × pct/100 scaled by
// days/30; fixed components charge amount × days.
func (s *Service) leaveDeduction(ctx context.Context, employeeID int64, periodStart, periodEnd time.Time, gross decimal.Decimal, structure *SalaryStructure) DeductionResult {
	if s.leave == nil {
		return zeroDeduction()
	}
	days, err := s.leave.ApprovedLeaveDays(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return degradedDeduction(err)
	}
	comp := leaveComponent(structure)
	if comp == nil || !days.IsPositive() {
		return DeductionResult{Amount: decimal.Zero, Days: days}
	}

	var amount decimal.Decimal
	if comp.IsPercentageBased {
		monthly := gross.Mul(comp.Percentage).Div(hundred)
		amount = monthly.Mul(days).Div(decimal.NewFromInt(leaveDaysPerMonth))
	} else {
		amount = comp.Amount.Mul(days)
	}
	return DeductionResult{Amount: amount, Days: days}
}

// benefitDeduction sums employee contributions across enrollments active on
// the reference date. Same fail-soft policy as leaveDeduction.
func (s *Service) benefitDeduction(ctx context.Context, employeeID int64, onDate time.Time) DeductionResult {
	if s.benefits == nil {
		return zeroDeduction()
	}
	amount, err := s.benefits.EmployeeContribution(ctx, employeeID, onDate)
	if err != nil {
		return degradedDeduction(err)
	}
	return DeductionResult{Amount: amount, Days: decimal.Zero}
}
