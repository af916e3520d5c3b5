package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// componentValue resolves one component against its base amount: the basic
// salary for earnings, the gross salary for deductions.
func componentValue(c SalaryComponent, base decimal.Decimal) decimal.Decimal {
	if c.IsPercentageBased {
		return base.Mul(c.Percentage).Div(hundred)
	}
	return c.Amount
}

// orderedComponents returns active components of the given types sorted by
// display order. Summation order never changes the totals; the ordering keeps
// slip rendering and logs deterministic.
func orderedComponents(structure *SalaryStructure, types ...string) []SalaryComponent {
	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	var out []SalaryComponent
	for _, c := range structure.Components {
		if c.IsActive && wanted[c.Type] {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// ComputeGross evaluates the structure's earning components on top of the
// basic salary. A nil structure yields zero: the employee is unconfigured,
// which is reported upstream rather than treated as an error here.
func ComputeGross(structure *SalaryStructure, overrideBasic *decimal.Decimal) decimal.Decimal {
	if structure == nil {
		return decimal.Zero
	}
	basic := structure.BasicSalary
	if overrideBasic != nil {
		basic = *overrideBasic
	}
	gross := basic
	for _, c := range orderedComponents(structure, ComponentTypeEarning) {
		gross = gross.Add(componentValue(c, basic))
	}
	return gross
}

// ComputeNet subtracts the structure's deduction and tax components from
// gross. Percentage components apply against gross. The result is floored at
// zero: net salary is never negative no matter how deductions are configured.
func ComputeNet(gross decimal.Decimal, structure *SalaryStructure) decimal.Decimal {
	if structure == nil {
		return decimal.Zero
	}
	net := gross
	for _, c := range orderedComponents(structure, ComponentTypeDeduction, ComponentTypeTax) {
		net = net.Sub(componentValue(c, gross))
	}
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// Prorate scales amount by daysWorked/workingDays. The amount passes through
// untouched unless both day counts are present and workingDays is positive.
// Scaling is a single decimal mul/div so no intermediate rounding compounds
// across gross and net.
func Prorate(amount decimal.Decimal, daysWorked, workingDays *int) decimal.Decimal {
	if daysWorked == nil || workingDays == nil || *workingDays <= 0 {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(int64(*daysWorked))).Div(decimal.NewFromInt(int64(*workingDays)))
}

// ValidateComponent enforces the write-time component invariant: a fixed
// component needs a positive amount, a percentage component needs a
// percentage in (0, 100].
func ValidateComponent(c SalaryComponent) error {
	switch c.Type {
	case ComponentTypeEarning, ComponentTypeDeduction, ComponentTypeTax:
	default:
		return ErrInvalidComponent
	}
	if c.IsPercentageBased {
		if c.Percentage.IsPositive() && c.Percentage.LessThanOrEqual(hundred) {
			return nil
		}
		return ErrInvalidComponent
	}
	if c.Amount.IsPositive() {
		return nil
	}
	return ErrInvalidComponent
}
