package tax

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculate computes income tax for a gross salary under the configuration.
// periodsInRun scales the monthly exemption when a run covers more than one
// month. With progressive slabs each band taxes only the income inside it
// (marginal semantics); a single band's rate is never applied to the whole
// income.
func Calculate(cfg *Configuration, grossSalary decimal.Decimal, periodsInRun int) decimal.Decimal {
	if cfg == nil {
		return decimal.Zero
	}
	if grossSalary.LessThan(cfg.MinimumTaxableIncome) {
		return decimal.Zero
	}
	if periodsInRun < 1 {
		periodsInRun = 1
	}
	taxable := grossSalary.Sub(cfg.MonthlyExemption.Mul(decimal.NewFromInt(int64(periodsInRun))))
	if !taxable.IsPositive() {
		return decimal.Zero
	}

	slabs := activeSlabs(cfg)
	if cfg.UseProgressive && len(slabs) > 0 {
		return marginalTax(taxable, slabs)
	}
	return taxable.Mul(cfg.StandardRate).Div(hundred)
}

// ApplicableRate returns the rate of the slab containing income, or the
// standard rate when no slab applies. This is a single-bracket lookup for
// display and estimation; Calculate is the authoritative marginal figure.
func ApplicableRate(cfg *Configuration, income decimal.Decimal) decimal.Decimal {
	if cfg == nil {
		return decimal.Zero
	}
	slabs := activeSlabs(cfg)
	if !cfg.UseProgressive || len(slabs) == 0 {
		return cfg.StandardRate
	}
	for _, slab := range slabs {
		if slab.Contains(income) {
			return slab.Rate
		}
	}
	return cfg.StandardRate
}

func marginalTax(taxable decimal.Decimal, slabs []Slab) decimal.Decimal {
	total := decimal.Zero
	for _, slab := range slabs {
		upper := taxable
		if !slab.Unbounded() && slab.ToAmount.LessThan(taxable) {
			upper = slab.ToAmount
		}
		portion := upper.Sub(slab.FromAmount)
		if !portion.IsPositive() {
			continue
		}
		total = total.Add(portion.Mul(slab.Rate).Div(hundred))
	}
	return total
}

func activeSlabs(cfg *Configuration) []Slab {
	var out []Slab
	for _, slab := range cfg.Slabs {
		if slab.IsActive {
			out = append(out, slab)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FromAmount.LessThan(out[j].FromAmount)
	})
	return out
}
