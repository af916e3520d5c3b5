package tax

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func progressiveConfig() *Configuration {
	return &Configuration{
		ID:             1,
		OrganizationID: 1,
		Name:           "FY 2026",
		StandardRate:   d(20),
		UseProgressive: true,
		IsActive:       true,
		Slabs: []Slab{
			{ID: 1, ConfigurationID: 1, FromAmount: d(0), ToAmount: d(50000), Rate: d(10), IsActive: true},
			{ID: 2, ConfigurationID: 1, FromAmount: d(50000), ToAmount: d(100000), Rate: d(15), IsActive: true},
			{ID: 3, ConfigurationID: 1, FromAmount: d(100000), ToAmount: decimal.Zero, Rate: d(25), IsActive: true},
		},
	}
}

func TestCalculateMarginal(t *testing.T) {
	cfg := progressiveConfig()

	tests := []struct {
		name  string
		gross decimal.Decimal
		want  decimal.Decimal
	}{
		{"inside first band", d(30000), d(3000)},
		{"spanning two bands", d(70000), d(8000)},
		{"exactly at boundary", d(50000), d(5000)},
		{"into unbounded band", d(120000), d(17500)},
		{"zero income", d(0), d(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(cfg, tt.gross, 1)
			if !got.Equal(tt.want) {
				t.Fatalf("Calculate(%s) = %s, want %s", tt.gross, got, tt.want)
			}
		})
	}
}

func TestCalculateMonotonic(t *testing.T) {
	cfg := progressiveConfig()
	prev := decimal.Zero
	for income := int64(10000); income <= 200000; income += 10000 {
		got := Calculate(cfg, d(income), 1)
		if got.LessThan(prev) {
			t.Fatalf("tax decreased: income %d taxed %s, previous %s", income, got, prev)
		}
		prev = got
	}
}

func TestCalculateFlatRate(t *testing.T) {
	cfg := progressiveConfig()
	cfg.UseProgressive = false

	got := Calculate(cfg, d(70000), 1)
	want := d(14000)
	if !got.Equal(want) {
		t.Fatalf("flat Calculate(70000) = %s, want %s", got, want)
	}
}

func TestCalculateProgressiveWithoutSlabsFallsBack(t *testing.T) {
	cfg := progressiveConfig()
	cfg.Slabs = nil

	got := Calculate(cfg, d(10000), 1)
	want := d(2000)
	if !got.Equal(want) {
		t.Fatalf("Calculate without slabs = %s, want standard-rate %s", got, want)
	}
}

func TestCalculateMinimumTaxableIncome(t *testing.T) {
	cfg := progressiveConfig()
	cfg.MinimumTaxableIncome = d(25000)

	if got := Calculate(cfg, d(24999), 1); !got.IsZero() {
		t.Fatalf("income below minimum taxed %s, want 0", got)
	}
	if got := Calculate(cfg, d(25000), 1); got.IsZero() {
		t.Fatalf("income at minimum should be taxed")
	}
}

func TestCalculateExemptionScalesWithPeriods(t *testing.T) {
	cfg := progressiveConfig()
	cfg.UseProgressive = false
	cfg.MonthlyExemption = d(5000)

	one := Calculate(cfg, d(60000), 1)
	three := Calculate(cfg, d(60000), 3)
	// taxable 55000 vs 45000 at 20%.
	if !one.Equal(d(11000)) {
		t.Fatalf("single-period tax = %s, want 11000", one)
	}
	if !three.Equal(d(9000)) {
		t.Fatalf("three-period tax = %s, want 9000", three)
	}
}

func TestCalculateExemptionConsumesEverything(t *testing.T) {
	cfg := progressiveConfig()
	cfg.MonthlyExemption = d(100000)

	if got := Calculate(cfg, d(80000), 1); !got.IsZero() {
		t.Fatalf("fully exempt income taxed %s, want 0", got)
	}
}

func TestCalculateNilConfiguration(t *testing.T) {
	if got := Calculate(nil, d(50000), 1); !got.IsZero() {
		t.Fatalf("nil configuration taxed %s, want 0", got)
	}
}

func TestCalculateIgnoresInactiveSlabs(t *testing.T) {
	cfg := progressiveConfig()
	cfg.Slabs[1].IsActive = false
	cfg.Slabs[2].IsActive = false

	// Only the first band remains, so income past 50000 is untaxed.
	got := Calculate(cfg, d(70000), 1)
	want := d(5000)
	if !got.Equal(want) {
		t.Fatalf("Calculate with inactive bands = %s, want %s", got, want)
	}
}

func TestApplicableRate(t *testing.T) {
	cfg := progressiveConfig()

	tests := []struct {
		name   string
		income decimal.Decimal
		want   decimal.Decimal
	}{
		{"first band", d(10000), d(10)},
		{"second band lower bound", d(50000), d(15)},
		{"just below second band", d(49999), d(10)},
		{"unbounded band", d(500000), d(25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplicableRate(cfg, tt.income)
			if !got.Equal(tt.want) {
				t.Fatalf("ApplicableRate(%s) = %s, want %s", tt.income, got, tt.want)
			}
		})
	}
}

func TestApplicableRateFallsBackToStandard(t *testing.T) {
	cfg := progressiveConfig()
	cfg.Slabs = []Slab{
		{ID: 1, FromAmount: d(10000), ToAmount: d(20000), Rate: d(12), IsActive: true},
	}

	got := ApplicableRate(cfg, d(5000))
	if !got.Equal(d(20)) {
		t.Fatalf("uncovered income rate = %s, want standard 20", got)
	}
}

func TestSlabContains(t *testing.T) {
	bounded := Slab{FromAmount: d(100), ToAmount: d(200)}
	if !bounded.Contains(d(100)) {
		t.Fatalf("band should include its lower bound")
	}
	if bounded.Contains(d(200)) {
		t.Fatalf("band should exclude its upper bound")
	}
	unbounded := Slab{FromAmount: d(200), ToAmount: decimal.Zero}
	if !unbounded.Contains(d(1000000)) {
		t.Fatalf("unbounded band should include any income above FromAmount")
	}
}
