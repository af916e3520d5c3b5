package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Configuration is one organization's tax rule set for a financial year. The
// active configuration for an evaluation is the latest financial year, most
// recently updated.
type Configuration struct {
	ID                   int64           `json:"id"`
	OrganizationID       int64           `json:"organizationId"`
	Name                 string          `json:"name"`
	FinancialYear        int             `json:"financialYear"`
	Country              string          `json:"country,omitempty"`
	Region               string          `json:"region,omitempty"`
	StandardRate         decimal.Decimal `json:"standardRate"`
	MinimumTaxableIncome decimal.Decimal `json:"minimumTaxableIncome"`
	MonthlyExemption     decimal.Decimal `json:"monthlyExemption"`
	UseProgressive       bool            `json:"useProgressive"`
	IsActive             bool            `json:"isActive"`
	Slabs                []Slab          `json:"slabs,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func (c *Configuration) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

// Slab is one income band. Brackets are half-open [From, To): a boundary
// value belongs to the higher slab, so adjacent slabs may share endpoints
// without double counting. A zero To marks the unbounded top band.
type Slab struct {
	ID              int64           `json:"id"`
	ConfigurationID int64           `json:"configurationId"`
	FromAmount      decimal.Decimal `json:"fromAmount"`
	ToAmount        decimal.Decimal `json:"toAmount"`
	Rate            decimal.Decimal `json:"rate"`
	DisplayOrder    int             `json:"displayOrder"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (s *Slab) Touch(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// Unbounded reports whether the slab has no upper limit.
func (s Slab) Unbounded() bool {
	return s.ToAmount.IsZero()
}

// Contains reports whether income falls inside the slab's half-open band.
func (s Slab) Contains(income decimal.Decimal) bool {
	if income.LessThan(s.FromAmount) {
		return false
	}
	return s.Unbounded() || income.LessThan(s.ToAmount)
}
