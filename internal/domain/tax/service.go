package tax

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListConfigurations(ctx context.Context, organizationID int64, limit, offset int) ([]Configuration, int, error) {
	return s.store.ListConfigurations(ctx, organizationID, limit, offset)
}

func (s *Service) GetConfiguration(ctx context.Context, id int64) (*Configuration, error) {
	return s.store.GetConfiguration(ctx, id)
}

// ActiveConfiguration resolves the configuration payroll evaluates against:
// latest financial year, most recently updated. Returns nil without error
// when the organization has none.
func (s *Service) ActiveConfiguration(ctx context.Context, organizationID int64) (*Configuration, error) {
	return s.store.ActiveConfiguration(ctx, organizationID)
}

func (s *Service) CreateConfiguration(ctx context.Context, cfg Configuration) (int64, error) {
	if err := validateConfiguration(cfg); err != nil {
		return 0, err
	}
	cfg.Touch(time.Now().UTC())
	return s.store.CreateConfiguration(ctx, &cfg)
}

func (s *Service) UpdateConfiguration(ctx context.Context, cfg Configuration) error {
	if err := validateConfiguration(cfg); err != nil {
		return err
	}
	existing, err := s.store.GetConfiguration(ctx, cfg.ID)
	if err != nil {
		return err
	}
	cfg.OrganizationID = existing.OrganizationID
	cfg.CreatedAt = existing.CreatedAt
	cfg.Touch(time.Now().UTC())
	return s.store.UpdateConfiguration(ctx, &cfg)
}

// DeleteConfiguration removes the configuration and its slabs.
func (s *Service) DeleteConfiguration(ctx context.Context, id int64) error {
	if _, err := s.store.GetConfiguration(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteConfiguration(ctx, id)
}

func (s *Service) ListSlabs(ctx context.Context, configurationID int64) ([]Slab, error) {
	if _, err := s.store.GetConfiguration(ctx, configurationID); err != nil {
		return nil, err
	}
	return s.store.ListSlabs(ctx, configurationID)
}

func (s *Service) CreateSlab(ctx context.Context, slab Slab) (int64, error) {
	if err := validateSlab(slab); err != nil {
		return 0, err
	}
	if _, err := s.store.GetConfiguration(ctx, slab.ConfigurationID); err != nil {
		return 0, err
	}
	existing, err := s.store.ListSlabs(ctx, slab.ConfigurationID)
	if err != nil {
		return 0, err
	}
	if overlapsAny(slab, existing, 0) {
		return 0, &SlabOverlapError{ConfigurationID: slab.ConfigurationID}
	}
	slab.IsActive = true
	slab.Touch(time.Now().UTC())
	return s.store.CreateSlab(ctx, &slab)
}

func (s *Service) UpdateSlab(ctx context.Context, slab Slab) error {
	if err := validateSlab(slab); err != nil {
		return err
	}
	current, err := s.store.GetSlab(ctx, slab.ID)
	if err != nil {
		return err
	}
	slab.ConfigurationID = current.ConfigurationID
	existing, err := s.store.ListSlabs(ctx, slab.ConfigurationID)
	if err != nil {
		return err
	}
	if slab.IsActive && overlapsAny(slab, existing, slab.ID) {
		return &SlabOverlapError{ConfigurationID: slab.ConfigurationID}
	}
	slab.CreatedAt = current.CreatedAt
	slab.Touch(time.Now().UTC())
	return s.store.UpdateSlab(ctx, &slab)
}

func (s *Service) DeleteSlab(ctx context.Context, id int64) error {
	if _, err := s.store.GetSlab(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteSlab(ctx, id)
}

// Estimate answers the display/estimation question for an income: the single
// applicable bracket rate and the marginal tax Calculate would charge.
func (s *Service) Estimate(ctx context.Context, organizationID int64, income decimal.Decimal) (rate, amount decimal.Decimal, err error) {
	cfg, err := s.store.ActiveConfiguration(ctx, organizationID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return ApplicableRate(cfg, income), Calculate(cfg, income, 1), nil
}

func validateConfiguration(cfg Configuration) error {
	if err := validateRate(cfg.StandardRate); err != nil {
		return err
	}
	if cfg.MinimumTaxableIncome.IsNegative() || cfg.MonthlyExemption.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func validateSlab(slab Slab) error {
	if slab.FromAmount.IsNegative() || slab.ToAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if !slab.Unbounded() && slab.FromAmount.GreaterThan(slab.ToAmount) {
		return ErrInvalidRange
	}
	return validateRate(slab.Rate)
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return ErrInvalidRate
	}
	return nil
}

// overlapsAny checks the half-open band against all other active slabs.
func overlapsAny(candidate Slab, slabs []Slab, skipID int64) bool {
	for _, other := range slabs {
		if other.ID == skipID || !other.IsActive {
			continue
		}
		if bandsOverlap(candidate, other) {
			return true
		}
	}
	return false
}

func bandsOverlap(a, b Slab) bool {
	aBelowB := !a.Unbounded() && a.ToAmount.LessThanOrEqual(b.FromAmount)
	bBelowA := !b.Unbounded() && b.ToAmount.LessThanOrEqual(a.FromAmount)
	return !aBelowB && !bBelowA
}
