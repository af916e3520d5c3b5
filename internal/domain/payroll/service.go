package payroll

import (
	"context"
	"log/slog"
	"time"
)

type Service struct {
	store    StoreAPI
	tax      TaxSource
	leave    LeaveSource
	benefits BenefitSource
	logger   *slog.Logger
}

func NewService(store StoreAPI, taxes TaxSource, leaves LeaveSource, benefits BenefitSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, tax: taxes, leave: leaves, benefits: benefits, logger: logger}
}

func (s *Service) ListStructures(ctx context.Context, organizationID int64, limit, offset int) ([]SalaryStructure, int, error) {
	return s.store.ListStructures(ctx, organizationID, limit, offset)
}

func (s *Service) GetStructure(ctx context.Context, id int64) (*SalaryStructure, error) {
	return s.store.GetStructure(ctx, id)
}

func (s *Service) CreateStructure(ctx context.Context, structure SalaryStructure) (int64, error) {
	for _, c := range structure.Components {
		if err := ValidateComponent(c); err != nil {
			return 0, err
		}
	}
	now := time.Now().UTC()
	structure.Touch(now)
	for i := range structure.Components {
		structure.Components[i].IsActive = true
		structure.Components[i].Touch(now)
	}
	return s.store.CreateStructure(ctx, &structure)
}

func (s *Service) UpdateStructure(ctx context.Context, structure SalaryStructure) error {
	existing, err := s.store.GetStructure(ctx, structure.ID)
	if err != nil {
		return err
	}
	structure.OrganizationID = existing.OrganizationID
	structure.CreatedAt = existing.CreatedAt
	structure.Touch(time.Now().UTC())
	return s.store.UpdateStructure(ctx, &structure)
}

// DeleteStructure refuses while any employee's active assignment still
// references the structure.
func (s *Service) DeleteStructure(ctx context.Context, id int64) error {
	if _, err := s.store.GetStructure(ctx, id); err != nil {
		return err
	}
	active, err := s.store.CountActiveAssignments(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrStructureInUse
	}
	return s.store.DeleteStructure(ctx, id)
}

func (s *Service) AddComponent(ctx context.Context, structureID int64, component SalaryComponent) (int64, error) {
	if err := ValidateComponent(component); err != nil {
		return 0, err
	}
	if _, err := s.store.GetStructure(ctx, structureID); err != nil {
		return 0, err
	}
	component.SalaryStructureID = structureID
	component.IsActive = true
	component.Touch(time.Now().UTC())
	return s.store.CreateComponent(ctx, &component)
}

func (s *Service) UpdateComponent(ctx context.Context, component SalaryComponent) error {
	if err := ValidateComponent(component); err != nil {
		return err
	}
	current, err := s.store.GetComponent(ctx, component.ID)
	if err != nil {
		return err
	}
	component.SalaryStructureID = current.SalaryStructureID
	component.CreatedAt = current.CreatedAt
	component.Touch(time.Now().UTC())
	return s.store.UpdateComponent(ctx, &component)
}

func (s *Service) DeleteComponent(ctx context.Context, id int64) error {
	if _, err := s.store.GetComponent(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteComponent(ctx, id)
}

func (s *Service) GetAssignment(ctx context.Context, id int64) (*SalaryAssignment, error) {
	return s.store.GetAssignment(ctx, id)
}

// ListAssignments returns the employee's full assignment history.
func (s *Service) ListAssignments(ctx context.Context, employeeID int64) ([]SalaryAssignment, error) {
	return s.store.ListAssignments(ctx, employeeID)
}

func (s *Service) ActiveAssignment(ctx context.Context, employeeID int64) (*SalaryAssignment, error) {
	assignment, err := s.store.ActiveAssignment(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}
	return assignment, nil
}

// CreateAssignment caches the gross and net derived from the structure on the
// assignment row. The store closes the employee's prior active assignment in
// the same transaction, so at most one is active at any instant.
func (s *Service) CreateAssignment(ctx context.Context, assignment SalaryAssignment) (int64, error) {
	structure, err := s.store.GetStructure(ctx, assignment.SalaryStructureID)
	if err != nil {
		return 0, err
	}
	gross := ComputeGross(structure, assignment.OverrideBasicSalary)
	assignment.GrossSalary = gross
	assignment.NetSalary = ComputeNet(gross, structure)
	assignment.IsActive = true
	if assignment.EffectiveDate.IsZero() {
		assignment.EffectiveDate = time.Now().UTC()
	}
	assignment.Touch(time.Now().UTC())
	return s.store.CreateAssignment(ctx, &assignment)
}
