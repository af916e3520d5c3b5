package tax

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListConfigurations(ctx context.Context, organizationID int64, limit, offset int) ([]Configuration, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM tax_configurations WHERE organization_id = $1",
		organizationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, name, financial_year, country, region,
           standard_rate, minimum_taxable_income, monthly_exemption,
           use_progressive, is_active, created_at, updated_at
    FROM tax_configurations
    WHERE organization_id = $1
    ORDER BY financial_year DESC, name
    LIMIT $2 OFFSET $3
  `, organizationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var configs []Configuration
	for rows.Next() {
		var cfg Configuration
		if err := scanConfiguration(rows, &cfg); err != nil {
			return nil, 0, err
		}
		configs = append(configs, cfg)
	}
	return configs, total, rows.Err()
}

func (s *Store) GetConfiguration(ctx context.Context, id int64) (*Configuration, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, name, financial_year, country, region,
           standard_rate, minimum_taxable_income, monthly_exemption,
           use_progressive, is_active, created_at, updated_at
    FROM tax_configurations
    WHERE id = $1
  `, id)

	var cfg Configuration
	if err := scanConfiguration(row, &cfg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigurationNotFound
		}
		return nil, err
	}
	slabs, err := s.ListSlabs(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	cfg.Slabs = slabs
	return &cfg, nil
}

func (s *Store) ActiveConfiguration(ctx context.Context, organizationID int64) (*Configuration, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, name, financial_year, country, region,
           standard_rate, minimum_taxable_income, monthly_exemption,
           use_progressive, is_active, created_at, updated_at
    FROM tax_configurations
    WHERE organization_id = $1 AND is_active = true
    ORDER BY financial_year DESC, updated_at DESC
    LIMIT 1
  `, organizationID)

	var cfg Configuration
	if err := scanConfiguration(row, &cfg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	slabs, err := s.ListSlabs(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	cfg.Slabs = slabs
	return &cfg, nil
}

func (s *Store) CreateConfiguration(ctx context.Context, cfg *Configuration) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tax_configurations
      (organization_id, name, financial_year, country, region, standard_rate,
       minimum_taxable_income, monthly_exemption, use_progressive, is_active,
       created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, cfg.OrganizationID, cfg.Name, cfg.FinancialYear, cfg.Country, cfg.Region,
		cfg.StandardRate, cfg.MinimumTaxableIncome, cfg.MonthlyExemption,
		cfg.UseProgressive, cfg.IsActive, cfg.CreatedAt, cfg.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateConfiguration(ctx context.Context, cfg *Configuration) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tax_configurations
    SET name = $1, financial_year = $2, country = $3, region = $4,
        standard_rate = $5, minimum_taxable_income = $6, monthly_exemption = $7,
        use_progressive = $8, is_active = $9, updated_at = $10
    WHERE id = $11
  `, cfg.Name, cfg.FinancialYear, cfg.Country, cfg.Region, cfg.StandardRate,
		cfg.MinimumTaxableIncome, cfg.MonthlyExemption, cfg.UseProgressive,
		cfg.IsActive, cfg.UpdatedAt, cfg.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConfigurationNotFound
	}
	return nil
}

func (s *Store) DeleteConfiguration(ctx context.Context, id int64) error {
	// Slabs go with the configuration via ON DELETE CASCADE.
	tag, err := s.DB.Exec(ctx, "DELETE FROM tax_configurations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConfigurationNotFound
	}
	return nil
}

func (s *Store) ListSlabs(ctx context.Context, configurationID int64) ([]Slab, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, configuration_id, from_amount, to_amount, rate, display_order,
           is_active, created_at, updated_at
    FROM tax_slabs
    WHERE configuration_id = $1 AND is_active = true
    ORDER BY display_order, from_amount
  `, configurationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slabs []Slab
	for rows.Next() {
		var slab Slab
		if err := rows.Scan(&slab.ID, &slab.ConfigurationID, &slab.FromAmount,
			&slab.ToAmount, &slab.Rate, &slab.DisplayOrder, &slab.IsActive,
			&slab.CreatedAt, &slab.UpdatedAt); err != nil {
			return nil, err
		}
		slabs = append(slabs, slab)
	}
	return slabs, rows.Err()
}

func (s *Store) GetSlab(ctx context.Context, id int64) (*Slab, error) {
	var slab Slab
	err := s.DB.QueryRow(ctx, `
    SELECT id, configuration_id, from_amount, to_amount, rate, display_order,
           is_active, created_at, updated_at
    FROM tax_slabs
    WHERE id = $1
  `, id).Scan(&slab.ID, &slab.ConfigurationID, &slab.FromAmount, &slab.ToAmount,
		&slab.Rate, &slab.DisplayOrder, &slab.IsActive, &slab.CreatedAt, &slab.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlabNotFound
		}
		return nil, err
	}
	return &slab, nil
}

func (s *Store) CreateSlab(ctx context.Context, slab *Slab) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tax_slabs
      (configuration_id, from_amount, to_amount, rate, display_order, is_active,
       created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, slab.ConfigurationID, slab.FromAmount, slab.ToAmount, slab.Rate,
		slab.DisplayOrder, slab.IsActive, slab.CreatedAt, slab.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateSlab(ctx context.Context, slab *Slab) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tax_slabs
    SET from_amount = $1, to_amount = $2, rate = $3, display_order = $4,
        is_active = $5, updated_at = $6
    WHERE id = $7
  `, slab.FromAmount, slab.ToAmount, slab.Rate, slab.DisplayOrder,
		slab.IsActive, slab.UpdatedAt, slab.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlabNotFound
	}
	return nil
}

func (s *Store) DeleteSlab(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM tax_slabs WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlabNotFound
	}
	return nil
}

func scanConfiguration(row pgx.Row, cfg *Configuration) error {
	return row.Scan(&cfg.ID, &cfg.OrganizationID, &cfg.Name, &cfg.FinancialYear,
		&cfg.Country, &cfg.Region, &cfg.StandardRate, &cfg.MinimumTaxableIncome,
		&cfg.MonthlyExemption, &cfg.UseProgressive, &cfg.IsActive,
		&cfg.CreatedAt, &cfg.UpdatedAt)
}
