package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

// Seed makes the instance usable on first boot: one organization and one
// admin login. Demo data adds a salary structure and a tax configuration
// so payroll can be exercised without manual setup.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	orgID, err := ensureOrganization(ctx, pool, cfg.SeedOrgName)
	if err != nil {
		return err
	}

	if err := ensureAdminUser(ctx, pool, orgID, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	if cfg.SeedDemoData {
		if err := ensureDemoData(ctx, pool, orgID); err != nil {
			return err
		}
	}
	return nil
}

func ensureOrganization(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, "SELECT id FROM organizations WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = pool.QueryRow(ctx, `
    INSERT INTO organizations (name, is_active, created_at, updated_at)
    VALUES ($1, true, now(), now())
    RETURNING id
  `, name).Scan(&id)
	return id, err
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, orgID int64, email, password string) error {
	var exists bool
	if err := pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	if password == "" {
		password = "changeme"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (organization_id, email, password_hash, role, is_active)
    VALUES ($1, $2, $3, $4, true)
  `, orgID, email, hash, auth.RoleAdmin)
	return err
}

func ensureDemoData(ctx context.Context, pool *pgxpool.Pool, orgID int64) error {
	var count int
	if err := pool.QueryRow(ctx,
		"SELECT count(*) FROM salary_structures WHERE organization_id = $1", orgID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var structureID int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO salary_structures (organization_id, name, description, basic_salary, is_active, created_at, updated_at)
    VALUES ($1, 'Standard Monthly', 'Default structure for new hires', 5000, true, $2, $2)
    RETURNING id
  `, orgID, now).Scan(&structureID); err != nil {
		return err
	}

	components := []struct {
		name       string
		kind       string
		amount     string
		percentage string
		pctBased   bool
		order      int
	}{
		{"House Rent Allowance", "Earning", "0", "40", true, 1},
		{"Transport Allowance", "Earning", "300", "0", false, 2},
		{"Provident Fund", "Deduction", "0", "8", true, 3},
	}
	for _, c := range components {
		if _, err := tx.Exec(ctx, `
      INSERT INTO salary_components
        (salary_structure_id, name, type, amount, percentage, is_percentage_based,
         is_taxable, is_leave_based, display_order, is_active, created_at, updated_at)
      VALUES ($1, $2, $3, $4, $5, $6, true, false, $7, true, $8, $8)
    `, structureID, c.name, c.kind, c.amount, c.percentage, c.pctBased, c.order, now); err != nil {
			return err
		}
	}

	var configID int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO tax_configurations
      (organization_id, name, financial_year, standard_rate, minimum_taxable_income,
       monthly_exemption, use_progressive, is_active, created_at, updated_at)
    VALUES ($1, 'Default Tax', $2, 10, 1000, 0, true, true, $3, $3)
    RETURNING id
  `, orgID, now.Year(), now).Scan(&configID); err != nil {
		return err
	}

	slabs := []struct {
		from  string
		to    string
		rate  string
		order int
	}{
		{"0", "3000", "0", 1},
		{"3000", "8000", "10", 2},
		{"8000", "0", "20", 3},
	}
	for _, s := range slabs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO tax_slabs
        (configuration_id, from_amount, to_amount, rate, display_order, is_active, created_at, updated_at)
      VALUES ($1, $2, $3, $4, $5, true, $6, $6)
    `, configID, s.from, s.to, s.rate, s.order, now); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
