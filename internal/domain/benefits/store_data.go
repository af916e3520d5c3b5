package benefits

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const planSelect = `
    SELECT id, organization_id, name, description, provider,
           employee_contribution, employer_contribution, is_active,
           created_at, updated_at
    FROM benefit_plans`

func (s *Store) ListPlans(ctx context.Context, organizationID int64, limit, offset int) ([]Plan, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM benefit_plans WHERE organization_id = $1",
		organizationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx,
		planSelect+" WHERE organization_id = $1 ORDER BY name LIMIT $2 OFFSET $3",
		organizationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, *p)
	}
	return plans, total, rows.Err()
}

func (s *Store) GetPlan(ctx context.Context, id int64) (*Plan, error) {
	p, err := scanPlan(s.DB.QueryRow(ctx, planSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Store) CreatePlan(ctx context.Context, plan *Plan) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO benefit_plans
      (organization_id, name, description, provider, employee_contribution,
       employer_contribution, is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, plan.OrganizationID, plan.Name, plan.Description, plan.Provider,
		plan.EmployeeContribution, plan.EmployerContribution, plan.IsActive,
		plan.CreatedAt, plan.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdatePlan(ctx context.Context, plan *Plan) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE benefit_plans
    SET name = $1, description = $2, provider = $3, employee_contribution = $4,
        employer_contribution = $5, is_active = $6, updated_at = $7
    WHERE id = $8
  `, plan.Name, plan.Description, plan.Provider, plan.EmployeeContribution,
		plan.EmployerContribution, plan.IsActive, plan.UpdatedAt, plan.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM benefit_plans WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

const enrollmentSelect = `
    SELECT id, employee_id, benefit_plan_id, enrollment_date, end_date,
           override_employee_contribution, is_active, created_at, updated_at
    FROM benefit_enrollments`

func (s *Store) ListEnrollments(ctx context.Context, employeeID int64) ([]Enrollment, error) {
	rows, err := s.DB.Query(ctx,
		enrollmentSelect+" WHERE employee_id = $1 ORDER BY enrollment_date DESC, id DESC",
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEnrollments(rows)
}

func (s *Store) GetEnrollment(ctx context.Context, id int64) (*Enrollment, error) {
	e, err := scanEnrollment(s.DB.QueryRow(ctx, enrollmentSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Store) ActiveEnrollment(ctx context.Context, employeeID, planID int64) (*Enrollment, error) {
	e, err := scanEnrollment(s.DB.QueryRow(ctx,
		enrollmentSelect+" WHERE employee_id = $1 AND benefit_plan_id = $2 AND is_active = true LIMIT 1",
		employeeID, planID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (s *Store) CreateEnrollment(ctx context.Context, enrollment *Enrollment) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO benefit_enrollments
      (employee_id, benefit_plan_id, enrollment_date, end_date,
       override_employee_contribution, is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, enrollment.EmployeeID, enrollment.PlanID, enrollment.EnrollmentDate,
		enrollment.EndDate, enrollment.OverrideEmployeeContribution,
		enrollment.IsActive, enrollment.CreatedAt, enrollment.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateEnrollment(ctx context.Context, enrollment *Enrollment) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE benefit_enrollments
    SET enrollment_date = $1, end_date = $2, override_employee_contribution = $3,
        is_active = $4, updated_at = $5
    WHERE id = $6
  `, enrollment.EnrollmentDate, enrollment.EndDate,
		enrollment.OverrideEmployeeContribution, enrollment.IsActive,
		enrollment.UpdatedAt, enrollment.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (s *Store) ActiveEnrollmentsOn(ctx context.Context, employeeID int64, date time.Time) ([]Enrollment, error) {
	rows, err := s.DB.Query(ctx,
		enrollmentSelect+` WHERE employee_id = $1 AND is_active = true
      AND enrollment_date <= $2
      AND (end_date IS NULL OR end_date >= $2)
    ORDER BY enrollment_date, id`,
		employeeID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEnrollments(rows)
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Description, &p.Provider,
		&p.EmployeeContribution, &p.EmployerContribution, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanEnrollment(row pgx.Row) (*Enrollment, error) {
	var e Enrollment
	err := row.Scan(&e.ID, &e.EmployeeID, &e.PlanID, &e.EnrollmentDate, &e.EndDate,
		&e.OverrideEmployeeContribution, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEnrollments(rows pgx.Rows) ([]Enrollment, error) {
	var enrollments []Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}
