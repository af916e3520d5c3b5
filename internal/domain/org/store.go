package org

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, industry, address, is_active, created_at, updated_at
    FROM organizations
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Industry, &o.Address, &o.IsActive,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (s *Store) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var o Organization
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, industry, address, is_active, created_at, updated_at
    FROM organizations
    WHERE id = $1
  `, id).Scan(&o.ID, &o.Name, &o.Industry, &o.Address, &o.IsActive,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrganization(ctx context.Context, organization *Organization) (int64, error) {
	organization.Touch(time.Now().UTC())
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO organizations (name, industry, address, is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, organization.Name, organization.Industry, organization.Address,
		organization.IsActive, organization.CreatedAt, organization.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, organization *Organization) error {
	organization.Touch(time.Now().UTC())
	tag, err := s.DB.Exec(ctx, `
    UPDATE organizations
    SET name = $1, industry = $2, address = $3, is_active = $4, updated_at = $5
    WHERE id = $6
  `, organization.Name, organization.Industry, organization.Address,
		organization.IsActive, organization.UpdatedAt, organization.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}

const employeeSelect = `
    SELECT id, organization_id, first_name, last_name, email, job_title,
           hire_date, is_active, created_at, updated_at
    FROM employees`

func (s *Store) ListEmployees(ctx context.Context, organizationID int64, limit, offset int) ([]Employee, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM employees WHERE organization_id = $1",
		organizationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx,
		employeeSelect+" WHERE organization_id = $1 ORDER BY last_name, first_name LIMIT $2 OFFSET $3",
		organizationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *e)
	}
	return employees, total, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, employee *Employee) (int64, error) {
	employee.Touch(time.Now().UTC())
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees
      (organization_id, first_name, last_name, email, job_title, hire_date,
       is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, employee.OrganizationID, employee.FirstName, employee.LastName,
		employee.Email, employee.JobTitle, employee.HireDate, employee.IsActive,
		employee.CreatedAt, employee.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employee *Employee) error {
	employee.Touch(time.Now().UTC())
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, email = $3, job_title = $4,
        hire_date = $5, is_active = $6, updated_at = $7
    WHERE id = $8
  `, employee.FirstName, employee.LastName, employee.Email, employee.JobTitle,
		employee.HireDate, employee.IsActive, employee.UpdatedAt, employee.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.OrganizationID, &e.FirstName, &e.LastName, &e.Email,
		&e.JobTitle, &e.HireDate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
