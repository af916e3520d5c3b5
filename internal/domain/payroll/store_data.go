package payroll

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

func (s *Store) ListStructures(ctx context.Context, organizationID int64, limit, offset int) ([]SalaryStructure, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM salary_structures WHERE organization_id = $1",
		organizationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, organization_id, name, description, basic_salary, is_active,
           created_at, updated_at
    FROM salary_structures
    WHERE organization_id = $1
    ORDER BY name
    LIMIT $2 OFFSET $3
  `, organizationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var structures []SalaryStructure
	for rows.Next() {
		var st SalaryStructure
		if err := rows.Scan(&st.ID, &st.OrganizationID, &st.Name, &st.Description,
			&st.BasicSalary, &st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, 0, err
		}
		structures = append(structures, st)
	}
	return structures, total, rows.Err()
}

func (s *Store) GetStructure(ctx context.Context, id int64) (*SalaryStructure, error) {
	var st SalaryStructure
	err := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, name, description, basic_salary, is_active,
           created_at, updated_at
    FROM salary_structures
    WHERE id = $1
  `, id).Scan(&st.ID, &st.OrganizationID, &st.Name, &st.Description,
		&st.BasicSalary, &st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStructureNotFound
		}
		return nil, err
	}

	components, err := s.componentsFor(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	st.Components = components
	return &st, nil
}

func (s *Store) CreateStructure(ctx context.Context, structure *SalaryStructure) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
    INSERT INTO salary_structures
      (organization_id, name, description, basic_salary, is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, structure.OrganizationID, structure.Name, structure.Description,
		structure.BasicSalary, structure.IsActive, structure.CreatedAt, structure.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	for i := range structure.Components {
		c := &structure.Components[i]
		if err := insertComponent(ctx, tx, id, c); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateStructure(ctx context.Context, structure *SalaryStructure) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_structures
    SET name = $1, description = $2, basic_salary = $3, is_active = $4, updated_at = $5
    WHERE id = $6
  `, structure.Name, structure.Description, structure.BasicSalary,
		structure.IsActive, structure.UpdatedAt, structure.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStructureNotFound
	}
	return nil
}

func (s *Store) DeleteStructure(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM salary_structures WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStructureNotFound
	}
	return nil
}

func (s *Store) CountActiveAssignments(ctx context.Context, structureID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM salary_assignments WHERE salary_structure_id = $1 AND is_active = true",
		structureID).Scan(&count)
	return count, err
}

func (s *Store) GetComponent(ctx context.Context, id int64) (*SalaryComponent, error) {
	var c SalaryComponent
	err := s.DB.QueryRow(ctx, `
    SELECT id, salary_structure_id, name, type, amount, percentage,
           is_percentage_based, is_taxable, is_leave_based, display_order,
           is_active, created_at, updated_at
    FROM salary_components
    WHERE id = $1
  `, id).Scan(&c.ID, &c.SalaryStructureID, &c.Name, &c.Type, &c.Amount,
		&c.Percentage, &c.IsPercentageBased, &c.IsTaxable, &c.IsLeaveBased,
		&c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateComponent(ctx context.Context, component *SalaryComponent) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)
	if err := insertComponent(ctx, tx, component.SalaryStructureID, component); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return component.ID, nil
}

func (s *Store) UpdateComponent(ctx context.Context, component *SalaryComponent) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_components
    SET name = $1, type = $2, amount = $3, percentage = $4,
        is_percentage_based = $5, is_taxable = $6, is_leave_based = $7,
        display_order = $8, is_active = $9, updated_at = $10
    WHERE id = $11
  `, component.Name, component.Type, component.Amount, component.Percentage,
		component.IsPercentageBased, component.IsTaxable, component.IsLeaveBased,
		component.DisplayOrder, component.IsActive, component.UpdatedAt, component.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrComponentNotFound
	}
	return nil
}

func (s *Store) DeleteComponent(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM salary_components WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrComponentNotFound
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, id int64) (*SalaryAssignment, error) {
	a, err := scanAssignment(s.DB.QueryRow(ctx, assignmentSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Store) ListAssignments(ctx context.Context, employeeID int64) ([]SalaryAssignment, error) {
	rows, err := s.DB.Query(ctx,
		assignmentSelect+" WHERE employee_id = $1 ORDER BY effective_date DESC, id DESC",
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []SalaryAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func (s *Store) ActiveAssignment(ctx context.Context, employeeID int64) (*SalaryAssignment, error) {
	a, err := scanAssignment(s.DB.QueryRow(ctx,
		assignmentSelect+" WHERE employee_id = $1 AND is_active = true ORDER BY effective_date DESC LIMIT 1",
		employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (s *Store) CreateAssignment(ctx context.Context, assignment *SalaryAssignment) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// Closing the prior assignment and opening the new one commit together,
	// so the at-most-one-active invariant holds at every instant.
	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
    UPDATE salary_assignments
    SET is_active = false, end_date = $1, updated_at = $1
    WHERE employee_id = $2 AND is_active = true
  `, now, assignment.EmployeeID)
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
    INSERT INTO salary_assignments
      (employee_id, salary_structure_id, effective_date, end_date,
       override_basic_salary, gross_salary, net_salary, is_active, remarks,
       created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, assignment.EmployeeID, assignment.SalaryStructureID, assignment.EffectiveDate,
		assignment.EndDate, assignment.OverrideBasicSalary, assignment.GrossSalary,
		assignment.NetSalary, assignment.IsActive, assignment.Remarks,
		assignment.CreatedAt, assignment.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) ListRuns(ctx context.Context, organizationID int64, limit, offset int) ([]Run, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM payroll_runs WHERE organization_id = $1",
		organizationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx,
		runSelect+" WHERE organization_id = $1 ORDER BY start_date DESC, id DESC LIMIT $2 OFFSET $3",
		organizationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, *r)
	}
	return runs, total, rows.Err()
}

func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	r, err := scanRun(s.DB.QueryRow(ctx, runSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Store) CreateRun(ctx context.Context, run *Run) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_runs
      (organization_id, name, frequency, start_date, end_date, status,
       total_gross, total_deductions, total_tax, total_net, employee_count,
       processed_date, paid_date, remarks, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
    RETURNING id
  `, run.OrganizationID, run.Name, run.Frequency, run.StartDate, run.EndDate,
		run.Status, run.TotalGross, run.TotalDeductions, run.TotalTax, run.TotalNet,
		run.EmployeeCount, run.ProcessedDate, run.PaidDate, run.Remarks,
		run.CreatedAt, run.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateRun(ctx context.Context, run *Run) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_runs
    SET name = $1, frequency = $2, start_date = $3, end_date = $4,
        remarks = $5, updated_at = $6
    WHERE id = $7
  `, run.Name, run.Frequency, run.StartDate, run.EndDate, run.Remarks,
		run.UpdatedAt, run.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (s *Store) CountOverlappingRuns(ctx context.Context, organizationID int64, start, end time.Time, excludeID int64) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payroll_runs
    WHERE organization_id = $1
      AND status <> $2
      AND id <> $3
      AND start_date <= $4
      AND end_date >= $5
  `, organizationID, RunStatusCancelled, excludeID, end, start).Scan(&count)
	return count, err
}

func (s *Store) TransitionRun(ctx context.Context, run *Run, expected string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_runs
    SET status = $1, total_gross = $2, total_deductions = $3, total_tax = $4,
        total_net = $5, employee_count = $6, processed_date = $7, paid_date = $8,
        updated_at = $9
    WHERE id = $10 AND status = $11
  `, run.Status, run.TotalGross, run.TotalDeductions, run.TotalTax, run.TotalNet,
		run.EmployeeCount, run.ProcessedDate, run.PaidDate, run.UpdatedAt,
		run.ID, expected)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListDetails(ctx context.Context, runID int64) ([]Detail, error) {
	rows, err := s.DB.Query(ctx,
		detailSelect+" WHERE payroll_run_id = $1 ORDER BY employee_id", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

func (s *Store) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	d, err := scanDetail(s.DB.QueryRow(ctx, detailSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDetailNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *Store) DetailExists(ctx context.Context, runID, employeeID int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM payroll_details WHERE payroll_run_id = $1 AND employee_id = $2)",
		runID, employeeID).Scan(&exists)
	return exists, err
}

func (s *Store) CreateDetail(ctx context.Context, detail *Detail) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_details
      (payroll_run_id, employee_id, total_earnings, total_deductions, total_tax,
       gross_salary, net_salary, leave_deduction, benefit_deduction,
       working_days, days_worked, leave_days, status, remarks, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
    RETURNING id
  `, detail.RunID, detail.EmployeeID, detail.TotalEarnings, detail.TotalDeductions,
		detail.TotalTax, detail.GrossSalary, detail.NetSalary, detail.LeaveDeduction,
		detail.BenefitDeduction, detail.WorkingDays, detail.DaysWorked,
		detail.LeaveDays, detail.Status, detail.Remarks,
		detail.CreatedAt, detail.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateDetail(ctx context.Context, detail *Detail) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_details
    SET total_earnings = $1, total_deductions = $2, total_tax = $3,
        gross_salary = $4, net_salary = $5, leave_deduction = $6,
        benefit_deduction = $7, working_days = $8, days_worked = $9,
        leave_days = $10, status = $11, remarks = $12, updated_at = $13
    WHERE id = $14
  `, detail.TotalEarnings, detail.TotalDeductions, detail.TotalTax,
		detail.GrossSalary, detail.NetSalary, detail.LeaveDeduction,
		detail.BenefitDeduction, detail.WorkingDays, detail.DaysWorked,
		detail.LeaveDays, detail.Status, detail.Remarks, detail.UpdatedAt, detail.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDetailNotFound
	}
	return nil
}

func (s *Store) EmployeesWithActiveAssignment(ctx context.Context, organizationID int64) ([]int64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.employee_id
    FROM salary_assignments a
    JOIN employees e ON e.id = a.employee_id
    WHERE a.is_active = true AND e.organization_id = $1 AND e.is_active = true
    ORDER BY a.employee_id
  `, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ListSlips(ctx context.Context, employeeID int64, limit, offset int) ([]Slip, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM salary_slips WHERE employee_id = $1",
		employeeID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx,
		slipSelect+" WHERE employee_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3",
		employeeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var slips []Slip
	for rows.Next() {
		sl, err := scanSlip(rows)
		if err != nil {
			return nil, 0, err
		}
		slips = append(slips, *sl)
	}
	return slips, total, rows.Err()
}

func (s *Store) GetSlip(ctx context.Context, id int64) (*Slip, error) {
	sl, err := scanSlip(s.DB.QueryRow(ctx, slipSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlipNotFound
		}
		return nil, err
	}
	components, err := s.slipComponentsFor(ctx, sl.ID)
	if err != nil {
		return nil, err
	}
	sl.Components = components
	return sl, nil
}

func (s *Store) GetSlipByDetail(ctx context.Context, detailID int64) (*Slip, error) {
	sl, err := scanSlip(s.DB.QueryRow(ctx, slipSelect+" WHERE payroll_detail_id = $1", detailID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlipNotFound
		}
		return nil, err
	}
	return sl, nil
}

func (s *Store) CreateSlip(ctx context.Context, slip *Slip) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
    INSERT INTO salary_slips
      (payroll_detail_id, employee_id, slip_number, period, gross_salary,
       total_deductions, income_tax, net_payable, status, salary_credited_date,
       remarks, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, slip.DetailID, slip.EmployeeID, slip.SlipNumber, slip.Period,
		slip.GrossSalary, slip.TotalDeductions, slip.IncomeTax, slip.NetPayable,
		slip.Status, slip.SalaryCreditedDate, slip.Remarks,
		slip.CreatedAt, slip.UpdatedAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	for i := range slip.Components {
		c := &slip.Components[i]
		err := tx.QueryRow(ctx, `
      INSERT INTO salary_slip_components
        (salary_slip_id, name, type, amount, display_order)
      VALUES ($1,$2,$3,$4,$5)
      RETURNING id
    `, id, c.Name, c.Type, c.Amount, c.DisplayOrder).Scan(&c.ID)
		if err != nil {
			return 0, err
		}
		c.SlipID = id
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) TransitionSlip(ctx context.Context, slip *Slip, expected string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_slips
    SET status = $1, salary_credited_date = $2, updated_at = $3
    WHERE id = $4 AND status = $5
  `, slip.Status, slip.SalaryCreditedDate, slip.UpdatedAt, slip.ID, expected)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const assignmentSelect = `
    SELECT id, employee_id, salary_structure_id, effective_date, end_date,
           override_basic_salary, gross_salary, net_salary, is_active, remarks,
           created_at, updated_at
    FROM salary_assignments`

const runSelect = `
    SELECT id, organization_id, name, frequency, start_date, end_date, status,
           total_gross, total_deductions, total_tax, total_net, employee_count,
           processed_date, paid_date, remarks, created_at, updated_at
    FROM payroll_runs`

const detailSelect = `
    SELECT id, payroll_run_id, employee_id, total_earnings, total_deductions,
           total_tax, gross_salary, net_salary, leave_deduction,
           benefit_deduction, working_days, days_worked, leave_days, status,
           remarks, created_at, updated_at
    FROM payroll_details`

const slipSelect = `
    SELECT id, payroll_detail_id, employee_id, slip_number, period,
           gross_salary, total_deductions, income_tax, net_payable, status,
           salary_credited_date, remarks, created_at, updated_at
    FROM salary_slips`

func scanAssignment(row pgx.Row) (*SalaryAssignment, error) {
	var a SalaryAssignment
	err := row.Scan(&a.ID, &a.EmployeeID, &a.SalaryStructureID, &a.EffectiveDate,
		&a.EndDate, &a.OverrideBasicSalary, &a.GrossSalary, &a.NetSalary,
		&a.IsActive, &a.Remarks, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.OrganizationID, &r.Name, &r.Frequency, &r.StartDate,
		&r.EndDate, &r.Status, &r.TotalGross, &r.TotalDeductions, &r.TotalTax,
		&r.TotalNet, &r.EmployeeCount, &r.ProcessedDate, &r.PaidDate, &r.Remarks,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(&d.ID, &d.RunID, &d.EmployeeID, &d.TotalEarnings,
		&d.TotalDeductions, &d.TotalTax, &d.GrossSalary, &d.NetSalary,
		&d.LeaveDeduction, &d.BenefitDeduction, &d.WorkingDays, &d.DaysWorked,
		&d.LeaveDays, &d.Status, &d.Remarks, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanSlip(row pgx.Row) (*Slip, error) {
	var sl Slip
	err := row.Scan(&sl.ID, &sl.DetailID, &sl.EmployeeID, &sl.SlipNumber,
		&sl.Period, &sl.GrossSalary, &sl.TotalDeductions, &sl.IncomeTax,
		&sl.NetPayable, &sl.Status, &sl.SalaryCreditedDate, &sl.Remarks,
		&sl.CreatedAt, &sl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sl, nil
}

func (s *Store) componentsFor(ctx context.Context, structureID int64) ([]SalaryComponent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, salary_structure_id, name, type, amount, percentage,
           is_percentage_based, is_taxable, is_leave_based, display_order,
           is_active, created_at, updated_at
    FROM salary_components
    WHERE salary_structure_id = $1
    ORDER BY display_order, id
  `, structureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []SalaryComponent
	for rows.Next() {
		var c SalaryComponent
		if err := rows.Scan(&c.ID, &c.SalaryStructureID, &c.Name, &c.Type,
			&c.Amount, &c.Percentage, &c.IsPercentageBased, &c.IsTaxable,
			&c.IsLeaveBased, &c.DisplayOrder, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func (s *Store) slipComponentsFor(ctx context.Context, slipID int64) ([]SlipComponent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, salary_slip_id, name, type, amount, display_order
    FROM salary_slip_components
    WHERE salary_slip_id = $1
    ORDER BY display_order, id
  `, slipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []SlipComponent
	for rows.Next() {
		var c SlipComponent
		if err := rows.Scan(&c.ID, &c.SlipID, &c.Name, &c.Type, &c.Amount,
			&c.DisplayOrder); err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func insertComponent(ctx context.Context, tx pgx.Tx, structureID int64, c *SalaryComponent) error {
	return tx.QueryRow(ctx, `
    INSERT INTO salary_components
      (salary_structure_id, name, type, amount, percentage, is_percentage_based,
       is_taxable, is_leave_based, display_order, is_active, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, structureID, c.Name, c.Type, c.Amount, c.Percentage, c.IsPercentageBased,
		c.IsTaxable, c.IsLeaveBased, c.DisplayOrder, c.IsActive,
		c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
}
