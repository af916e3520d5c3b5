package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrStructureNotFound  = errors.New("salary structure not found")
	ErrStructureInUse     = errors.New("salary structure is assigned to active employees")
	ErrComponentNotFound  = errors.New("salary component not found")
	ErrAssignmentNotFound = errors.New("salary assignment not found")
	ErrRunNotFound        = errors.New("payroll run not found")
	ErrRunOverlap         = errors.New("payroll run overlaps an existing run for this organization")
	ErrRunEmpty           = errors.New("payroll run has no details to process")
	ErrInvalidPeriod      = errors.New("payroll run end date cannot precede its start date")
	ErrDetailNotFound     = errors.New("payroll detail not found")
	ErrSlipNotFound       = errors.New("salary slip not found")
	ErrSlipExists         = errors.New("salary slip already exists for this payroll detail")
	ErrInvalidComponent   = errors.New("component must carry exactly one of fixed amount or percentage")
	ErrInvalidDayCount    = errors.New("day counts must be between 0 and 31")
)

// NoActiveSalaryError is a configuration-missing failure: the employee has no
// active salary assignment, so a payroll detail cannot be built.
type NoActiveSalaryError struct {
	EmployeeID int64
}

func (e *NoActiveSalaryError) Error() string {
	return fmt.Sprintf("employee %d has no active salary assignment", e.EmployeeID)
}

// DuplicateDetailError rejects a second detail for the same (run, employee).
type DuplicateDetailError struct {
	RunID      int64
	EmployeeID int64
}

func (e *DuplicateDetailError) Error() string {
	return fmt.Sprintf("payroll run %d already has a detail for employee %d", e.RunID, e.EmployeeID)
}

// StateError is a rejected lifecycle transition. No mutation happens.
type StateError struct {
	Entity string
	ID     int64
	Status string
	Want   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s %d is %s, expected %s", e.Entity, e.ID, e.Status, e.Want)
}
