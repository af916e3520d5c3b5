package benefits

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound       = errors.New("benefit plan not found")
	ErrEnrollmentNotFound = errors.New("benefit enrollment not found")
	ErrNegativeAmount     = errors.New("contribution amounts cannot be negative")
)

// AlreadyEnrolledError rejects a second active enrollment of the same
// employee into the same plan.
type AlreadyEnrolledError struct {
	EmployeeID int64
	PlanID     int64
}

func (e *AlreadyEnrolledError) Error() string {
	return fmt.Sprintf("employee %d is already enrolled in benefit plan %d", e.EmployeeID, e.PlanID)
}
