package leave

import (
	"errors"
	"fmt"
)

var (
	ErrTypeNotFound    = errors.New("leave type not found")
	ErrRequestNotFound = errors.New("leave request not found")
	ErrRequestOverlap  = errors.New("leave request overlaps an existing request")
)

// RequestStateError is a rejected decision on a request outside the expected
// status.
type RequestStateError struct {
	ID     int64
	Status string
	Want   string
}

func (e *RequestStateError) Error() string {
	return fmt.Sprintf("leave request %d is %s, expected %s", e.ID, e.Status, e.Want)
}
