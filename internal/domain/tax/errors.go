package tax

import (
	"errors"
	"fmt"
)

var (
	ErrConfigurationNotFound = errors.New("tax configuration not found")
	ErrSlabNotFound          = errors.New("tax slab not found")
	ErrInvalidRange          = errors.New("slab FromAmount cannot exceed ToAmount")
	ErrInvalidRate           = errors.New("tax rate must be between 0 and 100")
	ErrNegativeAmount        = errors.New("slab amounts cannot be negative")
)

// SlabOverlapError rejects a slab whose band intersects an existing active
// slab of the same configuration.
type SlabOverlapError struct {
	ConfigurationID int64
}

func (e *SlabOverlapError) Error() string {
	return fmt.Sprintf("slab overlaps an active slab of tax configuration %d", e.ConfigurationID)
}
