package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, device.ErrApplianceNotFound) {
//	    // answer NO_SUCH_ENDPOINT
//	}
var (
	// ErrApplianceNotFound is returned when an appliance ID is not in the catalog.
	ErrApplianceNotFound = errors.New("device: appliance not found")

	// ErrApplianceExists is returned when an appliance ID appears twice.
	ErrApplianceExists = errors.New("device: appliance already exists")

	// ErrInvalidRecord is returned when a record is missing required fields.
	ErrInvalidRecord = errors.New("device: invalid appliance record")
)
