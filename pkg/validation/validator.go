package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/firecalc/pkg/wire"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxDeviceIDLength = 64
	MaxSegmentLength  = 10000.0
	MaxAddress        = 159

	// deviceIDPattern matches CAD symbol identifiers such as SD_PANEL1_03.
	deviceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

func init() {
	validate = validator.New()
}

// SegmentRequest represents a request to add a wiring segment to a circuit.
type SegmentRequest struct {
	FromDevice  string  `json:"fromDevice" validate:"required,min=1,max=64"`
	ToDevice    string  `json:"toDevice" validate:"required,min=1,max=64"`
	LengthFt    float64 `json:"lengthFt" validate:"required,gt=0"`
	Gauge       int     `json:"gauge" validate:"required"`
	CurrentA    float64 `json:"currentA" validate:"gte=0"`
	CircuitType string  `json:"circuitType" validate:"required,oneof=SLC NAC POWER"`
}

// AddressRequest represents a request to assign an SLC loop address.
type AddressRequest struct {
	CircuitID        string `json:"circuitId" validate:"required"`
	DeviceID         string `json:"deviceId" validate:"required,min=1,max=64"`
	DeviceModel      string `json:"deviceModel" validate:"omitempty,max=64"`
	PreferredAddress int    `json:"preferredAddress" validate:"omitempty,min=1,max=159"`
}

// CircuitRequest represents a request to create an SLC circuit.
type CircuitRequest struct {
	PanelDeviceID string `json:"panelDeviceId" validate:"required,min=1,max=64"`
	LoopNumber    int    `json:"loopNumber" validate:"required,min=1"`
	Supervision   string `json:"supervision" validate:"omitempty,oneof='Class A' 'Class B'"`
	MaxDevices    int    `json:"maxDevices" validate:"omitempty,min=1,max=159"`
}

// ValidateSegmentRequest validates a segment creation request.
func ValidateSegmentRequest(req *SegmentRequest) error {
	if req == nil {
		return errors.New("segment request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	for _, id := range []string{req.FromDevice, req.ToDevice} {
		if !deviceIDPattern.MatchString(id) {
			return fmt.Errorf("device id '%s' contains invalid characters (only alphanumeric, underscore and dash allowed)", id)
		}
	}

	if req.LengthFt > MaxSegmentLength {
		return fmt.Errorf("LengthFt: segment length %.1f ft exceeds maximum %.0f ft", req.LengthFt, MaxSegmentLength)
	}

	if !wire.Gauge(req.Gauge).Valid() {
		return fmt.Errorf("Gauge: %d AWG is not supported (supported: %v)", req.Gauge, wire.SupportedGauges())
	}

	return nil
}

// ValidateAddressRequest validates an SLC address assignment request.
func ValidateAddressRequest(req *AddressRequest) error {
	if req == nil {
		return errors.New("address request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if !deviceIDPattern.MatchString(req.DeviceID) {
		return fmt.Errorf("DeviceID: '%s' contains invalid characters (only alphanumeric, underscore and dash allowed)", req.DeviceID)
	}

	return nil
}

// ValidateCircuitRequest validates an SLC circuit creation request.
func ValidateCircuitRequest(req *CircuitRequest) error {
	if req == nil {
		return errors.New("circuit request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if !deviceIDPattern.MatchString(req.PanelDeviceID) {
		return fmt.Errorf("PanelDeviceID: '%s' contains invalid characters (only alphanumeric, underscore and dash allowed)", req.PanelDeviceID)
	}

	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
