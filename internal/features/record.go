// Package features defines the vehicle feature record accepted by the
// pricing API and validates it at the boundary, before any of the
// pipeline code runs.
//
// Numeric and categorical fields may be absent from a request; the
// pipeline substitutes the training-time median or mode for them. The
// seven equipment flags are required and must be 0 or 1.
package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Wire field names, matching the training dataset columns.
const (
	FieldMileage     = "mileage"
	FieldEnginePower = "engine_power"
	FieldFuel        = "fuel"
	FieldPaintColor  = "paint_color"
	FieldCarType     = "car_type"

	FieldPrivateParking  = "private_parking_available"
	FieldGPS             = "has_gps"
	FieldAirConditioning = "has_air_conditioning"
	FieldAutomatic       = "automatic_car"
	FieldConnect         = "has_getaround_connect"
	FieldSpeedRegulator  = "has_speed_regulator"
	FieldWinterTires     = "winter_tires"
)

// NumericFields and CategoricalFields list the columns covered by the
// training-time imputers, in the order the pipeline expects them.
var (
	NumericFields     = []string{FieldMileage, FieldEnginePower}
	CategoricalFields = []string{FieldFuel, FieldPaintColor, FieldCarType}
	FlagFields        = []string{
		FieldPrivateParking,
		FieldGPS,
		FieldAirConditioning,
		FieldAutomatic,
		FieldConnect,
		FieldSpeedRegulator,
		FieldWinterTires,
	}
)

// VehicleFeatures is one rental listing's characteristics. Pointer
// fields distinguish "absent, impute it" from a present zero value.
type VehicleFeatures struct {
	Mileage     *float64 `json:"mileage,omitempty"`
	EnginePower *float64 `json:"engine_power,omitempty"`
	Fuel        *string  `json:"fuel,omitempty"`
	PaintColor  *string  `json:"paint_color,omitempty"`
	CarType     *string  `json:"car_type,omitempty"`

	PrivateParkingAvailable *int `json:"private_parking_available,omitempty"`
	HasGPS                  *int `json:"has_gps,omitempty"`
	HasAirConditioning      *int `json:"has_air_conditioning,omitempty"`
	AutomaticCar            *int `json:"automatic_car,omitempty"`
	HasGetaroundConnect     *int `json:"has_getaround_connect,omitempty"`
	HasSpeedRegulator       *int `json:"has_speed_regulator,omitempty"`
	WinterTires             *int `json:"winter_tires,omitempty"`
}

// Numeric returns the value of a numeric field, or nil when absent.
func (v *VehicleFeatures) Numeric(field string) *float64 {
	switch field {
	case FieldMileage:
		return v.Mileage
	case FieldEnginePower:
		return v.EnginePower
	}
	return nil
}

// Categorical returns the value of a categorical field, or nil when absent.
func (v *VehicleFeatures) Categorical(field string) *string {
	switch field {
	case FieldFuel:
		return v.Fuel
	case FieldPaintColor:
		return v.PaintColor
	case FieldCarType:
		return v.CarType
	}
	return nil
}

// Flag returns the value of an equipment flag, or nil when absent.
func (v *VehicleFeatures) Flag(field string) *int {
	switch field {
	case FieldPrivateParking:
		return v.PrivateParkingAvailable
	case FieldGPS:
		return v.HasGPS
	case FieldAirConditioning:
		return v.HasAirConditioning
	case FieldAutomatic:
		return v.AutomaticCar
	case FieldConnect:
		return v.HasGetaroundConnect
	case FieldSpeedRegulator:
		return v.HasSpeedRegulator
	case FieldWinterTires:
		return v.WinterTires
	}
	return nil
}

// FieldError reports one constraint violation in one request record.
type FieldError struct {
	Record     int    `json:"record"`
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("record %d: field %q %s", e.Record, e.Field, e.Constraint)
}

// ValidationError aggregates every violation found in a request so the
// caller gets the full picture in one round trip.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Error()
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Fields), strings.Join(parts, "; "))
}

// DecodeRecord parses one raw request record and checks its field
// constraints. The index is only used to label errors. A non-empty
// error slice means the record must be rejected.
func DecodeRecord(index int, raw json.RawMessage) (VehicleFeatures, []FieldError) {
	var v VehicleFeatures
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, []FieldError{typeError(index, err)}
	}
	return v, v.check(index)
}

// typeError converts a json decoding failure into a field-level error.
func typeError(index int, err error) FieldError {
	if te, ok := err.(*json.UnmarshalTypeError); ok {
		field := te.Field
		if field == "" {
			field = "(record)"
		}
		return FieldError{
			Record:     index,
			Field:      field,
			Constraint: fmt.Sprintf("must be of type %s, got %s", te.Type, te.Value),
		}
	}
	return FieldError{Record: index, Field: "(record)", Constraint: "must be a JSON object"}
}

func (v *VehicleFeatures) check(index int) []FieldError {
	var errs []FieldError

	for _, field := range NumericFields {
		val := v.Numeric(field)
		if val == nil {
			continue // imputed by the pipeline
		}
		switch {
		case math.IsNaN(*val) || math.IsInf(*val, 0):
			errs = append(errs, FieldError{index, field, "must be a finite number"})
		case *val < 0:
			errs = append(errs, FieldError{index, field, "must be non-negative"})
		case *val != math.Trunc(*val):
			errs = append(errs, FieldError{index, field, "must be an integer"})
		}
	}

	for _, field := range CategoricalFields {
		val := v.Categorical(field)
		if val != nil && strings.TrimSpace(*val) == "" {
			errs = append(errs, FieldError{index, field, "must be a non-empty string"})
		}
	}

	for _, field := range FlagFields {
		val := v.Flag(field)
		if val == nil {
			errs = append(errs, FieldError{index, field, "is required"})
			continue
		}
		if *val != 0 && *val != 1 {
			errs = append(errs, FieldError{index, field, "must be 0 or 1"})
		}
	}

	return errs
}
