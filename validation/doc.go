// Package validation provides input validation for httpkit request values.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tags are used for
// value types such as headers; programmatic checks cover configuration.
//
// # Struct Tag Validation
//
//	type Header struct {
//	    Key   string `json:"key" validate:"required,header_name"`
//	    Value string `json:"value" validate:"required,header_value"`
//	}
//	err := validation.Validate(h)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Min("timeout_seconds", cfg.TimeoutSeconds, 0)
//	err := v.Validate()
package validation
