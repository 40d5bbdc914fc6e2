package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// FieldError describes one invalid field of a record.
type FieldError struct {
	Field   string
	Message string
}

// RecordError lists every problem found in one record.
type RecordError struct {
	Name   string
	Fields []FieldError
}

func (e *RecordError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("interface %s: %s", e.Name, strings.Join(parts, "; "))
}

// Validate checks field ranges and cross-field consistency. It does not check
// that the interface exists.
func (r *NetworkRecord) Validate() error {
	rerr := &RecordError{Name: r.Name}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				rerr.Fields = append(rerr.Fields, FieldError{Field: fe.Field(), Message: validationMessage(fe)})
			}
		} else {
			return err
		}
	}

	if r.WifiMode != WifiModeNone && !r.IsWifi && r.classified {
		rerr.Fields = append(rerr.Fields, FieldError{Field: "wifi_mode", Message: "interface is not wireless"})
	}
	if r.AddressMode == AddressModeStatic && r.Enabled && len(r.StaticAddresses) == 0 {
		rerr.Fields = append(rerr.Fields, FieldError{Field: "static_addresses", Message: "static mode needs at least one address"})
	}
	for _, p := range r.StaticAddresses {
		if !p.IsValid() {
			rerr.Fields = append(rerr.Fields, FieldError{Field: "static_addresses", Message: "invalid prefix"})
		}
	}

	start, end := r.DHCPRangeStart, r.DHCPRangeEnd
	switch {
	case start.IsValid() != end.IsValid():
		rerr.Fields = append(rerr.Fields, FieldError{Field: "dhcp_range", Message: "start and end must be set together"})
	case start.IsValid() && start.Is4() != end.Is4():
		rerr.Fields = append(rerr.Fields, FieldError{Field: "dhcp_range", Message: "start and end must be the same address family"})
	case start.IsValid() && end.Less(start):
		rerr.Fields = append(rerr.Fields, FieldError{Field: "dhcp_range", Message: "end is before start"})
	}

	if len(rerr.Fields) > 0 {
		return rerr
	}
	return nil
}

// Validate validates every record and returns the failures joined.
func (s *Settings) Validate() error {
	var errs []error
	for _, rec := range s.Records() {
		if err := rec.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "gte", "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}
