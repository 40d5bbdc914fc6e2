package config

import (
	"fmt"
	"net"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/hostnet/src/internal/services"
)

var leaseTimeRegexp = regexp.MustCompile(`^(infinite|[0-9]+[smhdw]?)$`)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostport":
		return "must be in format 'host:port'"
	case "lease_time":
		return "must be a dnsmasq lease time such as 12h, 45m, 3600 or infinite"
	case "command_template":
		return "must be a non-empty command, {{service}} is replaced with the service name"
	case "yaml_file":
		return "must end with .yaml, netplan ignores other files"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // For service overrides: the service name (e.g., "hostapd")
	FieldPath string // Dot-notation field path (e.g., "paths.hostapd_conf", "services.timeout_seconds")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	if err := validate.RegisterValidation("lease_time", validateLeaseTime); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("command_template", validateCommandTemplate); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("yaml_file", validateYAMLFile); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("hostport", validateHostPort); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validator: dnsmasq lease time
func validateLeaseTime(fl validator.FieldLevel) bool {
	return leaseTimeRegexp.MatchString(fl.Field().String())
}

// Custom validator: command template that renders to at least one word
func validateCommandTemplate(fl validator.FieldLevel) bool {
	_, err := services.RenderCommand(fl.Field().String(), "hostnet")
	return err == nil
}

// Custom validator: netplan only reads files with the .yaml extension
func validateYAMLFile(fl validator.FieldLevel) bool {
	return strings.HasSuffix(fl.Field().String(), ".yaml")
}

// Custom validator: host:port format
func validateHostPort(fl validator.FieldLevel) bool {
	_, _, err := net.SplitHostPort(fl.Field().String())
	return err == nil
}
