package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/maksimkurb/hostnet/src/internal/services"
)

var knownServices = map[string]bool{
	services.Netplan: true,
	services.Dhcpcd:  true,
	services.Dnsmasq: true,
	services.Hostapd: true,
}

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if err := validate.Struct(&c.General); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
	}
	if err := validate.Struct(&c.Paths); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "paths", "")...)
	}
	if err := validate.Struct(&c.API); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "api", "")...)
	}
	validationErrors = append(validationErrors, c.validateServices()...)

	if c.Paths.DnsmasqConf != "" && c.Paths.DnsmasqConf == c.Paths.HostapdConf {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "paths.hostapd_conf",
			Message:   "must differ from paths.dnsmasq_conf",
		})
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateServices() ValidationErrors {
	var validationErrors ValidationErrors

	if err := validate.Struct(&c.Services); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "services", "")...)
	}

	overrides := c.Services.Override

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !knownServices[name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  name,
				FieldPath: "services.override",
				Message:   fmt.Sprintf("unknown service: %s", name),
			})
		}

		o := overrides[name]
		if o == nil {
			continue
		}
		if err := validate.Struct(o); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("services.override.%s", name), name)...)
		}
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
