package provider

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidateConfigFields validates configuration against provided field definitions
func ValidateConfigFields(providerName string, config map[string]string, requiredFields []ConfigField) error {
	for _, field := range requiredFields {
		if !field.Required {
			continue
		}

		value, exists := config[field.Key]
		if !exists {
			return fmt.Errorf("%s: required field '%s' is missing", providerName, field.Key)
		}

		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s: required field '%s' cannot be empty", providerName, field.Key)
		}

		if field.Type == "boolean" && value != "true" && value != "false" {
			return fmt.Errorf("%s: field '%s' must be 'true' or 'false'", providerName, field.Key)
		}

		if field.Pattern != "" {
			matched, err := regexp.MatchString(field.Pattern, value)
			if err != nil {
				return fmt.Errorf("%s: invalid pattern for field '%s': %w", providerName, field.Key, err)
			}
			if !matched {
				return fmt.Errorf("%s: field '%s' does not match expected format", providerName, field.Key)
			}
		}
	}

	return nil
}
