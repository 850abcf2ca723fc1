// Package schema provides offline CloudFormation schema validation for
// the resource types the stacks use.
package schema

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	ecsstack "github.com/lex00/ecs-stack-go"
)

// Options configures schema validation.
type Options struct {
	// Strict reports properties the schema does not know as warnings.
	Strict bool
}

// Error is a schema violation on one resource property.
type Error struct {
	Resource string `json:"resource"`
	Property string `json:"property"`
	Message  string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Resource, e.Property, e.Message)
}

// Result contains schema validation results.
type Result struct {
	Valid    bool
	Errors   []Error
	Warnings []Error
}

// ValidateTemplate validates every resource against the known schemas.
func ValidateTemplate(template *ecsstack.Template, opts Options) *Result {
	result := &Result{Valid: true}

	names := make([]string, 0, len(template.Resources))
	for name := range template.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		errors, warnings := validateResource(name, template.Resources[name], opts)
		result.Errors = append(result.Errors, errors...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateResource(name string, resource ecsstack.ResourceDef, opts Options) ([]Error, []Error) {
	var errors, warnings []Error

	if !isValidResourceType(resource.Type) {
		errors = append(errors, Error{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("invalid resource type format: %s", resource.Type),
		})
		return errors, warnings
	}

	schema, ok := resourceSchemas[resource.Type]
	if !ok {
		warnings = append(warnings, Error{
			Resource: name,
			Property: "Type",
			Message:  fmt.Sprintf("unknown resource type: %s (schema not available for validation)", resource.Type),
		})
		return errors, warnings
	}

	for _, required := range schema.Required {
		if _, exists := resource.Properties[required]; !exists {
			errors = append(errors, Error{
				Resource: name,
				Property: required,
				Message:  fmt.Sprintf("missing required property: %s", required),
			})
		}
	}

	props := make([]string, 0, len(resource.Properties))
	for p := range resource.Properties {
		props = append(props, p)
	}
	sort.Strings(props)

	for _, propName := range props {
		propSchema, ok := schema.Properties[propName]
		if !ok {
			if opts.Strict {
				warnings = append(warnings, Error{
					Resource: name,
					Property: propName,
					Message:  fmt.Sprintf("unknown property: %s", propName),
				})
			}
			continue
		}
		errors = append(errors, validateProperty(name, propName, resource.Properties[propName], propSchema)...)
	}

	return errors, warnings
}

// isValidResourceType checks for AWS::Service::Resource or Custom::*.
func isValidResourceType(resourceType string) bool {
	if strings.HasPrefix(resourceType, "Custom::") {
		return true
	}
	parts := strings.Split(resourceType, "::")
	if len(parts) != 3 {
		return false
	}
	return parts[0] == "AWS"
}

func validateProperty(resource, property string, value any, schema PropertySchema) []Error {
	if isIntrinsic(value) {
		return nil
	}

	var errors []Error
	if !isValidType(value, schema.Type) {
		errors = append(errors, Error{
			Resource: resource,
			Property: property,
			Message:  fmt.Sprintf("expected type %s, got %T", schema.Type, value),
		})
	}

	if len(schema.AllowedValues) > 0 {
		if strVal, ok := value.(string); ok && !slices.Contains(schema.AllowedValues, strVal) {
			errors = append(errors, Error{
				Resource: resource,
				Property: property,
				Message:  fmt.Sprintf("value %q not in allowed values: %v", strVal, schema.AllowedValues),
			})
		}
	}

	return errors
}

func isIntrinsic(value any) bool {
	m, ok := value.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	for key := range m {
		return key == "Ref" || strings.HasPrefix(key, "Fn::")
	}
	return false
}

// isValidType checks a literal value against a schema type. Numbers may
// be given as strings, which CloudFormation accepts.
func isValidType(value any, expectedType string) bool {
	switch expectedType {
	case "String":
		_, ok := value.(string)
		return ok
	case "Integer":
		switch v := value.(type) {
		case int, int32, int64, uint64, float64:
			return true
		case string:
			_, err := strconv.Atoi(v)
			return err == nil
		}
		return false
	case "Boolean":
		switch v := value.(type) {
		case bool:
			return true
		case string:
			return v == "true" || v == "false"
		}
		return false
	case "List":
		_, ok := value.([]any)
		return ok
	case "Map":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

// ResourceSchema defines the schema for a resource type.
type ResourceSchema struct {
	Required   []string
	Properties map[string]PropertySchema
}

// PropertySchema defines the schema for a property.
type PropertySchema struct {
	Type          string
	AllowedValues []string
}
