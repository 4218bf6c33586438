// Package validation provides centralized input validation.
//
// SYSTEM ARCHITECTURE ROLE:
// Every surface (CLI flags, HTTP bodies, TUI forms routed through commands)
// converts its input to a parameter map and validates it here before the
// service layer sees it. Validation catches shape problems: missing or blank
// fields, wrong types, unknown options, oversize text. Catalog membership of a
// framework id is left to the renderer so the UNKNOWN_FRAMEWORK error is
// reported the same way on every path.
//
// KEY RESPONSIBILITIES:
// - Define validation schemas for command parameters and API inputs
// - Perform type-safe validation and conversion of user input
// - Generate field-specific error messages in a stable order
//
// INTEGRATION POINTS:
// - internal/commands/executor.go: CommandExecutor validates parameters by schema name
// - internal/validation/middleware.go: RequestValidator validates API request bodies
// - internal/errors/errors.go: ValidationResult.ToAppError() converts failures to AppError
//
// SCHEMAS:
// list_frameworks, get_framework, search_frameworks, render, classify, vibe,
// export, session_create, session_fields, session_extras, session_intake
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/vibe"
)

// Limits on free text
const (
	MaxIntakeLength = 20000
	MaxFieldLength  = 20000
	MaxTitleLength  = 200
	MaxQueryLength  = 200
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// FieldValidator provides validation rules for individual fields
type FieldValidator struct {
	Name      string
	Required  bool
	NonBlank  bool
	Type      string
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Options   []string
	Custom    func(interface{}) error
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Errors []ValidationError      `json:"errors,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Schema represents a validation schema
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]interface{}) error
}

// Validator provides centralized validation functionality
type Validator struct {
	schemas map[string]*Schema
}

// NewValidator creates a new validator with the built-in schemas registered
func NewValidator() *Validator {
	v := &Validator{
		schemas: make(map[string]*Schema),
	}
	v.registerBuiltinSchemas()
	return v
}

// RegisterSchema registers a validation schema
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// HasSchema reports whether a schema is registered
func (v *Validator) HasSchema(name string) bool {
	_, ok := v.schemas[name]
	return ok
}

// Validate validates data against a schema. Fields are checked in name order
// so the first reported error is stable.
func (v *Validator) Validate(schemaName string, data map[string]interface{}) *ValidationResult {
	schema, exists := v.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Code:    "SCHEMA_NOT_FOUND",
				Message: fmt.Sprintf("Validation schema '%s' not found", schemaName),
			}},
		}
	}

	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
		Data:   make(map[string]interface{}),
	}

	names := make([]string, 0, len(schema.Fields))
	for name := range schema.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v.validateField(name, schema.Fields[name], data, result)
	}

	for _, rule := range schema.Rules {
		if err := rule(data); err != nil {
			result.fail("schema", "SCHEMA_RULE_VIOLATION", err.Error(), nil)
		}
	}

	return result
}

func (r *ValidationResult) fail(field, code, message string, value interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message, Value: value})
}

// validateField validates a single field
func (v *Validator) validateField(fieldName string, validator FieldValidator, data map[string]interface{}, result *ValidationResult) {
	value, exists := data[fieldName]

	if validator.Required && (!exists || value == nil || value == "") {
		result.fail(fieldName, "REQUIRED_FIELD_MISSING", fmt.Sprintf("Field '%s' is required", fieldName), nil)
		return
	}

	if !exists || value == nil {
		return
	}

	convertedValue, err := v.validateAndConvertType(fieldName, validator.Type, value)
	if err != nil {
		result.fail(fieldName, "INVALID_TYPE", err.Error(), value)
		return
	}

	result.Data[fieldName] = convertedValue

	if strValue, ok := convertedValue.(string); ok && validator.Type == "string" {
		v.validateString(fieldName, validator, strValue, result)
	}

	if validator.Custom != nil {
		if err := validator.Custom(convertedValue); err != nil {
			result.fail(fieldName, "CUSTOM_VALIDATION_FAILED", fmt.Sprintf("Field '%s': %s", fieldName, err.Error()), convertedValue)
		}
	}
}

func (v *Validator) validateString(fieldName string, validator FieldValidator, strValue string, result *ValidationResult) {
	if validator.NonBlank && strings.TrimSpace(strValue) == "" {
		result.fail(fieldName, "BLANK_FIELD", fmt.Sprintf("Field '%s' must not be blank", fieldName), strValue)
		return
	}

	if validator.MinLength > 0 && len(strValue) < validator.MinLength {
		result.fail(fieldName, "MIN_LENGTH_VIOLATION",
			fmt.Sprintf("Field '%s' must be at least %d characters long", fieldName, validator.MinLength), strValue)
	}

	if validator.MaxLength > 0 && len(strValue) > validator.MaxLength {
		result.fail(fieldName, "MAX_LENGTH_VIOLATION",
			fmt.Sprintf("Field '%s' must be at most %d characters long", fieldName, validator.MaxLength), nil)
	}

	if validator.Pattern != nil && strValue != "" && !validator.Pattern.MatchString(strValue) {
		result.fail(fieldName, "PATTERN_MISMATCH",
			fmt.Sprintf("Field '%s' does not match required pattern", fieldName), strValue)
	}

	if len(validator.Options) > 0 && strValue != "" {
		for _, option := range validator.Options {
			if strValue == option {
				return
			}
		}
		result.fail(fieldName, "INVALID_OPTION",
			fmt.Sprintf("Field '%s' must be one of: %s", fieldName, strings.Join(validator.Options, ", ")), strValue)
	}
}

// validateAndConvertType validates and converts value to the specified type
func (v *Validator) validateAndConvertType(fieldName, expectedType string, value interface{}) (interface{}, error) {
	switch expectedType {
	case "string":
		if str, ok := value.(string); ok {
			return str, nil
		}
		return nil, fmt.Errorf("field '%s' must be a string", fieldName)

	case "int":
		switch val := value.(type) {
		case int:
			return val, nil
		case float64:
			return int(val), nil
		case string:
			if intVal, err := strconv.Atoi(val); err == nil {
				return intVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be an integer", fieldName)

	case "bool":
		switch val := value.(type) {
		case bool:
			return val, nil
		case string:
			if boolVal, err := strconv.ParseBool(val); err == nil {
				return boolVal, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be a boolean", fieldName)

	case "string_map":
		return toStringMap(fieldName, value)

	case "object":
		if obj, ok := value.(map[string]interface{}); ok {
			return obj, nil
		}
		return nil, fmt.Errorf("field '%s' must be an object", fieldName)

	default:
		return value, nil
	}
}

// toStringMap accepts a JSON object of strings or a Go string map
func toStringMap(fieldName string, value interface{}) (map[string]string, error) {
	switch val := value.(type) {
	case map[string]string:
		return val, nil
	case map[string]interface{}:
		out := make(map[string]string, len(val))
		for k, raw := range val {
			if raw == nil {
				out[k] = ""
				continue
			}
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("field '%s.%s' must be a string", fieldName, k)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("field '%s' must be an object of strings", fieldName)
}

// maxValueLength rejects string maps with oversize values
func maxValueLength(limit int) func(interface{}) error {
	return func(value interface{}) error {
		m, ok := value.(map[string]string)
		if !ok {
			return nil
		}
		for k, s := range m {
			if len(s) > limit {
				return fmt.Errorf("value for '%s' must be at most %d characters long", k, limit)
			}
		}
		return nil
	}
}

// allowedKeys rejects string maps with keys outside keys
func allowedKeys(keys ...string) func(interface{}) error {
	return func(value interface{}) error {
		m, ok := value.(map[string]string)
		if !ok {
			return nil
		}
		var unknown []string
		for k := range m {
			found := false
			for _, allowed := range keys {
				if k == allowed {
					found = true
					break
				}
			}
			if !found {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return fmt.Errorf("unknown keys %s (allowed: %s)", strings.Join(unknown, ", "), strings.Join(keys, ", "))
		}
		return nil
	}
}

// vibeSelection checks a nested {model, vibe} object
func vibeSelection(value interface{}) error {
	m, err := toStringMap("vibe", value)
	if err != nil {
		return err
	}
	if model := m["model"]; model != "" && !contains(ModelOptions(), model) {
		return fmt.Errorf("model must be one of: %s", strings.Join(ModelOptions(), ", "))
	}
	if tone := m["vibe"]; tone != "" && !contains(VibeOptions(), tone) {
		return fmt.Errorf("vibe must be one of: %s", strings.Join(VibeOptions(), ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// ModelOptions lists the valid vibe model keys
func ModelOptions() []string {
	var out []string
	for _, m := range vibe.Models() {
		out = append(out, string(m.Key))
	}
	return out
}

// VibeOptions lists the valid vibe keys
func VibeOptions() []string {
	var out []string
	for _, v := range vibe.Vibes() {
		out = append(out, string(v.Key))
	}
	return out
}

// ExtrasKeys are the accepted keys of an extras object
var ExtrasKeys = []string{"audience", "tone", "length", "style", "constraints"}

func frameworkIDField(required bool) FieldValidator {
	return FieldValidator{
		Name:      "frameworkId",
		Type:      "string",
		Required:  required,
		MaxLength: 50,
		Pattern:   identifierPattern,
	}
}

func valuesField() FieldValidator {
	return FieldValidator{Name: "values", Type: "string_map", Custom: maxValueLength(MaxFieldLength)}
}

func extrasField() FieldValidator {
	return FieldValidator{Name: "extras", Type: "string_map", Custom: combine(allowedKeys(ExtrasKeys...), maxValueLength(MaxFieldLength))}
}

func combine(checks ...func(interface{}) error) func(interface{}) error {
	return func(value interface{}) error {
		for _, check := range checks {
			if err := check(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// registerBuiltinSchemas registers the schemas used by commands and the API
func (v *Validator) registerBuiltinSchemas() {
	v.RegisterSchema(&Schema{
		Name: "list_frameworks",
		Fields: map[string]FieldValidator{
			"format": {Name: "format", Type: "string", Options: []string{"json", "text", "table", "ids"}},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "get_framework",
		Fields: map[string]FieldValidator{
			"id": {Name: "id", Type: "string", Required: true, MaxLength: 50, Pattern: identifierPattern},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "search_frameworks",
		Fields: map[string]FieldValidator{
			"query": {Name: "query", Type: "string", MaxLength: MaxQueryLength},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "render",
		Fields: map[string]FieldValidator{
			"frameworkId": frameworkIDField(true),
			"values":      valuesField(),
			"extras":      extrasField(),
			"vibe":        {Name: "vibe", Type: "object", Custom: vibeSelection},
			"format":      {Name: "format", Type: "string", Options: []string{"text", "json"}},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "classify",
		Fields: map[string]FieldValidator{
			"text": {Name: "text", Type: "string", Required: true, NonBlank: true, MaxLength: MaxIntakeLength},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "vibe",
		Fields: map[string]FieldValidator{
			"model": {Name: "model", Type: "string", Options: ModelOptions()},
			"vibe":  {Name: "vibe", Type: "string", Options: VibeOptions()},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "export",
		Fields: map[string]FieldValidator{
			"frameworkId": frameworkIDField(true),
			"values":      valuesField(),
			"extras":      extrasField(),
			"vibe":        {Name: "vibe", Type: "object", Custom: vibeSelection},
			"title":       {Name: "title", Type: "string", MaxLength: MaxTitleLength},
			"write":       {Name: "write", Type: "bool"},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "session_create",
		Fields: map[string]FieldValidator{
			"frameworkId": frameworkIDField(false),
		},
	})

	v.RegisterSchema(&Schema{
		Name: "session_fields",
		Fields: map[string]FieldValidator{
			"frameworkId": frameworkIDField(false),
			"values":      {Name: "values", Type: "string_map", Required: true, Custom: maxValueLength(MaxFieldLength)},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "session_extras",
		Fields: map[string]FieldValidator{
			"extras": extrasField(),
			"title":  {Name: "title", Type: "string", MaxLength: MaxTitleLength},
			"vibe":   {Name: "vibe", Type: "object", Custom: vibeSelection},
		},
	})

	v.RegisterSchema(&Schema{
		Name: "session_intake",
		Fields: map[string]FieldValidator{
			"text":        {Name: "text", Type: "string", Required: true, NonBlank: true, MaxLength: MaxIntakeLength},
			"frameworkId": frameworkIDField(false),
		},
	})
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	firstError := result.Errors[0]
	code := errors.ErrCodeValidation
	switch firstError.Code {
	case "REQUIRED_FIELD_MISSING":
		code = errors.ErrCodeMissingField
	case "BLANK_FIELD":
		code = errors.ErrCodeEmptyInput
	case "INVALID_TYPE", "PATTERN_MISMATCH":
		code = errors.ErrCodeInvalidFormat
	}
	appErr := errors.NewAppError(code, firstError.Message)

	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}

	appErr.WithDetails(strings.Join(details, "; "))
	appErr.WithContext("validation_errors", result.Errors)

	return appErr
}

// GetValidatedData returns the validated and converted data
func (result *ValidationResult) GetValidatedData() map[string]interface{} {
	if !result.Valid {
		return nil
	}
	return result.Data
}
