// Package validation/middleware provides HTTP request validation middleware.
//
// SYSTEM ARCHITECTURE ROLE:
// This bridges HTTP request parsing with the schema validator. A wrapped
// handler only runs once its merged query, path and JSON body parameters pass
// the named schema; the validated map is then available from the request
// context.
//
// EXTRACTION PATTERNS:
// - Query parameters: single values as strings, repeated values as []string
// - Path parameters: named wildcards from the ServeMux pattern (r.PathValue)
// - JSON body: top-level object merged over query parameters
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ooti/prompt-lab/internal/errors"
)

// MaxBodyBytes caps request bodies read for validation
const MaxBodyBytes = 1 << 20

type paramsKey struct{}

// RequestValidator provides middleware for HTTP request validation
type RequestValidator struct {
	validator    *Validator
	errorHandler *errors.HTTPErrorHandler
}

// NewRequestValidator creates a new request validator middleware
func NewRequestValidator(v *Validator, errorHandler *errors.HTTPErrorHandler) *RequestValidator {
	if v == nil {
		v = NewValidator()
	}
	if errorHandler == nil {
		errorHandler = errors.NewHTTPErrorHandler(true)
	}
	return &RequestValidator{validator: v, errorHandler: errorHandler}
}

// ValidateRequest validates requests against schemaName. pathParams names the
// pattern wildcards to copy into the parameter map.
func (rv *RequestValidator) ValidateRequest(schemaName string, pathParams ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			data, err := ExtractRequestData(r, pathParams...)
			if err != nil {
				rv.errorHandler.WriteHTTPError(w, err)
				return
			}

			result := rv.validator.Validate(schemaName, data)
			if !result.Valid {
				rv.errorHandler.WriteHTTPError(w, result.ToAppError())
				return
			}

			// Path values are identifiers for the handler, not schema fields
			validated := result.GetValidatedData()
			for _, name := range pathParams {
				if _, ok := validated[name]; !ok {
					validated[name] = r.PathValue(name)
				}
			}

			next(w, r.WithContext(WithParams(r.Context(), validated)))
		}
	}
}

// WithParams stores validated parameters in ctx
func WithParams(ctx context.Context, params map[string]interface{}) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}

// ParamsFrom returns the validated parameters stored by ValidateRequest, or
// an empty map
func ParamsFrom(ctx context.Context) map[string]interface{} {
	if params, ok := ctx.Value(paramsKey{}).(map[string]interface{}); ok {
		return params
	}
	return map[string]interface{}{}
}

// ExtractRequestData merges query, path and JSON body parameters. The body is
// restored so later handlers can read it again.
func ExtractRequestData(r *http.Request, pathParams ...string) (map[string]interface{}, error) {
	data := make(map[string]interface{})

	for key, values := range r.URL.Query() {
		if len(values) == 1 {
			data[key] = values[0]
		} else if len(values) > 1 {
			data[key] = values
		}
	}

	for _, name := range pathParams {
		if v := r.PathValue(name); v != "" {
			data[name] = v
		}
	}

	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" || strings.Contains(contentType, "application/json") {
			bodyData, err := extractJSONBody(r)
			if err != nil {
				return nil, err
			}
			for key, value := range bodyData {
				data[key] = value
			}
		}
	}

	return data, nil
}

// extractJSONBody extracts data from JSON request body
func extractJSONBody(r *http.Request) (map[string]interface{}, error) {
	if r.Body == nil {
		return map[string]interface{}{}, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, errors.ValidationError("Failed to read request body")
	}
	if len(body) > MaxBodyBytes {
		return nil, errors.ValidationError("Request body too large")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]interface{}{}, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidFormat, "Invalid JSON in request body").
			WithDetails(err.Error())
	}

	return data, nil
}

// SanitizeString removes null bytes and control characters, keeping newlines
// and tabs
func SanitizeString(input string) string {
	cleaned := strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range cleaned {
		if r == '\n' || r == '\t' || r == '\r' || r >= 32 {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// GetValidator returns the underlying validator instance
func (rv *RequestValidator) GetValidator() *Validator {
	return rv.validator
}
