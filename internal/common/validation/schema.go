// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names accepted by Validate.
const (
	SchemaSearchFilters  = "search-filters"
	SchemaSuggestRequest = "suggest-request"
)

// SearchFiltersSchema describes a raw filter document as submitted by a process or form.
// Numbers and booleans may arrive as strings; typed parsing happens after this check.
const SearchFiltersSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "query":           {"type": ["string", "null"]},
    "q":               {"type": ["string", "null"]},
    "category":        {"type": ["string", "null"]},
    "area":            {"type": ["string", "null"]},
    "minPrice":        {"type": ["number", "string", "null"]},
    "maxPrice":        {"type": ["number", "string", "null"]},
    "priceRange":      {"type": ["string", "null"]},
    "minRating":       {"type": ["number", "string", "null"]},
    "verified":        {"type": ["boolean", "string", "null"]},
    "availableNow":    {"type": ["boolean", "string", "null"]},
    "responseTimeMax": {"type": ["number", "string", "null"]},
    "sortBy":          {"type": ["string", "null"]},
    "limit":           {"type": ["number", "string", "null"]},
    "offset":          {"type": ["number", "string", "null"]}
  }
}`

// SuggestRequestSchema describes a typeahead request. Blank queries, unknown types
// and limits outside 1..50 fail here.
const SuggestRequestSchema = `{
  "type": "object",
  "required": ["query"],
  "properties": {
    "query": {"type": "string", "pattern": "\\S"},
    "type":  {"enum": ["", "professionals", "categories", "services", null]},
    "limit": {"type": ["integer", "null"], "minimum": 1, "maximum": 50}
  }
}`

var schemas = mustCompile(map[string]string{
	SchemaSearchFilters:  SearchFiltersSchema,
	SchemaSuggestRequest: SuggestRequestSchema,
})

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func mustCompile(sources map[string]string) map[string]*gojsonschema.Schema {
	out := make(map[string]*gojsonschema.Schema, len(sources))
	for name, src := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic(fmt.Sprintf("invalid %s schema: %v", name, err))
		}
		out[name] = schema
	}
	return out
}

// Validate checks document against a named schema. Errors are sorted by field for stable output.
func Validate(schemaName string, document map[string]interface{}) (*ValidationResult, error) {
	schema, ok := schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", schemaName)
	}
	if document == nil {
		document = map[string]interface{}{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

// ValidateSchemaJSON compiles an arbitrary schema and validates document against it.
func ValidateSchemaJSON(schemaJSON string, document interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// additional_property_not_allowed and required errors report the root context,
// the offending key lives in the details.
func fieldName(desc gojsonschema.ResultError) string {
	if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
		return prop
	}
	return desc.Field()
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
