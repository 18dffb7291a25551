package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"

	"robot-registry/internal/model"
)

// Version is written into every exported envelope.
const Version = "1.0"

// ExportDateLayout matches the ISO-8601 form with millisecond precision.
const ExportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the persisted export file.
type Envelope struct {
	Robots     []model.Robot `json:"robots"`
	ExportDate string        `json:"exportDate"`
	Version    string        `json:"version"`
	Count      int           `json:"count"`
}

// WriteTo writes the envelope as JSON indented by two spaces.
func (e *Envelope) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode envelope: %w", err)
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// Validation is the outcome of ValidateEnvelope. Errors is never nil.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// FormatError rejects a whole import batch because the envelope is malformed.
type FormatError struct {
	Violations []string
	err        *multierror.Error
}

func (e *FormatError) Error() string {
	return "invalid export file format: " + e.err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.err
}

// ValidateEnvelope reports every structural problem found in data without
// failing. Element positions in the messages are 1-based.
func ValidateEnvelope(data []byte) Validation {
	_, errs := checkEnvelope(data)
	if errs == nil {
		return Validation{Valid: true, Errors: []string{}}
	}
	return Validation{Valid: false, Errors: messages(errs)}
}

// checkEnvelope parses data and collects its violations. The returned
// records are only meaningful when errs is nil.
func checkEnvelope(data []byte) ([]any, *multierror.Error) {
	var errs *multierror.Error

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		errs = multierror.Append(errs, errors.New("invalid JSON"))
		errs.ErrorFormat = joinComma
		return nil, errs
	}
	fields, _ := doc.(map[string]any)

	var records []any
	robots := fields["robots"]
	switch list, isList := robots.([]any); {
	case !truthy(robots):
		errs = multierror.Append(errs, errors.New(`"robots" property is missing`))
	case !isList:
		errs = multierror.Append(errs, errors.New(`"robots" property must be an array`))
	default:
		records = list
		for i, rec := range list {
			if violations := checkRecord(i+1, rec); len(violations) > 0 {
				errs = multierror.Append(errs, violations...)
			}
		}
	}

	if !truthy(fields["exportDate"]) {
		errs = multierror.Append(errs, errors.New("export date is missing"))
	}
	if !truthy(fields["version"]) {
		errs = multierror.Append(errs, errors.New("version is missing"))
	}

	if errs != nil {
		errs.ErrorFormat = joinComma
	}
	return records, errs
}

func checkRecord(pos int, rec any) []error {
	fields, _ := rec.(map[string]any)

	var out []error
	for _, key := range []string{"name", "label", "year", "type"} {
		if !truthy(fields[key]) {
			out = append(out, fmt.Errorf("robot %d: %s is missing", pos, key))
		}
	}
	if name := fields["name"]; truthy(name) {
		if _, ok := name.(string); !ok {
			out = append(out, fmt.Errorf("robot %d: name must be a string", pos))
		}
	}
	if year := fields["year"]; truthy(year) {
		if _, ok := year.(float64); !ok {
			out = append(out, fmt.Errorf("robot %d: year must be a number", pos))
		}
	}
	return out
}

// truthy follows JSON-value truthiness: null, false, 0 and "" are falsy.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

func joinComma(errs []error) string {
	return strings.Join(errorStrings(errs), ", ")
}

func messages(errs *multierror.Error) []string {
	return errorStrings(errs.WrappedErrors())
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
