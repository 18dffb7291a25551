// Package validation checks robot fields before they reach the repository:
// length bounds on trimmed text, the year range and the type enumeration.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"robot-registry/internal/model"
)

// FormKey collects errors that are not tied to a single field.
const FormKey = "_"

// Errors maps a field name to its violation message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, e[field])
	}
	return strings.Join(msgs, "; ")
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

type robotInputRules struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Label string `json:"label" validate:"required,min=3,max=100"`
	Year  int    `json:"year" validate:"required,gte=1950,notfuture"`
	Type  string `json:"type" validate:"required,robottype"`
}

type robotUpdateRules struct {
	Name  *string `json:"name" validate:"omitnil,min=2,max=50"`
	Label *string `json:"label" validate:"omitnil,min=3,max=100"`
	Year  *int    `json:"year" validate:"omitnil,gte=1950,notfuture"`
	Type  *string `json:"type" validate:"omitnil,robottype"`
}

type listRules struct {
	Sort   string `json:"sort" validate:"omitempty,oneof=name year created_at updated_at"`
	Order  string `json:"order" validate:"omitempty,oneof=asc desc"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
}

// Validator checks robot inputs, updates and listing options.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Validator using the wall clock for the upper year bound.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Validator whose upper year bound follows now.
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(v.now().Year())
	})
	_ = v.validate.RegisterValidation("robottype", func(fl validator.FieldLevel) bool {
		return model.RobotType(fl.Field().String()).Valid()
	})
	return v
}

// Input trims and checks a new robot, returning the normalized input.
func (v *Validator) Input(in model.RobotInput) (model.RobotInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Label = strings.TrimSpace(in.Label)

	rules := robotInputRules{Name: in.Name, Label: in.Label, Year: in.Year, Type: string(in.Type)}
	if err := v.check(rules); err != nil {
		return in, err
	}
	return in, nil
}

// Update trims and checks a partial update. At least one field is required.
func (v *Validator) Update(upd model.RobotUpdate) (model.RobotUpdate, error) {
	if upd.Empty() {
		return upd, Errors{FormKey: "at least one field must be provided for an update"}
	}

	rules := robotUpdateRules{Year: upd.Year}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name, rules.Name = &name, &name
	}
	if upd.Label != nil {
		label := strings.TrimSpace(*upd.Label)
		upd.Label, rules.Label = &label, &label
	}
	if upd.Type != nil {
		kind := string(*upd.Type)
		rules.Type = &kind
	}
	if err := v.check(rules); err != nil {
		return upd, err
	}
	return upd, nil
}

// ListOptions checks the sort, order and pagination bounds of a listing.
func (v *Validator) ListOptions(opts model.ListOptions) (model.ListOptions, error) {
	opts.Q = strings.TrimSpace(opts.Q)
	rules := listRules{Sort: string(opts.Sort), Order: string(opts.Order), Limit: opts.Limit, Offset: opts.Offset}
	if err := v.check(rules); err != nil {
		return opts, err
	}
	return opts, nil
}

func (v *Validator) check(rules any) error {
	err := v.validate.Struct(rules)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = v.message(fe)
		}
	}
	return out
}

func (v *Validator) message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or later", field, fe.Param())
	case "notfuture":
		return fmt.Sprintf("%s cannot be after %d", field, v.now().Year())
	case "robottype":
		kinds := make([]string, len(model.RobotTypes))
		for i, k := range model.RobotTypes {
			kinds[i] = string(k)
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(kinds, ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
