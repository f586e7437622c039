package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"lead-intake/errors"
	"lead-intake/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("leademail", func(fl validator.FieldLevel) bool {
		return IsLeadEmail(fl.Field().String())
	})
	return v
}

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)

// IsLeadEmail accepts plain dotted addresses with an alphabetic TLD of two
// or more letters. Quoted local parts, IP literals, a leading dot and
// consecutive dots are rejected.
func IsLeadEmail(s string) bool {
	if strings.HasPrefix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	return emailPattern.MatchString(s)
}

// leadInput mirrors models.Lead minus createdAt, which only the store assigns.
// min/max count code points.
type leadInput struct {
	Name      string `json:"name" validate:"min=1,max=100"`
	Business  string `json:"business" validate:"min=1,max=140"`
	Phone     string `json:"phone" validate:"omitempty,min=7,max=40"`
	Email     string `json:"email" validate:"leademail"`
	Service   string `json:"service" validate:"min=1,max=140"`
	Timeframe string `json:"timeframe" validate:"min=1,max=80"`
	Notes     string `json:"notes" validate:"max=800"`
}

type fieldSpec struct {
	name     string
	optional bool
	target   func(*leadInput) *string
}

var leadFields = []fieldSpec{
	{FieldName, false, func(in *leadInput) *string { return &in.Name }},
	{FieldBusiness, false, func(in *leadInput) *string { return &in.Business }},
	{FieldPhone, true, func(in *leadInput) *string { return &in.Phone }},
	{FieldEmail, false, func(in *leadInput) *string { return &in.Email }},
	{FieldService, false, func(in *leadInput) *string { return &in.Service }},
	{FieldTimeframe, false, func(in *leadInput) *string { return &in.Timeframe }},
	{FieldNotes, true, func(in *leadInput) *string { return &in.Notes }},
}

// ValidationError carries every problem found in a submission.
// FieldErrors is keyed by field name; FormErrors holds problems with the
// submission as a whole.
type ValidationError struct {
	FieldErrors map[string][]string `json:"fieldErrors"`
	FormErrors  []string            `json:"formErrors"`
}

func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "validation failed: " + strings.Join(e.FormErrors, "; ")
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Unwrap exposes the Invalid kind to errors.KindOf.
func (e *ValidationError) Unwrap() error {
	return errors.E(errors.Invalid, "validation failed")
}

func (e *ValidationError) add(field, msg string) {
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.FieldErrors) == 0 && len(e.FormErrors) == 0
}

// ValidateLead checks an untyped decoded JSON value against the lead schema.
// It reports all failing fields at once and ignores unknown fields. An absent
// optional field and an empty string are the same thing. The returned lead
// has a zero CreatedAt.
func ValidateLead(raw any) (models.Lead, error) {
	verr := &ValidationError{FieldErrors: map[string][]string{}, FormErrors: []string{}}

	obj, ok := raw.(map[string]any)
	if !ok {
		verr.FormErrors = append(verr.FormErrors, fmt.Sprintf("Expected object, received %s", kindOf(raw)))
		return models.Lead{}, verr
	}

	var in leadInput
	skip := map[string]bool{}
	for _, f := range leadFields {
		v, present := obj[f.name]
		if !present {
			if !f.optional {
				verr.add(f.name, "Required")
				skip[f.name] = true
			}
			continue
		}
		s, isString := v.(string)
		if !isString {
			verr.add(f.name, fmt.Sprintf("Expected string, received %s", kindOf(v)))
			skip[f.name] = true
			continue
		}
		*f.target(&in) = s
	}

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			verr.FormErrors = append(verr.FormErrors, err.Error())
			return models.Lead{}, verr
		}
		for _, fe := range fieldErrs {
			if skip[fe.Field()] {
				continue
			}
			verr.add(fe.Field(), messageFor(fe))
		}
	}

	if !verr.empty() {
		return models.Lead{}, verr
	}

	return models.Lead{
		Name:      in.Name,
		Business:  in.Business,
		Phone:     in.Phone,
		Email:     in.Email,
		Service:   in.Service,
		Timeframe: in.Timeframe,
		Notes:     in.Notes,
	}, nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "max":
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "leademail":
		return "Invalid email"
	default:
		return fmt.Sprintf("Failed %s check", fe.Tag())
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
