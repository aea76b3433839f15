package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Violations maps a form field name to a translatable error code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the violated field names in lexical order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Enum is implemented by closed string sets (sizes, statuses...).
type Enum interface {
	IsValid() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the form field name so templates can look them up directly.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(Enum)
		return ok && e.IsValid()
	})
	return v
}

// Struct validates s against its `validate` tags and records one code per failing field.
// Fields already present in v are left untouched.
func Struct(s any, v Violations) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		if _, exists := v[fe.Field()]; exists {
			continue
		}
		v[fe.Field()] = code(fe)
	}
	return nil
}

func code(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "enum", "oneof":
		return "invalid_choice"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return "too_short"
		}
		return "out_of_range"
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return "too_long"
		}
		return "out_of_range"
	case "email":
		return "invalid_email"
	default:
		return "invalid"
	}
}

// RangeDecimal flags val when it falls outside [minVal, maxVal].
func RangeDecimal(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v[field] = "out_of_range"
	}
}
