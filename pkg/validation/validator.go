package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-ddd-worktime/pkg/helpers"
)

// ExistsFunc reports whether an identifier refers to a live record.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Validator validates command structs with the custom tags used across the API:
// notblank, iso8601, iso8601_after=<Field> and user_exists.
type Validator struct {
	v *validator.Validate
}

type options struct {
	userExists ExistsFunc
	loc        *time.Location
}

type Option func(*options)

// WithUserExists enables the user_exists tag. A lookup error fails the field.
func WithUserExists(exists ExistsFunc) Option {
	return func(o *options) { o.userExists = exists }
}

// WithLocation sets the zone offset-less dates are read in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

func New(opts ...Option) *Validator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	register(v, o.loc)
	if o.userExists != nil {
		exists := o.userExists
		_ = v.RegisterValidationCtx("user_exists", func(ctx context.Context, fl validator.FieldLevel) bool {
			id := fl.Field().String()
			if id == "" {
				return false
			}
			ok, err := exists(ctx, id)
			return err == nil && ok
		})
	}
	return &Validator{v: v}
}

// ValidateStruct returns field messages keyed by JSON name, or nil when valid.
func (val *Validator) ValidateStruct(ctx context.Context, s any) map[string]string {
	if err := val.v.StructCtx(ctx, s); err != nil {
		return ToDetails(err)
	}
	return nil
}

// Init configures the global validator used by Gin's binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v, nil)
	}
}

func register(v *validator.Validate, loc *time.Location) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := helpers.ParseISO8601(fl.Field().String(), loc)
		return err == nil
	})
	// iso8601_after=Other passes when both fields parse and this one is strictly later.
	// An unparsable sibling is left to that field's own iso8601 rule.
	_ = v.RegisterValidation("iso8601_after", func(fl validator.FieldLevel) bool {
		other := fl.Parent().FieldByName(fl.Param())
		if !other.IsValid() || other.Kind() != reflect.String {
			return false
		}
		start, err := helpers.ParseISO8601(other.String(), loc)
		if err != nil {
			return true
		}
		end, err := helpers.ParseISO8601(fl.Field().String(), loc)
		if err != nil {
			return true
		}
		return end.After(start)
	})
	v.RegisterAlias("uuid4", "uuid")
	v.RegisterAlias("nonzero", "required")
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	// ===== PRESENCE =====
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "required_with":
		return "is required when " + param + " is present"
	case "required_without":
		return "is required when " + param + " is not present"

	// ===== FORMATS =====
	case "uuid", "uuid4", "uuid_rfc4122":
		return "must be a valid UUID"
	case "iso8601":
		return "must be a valid ISO-8601 date"
	case "datetime":
		if param != "" {
			return "must match datetime format: " + param
		}
		return "must be a valid datetime"
	case "email":
		return "must be a valid email"

	// ===== REFERENCES =====
	case "user_exists":
		return "user not found"

	// ===== SIZE =====
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"

	// ===== COMPARISONS =====
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gtfield", "iso8601_after":
		return "must be after " + fieldLabel(param)
	case "ltfield":
		return "must be before " + fieldLabel(param)
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")

	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

// fieldLabel turns a Go field name into its lowerCamel JSON form (StartDate -> startDate).
func fieldLabel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
