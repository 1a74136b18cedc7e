// file: internals/helpers/validation.go
package helper

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Display patterns checked as-is; the digits are never parsed apart.
var (
	cpfRe     = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	brPhoneRe = regexp.MustCompile(`^\(\d{2}\) \d{5}-\d{4}$`)
)

// NewValidator returns a validator with the project's custom tags
// registered: `cpf` (DDD.DDD.DDD-DD) and `brphone` ((DD) DDDDD-DDDD).
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Error keys follow the json tag, so tag-level and cross-field errors
	// address the same field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return cpfRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("brphone", func(fl validator.FieldLevel) bool {
		return brPhoneRe.MatchString(fl.Field().String())
	})
	return v
}

func IsValidCPF(s string) bool     { return cpfRe.MatchString(s) }
func IsValidBRPhone(s string) bool { return brPhoneRe.MatchString(s) }

// ValidatorErrors flattens validator.ValidationErrors into the
// field → messages map the response envelope expects. Field names use the
// struct json tag convention (snake_case of the Go field).
func ValidatorErrors(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		out[field] = append(out[field], validationMessage(fe))
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email address"
	case "cpf":
		return "must match the pattern DDD.DDD.DDD-DD"
	case "brphone":
		return "must match the pattern (DD) DDDDD-DDDD"
	case "min":
		return "value below the allowed minimum (" + fe.Param() + ")"
	case "max":
		return "value above the allowed maximum (" + fe.Param() + ")"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "invalid value"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505) or gorm's duplicated-key sentinel.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
