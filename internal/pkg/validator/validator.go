package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	playground "github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

var monthKeyRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidMonthKey checks the canonical YYYY-MM form.
func IsValidMonthKey(s string) bool {
	return monthKeyRegex.MatchString(s)
}

var (
	structValidator *playground.Validate
	once            sync.Once
)

func engine() *playground.Validate {
	once.Do(func() {
		v := playground.New()
		// Report fields by their json name.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("monthkey", func(fl playground.FieldLevel) bool {
			return IsValidMonthKey(fl.Field().String())
		})
		structValidator = v
	})
	return structValidator
}

// Struct validates `validate` struct tags and converts failures into
// ValidationErrors keyed by json field name.
func Struct(s interface{}) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return errs
}

func messageFor(fe playground.FieldError) string {
	// Casers are stateful and must not be shared between goroutines.
	name := cases.Title(language.English).String(strings.ReplaceAll(fe.Field(), "_", " "))
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return name + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		return name + " must be at least " + fe.Param()
	case "max", "lte":
		return name + " must be at most " + fe.Param()
	case "monthkey":
		return name + " must use the YYYY-MM format"
	default:
		return name + " is invalid"
	}
}
