package spec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/algo"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/dataset"
)

var specValidate *validator.Validate

func init() {
	specValidate = validator.New(validator.WithRequiredStructEnabled())

	// report field paths with their YAML keys
	specValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = specValidate.RegisterValidation("dataset", func(fl validator.FieldLevel) bool {
		_, err := dataset.Lookup(fl.Field().String())
		return err == nil
	})
	_ = specValidate.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		_, err := algo.Lookup(fl.Field().String())
		return err == nil
	})
}

func validateStruct(s *BenchSpec) error {
	err := specValidate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.NewValidationWrap("validate bench spec", err)
	}

	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return apperr.NewFieldValidation(field, describeRule(fe))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "dataset":
		return fmt.Sprintf("unknown dataset %q", fe.Value())
	case "algorithm":
		return fmt.Sprintf("unknown algorithm %q", fe.Value())
	case "required":
		return "is required"
	case "unique":
		return "must not contain duplicates"
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "len":
		return fmt.Sprintf("must have exactly %s entries", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
