package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/fhuszti/conversions-ms-go/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Tell the validator to use the JSON tag as the “field name”
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister("imageformat", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseFormat(fl.Field().String())
		return ok
	})
	mustRegister("fitmode", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.FitModes, model.FitMode(fl.Field().String()))
	})
	mustRegister("filtername", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.Filters, model.Filter(fl.Field().String()))
	})
	mustRegister("platform", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.Platforms, model.Platform(fl.Field().String()))
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic("validation: could not register " + tag + ": " + err.Error())
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToMap flattens validator errors into field -> failed tag.
// Errors that are not validator.ValidationErrors yield nil.
func ErrorsToMap(validationErrs error) map[string]string {
	var vErrs validator.ValidationErrors
	if !errors.As(validationErrs, &vErrs) {
		return nil
	}
	errsMap := make(map[string]string, len(vErrs))
	for _, fieldErr := range vErrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}
	return errsMap
}

func ErrorsToJson(validationErrs error) (string, error) {
	errsJson, err := json.Marshal(ErrorsToMap(validationErrs))
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
