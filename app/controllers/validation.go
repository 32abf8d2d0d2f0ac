package controllers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/gilanghuda/goal-tracker-backend/pkg/utils"
	"github.com/go-playground/validator/v10"
)

func newValidator(now func() time.Time, loc *time.Location) *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("mixed_case", func(fl validator.FieldLevel) bool {
		return utils.HasMixedCase(fl.Field().String())
	})
	_ = v.RegisterValidation("has_number", func(fl validator.FieldLevel) bool {
		return utils.HasNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("has_symbol", func(fl validator.FieldLevel) bool {
		return utils.HasSymbol(fl.Field().String())
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String(), loc)
		return err == nil
	})
	_ = v.RegisterValidation("after_now", func(fl validator.FieldLevel) bool {
		t, err := models.ParseDate(fl.Field().String(), loc)
		return err == nil && t.After(now())
	})
	return v
}

// collect appends the messages for a validator error to errs. Errors other
// than field validation failures are returned.
func collect(errs fieldErrors, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		field := fe.Field()
		if errs.has(field) {
			continue
		}
		errs.add(field, fieldMessage(field, fe.Tag(), fe.Param()))
	}
	return nil
}

// validateAll runs every rule of req, skipping fields that already failed to
// decode.
func (ctl *Controller) validateAll(errs fieldErrors, req any) error {
	return collect(errs, ctl.validate.Struct(req))
}

// validatePresent runs only the rules of fields present in the request body.
// present maps JSON keys to the struct field names of req. A present key in
// implies lists further fields whose rules depend on it.
func (ctl *Controller) validatePresent(errs fieldErrors, req any, fields map[string]json.RawMessage, present map[string]string, implies map[string][]string) error {
	var names []string
	seen := map[string]bool{}
	include := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for key, name := range present {
		if _, ok := fields[key]; !ok {
			continue
		}
		include(name)
		for _, extra := range implies[key] {
			include(extra)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return collect(errs, ctl.validate.StructPartial(req, names...))
}
