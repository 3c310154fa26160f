package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

// Validator provides validation functionality
type Validator interface {
	Validate(interface{}) error
	ValidateField(field string, value interface{}, rules ...string) error
}

type validator struct {
	v *playground.Validate
}

func New() Validator {
	return newValidator()
}

// NewBindingValidator returns a gin struct validator that reads the same
// "binding" tags and reports errors with the same messages as New.
func NewBindingValidator() binding.StructValidator {
	return newValidator()
}

func newValidator() *validator {
	v := playground.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonTagName)
	if err := RegisterSlotValidation(v); err != nil {
		panic(err)
	}
	return &validator{v: v}
}

// RegisterSlotValidation adds the "slot" tag to v.
func RegisterSlotValidation(v *playground.Validate) error {
	return v.RegisterValidation("slot", func(fl playground.FieldLevel) bool {
		_, err := ParseSlot(fl.Field().String())
		return err == nil
	})
}

func (v *validator) Validate(obj interface{}) error {
	if err := v.v.Struct(obj); err != nil {
		return describe(err)
	}
	return nil
}

// ValidateStruct skips anything that is not a struct or a pointer to one.
func (v *validator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	return v.Validate(obj)
}

func (v *validator) Engine() interface{} {
	return v.v
}

func (v *validator) ValidateField(field string, value interface{}, rules ...string) error {
	if err := v.v.Var(value, strings.Join(rules, ",")); err != nil {
		if errs, ok := err.(playground.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("%s %s", field, ruleMessage(errs[0]))
		}
		return err
	}
	return nil
}

func describe(err error) error {
	errs, ok := err.(playground.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s %s", e.Field(), ruleMessage(e)))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func ruleMessage(e playground.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "slot":
		return "must be a 60 minute range in format 'hh:mm-hh:mm'"
	default:
		return fmt.Sprintf("failed on %s", e.Tag())
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
