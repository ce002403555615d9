// Package forms describes every user-facing form as data: each field carries
// its validation rule (a go-playground/validator tag) and the hints the page
// templates need to render it.
package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors collects errors that belong to the form as a whole.
const NonFieldErrors = "__all__"

type Widget string

const (
	WidgetText     Widget = "text"
	WidgetTextarea Widget = "textarea"
	WidgetEmail    Widget = "email"
	WidgetPassword Widget = "password"
	WidgetSelect   Widget = "select"
	WidgetCheckbox Widget = "checkbox"
	WidgetFile     Widget = "file"
	WidgetDateTime Widget = "datetime-local"
	WidgetColor    Widget = "color"
	WidgetHidden   Widget = "hidden"
)

type Field struct {
	Name        string
	Label       string
	Rule        string
	Widget      Widget
	Placeholder string
	Rows        int
	Choices     []Choice
}

type Choice struct {
	Value string
	Label string
}

type Form struct {
	Name   string
	Fields []Field
}

// Errors maps a field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks each field's value against its rule. Missing keys are
// validated as empty strings. Values are trimmed unless the widget is a
// password.
func (f Form) Validate(values map[string]string) Errors {
	errs := Errors{}

	for _, field := range f.Fields {
		if field.Rule == "" {
			continue
		}

		value := values[field.Name]
		if field.Widget != WidgetPassword {
			value = strings.TrimSpace(value)
		}

		if err := validate.Var(value, field.Rule); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				for _, fe := range fieldErrs {
					errs.Add(field.Name, message(fe.Tag(), fe.Param()))
				}
				continue
			}
			errs.Add(field.Name, "Enter a valid value.")
		}
	}

	return errs
}

// Field returns the named field, used by templates.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func message(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", param)
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", param)
	case "hexcolor", "len":
		return "Enter a valid hex color, e.g. #54C4C7."
	case "oneof", "uuid":
		return "Select a valid choice."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "datetime":
		return "Enter a valid date/time."
	default:
		return "Enter a valid value."
	}
}
