package editor

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reads the same `binding` tags gin uses for request structs
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks required fields on a draft before anything is sent.
// Whitespace-only strings count as missing.
func Validate(draft any) error {
	err := validate.Struct(draft)
	if err == nil {
		return checkBlank(draft)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "is invalid"
}

// checkBlank flags required string fields that hold only whitespace
func checkBlank(draft any) error {
	v := reflect.Indirect(reflect.ValueOf(draft))
	if v.Kind() != reflect.Struct {
		return nil
	}

	fields := map[string]string{}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Kind() != reflect.String || !strings.Contains(f.Tag.Get("binding"), "required") {
			continue
		}
		if strings.TrimSpace(v.Field(i).String()) == "" {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = f.Name
			}
			fields[name] = "is required"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
