// Package validate checks struct fields against rules declared in a
// `validate` tag, Laravel-style. Errors are keyed by the field's json tag.
//
//	type loginInput struct {
//	    Email    string `json:"email"    validate:"required,email"`
//	    Password string `json:"password" validate:"required,min=8"`
//	}
//
//	errs := validate.Struct(in)
//	if validate.HasErrors(errs) { ... }
//
// Supported rules: required, email, min=n, max=n, nullable.
// A nullable field that is empty skips all other rules.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Struct validates v (a struct or pointer to struct) and returns a map of
// json-field-name → first failing rule message. An empty map means valid.
func Struct(v interface{}) map[string]string {
	errs := map[string]string{}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}

		name := jsonName(field)
		value := rv.Field(i)

		if msg := checkField(value, strings.Split(tag, ",")); msg != "" {
			errs[name] = msg
		}
	}

	return errs
}

// HasErrors reports whether the result of Struct contains any failure.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	name := strings.Split(tag, ",")[0]
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func checkField(v reflect.Value, rules []string) string {
	empty := isEmpty(v)

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "nullable" && empty {
			return ""
		}
	}

	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		name, arg, _ := strings.Cut(rule, "=")

		switch name {
		case "required":
			if empty {
				return "is required"
			}
		case "email":
			if !empty && !emailRe.MatchString(v.String()) {
				return "must be a valid email address"
			}
		case "min":
			n, _ := strconv.Atoi(arg)
			if !empty && length(v) < n {
				return fmt.Sprintf("must be at least %d characters", n)
			}
		case "max":
			n, _ := strconv.Atoi(arg)
			if length(v) > n {
				return fmt.Sprintf("must be at most %d characters", n)
			}
		}
	}

	return ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

func length(v reflect.Value) int {
	switch v.Kind() {
	case reflect.String:
		return len([]rune(v.String()))
	case reflect.Slice, reflect.Map:
		return v.Len()
	default:
		return 0
	}
}
