// internal/app/system/inputval/inputval.go
//
// Package inputval validates form input structs using `validate` and
// `label` struct tags:
//
//	type reportInput struct {
//		Location string `validate:"required,max=200" label:"Location"`
//		Severity string `validate:"required,oneof=Low|Moderate|High|Critical" label:"Severity"`
//	}
//
// Supported rules: required, min=N, max=N (rune length for strings, value
// for numbers), oneof=a|b|c, email, phone. Rules other than required are
// skipped for empty values.
package inputval

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Label   string
	Rule    string
	Message string
}

// Result collects the failures from one Validate call, in field order.
type Result struct {
	Errors []FieldError
}

func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" when valid.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Field returns the first message for the named struct field.
func (r Result) Field(name string) string {
	for _, e := range r.Errors {
		if e.Field == name {
			return e.Message
		}
	}
	return ""
}

// Validate checks every exported field of v (a struct or pointer to one).
func Validate(v any) Result {
	var res Result
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() {
			continue
		}
		label := sf.Tag.Get("label")
		if label == "" {
			label = sf.Name
		}
		fv := rv.Field(i)
		for _, rule := range strings.Split(tag, ",") {
			name, arg, _ := strings.Cut(strings.TrimSpace(rule), "=")
			if msg := check(fv, name, arg, label); msg != "" {
				res.Errors = append(res.Errors, FieldError{Field: sf.Name, Label: label, Rule: name, Message: msg})
				break
			}
		}
	}
	return res
}

func check(fv reflect.Value, rule, arg, label string) string {
	if rule == "required" {
		if isEmpty(fv) {
			return label + " is required."
		}
		return ""
	}
	if isEmpty(fv) {
		return ""
	}
	fv = reflect.Indirect(fv)

	switch rule {
	case "max", "min":
		n, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			panic(fmt.Sprintf("inputval: bad %s argument %q", rule, arg))
		}
		size, isLen := measure(fv)
		if rule == "max" && size > n {
			if isLen {
				return fmt.Sprintf("%s must be at most %s characters.", label, arg)
			}
			return fmt.Sprintf("%s must be at most %s.", label, arg)
		}
		if rule == "min" && size < n {
			if isLen {
				return fmt.Sprintf("%s must be at least %s characters.", label, arg)
			}
			return fmt.Sprintf("%s must be at least %s.", label, arg)
		}
	case "oneof":
		s := fmt.Sprint(fv.Interface())
		for _, opt := range strings.Split(arg, "|") {
			if s == opt {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(arg, "|", ", "))
	case "email":
		if !IsValidEmail(fv.String()) {
			return label + " must be a valid email address."
		}
	case "phone":
		if !IsValidPhone(fv.String()) {
			return label + " must be a valid phone number."
		}
	default:
		panic("inputval: unknown rule " + rule)
	}
	return ""
}

func isEmpty(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return strings.TrimSpace(fv.String()) == ""
	case reflect.Pointer, reflect.Interface:
		return fv.IsNil()
	case reflect.Slice, reflect.Map:
		return fv.Len() == 0
	}
	return fv.IsZero()
}

// measure returns rune length for strings and the numeric value otherwise.
func measure(fv reflect.Value) (float64, bool) {
	switch fv.Kind() {
	case reflect.String:
		return float64(utf8.RuneCountInString(strings.TrimSpace(fv.String()))), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(fv.Int()), false
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(fv.Uint()), false
	case reflect.Float32, reflect.Float64:
		return fv.Float(), false
	case reflect.Slice, reflect.Map:
		return float64(fv.Len()), true
	}
	return 0, false
}

var (
	emailLocal = regexp.MustCompile(`^[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_{|}~-]+)*$`)
	emailLabel = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?$`)
	phoneRE    = regexp.MustCompile(`^\+?[0-9(][0-9 ()-]{5,18}[0-9]$`)
)

// IsValidEmail accepts a bare addr-spec (no display name). Single-label
// domains are allowed.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" || len(s) > 254 {
		return false
	}
	if !emailLocal.MatchString(local) {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if !emailLabel.MatchString(label) {
			return false
		}
	}
	return true
}

// IsValidPhone accepts digits with optional leading +, spaces, dashes and
// parentheses, 7 to 20 characters.
func IsValidPhone(s string) bool {
	return phoneRE.MatchString(strings.TrimSpace(s))
}
