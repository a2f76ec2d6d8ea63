// Package validate provides struct-tag validation producing per-field
// error messages.
//
// Rules are comma-separated in the `validate` tag:
//
//	required          field must not be zero/empty
//	nullable          if empty, skip the remaining rules
//	email             valid email address
//	alpha_dash        letters, digits, hyphens, underscores
//	numeric           any number
//	integer           whole number
//	boolean           true/false/1/0 (or an actual bool)
//	min=N             string: min length | number: min value
//	max=N             string: max length | number: max value
//	gt=N gte=N        numeric comparisons
//	lt=N lte=N
//	between=lo,hi     number or string length within [lo,hi]
//	in=a,b,c          value must be one of the listed items
//	regex=pattern     value must match the regex
//
// Example:
//
//	type RegisterInput struct {
//	    Name     string `json:"name"     validate:"required,min=2,max=100"`
//	    Email    string `json:"email"    validate:"required,email"`
//	    Password string `json:"password" validate:"required,min=6"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Struct validates all exported fields of v carrying a `validate` tag,
// descending into nested structs and slices of structs. Nested field
// names are dot-joined ("shipping_address.city", "items.0.quantity").
// Returns a map of field name → error message; empty means valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	walkStruct(rv, "", errs)
	return errs
}

func walkStruct(rv reflect.Value, prefix string, errs map[string]string) {
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" { // unexported
			continue
		}

		value := rv.Field(i)
		name := jsonFieldName(field)
		if prefix != "" {
			name = prefix + "." + name
		}

		if tag := field.Tag.Get("validate"); tag != "" {
			rules := splitRules(tag)

			if hasRule(rules, "nullable") && isEmpty(value) {
				continue
			}

			for _, rule := range rules {
				if rule == "nullable" {
					continue
				}
				if msg := applyRule(rule, name, value); msg != "" {
					errs[name] = msg
					break // first failing rule per field
				}
			}
		}

		walkNested(value, name, errs)
	}
}

// walkNested descends into struct-typed fields so their own rules are
// enforced too. time.Time is opaque.
func walkNested(v reflect.Value, name string, errs map[string]string) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if v.Type() == reflect.TypeOf(time.Time{}) {
			return
		}
		walkStruct(v, name, errs)
	case reflect.Slice, reflect.Array:
		elem := v.Type().Elem()
		if elem.Kind() != reflect.Struct && elem.Kind() != reflect.Ptr {
			return
		}
		for i := 0; i < v.Len(); i++ {
			walkNested(v.Index(i), fmt.Sprintf("%s.%d", name, i), errs)
		}
	}
}

// HasErrors reports whether the error map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}

	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s may only contain letters, numbers, dashes, and underscores.", field)
			}
		}

	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}

	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}

	case "boolean":
		lower := strings.ToLower(raw)
		if v.Kind() != reflect.Bool && lower != "true" && lower != "false" && lower != "1" && lower != "0" {
			return fmt.Sprintf("The %s field must be true or false.", field)
		}

	case "min":
		n := parseBound(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(len([]rune(raw))) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}

	case "max":
		n := parseBound(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(len([]rune(raw))) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}

	case "gt":
		if toFloat(v) <= parseBound(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if toFloat(v) < parseBound(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lt":
		if toFloat(v) >= parseBound(param) {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if toFloat(v) > parseBound(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		loF, hiF := parseBound(lo), parseBound(hi)
		if isNumericKind(v) {
			if f := toFloat(v); f < loF || f > hiF {
				return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
			}
		} else if l := float64(len([]rune(raw))); l < loF || l > hiF {
			return fmt.Sprintf("The %s must be between %s and %s characters.", field, lo, hi)
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil {
			return fmt.Sprintf("The %s has an invalid validation pattern.", field)
		}
		if !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
	}

	return ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false // false is a valid boolean, not "empty"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
	return f
}

func parseBound(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// splitRules splits the tag by comma while keeping multi-value parameters
// (in=, between=) intact: "required,in=admin,customer" →
// ["required", "in=admin,customer"].
func splitRules(tag string) []string {
	var rules []string
	var current strings.Builder
	inParam := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			current.WriteByte(ch)
			if !inParam && (strings.HasSuffix(current.String(), "in=") || strings.HasSuffix(current.String(), "between=")) {
				inParam = true
			}
			continue
		}

		if inParam && !looksLikeNewRule(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}

		rules = append(rules, current.String())
		current.Reset()
		inParam = false
	}
	if current.Len() > 0 {
		rules = append(rules, current.String())
	}
	return rules
}

func looksLikeNewRule(s string) bool {
	known := []string{
		"required", "nullable", "email", "alpha_dash", "numeric", "integer",
		"boolean", "regex=", "min=", "max=", "gt=", "gte=", "lt=", "lte=",
		"in=", "between=",
	}
	for _, k := range known {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
