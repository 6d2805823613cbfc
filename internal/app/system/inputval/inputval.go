// Package inputval validates decoded JSON request bodies.
//
// Input structs carry `validate` rules from waffle/pantry/validate plus an
// optional `label` tag used to build the message shown to API clients:
//
//	type eventInput struct {
//	    Title string `json:"title" validate:"required,max=200" label:"Title"`
//	    Date  string `json:"date" validate:"required,eventdate" label:"Date"`
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/strataevents/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// Result collects the failures for one struct. Validation stops at the first
// failing rule per field.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First is the message handlers send back; "" when valid.
func (r *Result) First() string {
	if r.HasErrors() {
		return r.Errors[0].Message
	}
	return ""
}

var (
	once sync.Once
	v    *validate.Validator
)

func isString(pred func(string) bool) func(any) bool {
	return func(value any) bool {
		s, ok := value.(string)
		return ok && pred(s)
	}
}

func validator() *validate.Validator {
	once.Do(func() {
		v = validate.New(validate.WithStopOnFirstError())
		// Roles compare case-sensitively: "Admin" is not a role.
		v.RegisterRuleFunc("role", isString(models.IsValidRole), "role")
		v.RegisterRuleFunc("eventdate", isString(func(s string) bool {
			_, err := ParseEventDate(s)
			return err == nil
		}), "eventdate")
	})
	return v
}

// Validate runs the struct's rules. s may be a struct or a pointer to one.
func Validate(s any) *Result {
	res := &Result{}
	err := validator().Struct(s)
	if err == nil {
		return res
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: "Invalid input."})
		return res
	}

	labels := labelsOf(s)
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		res.Errors = append(res.Errors, FieldError{
			Field:   e.Field,
			Label:   label,
			Message: message(label, e.Rule, e.Param),
		})
	}
	return res
}

// labelsOf maps the field name the validator reports (json name, falling
// back to the Go name) to its label tag.
func labelsOf(s any) map[string]string {
	out := map[string]string{}
	t := reflect.TypeOf(s)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		label := f.Tag.Get("label")
		if label == "" {
			continue
		}
		name := f.Name
		if j, _, _ := strings.Cut(f.Tag.Get("json"), ","); j != "" && j != "-" {
			name = j
		}
		out[name] = label
	}
	return out
}

func message(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, param)
	case "role":
		return "Invalid role"
	case "eventdate":
		return label + " must be a date (YYYY-MM-DD) or an RFC 3339 timestamp."
	}
	return label + " is invalid."
}

// DateOnlyLayout is the short date form accepted for events.
const DateOnlyLayout = "2006-01-02"

// ParseEventDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date
// (midnight UTC) and returns the instant in UTC.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse(DateOnlyLayout, s)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date %q", s)
	}
	return t.UTC(), nil
}
