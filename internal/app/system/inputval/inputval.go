// Package inputval validates request structs using `validate` struct tags
// and reports one message per offending field, keyed by the JSON name.
//
//	type input struct {
//	    Name string `json:"name" validate:"required,max=200" label:"Nome"`
//	}
//	if res := inputval.Validate(in); res.HasErrors() { ... res.Fields ... }
//
// Besides the stock validator tags, "phone" (a Brazilian number with area
// code) and "weekday" (a recognizable meeting weekday) are registered.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/casadefe/internal/app/system/meetings"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/go-playground/validator/v10"
)

// Result holds per-field validation messages in struct order.
type Result struct {
	Fields map[string]string
	order  []string
}

// HasErrors reports whether any field failed.
func (r Result) HasErrors() bool { return len(r.Fields) > 0 }

// First returns the first message in struct order, or "".
func (r Result) First() string {
	if len(r.order) == 0 {
		return ""
	}
	return r.Fields[r.order[0]]
}

// Merge adds other's messages under prefix (e.g. "members[0].").
func (r *Result) Merge(prefix string, other Result) {
	for _, k := range other.order {
		r.Add(prefix+k, other.Fields[k])
	}
}

// Add records msg for field unless the field already has a message.
func (r *Result) Add(field, msg string) {
	if r.Fields == nil {
		r.Fields = map[string]string{}
	}
	if _, exists := r.Fields[field]; exists {
		return
	}
	r.Fields[field] = msg
	r.order = append(r.order, field)
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phone.HasDigits(fl.Field().String())
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return meetings.IsWeekday(fl.Field().String())
		})
	})
	return v
}

// Validate runs the struct tags on s. Non-struct input or validator
// misconfiguration is reported under the "_" key.
func Validate(s any) Result {
	var res Result
	err := instance().Struct(s)
	if err == nil {
		return res
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Add("_", err.Error())
		return res
	}
	root := reflect.TypeOf(s)
	for root.Kind() == reflect.Pointer {
		root = root.Elem()
	}
	for _, fe := range verrs {
		res.Add(fieldKey(fe), message(fe, labelFor(root, fe)))
	}
	return res
}

// fieldKey drops the root struct name from the namespace:
// "input.members[0].name" -> "members[0].name".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// labelFor resolves the `label` tag of the failing field, falling back to
// the JSON name. Nested fields are looked up through the struct path.
func labelFor(root reflect.Type, fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	t := root
	var sf reflect.StructField
	found := false
	for _, p := range parts[1:] {
		if i := strings.IndexByte(p, '['); i >= 0 {
			p = p[:i]
		}
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			found = false
			break
		}
		f, ok := t.FieldByName(p)
		if !ok {
			found = false
			break
		}
		sf, found = f, true
		t = f.Type
	}
	if found {
		if l := sf.Tag.Get("label"); l != "" {
			return l
		}
	}
	return fe.Field()
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório.", label)
	case "email":
		return fmt.Sprintf("%s deve ser um e-mail válido.", label)
	case "phone":
		return fmt.Sprintf("%s deve conter DDD e número.", label)
	case "weekday":
		return fmt.Sprintf("%s deve ser um dia da semana.", label)
	case "datetime":
		return fmt.Sprintf("%s está em formato inválido.", label)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter no máximo %s caracteres.", label, fe.Param())
		}
		return fmt.Sprintf("%s deve ser no máximo %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s: selecione ao menos %s.", label, fe.Param())
		}
		return fmt.Sprintf("%s deve ser no mínimo %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s.", label, fe.Param())
	default:
		return fmt.Sprintf("%s é inválido.", label)
	}
}
