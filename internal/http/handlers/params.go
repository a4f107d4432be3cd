package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-fault-translator/internal/faults"
)

// Query parameter types as they appear in fault messages.
const (
	typeInteger = "integer"
	typeString  = "string"
	typeUUID    = "uuid"
)

// faultKind accepts the snake_case name of any fault kind.
var faultKind validator.Func = func(fl validator.FieldLevel) bool {
	_, ok := faults.ParseKind(fl.Field().String())
	return ok
}

// newValidator returns a validator that reports fields by their form tag
// and knows the fault_kind rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("fault_kind", faultKind)
	return v
}

// validationFault converts the first validator field error into an
// argument type mismatch naming the parameter and the accepted values.
// Other errors are returned unchanged.
func validationFault(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return faults.TypeMismatch(fe.Field(), requiredType(fe), fmt.Sprint(fe.Value()), err)
}

func requiredType(fe validator.FieldError) string {
	switch fe.Tag() {
	case "fault_kind":
		names := make([]string, 0, len(faults.Kinds()))
		for _, k := range faults.Kinds() {
			names = append(names, k.String())
		}
		return "enum(" + strings.Join(names, "|") + ")"
	case "min":
		return typeInteger + ">=" + fe.Param()
	case "max":
		return typeInteger + "<=" + fe.Param()
	case "uuid":
		return typeUUID
	}
	return fe.Tag()
}

// queryInt reads an optional integer query parameter. An absent or empty
// value yields def; anything that is not an integer is an argument type
// mismatch.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, faults.TypeMismatch(name, typeInteger, raw, err)
	}
	return n, nil
}

// requireQuery reads a mandatory string query parameter.
func requireQuery(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return "", faults.MissingParameter(name, typeString)
	}
	return v, nil
}
