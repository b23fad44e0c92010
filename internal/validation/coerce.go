package validation

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// NewValidator returns a validator that names fields after their json tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// CoerceString accepts JSON strings only. Numbers, booleans, null and
// containers are rejected.
func CoerceString(value any) (string, *FieldError) {
	s, ok := value.(string)
	if !ok {
		return "", &FieldError{Kind: KindStringType, Message: "Input should be a valid string"}
	}
	return s, nil
}

// CoerceFloat accepts JSON numbers, booleans (as 1 and 0) and strings
// holding a decimal number. Null, containers and non-finite values are
// rejected.
func CoerceFloat(value any) (float64, *FieldError) {
	var (
		f   float64
		err error
	)

	switch v := value.(type) {
	case json.Number:
		f, err = cast.ToFloat64E(v.String())
	case float64, float32, int, int32, int64, bool:
		f, err = cast.ToFloat64E(v)
	case string:
		s := strings.TrimSpace(v)
		if !isDecimalString(s) {
			return 0, &FieldError{Kind: KindFloatParsing, Message: "Input should be a valid number, unable to parse string as a number"}
		}
		f, err = cast.ToFloat64E(s)
		if err != nil {
			return 0, &FieldError{Kind: KindFloatParsing, Message: "Input should be a valid number, unable to parse string as a number"}
		}
	default:
		return 0, &FieldError{Kind: KindFloatType, Message: "Input should be a valid number"}
	}

	if err != nil {
		return 0, &FieldError{Kind: KindFloatType, Message: "Input should be a valid number"}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FieldError{Kind: KindFiniteNumber, Message: "Input should be a finite number"}
	}

	return f, nil
}

// isDecimalString reports whether s is a signed decimal number with an
// optional fraction and exponent, or one of the special values inf,
// infinity and nan. Hexadecimal forms and digit separators are not numbers
// here even though strconv accepts them.
func isDecimalString(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}

	switch strings.ToLower(s) {
	case "inf", "infinity", "nan":
		return true
	}

	digits := func(s string) (rest string, n int) {
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		return s[n:], n
	}

	s, intDigits := digits(s)
	fracDigits := 0
	if s != "" && s[0] == '.' {
		s, fracDigits = digits(s[1:])
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}

	if s != "" && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if s != "" && (s[0] == '+' || s[0] == '-') {
			s = s[1:]
		}
		var expDigits int
		if s, expDigits = digits(s); expDigits == 0 {
			return false
		}
	}

	return s == ""
}
