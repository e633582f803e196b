package mural

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	minNameLength = 2
	maxNameLength = 63
	minSize       = 2
	maxSize       = 2000
)

var muralKeys = map[string]bool{
	"name":   true,
	"pixels": true,
	"x":      true,
	"y":      true,
}

// ValidationError describes the first problem found with a mural. Field
// names the offending field, or is empty if the problem is with the mural
// as a whole.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "mural: " + e.Reason
}

func invalid(field, format string, a ...interface{}) error {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, a...),
	}
}

// number reports whether v is a JSON number and whether it is integral
func number(v interface{}) (bool, bool) {
	if n, ok := v.(json.Number); ok {
		if _, err := n.Int64(); err == nil {
			return true, true
		}
		f, err := n.Float64()
		if err != nil {
			// beyond float64, infinite and so not integral
			return true, false
		}
		return true, f == math.Trunc(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return true, !math.IsInf(f, 0) && f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true, true
	}
	return false, false
}

// integer returns an integral JSON number as an int, reporting whether it
// fits
func integer(v interface{}) (int, bool) {
	if n, ok := v.(json.Number); ok {
		i, err := n.Int64()
		switch {
		case err == nil:
			return int(i), int64(int(i)) == i
		case errors.Is(err, strconv.ErrRange):
			return 0, false
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt || f >= -math.MinInt {
			return 0, false
		}
		return int(f), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return int(i), int64(int(i)) == i
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		return int(u), u <= math.MaxInt
	}
	return 0, false
}

// nameLength counts UTF-16 code units so that names are measured the same
// way as by the browser
func nameLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func validateName(name string) error {
	switch n := nameLength(name); {
	case n < minNameLength:
		return invalid("name", "name too short")
	case n > maxNameLength:
		return invalid("name", "name too long")
	}
	return nil
}

func validateSize(height, width int) error {
	switch {
	case height < minSize:
		return invalid("pixels", "height too small")
	case width < minSize:
		return invalid("pixels", "width too small")
	case height > maxSize:
		return invalid("pixels", "height too big")
	case width > maxSize:
		return invalid("pixels", "width too big")
	}
	return nil
}

// Validate checks a mural decoded into generic JSON values, as produced by
// encoding/json when decoding into an interface{}. It returns a
// *ValidationError describing the first problem found.
func Validate(v interface{}) error {
	if _, ok := v.([]interface{}); ok {
		return invalid("", "should not be an array")
	}
	obj, ok := v.(map[string]interface{})
	if !ok || obj == nil {
		return invalid("", "not an object")
	}

	for _, k := range []string{"x", "y"} {
		if isNumber, _ := number(obj[k]); !isNumber {
			return invalid(k, "%s is not a number", k)
		}
	}
	for _, k := range []string{"x", "y"} {
		if _, isInt := number(obj[k]); !isInt {
			return invalid(k, "%s is not an integer", k)
		}
	}
	for _, k := range []string{"x", "y"} {
		if _, ok := integer(obj[k]); !ok {
			return invalid(k, "%s is out of range", k)
		}
	}

	name, ok := obj["name"].(string)
	if !ok {
		return invalid("name", "missing name")
	}
	if err := validateName(name); err != nil {
		return err
	}

	pixels, ok := obj["pixels"].([]interface{})
	if !ok {
		return invalid("pixels", "pixels are not an array")
	}

	rows := make([][]interface{}, len(pixels))
	for i, p := range pixels {
		if p == nil {
			return invalid("pixels", "pixels[%d] is null", i)
		}
		row, ok := p.([]interface{})
		if !ok {
			return invalid("pixels", "pixels[%d] are not an array", i)
		}
		if i > 0 && len(row) != len(rows[0]) {
			return invalid("pixels", "pixels[%d] incorrect size", i)
		}
		rows[i] = row
	}

	for y, row := range rows {
		for x, cell := range row {
			isNumber, isInt := number(cell)
			if !isNumber {
				return invalid("pixels", "pixels[%d][%d] is not a number", y, x)
			}
			if !isInt {
				return invalid("pixels", "pixels[%d][%d] is not an integer", y, x)
			}
			if _, ok := integer(cell); !ok {
				return invalid("pixels", "pixels[%d][%d] is out of range", y, x)
			}
		}
	}

	if len(obj) != len(muralKeys) {
		var extra []string
		for k := range obj {
			if !muralKeys[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return invalid("", "unexpected keys: %s", strings.Join(extra, ", "))
	}

	var width int
	if len(rows) > 0 {
		width = len(rows[0])
	}
	return validateSize(len(rows), width)
}

func decodeValue(b []byte) (interface{}, error) {
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()

	var v interface{}
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// ValidateJSON decodes b and validates the result.
func ValidateJSON(b []byte) error {
	v, err := decodeValue(b)
	if err != nil {
		return err
	}
	return Validate(v)
}

// Validate checks the name, shape and size of m in the same order as the
// package level Validate.
func (m *Mural) Validate() error {
	if err := validateName(m.Name); err != nil {
		return err
	}

	for i, row := range m.Pixels {
		if row == nil {
			return invalid("pixels", "pixels[%d] is null", i)
		}
		if i > 0 && len(row) != len(m.Pixels[0]) {
			return invalid("pixels", "pixels[%d] incorrect size", i)
		}
	}

	return validateSize(m.Height(), m.Width())
}

func toInt(v interface{}) int {
	i, _ := integer(v)
	return i
}

// fromValue builds a mural from a value decoded by decodeValue that has
// already passed Validate
func fromValue(v interface{}) *Mural {
	obj := v.(map[string]interface{})
	pixels := obj["pixels"].([]interface{})

	m := &Mural{
		Name:   obj["name"].(string),
		X:      toInt(obj["x"]),
		Y:      toInt(obj["y"]),
		Pixels: make([][]int, len(pixels)),
	}
	for y, p := range pixels {
		row := p.([]interface{})
		m.Pixels[y] = make([]int, len(row))
		for x, cell := range row {
			m.Pixels[y][x] = toInt(cell)
		}
	}
	return m
}

// Decode reads a mural in JSON form from b. A missing or empty name is
// replaced with name before the mural is validated.
func Decode(b []byte, name string) (*Mural, error) {
	v, err := decodeValue(b)
	if err != nil {
		return nil, err
	}

	if obj, ok := v.(map[string]interface{}); ok && obj != nil {
		if s, ok := obj["name"]; !ok || s == nil || s == "" {
			obj["name"] = name
		}
	}

	if err := Validate(v); err != nil {
		return nil, err
	}
	return fromValue(v), nil
}
