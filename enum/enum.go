// Package enum describes integer enumerations for schema generation.
//
// Go has no enum reflection, so an enumeration is whatever has been registered:
// a named integer type plus its (name, value) members in declaration order.
package enum

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Member is one named value of an enumeration.
type Member struct {
	Name  string `mapstructure:"name" yaml:"name" validate:"required"`
	Value int64  `mapstructure:"value" yaml:"value"`
}

// Value builds a Member from a typed constant. It panics when v does not fit
// in an int64, which only unsigned values above math.MaxInt64 can do.
func Value[T constraints.Integer](name string, v T) Member {
	n := int64(v)
	if v > 0 && n < 0 {
		panic(fmt.Sprintf("enum: member %s value %d overflows int64", name, uint64(v)))
	}
	return Member{Name: name, Value: n}
}

// Descriptor is the explicit shape of one enumeration.
type Descriptor struct {
	// Type is nil for descriptors that only exist in a loaded document.
	Type reflect.Type
	// FullName qualifies documentation keys, e.g. Contoso.Orders.Status.
	FullName string
	Members  []Member
}

// Names returns the member names in declaration order.
func (d *Descriptor) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Members))
	for _, m := range d.Members {
		names = append(names, m.Name)
	}
	return names
}

// Values returns the member values in declaration order.
func (d *Descriptor) Values() []any {
	if d == nil {
		return nil
	}
	values := make([]any, 0, len(d.Members))
	for _, m := range d.Members {
		values = append(values, m.Value)
	}
	return values
}

func (d *Descriptor) clone() *Descriptor {
	if d == nil {
		return nil
	}
	out := *d
	out.Members = append([]Member(nil), d.Members...)
	return &out
}

// NotEnumError is returned when extraction is asked for a type that was never
// registered as an enumeration. Callers are expected to check IsEnum first.
type NotEnumError struct {
	Type reflect.Type
}

func (e *NotEnumError) Error() string {
	if e.Type == nil {
		return "enum: <nil> is not a registered enumeration"
	}
	return fmt.Sprintf("enum: %s is not a registered enumeration", e.Type)
}

// FullNameOf returns PkgPath.Name for named types and the type string otherwise.
func FullNameOf(t reflect.Type) string {
	t = indirect(t)
	if t == nil {
		return ""
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func isInteger(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// toInt64 converts a decoded JSON/YAML enum value into an int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		// 2^63 is the first float64 outside the int64 range.
		if n < math.MinInt64 || n >= math.MaxInt64 || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}
