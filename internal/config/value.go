package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the type of a configuration Value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
	KindMapping
)

// String returns the name of the kind as used in error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged union holding one configuration value. The zero Value
// is an empty string. Lists and mappings are copied on the way in and on
// the way out, so a Value can be shared freely between Configs.
type Value struct {
	kind    Kind
	str     string
	num     int
	flag    bool
	list    []string
	mapping Mapping
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// IntValue wraps an integer.
func IntValue(n int) Value {
	return Value{kind: KindInt, num: n}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// ListValue wraps a copy of items.
func ListValue(items ...string) Value {
	list := make([]string, len(items))
	copy(list, items)
	return Value{kind: KindList, list: list}
}

// MappingValue wraps a copy of m.
func MappingValue(m Mapping) Value {
	return Value{kind: KindMapping, mapping: m.Clone()}
}

// Kind reports which member of the union is set.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string member.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the integer member.
func (v Value) AsInt() (int, bool) {
	return v.num, v.kind == KindInt
}

// AsBool returns the boolean member.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// AsList returns a copy of the list member.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	list := make([]string, len(v.list))
	copy(list, v.list)
	return list, true
}

// AsMapping returns a copy of the mapping member.
func (v Value) AsMapping() (Mapping, bool) {
	if v.kind != KindMapping {
		return Mapping{}, false
	}
	return v.mapping.Clone(), true
}

// Text renders a scalar or list value the way it is exposed to the
// container and used in ${...} substitution. Booleans render as
// "True"/"False", which is what dog images test DOG_AS_ROOT against.
// Mappings have no text form.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindInt:
		return strconv.Itoa(v.num), true
	case KindBool:
		if v.flag {
			return "True", true
		}
		return "False", true
	case KindList:
		return strings.Join(v.list, ","), true
	default:
		return "", false
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.num == other.num
	case KindBool:
		return v.flag == other.flag
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	case KindMapping:
		return v.mapping.Equal(other.mapping)
	default:
		return v.str == other.str
	}
}
