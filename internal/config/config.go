package config

import (
	"sort"

	"github.com/mmr-tortoise/dog/internal/model"
)

// Config is an immutable configuration: a mapping from key to Value.
// The zero Config is empty.
type Config struct {
	values map[string]Value
}

// New returns an empty Config.
func New() Config {
	return Config{}
}

// FromMap builds a Config holding a copy of values.
func FromMap(values map[string]Value) Config {
	c := Config{values: make(map[string]Value, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Len returns the number of keys.
func (c Config) Len() int {
	return len(c.values)
}

// Keys returns all keys in lexical order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is set.
func (c Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Lookup returns the raw value stored under key.
func (c Config) Lookup(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// With returns a copy of c with key set to v.
func (c Config) With(key string, v Value) Config {
	next := c.clone(len(c.values) + 1)
	next.values[key] = v
	return next
}

// Without returns a copy of c with key removed.
func (c Config) Without(key string) Config {
	if !c.Has(key) {
		return c
	}
	next := c.clone(len(c.values))
	delete(next.values, key)
	return next
}

func (c Config) clone(capacity int) Config {
	next := Config{values: make(map[string]Value, capacity)}
	for k, v := range c.values {
		next.values[k] = v
	}
	return next
}

// String returns the string stored under key. It fails if the key is
// missing or holds another kind.
func (c Config) String(key string) (string, error) {
	v, err := c.typed(key, KindString)
	if err != nil {
		return "", err
	}
	s, _ := v.AsString()
	return s, nil
}

// Int returns the integer stored under key.
func (c Config) Int(key string) (int, error) {
	v, err := c.typed(key, KindInt)
	if err != nil {
		return 0, err
	}
	n, _ := v.AsInt()
	return n, nil
}

// Bool returns the boolean stored under key.
func (c Config) Bool(key string) (bool, error) {
	v, err := c.typed(key, KindBool)
	if err != nil {
		return false, err
	}
	b, _ := v.AsBool()
	return b, nil
}

// List returns a copy of the list stored under key.
func (c Config) List(key string) ([]string, error) {
	v, err := c.typed(key, KindList)
	if err != nil {
		return nil, err
	}
	l, _ := v.AsList()
	return l, nil
}

// Mapping returns a copy of the mapping stored under key.
func (c Config) Mapping(key string) (Mapping, error) {
	v, err := c.typed(key, KindMapping)
	if err != nil {
		return Mapping{}, err
	}
	m, _ := v.AsMapping()
	return m, nil
}

// Text returns the textual rendering of a scalar or list value (see
// Value.Text). It fails for missing keys and for mappings.
func (c Config) Text(key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", MissingKeyError(key)
	}
	s, ok := v.Text()
	if !ok {
		return "", model.NewCLIErrorf(model.ExitConfigError,
			"%s is a %s and cannot be used as text", key, v.Kind())
	}
	return s, nil
}

// Flag returns the boolean stored under key, or false when it is unset.
// A value of another kind is still an error.
func (c Config) Flag(key string) (bool, error) {
	if !c.Has(key) {
		return false, nil
	}
	return c.Bool(key)
}

func (c Config) typed(key string, want Kind) (Value, error) {
	v, ok := c.values[key]
	if !ok {
		return Value{}, MissingKeyError(key)
	}
	if v.Kind() != want {
		return Value{}, model.NewCLIErrorf(model.ExitConfigError,
			"%s must be a %s, found a %s", key, want, v.Kind())
	}
	return v, nil
}

// MissingKeyError reports a key that the configuration needs but does
// not have.
func MissingKeyError(key string) *model.CLIError {
	return model.NewCLIErrorf(model.ExitConfigError, "%s not found in dog.config", key)
}
