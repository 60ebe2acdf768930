package config

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value string
}

// Mapping is a string-to-string map that remembers insertion order.
// Volumes, ports, volumes-from and usb-devices are all Mappings: the order
// in which they were declared is the order of the -v, -p and --device
// flags on the generated command line.
//
// Setting an existing key replaces its value in place; new keys are
// appended. The zero Mapping is empty and ready to use.
type Mapping struct {
	keys   []string
	values map[string]string
}

// MappingOf builds a Mapping from alternating key/value arguments.
// A trailing key without a value is ignored.
func MappingOf(pairs ...string) Mapping {
	var m Mapping
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Set stores value under key.
func (m *Mapping) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	keys := make([]string, 0, len(m.keys)-1)
	for _, k := range m.keys {
		if k != key {
			keys = append(keys, k)
		}
	}
	m.keys = keys
}

// Get returns the value stored under key.
func (m Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of entries.
func (m Mapping) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Entries returns the pairs in insertion order.
func (m Mapping) Entries() []Entry {
	entries := make([]Entry, 0, len(m.keys))
	for _, k := range m.keys {
		entries = append(entries, Entry{Key: k, Value: m.values[k]})
	}
	return entries
}

// Clone returns an independent copy.
func (m Mapping) Clone() Mapping {
	var c Mapping
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

// Update applies every entry of overlay on top of a copy of m. Keys that
// exist in both keep their position and take the overlay's value.
func (m Mapping) Update(overlay Mapping) Mapping {
	merged := m.Clone()
	for _, k := range overlay.keys {
		merged.Set(k, overlay.values[k])
	}
	return merged
}

// Equal reports whether both mappings hold the same entries in the same order.
func (m Mapping) Equal(other Mapping) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}
