// Package header provides an insertion-ordered header map.
//
// Keys are unique and compared case-insensitively; the spelling used on
// first insertion is kept. A Map is safe for concurrent use.
package header

import (
	"iter"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// Field is a single header entry.
type Field struct {
	Name  string
	Value string
}

// Map is an ordered collection of header fields.
// The zero value is an empty map ready for use.
type Map struct {
	mu     sync.RWMutex
	fields []Field
}

// New returns a Map holding the given fields in order. Later duplicates
// overwrite the value of earlier ones.
func New(fields ...Field) *Map {
	m := &Map{}
	for _, f := range fields {
		m.Set(f.Name, f.Value)
	}

	return m
}

// FromHTTP copies h into a new Map. Names are lower-cased, multiple values
// are joined with ", " and entries are ordered by name, since http.Header
// does not retain arrival order.
func FromHTTP(h http.Header) *Map {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	slices.Sort(names)

	m := &Map{fields: make([]Field, 0, len(names))}
	for _, k := range names {
		m.Set(strings.ToLower(k), strings.Join(h[k], ", "))
	}

	return m
}

// Set adds the field, or replaces the value of an existing field
// with the same name in place.
func (m *Map) Set(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(name); i >= 0 {
		m.fields[i].Value = value
		return
	}

	m.fields = append(m.fields, Field{Name: name, Value: value})
}

// Get returns the value stored for name and whether it exists.
func (m *Map) Get(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.index(name)
	if i < 0 {
		return "", false
	}

	return m.fields[i].Value, true
}

// Value returns the value stored for name, or "" if absent.
func (m *Map) Value(name string) string {
	v, _ := m.Get(name)
	return v
}

// Has reports whether name is present.
func (m *Map) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// Del removes name, preserving the order of the remaining fields.
func (m *Map) Del(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(name); i >= 0 {
		m.fields = slices.Delete(m.fields, i, i+1)
	}
}

// Len returns the number of fields.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.fields)
}

// Keys returns the field names in insertion order.
func (m *Map) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, len(m.fields))
	for i, f := range m.fields {
		keys[i] = f.Name
	}

	return keys
}

// Fields returns a copy of the fields in insertion order.
func (m *Map) Fields() []Field {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.fields)
}

// All iterates over a snapshot of the fields in insertion order.
func (m *Map) All() iter.Seq2[string, string] {
	fields := m.Fields()

	return func(yield func(string, string) bool) {
		for _, f := range fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

// Clone returns an independent copy of m.
func (m *Map) Clone() *Map {
	return &Map{fields: m.Fields()}
}

// Merge sets every field of other onto m, in other's order.
func (m *Map) Merge(other *Map) {
	if other == nil {
		return
	}

	for k, v := range other.All() {
		m.Set(k, v)
	}
}

// HTTP converts m into an http.Header, canonicalising names.
func (m *Map) HTTP() http.Header {
	h := make(http.Header, m.Len())
	for k, v := range m.All() {
		h.Set(k, v)
	}

	return h
}

func (m *Map) index(name string) int {
	for i, f := range m.fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}

	return -1
}
