package submission

import "iter"

// FieldValues is an insertion-ordered mapping from control name to raw string
// value. It is built fresh from the form on every submission attempt.
//
// The zero value is ready to use.
type FieldValues struct {
	names  []string
	values map[string]string
}

// NewFieldValues builds FieldValues from name/value pairs. A trailing name
// without a value is stored with an empty value.
func NewFieldValues(pairs ...string) FieldValues {
	var out FieldValues
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		out.Set(pairs[i], value)
	}
	return out
}

// Set stores value under name. A repeated name keeps its first position and
// takes the latest value.
func (v *FieldValues) Set(name, value string) {
	if v.values == nil {
		v.values = make(map[string]string)
	}
	if _, exists := v.values[name]; !exists {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// Get returns the value stored under name.
func (v FieldValues) Get(name string) (string, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Has reports whether name was collected.
func (v FieldValues) Has(name string) bool {
	_, ok := v.values[name]
	return ok
}

// Len reports the number of distinct names.
func (v FieldValues) Len() int {
	return len(v.names)
}

// Names returns the collected names in insertion order.
func (v FieldValues) Names() []string {
	return append([]string(nil), v.names...)
}

// Index returns the insertion position of name, or -1.
func (v FieldValues) Index(name string) int {
	for i, candidate := range v.names {
		if candidate == name {
			return i
		}
	}
	return -1
}

// All iterates name/value pairs in insertion order.
func (v FieldValues) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range v.names {
			if !yield(name, v.values[name]) {
				return
			}
		}
	}
}

// Map returns an unordered copy of the values.
func (v FieldValues) Map() map[string]string {
	out := make(map[string]string, len(v.values))
	for name, value := range v.values {
		out[name] = value
	}
	return out
}
