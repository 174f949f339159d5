package form

// State maps every field name of a descriptor list to its current value.
// It is immutable: SetField returns a new State and leaves the receiver untouched.
type State struct {
	names  []string
	values map[string]string
}

// Initialize builds the initial state: each field holds its declared default,
// or the empty string when none is declared.
func Initialize(descriptors []FieldDescriptor) (State, error) {
	if err := validateDescriptors(descriptors); err != nil {
		return State{}, err
	}

	s := State{
		names:  make([]string, 0, len(descriptors)),
		values: make(map[string]string, len(descriptors)),
	}
	for _, d := range descriptors {
		s.names = append(s.names, d.Name)
		s.values[d.Name] = d.Default
	}
	return s, nil
}

// Reset is Initialize under the name used by the clear action
func Reset(descriptors []FieldDescriptor) (State, error) {
	return Initialize(descriptors)
}

// SetField returns a copy of the state with only name updated
func (s State) SetField(name, value string) (State, error) {
	if _, ok := s.values[name]; !ok {
		return s, &UnknownFieldError{Name: name}
	}

	next := State{
		names:  s.names,
		values: make(map[string]string, len(s.values)),
	}
	for k, v := range s.values {
		next.values[k] = v
	}
	next.values[name] = value
	return next, nil
}

// Get returns the value of a field
func (s State) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Value returns the value of a field, or "" when the field is unknown
func (s State) Value(name string) string {
	return s.values[name]
}

// Names returns the field names in descriptor order
func (s State) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Values returns a copy of the name to value mapping
func (s State) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len returns the number of fields
func (s State) Len() int {
	return len(s.values)
}

// Equal reports whether both states hold the same fields with the same values
func (s State) Equal(other State) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
