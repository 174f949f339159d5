package form

// Form binds a validated descriptor list to its payload mapping
type Form struct {
	descriptors []FieldDescriptor
	mapping     Mapping
	index       map[string]int
	initial     State
}

// New validates descriptors and mapping and returns the form
func New(descriptors []FieldDescriptor, mapping Mapping) (*Form, error) {
	initial, err := Initialize(descriptors)
	if err != nil {
		return nil, err
	}
	if err := mapping.validate(descriptors); err != nil {
		return nil, err
	}

	f := &Form{
		descriptors: append([]FieldDescriptor(nil), descriptors...),
		mapping:     append(Mapping(nil), mapping...),
		index:       make(map[string]int, len(descriptors)),
		initial:     initial,
	}
	for i, d := range descriptors {
		f.index[d.Name] = i
	}
	return f, nil
}

// Default returns the building/floor query form
func Default() *Form {
	f, err := New(DefaultDescriptors(), DefaultMapping())
	if err != nil {
		panic(err)
	}
	return f
}

// Descriptors returns the field descriptors in display order
func (f *Form) Descriptors() []FieldDescriptor {
	return append([]FieldDescriptor(nil), f.descriptors...)
}

// Visible returns the descriptors that are not hidden
func (f *Form) Visible() []FieldDescriptor {
	var out []FieldDescriptor
	for _, d := range f.descriptors {
		if !d.Hidden {
			out = append(out, d)
		}
	}
	return out
}

// Descriptor looks up a field by name
func (f *Form) Descriptor(name string) (FieldDescriptor, bool) {
	i, ok := f.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return f.descriptors[i], true
}

// Initial returns the state every field starts from and clear returns to
func (f *Form) Initial() State {
	return f.initial
}

// Mapping returns a copy of the payload mapping
func (f *Form) Mapping() Mapping {
	return append(Mapping(nil), f.mapping...)
}

// ValidateChoice rejects dropdown values that are not among the options.
// Text fields accept any value.
func (f *Form) ValidateChoice(name, value string) error {
	d, ok := f.Descriptor(name)
	if !ok {
		return &UnknownFieldError{Name: name}
	}
	switch kind := d.Kind.(type) {
	case DropdownField:
		if !kind.Has(value) {
			return &InvalidChoiceError{Field: d.Label, Value: value, Options: kind.Options}
		}
	case TextField:
	}
	return nil
}

// ToRequestPayload projects a state through the mapping table. Every field
// lands at exactly one path; a field missing from the state is sent empty.
func (f *Form) ToRequestPayload(s State) Payload {
	p := make(Payload)
	for _, b := range f.mapping {
		p.set(b.Path, s.Value(b.Field))
	}
	return p
}
