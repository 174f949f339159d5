package form

import "fmt"

// FieldKind is the input kind of a form field. It is implemented only by
// TextField and DropdownField, so a type switch over it is exhaustive.
type FieldKind interface {
	isFieldKind()
}

// TextField is a free text input
type TextField struct{}

// DropdownField is a single choice among a fixed, ordered set of options
type DropdownField struct {
	Options []string
}

func (TextField) isFieldKind()     {}
func (DropdownField) isFieldKind() {}

// Has reports whether value is one of the dropdown options
func (d DropdownField) Has(value string) bool {
	for _, opt := range d.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// Cycle returns the option delta steps away from current, wrapping around.
// An unknown current value starts from the first option.
func (d DropdownField) Cycle(current string, delta int) string {
	n := len(d.Options)
	if n == 0 {
		return current
	}
	idx := 0
	for i, opt := range d.Options {
		if opt == current {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%n + n) % n
	return d.Options[idx]
}

// FieldDescriptor describes one form input
type FieldDescriptor struct {
	Name    string
	Label   string
	Kind    FieldKind
	Default string
	Hidden  bool
}

// Field names of the building/floor query form
const (
	FieldBuildingID   = "buildingId"
	FieldBuildingName = "buildingName"
	FieldBannerName   = "bannerName"
	FieldFloorID      = "floorId"
	FieldFloorName    = "floorName"
	FieldFileType     = "fileType"
	FieldFlatFile     = "isFlatFile"
)

// DefaultDescriptors returns the building/floor query fields in display order.
// A fresh slice is returned on every call.
func DefaultDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: FieldBuildingID, Label: "Building ID", Kind: TextField{}},
		{Name: FieldBuildingName, Label: "Building Name", Kind: TextField{}},
		{Name: FieldBannerName, Label: "Banner Name", Kind: TextField{}},
		{Name: FieldFloorID, Label: "Floor ID", Kind: TextField{}},
		{Name: FieldFloorName, Label: "Floor Name", Kind: TextField{}},
		{Name: FieldFileType, Label: "File Type", Kind: DropdownField{Options: []string{"json", "pdf", "csv"}}, Default: "json"},
		{Name: FieldFlatFile, Label: "Flat File?", Kind: DropdownField{Options: []string{"yes", "no"}}, Default: "yes"},
	}
}

// validateDescriptors checks name uniqueness and dropdown consistency
func validateDescriptors(descriptors []FieldDescriptor) error {
	seen := make(map[string]bool, len(descriptors))
	for i, d := range descriptors {
		if d.Name == "" {
			return &ConfigError{Field: d.Label, Reason: fmt.Sprintf("descriptor %d has an empty name", i)}
		}
		if seen[d.Name] {
			return &ConfigError{Field: d.Name, Reason: "duplicate field name"}
		}
		seen[d.Name] = true

		switch kind := d.Kind.(type) {
		case TextField:
		case DropdownField:
			if len(kind.Options) == 0 {
				return &ConfigError{Field: d.Name, Reason: "dropdown has no options"}
			}
			if d.Default != "" && !kind.Has(d.Default) {
				return &ConfigError{Field: d.Name, Reason: fmt.Sprintf("default %q is not one of the options", d.Default)}
			}
		case nil:
			return &ConfigError{Field: d.Name, Reason: "missing field kind"}
		}
	}
	return nil
}
