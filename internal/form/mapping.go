package form

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Binding assigns one form field to a dotted JSON path in the request payload
type Binding struct {
	Field string
	Path  string
}

// Mapping is the explicit field to payload path table. Every field of the
// form must appear exactly once; nothing is inferred from field names.
type Mapping []Binding

// DefaultMapping returns the gateway request layout for DefaultDescriptors
func DefaultMapping() Mapping {
	return Mapping{
		{Field: FieldBuildingID, Path: "building.bl_id"},
		{Field: FieldBuildingName, Path: "building.name.contains"},
		{Field: FieldBannerName, Path: "building.banner_name_abrev"},
		{Field: FieldFloorID, Path: "floor.fl_id"},
		{Field: FieldFloorName, Path: "floor.name"},
		{Field: FieldFlatFile, Path: "flat_file"},
		{Field: FieldFileType, Path: "file_type"},
	}
}

// validate checks the mapping against the descriptor list
func (m Mapping) validate(descriptors []FieldDescriptor) error {
	known := make(map[string]bool, len(descriptors))
	for _, d := range descriptors {
		known[d.Name] = true
	}

	bound := make(map[string]bool, len(m))
	paths := make([]string, 0, len(m))
	for _, b := range m {
		if !known[b.Field] {
			return &ConfigError{Field: b.Field, Reason: "mapping references a field that is not in the form"}
		}
		if bound[b.Field] {
			return &ConfigError{Field: b.Field, Reason: "field is mapped more than once"}
		}
		bound[b.Field] = true

		if err := checkPath(b.Path); err != nil {
			return &ConfigError{Field: b.Field, Reason: err.Error()}
		}
		for _, other := range paths {
			if overlaps(other, b.Path) {
				return &ConfigError{Field: b.Field, Reason: fmt.Sprintf("path %q collides with %q", b.Path, other)}
			}
		}
		paths = append(paths, b.Path)
	}

	for _, d := range descriptors {
		if !bound[d.Name] {
			return &ConfigError{Field: d.Name, Reason: "field has no payload destination"}
		}
	}
	return nil
}

func checkPath(path string) error {
	if path == "" {
		return fmt.Errorf("empty payload path")
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return fmt.Errorf("payload path %q has an empty segment", path)
		}
	}
	return nil
}

// overlaps reports whether one path equals the other or is an object prefix of it
func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+".") || strings.HasPrefix(b, a+".")
}

// Payload is the JSON request body sent to the gateway
type Payload map[string]any

// set assigns value at a dotted path, creating intermediate objects
func (p Payload) set(path string, value string) {
	segs := strings.Split(path, ".")
	node := map[string]any(p)
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = value
}

// Lookup returns the string stored at a dotted path
func (p Payload) Lookup(path string) (string, bool) {
	segs := strings.Split(path, ".")
	var node any = map[string]any(p)
	for _, seg := range segs {
		obj, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		node, ok = obj[seg]
		if !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}

// JSON encodes the payload. Object keys are emitted in sorted order, so equal
// payloads always produce identical bytes.
func (p Payload) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// Indented encodes the payload for display
func (p Payload) Indented() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
