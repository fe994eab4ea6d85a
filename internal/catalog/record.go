package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID is the identity of a catalog record.
// The backend sends numeric ids, but string ids are accepted as well; both are normalised
// to their decimal/string form so that 25 and "25" compare equal.
type ID string

// UnmarshalJSON accepts a JSON number or a JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding record id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding record id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON emits integral ids as JSON numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalYAML accepts any scalar node.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("record id must be a scalar, got line %d", value.Line)
	}
	*id = ID(strings.TrimSpace(value.Value))
	return nil
}

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// TypeTag is one elemental type of a record (e.g. "grass").
// On the wire it is either a bare string or the nested PokeAPI shape {"type":{"name":"grass"}}.
type TypeTag struct {
	Name string
}

// nestedTypeTag mirrors the {"type":{"name":...}} wire shape.
type nestedTypeTag struct {
	Type *struct {
		Name string `json:"name" yaml:"name"`
	} `json:"type" yaml:"type"`
}

// UnmarshalJSON decodes either tag shape. Unrecognised shapes yield an empty name
// rather than an error so one odd tag does not discard the whole page.
func (t *TypeTag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	t.Name = ""
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &t.Name)
	case '{':
		var nested nestedTypeTag
		if err := json.Unmarshal(data, &nested); err != nil {
			return fmt.Errorf("decoding type tag: %w", err)
		}
		if nested.Type != nil {
			t.Name = nested.Type.Name
		}
		return nil
	default:
		return nil
	}
}

// MarshalJSON always emits the bare-string form.
func (t TypeTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Name)
}

// UnmarshalYAML decodes either tag shape from a fixture file.
func (t *TypeTag) UnmarshalYAML(value *yaml.Node) error {
	t.Name = ""
	switch value.Kind {
	case yaml.ScalarNode:
		t.Name = value.Value
		return nil
	case yaml.MappingNode:
		var nested nestedTypeTag
		if err := value.Decode(&nested); err != nil {
			return fmt.Errorf("decoding type tag at line %d: %w", value.Line, err)
		}
		if nested.Type != nil {
			t.Name = nested.Type.Name
		}
		return nil
	default:
		return errors.New("type tag must be a string or a {type: {name: ...}} mapping")
	}
}

// Sprites holds the PokeAPI-style image set.
type Sprites struct {
	FrontDefault string `json:"front_default,omitempty" yaml:"front_default,omitempty"`
	BackDefault  string `json:"back_default,omitempty"  yaml:"back_default,omitempty"`
}

// Record is one catalog entry. Identity is ID; every other field is display data
// and is treated as immutable once received.
type Record struct {
	ID         ID        `json:"id"                   yaml:"id"`
	Name       string    `json:"name"                 yaml:"name"`
	Types      []TypeTag `json:"types,omitempty"      yaml:"types,omitempty"`
	FrontImage string    `json:"frontImage,omitempty" yaml:"frontImage,omitempty"`
	BackImage  string    `json:"backImage,omitempty"  yaml:"backImage,omitempty"`
	Sprites    *Sprites  `json:"sprites,omitempty"    yaml:"sprites,omitempty"`
	Region     string    `json:"region,omitempty"     yaml:"region,omitempty"`
	Weaknesses []string  `json:"weaknesses,omitempty" yaml:"weaknesses,omitempty"`
}

// TypeNames returns the type tag names in order, skipping nothing.
func (r Record) TypeNames() []string {
	names := make([]string, len(r.Types))
	for i, t := range r.Types {
		names[i] = t.Name
	}
	return names
}

// FrontImageURL returns FrontImage, falling back to Sprites.FrontDefault.
func (r Record) FrontImageURL() string {
	if r.FrontImage != "" {
		return r.FrontImage
	}
	if r.Sprites != nil {
		return r.Sprites.FrontDefault
	}
	return ""
}

// BackImageURL returns BackImage, falling back to Sprites.BackDefault.
func (r Record) BackImageURL() string {
	if r.BackImage != "" {
		return r.BackImage
	}
	if r.Sprites != nil {
		return r.Sprites.BackDefault
	}
	return ""
}

// NewTypeTags builds tags from plain names.
func NewTypeTags(names ...string) []TypeTag {
	tags := make([]TypeTag, len(names))
	for i, n := range names {
		tags[i] = TypeTag{Name: n}
	}
	return tags
}
