package parser

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// marshalJSON is json.Marshal without HTML escaping, so URLs keep their
// ampersands
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// nodeWire fixes the field names and order of a serialized Node
type nodeWire struct {
	ID         int        `json:"id" yaml:"id"`
	Parent     int        `json:"parent" yaml:"parent"`
	Kind       NodeKind   `json:"kind" yaml:"kind"`
	Text       string     `json:"text" yaml:"text"`
	Attributes Attributes `json:"attributes" yaml:"attributes"`
	Children   *Nodes     `json:"children,omitempty" yaml:"children,omitempty"`
}

func (n Node) wire() nodeWire {
	w := nodeWire{
		ID:         n.ID,
		Parent:     n.Parent,
		Kind:       n.Kind,
		Text:       n.Text,
		Attributes: n.Attributes,
	}
	if n.Children != nil {
		children := n.Children
		w.Children = &children
	}
	return w
}

// MarshalJSON implements json.Marshaler
func (n Node) MarshalJSON() ([]byte, error) {
	return marshalJSON(n.wire())
}

// MarshalYAML implements yaml.Marshaler
func (n Node) MarshalYAML() (interface{}, error) {
	return n.wire(), nil
}

// MarshalJSON writes the nodes as an object keyed by id, in list order
func (ns Nodes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range ns {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(n.ID)))
		buf.WriteByte(':')
		data, err := marshalJSON(n)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the nodes as a mapping keyed by id, in list order
func (ns Nodes) MarshalYAML() (interface{}, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, n := range ns {
		value := &yaml.Node{}
		if err := value.Encode(n); err != nil {
			return nil, err
		}
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n.ID)},
			value,
		)
	}
	return m, nil
}

// MarshalJSON writes the attributes as an object in source order
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(attr.Name)
		if err != nil {
			return nil, err
		}
		value, err := marshalJSON(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the attributes as a mapping in source order
func (a Attributes) MarshalYAML() (interface{}, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, attr := range a {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: attr.Value},
		)
	}
	return m, nil
}
