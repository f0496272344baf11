package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/statemachine"
)

// LoadYAML parses data as a YAML-encoded ASL document. ASL tooling in
// the wild (AWS SAM templates, Serverless Framework) commonly authors
// state machines as YAML, but the Type-discriminated dispatch this
// package needs lives once, in the JSON decode path; YAML is bridged
// ahead of it rather than duplicated.
func LoadYAML(data []byte) (*statemachine.StateMachine, error) {
	jsonBytes, err := yamlToJSON(data)
	if err != nil {
		return nil, aslerrors.NewSerializationError("translating YAML to JSON", err)
	}
	return deserialize(jsonBytes)
}

// DumpYAML renders sm as YAML, built from the same ordered field layout
// Serialize uses for JSON so key order survives the bridge.
func DumpYAML(sm *statemachine.StateMachine) ([]byte, error) {
	om, err := encodeMachine(sm)
	if err != nil {
		return nil, aslerrors.NewSerializationError("encoding state machine", err)
	}
	b, err := yaml.Marshal(om)
	if err != nil {
		return nil, aslerrors.NewSerializationError("marshaling YAML", err)
	}
	return b, nil
}

// MarshalYAML lets a *yaml.Node carry orderedMap's key order through
// gopkg.in/yaml.v3's encoder the same way MarshalJSON does for
// encoding/json.
func (o orderedMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range o {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(p.Key); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(p.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yamlNodeToJSON(&doc)
}

func yamlNodeToJSON(n *yaml.Node) ([]byte, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return []byte("null"), nil
		}
		return yamlNodeToJSON(n.Content[0])
	case yaml.MappingNode:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i := 0; i < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyBytes, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return nil, err
			}
			buf.Write(keyBytes)
			buf.WriteByte(':')
			valBytes, err := yamlNodeToJSON(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			buf.Write(valBytes)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case yaml.SequenceNode:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := yamlNodeToJSON(c)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case yaml.AliasNode:
		return yamlNodeToJSON(n.Alias)
	case yaml.ScalarNode:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
	}
}
