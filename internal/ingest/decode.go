package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
)

var errNotCollection = errors.New("expected a list or an object with a data list")

// decodeCollection accepts a bare list or the API's {"data": [...]} envelope.
func decodeCollection[T any](raw []byte, asYAML bool) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if asYAML {
		return decodeYAML[T](raw)
	}
	return decodeJSON[T](raw)
}

func decodeJSON[T any](raw []byte) ([]T, error) {
	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var env struct {
			Data *[]T `json:"data"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, err
		}
		if env.Data == nil {
			return nil, errNotCollection
		}
		return *env.Data, nil
	}
	return nil, errNotCollection
}

func decodeYAML[T any](raw []byte) ([]T, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		root := node.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			var items []T
			if err := root.Decode(&items); err != nil {
				return nil, err
			}
			return items, nil
		case yaml.MappingNode:
			var env struct {
				Data *[]T `yaml:"data"`
			}
			if err := root.Decode(&env); err != nil {
				return nil, err
			}
			if env.Data != nil {
				return *env.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("yaml: %w", errNotCollection)
}
