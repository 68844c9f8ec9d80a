package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Feature is a sub-topic of a Service. The API sends either a bare title string
// or an object with a title and optional markdown content; both shapes are
// decoded here so nothing downstream has to look at the raw form.
type Feature interface {
	Title() string
	Content() string
	isFeature()
}

type PlainFeature string

func (f PlainFeature) Title() string   { return string(f) }
func (f PlainFeature) Content() string { return "" }
func (PlainFeature) isFeature()        {}

type RichFeature struct {
	Name string
	Body string
}

func (f RichFeature) Title() string   { return f.Name }
func (f RichFeature) Content() string { return f.Body }
func (RichFeature) isFeature()        {}

type featureObject struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Features is an ordered feature list with shape-aware encoding.
type Features []Feature

func (fs *Features) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Features, 0, len(raws))
	for i, raw := range raws {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		switch raw[0] {
		case '"':
			var title string
			if err := json.Unmarshal(raw, &title); err != nil {
				return fmt.Errorf("feature %d: %w", i, err)
			}
			out = append(out, PlainFeature(title))
		case '{':
			var obj featureObject
			if err := json.Unmarshal(raw, &obj); err != nil {
				return fmt.Errorf("feature %d: %w", i, err)
			}
			out = append(out, RichFeature{Name: obj.Title, Body: obj.Content})
		default:
			return fmt.Errorf("feature %d: expected string or object", i)
		}
	}
	*fs = out
	return nil
}

func (fs Features) MarshalJSON() ([]byte, error) {
	items := make([]any, 0, len(fs))
	for _, f := range fs {
		items = append(items, encodeFeature(f))
	}
	return json.Marshal(items)
}

func (fs *Features) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("features: expected a sequence, line %d", node.Line)
	}
	out := make(Features, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			if item.Tag == "!!null" {
				continue
			}
			out = append(out, PlainFeature(item.Value))
		case yaml.MappingNode:
			var obj featureObject
			if err := item.Decode(&obj); err != nil {
				return err
			}
			out = append(out, RichFeature{Name: obj.Title, Body: obj.Content})
		default:
			return fmt.Errorf("features: expected string or mapping, line %d", item.Line)
		}
	}
	*fs = out
	return nil
}

func (fs Features) MarshalYAML() (any, error) {
	items := make([]any, 0, len(fs))
	for _, f := range fs {
		items = append(items, encodeFeature(f))
	}
	return items, nil
}

func encodeFeature(f Feature) any {
	switch v := f.(type) {
	case PlainFeature:
		return string(v)
	case RichFeature:
		return featureObject{Title: v.Name, Content: v.Body}
	default:
		return featureObject{Title: f.Title(), Content: f.Content()}
	}
}

// HasContent reports whether f carries markdown of its own.
func HasContent(f Feature) bool {
	return f != nil && strings.TrimSpace(f.Content()) != ""
}
