// Package hint carries the feature a visitor picked from a service card so a
// feature page can still be found when its slug no longer matches any title.
// It is a best-effort convenience; structured resolution never depends on it.
package hint

import "sync"

const (
	KeyFeatureTitle = "selectedFeatureTitle"
	KeyServiceSlug  = "selectedServiceSlug"
	KeyServiceTitle = "selectedServiceTitle"
	KeyFeatureSlug  = "selectedFeatureSlug"
)

// Keys lists every key a selection writes; they are always cleared together.
var Keys = []string{KeyFeatureTitle, KeyServiceSlug, KeyServiceTitle, KeyFeatureSlug}

type Context interface {
	Get(key string) (string, bool)
	Clear()
}

// Selection is the decoded form of a stored hint.
type Selection struct {
	FeatureTitle string
	FeatureSlug  string
	ServiceSlug  string
	ServiceTitle string
}

// Read pulls a selection out of c. ok is false when the service slug or both
// feature fields are missing.
func Read(c Context) (Selection, bool) {
	if c == nil {
		return Selection{}, false
	}
	var sel Selection
	sel.FeatureTitle, _ = c.Get(KeyFeatureTitle)
	sel.FeatureSlug, _ = c.Get(KeyFeatureSlug)
	sel.ServiceSlug, _ = c.Get(KeyServiceSlug)
	sel.ServiceTitle, _ = c.Get(KeyServiceTitle)
	if sel.ServiceSlug == "" || (sel.FeatureTitle == "" && sel.FeatureSlug == "") {
		return sel, false
	}
	return sel, true
}

func (s Selection) Values() map[string]string {
	return map[string]string{
		KeyFeatureTitle: s.FeatureTitle,
		KeyFeatureSlug:  s.FeatureSlug,
		KeyServiceSlug:  s.ServiceSlug,
		KeyServiceTitle: s.ServiceTitle,
	}
}

// Memory is an in-process Context.
type Memory struct {
	mu   sync.Mutex
	vals map[string]string
}

func NewMemory(sel Selection) *Memory {
	m := &Memory{vals: make(map[string]string)}
	for k, v := range sel.Values() {
		if v != "" {
			m.vals[k] = v
		}
	}
	return m
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.vals)
}
