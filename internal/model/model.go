package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NotAvailable is what the name service answers for codes it cannot resolve.
const NotAvailable = "N/A"

type OptionImage struct {
	Key   string `json:"key"`
	Image string `json:"image"`
}

// OptionImageMap maps option keys to image references, keeping insertion order.
// The zero value is an empty map. Values are immutable once built.
type OptionImageMap struct {
	entries []OptionImage
	index   map[string]int
}

func NewOptionImageMap(entries ...OptionImage) (OptionImageMap, error) {
	m := OptionImageMap{
		entries: make([]OptionImage, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := m.index[e.Key]; dup {
			return OptionImageMap{}, fmt.Errorf("duplicate option key: %q", e.Key)
		}
		m.index[e.Key] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m, nil
}

// MustOptionImageMap builds a map from alternating key/image pairs. It panics on
// odd argument counts or duplicate keys; meant for fixtures and tests.
func MustOptionImageMap(kv ...string) OptionImageMap {
	if len(kv)%2 != 0 {
		panic("model: MustOptionImageMap needs key/image pairs")
	}
	entries := make([]OptionImage, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		entries = append(entries, OptionImage{Key: kv[i], Image: kv[i+1]})
	}
	m, err := NewOptionImageMap(entries...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m OptionImageMap) Len() int { return len(m.entries) }

func (m OptionImageMap) Keys() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Key)
	}
	return out
}

// Entries returns a copy of the entries in map order.
func (m OptionImageMap) Entries() []OptionImage {
	out := make([]OptionImage, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m OptionImageMap) Image(key string) (string, bool) {
	i, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.entries[i].Image, true
}

func (m OptionImageMap) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

func (m OptionImageMap) First() (OptionImage, bool) {
	if len(m.entries) == 0 {
		return OptionImage{}, false
	}
	return m.entries[0], true
}

// MarshalJSON writes a JSON object whose keys keep map order.
func (m OptionImageMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Image)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LawGroup is one entry of the default state's "laws" object.
//
// Column holds the decoded column value as it arrived (usually a float64 from
// JSON); the grid validates it when the group is placed.
type LawGroup struct {
	Name    string         `json:"name"`
	Options OptionImageMap `json:"options"`
	Column  any            `json:"column"`
}

type DefaultState struct {
	Laws      []LawGroup `json:"laws"`
	Countries []string   `json:"countries"`
}

type CountryEntry struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// DisplayName picks what to show for a country given the name service answer.
func DisplayName(code, resolved string) string {
	if strings.TrimSpace(resolved) == "" || resolved == NotAvailable {
		return code
	}
	return resolved
}
