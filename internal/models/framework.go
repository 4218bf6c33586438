package models

import (
	"strings"
)

// FrameworkID identifies a framework in the catalog
type FrameworkID string

// Field is one labeled slot of a framework
type Field struct {
	Key         string `json:"key" yaml:"key"`
	Label       string `json:"label" yaml:"label"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Framework is a fixed prompt template: an optional intro line followed by one
// "Label: value" line per field.
type Framework struct {
	ID      FrameworkID `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Tagline string      `json:"tagline" yaml:"tagline"`
	Intro   string      `json:"intro,omitempty" yaml:"intro,omitempty"`
	Fields  []Field     `json:"fields" yaml:"fields"`
}

// HasField reports whether key is one of the framework's field keys
func (f *Framework) HasField(key string) bool {
	for _, field := range f.Fields {
		if field.Key == key {
			return true
		}
	}
	return false
}

// FieldKeys returns the field keys in declared order
func (f *Framework) FieldKeys() []string {
	keys := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		keys[i] = field.Key
	}
	return keys
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (f Framework) FilterValue() string {
	return cleanString(f.Name + " " + f.Tagline + " " + string(f.ID))
}

// Title satisfies the list.Item interface
func (f Framework) Title() string {
	return cleanString(f.Name)
}

// Description satisfies the list.Item interface
func (f Framework) Description() string {
	return cleanString(f.Tagline)
}

// Values maps field keys to their current text
type Values map[string]string

// Clone returns an independent copy of v
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Extras are optional modifiers shared by every framework
type Extras struct {
	Audience    string `json:"audience,omitempty" yaml:"audience,omitempty"`
	Tone        string `json:"tone,omitempty" yaml:"tone,omitempty"`
	Length      string `json:"length,omitempty" yaml:"length,omitempty"`
	Style       string `json:"style,omitempty" yaml:"style,omitempty"`
	Constraints string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// IsBlank reports whether every extra is empty or whitespace
func (e Extras) IsBlank() bool {
	return strings.TrimSpace(e.Audience) == "" &&
		strings.TrimSpace(e.Tone) == "" &&
		strings.TrimSpace(e.Length) == "" &&
		strings.TrimSpace(e.Style) == "" &&
		strings.TrimSpace(e.Constraints) == ""
}

// cleanString removes characters that break single-line list rendering
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
