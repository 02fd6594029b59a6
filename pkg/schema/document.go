package schema

import (
	"github.com/cloudposse/tierconf/pkg/value"
)

// Document is a named configuration document. Stages never mutate a Document; they derive new ones.
type Document struct {
	Name    string      `yaml:"name" json:"name" mapstructure:"name"`
	Tier    Tier        `yaml:"tier" json:"tier" mapstructure:"tier"`
	Extends []string    `yaml:"extends,omitempty" json:"extends,omitempty" mapstructure:"extends"`
	Content value.Value `yaml:"content" json:"content" mapstructure:"content"`
	// Origin is the source location, for diagnostics.
	Origin string `yaml:"origin,omitempty" json:"origin,omitempty" mapstructure:"origin"`
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	out := d
	if d.Extends != nil {
		out.Extends = append([]string(nil), d.Extends...)
	}
	out.Content = d.Content.Clone()
	return out
}

// WithContent returns a copy of d with different content.
func (d Document) WithContent(content value.Value) Document {
	out := d.Clone()
	out.Content = content
	return out
}
