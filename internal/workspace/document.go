package workspace

import "time"

// Document is a piece of uploaded text content that belongs to one class.
type Document struct {
	ID      int       `json:"id" yaml:"id" toml:"id"`
	Name    string    `json:"name" yaml:"name" toml:"name"`
	Source  string    `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Content string    `json:"content" yaml:"content" toml:"content"`
	Tokens  int       `json:"tokens" yaml:"tokens" toml:"tokens"`
	AddedAt time.Time `json:"added_at" yaml:"added_at" toml:"added_at"`
}

// Class groups documents under a name. Classes are never deleted.
type Class struct {
	Name      string     `json:"name" yaml:"name" toml:"name"`
	Documents []Document `json:"documents" yaml:"documents" toml:"documents"`
}

func (c *Class) clone() Class {
	docs := make([]Document, len(c.Documents))
	copy(docs, c.Documents)
	return Class{Name: c.Name, Documents: docs}
}
