package commands

import (
	"strings"
)

// Reply is one outbound message. When Embed is set platforms that support rich messages
// render it, the rest fall back to PlainText.
type Reply struct {
	Text  string
	Embed *Embed
}

// Embed is a rich display block.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
}

// Field is a labeled section of an embed.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Text builds a plain text reply.
func Text(s string) Reply {
	return Reply{Text: s}
}

// PlainText renders the reply for text-only platforms.
func (r Reply) PlainText() string {
	if r.Embed == nil {
		return r.Text
	}
	parts := make([]string, 0, 4+len(r.Embed.Fields))
	if r.Text != "" {
		parts = append(parts, r.Text)
	}
	if r.Embed.Title != "" {
		parts = append(parts, r.Embed.Title)
	}
	if r.Embed.Description != "" {
		parts = append(parts, r.Embed.Description)
	}
	for _, f := range r.Embed.Fields {
		parts = append(parts, f.Name+": "+f.Value)
	}
	if r.Embed.Footer != "" {
		parts = append(parts, "("+r.Embed.Footer+")")
	}
	return strings.Join(parts, " | ")
}
