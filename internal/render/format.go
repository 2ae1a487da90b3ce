package render

import (
	"agent-textweb/internal/entity"
	"strconv"
	"strings"
)

const (
	unknownMeta     = "unknown"
	unknownSemantic = "?"
	noText          = "(no text)"
)

type Formatter struct {
	refCount bool
}

type Option func(*Formatter)

// WithRefCount adds a "Refs: <n>" header line whenever the snapshot carries
// meta.totalRefs.
func WithRefCount(enabled bool) Option {
	return func(f *Formatter) {
		f.refCount = enabled
	}
}

func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Format renders a snapshot as the text block handed back to the agent:
//
//	URL: <url>
//	Title: <title>
//	[Refs: <n>]
//
//	<view>
//
//	Interactive elements:
//	[<ref>] <semantic>: <text>
//
// Elements are written in snapshot order.
func (f *Formatter) Format(snapshot *entity.PageSnapshot) string {
	if snapshot == nil {
		snapshot = &entity.PageSnapshot{}
	}

	var b strings.Builder

	b.WriteString("URL: ")
	b.WriteString(orDefault(snapshot.Meta.URL, unknownMeta))
	b.WriteString("\nTitle: ")
	b.WriteString(orDefault(snapshot.Meta.Title, unknownMeta))
	b.WriteString("\n")

	if f.refCount && snapshot.Meta.TotalRefs != nil {
		b.WriteString("Refs: ")
		b.WriteString(strconv.Itoa(*snapshot.Meta.TotalRefs))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(snapshot.View)
	b.WriteString("\n\nInteractive elements:\n")

	for i, entry := range snapshot.Elements {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("[")
		b.WriteString(entry.Ref.String())
		b.WriteString("] ")
		b.WriteString(orDefault(entry.Element.Semantic, unknownSemantic))
		b.WriteString(": ")
		b.WriteString(orDefault(entry.Element.Text, noText))
	}

	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
