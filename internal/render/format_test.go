package render

import (
	"agent-textweb/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int {
	return &i
}

func homeSnapshot() *entity.PageSnapshot {
	return &entity.PageSnapshot{
		View: "HOME",
		Elements: []entity.ElementEntry{
			{Ref: "1", Element: entity.Element{Semantic: "button", Text: "Login"}},
		},
		Meta: entity.Meta{URL: "http://x", Title: "X", TotalRefs: intPtr(1)},
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	got := NewFormatter().Format(homeSnapshot())

	assert.Equal(t, "URL: http://x\nTitle: X\n\nHOME\n\nInteractive elements:\n[1] button: Login", got)
}

func TestFormat_RefCount(t *testing.T) {
	got := NewFormatter(WithRefCount(true)).Format(homeSnapshot())

	assert.Equal(t, "URL: http://x\nTitle: X\nRefs: 1\n\nHOME\n\nInteractive elements:\n[1] button: Login", got)

	snapshot := homeSnapshot()
	snapshot.Meta.TotalRefs = nil

	assert.NotContains(t, NewFormatter(WithRefCount(true)).Format(snapshot), "Refs:")
}

func TestFormat_MissingFieldDefaults(t *testing.T) {
	snapshot := &entity.PageSnapshot{
		View: "grid",
		Elements: []entity.ElementEntry{
			{Ref: "3", Element: entity.Element{Semantic: "link"}},
			{Ref: "4", Element: entity.Element{Text: "Go"}},
			{Ref: "5"},
		},
	}

	got := NewFormatter().Format(snapshot)

	want := "URL: unknown\nTitle: unknown\n\ngrid\n\nInteractive elements:\n" +
		"[3] link: (no text)\n" +
		"[4] ?: Go\n" +
		"[5] ?: (no text)"
	assert.Equal(t, want, got)
}

func TestFormat_KeepsServiceOrder(t *testing.T) {
	snapshot := &entity.PageSnapshot{
		View: "v",
		Elements: []entity.ElementEntry{
			{Ref: "10", Element: entity.Element{Semantic: "button", Text: "B"}},
			{Ref: "2", Element: entity.Element{Semantic: "input", Text: "A"}},
		},
		Meta: entity.Meta{URL: "u", Title: "t"},
	}

	got := NewFormatter().Format(snapshot)

	assert.Equal(t, "URL: u\nTitle: t\n\nv\n\nInteractive elements:\n[10] button: B\n[2] input: A", got)
}

func TestFormat_NoElements(t *testing.T) {
	got := NewFormatter().Format(&entity.PageSnapshot{View: "empty", Meta: entity.Meta{URL: "u", Title: "t"}})

	assert.Equal(t, "URL: u\nTitle: t\n\nempty\n\nInteractive elements:\n", got)
}

func TestFormat_NilSnapshot(t *testing.T) {
	assert.Equal(t, "URL: unknown\nTitle: unknown\n\n\n\nInteractive elements:\n", NewFormatter().Format(nil))
}
