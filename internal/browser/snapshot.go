package browser

import (
	"agent-textweb/internal/entity"
	"errors"

	"github.com/tidwall/gjson"
)

var (
	errInvalidJSON = errors.New("response body is not valid JSON")
	errNotObject   = errors.New("response body is not a JSON object")
)

// DecodeSnapshot parses a session service response. The elements object is
// walked in document order so the agent sees refs the way the service
// listed them.
func DecodeSnapshot(raw []byte) (*entity.PageSnapshot, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errInvalidJSON
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, errNotObject
	}

	snapshot := &entity.PageSnapshot{
		View: stringField(doc, "view"),
	}

	elements := doc.Get("elements")
	if elements.IsObject() {
		elements.ForEach(func(key, value gjson.Result) bool {
			snapshot.Elements = append(snapshot.Elements, entity.ElementEntry{
				Ref: entity.Ref(key.String()),
				Element: entity.Element{
					Semantic: stringField(value, "semantic"),
					Text:     stringField(value, "text"),
				},
			})

			return true
		})
	}

	meta := doc.Get("meta")
	snapshot.Meta.URL = stringField(meta, "url")
	snapshot.Meta.Title = stringField(meta, "title")

	if total := meta.Get("totalRefs"); total.Type == gjson.Number {
		n := int(total.Int())
		snapshot.Meta.TotalRefs = &n
	}

	return snapshot, nil
}

func stringField(obj gjson.Result, key string) string {
	if !obj.IsObject() {
		return ""
	}

	v := obj.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}

	return v.String()
}
