package schema

import (
	"agent-textweb/internal/entity"
	"strings"
)

const ToolPrefix = "textweb_"

type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
)

type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
}

// Action describes one tool: what agents see when deciding to call it and
// what Validate accepts.
type Action struct {
	Type        entity.ActionType
	Name        string
	Description string
	Params      []Param
}

var actions = []Action{
	{
		Type:        entity.ActionTypeNavigate,
		Name:        ToolPrefix + "navigate",
		Description: "Navigate to a URL and render it as a text grid. Interactive elements are marked with [ref] numbers for clicking and typing. Returns a few KB of text instead of a screenshot, no vision model needed.",
		Params: []Param{
			{Name: "url", Type: TypeString, Description: "URL to navigate to", Required: true},
		},
	},
	{
		Type:        entity.ActionTypeClick,
		Name:        ToolPrefix + "click",
		Description: "Click an interactive element by its [ref] number from the text grid.",
		Params: []Param{
			{Name: "ref", Type: TypeInteger, Description: "Element [ref] number to click", Required: true},
		},
	},
	{
		Type:        entity.ActionTypeType,
		Name:        ToolPrefix + "type",
		Description: "Type text into an input field by its [ref] number. Replaces existing content.",
		Params: []Param{
			{Name: "ref", Type: TypeInteger, Description: "Element [ref] number of the input field", Required: true},
			{Name: "text", Type: TypeString, Description: "Text to type into the field", Required: true},
		},
	},
	{
		Type:        entity.ActionTypeSelect,
		Name:        ToolPrefix + "select",
		Description: "Select an option from a dropdown by its [ref] number.",
		Params: []Param{
			{Name: "ref", Type: TypeInteger, Description: "Element [ref] number of the dropdown", Required: true},
			{Name: "value", Type: TypeString, Description: "Option value or text to select", Required: true},
		},
	},
	{
		Type:        entity.ActionTypeScroll,
		Name:        ToolPrefix + "scroll",
		Description: "Scroll the page up, down, or to the top. Returns the updated text grid.",
		Params: []Param{
			{Name: "direction", Type: TypeString, Description: "Scroll direction: up, down, or top", Required: true},
			{Name: "amount", Type: TypeInteger, Description: "Number of pages to scroll", Default: 1},
		},
	},
	{
		Type:        entity.ActionTypeSnapshot,
		Name:        ToolPrefix + "snapshot",
		Description: "Re-render the current page as text without navigating. Use after waiting for dynamic content to load.",
	},
}

// Actions returns the six tool definitions in a fixed order.
func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)

	return out
}

// Lookup finds an action by tool name ("textweb_click") or action name
// ("click").
func Lookup(name string) (Action, bool) {
	name = strings.TrimPrefix(name, ToolPrefix)

	for _, a := range actions {
		if string(a.Type) == name {
			return a, true
		}
	}

	return Action{}, false
}

// JSONSchema renders the argument schema shared by every binding.
func (a Action) JSONSchema() map[string]any {
	properties := make(map[string]any, len(a.Params))
	required := make([]string, 0, len(a.Params))

	for _, p := range a.Params {
		prop := map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}

		if p.Default != nil {
			prop["default"] = p.Default
		}

		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func (a Action) RequiredParams() []string {
	var names []string

	for _, p := range a.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}

	return names
}
