package entity

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionTypeNavigate ActionType = "navigate"
	ActionTypeClick    ActionType = "click"
	ActionTypeType     ActionType = "type"
	ActionTypeSelect   ActionType = "select"
	ActionTypeScroll   ActionType = "scroll"
	ActionTypeSnapshot ActionType = "snapshot"
)

// Endpoint is one route of the browser session service.
type Endpoint struct {
	Method string
	Path   string
}

func (e Endpoint) String() string {
	return e.Method + " " + e.Path
}

var endpoints = map[ActionType]Endpoint{
	ActionTypeNavigate: {Method: http.MethodPost, Path: "/navigate"},
	ActionTypeClick:    {Method: http.MethodPost, Path: "/click"},
	ActionTypeType:     {Method: http.MethodPost, Path: "/type"},
	ActionTypeSelect:   {Method: http.MethodPost, Path: "/select"},
	ActionTypeScroll:   {Method: http.MethodPost, Path: "/scroll"},
	ActionTypeSnapshot: {Method: http.MethodGet, Path: "/snapshot"},
}

// Endpoint returns the route serving the action. ok is false for unknown
// action types.
func (a ActionType) Endpoint() (Endpoint, bool) {
	e, ok := endpoints[a]

	return e, ok
}

// IsKnownEndpoint reports whether e is one of the six service routes.
func IsKnownEndpoint(e Endpoint) bool {
	for _, known := range endpoints {
		if known == e {
			return true
		}
	}

	return false
}

// ActionRequest is one agent action. Only the fields of its Type are
// meaningful.
type ActionRequest struct {
	Type      ActionType
	URL       string
	Ref       Ref
	Text      string
	Value     string
	Direction string
	Amount    int
}

func NavigateRequest(url string) ActionRequest {
	return ActionRequest{Type: ActionTypeNavigate, URL: url}
}

func ClickRequest(ref Ref) ActionRequest {
	return ActionRequest{Type: ActionTypeClick, Ref: ref}
}

func TypeRequest(ref Ref, text string) ActionRequest {
	return ActionRequest{Type: ActionTypeType, Ref: ref, Text: text}
}

func SelectRequest(ref Ref, value string) ActionRequest {
	return ActionRequest{Type: ActionTypeSelect, Ref: ref, Value: value}
}

func ScrollRequest(direction string, amount int) ActionRequest {
	return ActionRequest{Type: ActionTypeScroll, Direction: direction, Amount: amount}
}

func SnapshotRequest() ActionRequest {
	return ActionRequest{Type: ActionTypeSnapshot}
}

// Element describes one interactive element of the rendered page.
type Element struct {
	Semantic string
	Text     string
}

type ElementEntry struct {
	Ref     Ref
	Element Element
}

type Meta struct {
	URL       string
	Title     string
	TotalRefs *int
}

// PageSnapshot is the response shape shared by all six actions. Elements
// keep the order in which the service listed them.
type PageSnapshot struct {
	View     string
	Elements []ElementEntry
	Meta     Meta
}

type Task struct {
	ID          uuid.UUID
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	Steps       []Step
	Result      string
	Error       string
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

type Step struct {
	ID        uuid.UUID
	Tool      string
	Input     string
	Output    string
	Timestamp time.Time
	Success   bool
	Error     string
}

// ToolCall is one tool invocation requested by a model and its outcome.
type ToolCall struct {
	ID     string
	Name   string
	Input  string
	Output string
	Err    error
}

type AIResponse struct {
	Thought   string
	ToolCalls []ToolCall
	Complete  bool
	Result    string
}
