package domain

import (
	"html/template"
	"strings"
)

const (
	ModuleTickets  = "tickets"
	ModuleProjects = "projects"

	TypeProjectUpdate = "projectUpdate"
)

// EntityEvent is the payload of the "entity notify" event.
type EntityEvent struct {
	Type     string `json:"type" validate:"required"`
	Module   string `json:"module" validate:"required"`
	ModuleID int64  `json:"moduleId" validate:"required,gt=0"`
	URL      string `json:"url"`
	AuthorID int64  `json:"authorId,omitempty"`
}

// Recipient is a candidate user with resolved preferences.
type Recipient struct {
	User
	MessageFrequency string `json:"messageFrequency,omitempty"`
	Language         string `json:"language"`
}

// NotificationValues carries everything the renderer needs for one event.
type NotificationValues struct {
	Type      string      `json:"type"`
	Module    string      `json:"module"`
	ID        int64       `json:"id"`
	ProjectID int64       `json:"projectId"`
	Headline  string      `json:"headline"`
	AuthorID  int64       `json:"authorId"`
	URL       string      `json:"url"`
	Users     []Recipient `json:"users"`
}

type CallToAction struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// NotificationTarget is one rendered outgoing notification. Never persisted.
type NotificationTarget struct {
	Recipient Recipient
	Subject   string
	Message   string
	CTA       *CallToAction
	Module    string
	Type      string
	EntityID  int64
	ProjectID int64
	AuthorID  int64
}

// Body joins the message and the optional call-to-action anchor. Message is
// expected to be HTML already; the anchor parts are escaped here.
func (t NotificationTarget) Body() string {
	if t.CTA == nil || t.CTA.URL == "" {
		return t.Message
	}
	return t.Message + " <a href='" + template.HTMLEscapeString(t.CTA.URL) + "'>" + template.HTMLEscapeString(t.CTA.Label) + "</a>"
}

func NormalizeModule(module string) string {
	return strings.ToLower(strings.TrimSpace(module))
}

// QueuedMessage is a row of the host message queue.
type QueuedMessage struct {
	MsgHash   string `db:"msghash"`
	Channel   string `db:"channel"`
	UserID    int64  `db:"user_id"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	ProjectID int64  `db:"project_id"`
}
