package models

import "html/template"

// Message roles as stored in the session files.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is a single chat entry. User messages carry raw text; bot messages
// carry rendered HTML and optionally a chart image path relative to the data
// dir (e.g. "media/chart_1a2b3c4d.png"). Messages are append-only.
type Message struct {
	Role  string  `json:"role"`
	Text  string  `json:"text"`
	Image *string `json:"image,omitempty"`
}

// SessionEntry is a sidebar row: a chat id plus its display state.
type SessionEntry struct {
	ID     string
	Title  string
	Pinned bool
}

// PageData feeds the chat page template.
type PageData struct {
	ChatID   string
	History  []Message
	Sessions []SessionEntry
}

// BotHTML exposes a bot message's pre-rendered text as trusted HTML for the
// template. User text goes through the template's normal escaping instead.
func (m Message) BotHTML() template.HTML {
	return template.HTML(m.Text)
}
