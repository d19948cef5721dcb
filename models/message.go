package models

import "time"

// Attachment is a file attached to a message.
type Attachment struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// Message is a transport-agnostic view of a chat message.
type Message struct {
	ID                string
	ChannelID         string
	GuildID           string // empty for direct messages
	AuthorID          string
	AuthorDisplayName string
	AuthorIsBot       bool
	Content           string
	Attachments       []Attachment
	System            bool // join notices, "thread created" announcements etc.
	Timestamp         time.Time
}

// Thread is a transport-agnostic view of a thread and its parent channel.
type Thread struct {
	ID         string
	GuildID    string
	Name       string
	ParentID   string
	ParentName string
	CreatedAt  time.Time

	// AppliedTags holds the forum tag handles currently applied.
	AppliedTags []string
	// AvailableTags is the forum's tag vocabulary, name -> handle.
	AvailableTags map[string]string
}

// Embed is a rich message block.
type Embed struct {
	Description string
	Color       int
}

// LinkButton is a button that opens a URL.
type LinkButton struct {
	Label string
	URL   string
}

// File is an in-memory file sent along with a message.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// OutgoingMessage is a message the bot sends.
type OutgoingMessage struct {
	Content string
	Embeds  []Embed
	Buttons []LinkButton
	Files   []File

	// ReplyTo, when set, makes the message a reply to the given message ID.
	ReplyTo string
	// SuppressEmbeds disables link previews.
	SuppressEmbeds bool
}
