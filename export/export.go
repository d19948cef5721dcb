// Package export turns a thread and its messages into a JSON document.
package export

import (
	"bytes"
	"encoding/json"
	"time"

	"chick-bot/models"
	"chick-bot/utils"
)

// Message is one exported message.
type Message struct {
	ID         int64  `json:"id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

// Thread is an exported thread, messages oldest first.
type Thread struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// Export builds the document. messages must already be oldest first. A
// zero createdAt is exported as an empty string.
func Export(thread models.Thread, createdAt time.Time, messages []models.Message) Thread {
	out := Thread{
		ID:       mustID(thread.ID),
		Name:     thread.Name,
		Messages: make([]Message, 0, len(messages)),
	}
	if !createdAt.IsZero() {
		out.CreatedAt = createdAt.Format(time.RFC3339Nano)
	}
	for _, m := range messages {
		out.Messages = append(out.Messages, Message{
			ID:         mustID(m.ID),
			AuthorID:   mustID(m.AuthorID),
			AuthorName: m.AuthorDisplayName,
			Content:    m.Content,
			CreatedAt:  m.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return out
}

// JSON renders the document indented, with non-ASCII text kept as is.
func (t Thread) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Snowflakes coming from Discord are always numeric.
func mustID(id string) int64 {
	v, _ := utils.ParseID(id)
	return v
}
