package handlers

import (
	"github.com/bwmarrin/discordgo"

	"chick-bot/models"
)

// ToMessage converts a discordgo message into a plain record.
func ToMessage(m *discordgo.Message) models.Message {
	msg := models.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
		System:    isSystem(m.Type),
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorIsBot = m.Author.Bot
		msg.AuthorDisplayName = displayName(m.Author, m.Member)
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, models.Attachment{
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}
	return msg
}

// ToThread converts a thread channel and its parent into a plain record.
// parent may be nil when it is not known.
func ToThread(ch, parent *discordgo.Channel) models.Thread {
	thread := models.Thread{
		ID:          ch.ID,
		GuildID:     ch.GuildID,
		Name:        ch.Name,
		ParentID:    ch.ParentID,
		AppliedTags: append([]string(nil), ch.AppliedTags...),
	}
	if created, err := discordgo.SnowflakeTimestamp(ch.ID); err == nil {
		thread.CreatedAt = created
	}
	if parent != nil {
		thread.ParentName = parent.Name
		if len(parent.AvailableTags) > 0 {
			thread.AvailableTags = make(map[string]string, len(parent.AvailableTags))
			for _, tag := range parent.AvailableTags {
				thread.AvailableTags[tag.Name] = tag.ID
			}
		}
	}
	return thread
}

// Only plain messages and replies are written by people.
func isSystem(t discordgo.MessageType) bool {
	return t != discordgo.MessageTypeDefault && t != discordgo.MessageTypeReply
}

func displayName(u *discordgo.User, member *discordgo.Member) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
