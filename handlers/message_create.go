package handlers

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// MessageCreate will be called every time a new message is created on
// any channel that the authenticated bot has access to.
func (h *Handler) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	ev := MessageEvent{
		Message: ToMessage(m.Message),
		// m.Mentions also lists the author of a pinged reply.
		MentionsBot: mentionsUser(m.Content, h.actions.SelfID()),
	}

	// Direct messages carry no guild.
	if m.GuildID == "" {
		ev.DirectMessage = true
		h.HandleMessage(context.Background(), ev)
		return
	}

	ch, err := channel(s, m.ChannelID)
	if err != nil {
		h.logger.Warn("cannot resolve channel", "channel_id", m.ChannelID, "error", err)
		return
	}
	if ch.IsThread() {
		thread, parent := threadOf(s, ch)
		ev.Thread = thread
		if parent != nil {
			ev.ChannelName = parent.Name
		}
	} else {
		ev.ChannelName = ch.Name
	}

	h.HandleMessage(context.Background(), ev)
}

// mentionsUser reports whether content mentions userID explicitly,
// "<@id>" or the legacy nickname form "<@!id>".
func mentionsUser(content, userID string) bool {
	if userID == "" {
		return false
	}
	return strings.Contains(content, "<@"+userID+">") || strings.Contains(content, "<@!"+userID+">")
}
