package handlers

import (
	"github.com/bwmarrin/discordgo"

	"chick-bot/models"
)

// Register adds all event handlers to the session.
func Register(s *discordgo.Session, h *Handler) {
	s.AddHandler(h.MessageCreate)
	s.AddHandler(h.ThreadCreate)
	s.AddHandler(h.InteractionCreate)

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		h.logger.Info("logged in", "username", r.User.Username, "guilds", len(r.Guilds))
	})
}

// channel looks channelID up in the state cache first.
func channel(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if s.State != nil {
		if ch, err := s.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	return s.Channel(channelID)
}

// threadOf returns ch as a thread together with its parent, or nil when
// ch is not a thread.
func threadOf(s *discordgo.Session, ch *discordgo.Channel) (*models.Thread, *discordgo.Channel) {
	if !ch.IsThread() {
		return nil, nil
	}
	parent, err := channel(s, ch.ParentID)
	if err != nil {
		parent = nil
	}
	thread := ToThread(ch, parent)
	return &thread, parent
}
