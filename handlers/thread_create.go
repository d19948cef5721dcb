package handlers

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// ThreadCreate handles the THREAD_CREATE event. Joining an existing
// thread also fires it, only new threads are handled.
func (h *Handler) ThreadCreate(s *discordgo.Session, t *discordgo.ThreadCreate) {
	if !t.NewlyCreated {
		return
	}
	var parent *discordgo.Channel
	if t.ParentID != "" {
		p, err := channel(s, t.ParentID)
		if err != nil {
			h.logger.Warn("cannot resolve thread parent", "thread_id", t.ID, "error", err)
		} else {
			parent = p
		}
	}
	h.HandleThreadCreate(context.Background(), ToThread(t.Channel, parent))
}
