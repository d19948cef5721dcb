package handlers

import (
	"bytes"
	"context"

	"github.com/bwmarrin/discordgo"

	"chick-bot/command"
	"chick-bot/models"
)

// InteractionCreate handles slash command interactions.
func (h *Handler) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	ctx := context.Background()

	ev := CommandEvent{
		Name:      i.ApplicationCommandData().Name,
		ChannelID: i.ChannelID,
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		ev.UserID = i.Member.User.ID
		ev.Permissions = i.Member.Permissions
	case i.User != nil:
		ev.UserID = i.User.ID
	}
	if ch, err := channel(s, i.ChannelID); err == nil {
		ev.Thread, _ = threadOf(s, ch)
	}

	if !command.IsDeferred(ev.Name) {
		resp := h.HandleCommand(ctx, ev)
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: resp.Content,
				Files:   ToFiles(resp.Files),
				Flags:   responseFlags(resp.Ephemeral),
			},
		}, discordgo.WithContext(ctx))
		if err != nil {
			h.logger.Error("cannot respond to command", "command", ev.Name, "error", err)
		}
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		h.logger.Error("cannot defer command", "command", ev.Name, "error", err)
		return
	}
	resp := h.HandleCommand(ctx, ev)
	_, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: resp.Content,
		Files:   ToFiles(resp.Files),
		Flags:   responseFlags(resp.Ephemeral),
	}, discordgo.WithContext(ctx))
	if err != nil {
		h.logger.Error("cannot send command followup", "command", ev.Name, "error", err)
	}
}

func responseFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// ToFiles converts outgoing attachments to discordgo files.
func ToFiles(files []models.File) []*discordgo.File {
	var out []*discordgo.File
	for _, f := range files {
		out = append(out, &discordgo.File{Name: f.Name, ContentType: f.ContentType, Reader: bytes.NewReader(f.Data)})
	}
	return out
}
